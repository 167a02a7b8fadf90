package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/alert"
	"github.com/trezcool/mahudhurio/core/attendance"
)

var (
	isTerminalFunc = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) } // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf     *core.Config
	db       *sql.DB
	attSvc   *attendance.Service
	alertSvc *alert.Service
	mailer   core.EmailService
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status...)")
	fmt.Fprintln(cli.out, "  report [-student ID[,ID]] [-subject ID] [-horizon N] [-json] - print the attendance trend")
	fmt.Fprintln(cli.out, "  alerts [-subject ID] [-dry] - email the teachers about their at-risk students")
	fmt.Fprintln(cli.out, "  token -user ID -role ROLE [-name NAME] [-email EMAIL] - issue an API access token")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportCmd.SetOutput(cli.out)
	reportStudent := reportCmd.String("student", "", "Comma-separated student IDs.")
	reportSubject := reportCmd.String("subject", "", "Subject ID.")
	reportHorizon := reportCmd.Int("horizon", 0, "Number of periods to project (0 uses the configured default).")
	reportJSON := reportCmd.Bool("json", false, "Print JSON even when stdout is a terminal.")

	alertsCmd := flag.NewFlagSet("alerts", flag.ContinueOnError)
	alertsCmd.SetOutput(cli.out)
	alertsSubject := alertsCmd.String("subject", "", "Subject ID.")
	alertsDry := alertsCmd.Bool("dry", false, "Print the alerts instead of sending them.")

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenCmd.SetOutput(cli.out)
	tokenUser := tokenCmd.String("user", "", "User ID (the student ID for students).")
	tokenRoles := tokenCmd.String("role", "", "Comma-separated roles.")
	tokenName := tokenCmd.String("name", "", "User's name.")
	tokenEmail := tokenCmd.String("email", "", "User's email.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		filter := attendance.QueryFilter{SubjectID: *reportSubject}
		if *reportStudent != "" {
			filter.StudentIDs = strings.Split(*reportStudent, ",")
		}
		asJSON := *reportJSON || !isTerminalFunc()
		return cli.report(filter, *reportHorizon, asJSON)

	case "alerts":
		if err := alertsCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.alerts(attendance.QueryFilter{SubjectID: *alertsSubject}, *alertsDry)

	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *tokenUser == "" || *tokenRoles == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(*tokenUser, strings.Split(*tokenRoles, ","), *tokenName, *tokenEmail)

	default:
		cli.printUsage()
		return errHelp
	}
}
