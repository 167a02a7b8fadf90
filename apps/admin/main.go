package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/alert"
	"github.com/trezcool/mahudhurio/core/attendance"
	appfs "github.com/trezcool/mahudhurio/fs"
	emailsvc "github.com/trezcool/mahudhurio/services/email"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
	"github.com/trezcool/mahudhurio/storage/database"
	sqlxrepos "github.com/trezcool/mahudhurio/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	// set up DB
	db, err := database.Open(context.Background(), conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer db.Close()

	if err = core.ParseEmailTemplates(appfs.FS, true); err != nil {
		logger.Fatal("parsing email templates", err)
	}

	// set up services
	var mailer core.EmailService
	if conf.Debug {
		mailer = emailsvc.NewConsoleService(conf, log.New(os.Stdout, "MAIL : ", log.LstdFlags))
	} else {
		mailer = emailsvc.NewSendgridService(conf, logger)
	}
	attSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db), attendance.SettingsFromConfig(conf.Report))

	// start CLI
	cli := commandLine{
		conf:     conf,
		db:       db,
		attSvc:   attSvc,
		alertSvc: alert.NewService(attSvc, mailer, conf),
		mailer:   mailer,
		out:      os.Stdout,
	}
	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		db.Close()
		os.Exit(1)
	}
}
