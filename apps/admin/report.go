package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

func (cli *commandLine) report(filter attendance.QueryFilter, horizon int, asJSON bool) error {
	if err := filter.Validate(core.NewValidator(core.NewTranslator())); err != nil {
		return err
	}
	report, err := cli.attSvc.Trend(context.Background(), filter, horizon)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return printReport(cli, report)
}

func printReport(cli *commandLine, report attendance.TrendReport) error {
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "status:\t%s\n", report.Status)
	if report.Status == attendance.StatusEmpty {
		return w.Flush()
	}
	fmt.Fprintf(w, "attendance:\t%d%% (%s risk)\n", report.Percent, report.Risk)
	fmt.Fprintf(w, "trend:\t%s\n", report.Direction)
	if report.Dropped > 0 {
		fmt.Fprintf(w, "dropped:\t%d record(s) without date\n", report.Dropped)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PERIOD\tTOTAL\tPRESENT\tRATIO")
	for _, pa := range report.Historical {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0f%%\n", pa.Period, pa.Total, pa.Present, pa.Percent())
	}
	if report.Projection != nil {
		for _, pp := range report.Projection.Projected {
			fmt.Fprintf(w, "%s\t-\t-\t%d%% (projected)\n", pp.Period, pp.Ratio)
		}
	}
	return w.Flush()
}
