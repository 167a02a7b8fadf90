package main

import (
	"context"
	"fmt"

	"github.com/trezcool/mahudhurio/core/attendance"
)

func (cli *commandLine) alerts(filter attendance.QueryFilter, dry bool) error {
	ctx := context.Background()
	send := cli.alertSvc.Notify
	if dry {
		send = cli.alertSvc.Build
	}

	alerts, err := send(ctx, filter)
	if err != nil {
		return err
	}
	// mailers send in the background
	cli.mailer.Wait()

	for _, a := range alerts {
		fmt.Fprintf(cli.out, "%s (%s <%s>): %d student(s) at risk\n", a.SubjectID, a.TeacherName, a.TeacherEmail, len(a.Students))
	}
	if dry {
		fmt.Fprintf(cli.out, "%d alert(s) to send\n", len(alerts))
	} else {
		fmt.Fprintf(cli.out, "%d alert(s) sent\n", len(alerts))
	}
	return nil
}
