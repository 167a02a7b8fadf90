package main

import (
	"fmt"
	"strings"

	echoapi "github.com/trezcool/mahudhurio/apps/api/echo"
	"github.com/trezcool/mahudhurio/core/user"
)

// token prints a signed API access token. Roles may omit the trailing colon: "student" means "student:".
func (cli *commandLine) token(id string, roles []string, name, email string) error {
	usr := user.User{ID: id, Name: name, Email: email}
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if !strings.Contains(role, ":") {
			role += ":"
		}
		if !user.IsValidRole(role) {
			return fmt.Errorf("invalid role %q", role)
		}
		usr.Roles = append(usr.Roles, role)
	}

	token, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr, cli.conf), cli.conf.SecretKey)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
