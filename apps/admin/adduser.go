package main

import (
	"github.com/pkg/errors"

	"github.com/Einzelgaanger/darasa/core"
	"github.com/Einzelgaanger/darasa/core/user"
)

// addUser creates a user.User, bypassing the password policy so operators can
// seed throwaway accounts. Admission numbers stay unique.
func (cli *commandLine) addUser(name, admNo, email, pwd string, isAdmin bool) error {
	admNo = core.CleanString(admNo, true /* lower */)

	if _, err := cli.usrSvc.GetByAdmissionNo(admNo); err == nil {
		return user.ErrAdmissionNoExists
	} else if errors.Cause(err) != user.ErrNotFound {
		return err
	}

	roles := []string{user.RoleStudent}
	if isAdmin {
		roles = user.AllRoles
	}
	nu := user.NewUser{
		Name:        core.CleanString(name),
		AdmissionNo: admNo,
		Email:       core.CleanString(email, true /* lower */),
		Password:    pwd,
		Roles:       roles,
	}
	_, err := cli.usrSvc.Create(nu)
	return err
}
