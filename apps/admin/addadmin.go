package main

import (
	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core"
	"github.com/zeroonecreation/classify/core/admin"
)

// addAdmin creates an admin account, or resets the password of an existing
// one with the same email.
func (cli *commandLine) addAdmin(name, email, pwd string) error {
	email = core.CleanString(email, true /* lower */)

	adm, err := cli.adminSvc.GetByEmail(email)
	if err == nil {
		_, err = cli.adminSvc.SetPassword(adm.ID, pwd)
		return err
	}
	if errors.Cause(err) != admin.ErrNotFound {
		return err
	}

	data := admin.NewAdmin{Name: name, Email: email, Password: pwd}
	if err = data.Validate(cli.adminSvc); err != nil {
		return err
	}
	_, err = cli.adminSvc.Create(data)
	return err
}
