package main

import (
	"github.com/zeroonecreation/classify/core"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	adm, err := cli.adminSvc.GetByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	_, err = cli.adminSvc.SetPassword(adm.ID, pwd)
	return err
}
