package main

import (
	"database/sql"
	"testing"

	"github.com/zeroonecreation/classify/core/admin"
	dummydb "github.com/zeroonecreation/classify/storage/database/dummy"
)

func setup(t *testing.T) (*commandLine, admin.Service) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	svc := admin.NewService(dummydb.NewAdminRepository(db))
	return &commandLine{adminSvc: svc}, svc
}

func mockPassword(pwd string) {
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), nil }
}

func Test_commandLine_addAdmin(t *testing.T) {
	cli, svc := setup(t)
	mockPassword("s3cret!")

	if err := cli.run([]string{"admin", "addadmin", "-name", "Root", "-email", "Root@Classify.test"}); err != nil {
		t.Fatalf("addadmin failed: %v", err)
	}

	adm, err := svc.GetByEmail("root@classify.test")
	if err != nil {
		t.Fatalf("admin was not created: %v", err)
	}
	if err = adm.CheckPassword("s3cret!"); err != nil {
		t.Errorf("password was not set: %v", err)
	}

	// running again resets the password instead of failing on the
	// unique email
	mockPassword("changed!")
	if err = cli.run([]string{"admin", "addadmin", "-name", "Root", "-email", "root@classify.test"}); err != nil {
		t.Fatalf("addadmin rerun failed: %v", err)
	}
	adm, _ = svc.GetByEmail("root@classify.test")
	if err = adm.CheckPassword("changed!"); err != nil {
		t.Errorf("password was not reset: %v", err)
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, svc := setup(t)

	if _, err := svc.Create(admin.NewAdmin{Name: "Root", Email: "root@classify.test", Password: "old-pwd"}); err != nil {
		t.Fatalf("setup admin failed: %v", err)
	}

	mockPassword("new-pwd")
	if err := cli.run([]string{"admin", "resetpassword", "-email", "root@classify.test"}); err != nil {
		t.Fatalf("resetpassword failed: %v", err)
	}

	adm, _ := svc.GetByEmail("root@classify.test")
	if err := adm.CheckPassword("new-pwd"); err != nil {
		t.Errorf("password was not reset: %v", err)
	}

	if err := cli.run([]string{"admin", "resetpassword", "-email", "nobody@classify.test"}); err == nil {
		t.Error("expected an error for an unknown admin")
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	var gotCommand string
	var gotArgs []string
	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		gotCommand = command
		gotArgs = args
		return nil
	}

	if err := cli.run([]string{"admin", "migrate", "up-to", "2"}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if gotCommand != "up-to" {
		t.Errorf("command = %q; want %q", gotCommand, "up-to")
	}
	if len(gotArgs) != 1 || gotArgs[0] != "2" {
		t.Errorf("args = %v; want [2]", gotArgs)
	}

	if err := cli.run([]string{"admin", "migrate"}); err != errHelp {
		t.Errorf("expected errHelp for missing command, got %v", err)
	}
}

func Test_commandLine_help(t *testing.T) {
	cli, _ := setup(t)

	for _, args := range [][]string{
		{"admin"},
		{"admin", "unknown"},
		{"admin", "addadmin"},
		{"admin", "resetpassword"},
	} {
		if err := cli.run(args); err != errHelp {
			t.Errorf("run(%v) = %v; want errHelp", args, err)
		}
	}
}
