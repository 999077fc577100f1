package database

import (
	"bufio"
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeroonecreation/classify/core/admin"
	"github.com/zeroonecreation/classify/core/course"
	"github.com/zeroonecreation/classify/core/payment"
	"github.com/zeroonecreation/classify/core/slider"
	"github.com/zeroonecreation/classify/core/student"
	appfs "github.com/zeroonecreation/classify/fs"
)

// migrationColumns parses the CREATE TABLE statements out of the embedded
// migrations and returns the declared columns per table.
func migrationColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()

	entries, err := appfs.FS.ReadDir("migrations")
	require.NoError(t, err)

	tables := make(map[string]map[string]bool)
	for _, entry := range entries {
		data, err := appfs.FS.ReadFile("migrations/" + entry.Name())
		require.NoError(t, err)

		var current map[string]bool
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if name, ok := strings.CutPrefix(line, "CREATE TABLE "); ok {
				current = make(map[string]bool)
				tables[strings.TrimSpace(name)] = current
				continue
			}
			if current == nil {
				continue
			}
			if strings.HasPrefix(line, ")") {
				current = nil
				continue
			}
			if line == "" || strings.HasPrefix(line, "--") {
				continue
			}
			field := strings.TrimSuffix(strings.Fields(line)[0], ",")
			switch field {
			case "(", "PRIMARY", "FOREIGN", "CONSTRAINT", "UNIQUE", "CHECK":
				continue
			}
			current[field] = true
		}
		require.NoError(t, scanner.Err())
	}
	return tables
}

// Every db-tagged model field must exist as a column in the migration DDL.
// sqlx SELECT * queries fail on any drift between the two, so this guards
// the real Postgres backend that the in-memory handler tests never touch.
func Test_migrations_matchModelTags(t *testing.T) {
	tables := migrationColumns(t)

	models := []struct {
		table string
		model interface{}
	}{
		{"admin", admin.Admin{}},
		{"student", student.Student{}},
		{"course", course.Course{}},
		{"subject", course.Subject{}},
		{"chapter", course.Chapter{}},
		{"video", course.Video{}},
		{"payment", payment.Payment{}},
		{"slider", slider.Slider{}},
	}
	for _, m := range models {
		t.Run(m.table, func(t *testing.T) {
			cols, ok := tables[m.table]
			require.True(t, ok, "no CREATE TABLE %s in migrations", m.table)

			typ := reflect.TypeOf(m.model)
			for i := 0; i < typ.NumField(); i++ {
				tag := typ.Field(i).Tag.Get("db")
				if tag == "" || tag == "-" {
					continue
				}
				require.True(t, cols[tag], "%s.%s has no column for db tag %q", m.table, typ.Field(i).Name, tag)
			}

			// and the other way round, so SELECT * scans cleanly
			tagged := make(map[string]bool)
			for i := 0; i < typ.NumField(); i++ {
				if tag := typ.Field(i).Tag.Get("db"); tag != "" && tag != "-" {
					tagged[tag] = true
				}
			}
			for col := range cols {
				require.True(t, tagged[col], "column %s.%s has no db-tagged model field", m.table, col)
			}
		})
	}
}
