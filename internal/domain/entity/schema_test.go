package entity_test

import (
	"regexp"
	"strings"
	"sync"
	"testing"

	"hospital-appointment-service/internal/domain/entity"
	"hospital-appointment-service/migrations"

	"gorm.io/gorm/schema"
)

// Sized column types declared on the models must match the migration DDL.
func TestModelColumnSizesMatchMigration(t *testing.T) {
	ddl, err := migrations.FS.ReadFile("000001_init_schema.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}

	models := []interface{}{
		&entity.User{},
		&entity.DoctorProfile{},
		&entity.PatientProfile{},
		&entity.Appointment{},
		&entity.AuditLog{},
	}
	for _, model := range models {
		s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
		if err != nil {
			t.Fatalf("parse %T: %v", model, err)
		}
		table := tableDDL(t, string(ddl), s.Table)

		for _, field := range s.Fields {
			declared := strings.ToLower(field.TagSettings["TYPE"])
			if field.DBName == "" || !strings.Contains(declared, "(") {
				continue
			}
			column := regexp.MustCompile(`(?m)^\s+` + field.DBName + `\s+([A-Za-z]+\(\d+\))`).FindStringSubmatch(table)
			if column == nil {
				t.Fatalf("%s.%s: column missing from migration", s.Table, field.DBName)
			}
			if got := strings.ToLower(column[1]); got != declared {
				t.Fatalf("%s.%s: model declares %s, migration has %s", s.Table, field.DBName, declared, got)
			}
		}
	}
}

func tableDDL(t *testing.T, ddl, table string) string {
	t.Helper()
	start := strings.Index(ddl, "CREATE TABLE IF NOT EXISTS "+table+" (")
	if start < 0 {
		t.Fatalf("table %s missing from migration", table)
	}
	end := strings.Index(ddl[start:], "\n);")
	if end < 0 {
		t.Fatalf("table %s not terminated", table)
	}
	return ddl[start : start+end]
}
