package database

import (
	"io/fs"
	"strings"
	"testing"

	"hospital-appointment-service/config"
	"hospital-appointment-service/migrations"
)

func TestDSN(t *testing.T) {
	cfg := config.DBConfig{Host: "db", Port: "5432", User: "app", Password: "secret", Name: "hospital", SSLMode: "disable", TimeZone: "UTC"}

	dsn := DSN(cfg)
	for _, part := range []string{"host=db", "dbname=hospital", "sslmode=disable", "TimeZone=UTC"} {
		if !strings.Contains(dsn, part) {
			t.Fatalf("dsn %q missing %q", dsn, part)
		}
	}

	cfg.Password = "p@ss:word"
	got := MigrationURL(cfg)
	want := "pgx5://app:p%40ss%3Aword@db:5432/hospital?sslmode=disable"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	up, err := fs.ReadFile(migrations.FS, "000001_init_schema.up.sql")
	if err != nil {
		t.Fatalf("read up migration: %v", err)
	}
	if !strings.Contains(string(up), "appointments_no_overlap") {
		t.Fatal("up migration must define the no-overlap exclusion constraint")
	}
	if _, err := fs.ReadFile(migrations.FS, "000001_init_schema.down.sql"); err != nil {
		t.Fatalf("read down migration: %v", err)
	}
}
