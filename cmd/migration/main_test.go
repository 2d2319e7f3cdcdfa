package main

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/riskibarqy/playscout/db"
	"go.uber.org/zap"
)

func TestParseSteps(t *testing.T) {
	t.Parallel()

	steps, err := parseSteps(nil)
	if err != nil || steps != 1 {
		t.Fatalf("expected default of 1 step, got=%d err=%v", steps, err)
	}
	steps, err = parseSteps([]string{" 3 "})
	if err != nil || steps != 3 {
		t.Fatalf("expected 3 steps, got=%d err=%v", steps, err)
	}
	for _, raw := range []string{"0", "-2", "x"} {
		if _, err := parseSteps([]string{raw}); err == nil {
			t.Fatalf("expected error for steps %q", raw)
		}
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	t.Parallel()

	if v, err := parseVersion("1"); err != nil || v != 1 {
		t.Fatalf("expected version 1, got=%d err=%v", v, err)
	}
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	if v, err := parseTarget("2"); err != nil || v != 2 {
		t.Fatalf("expected target 2, got=%d err=%v", v, err)
	}
	if _, err := parseTarget("two"); err == nil {
		t.Fatalf("expected error for non numeric target")
	}
}

func TestMigrationsDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := migrationsDir(dir)
	if err != nil {
		t.Fatalf("migrations dir: %v", err)
	}
	if got != dir {
		t.Fatalf("expected %s, got=%s", dir, got)
	}
	if _, err := migrationsDir(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestNewMigrator_RequiresDBURL(t *testing.T) {
	t.Parallel()

	if _, err := newMigrator(&options{}); err == nil || !strings.Contains(err.Error(), "DB_URL") {
		t.Fatalf("expected DB_URL error, got=%v", err)
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	t.Parallel()

	entries, err := fs.Glob(db.Migrations, "migrations/*.sql")
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	ups, downs := 0, 0
	for _, name := range entries {
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups++
		case strings.HasSuffix(name, ".down.sql"):
			downs++
		}
	}
	if ups == 0 || ups != downs {
		t.Fatalf("expected paired migrations, got up=%d down=%d", ups, downs)
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	root := newRootCmd(zap.NewNop().Sugar())
	for _, name := range []string{"up", "down", "version", "force", "goto"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Fatalf("expected subcommand %q, err=%v", name, err)
		}
	}
}
