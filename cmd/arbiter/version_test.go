package main

import (
	"strings"
	"testing"
)

func TestVersionDefaults(t *testing.T) {
	if Version == "" {
		t.Error("Version must not be empty")
	}
	if GitCommit == "" {
		t.Error("GitCommit must not be empty")
	}
	if BuildDate == "" {
		t.Error("BuildDate must not be empty")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	want := []string{"run", "validate", "ledger", "version"}
	for _, name := range want {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing %q subcommand", name)
		}
	}
}

func TestLedgerSubcommands(t *testing.T) {
	want := []string{"verify", "export", "report", "compliance"}
	for _, name := range want {
		found := false
		for _, cmd := range ledgerCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("ledger command is missing %q subcommand", name)
		}
	}
}

func TestRootLongDescribesRuntime(t *testing.T) {
	if !strings.Contains(rootCmd.Long, "ledger") {
		t.Error("root long description should mention the ledger")
	}
}
