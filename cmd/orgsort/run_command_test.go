package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"orgsort/internal/failure"
	"orgsort/internal/testsupport"
)

func seedAcme(t *testing.T, env *cliTestEnv) {
	t.Helper()
	testsupport.MakeDirs(t, env.target, "2.ACME", "3.BetaCorp")
	testsupport.Touch(t, env.source, "ACME_March_Report.pdf", "Unknown_File.pdf")
}

func TestRunCommandMovesFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	seedAcme(t, env)

	stdout, stderr, err := runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr)
	}
	requireContains(t, stdout, "ACME_March_Report.pdf")
	requireContains(t, stdout, "success")
	requireContains(t, stdout, "skipped")
	requireContains(t, stdout, "Audit written to")
	requireContains(t, stderr, "run finished")

	testsupport.AssertExists(t, filepath.Join(env.target, "2.ACME", "ACME_March_Report.pdf"))
	testsupport.AssertExists(t, filepath.Join(env.source, "Unknown_File.pdf"))

	logs, err := filepath.Glob(filepath.Join(env.cfg.Paths.LogDir, "orgsort_log_*.log"))
	if err != nil || len(logs) != 1 {
		t.Fatalf("expected one run log, got %v (%v)", logs, err)
	}
}

func TestRunCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	seedAcme(t, env)

	stdout, _, err := runCLI(t, []string{"run", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("run --json: %v", err)
	}
	var payload struct {
		RunID   string `json:"run_id"`
		DryRun  bool   `json:"dry_run"`
		Summary struct {
			Total     int `json:"total"`
			Succeeded int `json:"succeeded"`
			Skipped   int `json:"skipped"`
		} `json:"summary"`
		NotSucceeded int `json:"not_succeeded"`
		Records      []struct {
			FileName     string `json:"file_name"`
			Status       string `json:"status"`
			MatchedAlias string `json:"matched_alias"`
		} `json:"records"`
	}
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("decode json: %v\n%s", err, stdout)
	}
	if payload.RunID == "" || payload.DryRun {
		t.Fatalf("unexpected run header %+v", payload)
	}
	if payload.Summary.Succeeded != 1 || payload.NotSucceeded != 1 || payload.Summary.Total != 2 {
		t.Fatalf("unexpected summary %+v / %d", payload.Summary, payload.NotSucceeded)
	}
	if len(payload.Records) != 2 || payload.Records[0].MatchedAlias != "ACME" || payload.Records[1].Status != "skipped" {
		t.Fatalf("unexpected records %+v", payload.Records)
	}
}

func TestPlanCommandLeavesFilesInPlace(t *testing.T) {
	env := setupCLITestEnv(t)
	seedAcme(t, env)

	stdout, _, err := runCLI(t, []string{"plan"}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, stdout, "would move to 2.ACME")
	requireContains(t, stdout, "Dry run: no files were moved")
	if strings.Contains(stdout, "Audit written to") {
		t.Fatalf("plan must not export:\n%s", stdout)
	}
	testsupport.AssertExists(t, filepath.Join(env.source, "ACME_March_Report.pdf"))
	testsupport.AssertMissing(t, filepath.Join(env.target, "2.ACME", "ACME_March_Report.pdf"))
}

func TestRunCommandFailsWithoutTargetRoot(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.Touch(t, env.source, "ACME_March_Report.pdf")
	env.cfg.Paths.TargetDir = filepath.Join(testsupport.BaseDir(env.cfg), "missing-target")
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"run"}, env.configPath)
	if !errors.Is(err, failure.ErrDirectoryAccess) {
		t.Fatalf("expected directory access error, got %v", err)
	}
	testsupport.AssertExists(t, filepath.Join(env.source, "ACME_March_Report.pdf"))
}

func TestRunCommandRejectsMissingConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	_, stderr, err := runCLI(t, []string{"run"}, filepath.Join(filepath.Dir(env.configPath), "nope.toml"))
	if !errors.Is(err, failure.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, stderr, "Error details written to")

	home := os.Getenv("HOME")
	logs, globErr := filepath.Glob(filepath.Join(home, ".local", "share", "orgsort", "logs", "error_log_*.log"))
	if globErr != nil || len(logs) != 1 {
		t.Fatalf("expected one error log, got %v (%v)", logs, globErr)
	}
	data, readErr := os.ReadFile(logs[0])
	if readErr != nil || !strings.Contains(string(data), "nope.toml") {
		t.Fatalf("error log missing cause: %s (%v)", data, readErr)
	}
}

func TestAliasesCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.MakeDirs(t, env.target, "1.华为", "2.华为技术", "3.ACME")

	stdout, _, err := runCLI(t, []string{"aliases", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("aliases: %v", err)
	}
	var view aliasTableView
	if err := json.Unmarshal([]byte(stdout), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var order []string
	for _, a := range view.Aliases {
		order = append(order, a.Alias)
	}
	if strings.Join(order, ",") != "华为技术,ACME,华为" {
		t.Fatalf("unexpected alias order %v", order)
	}

	stdout, _, err = runCLI(t, []string{"aliases"}, env.configPath)
	if err != nil {
		t.Fatalf("aliases: %v", err)
	}
	requireContains(t, stdout, "2.华为技术")
}

func TestClassifyCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.MakeDirs(t, env.target, "2.ACME/2024 Reports")

	stdout, _, err := runCLI(t, []string{"classify", "--json", "ACME_Q1.pdf", "other.txt"}, env.configPath)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	var results []classification
	if err := json.Unmarshal([]byte(stdout), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	want := filepath.Join(env.target, "2.ACME", "2024 Reports", "ACME_Q1.pdf")
	if results[0].Alias != "ACME" || results[0].Destination != want || !results[0].Allowed {
		t.Fatalf("unexpected first result %+v", results[0])
	}
	if results[1].Alias != "" || results[1].Allowed {
		t.Fatalf("unexpected second result %+v", results[1])
	}
}

func TestLogsCommandShowsLatestRunLog(t *testing.T) {
	env := setupCLITestEnv(t)
	seedAcme(t, env)
	if _, _, err := runCLI(t, []string{"run"}, env.configPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"logs", "-n", "200"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, stdout, "run started")
	requireContains(t, stdout, "run finished")
}
