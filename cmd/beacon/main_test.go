package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"beacon/internal/api"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\nphoto_dir = %q\n",
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "photos"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{baseDir: base, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got %q", want, output)
	}
}

func resolveJane(t *testing.T, env *cliTestEnv, extra ...string) api.Outcome {
	t.Helper()
	args := []string{
		"resolve",
		"--name", "Jane Smith",
		"--age", "45-50",
		"--height", "70",
		"--weight", "180",
		"--skin-tone", "medium",
		"--gender", "female",
		"--worker", "worker-1",
		"--json",
	}
	args = append(args, extra...)
	out, stderr, err := runCLI(t, args, env.configPath, "")
	if err != nil {
		t.Fatalf("resolve: %v (stderr %q)", err, stderr)
	}
	var outcome api.Outcome
	if err := json.Unmarshal([]byte(out), &outcome); err != nil {
		t.Fatalf("decode outcome: %v from %q", err, out)
	}
	return outcome
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestCLIResolveCreatesThenAutoMerges(t *testing.T) {
	env := setupCLITestEnv(t)

	created := resolveJane(t, env)
	if created.Action != "created" {
		t.Fatalf("first resolve action = %q, want created", created.Action)
	}
	if created.Individual == nil || created.Individual.ID == "" {
		t.Fatalf("created outcome missing individual: %+v", created)
	}

	merged := resolveJane(t, env)
	if merged.Action != "merged" {
		t.Fatalf("second resolve action = %q, want merged", merged.Action)
	}
	if merged.Individual.ID != created.Individual.ID {
		t.Fatalf("merge targeted %s, want %s", merged.Individual.ID, created.Individual.ID)
	}
	if merged.Confidence < 95 {
		t.Fatalf("identical observation confidence = %.1f, want >= 95", merged.Confidence)
	}
}

func TestCLIResolveCreateNewSkipsCandidates(t *testing.T) {
	env := setupCLITestEnv(t)

	first := resolveJane(t, env)
	second := resolveJane(t, env, "--create-new")
	if second.Action != "created" {
		t.Fatalf("create-new action = %q, want created", second.Action)
	}
	if second.Individual.ID == first.Individual.ID {
		t.Fatal("create-new reused the existing individual")
	}
}

func TestCLIReviewPromptMergesOnConfirm(t *testing.T) {
	env := setupCLITestEnv(t)
	created := resolveJane(t, env)

	out, stderr, err := runCLI(t, []string{
		"resolve",
		"--name", "Jane Smyth",
		"--age", "45-50",
		"--height", "70",
		"--weight", "180",
		"--skin-tone", "medium",
		"--worker", "worker-2",
	}, env.configPath, "e\nm\n")
	if err != nil {
		t.Fatalf("resolve review: %v (stderr %q)", err, stderr)
	}
	requireContains(t, out, "Possible match: Jane Smith")
	requireContains(t, out, "Merged into Jane Smith")

	show, _, err := runCLI(t, []string{"roster", "show", created.Individual.ID, "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("roster show: %v", err)
	}
	var resp api.IndividualResponse
	if err := json.Unmarshal([]byte(show), &resp); err != nil {
		t.Fatalf("decode show: %v", err)
	}
	// "e" kept the existing spelling for the one conflicting field.
	if resp.Individual.Name != "Jane Smith" {
		t.Fatalf("name after review = %q, want Jane Smith", resp.Individual.Name)
	}
	if len(resp.Interactions) != 2 {
		t.Fatalf("interactions after review = %d, want 2", len(resp.Interactions))
	}
}

func TestCLIReviewCancelSavesNothing(t *testing.T) {
	env := setupCLITestEnv(t)
	resolveJane(t, env)

	out, _, err := runCLI(t, []string{
		"resolve",
		"--name", "Jane Smyth",
		"--age", "45-50",
		"--height", "70",
		"--weight", "180",
		"--skin-tone", "medium",
		"--worker", "worker-2",
	}, env.configPath, "e\na\n")
	if err != nil {
		t.Fatalf("resolve cancel: %v", err)
	}
	requireContains(t, out, "nothing was saved")

	list, _, err := runCLI(t, []string{"roster", "list", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("roster list: %v", err)
	}
	var resp api.RosterListResponse
	if err := json.Unmarshal([]byte(list), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(resp.Individuals) != 1 {
		t.Fatalf("roster size after cancel = %d, want 1", len(resp.Individuals))
	}
}

func TestCLIRosterListAndAgeFilter(t *testing.T) {
	env := setupCLITestEnv(t)
	resolveJane(t, env)

	out, _, err := runCLI(t, []string{"roster", "list"}, env.configPath, "")
	if err != nil {
		t.Fatalf("roster list: %v", err)
	}
	requireContains(t, out, "Jane Smith")
	requireContains(t, out, "45-50")

	out, _, err = runCLI(t, []string{"roster", "list", "--age", "20-30"}, env.configPath, "")
	if err != nil {
		t.Fatalf("roster list filtered: %v", err)
	}
	requireContains(t, out, "Roster is empty")
}

func TestCLIUrgencyOverrideLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	created := resolveJane(t, env)
	id := created.Individual.ID

	out, _, err := runCLI(t, []string{"urgency", "set", id, "85", "--yes"}, env.configPath, "")
	if err != nil {
		t.Fatalf("urgency set: %v", err)
	}
	requireContains(t, out, "pinned at 85")

	show, _, err := runCLI(t, []string{"roster", "show", id, "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("roster show: %v", err)
	}
	var resp api.IndividualResponse
	if err := json.Unmarshal([]byte(show), &resp); err != nil {
		t.Fatalf("decode show: %v", err)
	}
	if resp.Individual.DisplayScore != 85 || resp.Individual.UrgencyBand != "critical" {
		t.Fatalf("override display = %d band %q, want 85 critical",
			resp.Individual.DisplayScore, resp.Individual.UrgencyBand)
	}

	if _, _, err := runCLI(t, []string{"urgency", "set", id, "150", "--yes"}, env.configPath, ""); err == nil {
		t.Fatal("expected out-of-range override to fail")
	}

	out, _, err = runCLI(t, []string{"urgency", "clear", id}, env.configPath, "")
	if err != nil {
		t.Fatalf("urgency clear: %v", err)
	}
	requireContains(t, out, "Override cleared")

	out, _, err = runCLI(t, []string{"urgency", "recompute", id}, env.configPath, "")
	if err != nil {
		t.Fatalf("urgency recompute: %v", err)
	}
	requireContains(t, out, "Base urgency")
}

func TestCLIUrgencySetDeclinedPrompt(t *testing.T) {
	env := setupCLITestEnv(t)
	created := resolveJane(t, env)

	out, _, err := runCLI(t, []string{"urgency", "set", created.Individual.ID, "85"}, env.configPath, "n\n")
	if err != nil {
		t.Fatalf("urgency set declined: %v", err)
	}
	requireContains(t, out, "Override not set")

	show, _, err := runCLI(t, []string{"roster", "show", created.Individual.ID, "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("roster show: %v", err)
	}
	var resp api.IndividualResponse
	if err := json.Unmarshal([]byte(show), &resp); err != nil {
		t.Fatalf("decode show: %v", err)
	}
	if resp.Individual.UrgencyOverride != nil {
		t.Fatal("declined prompt still wrote an override")
	}
}

func TestCLIRosterPhotoAttach(t *testing.T) {
	env := setupCLITestEnv(t)
	created := resolveJane(t, env)

	capture := filepath.Join(env.baseDir, "capture.jpg")
	if err := os.WriteFile(capture, []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatalf("write capture: %v", err)
	}

	out, _, err := runCLI(t, []string{"roster", "photo", created.Individual.ID, capture}, env.configPath, "")
	if err != nil {
		t.Fatalf("roster photo: %v", err)
	}
	requireContains(t, out, "Attached file://")

	show, _, err := runCLI(t, []string{"roster", "show", created.Individual.ID, "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("roster show: %v", err)
	}
	var resp api.IndividualResponse
	if err := json.Unmarshal([]byte(show), &resp); err != nil {
		t.Fatalf("decode show: %v", err)
	}
	if len(resp.Individual.PhotoHistory) != 1 {
		t.Fatalf("photo history = %d entries, want 1", len(resp.Individual.PhotoHistory))
	}
}
