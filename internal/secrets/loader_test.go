package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  secret-token\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Load(Source{Name: "api token", File: path})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "secret-token" {
		t.Fatalf("expected trimmed secret, got %q", got)
	}
}

func TestLoadFilePrecedesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("from-file"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CAREER_ASSISTANT_TEST_TOKEN", "from-env")

	got, err := Load(Source{File: path, Env: "CAREER_ASSISTANT_TEST_TOKEN"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file to win, got %q", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CAREER_ASSISTANT_TEST_TOKEN", "  env-token  ")

	got, err := Load(Source{Name: "api token", Env: "CAREER_ASSISTANT_TEST_TOKEN"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "env-token" {
		t.Fatalf("expected trimmed env secret, got %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(Source{Name: "api token"}); err == nil {
		t.Fatal("expected error for empty source")
	}

	if _, err := Load(Source{File: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatal("expected error for missing file")
	}

	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte("   "), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(Source{File: empty}); err == nil {
		t.Fatal("expected error for empty file")
	}

	t.Setenv("CAREER_ASSISTANT_TEST_TOKEN", "")
	if _, err := Load(Source{Env: "CAREER_ASSISTANT_TEST_TOKEN"}); err == nil {
		t.Fatal("expected error for empty env var")
	}
}
