package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTranslateCmd_Use(t *testing.T) {
	if translateCmd.Use != "translate [file]" {
		t.Errorf("use: got %q", translateCmd.Use)
	}
}

func TestTranslateCmd_HasPrettyFlag(t *testing.T) {
	flag := translateCmd.Flags().Lookup("pretty")
	if flag == nil {
		t.Fatal("pretty flag should exist")
	}
	if flag.DefValue != "false" {
		t.Errorf("pretty default: got %q, want false", flag.DefValue)
	}
}

func TestTranslateCmd_CompilesStdin(t *testing.T) {
	out, err := execRoot(t, `{"search":"pasta","post_id":7}`, "translate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "multi_match") {
		t.Errorf("expected a multi_match clause, got:\n%s", out)
	}
	if !strings.Contains(out, "comment_post_ID") {
		t.Errorf("expected the post filter field, got:\n%s", out)
	}
}

func TestTranslateCmd_EmptyInputIsMatchAll(t *testing.T) {
	out, err := execRoot(t, "", "translate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "match_all") {
		t.Errorf("expected a match_all clause, got:\n%s", out)
	}
}

func TestTranslateCmd_FileInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	if err := os.WriteFile(path, []byte(`{"status":"approve"}`), 0o600); err != nil {
		t.Fatalf("write input file: %v", err)
	}

	out, err := execRoot(t, "", "translate", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "comment_approved") {
		t.Errorf("expected the status filter field, got:\n%s", out)
	}
}

func TestTranslateCmd_PrettyIndentsOutput(t *testing.T) {
	out, err := execRoot(t, `{"search":"pasta"}`, "translate", "--pretty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "\n  ") {
		t.Error("expected indented output")
	}
}

func TestTranslateCmd_BadJSON(t *testing.T) {
	_, err := execRoot(t, `{"search":`, "translate")
	if err == nil || !strings.Contains(err.Error(), "parse input") {
		t.Fatalf("expected a parse error, got %v", err)
	}
}

func TestTranslateCmd_MissingFile(t *testing.T) {
	_, err := execRoot(t, "", "translate", filepath.Join(t.TempDir(), "absent.json"))
	if err == nil || !strings.Contains(err.Error(), "open input") {
		t.Fatalf("expected an open error, got %v", err)
	}
}
