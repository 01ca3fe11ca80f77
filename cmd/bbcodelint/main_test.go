package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeTempInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.bbcode")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRenderFromFile(t *testing.T) {
	path := writeTempInput(t, "[b]hi[/b]")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{path})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := out.String(); got != "<strong>hi</strong>\n" {
		t.Errorf("got %q", got)
	}
}

func TestStrictFlagFailsOnBrokenTag(t *testing.T) {
	path := writeTempInput(t, "[color=notacolor]x[/color]")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"--strict", path})

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected an error when --strict sees a broken tag")
	}
}

func TestAllowUnknownFalseDropsUnknownTag(t *testing.T) {
	path := writeTempInput(t, "[bogus]x[/bogus]")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--allow-unknown=false", path})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := out.String(); got != "x\n" {
		t.Errorf("got %q, want unknown tag dropped leaving only inner text", got)
	}
}
