package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"

	liberr "github.com/lexbox-tools/liftkit/core/errors"
)

const testLIFT = `<?xml version="1.0" encoding="UTF-8"?>
<lift version="0.13">
  <entry id="apple">
    <lexical-unit><form lang="en"><text>apple</text></form></lexical-unit>
    <sense id="apple-1">
      <gloss lang="fr"><text>pomme</text></gloss>
    </sense>
  </entry>
</lift>`

const testRanges = `<lift-ranges>
  <range id="grammatical-info">
    <range-element id="Noun"/>
    <range-element id="Verb"/>
  </range>
</lift-ranges>`

func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func createXZFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("failed to create xz writer: %v", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("failed to compress test data: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close xz writer: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write compressed file: %v", err)
	}
	return path
}

func TestReadInput(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{name: "plain file", path: createTestFile(t, tempDir, "plain.lift", testLIFT)},
		{name: "xz compressed", path: createXZFile(t, tempDir, "packed.lift.xz", testLIFT)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := readInput(tt.path)
			if err != nil {
				t.Fatalf("readInput failed: %v", err)
			}
			if string(data) != testLIFT {
				t.Errorf("content mismatch: got %d bytes", len(data))
			}
		})
	}
}

func TestReadInputMissingFile(t *testing.T) {
	_, err := readInput(filepath.Join(t.TempDir(), "missing.lift"))
	if err == nil {
		t.Fatal("readInput should fail for missing file")
	}
	if !errors.Is(err, liberr.ErrNotFound) {
		t.Errorf("error should match ErrNotFound, got %v", err)
	}
}

func TestReadInputCorruptXZ(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "bad.lift.xz", "this is not xz data")
	_, err := readInput(path)
	if err == nil {
		t.Fatal("readInput should fail for corrupt xz data")
	}
	var ioErr *liberr.IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("error should be an IOError, got %v", err)
	}
}

func TestParseCmd_Run(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		noValidate bool
		wantErr    bool
	}{
		{name: "valid file", content: testLIFT, wantErr: false},
		{name: "malformed XML", content: "<lift><entry>", wantErr: true},
		{
			name:    "validation failure",
			content: `<lift><entry id="empty"><lexical-unit><form lang="en"><text>x</text></form></lexical-unit></entry></lift>`,
			wantErr: true,
		},
		{
			name:       "validation skipped",
			content:    `<lift><entry id="empty"><lexical-unit><form lang="en"><text>x</text></form></lexical-unit></entry></lift>`,
			noValidate: true,
			wantErr:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createTestFile(t, t.TempDir(), "test.lift", tt.content)
			cmd := &ParseCmd{Path: path, NoValidate: tt.noValidate}
			err := cmd.Run()
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateCmd_Run(t *testing.T) {
	tempDir := t.TempDir()
	jsonPath := createTestFile(t, tempDir, "entries.json", `[
		{"id": "apple",
		 "lexical_unit": {"en": "apple"},
		 "senses": [{"id": "apple-1", "glosses": {"fr": "pomme"}}]}
	]`)
	outPath := filepath.Join(tempDir, "out.lift")

	cmd := &GenerateCmd{Path: jsonPath, Out: outPath}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	for _, want := range []string{`<entry id="apple">`, "<text>pomme</text>", `version="0.13"`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestGenerateCmd_BadJSON(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "bad.json", "{not json")
	cmd := &GenerateCmd{Path: path}
	err := cmd.Run()
	if err == nil {
		t.Fatal("Run() should fail for invalid JSON")
	}
	if !errors.Is(err, liberr.ErrMalformed) {
		t.Errorf("error should match ErrMalformed, got %v", err)
	}
}

func TestRangesCmd_Run(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "test.lift-ranges", testRanges)

	for _, resolve := range []bool{false, true} {
		cmd := &RangesCmd{Path: path, Resolve: resolve}
		if err := cmd.Run(); err != nil {
			t.Errorf("Run() with resolve=%v failed: %v", resolve, err)
		}
	}
}

func TestFmtCmd_Run(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "test.lift", testLIFT)
	cmd := &FmtCmd{Path: path}
	if err := cmd.Run(); err != nil {
		t.Errorf("Run() failed: %v", err)
	}
}

func TestQueryCmd_Run(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "test.lift", testLIFT)

	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{name: "valid expression", expr: "//entry", wantErr: false},
		{name: "invalid expression", expr: "//[", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &QueryCmd{Path: path, Expr: tt.expr}
			err := cmd.Run()
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInfoCmd_Run(t *testing.T) {
	path := createXZFile(t, t.TempDir(), "test.lift.xz", testLIFT)
	cmd := &InfoCmd{Path: path}
	if err := cmd.Run(); err != nil {
		t.Errorf("Run() failed: %v", err)
	}
}

func TestVersionCmd_Run(t *testing.T) {
	cmd := &VersionCmd{}
	if err := cmd.Run(); err != nil {
		t.Errorf("Run() failed: %v", err)
	}
}
