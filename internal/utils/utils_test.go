package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/promptpack/internal/utils"
)

func TestDeduplicatePatterns(t *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "empty", input: nil, expected: []string{}},
		{name: "no duplicates", input: []string{"a", "b"}, expected: []string{"a", "b"}},
		{name: "keeps first occurrence", input: []string{"a", "b", "a", "c", "b"}, expected: []string{"a", "b", "c"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.DeduplicatePatterns(testCase.input)
			if len(result) != len(testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, result)
			}
			for valueIndex := range result {
				if result[valueIndex] != testCase.expected[valueIndex] {
					t.Fatalf("expected %v, got %v", testCase.expected, result)
				}
			}
		})
	}
}

func TestIsWithinRoot(t *testing.T) {
	rootDirectory := t.TempDir()
	testCases := []struct {
		name      string
		candidate string
		expected  bool
	}{
		{name: "direct child", candidate: filepath.Join(rootDirectory, "main.py"), expected: true},
		{name: "nested child", candidate: filepath.Join(rootDirectory, "pkg", "module.py"), expected: true},
		{name: "root itself", candidate: rootDirectory, expected: true},
		{name: "parent escape", candidate: filepath.Join(rootDirectory, ".."), expected: false},
		{name: "sibling escape", candidate: filepath.Join(rootDirectory, "..", "other", "file.py"), expected: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.IsWithinRoot(rootDirectory, testCase.candidate)
			if result != testCase.expected {
				t.Fatalf("expected %v for %s, got %v", testCase.expected, testCase.candidate, result)
			}
		})
	}
}

func TestIsBinary(t *testing.T) {
	if utils.IsBinary([]byte("plain text content\n")) {
		t.Fatal("expected text content to be detected as text")
	}
	if !utils.IsBinary([]byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0x01}) {
		t.Fatal("expected NUL-bearing content to be detected as binary")
	}
}

func TestIsFileBinary(t *testing.T) {
	tempDirectory := t.TempDir()

	textPath := filepath.Join(tempDirectory, "notes.txt")
	if err := os.WriteFile(textPath, []byte("plain text content\n"), 0o600); err != nil {
		t.Fatalf("write text file: %v", err)
	}
	binaryPath := filepath.Join(tempDirectory, "blob.dat")
	if err := os.WriteFile(binaryPath, []byte{0x00, 0x01, 0x02, 0xff}, 0o600); err != nil {
		t.Fatalf("write binary file: %v", err)
	}

	if utils.IsFileBinary(textPath) {
		t.Fatal("expected text file to sniff as text")
	}
	if !utils.IsFileBinary(binaryPath) {
		t.Fatal("expected NUL-bearing file to sniff as binary")
	}
	if utils.IsFileBinary(filepath.Join(tempDirectory, "absent.dat")) {
		t.Fatal("expected missing file to sniff as non-binary")
	}
}

func TestDetectMimeType(t *testing.T) {
	tempDirectory := t.TempDir()
	textPath := filepath.Join(tempDirectory, "sample.txt")
	if err := os.WriteFile(textPath, []byte("plain text"), 0o600); err != nil {
		t.Fatalf("write sample file: %v", err)
	}
	mimeType := utils.DetectMimeType(textPath)
	if mimeType != "text/plain; charset=utf-8" {
		t.Fatalf("expected text/plain mime type, got %q", mimeType)
	}
}
