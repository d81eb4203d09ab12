package summarize

import (
	"strings"
	"testing"
)

const samplePythonModule = `import os


class Repository(Base):
    """Stores repository metadata."""

    name: str
    retries = 3

    def __init__(self, name):
        self.name = name

    async def fetch(self, timeout: int = 30):
        """Fetch the repository contents."""
        return await self.client.get(self.name, timeout=timeout)


def main(argv):
    repository = Repository("demo")
    repository.fetch()
`

func TestHeuristicPythonSummarizerDigest(t *testing.T) {
	summarizer := newHeuristicPythonSummarizer(Options{})
	digest := summarizer.Summarize(samplePythonModule)

	expectedDigest := strings.Join([]string{
		`class Repository(Base):`,
		`    """Stores repository metadata."""`,
		`    name: str`,
		`    retries = ...`,
		`    def __init__(self, name):`,
		`    def fetch(self, timeout):`,
		`        """Fetch the repository contents."""`,
		`def main(argv):`,
	}, "\n")
	if digest != expectedDigest {
		t.Fatalf("unexpected digest:\n%s\nexpected:\n%s", digest, expectedDigest)
	}
}

func TestHeuristicPythonSummarizerSuppressesSelf(t *testing.T) {
	summarizer := newHeuristicPythonSummarizer(Options{SuppressSelfParameter: true})
	digest := summarizer.Summarize(samplePythonModule)

	if strings.Contains(digest, "(self") {
		t.Fatalf("expected self parameter suppressed, got:\n%s", digest)
	}
	if !strings.Contains(digest, "def __init__(name):") {
		t.Fatalf("expected receiverless constructor signature, got:\n%s", digest)
	}
}

func TestHeuristicPythonSummarizerBodiesElided(t *testing.T) {
	summarizer := newHeuristicPythonSummarizer(Options{})
	digest := summarizer.Summarize(samplePythonModule)

	if strings.Contains(digest, "self.client.get") {
		t.Fatalf("expected function bodies elided, got:\n%s", digest)
	}
	if strings.Contains(digest, "repository.fetch()") {
		t.Fatalf("expected module-level statements elided, got:\n%s", digest)
	}
}

func TestHeuristicPythonSummarizerMultilineDocstring(t *testing.T) {
	sourceText := strings.Join([]string{
		"def configure(path):",
		`    """`,
		"    Configure the runtime.",
		`    """`,
		"    return path",
	}, "\n")

	summarizer := newHeuristicPythonSummarizer(Options{})
	digest := summarizer.Summarize(sourceText)
	if !strings.Contains(digest, "Configure the runtime.") {
		t.Fatalf("expected multiline docstring content, got:\n%s", digest)
	}
}

func TestHeuristicPythonSummarizerKeywordOnlyParameters(t *testing.T) {
	sourceText := "def merge(left, right, *, strict=False, **extras):\n    pass\n"

	summarizer := newHeuristicPythonSummarizer(Options{})
	digest := summarizer.Summarize(sourceText)
	if digest != "def merge(left, right, strict, extras):" {
		t.Fatalf("unexpected signature digest %q", digest)
	}
}

func TestRegistryRecognizesSourceExtensions(t *testing.T) {
	registry := NewRegistry(Options{})

	testCases := []struct {
		name     string
		path     string
		isSource bool
	}{
		{name: "python file", path: "pkg/module.py", isSource: true},
		{name: "go file", path: "cmd/main.go", isSource: true},
		{name: "uppercase extension", path: "LEGACY.PY", isSource: true},
		{name: "markdown file", path: "README.md", isSource: false},
		{name: "binary blob", path: "logo.png", isSource: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if result := registry.IsSourcePath(testCase.path); result != testCase.isSource {
				t.Fatalf("expected %v for %s, got %v", testCase.isSource, testCase.path, result)
			}
		})
	}
}
