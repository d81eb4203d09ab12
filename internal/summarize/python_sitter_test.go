//go:build cgo

package summarize

import (
	"strings"
	"testing"
)

func TestPythonSummarizerDigest(t *testing.T) {
	summarizer := newPythonSummarizer(Options{})
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

func TestPythonSummarizerMatchesHeuristicVariant(t *testing.T) {
	parserDigest := newPythonSummarizer(Options{}).Summarize(samplePythonModule)
	heuristicDigest := newHeuristicPythonSummarizer(Options{}).Summarize(samplePythonModule)
	if parserDigest != heuristicDigest {
		t.Fatalf("variants disagree:\nparser:\n%s\nheuristic:\n%s", parserDigest, heuristicDigest)
	}
}

func TestPythonSummarizerDigestOfDigestDegradesToMarker(t *testing.T) {
	summarizer := newPythonSummarizer(Options{})
	digest := summarizer.Summarize(samplePythonModule)

	// Signatures without bodies do not parse, so a second pass yields the
	// marker instead of recursing into a digest of a digest.
	redigest := summarizer.Summarize(digest)
	if !strings.HasPrefix(redigest, "# SyntaxError while parsing:") {
		t.Fatalf("expected parse error marker, got %q", redigest)
	}
}

func TestPythonSummarizerParseFailureMarker(t *testing.T) {
	summarizer := newPythonSummarizer(Options{})
	digest := summarizer.Summarize("def broken(:\n")
	if !strings.HasPrefix(digest, "# SyntaxError while parsing:") {
		t.Fatalf("expected parse error marker, got %q", digest)
	}
}
