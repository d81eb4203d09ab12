// Package ignore decides, for every path under a root, whether it is excluded
// from processing. Exclusion rules come from per-directory rule files; each
// rule set scopes to the directory that declared it and its descendants.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// RuleFileName is the per-directory file declaring exclusion patterns.
	RuleFileName = ".gitignore"
	// HiddenNamePrefix marks hidden files and directories.
	HiddenNamePrefix = "."

	commentPrefix        = "#"
	patternWildcard      = "*"
	recursiveWildcard    = ".*"
	pathSeparator        = string(os.PathSeparator)
	errorCompileFormat   = "compiling pattern %q from %s: %w"
	errorRuleFileFormat  = "reading %s: %w"
	errorDiscoveryFormat = "discovering rule sets under %s: %w"
)

// RuleSet is an ordered collection of exclusion patterns declared by one
// directory. Patterns hold the raw rule-file text; expressions hold the
// compiled form resolved against the declaring directory.
type RuleSet struct {
	Directory   string
	Patterns    []string
	expressions []*regexp.Regexp
}

// Options configure matcher overrides supplied by the caller.
type Options struct {
	// IncludeHidden includes files that hidden-prefix or rule-set matching
	// would otherwise exclude. Hidden directories stay pruned regardless.
	IncludeHidden bool
	// DenyList names files excluded regardless of overrides. An entry
	// containing a path separator denies exactly the path it names; a bare
	// name denies every file with that name.
	DenyList []string
}

// Matcher answers exclusion queries against the rule sets discovered so far.
// Discovery order matters: a rule set affects only paths tested after its
// directory was observed, mirroring the traversal that feeds the matcher.
type Matcher struct {
	options      Options
	ruleSets     []RuleSet
	deniedNames  map[string]struct{}
	deniedPaths  map[string]struct{}
	relatedRoots []string
}

// NewMatcher constructs a Matcher with no known rule sets.
func NewMatcher(options Options) *Matcher {
	deniedNames := make(map[string]struct{}, len(options.DenyList))
	deniedPaths := make(map[string]struct{}, len(options.DenyList))
	for _, deniedEntry := range options.DenyList {
		trimmedEntry := strings.TrimSpace(deniedEntry)
		if trimmedEntry == "" {
			continue
		}
		if !strings.ContainsRune(trimmedEntry, os.PathSeparator) {
			deniedNames[trimmedEntry] = struct{}{}
			continue
		}
		cleanedEntry := filepath.Clean(trimmedEntry)
		deniedPaths[cleanedEntry] = struct{}{}
		if absoluteEntry, absoluteError := filepath.Abs(cleanedEntry); absoluteError == nil {
			deniedPaths[absoluteEntry] = struct{}{}
		}
	}
	return &Matcher{options: options, deniedNames: deniedNames, deniedPaths: deniedPaths}
}

// isDenied reports whether path hits the deny list, comparing bare entries by
// basename and path-qualified entries by cleaned or absolute form.
func (matcher *Matcher) isDenied(path string) bool {
	if _, denied := matcher.deniedNames[filepath.Base(path)]; denied {
		return true
	}
	if len(matcher.deniedPaths) == 0 {
		return false
	}
	cleanedPath := filepath.Clean(path)
	if _, denied := matcher.deniedPaths[cleanedPath]; denied {
		return true
	}
	if absolutePath, absoluteError := filepath.Abs(cleanedPath); absoluteError == nil {
		if _, denied := matcher.deniedPaths[absolutePath]; denied {
			return true
		}
	}
	return false
}

// ObserveDirectory registers the rule set declared by directoryPath, if any.
// It reports whether a rule file was found. Calling order determines which
// paths the rule set affects and which directory counts as the primary root.
func (matcher *Matcher) ObserveDirectory(directoryPath string) (bool, error) {
	ruleSet, found, loadError := LoadRuleSet(directoryPath)
	if loadError != nil {
		return false, loadError
	}
	if !found {
		return false, nil
	}
	matcher.AddRuleSet(ruleSet)
	return true, nil
}

// AddRuleSet appends a rule set in discovery order. The first rule set marks
// the primary repository root; every later one marks a related root.
func (matcher *Matcher) AddRuleSet(ruleSet RuleSet) {
	if len(matcher.ruleSets) > 0 {
		matcher.relatedRoots = append(matcher.relatedRoots, ruleSet.Directory)
	}
	matcher.ruleSets = append(matcher.ruleSets, ruleSet)
}

// IsExcluded reports whether path is excluded given the rule sets known so
// far. Deny-listed entries are always excluded; the include-hidden override
// admits hidden-prefixed and rule-matched files.
func (matcher *Matcher) IsExcluded(path string) bool {
	if matcher.isDenied(path) {
		return true
	}
	if matcher.options.IncludeHidden {
		return false
	}
	if strings.HasPrefix(filepath.Base(path), HiddenNamePrefix) {
		return true
	}
	for ruleSetIndex := range matcher.ruleSets {
		for _, expression := range matcher.ruleSets[ruleSetIndex].expressions {
			if expression.MatchString(path) {
				return true
			}
		}
	}
	return false
}

// PrimaryRoot returns the directory of the first discovered rule set, or the
// empty string when no rule set is known yet.
func (matcher *Matcher) PrimaryRoot() string {
	if len(matcher.ruleSets) == 0 {
		return ""
	}
	return matcher.ruleSets[0].Directory
}

// RelatedRoots returns the directories of every rule set discovered after the
// first, in discovery order.
func (matcher *Matcher) RelatedRoots() []string {
	return matcher.relatedRoots
}

// IsRelated reports whether path lies under any related root.
func (matcher *Matcher) IsRelated(path string) bool {
	for _, relatedRoot := range matcher.relatedRoots {
		if path == relatedRoot || strings.HasPrefix(path, relatedRoot+pathSeparator) {
			return true
		}
	}
	return false
}

// ShouldPrune reports whether a directory name is pruned from traversal
// entirely. Hidden directories are never descended into, independent of the
// include-hidden override.
func ShouldPrune(directoryName string) bool {
	return strings.HasPrefix(directoryName, HiddenNamePrefix)
}

// LoadRuleSet reads the rule file declared by directoryPath. The second
// return value reports whether a rule file exists.
func LoadRuleSet(directoryPath string) (RuleSet, bool, error) {
	ruleFilePath := filepath.Join(directoryPath, RuleFileName)
	fileHandle, openError := os.Open(ruleFilePath)
	if openError != nil {
		if os.IsNotExist(openError) {
			return RuleSet{}, false, nil
		}
		return RuleSet{}, false, fmt.Errorf(errorRuleFileFormat, ruleFilePath, openError)
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ruleFilePath, closeError)
		}
	}()

	ruleSet := RuleSet{Directory: filepath.Clean(directoryPath)}
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		expression, compileError := compilePattern(ruleSet.Directory, trimmedLine)
		if compileError != nil {
			return RuleSet{}, false, compileError
		}
		ruleSet.Patterns = append(ruleSet.Patterns, trimmedLine)
		ruleSet.expressions = append(ruleSet.expressions, expression)
	}
	if scanError := scanner.Err(); scanError != nil {
		return RuleSet{}, false, fmt.Errorf(errorRuleFileFormat, ruleFilePath, scanError)
	}
	return ruleSet, true, nil
}

// DiscoverRuleSets pre-walks rootPath in traversal order and returns every
// declared rule set. Hidden directories are pruned exactly as the content
// walk prunes them, so discovery order matches application order. This is
// the explicit two-phase form of rule collection: discover first, then feed
// the result to a Matcher before any path is tested.
func DiscoverRuleSets(rootPath string) ([]RuleSet, error) {
	var ruleSets []RuleSet
	cleanedRootPath := filepath.Clean(rootPath)
	walkError := filepath.WalkDir(cleanedRootPath, func(walkedPath string, directoryEntry os.DirEntry, accessError error) error {
		if accessError != nil {
			return accessError
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		if walkedPath != cleanedRootPath && ShouldPrune(directoryEntry.Name()) {
			return filepath.SkipDir
		}
		ruleSet, found, loadError := LoadRuleSet(walkedPath)
		if loadError != nil {
			return loadError
		}
		if found {
			ruleSets = append(ruleSets, ruleSet)
		}
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(errorDiscoveryFormat, rootPath, walkError)
	}
	return ruleSets, nil
}

// compilePattern resolves a raw pattern against its declaring directory and
// compiles the anchored expression. A trailing path separator normalizes into
// a recursive wildcard covering every descendant; a literal "*" matches any
// run of characters, as in the rule-file dialect this tool consumes.
func compilePattern(declaringDirectory string, rawPattern string) (*regexp.Regexp, error) {
	hasTrailingSeparator := strings.HasSuffix(rawPattern, "/") || strings.HasSuffix(rawPattern, pathSeparator)
	trimmedPattern := strings.TrimRight(rawPattern, "/"+pathSeparator)
	absolutePattern := filepath.Join(declaringDirectory, trimmedPattern)
	quotedPattern := strings.ReplaceAll(regexp.QuoteMeta(absolutePattern), regexp.QuoteMeta(patternWildcard), recursiveWildcard)
	if hasTrailingSeparator {
		quotedPattern += regexp.QuoteMeta(pathSeparator) + recursiveWildcard
	}
	expression, compileError := regexp.Compile("^" + quotedPattern)
	if compileError != nil {
		return nil, fmt.Errorf(errorCompileFormat, rawPattern, declaringDirectory, compileError)
	}
	return expression, nil
}
