package metadata

import (
	"regexp"
	"strings"
)

var (
	trackNumberPattern   = regexp.MustCompile(`(^|(\s+-\s+))\d+\s*[-.]\s+`)
	bracketPattern       = regexp.MustCompile(`[()[\],]`)
	keywordSeparator     = regexp.MustCompile(`\s+[-–&]\s+`)
	repeatedSpacePattern = regexp.MustCompile(`\s{2,}`)
	pathForbiddenPattern = regexp.MustCompile(`[/\\*?<>|:"]`)
)

var tagForbiddenReplacer = strings.NewReplacer("`", "'", "’", "'")

// SplitKeywords turns a file name or a set of strings into a deduplicated
// keyword list, keeping first-seen order. Track number prefixes such as
// "03 - " or "03. " and bracket characters are dropped.
func SplitKeywords(parts ...string) []string {
	s := strings.Join(parts, " ")
	s = replaceFirst(trackNumberPattern, s, " ")
	s = bracketPattern.ReplaceAllString(s, " ")
	s = keywordSeparator.ReplaceAllString(s, " ")
	s = repeatedSpacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = ReplaceTagForbiddenChars(s)

	keywords := []string{}
	if s == "" {
		return keywords
	}

	seen := make(map[string]bool)
	for _, word := range strings.Split(s, " ") {
		if seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}
	return keywords
}

// ReplaceTagForbiddenChars normalizes backticks and curly apostrophes to a plain apostrophe.
func ReplaceTagForbiddenChars(s string) string {
	return tagForbiddenReplacer.Replace(s)
}

// ReplacePathForbiddenChars replaces characters that are not allowed in file names with '-'.
func ReplacePathForbiddenChars(s string) string {
	return pathForbiddenPattern.ReplaceAllString(s, "-")
}

// replaceFirst replaces only the leftmost match of re, expanding $1-style
// references in repl.
func replaceFirst(re *regexp.Regexp, s, repl string) string {
	m := re.FindStringSubmatchIndex(s)
	if m == nil {
		return s
	}
	dst := re.ExpandString(nil, repl, s, m)
	return s[:m[0]] + string(dst) + s[m[1]:]
}
