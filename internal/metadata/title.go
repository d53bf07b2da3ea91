package metadata

import (
	"regexp"
	"strings"
)

var (
	featPresent   = regexp.MustCompile(`(?i)\bfeat\b`)
	featSpacing   = regexp.MustCompile(`(?i)\bfeat\.? `)
	featClause    = regexp.MustCompile(`\bfeat\. `)
	radioEditable = regexp.MustCompile(`(?i)original mix|extended mix`)
)

type titleRule struct {
	pattern *regexp.Regexp
	repl    string
	all     bool
	fn      func(s string, m []int) string
}

// Each rule consumes the output of the previous one.
var titleCascade = []titleRule{
	{pattern: regexp.MustCompile(`\)\(`), repl: ") (", all: true},
	{pattern: regexp.MustCompile(`\s+\)`), repl: ")", all: true},
	{pattern: regexp.MustCompile(`\(\s+`), repl: "(", all: true},
	{pattern: regexp.MustCompile(`\s{2,}`), repl: " ", all: true},
	{pattern: regexp.MustCompile(`\[(.*)\]`), repl: "(${1})", all: true},
	{pattern: regexp.MustCompile(`\({2}(.*)\){2}`), repl: "(${1})", all: true},
	{pattern: regexp.MustCompile(`(?i)\((Original|Extended|Instrumental|Dub)\)`), repl: "(${1} Mix)", all: true},
	{pattern: regexp.MustCompile(`(?i)\((.*)RMX(.*)\)`), repl: "(${1}Remix${2})"},
	{pattern: regexp.MustCompile(`(?i)(\(.*\b(\sMix|Mix\s|\sRemix|Remix\s)\b.*\))\s*(\(.*\b(Mix|Remix)\b.*\))`), repl: "${1}"},
	{pattern: regexp.MustCompile(`(?i)(-|–)\s+(.*Remix)\s+\(Original Mix\)`), repl: "(${2})"},
	{pattern: regexp.MustCompile(`(\(.*\sRemix(\s+\(.*\))\))`), fn: hoistNestedNote},
	{pattern: regexp.MustCompile(`\b(original|extended|instrumental|dub|radio|mix|remix|edit|demo|tape)\b`), all: true, fn: capitalizeMatch},
}

// FormatTitle builds the canonical display title from a catalog track name and
// its mix name. An empty name yields "", which callers treat as "omit title".
// Applying FormatTitle to its own output with no mix name returns it unchanged.
func FormatTitle(name, mixName string) string {
	title := strings.TrimSpace(name)
	if title == "" {
		return ""
	}

	if featPresent.MatchString(title) {
		title = replaceFirst(featSpacing, title, "feat. ")
		if !strings.Contains(title, "(feat") {
			if wrapped := replaceFirst(featClause, title, "(feat. "); wrapped != title {
				title = wrapped + ")"
			}
		}
	}

	if mix := strings.TrimSpace(mixName); mix != "" {
		title += " (" + mix + ")"
	}

	for _, rule := range titleCascade {
		title = rule.apply(title)
	}

	return ReplaceTagForbiddenChars(title)
}

func (r titleRule) apply(s string) string {
	switch {
	case r.fn != nil && r.all:
		var b strings.Builder
		last := 0
		for _, m := range r.pattern.FindAllStringSubmatchIndex(s, -1) {
			b.WriteString(s[last:m[0]])
			b.WriteString(r.fn(s, m))
			last = m[1]
		}
		b.WriteString(s[last:])
		return b.String()
	case r.fn != nil:
		m := r.pattern.FindStringSubmatchIndex(s)
		if m == nil {
			return s
		}
		return s[:m[0]] + r.fn(s, m) + s[m[1]:]
	case r.all:
		return r.pattern.ReplaceAllString(s, r.repl)
	default:
		return replaceFirst(r.pattern, s, r.repl)
	}
}

// hoistNestedNote turns "(X Remix (Y Edit))" into "(X Remix) (Y Edit)".
func hoistNestedNote(s string, m []int) string {
	group := s[m[2]:m[3]]
	note := s[m[4]:m[5]]
	return strings.Replace(group, note, "", 1) + note
}

func capitalizeMatch(s string, m []int) string {
	word := s[m[0]:m[1]]
	return strings.ToUpper(word[:1]) + word[1:]
}

// ForceRadioEdit rewrites the mix part of a title to "Radio Edit".
func ForceRadioEdit(title string) string {
	if radioEditable.MatchString(title) {
		return replaceFirst(radioEditable, title, "Radio Edit")
	}
	return title + " (Radio Edit)"
}
