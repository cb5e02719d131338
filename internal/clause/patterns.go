// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clause

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// maxHeaderLen rejects prose lines before any pattern is tried.
	maxHeaderLen = 100

	capsMinLen = 10
	capsMaxLen = 80
)

// headerPattern recognizes one form of section heading.
type headerPattern interface {
	// match reports whether line is a heading of this form and returns the
	// parsed section label (possibly empty) and title.
	match(line string) (section, title string, ok bool)
}

// headerPatterns is evaluated in order; later patterns are broader and would
// shadow the earlier ones.
var headerPatterns = []headerPattern{
	regexPattern{
		re:   regexp.MustCompile(`^(\d+(?:\.\d+)*)\.\s+([A-Z][^\n]{0,80})$`),
		trim: true,
	},
	regexPattern{
		re:   regexp.MustCompile(`(?i)^(?:§|Section)\s*(\d+)\s*[:\-]?\s*([A-Z][^\n]{0,80})$`),
		trim: true,
	},
	regexPattern{
		re:           regexp.MustCompile(`(?i)^ARTICLE\s+([IVX\d]+)\s*[:\-]?\s*([A-Z][^\n]{0,80})?$`),
		defaultTitle: "Article",
	},
	capsPattern{
		excludedPrefixes: []string{"SCHEDULE", "EXHIBIT", "APPENDIX", "WHEREAS", "NOW THEREFORE"},
	},
}

// regexPattern matches a heading with a two-group regexp: section label and title.
type regexPattern struct {
	re *regexp.Regexp

	// trim strips a single trailing ',', ';' or ':' from the title.
	trim bool

	// defaultTitle is used when the title group does not participate.
	defaultTitle string
}

func (p regexPattern) match(line string) (string, string, bool) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	section, title := m[1], strings.TrimSpace(m[2])
	if title == "" && p.defaultTitle != "" {
		title = p.defaultTitle
	}
	if p.trim {
		title = trimTrailingPunct(title)
	}
	return section, title, true
}

// capsPattern matches an unnumbered ALL-CAPS heading such as "GOVERNING LAW".
type capsPattern struct {
	excludedPrefixes []string
}

func (p capsPattern) match(line string) (string, string, bool) {
	n := utf8.RuneCountInString(line)
	if n < capsMinLen || n > capsMaxLen || !isUpper(line) {
		return "", "", false
	}
	for _, prefix := range p.excludedPrefixes {
		if strings.HasPrefix(line, prefix) {
			return "", "", false
		}
	}
	if strings.HasSuffix(line, ".") {
		return "", strings.TrimSuffix(line, "."), true
	}
	// More than one period means a sentence set in caps.
	if strings.Count(line, ".") > 1 {
		return "", "", false
	}
	return "", line, true
}

// isUpper reports whether s has at least one cased letter and no lowercase
// letters.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func trimTrailingPunct(s string) string {
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case ',', ';', ':':
		return s[:len(s)-1]
	}
	return s
}

// parseHeader classifies a trimmed line. It returns ok=false for body text.
func parseHeader(line string) (section, title string, ok bool) {
	if utf8.RuneCountInString(line) > maxHeaderLen {
		return "", "", false
	}
	for _, p := range headerPatterns {
		if section, title, ok := p.match(line); ok {
			return section, title, true
		}
	}
	return "", "", false
}
