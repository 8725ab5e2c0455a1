package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var horizontalWS = regexp.MustCompile(`[ \t\x0b\f\r]+`)

// StripHTML drops tags and resolves entities, keeping only text content.
func StripHTML(value string) string {
	if value == "" {
		return ""
	}
	tok := html.NewTokenizer(strings.NewReader(value))
	var b strings.Builder
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tok.Text())
		}
	}
	return b.String()
}

// NormalizeLabel trims and collapses a short single-line label.
func NormalizeLabel(value string) string {
	s := strings.ReplaceAll(value, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\n", " ")
	s = horizontalWS.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeLongText strips HTML, normalizes newlines, collapses horizontal
// whitespace, trims every line and limits consecutive blank lines to
// maxBlankLines.
func NormalizeLongText(value string, maxBlankLines int) string {
	s := StripHTML(value)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = horizontalWS.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	s = strings.TrimSpace(strings.Join(lines, "\n"))
	if maxBlankLines < 0 {
		return s
	}

	out := make([]string, 0, len(lines))
	blankRun := 0
	for _, ln := range strings.Split(s, "\n") {
		if ln == "" {
			blankRun++
		} else {
			blankRun = 0
		}
		if ln != "" || blankRun <= maxBlankLines {
			out = append(out, ln)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// TruncateUTF8 caps s at maxBytes without splitting a multi-byte rune and
// appends an ellipsis when truncation happened.
func TruncateUTF8(s string, maxBytes int) string {
	if maxBytes <= 0 || len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	const ellipsis = "…"
	if cut > len(ellipsis) {
		cut -= len(ellipsis)
	}
	for cut > 0 && (s[cut]&0xC0) == 0x80 {
		cut--
	}
	return s[:cut] + ellipsis
}
