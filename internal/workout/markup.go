package workout

import (
	"regexp"

	"golang.org/x/net/html"
)

type rewrite struct {
	pattern     *regexp.Regexp
	replacement string
}

// markupRewrites are applied in order, every rule sees the output of the
// previous one.
var markupRewrites = []rewrite{
	// a paragraph followed by a line break is still a single line break
	{regexp.MustCompile(`</p>\s*<br\s*/?>`), "\n"},
	{regexp.MustCompile(`</p>`), "\n"},
	{regexp.MustCompile(`<br />`), "\n"},
	{regexp.MustCompile(`<br>`), "\n"},
	// links are embedded videos
	{regexp.MustCompile(`<a (.+?)</a>`), ""},
	{regexp.MustCompile(`<li>\s*</li>`), ""},
	{regexp.MustCompile(`<li>`), "• "},
	{regexp.MustCompile(`</li>`), "\n"},
	{regexp.MustCompile(`<[^>]+>`), ""},
}

// PlainText converts the markup wodify uses in workout descriptions and
// comments into plain text.
func PlainText(markup string) string {
	for _, r := range markupRewrites {
		markup = r.pattern.ReplaceAllLiteralString(markup, r.replacement)
	}
	return html.UnescapeString(markup)
}

// $ only matches before \n, a crlf line keeps its \r for the later cleanup.
var fillerLine = regexp.MustCompile(`(?im)^(?:Athlete Instructions|Instructions|Athlete Notes|Extra Details)(\r?)$`)

// RemoveFillerText blanks out lines that only consist of a stock label.
func RemoveFillerText(text string) string {
	return fillerLine.ReplaceAllString(text, "$1")
}
