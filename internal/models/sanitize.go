package models

import (
	"regexp"
	"strings"
)

var (
	searchRAGBlock  = regexp.MustCompile(`(?is)<search_rag>.*?</search_rag>`)
	webSearchBlock  = regexp.MustCompile(`(?is)<duckduckgo_search>.*?</duckduckgo_search>`)
	strayToolTag    = regexp.MustCompile(`(?i)</?(?:search_rag|duckduckgo_search)[^>]*>`)
	blankLineRunsRe = regexp.MustCompile(`\n\s*\n\s*\n`)
)

// SanitizeToolMarkup strips the tool-invocation markup the research backend sometimes leaks into
// its answers. Paired <search_rag> and <duckduckgo_search> blocks are removed with their contents,
// then any unpaired opening or closing tag of either kind. Runs of blank lines left behind are
// collapsed to a single blank line and the result is trimmed.
func SanitizeToolMarkup(text string) string {
	text = searchRAGBlock.ReplaceAllString(text, "")
	text = webSearchBlock.ReplaceAllString(text, "")
	text = strayToolTag.ReplaceAllString(text, "")
	text = blankLineRunsRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
