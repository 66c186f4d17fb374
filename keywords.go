package unfurl

import "regexp"

var (
	keywordEdgesRe = regexp.MustCompile(`^[,\s]+|[,\s]+$`)
	keywordSepRe   = regexp.MustCompile(`\s*,[,\s]*`)
)

// ParseKeywords splits the content of a keywords meta tag. Leading and
// trailing commas and whitespace are dropped; keywords may contain inner
// spaces ("machine learning, go" is two keywords).
func ParseKeywords(content string) []string {
	content = keywordEdgesRe.ReplaceAllString(content, "")
	if content == "" {
		return []string{}
	}
	return keywordSepRe.Split(content, -1)
}
