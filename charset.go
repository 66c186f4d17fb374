package unfurl

import (
	"regexp"
	"slices"
	"strings"
)

// CharsetPeekSize is how much of a response body is searched for a charset
// declaration.
const CharsetPeekSize = 1024

// SupportedCharsets lists the character sets decoded explicitly. Anything
// else is read as UTF-8.
var SupportedCharsets = []string{
	"CP932",
	"CP936",
	"CP949",
	"CP950",
	"GB2312",
	"GBK",
	"GB18030",
	"BIG5",
	"SHIFT_JIS",
	"EUC-JP",
}

var (
	headerCharsetRe = regexp.MustCompile(`(?i)charset=([^;]*)`)
	html5CharsetRe  = regexp.MustCompile(`(?i)<meta.+?charset=['"](.+?)['"]`)
	html4CharsetRe  = regexp.MustCompile(`(?i)<meta.+?content=["'].+;\s?charset=(.+?)["']`)
)

// DetectCharset picks the declared character set of a document from its
// Content-Type header and the start of its body. The header wins over an
// HTML5 <meta charset>, which wins over an HTML4 http-equiv declaration.
// It returns the uppercased label when it is one of SupportedCharsets and
// "" otherwise.
func DetectCharset(contentType string, body []byte) string {
	if len(body) > CharsetPeekSize {
		body = body[:CharsetPeekSize]
	}
	prefix := string(body)

	var label string
	if m := headerCharsetRe.FindStringSubmatch(contentType); m != nil {
		label = m[1]
	} else if m := html5CharsetRe.FindStringSubmatch(prefix); m != nil {
		label = m[1]
	} else if m := html4CharsetRe.FindStringSubmatch(prefix); m != nil {
		label = m[1]
	} else {
		return ""
	}

	label = strings.ToUpper(strings.TrimSpace(label))
	if slices.Contains(SupportedCharsets, label) {
		return label
	}
	return ""
}
