package html

import (
	"fmt"

	"github.com/dashkite/unfurl"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// Ensure Decode satisfies unfurl.DecodeFunc at compile time.
var _ unfurl.DecodeFunc = Decode

// Decode decodes HTML character entities such as "&amp;" and "&#39;".
func Decode(s string) string {
	return html.UnescapeString(s)
}

// encodings maps the labels returned by unfurl.DetectCharset to decoders.
var encodings = map[string]encoding.Encoding{
	"CP932":     japanese.ShiftJIS,
	"SHIFT_JIS": japanese.ShiftJIS,
	"EUC-JP":    japanese.EUCJP,
	"CP936":     simplifiedchinese.GBK,
	"GB2312":    simplifiedchinese.GBK,
	"GBK":       simplifiedchinese.GBK,
	"GB18030":   simplifiedchinese.GB18030,
	"CP949":     korean.EUCKR,
	"CP950":     traditionalchinese.Big5,
	"BIG5":      traditionalchinese.Big5,
}

// DecodeBody returns the response body as UTF-8 text. Bodies declaring one
// of unfurl.SupportedCharsets are transcoded; everything else is read as
// UTF-8.
func DecodeBody(resp *unfurl.Response) (string, error) {
	label := unfurl.DetectCharset(resp.ContentType, resp.Body)
	enc, ok := encodings[label]
	if !ok {
		return string(resp.Body), nil
	}

	b, err := enc.NewDecoder().Bytes(resp.Body)
	if err != nil {
		return "", fmt.Errorf("decoding %s body: %w", label, err)
	}
	return string(b), nil
}
