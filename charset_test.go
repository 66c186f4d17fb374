package unfurl_test

import (
	"strings"
	"testing"

	"github.com/dashkite/unfurl"
	"github.com/stretchr/testify/assert"
)

func TestDetectCharset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{
			name:        "header charset",
			contentType: "text/html; charset=Shift_JIS",
			want:        "SHIFT_JIS",
		},
		{
			name:        "header wins over meta",
			contentType: "text/html; charset=gbk",
			body:        `<meta charset="big5">`,
			want:        "GBK",
		},
		{
			name:        "html5 meta charset",
			contentType: "text/html",
			body:        `<html><head><meta charset="euc-jp"></head>`,
			want:        "EUC-JP",
		},
		{
			name:        "html5 meta with single quotes",
			contentType: "text/html",
			body:        `<meta charset='gb2312'>`,
			want:        "GB2312",
		},
		{
			name:        "html4 http-equiv content",
			contentType: "text/html",
			body:        `<meta http-equiv="Content-Type" content="text/html; charset=big5">`,
			want:        "BIG5",
		},
		{
			name:        "windows code page label",
			contentType: "text/html; charset=cp932",
			want:        "CP932",
		},
		{
			name:        "unsupported charset",
			contentType: "text/html; charset=iso-8859-1",
			want:        "",
		},
		{
			name:        "utf-8 is not transcoded",
			contentType: "text/html; charset=utf-8",
			want:        "",
		},
		{
			name:        "no declaration",
			contentType: "text/html",
			body:        "<html><head><title>x</title></head></html>",
			want:        "",
		},
		{
			name:        "declaration past peek window is ignored",
			contentType: "text/html",
			body:        strings.Repeat(" ", unfurl.CharsetPeekSize) + `<meta charset="gbk">`,
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, unfurl.DetectCharset(tt.contentType, []byte(tt.body)))
		})
	}
}
