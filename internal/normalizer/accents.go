package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var dStroke = strings.NewReplacer("đ", "d", "Đ", "D")

// StripDiacritics loại bỏ dấu tiếng Việt một cách an toàn (đ giữ nguyên)
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// FoldVietnamese bỏ dấu và chuyển đ -> d
func FoldVietnamese(s string) string {
	return dStroke.Replace(StripDiacritics(s))
}
