package tokenization

import (
	"unicode"
	"unicode/utf8"
)

// BoundaryFunc quyết định một rune có phải ranh giới tách span không
type BoundaryFunc func(r rune) bool

// IsSectionBoundary ranh giới section: dấu phẩy, xuống dòng, tab và dấu nháy
func IsSectionBoundary(r rune) bool {
	switch r {
	case ',', '\n', '\r', '\t', '"', '“', '”':
		return true
	}
	return false
}

// IsWhitespace ranh giới token
func IsWhitespace(r rune) bool {
	return unicode.IsSpace(r)
}

// IsHyphen ranh giới phần con của token: gạch nối hoặc khoảng trắng
func IsHyphen(r rune) bool {
	return r == '-' || r == '–' || unicode.IsSpace(r)
}

// Split chia parent thành các span con liên tiếp không chồng lấn.
// Mảnh rỗng hoặc chỉ gồm ranh giới/khoảng trắng bị bỏ. Span con chưa được link vào parent.
func Split(parent *Span, isBoundary BoundaryFunc) []*Span {
	var out []*Span
	for _, r := range splitRanges(parent.Body(), isBoundary) {
		child := parent.arena.NewSpan(parent.start+r[0], parent.start+r[1])
		child.kind = childKind(parent.kind)
		out = append(out, child)
	}
	return out
}

// splitRanges trả về các khoảng [start, end) tương đối, đã trim khoảng trắng hai đầu
func splitRanges(text string, isBoundary BoundaryFunc) [][2]int {
	var out [][2]int
	flush := func(start, end int) {
		for start < end {
			r, size := utf8.DecodeRuneInString(text[start:end])
			if !unicode.IsSpace(r) {
				break
			}
			start += size
		}
		for end > start {
			r, size := utf8.DecodeLastRuneInString(text[start:end])
			if !unicode.IsSpace(r) {
				break
			}
			end -= size
		}
		if end > start {
			out = append(out, [2]int{start, end})
		}
	}

	last := 0
	for i, r := range text {
		if isBoundary(r) {
			flush(last, i)
			last = i + utf8.RuneLen(r)
		}
	}
	flush(last, len(text))
	return out
}

func childKind(parent SpanKind) SpanKind {
	switch parent {
	case SpanRoot:
		return SpanSection
	case SpanSection:
		return SpanToken
	default:
		return SpanPart
	}
}
