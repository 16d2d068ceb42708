package classifier

import (
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/classification"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/tokenization"
)

// Precondition điều kiện bắt buộc trước khi so khớp; không thỏa thì bỏ qua span
type Precondition func(span *tokenization.Span) bool

// NoNumerals span không được chứa chữ số
func NoNumerals(span *tokenization.Span) bool {
	return !span.ContainsNumerals()
}

// NotPrecededBy token đứng trước span không được mang các kind đã cho
func NotPrecededBy(kinds ...classification.Kind) Precondition {
	return func(span *tokenization.Span) bool {
		_, _, ok := precededBy(span, kinds...)
		return !ok
	}
}

// SingleToken span chỉ gồm một token
func SingleToken(span *tokenization.Span) bool {
	return len(span.Tokens()) == 1
}

func passes(span *tokenization.Span, preconditions []Precondition) bool {
	for _, p := range preconditions {
		if !p(span) {
			return false
		}
	}
	return true
}

// Kind tiền tố: token mang các kind này kết thúc một thành phần đứng trước nó
var boundaryKinds = []classification.Kind{
	classification.KindLocalityPrefix,
	classification.KindCountyPrefix,
	classification.KindRegionPrefix,
	classification.KindStreetPrefix,
	classification.KindPlacePrefix,
	classification.KindUnitType,
	classification.KindStopWord,
	classification.KindIntersection,
}

var adminPrefixKinds = []classification.Kind{
	classification.KindLocalityPrefix,
	classification.KindCountyPrefix,
	classification.KindRegionPrefix,
}

// precededBy tìm phrase dài nhất trong cùng section kết thúc ngay tại token đứng trước span
// và mang một trong các kind. Trả về phrase đó cùng classification tìm được.
func precededBy(span *tokenization.Span, kinds ...classification.Kind) (*tokenization.Span, classification.Classification, bool) {
	prev := span.PrevToken()
	if prev == nil {
		return nil, classification.Classification{}, false
	}

	var (
		found *tokenization.Span
		cls   classification.Classification
	)
	for _, phrase := range phrasesOf(span) {
		if phrase.End() != prev.End() {
			continue
		}
		if found != nil && phrase.Start() >= found.Start() {
			continue
		}
		for _, kind := range kinds {
			if c, ok := phrase.Classification(kind); ok {
				found, cls = phrase, c
				break
			}
		}
	}
	if found != nil {
		return found, cls, true
	}

	for _, kind := range kinds {
		if c, ok := prev.Classification(kind); ok {
			return prev, c, true
		}
	}
	return nil, classification.Classification{}, false
}

// followedByBoundary span kết thúc section hoặc token ngay sau bắt đầu một tiền tố.
// Span cắt ngang một tiền tố nhiều từ ("10 thành" trước "phố") thì không tính.
func followedByBoundary(span *tokenization.Span) bool {
	if crossesBoundary(span) {
		return false
	}
	next := span.NextToken()
	if next == nil {
		return true
	}
	if next.Has(boundaryKinds...) {
		return true
	}
	for _, phrase := range phrasesOf(span) {
		if phrase.Start() == next.Start() && phrase.Has(boundaryKinds...) {
			return true
		}
	}
	return false
}

// crossesBoundary có tiền tố bắt đầu bên trong span nhưng kết thúc sau span
func crossesBoundary(span *tokenization.Span) bool {
	for _, phrase := range phrasesOf(span) {
		if phrase.Start() > span.Start() && phrase.Start() < span.End() && phrase.End() > span.End() && phrase.Has(boundaryKinds...) {
			return true
		}
	}
	return false
}

// containsAny trong phạm vi span có phrase con mang một trong các kind không
func containsAny(span *tokenization.Span, kinds ...classification.Kind) bool {
	for _, phrase := range phrasesOf(span) {
		if phrase.Start() >= span.Start() && phrase.End() <= span.End() && phrase.Has(kinds...) {
			return true
		}
	}
	return false
}

// startsWithBoundary span bắt đầu bằng một tiền tố (chính nó hoặc phrase con đầu tiên)
func startsWithBoundary(span *tokenization.Span) bool {
	for _, phrase := range phrasesOf(span) {
		if phrase.Start() == span.Start() && phrase.End() <= span.End() && phrase.Has(boundaryKinds...) {
			return true
		}
	}
	return false
}

// shadowed tiền tố nằm trong một tiền tố dài hơn kết thúc cùng vị trí, vd "xã" trong "thị xã"
func shadowed(prefix *tokenization.Span) bool {
	for _, phrase := range phrasesOf(prefix) {
		if phrase.End() == prefix.End() && phrase.Start() < prefix.Start() && phrase.Has(boundaryKinds...) {
			return true
		}
	}
	return false
}

// coversSection span phủ toàn bộ token của section
func coversSection(span *tokenization.Span) bool {
	return span.PrevToken() == nil && span.NextToken() == nil
}

func phrasesOf(span *tokenization.Span) []*tokenization.Span {
	section := span.Section()
	if section == nil {
		return nil
	}
	return section.Phrases()
}
