package solver

import (
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/classification"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/tokenization"
)

// Filter sửa danh sách solution của tokenizer tại chỗ
type Filter interface {
	Solve(t *tokenization.Tokenizer)
}

// MustNotFollowFilter: nếu có cặp Subject bắt đầu trước khi cặp Object đầu tiên kết thúc
// (Subject đứng trước hoặc chồng lên Object) thì mọi cặp Object bị xóa.
// Solution rỗng sau khi xóa bị loại.
type MustNotFollowFilter struct {
	Object  classification.Kind
	Subject classification.Kind
}

func MustNotFollow(object, subject classification.Kind) MustNotFollowFilter {
	return MustNotFollowFilter{Object: object, Subject: subject}
}

func (f MustNotFollowFilter) Solve(t *tokenization.Tokenizer) {
	prune(t, f.Object, f.Subject, func(object, subject tokenization.Pair) bool {
		return subject.Span.Start() < object.Span.End()
	})
}

// MustNotPrecedeFilter: nếu có cặp Subject bắt đầu sau khi cặp Object đầu tiên kết thúc
// thì mọi cặp Object bị xóa. Vd quốc gia không đứng trước tỉnh.
type MustNotPrecedeFilter struct {
	Object  classification.Kind
	Subject classification.Kind
}

func MustNotPrecede(object, subject classification.Kind) MustNotPrecedeFilter {
	return MustNotPrecedeFilter{Object: object, Subject: subject}
}

func (f MustNotPrecedeFilter) Solve(t *tokenization.Tokenizer) {
	prune(t, f.Object, f.Subject, func(object, subject tokenization.Pair) bool {
		return subject.Span.Start() >= object.Span.End()
	})
}

// prune xóa cặp object khi violates đúng với một cặp subject bất kỳ
func prune(t *tokenization.Tokenizer, object, subject classification.Kind, violates func(object, subject tokenization.Pair) bool) {
	kept := t.Solutions[:0]
	for _, s := range t.Solutions {
		first, ok := s.First(object)
		if !ok {
			kept = append(kept, s)
			continue
		}

		for _, sub := range s.ByKind(subject) {
			if violates(first, sub) {
				s.Remove(object)
				break
			}
		}
		if s.Len() == 0 {
			continue
		}
		kept = append(kept, s)
	}
	t.Solutions = kept
}

// SubsetFilter loại solution trùng lặp và solution là tập con thực sự của solution khác
type SubsetFilter struct{}

func (SubsetFilter) Solve(t *tokenization.Tokenizer) {
	seen := make(map[string]bool, len(t.Solutions))
	var unique []*tokenization.Solution
	for _, s := range t.Solutions {
		key := s.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, s)
	}

	kept := make([]*tokenization.Solution, 0, len(unique))
	for i, s := range unique {
		subset := false
		for j, other := range unique {
			if i != j && other.Len() > s.Len() && other.Contains(s) {
				subset = true
				break
			}
		}
		if !subset {
			kept = append(kept, s)
		}
	}
	t.Solutions = kept
}

// DefaultFilters chuỗi filter mặc định, chạy theo thứ tự
func DefaultFilters() []Filter {
	return []Filter{
		MustNotFollow(classification.KindHouseNumber, classification.KindStreet),
		MustNotFollow(classification.KindStreet, classification.KindLocality),
		MustNotFollow(classification.KindVillage, classification.KindLocality),
		MustNotFollow(classification.KindLocality, classification.KindCounty),
		MustNotFollow(classification.KindCounty, classification.KindRegion),
		MustNotFollow(classification.KindLocality, classification.KindRegion),
		MustNotFollow(classification.KindUnit, classification.KindLocality),
		MustNotPrecede(classification.KindCountry, classification.KindRegion),
		SubsetFilter{},
	}
}
