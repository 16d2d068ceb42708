package tokenization

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/classification"
)

// Pair một cặp (span, classification) trong solution
type Pair struct {
	Span           *Span
	Classification classification.Classification
}

// Kind viết tắt của Classification.Kind()
func (p Pair) Kind() classification.Kind { return p.Classification.Kind() }

func (p Pair) key() string {
	return fmt.Sprintf("%d:%d:%d", p.Span.start, p.Span.end, p.Kind())
}

// Solution một cách hiểu toàn bộ địa chỉ, các cặp sắp theo vị trí span
type Solution struct {
	Pairs   []Pair
	Score   float64
	Covered int
	Gaps    int
}

// NewSolution tạo solution, các cặp được sắp theo start rồi end
func NewSolution(pairs ...Pair) *Solution {
	s := &Solution{Pairs: append([]Pair(nil), pairs...)}
	s.sort()
	return s
}

func (s *Solution) sort() {
	sort.SliceStable(s.Pairs, func(i, j int) bool {
		a, b := s.Pairs[i].Span, s.Pairs[j].Span
		if a.start != b.start {
			return a.start < b.start
		}
		return a.end < b.end
	})
}

// Len số cặp
func (s *Solution) Len() int { return len(s.Pairs) }

// Has solution có cặp nào thuộc kind không
func (s *Solution) Has(kind classification.Kind) bool {
	_, ok := s.First(kind)
	return ok
}

// First cặp đầu tiên (theo vị trí) thuộc kind
func (s *Solution) First(kind classification.Kind) (Pair, bool) {
	for _, p := range s.Pairs {
		if p.Kind() == kind {
			return p, true
		}
	}
	return Pair{}, false
}

// ByKind mọi cặp thuộc kind
func (s *Solution) ByKind(kind classification.Kind) []Pair {
	var out []Pair
	for _, p := range s.Pairs {
		if p.Kind() == kind {
			out = append(out, p)
		}
	}
	return out
}

// Remove xóa mọi cặp thuộc kind, trả về số cặp đã xóa
func (s *Solution) Remove(kind classification.Kind) int {
	kept := s.Pairs[:0]
	removed := 0
	for _, p := range s.Pairs {
		if p.Kind() == kind {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	s.Pairs = kept
	return removed
}

// Key định danh nội dung solution, dùng để loại trùng
func (s *Solution) Key() string {
	keys := make([]string, 0, len(s.Pairs))
	for _, p := range s.Pairs {
		keys = append(keys, p.key())
	}
	return strings.Join(keys, "|")
}

// Contains mọi cặp của other đều có trong s
func (s *Solution) Contains(other *Solution) bool {
	own := make(map[string]bool, len(s.Pairs))
	for _, p := range s.Pairs {
		own[p.key()] = true
	}
	for _, p := range other.Pairs {
		if !own[p.key()] {
			return false
		}
	}
	return true
}

// Clone bản sao nông, dùng chung span
func (s *Solution) Clone() *Solution {
	c := *s
	c.Pairs = append([]Pair(nil), s.Pairs...)
	return &c
}

func (s *Solution) String() string {
	parts := make([]string, 0, len(s.Pairs))
	for _, p := range s.Pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.Classification.Label(), p.Span.Norm()))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
