package tokenization

import (
	"sort"
	"strings"
	"unicode"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/classification"
)

// None đánh dấu liên kết rỗng (không có parent/prev/next)
const None = -1

// SpanKind vị trí của span trong rừng phân đoạn
type SpanKind int

const (
	SpanRoot SpanKind = iota
	SpanSection
	SpanToken
	SpanPart
	SpanPhrase
)

// Arena sở hữu toàn bộ span của một lần parse, span được tham chiếu bằng chỉ số
type Arena struct {
	text  string
	spans []*Span
}

// NewArena tạo arena trên văn bản đã chuẩn hóa
func NewArena(text string) *Arena {
	return &Arena{text: text}
}

// Text văn bản gốc của arena
func (a *Arena) Text() string { return a.text }

// Len số span đã cấp phát
func (a *Arena) Len() int { return len(a.spans) }

// NewSpan cấp phát span [start, end) chưa có liên kết
func (a *Arena) NewSpan(start, end int) *Span {
	s := &Span{
		arena:  a,
		id:     len(a.spans),
		start:  start,
		end:    end,
		parent: None,
		prev:   None,
		next:   None,
	}
	a.spans = append(a.spans, s)
	return s
}

// Span tra span theo id, nil nếu id không hợp lệ
func (a *Arena) Span(id int) *Span {
	if id < 0 || id >= len(a.spans) {
		return nil
	}
	return a.spans[id]
}

// link gắn children vào parent theo thứ tự và nối prev/next giữa các anh em
func (a *Arena) link(parent *Span, children []*Span) {
	parent.children = parent.children[:0]
	for i, child := range children {
		child.parent = parent.id
		child.prev, child.next = None, None
		if i > 0 {
			child.prev = children[i-1].id
		}
		if i < len(children)-1 {
			child.next = children[i+1].id
		}
		parent.children = append(parent.children, child.id)
	}
}

// Span là khoảng [start, end) trên văn bản đã chuẩn hóa, một node trong rừng phân đoạn.
// Offset tính theo byte.
type Span struct {
	arena    *Arena
	id       int
	kind     SpanKind
	start    int
	end      int
	parent   int
	children []int
	prev     int
	next     int
	phrases  []int

	classifications map[classification.Kind]classification.Classification

	norm        string
	normReady   bool
	numerals    bool
	numeralsSet bool
}

func (s *Span) ID() int        { return s.id }
func (s *Span) Kind() SpanKind { return s.kind }
func (s *Span) Start() int     { return s.start }
func (s *Span) End() int       { return s.end }
func (s *Span) Len() int       { return s.end - s.start }

// Body chuỗi con thô của span
func (s *Span) Body() string {
	return s.arena.text[s.start:s.end]
}

// Norm chuỗi đã trim và lowercase, tính một lần rồi cache
func (s *Span) Norm() string {
	if !s.normReady {
		s.norm = strings.ToLower(strings.TrimSpace(s.Body()))
		s.normReady = true
	}
	return s.norm
}

// ContainsNumerals span có chứa chữ số hay không, cache sau lần đầu
func (s *Span) ContainsNumerals() bool {
	if !s.numeralsSet {
		s.numerals = strings.ContainsFunc(s.Body(), unicode.IsDigit)
		s.numeralsSet = true
	}
	return s.numerals
}

// Overlaps hai span có giao nhau không
func (s *Span) Overlaps(other *Span) bool {
	return s.start < other.end && other.start < s.end
}

func (s *Span) Parent() *Span { return s.arena.Span(s.parent) }
func (s *Span) Prev() *Span   { return s.arena.Span(s.prev) }
func (s *Span) Next() *Span   { return s.arena.Span(s.next) }

// Children danh sách con theo thứ tự start
func (s *Span) Children() []*Span {
	return s.resolve(s.children)
}

// Phrases các phrase sinh bởi Permutate (chỉ có ở section)
func (s *Span) Phrases() []*Span {
	return s.resolve(s.phrases)
}

func (s *Span) FirstChild() *Span {
	if len(s.children) == 0 {
		return nil
	}
	return s.arena.Span(s.children[0])
}

func (s *Span) LastChild() *Span {
	if len(s.children) == 0 {
		return nil
	}
	return s.arena.Span(s.children[len(s.children)-1])
}

// Leaves các span lá dưới span này; span không có con là lá của chính nó
func (s *Span) Leaves() []*Span {
	if len(s.children) == 0 {
		return []*Span{s}
	}
	var out []*Span
	for _, child := range s.Children() {
		out = append(out, child.Leaves()...)
	}
	return out
}

// Tokens các token cấp từ mà span bao phủ
func (s *Span) Tokens() []*Span {
	switch s.kind {
	case SpanToken:
		return []*Span{s}
	case SpanPart:
		return []*Span{s.Parent()}
	default:
		return s.Children()
	}
}

// Section trả về section chứa span, nil với root
func (s *Span) Section() *Span {
	cur := s
	for cur != nil && cur.kind != SpanSection {
		cur = cur.Parent()
	}
	return cur
}

// PrevToken token đứng ngay trước lá đầu tiên của span trong cùng section
func (s *Span) PrevToken() *Span {
	tokens := s.Tokens()
	if len(tokens) == 0 {
		return nil
	}
	return tokens[0].Prev()
}

// NextToken token đứng ngay sau lá cuối cùng của span trong cùng section
func (s *Span) NextToken() *Span {
	tokens := s.Tokens()
	if len(tokens) == 0 {
		return nil
	}
	return tokens[len(tokens)-1].Next()
}

// Classify gắn classification, ghi đè classification cùng kind đã có.
// Nếu span chỉ có một con trùng phạm vi thì con cũng được gắn.
func (s *Span) Classify(c classification.Classification) {
	if s.classifications == nil {
		s.classifications = make(map[classification.Kind]classification.Classification)
	}
	s.classifications[c.Kind()] = c

	if len(s.children) == 1 {
		child := s.FirstChild()
		if child.start == s.start && child.end == s.end {
			child.Classify(c)
		}
	}
}

// Classification lấy classification theo kind
func (s *Span) Classification(kind classification.Kind) (classification.Classification, bool) {
	c, ok := s.classifications[kind]
	return c, ok
}

// Has span có classification thuộc kind nào trong danh sách không
func (s *Span) Has(kinds ...classification.Kind) bool {
	for _, kind := range kinds {
		if _, ok := s.classifications[kind]; ok {
			return true
		}
	}
	return false
}

// Classifications toàn bộ classification theo thứ tự kind
func (s *Span) Classifications() []classification.Classification {
	out := make([]classification.Classification, 0, len(s.classifications))
	for _, c := range s.classifications {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind() < out[j].Kind() })
	return out
}

func (s *Span) resolve(ids []int) []*Span {
	out := make([]*Span, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.arena.Span(id))
	}
	return out
}
