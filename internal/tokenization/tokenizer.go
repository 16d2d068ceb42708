package tokenization

// TextNormalizer bước làm sạch chạy trước khi phân đoạn
type TextNormalizer interface {
	Normalize(raw string, nonAccent bool) string
}

// Tokenizer là phiên parse của một input: văn bản đã chuẩn hóa, rừng section,
// coverage và danh sách solution. Mỗi input một instance, không chia sẻ trạng thái.
type Tokenizer struct {
	Raw        string
	NonAccent  bool
	Normalized string
	Solutions  []*Solution

	arena    *Arena
	root     *Span
	sections []*Span
	coverage int
}

// NewTokenizer chuẩn hóa raw rồi phân đoạn và sinh phrase cho từng section.
// norm có thể nil, khi đó raw được dùng nguyên.
func NewTokenizer(norm TextNormalizer, raw string, nonAccent bool, w Window) *Tokenizer {
	normalized := raw
	if norm != nil {
		normalized = norm.Normalize(raw, nonAccent)
	}

	t := &Tokenizer{
		Raw:        raw,
		NonAccent:  nonAccent,
		Normalized: normalized,
		arena:      NewArena(normalized),
	}
	t.root = t.arena.NewSpan(0, len(normalized))
	t.segment()
	for _, section := range t.sections {
		Permutate(section, w)
	}
	t.coverage = t.computeCoverage()
	return t
}

// segment dựng root -> section -> token -> phần con (khi token có gạch nối).
// Phần gạch nối nằm dưới token chứ không thay token trong section, nên Permutate
// vẫn thấy "10-12" nguyên vẹn làm số nhà.
func (t *Tokenizer) segment() {
	t.sections = Split(t.root, IsSectionBoundary)
	t.arena.link(t.root, t.sections)

	for _, section := range t.sections {
		tokens := Split(section, IsWhitespace)
		t.arena.link(section, tokens)

		for _, tok := range tokens {
			if len(splitRanges(tok.Body(), IsHyphen)) < 2 {
				continue
			}
			t.arena.link(tok, Split(tok, IsHyphen))
		}
	}
}

// computeCoverage tổng độ dài các lá, chỉ tính trên chuỗi token chưa hoán vị
func (t *Tokenizer) computeCoverage() int {
	total := 0
	for _, leaf := range t.Leaves() {
		total += leaf.Len()
	}
	return total
}

func (t *Tokenizer) Arena() *Arena     { return t.arena }
func (t *Tokenizer) Root() *Span       { return t.root }
func (t *Tokenizer) Sections() []*Span { return t.sections }
func (t *Tokenizer) Coverage() int     { return t.coverage }
func (t *Tokenizer) Text() string      { return t.Normalized }
func (t *Tokenizer) IsEmpty() bool     { return len(t.sections) == 0 }

// Leaves mọi lá của mọi section theo thứ tự
func (t *Tokenizer) Leaves() []*Span {
	var out []*Span
	for _, section := range t.sections {
		for _, tok := range section.Children() {
			out = append(out, tok.Leaves()...)
		}
	}
	return out
}

// Phrases mọi phrase của mọi section theo thứ tự sinh
func (t *Tokenizer) Phrases() []*Span {
	var out []*Span
	for _, section := range t.sections {
		out = append(out, section.Phrases()...)
	}
	return out
}
