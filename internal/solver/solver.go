package solver

import (
	"math"
	"sort"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/tokenization"
)

const (
	DefaultMaxSolutions = 32
	DefaultMaxNodes     = 20000

	scoreEpsilon = 1e-9
)

// Options giới hạn công việc khi sinh solution
type Options struct {
	// MaxSolutions số solution tối đa được sinh trước khi lọc
	MaxSolutions int
	// MaxNodes số node tối đa của cây tìm kiếm
	MaxNodes int
}

// DefaultOptions giới hạn mặc định
func DefaultOptions() Options {
	return Options{MaxSolutions: DefaultMaxSolutions, MaxNodes: DefaultMaxNodes}
}

// Solver sinh solution từ các phrase đã phân loại, chạy chuỗi filter rồi xếp hạng
type Solver struct {
	opts    Options
	filters []Filter
}

// New tạo Solver; không truyền filter thì dùng DefaultFilters
func New(opts Options, filters ...Filter) *Solver {
	if opts.MaxSolutions <= 0 {
		opts.MaxSolutions = DefaultMaxSolutions
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = DefaultMaxNodes
	}
	if len(filters) == 0 {
		filters = DefaultFilters()
	}
	return &Solver{opts: opts, filters: filters}
}

// Solve ghi kết quả vào t.Solutions, solution tốt nhất đứng đầu
func (s *Solver) Solve(t *tokenization.Tokenizer) {
	t.Solutions = Generate(Candidates(t), s.opts)
	for _, f := range s.filters {
		f.Solve(t)
	}
	Rank(t)
}

// Candidates mọi cặp (phrase, classification công khai) theo thứ tự start, end, kind
func Candidates(t *tokenization.Tokenizer) []tokenization.Pair {
	var out []tokenization.Pair
	for _, phrase := range t.Phrases() {
		for _, c := range phrase.Classifications() {
			if c.IsPublic() {
				out = append(out, tokenization.Pair{Span: phrase, Classification: c})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Span.Start() != b.Span.Start() {
			return a.Span.Start() < b.Span.Start()
		}
		if a.Span.End() != b.Span.End() {
			return a.Span.End() < b.Span.End()
		}
		return a.Kind() < b.Kind()
	})
	return out
}

// Generate duyệt theo chiều sâu (ưu tiên chọn) để dựng các tập cặp cực đại:
// các span không chồng lấn và mỗi kind xuất hiện tối đa một lần.
// Dừng khi đủ MaxSolutions hoặc hết MaxNodes.
func Generate(candidates []tokenization.Pair, opts Options) []*tokenization.Solution {
	g := &generator{candidates: candidates, opts: opts, used: make(map[int]bool)}
	g.walk(0)
	return g.out
}

type generator struct {
	candidates []tokenization.Pair
	opts       Options
	current    []int
	used       map[int]bool
	nodes      int
	out        []*tokenization.Solution
}

func (g *generator) walk(i int) {
	if len(g.out) >= g.opts.MaxSolutions || g.nodes >= g.opts.MaxNodes {
		return
	}
	g.nodes++

	if i == len(g.candidates) {
		if len(g.current) > 0 && g.maximal() {
			g.out = append(g.out, g.solution())
		}
		return
	}

	kind := int(g.candidates[i].Kind())
	if g.fits(i) {
		g.current = append(g.current, i)
		g.used[kind] = true
		g.walk(i + 1)
		g.current = g.current[:len(g.current)-1]
		delete(g.used, kind)
	}
	g.walk(i + 1)
}

func (g *generator) fits(i int) bool {
	c := g.candidates[i]
	if g.used[int(c.Kind())] {
		return false
	}
	for _, j := range g.current {
		if g.candidates[j].Span.Overlaps(c.Span) {
			return false
		}
	}
	return true
}

// maximal không còn ứng viên nào thêm được vào tập hiện tại
func (g *generator) maximal() bool {
	chosen := make(map[int]bool, len(g.current))
	for _, j := range g.current {
		chosen[j] = true
	}
	for i := range g.candidates {
		if !chosen[i] && g.fits(i) {
			return false
		}
	}
	return true
}

func (g *generator) solution() *tokenization.Solution {
	pairs := make([]tokenization.Pair, 0, len(g.current))
	for _, j := range g.current {
		pairs = append(pairs, g.candidates[j])
	}
	return tokenization.NewSolution(pairs...)
}

// Rank tính điểm rồi sắp solution: tổng confidence giảm dần, độ phủ giảm dần,
// số lá chưa phủ tăng dần; bằng nhau giữ thứ tự sinh
func Rank(t *tokenization.Tokenizer) {
	leaves := t.Leaves()
	for _, s := range t.Solutions {
		score(s, leaves)
	}

	sort.SliceStable(t.Solutions, func(i, j int) bool {
		a, b := t.Solutions[i], t.Solutions[j]
		if math.Abs(a.Score-b.Score) > scoreEpsilon {
			return a.Score > b.Score
		}
		if a.Covered != b.Covered {
			return a.Covered > b.Covered
		}
		return a.Gaps < b.Gaps
	})
}

func score(s *tokenization.Solution, leaves []*tokenization.Span) {
	s.Score, s.Covered, s.Gaps = 0, 0, 0
	for _, p := range s.Pairs {
		s.Score += p.Classification.Confidence()
		s.Covered += p.Span.Len()
	}

	for _, leaf := range leaves {
		covered := false
		for _, p := range s.Pairs {
			if p.Span.Start() <= leaf.Start() && leaf.End() <= p.Span.End() {
				covered = true
				break
			}
		}
		if !covered {
			s.Gaps++
		}
	}
}
