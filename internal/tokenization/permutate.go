package tokenization

// Window giới hạn độ dài cửa sổ phrase (số token)
type Window struct {
	Min int
	Max int
}

// DefaultWindow cửa sổ mặc định [0, 10]
var DefaultWindow = Window{Min: 0, Max: 10}

// PhraseCount số phrase Permutate sinh ra cho n token
func (w Window) PhraseCount(n int) int {
	lo, hi := w.bounds(n)
	total := 0
	for l := lo; l <= hi; l++ {
		total += n - l + 1
	}
	return total
}

func (w Window) bounds(n int) (int, int) {
	lo := w.Min
	if lo < 1 {
		lo = 1
	}
	hi := w.Max
	if hi > n {
		hi = n
	}
	return lo, hi
}

// Permutate sinh một phrase cho mỗi cửa sổ token liên tiếp của section,
// theo thứ tự vị trí bắt đầu tăng dần rồi độ dài tăng dần.
// Phrase có parent là section và children là các token trong cửa sổ;
// liên kết của token không bị thay đổi.
func Permutate(section *Span, w Window) []*Span {
	tokens := section.Children()
	lo, hi := w.bounds(len(tokens))

	section.phrases = section.phrases[:0]
	var out []*Span
	for i := range tokens {
		for l := lo; l <= hi && i+l <= len(tokens); l++ {
			window := tokens[i : i+l]
			phrase := section.arena.NewSpan(window[0].start, window[l-1].end)
			phrase.kind = SpanPhrase
			phrase.parent = section.id
			for _, tok := range window {
				phrase.children = append(phrase.children, tok.id)
			}
			section.phrases = append(section.phrases, phrase.id)
			out = append(out, phrase)
		}
	}
	return out
}
