package normalizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// matchFunc quyết định có thay thế s[start:end] không.
// Trả về chuỗi thay thế và vị trí kết thúc phần bị thay (>= end).
type matchFunc func(s string, start, end int) (repl string, next int, ok bool)

// rewrite quét mọi vị trí xuất hiện của old trong s và để fn quyết định thay thế.
// Điều kiện ranh giới được kiểm tra trên chuỗi gốc, tương đương lookaround.
func rewrite(s, old string, fn matchFunc) string {
	if old == "" || !strings.Contains(s, old) {
		return s
	}

	var b strings.Builder
	changed := false
	last, i := 0, 0
	for i < len(s) {
		j := strings.Index(s[i:], old)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(old)
		if repl, next, ok := fn(s, start, end); ok {
			b.WriteString(s[last:start])
			b.WriteString(repl)
			last, i = next, next
			changed = true
			continue
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		i = start + size
	}

	if !changed {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

func runeBefore(s string, i int) (rune, bool) {
	if i <= 0 {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return r, true
}

func runeAt(s string, i int) (rune, bool) {
	if i >= len(s) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r, true
}

// afterSeparator: đầu chuỗi, sau khoảng trắng hoặc dấu phẩy
func afterSeparator(s string, i int) bool {
	r, ok := runeBefore(s, i)
	return !ok || r == ',' || unicode.IsSpace(r)
}

// afterSpace: đầu chuỗi hoặc sau khoảng trắng
func afterSpace(s string, i int) bool {
	r, ok := runeBefore(s, i)
	return !ok || unicode.IsSpace(r)
}

// previousWord trả về từ đứng ngay trước vị trí i (bỏ qua khoảng trắng)
func previousWord(s string, i int) string {
	end := strings.TrimRightFunc(s[:i], unicode.IsSpace)
	if len(end) == len(s[:i]) {
		// không có khoảng trắng phân cách
		return ""
	}
	start := strings.LastIndexFunc(end, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if start < 0 {
		return end
	}
	_, size := utf8.DecodeRuneInString(end[start:])
	return end[start+size:]
}

// skipRun trả về vị trí đầu tiên từ i không thuộc tập chars
func skipRun(s string, i int, chars string) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !strings.ContainsRune(chars, r) {
			break
		}
		i += size
	}
	return i
}

// replaceRuns thay mỗi cụm liên tiếp ký tự thuộc chars bằng repl
func replaceRuns(s, chars, repl string) string {
	var b strings.Builder
	inRun := false
	for _, r := range s {
		if strings.ContainsRune(chars, r) {
			if !inRun {
				b.WriteString(repl)
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}
