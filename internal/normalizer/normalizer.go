package normalizer

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/resources"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultMaxLength số ký tự tối đa giữ lại sau chuẩn hóa
	DefaultMaxLength = 140
	// Boundary là ký tự phân cách section
	Boundary = ","

	boundaryMarker = " , "
)

var (
	rePhone       = regexp.MustCompile(`(?:\+\d{1,2}\s?)?1?\-?\.?\s?\(?\d{2,4}\)?[\s.-]?\d{2,4}[\s.-]?\d{4}`)
	reParentheses = regexp.MustCompile(`\([^()]*\)`)
	reQuoted      = regexp.MustCompile(`["“”][^"“”]*["“”]`)
	reSlash       = regexp.MustCompile(`\s*[/\\]\s*`)
	reSpacedDash  = regexp.MustCompile(`\s+[–|-]\s+`)
	reMultiComma  = regexp.MustCompile(`\s*(?:,\s*)+`)
	reMultiDot    = regexp.MustCompile(`\s+\.\s*`)
	reMultiSpace  = regexp.MustCompile(` {2,}`)
)

type prefixRule struct {
	alias     string
	canonical string
	dotted    bool
	short     bool
}

// prefixMode tách bảng tiền tố có dấu và không dấu
type prefixMode struct {
	tables     [3][]prefixRule // region, county, locality
	aliases    []string        // mọi alias, dài trước
	compounds  map[string]bool // tiền tố nhiều từ, vd "thị xã"
	spaced     []string        // tên chuẩn cần tách khỏi chữ số, vd "quận1"
	qualifiers []string
}

// Normalizer làm sạch địa chỉ thô qua các bước có thứ tự cố định.
// Không giữ trạng thái thay đổi, dùng chung giữa nhiều goroutine được.
type Normalizer struct {
	rules     *RulesConfig
	wordChars string
	major     string
	minor     string
	modes     [2]prefixMode
}

// New tạo Normalizer từ DictionarySet đã nạp
func New(dict *resources.DictionarySet) (*Normalizer, error) {
	if dict == nil {
		return nil, errors.New("normalizer: dictionary set rỗng")
	}

	rules, err := LoadRulesConfig()
	if err != nil {
		return nil, err
	}

	n := &Normalizer{
		rules:     rules,
		wordChars: rules.WordChars,
		major:     rules.SpecialChars.Major,
		minor:     rules.SpecialChars.Minor,
	}
	n.modes[0] = buildMode(dict, func(s string) string { return s })
	n.modes[1] = buildMode(dict, FoldVietnamese)

	return n, nil
}

func buildMode(dict *resources.DictionarySet, fold func(string) string) prefixMode {
	m := prefixMode{compounds: make(map[string]bool)}
	seenAlias := make(map[string]bool)
	seenSpaced := make(map[string]bool)

	sources := [3][]resources.PrefixEntry{dict.RegionPrefixes(), dict.CountyPrefixes(), dict.LocalityPrefixes()}
	for i, entries := range sources {
		for _, e := range entries {
			rule := prefixRule{
				alias:     fold(e.Alias),
				canonical: fold(e.Canonical),
				dotted:    e.Dotted(),
				short:     e.Short(),
			}
			m.tables[i] = append(m.tables[i], rule)

			if !seenAlias[rule.alias] {
				seenAlias[rule.alias] = true
				m.aliases = append(m.aliases, rule.alias)
			}
			for _, p := range []string{rule.alias, rule.canonical} {
				if strings.Contains(p, " ") {
					m.compounds[p] = true
				}
			}
			if i > 0 && !seenSpaced[rule.canonical] {
				seenSpaced[rule.canonical] = true
				m.spaced = append(m.spaced, rule.canonical)
			}
		}
	}

	seenQualifier := make(map[string]bool)
	for _, q := range dict.Qualifiers() {
		if q = fold(q); !seenQualifier[q] {
			seenQualifier[q] = true
			m.qualifiers = append(m.qualifiers, q)
		}
	}

	sortByLengthDesc(m.aliases)
	sortByLengthDesc(m.spaced)
	sortByLengthDesc(m.qualifiers)
	return m
}

func (n *Normalizer) mode(nonAccent bool) *prefixMode {
	if nonAccent {
		return &n.modes[1]
	}
	return &n.modes[0]
}

// Normalize chạy toàn bộ pipeline. Input rỗng (hoặc chỉ có khoảng trắng) được trả nguyên.
func (n *Normalizer) Normalize(raw string, nonAccent bool) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}

	s := n.stepCanonicalize(raw)
	s = n.stepRepairAccents(s)
	if nonAccent {
		s = n.stepStripDiacritics(s)
	}
	s = n.stepRemoveNoise(s)
	s = n.stepNormalizeDashes(s)
	s = n.stepRemoveQualifiers(s, nonAccent)
	if strings.Trim(s, " "+Boundary) == "" {
		return ""
	}
	s = n.stepExpandPrefixes(s, nonAccent)
	s = n.stepCleanup(s)
	return n.stepTruncate(s)
}

// stepCanonicalize bước 1: trim, lowercase, NFC
func (n *Normalizer) stepCanonicalize(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}

// stepRepairAccents bước 2: đặt lại dấu cho oa/oe/uy và gộp "qui" -> "quy".
// Yêu cầu input đã NFC.
func (n *Normalizer) stepRepairAccents(s string) string {
	return resources.RepairAccents(s)
}

// stepStripDiacritics bước 3 (tùy chọn): bỏ toàn bộ dấu, đ -> d
func (n *Normalizer) stepStripDiacritics(s string) string {
	return FoldVietnamese(s)
}

// stepRemoveNoise bước 4: xóa số điện thoại, phần trong ngoặc và trong nháy kép
func (n *Normalizer) stepRemoveNoise(s string) string {
	s = rePhone.ReplaceAllString(s, "")
	s = reParentheses.ReplaceAllString(s, "")
	return reQuoted.ReplaceAllString(s, "")
}

// stepNormalizeDashes bước 5: bỏ khoảng trắng quanh "/", gạch nối giữa hai chữ thành khoảng trắng.
// Gạch nối giữa hai chữ số (vd "10-12") được giữ.
func (n *Normalizer) stepNormalizeDashes(s string) string {
	s = reSlash.ReplaceAllString(s, "/")
	s = reSpacedDash.ReplaceAllString(s, " ")

	rs := []rune(s)
	for i := 1; i < len(rs)-1; i++ {
		if rs[i] != '-' && rs[i] != '–' {
			continue
		}
		if !unicode.IsDigit(rs[i-1]) && !unicode.IsDigit(rs[i+1]) {
			rs[i] = ' '
		}
	}
	return string(rs)
}

// stepRemoveQualifiers bước 6: thay các cụm chú thích ("gần", "đối diện"...) bằng ranh giới section
func (n *Normalizer) stepRemoveQualifiers(s string, nonAccent bool) string {
	s = strings.TrimSpace(s)
	for _, q := range n.mode(nonAccent).qualifiers {
		s = rewrite(s, q, func(s string, start, end int) (string, int, bool) {
			if !afterSpace(s, start) || n.continuesWord(s, end) {
				return "", 0, false
			}
			return boundaryMarker, end, true
		})
	}
	return s
}

// stepExpandPrefixes bước 7: mở rộng tiền tố hành chính viết tắt theo thứ tự tỉnh, quận, phường.
// Dạng có dấu chấm ("p.") và dạng ngắn dính số ("p1") được chèn ranh giới section phía trước.
func (n *Normalizer) stepExpandPrefixes(s string, nonAccent bool) string {
	m := n.mode(nonAccent)
	s = smoothComma(strings.TrimSpace(s))

	for _, table := range m.tables {
		for _, rule := range table {
			rule := rule
			if rule.dotted {
				s = rewrite(s, rule.alias, n.expandDotted(m, rule))
				continue
			}
			if rule.short {
				s = rewrite(s, rule.alias, n.expandDigitSuffixed(m, rule))
			}
			if rule.alias != rule.canonical {
				s = rewrite(s, rule.alias, n.expandWord(m, rule))
			}
		}
	}

	for _, word := range m.spaced {
		s = rewrite(s, word, func(s string, start, end int) (string, int, bool) {
			if r, ok := runeAt(s, end); ok && unicode.IsDigit(r) {
				return s[start:end] + " ", end, true
			}
			return "", 0, false
		})
	}
	return s
}

func (n *Normalizer) expandDotted(m *prefixMode, rule prefixRule) matchFunc {
	return func(s string, start, end int) (string, int, bool) {
		if !afterSeparator(s, start) || m.longerAliasAt(s, start, rule.alias) || m.splitsCompound(s, start, rule) {
			return "", 0, false
		}
		next := skipRun(s, end, " "+n.major)
		r, ok := runeAt(s, next)
		if !ok || !(n.isWordChar(r) || unicode.IsDigit(r)) {
			return "", 0, false
		}
		return boundaryMarker + rule.canonical + " ", next, true
	}
}

func (n *Normalizer) expandDigitSuffixed(m *prefixMode, rule prefixRule) matchFunc {
	return func(s string, start, end int) (string, int, bool) {
		if !afterSeparator(s, start) || m.splitsCompound(s, start, rule) {
			return "", 0, false
		}
		if r, ok := runeAt(s, end); !ok || !unicode.IsDigit(r) {
			return "", 0, false
		}
		return boundaryMarker + rule.canonical + " ", end, true
	}
}

func (n *Normalizer) expandWord(m *prefixMode, rule prefixRule) matchFunc {
	return func(s string, start, end int) (string, int, bool) {
		if !afterSeparator(s, start) || m.splitsCompound(s, start, rule) {
			return "", 0, false
		}
		next := skipRun(s, end, " \t")
		if next == end || next == len(s) {
			return "", 0, false
		}
		return " " + rule.canonical + " ", next, true
	}
}

// stepCleanup bước 8: xóa ký tự đặc biệt, gộp ranh giới và dấu chấm, gộp khoảng trắng
func (n *Normalizer) stepCleanup(s string) string {
	s = replaceRuns(s, n.minor, " ")
	s = reMultiComma.ReplaceAllString(s, Boundary+" ")
	s = reMultiDot.ReplaceAllString(s, " ")

	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, " "+n.major)
	s = strings.TrimRight(s, " "+n.major)

	s = reMultiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stepTruncate bước 9: giữ lại MaxLength ký tự cuối cùng
func (n *Normalizer) stepTruncate(s string) string {
	rs := []rune(s)
	if len(rs) <= n.rules.MaxLength {
		return s
	}
	return string(rs[len(rs)-n.rules.MaxLength:])
}

func (n *Normalizer) isWordChar(r rune) bool {
	return strings.ContainsRune(n.wordChars, r)
}

// continuesWord kiểm tra ký tự tại i có nối tiếp từ hiện tại (chữ hoặc số) không
func (n *Normalizer) continuesWord(s string, i int) bool {
	r, ok := runeAt(s, i)
	return ok && (n.isWordChar(r) || unicode.IsDigit(r))
}

// longerAliasAt kiểm tra tại start có alias dài hơn cũng khớp không (vd "t.x." so với "t.")
func (m *prefixMode) longerAliasAt(s string, start int, alias string) bool {
	for _, a := range m.aliases {
		if len(a) <= len(alias) {
			break
		}
		if strings.HasPrefix(s[start:], a) {
			return true
		}
	}
	return false
}

// splitsCompound chặn việc tách tiền tố nhiều từ, vd "xã" trong "thị xã"
func (m *prefixMode) splitsCompound(s string, start int, rule prefixRule) bool {
	prev := previousWord(s, start)
	if prev == "" {
		return false
	}
	return m.compounds[prev+" "+rule.alias] || m.compounds[prev+" "+rule.canonical]
}

// smoothComma chèn khoảng trắng sau dấu phẩy dính liền chữ
func smoothComma(s string) string {
	var b strings.Builder
	rs := []rune(s)
	for i, r := range rs {
		b.WriteRune(r)
		if r == ',' && i+1 < len(rs) && !unicode.IsSpace(rs[i+1]) {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func sortByLengthDesc(list []string) {
	sort.SliceStable(list, func(i, j int) bool { return len(list[i]) > len(list[j]) })
}
