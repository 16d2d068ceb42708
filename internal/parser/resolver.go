package parser

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/resources"
	"github.com/xrash/smetrics"
)

// ResolverOptions trọng số và ngưỡng cho fuzzy matching
type ResolverOptions struct {
	JWWeight  float64
	LevWeight float64
	Threshold float64
}

// DefaultResolverOptions 0.7 Jaro-Winkler + 0.3 Levenshtein, chấp nhận từ 0.88
func DefaultResolverOptions() ResolverOptions {
	return ResolverOptions{JWWeight: 0.7, LevWeight: 0.3, Threshold: 0.88}
}

// Resolution kết quả resolve một tên hành chính về dạng chuẩn
type Resolution struct {
	Canonical string
	Strategy  string
	Score     float64
}

// AliasResolver resolve tên theo thứ tự exact -> alias -> ascii_exact -> fuzzy.
// Chỉ đọc sau khi dựng, dùng chung được giữa các goroutine.
type AliasResolver struct {
	aliases    map[string]string
	folded     map[string]string
	canonicals []string
	opts       ResolverOptions
}

// NewAliasResolver dựng resolver từ bảng alias -> canonical
func NewAliasResolver(aliases map[string]string, canonicals []string, opts ResolverOptions) *AliasResolver {
	if opts.JWWeight == 0 && opts.LevWeight == 0 {
		opts.JWWeight, opts.LevWeight = DefaultResolverOptions().JWWeight, DefaultResolverOptions().LevWeight
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultResolverOptions().Threshold
	}

	folded := make(map[string]string, len(aliases))
	for alias, canonical := range aliases {
		key := resources.Fold(alias)
		if _, ok := folded[key]; !ok || alias == canonical {
			folded[key] = canonical
		}
	}
	return &AliasResolver{aliases: aliases, folded: folded, canonicals: canonicals, opts: opts}
}

// NewRegionResolver resolver cho tên tỉnh/thành phố
func NewRegionResolver(ds *resources.DictionarySet, opts ResolverOptions) *AliasResolver {
	return NewAliasResolver(ds.RegionAliases(), ds.RegionCanonicals(), opts)
}

// Resolve trả về false khi không strategy nào khớp
func (r *AliasResolver) Resolve(name string) (Resolution, bool) {
	name = resources.NormalizeCell(name)
	if name == "" {
		return Resolution{}, false
	}

	if canonical, ok := r.aliases[name]; ok {
		strategy := models.MatchStrategyAlias
		if canonical == name {
			strategy = models.MatchStrategyExact
		}
		return Resolution{Canonical: canonical, Strategy: strategy, Score: 1}, true
	}

	query := resources.Fold(name)
	if canonical, ok := r.folded[query]; ok {
		return Resolution{Canonical: canonical, Strategy: models.MatchStrategyAsciiExact, Score: 1}, true
	}

	best := Resolution{Strategy: models.MatchStrategyFuzzy}
	for _, canonical := range r.canonicals {
		score := r.fuzzyScore(query, resources.Fold(canonical))
		if score > best.Score {
			best.Canonical, best.Score = canonical, score
		}
	}
	if best.Score < r.opts.Threshold {
		return Resolution{}, false
	}
	return best, true
}

// fuzzyScore kết hợp Jaro-Winkler với khoảng cách Levenshtein chuẩn hóa
func (r *AliasResolver) fuzzyScore(a, b string) float64 {
	jaro := smetrics.JaroWinkler(a, b, 0.7, 4)

	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	lev := 0.0
	if maxLen > 0 {
		lev = 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
	}
	return r.opts.JWWeight*jaro + r.opts.LevWeight*lev
}
