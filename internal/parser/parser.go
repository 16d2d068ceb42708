package parser

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/config"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/classification"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/classifier"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/normalizer"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/resources"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/solver"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/tokenization"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fallback parser dự phòng khi pipeline không tìm được thành phần nào
type Fallback interface {
	Available() bool
	Parse(raw string) []models.Component
}

// Options cấu hình AddressParser
type Options struct {
	Window          tokenization.Window
	Solver          solver.Options
	ReturnSolutions int
	CacheSize       int
	Workers         int
	Locales         []string
	Resolver        ResolverOptions
	Thresholds      config.Thresholds
	Confidence      config.ConfidenceWeights
	Fallback        Fallback
}

// DefaultOptions tương đương config.Defaults()
func DefaultOptions() Options {
	return OptionsFromConfig(config.Defaults())
}

// OptionsFromConfig chuyển ParserCfg sang Options
func OptionsFromConfig(cfg config.ParserCfg) Options {
	return Options{
		Window: tokenization.Window{Min: cfg.Window.Min, Max: cfg.Window.Max},
		Solver: solver.Options{
			MaxSolutions: cfg.Solver.MaxSolutions,
			MaxNodes:     cfg.Solver.MaxNodes,
		},
		ReturnSolutions: cfg.Solver.ReturnSolutions,
		CacheSize:       cfg.CacheSize,
		Workers:         cfg.Workers,
		Locales:         cfg.Locales,
		Resolver: ResolverOptions{
			JWWeight:  cfg.JWWeight,
			LevWeight: cfg.LevWeight,
			Threshold: cfg.Thresholds.Fuzzy,
		},
		Thresholds: cfg.Thresholds,
		Confidence: cfg.Confidence,
	}
}

// AddressParser parser địa chỉ chính: normalizer -> tokenizer -> classifier -> solver.
// Dictionary và classifier dựng một lần trong New, mỗi lần Parse dùng một Tokenizer riêng.
type AddressParser struct {
	dict        *resources.DictionarySet
	normalizer  *normalizer.Normalizer
	classifiers []classifier.Classifier
	solver      *solver.Solver
	resolver    *AliasResolver
	cache       *lru.Cache[string, *models.AddressResult]
	opts        Options
	logger      *zap.Logger
}

// New tạo mới AddressParser
func New(dict *resources.DictionarySet, opts Options, logger *zap.Logger) (*AddressParser, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dict == nil {
		return nil, errors.New("dictionary set không được nil")
	}
	if opts.Window.Max <= 0 {
		opts.Window = tokenization.DefaultWindow
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.ReturnSolutions < 0 {
		opts.ReturnSolutions = 0
	}
	if opts.Thresholds.High <= 0 {
		opts.Thresholds = config.Defaults().Thresholds
	}
	if opts.Confidence == (config.ConfidenceWeights{}) {
		opts.Confidence = config.Defaults().Confidence
	}

	n, err := normalizer.New(dict)
	if err != nil {
		return nil, fmt.Errorf("tạo normalizer: %w", err)
	}

	cs := classifier.DefaultsForLocales(opts.Locales)
	if err := classifier.Setup(dict, cs); err != nil {
		return nil, err
	}

	var cache *lru.Cache[string, *models.AddressResult]
	if opts.CacheSize > 0 {
		cache, err = lru.New[string, *models.AddressResult](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("tạo LRU cache: %w", err)
		}
	}

	logger.Info("Đã khởi tạo address parser",
		zap.String("dictionary_version", dict.Version()),
		zap.Int("classifiers", len(cs)),
		zap.Int("window_max", opts.Window.Max),
		zap.Int("cache_size", opts.CacheSize))

	return &AddressParser{
		dict:        dict,
		normalizer:  n,
		classifiers: cs,
		solver:      solver.New(opts.Solver),
		resolver:    NewRegionResolver(dict, opts.Resolver),
		cache:       cache,
		opts:        opts,
		logger:      logger,
	}, nil
}

// Version phiên bản dictionary đang dùng
func (ap *AddressParser) Version() string { return ap.dict.Version() }

// Normalize chỉ chạy normalizer
func (ap *AddressParser) Normalize(raw string, nonAccent bool) string {
	return ap.normalizer.Normalize(raw, nonAccent)
}

// Tokenize chạy toàn bộ pipeline và trả về phiên parse, solution tốt nhất đứng đầu
func (ap *AddressParser) Tokenize(raw string, nonAccent bool) *tokenization.Tokenizer {
	t := tokenization.NewTokenizer(ap.normalizer, raw, nonAccent, ap.opts.Window)
	classifier.ClassifyAll(t, ap.classifiers)
	ap.solver.Solve(t)
	return t
}

// Fingerprint khóa cache của một input
func Fingerprint(raw string, nonAccent bool) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%t\x1F%s", nonAccent, raw)))
	return fmt.Sprintf("%x", sum)
}

// Parse parse một địa chỉ. Không bao giờ lỗi: input không nhận diện được cho status unmatched.
func (ap *AddressParser) Parse(raw string, nonAccent bool) *models.AddressResult {
	key := Fingerprint(raw, nonAccent)
	if ap.cache != nil {
		if cached, ok := ap.cache.Get(key); ok {
			return cloneResult(cached)
		}
	}

	t := ap.Tokenize(raw, nonAccent)
	result := ap.buildResult(t)
	result.RawFingerprint = key

	ap.logger.Debug("Đã parse địa chỉ",
		zap.String("raw", raw),
		zap.String("normalized", t.Normalized),
		zap.Int("sections", len(t.Sections())),
		zap.Int("solutions", len(t.Solutions)),
		zap.Float64("confidence", result.Confidence),
		zap.String("status", result.Status))

	if ap.cache != nil {
		ap.cache.Add(key, cloneResult(result))
	}
	return result
}

// ParseBatch parse song song, kết quả giữ đúng thứ tự input.
// Dừng sớm và trả lỗi khi ctx bị hủy.
func (ap *AddressParser) ParseBatch(ctx context.Context, inputs []string, nonAccent bool) ([]*models.AddressResult, error) {
	results := make([]*models.AddressResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ap.opts.Workers)
	for i, raw := range inputs {
		i, raw := i, raw
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = ap.Parse(raw, nonAccent)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ap.logger.Info("Đã parse batch địa chỉ", zap.Int("total", len(inputs)))
	return results, nil
}

// Purge xóa LRU cache, trả về số entry đã xóa
func (ap *AddressParser) Purge() int {
	if ap.cache == nil {
		return 0
	}
	n := ap.cache.Len()
	ap.cache.Purge()
	return n
}

// CacheLen số entry trong LRU cache
func (ap *AddressParser) CacheLen() int {
	if ap.cache == nil {
		return 0
	}
	return ap.cache.Len()
}

func (ap *AddressParser) buildResult(t *tokenization.Tokenizer) *models.AddressResult {
	result := &models.AddressResult{
		Raw:               t.Raw,
		Normalized:        t.Normalized,
		NonAccent:         t.NonAccent,
		Components:        []models.Component{},
		Sections:          len(t.Sections()),
		Coverage:          t.Coverage(),
		AdminPath:         []string{},
		DictionaryVersion: ap.dict.Version(),
	}

	if len(t.Solutions) == 0 {
		result.Residual = residual(t, nil)
		ap.applyFallback(result)
		return result
	}

	best := t.Solutions[0]
	result.Components = ap.components(best)
	for i, s := range t.Solutions {
		if i >= ap.opts.ReturnSolutions {
			break
		}
		result.Solutions = append(result.Solutions, models.SolutionInfo{
			Score:      s.Score,
			Covered:    s.Covered,
			Gaps:       s.Gaps,
			Components: ap.components(s),
		})
	}

	if region, ok := result.Component(models.LabelRegion); ok {
		result.MatchStrategy = region.MatchStrategy
	}
	result.AdminPath = adminPath(result.Components)
	result.Residual = residual(t, best)

	explained := len(t.Leaves()) - len(unexplained(t, best))
	completeness := 0.0
	if leaves := len(t.Leaves()); leaves > 0 {
		completeness = float64(explained) / float64(leaves)
	}
	result.Confidence = CalculateConfidence(ap.opts.Confidence, ConfidenceParts{
		Score:           averageConfidence(best),
		Completeness:    completeness,
		PathConsistency: pathConsistency(validPath(best)),
	})
	result.Status = ap.determineStatus(result.Confidence)
	return result
}

func (ap *AddressParser) components(s *tokenization.Solution) []models.Component {
	out := make([]models.Component, 0, s.Len())
	for _, p := range s.Pairs {
		c := models.Component{
			Label:      p.Kind().Label(),
			Value:      p.Span.Body(),
			Canonical:  p.Classification.Meta(classifier.MetaCanonical),
			Prefix:     p.Classification.Meta(classifier.MetaPrefix),
			Start:      p.Span.Start(),
			End:        p.Span.End(),
			Confidence: p.Classification.Confidence(),
		}
		if p.Kind() == classification.KindRegion {
			if res, ok := ap.resolver.Resolve(p.Span.Norm()); ok {
				c.Canonical, c.MatchStrategy = res.Canonical, res.Strategy
			} else if c.Canonical != "" {
				c.MatchStrategy = models.MatchStrategyAlias
			}
		}
		out = append(out, c)
	}
	return out
}

func (ap *AddressParser) applyFallback(result *models.AddressResult) {
	result.Status = models.StatusUnmatched
	fb := ap.opts.Fallback
	if fb == nil || !fb.Available() {
		return
	}

	comps := fb.Parse(result.Raw)
	if len(comps) == 0 {
		return
	}
	result.Components = comps
	result.AdminPath = adminPath(comps)
	result.Status = models.StatusNeedsReview
	ap.logger.Debug("Dùng fallback parser", zap.String("raw", result.Raw), zap.Int("components", len(comps)))
}

// ConfidenceParts struct cho confidence calculation
type ConfidenceParts struct {
	Score, Completeness, PathConsistency float64
}

// CalculateConfidence tính confidence từ các parts
func CalculateConfidence(w config.ConfidenceWeights, parts ConfidenceParts) float64 {
	return w.ScoreWeight*parts.Score +
		w.CompletenessWeight*parts.Completeness +
		w.PathWeight*parts.PathConsistency
}

func (ap *AddressParser) determineStatus(confidence float64) string {
	switch {
	case confidence >= ap.opts.Thresholds.High:
		return models.StatusMatched
	case confidence >= ap.opts.Thresholds.ReviewLow:
		return models.StatusAmbiguous
	default:
		return models.StatusNeedsReview
	}
}

func averageConfidence(s *tokenization.Solution) float64 {
	if s.Len() == 0 {
		return 0
	}
	total := 0.0
	for _, p := range s.Pairs {
		total += p.Classification.Confidence()
	}
	return total / float64(s.Len())
}

// pathConsistency tính consistency của path
func pathConsistency(valid bool) float64 {
	if valid {
		return 1
	}
	return 0
}

// validPath có ít nhất một cấp hành chính và các cấp đi từ nhỏ đến lớn
func validPath(s *tokenization.Solution) bool {
	order := []classification.Kind{
		classification.KindLocality,
		classification.KindCounty,
		classification.KindRegion,
	}
	last, found := -1, 0
	for _, kind := range order {
		p, ok := s.First(kind)
		if !ok {
			continue
		}
		if p.Span.Start() < last {
			return false
		}
		last = p.Span.Start()
		found++
	}
	return found > 0
}

// adminPath tỉnh > quận > phường, ưu tiên dạng chuẩn, không có thì ghép tiền tố với giá trị
func adminPath(components []models.Component) []string {
	path := []string{}
	for _, label := range []string{models.LabelRegion, models.LabelCounty, models.LabelLocality} {
		for _, c := range components {
			if c.Label != label {
				continue
			}
			name := c.Canonical
			if name == "" {
				name = strings.TrimSpace(c.Prefix + " " + c.Value)
			}
			path = append(path, name)
			break
		}
	}
	return path
}

// unexplained các token lá không nằm trong pair nào của solution
// và không thuộc phrase mang classification cấu trúc (tiền tố, stop word...)
func unexplained(t *tokenization.Tokenizer, s *tokenization.Solution) []*tokenization.Span {
	var classified []*tokenization.Span
	for _, phrase := range t.Phrases() {
		for _, c := range phrase.Classifications() {
			if !c.IsPublic() && c.Kind() != classification.KindStartToken {
				classified = append(classified, phrase)
				break
			}
		}
	}
	if s != nil {
		for _, p := range s.Pairs {
			classified = append(classified, p.Span)
		}
	}

	var out []*tokenization.Span
	for _, leaf := range t.Leaves() {
		covered := false
		for _, span := range classified {
			if span.Start() <= leaf.Start() && leaf.End() <= span.End() {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, leaf)
		}
	}
	return out
}

// residual phần văn bản chưa được giải thích, nối bằng khoảng trắng
func residual(t *tokenization.Tokenizer, s *tokenization.Solution) string {
	leaves := unexplained(t, s)
	parts := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		parts = append(parts, leaf.Body())
	}
	return strings.Join(parts, " ")
}

func cloneResult(r *models.AddressResult) *models.AddressResult {
	out := *r
	out.Components = append([]models.Component(nil), r.Components...)
	out.AdminPath = append([]string(nil), r.AdminPath...)
	if r.Solutions != nil {
		out.Solutions = make([]models.SolutionInfo, len(r.Solutions))
		for i, s := range r.Solutions {
			s.Components = append([]models.Component(nil), s.Components...)
			out.Solutions[i] = s
		}
	}
	if out.Components == nil {
		out.Components = []models.Component{}
	}
	if out.AdminPath == nil {
		out.AdminPath = []string{}
	}
	return &out
}
