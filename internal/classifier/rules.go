package classifier

import (
	"regexp"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/classification"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/resources"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/tokenization"
)

// MetaPrefix key metadata chứa tiền tố đứng trước thành phần
const MetaPrefix = "prefix"

var reHouseNumber = regexp.MustCompile(`^\d+[a-z]?(?:[/-][0-9a-z]+)*$`)

// StartTokenClassifier đánh dấu token đầu tiên của section đầu tiên
type StartTokenClassifier struct{}

func NewStartTokenClassifier() *StartTokenClassifier { return &StartTokenClassifier{} }

func (c *StartTokenClassifier) Name() string                         { return "start_token" }
func (c *StartTokenClassifier) Setup(*resources.DictionarySet) error { return nil }

func (c *StartTokenClassifier) Each(span *tokenization.Span) {
	if !SingleToken(span) || span.PrevToken() != nil {
		return
	}
	if section := span.Section(); section == nil || section.Prev() != nil {
		return
	}
	span.Classify(classification.Default(classification.KindStartToken))
}

// HouseNumberClassifier số nhà: token số (có thể kèm chữ, "/" và "-") đứng đầu section
// hoặc ngay sau stop word ("số 12")
type HouseNumberClassifier struct{}

func NewHouseNumberClassifier() *HouseNumberClassifier { return &HouseNumberClassifier{} }

func (c *HouseNumberClassifier) Name() string                         { return "housenumber" }
func (c *HouseNumberClassifier) Setup(*resources.DictionarySet) error { return nil }

func (c *HouseNumberClassifier) Each(span *tokenization.Span) {
	if !SingleToken(span) || !reHouseNumber.MatchString(span.Norm()) {
		return
	}

	switch {
	case span.PrevToken() == nil:
		span.Classify(classification.Default(classification.KindHouseNumber))
	default:
		if _, _, ok := precededBy(span, classification.KindStopWord); ok {
			span.Classify(classification.New(classification.KindHouseNumber, 0.9, nil))
		}
	}
}

// UnitClassifier giá trị đứng sau loại căn hộ/tầng ("phòng 12", "tầng 3")
type UnitClassifier struct{}

func NewUnitClassifier() *UnitClassifier { return &UnitClassifier{} }

func (c *UnitClassifier) Name() string                         { return "unit" }
func (c *UnitClassifier) Setup(*resources.DictionarySet) error { return nil }

func (c *UnitClassifier) Each(span *tokenization.Span) {
	if !SingleToken(span) || startsWithBoundary(span) {
		return
	}
	prefix, _, ok := precededBy(span, classification.KindUnitType)
	if !ok {
		return
	}
	span.Classify(classification.New(classification.KindUnit, classification.DefaultConfidence, map[string]string{
		MetaPrefix: prefix.Norm(),
	}))
}

// PrefixedClassifier gắn kind cho phrase đứng ngay sau một phrase mang prefixKind,
// kéo dài tới cuối section hoặc tới tiền tố kế tiếp. Chữ số được chấp nhận ("phường 1").
type PrefixedClassifier struct {
	name       string
	kind       classification.Kind
	prefixKind classification.Kind
	aliases    func(ds *resources.DictionarySet) map[string]string

	canonical map[string]string
}

// NewPrefixedClassifier tạo classifier cho thành phần có tiền tố
func NewPrefixedClassifier(name string, kind, prefixKind classification.Kind) *PrefixedClassifier {
	return &PrefixedClassifier{name: name, kind: kind, prefixKind: prefixKind}
}

func (c *PrefixedClassifier) Name() string { return c.name }

func (c *PrefixedClassifier) Setup(ds *resources.DictionarySet) error {
	c.canonical = map[string]string{}
	if c.aliases == nil {
		return nil
	}
	for alias, canonical := range c.aliases(ds) {
		c.canonical[alias] = canonical
		c.canonical[resources.Fold(alias)] = canonical
	}
	return nil
}

func (c *PrefixedClassifier) Each(span *tokenization.Span) {
	if startsWithBoundary(span) || containsAny(span, adminPrefixKinds...) || !followedByBoundary(span) {
		return
	}

	prefix, cls, ok := precededBy(span, c.prefixKind)
	if !ok || shadowed(prefix) {
		return
	}

	meta := map[string]string{MetaPrefix: prefix.Norm()}
	if canonical := cls.Meta(MetaCanonical); canonical != "" {
		meta[MetaPrefix] = canonical
	}
	if canonical, ok := c.canonical[span.Norm()]; ok {
		meta[MetaCanonical] = canonical
	}
	span.Classify(classification.New(c.kind, classification.DefaultConfidence, meta))
}

func NewLocalityClassifier() *PrefixedClassifier {
	return NewPrefixedClassifier("locality", classification.KindLocality, classification.KindLocalityPrefix)
}

func NewCountyClassifier() *PrefixedClassifier {
	return NewPrefixedClassifier("county", classification.KindCounty, classification.KindCountyPrefix)
}

func NewVillageClassifier() *PrefixedClassifier {
	return NewPrefixedClassifier("village", classification.KindVillage, classification.KindPlacePrefix)
}

// RegionClassifier tỉnh/thành phố: sau tiền tố cấp tỉnh, hoặc một section chỉ gồm tên tỉnh trong bảng alias
type RegionClassifier struct {
	*PrefixedClassifier
}

func NewRegionClassifier() *RegionClassifier {
	c := NewPrefixedClassifier("region", classification.KindRegion, classification.KindRegionPrefix)
	c.aliases = (*resources.DictionarySet).RegionAliases
	return &RegionClassifier{PrefixedClassifier: c}
}

func (c *RegionClassifier) Each(span *tokenization.Span) {
	c.PrefixedClassifier.Each(span)
	if span.Has(classification.KindRegion) || !coversSection(span) || startsWithBoundary(span) {
		return
	}

	canonical, ok := c.canonical[span.Norm()]
	if !ok {
		return
	}
	span.Classify(classification.New(classification.KindRegion, 0.9, map[string]string{
		MetaCanonical: canonical,
	}))
}

// StreetClassifier tên đường: sau tiền tố đường (confidence 1) hoặc sau số nhà (0.8)
type StreetClassifier struct{}

func NewStreetClassifier() *StreetClassifier { return &StreetClassifier{} }

func (c *StreetClassifier) Name() string                         { return "street" }
func (c *StreetClassifier) Setup(*resources.DictionarySet) error { return nil }

func (c *StreetClassifier) Each(span *tokenization.Span) {
	if startsWithBoundary(span) || containsAny(span, adminPrefixKinds...) || !followedByBoundary(span) {
		return
	}

	if prefix, cls, ok := precededBy(span, classification.KindStreetPrefix); ok && !shadowed(prefix) {
		name := cls.Meta(MetaCanonical)
		if name == "" {
			name = prefix.Norm()
		}
		span.Classify(classification.New(classification.KindStreet, classification.DefaultConfidence, map[string]string{
			MetaPrefix: name,
		}))
		return
	}

	if _, _, ok := precededBy(span, classification.KindHouseNumber); ok {
		span.Classify(classification.New(classification.KindStreet, 0.8, nil))
	}
}
