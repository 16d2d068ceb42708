package classifier

import (
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/classification"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/resources"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/tokenization"
)

// MetaCanonical key metadata chứa dạng chuẩn của phrase
const MetaCanonical = "canonical"

// PhraseClassifier so khớp chính xác phrase với dictionary đã nạp.
// Khớp thì gắn classification confidence 1 kèm dạng chuẩn trong metadata.
type PhraseClassifier struct {
	name          string
	kind          classification.Kind
	locales       []string
	file          string
	plurals       bool
	preconditions []Precondition

	index     resources.Index
	canonical map[string]string
}

// NewPhraseClassifier tạo classifier từ dictionary file theo các locale.
// Mặc định bỏ qua phrase có chữ số hoặc đứng sau intersection.
func NewPhraseClassifier(name string, kind classification.Kind, locales []string, file string, plurals bool) *PhraseClassifier {
	return &PhraseClassifier{
		name:    name,
		kind:    kind,
		locales: locales,
		file:    file,
		plurals: plurals,
		preconditions: []Precondition{
			NoNumerals,
			NotPrecededBy(classification.KindIntersection),
		},
	}
}

func (c *PhraseClassifier) Name() string { return c.name }

// WithLocales đổi danh sách locale, phải gọi trước Setup
func (c *PhraseClassifier) WithLocales(locales []string) *PhraseClassifier {
	c.locales = locales
	return c
}

// Kind kind mà classifier gắn
func (c *PhraseClassifier) Kind() classification.Kind { return c.kind }

// Setup dựng inverted index và bảng dạng chuẩn
func (c *PhraseClassifier) Setup(ds *resources.DictionarySet) error {
	dict := ds.Dictionary()

	c.index = make(resources.Index)
	dict.Load(c.index, c.locales, c.file)
	if c.plurals {
		resources.GeneratePlurals(c.index)
	}

	c.canonical = make(map[string]string)
	for _, row := range dict.Rows(c.locales, c.file) {
		for _, cell := range row {
			c.canonical[cell] = row[0]
			c.canonical[resources.Fold(cell)] = row[0]
		}
	}
	return nil
}

// Each gắn classification khi phrase khớp chính xác index
func (c *PhraseClassifier) Each(span *tokenization.Span) {
	if !passes(span, c.preconditions) {
		return
	}

	phrase := span.Norm()
	if !c.index.Has(phrase) {
		return
	}

	canonical, ok := c.canonical[phrase]
	if !ok {
		canonical = phrase
	}
	span.Classify(classification.New(c.kind, classification.DefaultConfidence, map[string]string{
		MetaCanonical: canonical,
	}))
}

func NewPlacePrefixClassifier() *PhraseClassifier {
	return NewPhraseClassifier("place_prefix", classification.KindPlacePrefix, resources.LocalesAll, resources.FilePlacePrefix, true)
}

func NewPlaceSuffixClassifier() *PhraseClassifier {
	return NewPhraseClassifier("place_suffix", classification.KindPlaceSuffix, resources.LocalesAll, resources.FilePlaceSuffix, true)
}

func NewLocalityPrefixClassifier() *PhraseClassifier {
	return NewPhraseClassifier("locality_prefix", classification.KindLocalityPrefix, resources.LocalesVietnamese, resources.FileLocalityPrefix, false)
}

func NewCountyPrefixClassifier() *PhraseClassifier {
	return NewPhraseClassifier("county_prefix", classification.KindCountyPrefix, resources.LocalesVietnamese, resources.FileCountyPrefix, false)
}

func NewRegionPrefixClassifier() *PhraseClassifier {
	return NewPhraseClassifier("region_prefix", classification.KindRegionPrefix, resources.LocalesVietnamese, resources.FileRegionPrefix, false)
}

func NewStreetPrefixClassifier() *PhraseClassifier {
	return NewPhraseClassifier("street_prefix", classification.KindStreetPrefix, resources.LocalesAll, resources.FileStreetTypes, true)
}

func NewUnitTypeClassifier() *PhraseClassifier {
	return NewPhraseClassifier("unit_type", classification.KindUnitType, resources.LocalesAll, resources.FileUnitTypes, true)
}

func NewDirectionalClassifier() *PhraseClassifier {
	return NewPhraseClassifier("directional", classification.KindDirectional, resources.LocalesAll, resources.FileDirectionals, false)
}

func NewIntersectionClassifier() *PhraseClassifier {
	return NewPhraseClassifier("intersection", classification.KindIntersection, resources.LocalesAll, resources.FileIntersections, false)
}

func NewStopWordClassifier() *PhraseClassifier {
	return NewPhraseClassifier("stop_word", classification.KindStopWord, resources.LocalesVietnamese, resources.FileStopWords, false)
}

// NewCountryClassifier quốc gia là kind công khai
func NewCountryClassifier() *PhraseClassifier {
	return NewPhraseClassifier("country", classification.KindCountry, resources.LocalesAll, resources.FileCountries, false)
}
