package classifier

import (
	"testing"
	"testing/fstest"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/classification"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/normalizer"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/resources"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/tokenization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	norm        *normalizer.Normalizer
	classifiers []Classifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ds, err := resources.Default(zap.NewNop())
	require.NoError(t, err)
	n, err := normalizer.New(ds)
	require.NoError(t, err)

	cs := Defaults()
	require.NoError(t, Setup(ds, cs))
	return &fixture{norm: n, classifiers: cs}
}

func (f *fixture) run(raw string, nonAccent bool) *tokenization.Tokenizer {
	tok := tokenization.NewTokenizer(f.norm, raw, nonAccent, tokenization.DefaultWindow)
	ClassifyAll(tok, f.classifiers)
	return tok
}

func findPhrase(t *testing.T, tok *tokenization.Tokenizer, text string) *tokenization.Span {
	t.Helper()
	for _, p := range tok.Phrases() {
		if p.Norm() == text {
			return p
		}
	}
	require.Failf(t, "không tìm thấy phrase", "%q trong %q", text, tok.Normalized)
	return nil
}

func assertKind(t *testing.T, span *tokenization.Span, kind classification.Kind, confidence float64) classification.Classification {
	t.Helper()
	c, ok := span.Classification(kind)
	require.True(t, ok, "%q thiếu %s", span.Norm(), kind)
	assert.Equal(t, confidence, c.Confidence())
	return c
}

func TestClassifyAll_EndToEnd(t *testing.T) {
	f := newFixture(t)

	testCases := []struct {
		name      string
		input     string
		nonAccent bool
		locality  string
		county    string
		prefixes  [2]string
	}{
		{name: "Có dấu, viết tắt", input: "12 lê lợi, p1, q3", locality: "1", county: "3", prefixes: [2]string{"phường", "quận"}},
		{name: "Không dấu", input: "12 Le Loi , Phuong 1 , Quan 3", nonAccent: true, locality: "1", county: "3", prefixes: [2]string{"phuong", "quan"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tok := f.run(tc.input, tc.nonAccent)
			require.Len(t, tok.Sections(), 3)

			assertKind(t, findPhrase(t, tok, "12"), classification.KindHouseNumber, 1)
			assertKind(t, findPhrase(t, tok, "12"), classification.KindStartToken, 1)
			assertKind(t, findPhrase(t, tok, tc.prefixes[0]), classification.KindLocalityPrefix, 1)
			assertKind(t, findPhrase(t, tok, tc.prefixes[1]), classification.KindCountyPrefix, 1)

			c := assertKind(t, findPhrase(t, tok, tc.locality), classification.KindLocality, 1)
			assert.Equal(t, "phường", c.Meta(MetaPrefix))

			c = assertKind(t, findPhrase(t, tok, tc.county), classification.KindCounty, 1)
			assert.Equal(t, "quận", c.Meta(MetaPrefix))
		})
	}
}

func TestStreetClassifier(t *testing.T) {
	f := newFixture(t)

	tok := f.run("12 lê lợi, phường 1", false)
	street := assertKind(t, findPhrase(t, tok, "lê lợi"), classification.KindStreet, 0.8)
	assert.False(t, street.HasMeta(MetaPrefix))
	assert.False(t, findPhrase(t, tok, "lê").Has(classification.KindStreet))

	tok = f.run("12 đường lê lợi", false)
	street = assertKind(t, findPhrase(t, tok, "lê lợi"), classification.KindStreet, 1)
	assert.Equal(t, "đường", street.Meta(MetaPrefix))
	assert.False(t, findPhrase(t, tok, "đường lê lợi").Has(classification.KindStreet))
}

func TestHouseNumberClassifier(t *testing.T) {
	f := newFixture(t)

	testCases := []struct {
		input      string
		number     string
		confidence float64
	}{
		{"12 lê lợi", "12", 1},
		{"12a/3 lê lợi", "12a/3", 1},
		{"10-12 nguyễn huệ", "10-12", 1},
		{"số 45 lê lợi", "45", 0.9},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			tok := f.run(tc.input, false)
			assertKind(t, findPhrase(t, tok, tc.number), classification.KindHouseNumber, tc.confidence)
		})
	}

	tok := f.run("lê lợi 12", false)
	assert.False(t, findPhrase(t, tok, "12").Has(classification.KindHouseNumber))
}

func TestRegionClassifier(t *testing.T) {
	f := newFixture(t)

	tok := f.run("quận 1, tp. hồ chí minh", false)
	c := assertKind(t, findPhrase(t, tok, "hồ chí minh"), classification.KindRegion, 1)
	assert.Equal(t, "thành phố", c.Meta(MetaPrefix))
	assert.Equal(t, "hồ chí minh", c.Meta(MetaCanonical))

	tok = f.run("quận ba đình, hà nội", false)
	c = assertKind(t, findPhrase(t, tok, "hà nội"), classification.KindRegion, 0.9)
	assert.Equal(t, "hà nội", c.Meta(MetaCanonical))

	tok = f.run("quận ba đình, ha noi", true)
	c = assertKind(t, findPhrase(t, tok, "ha noi"), classification.KindRegion, 0.9)
	assert.Equal(t, "hà nội", c.Meta(MetaCanonical))
}

func TestPrefixedClassifier_CompoundPrefix(t *testing.T) {
	f := newFixture(t)

	tok := f.run("thị xã dĩ an, bình dương", false)
	name := findPhrase(t, tok, "dĩ an")
	assertKind(t, name, classification.KindCounty, 1)
	assert.False(t, name.Has(classification.KindLocality))
}

func TestPrefixedClassifier_NoCommas(t *testing.T) {
	f := newFixture(t)

	testCases := []struct {
		name      string
		input     string
		nonAccent bool
		kind      classification.Kind
		value     string
		spill     string
	}{
		{name: "Quận trước thành phố", input: "12 lê lợi phường bến nghé quận 1 thành phố hồ chí minh", kind: classification.KindCounty, value: "1", spill: "1 thành"},
		{name: "Viết tắt tp", input: "phường 11 quận 10 tp hcm", kind: classification.KindCounty, value: "10", spill: "10 thành"},
		{name: "Không dấu", input: "phuong 11 quan 10 tp hcm", nonAccent: true, kind: classification.KindCounty, value: "10", spill: "10 thanh"},
		{name: "Xã trước thành phố", input: "xã ea kao thành phố buôn ma thuột", kind: classification.KindLocality, value: "ea kao", spill: "ea kao thành"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tok := f.run(tc.input, tc.nonAccent)
			require.Len(t, tok.Sections(), 1)

			assertKind(t, findPhrase(t, tok, tc.value), tc.kind, 1)
			assert.False(t, findPhrase(t, tok, tc.spill).Has(tc.kind))
		})
	}
}

func TestUnitType_RepairedAccent(t *testing.T) {
	f := newFixture(t)

	for _, input := range []string{"tầng 3, toà nhà b, 12 lê lợi", "tầng 3, tòa nhà b, 12 lê lợi"} {
		t.Run(input, func(t *testing.T) {
			tok := f.run(input, false)
			assertKind(t, findPhrase(t, tok, "toà nhà"), classification.KindUnitType, 1)

			c := assertKind(t, findPhrase(t, tok, "b"), classification.KindUnit, 1)
			assert.Equal(t, "toà nhà", c.Meta(MetaPrefix))
		})
	}
}

func TestUnitAndVillage(t *testing.T) {
	f := newFixture(t)

	tok := f.run("phòng 12, ấp 3, xã tân phú", false)
	c := assertKind(t, findPhrase(t, tok, "12"), classification.KindUnit, 1)
	assert.Equal(t, "phòng", c.Meta(MetaPrefix))
	assertKind(t, findPhrase(t, tok, "3"), classification.KindVillage, 1)
	assertKind(t, findPhrase(t, tok, "tân phú"), classification.KindLocality, 1)
}

func TestPhraseClassifier_Gating(t *testing.T) {
	fsys := fstest.MapFS{
		"data/libpostal/vi/street_types.txt":  {Data: []byte("đường|đg\nđường 3\n")},
		"data/libpostal/vi/intersections.txt": {Data: []byte("góc\n")},
	}
	ds, err := resources.NewDictionarySet(fsys, zap.NewNop())
	require.NoError(t, err)

	intersection := NewIntersectionClassifier()
	street := NewStreetPrefixClassifier()
	require.NoError(t, Setup(ds, []Classifier{intersection, street}))

	testCases := []struct {
		input    string
		phrase   string
		expected bool
	}{
		{"đường lê lợi", "đường", true},
		{"đg lê lợi", "đg", true},
		{"duong le loi", "duong", true},
		{"đường 3 lê lợi", "đường 3", false},
		{"góc đường lê lợi", "đường", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			tok := tokenization.NewTokenizer(nil, tc.input, false, tokenization.DefaultWindow)
			ClassifyAll(tok, []Classifier{intersection, street})

			span := findPhrase(t, tok, tc.phrase)
			assert.Equal(t, tc.expected, span.Has(classification.KindStreetPrefix))
			if tc.expected {
				c, _ := span.Classification(classification.KindStreetPrefix)
				assert.Equal(t, 1.0, c.Confidence())
				assert.Equal(t, "đường", c.Meta(MetaCanonical))
			}
		})
	}
}
