package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_LabelAndVisibility(t *testing.T) {
	testCases := []struct {
		kind     Kind
		label    string
		isPublic bool
	}{
		{KindHouseNumber, "housenumber", true},
		{KindStreet, "street", true},
		{KindVillage, "village", true},
		{KindRegion, "region", true},
		{KindPlacePrefix, "place", false},
		{KindLocalityPrefix, "locality_prefix", false},
		{KindIntersection, "intersection", false},
		{KindStartToken, "start_token", false},
	}

	for _, tc := range testCases {
		t.Run(tc.label, func(t *testing.T) {
			assert.Equal(t, tc.label, tc.kind.Label())
			assert.Equal(t, tc.isPublic, tc.kind.IsPublic())

			parsed, ok := ParseKind(tc.label)
			assert.True(t, ok)
			assert.Equal(t, tc.kind, parsed)
		})
	}

	assert.Equal(t, "unknown", Kind(-1).Label())
	assert.False(t, Kind(999).IsPublic())
	_, ok := ParseKind("nope")
	assert.False(t, ok)
	assert.Len(t, Kinds(), int(kindCount))
}

func TestNew_ClampsConfidence(t *testing.T) {
	assert.Equal(t, 1.0, New(KindStreet, 1.7, nil).Confidence())
	assert.Equal(t, 0.0, New(KindStreet, -0.2, nil).Confidence())
	assert.Equal(t, 0.8, New(KindStreet, 0.8, nil).Confidence())
}

func TestClassification_Defaults(t *testing.T) {
	c := Default(KindCounty)

	assert.Equal(t, KindCounty, c.Kind())
	assert.Equal(t, DefaultConfidence, c.Confidence())
	assert.True(t, c.IsPublic())
	assert.Equal(t, "county", c.Label())
	assert.NotNil(t, c.Metadata())
	assert.Empty(t, c.Metadata())
}

func TestClassification_Immutable(t *testing.T) {
	meta := map[string]string{"canonical": "hà nội"}
	c := New(KindRegion, 0.9, meta)

	meta["canonical"] = "đổi"
	assert.Equal(t, "hà nội", c.Meta("canonical"))

	out := c.Metadata()
	out["canonical"] = "đổi"
	assert.Equal(t, "hà nội", c.Meta("canonical"))
	assert.True(t, c.HasMeta("canonical"))
	assert.False(t, c.HasMeta("prefix"))
}
