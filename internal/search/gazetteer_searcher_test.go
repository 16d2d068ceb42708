package search

import (
	"testing"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGazetteerSearcher_NewGazetteerSearcher(t *testing.T) {
	_, err := NewGazetteerSearcher(SearchConfig{Host: "http://localhost:7700"}, zap.NewNop())
	assert.Error(t, err)
}

func TestFilters(t *testing.T) {
	testCases := []struct {
		level    int
		parentID string
		expected string
	}{
		{2, "", "level = 2"},
		{3, "ho-chi-minh", `level = 3 AND parent_id = "ho-chi-minh"`},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FilterLevelParent(tc.level, tc.parentID))
		})
	}
	assert.Equal(t, "level = 4", FilterLevel(4))
}

func TestParseHit(t *testing.T) {
	hit := map[string]interface{}{
		"admin_id":           "ha-noi",
		"level":              float64(2),
		"name":               "hà nội",
		"normalized_name":    "ha noi",
		"admin_subtype":      "municipality",
		"aliases":            []interface{}{"hn", "hanoi", 3},
		"dictionary_version": "abc",
	}

	unit := parseHit(hit)
	assert.Equal(t, "ha-noi", unit.AdminID)
	assert.Equal(t, models.LevelProvince, unit.Level)
	assert.Equal(t, "hà nội", unit.Name)
	assert.Equal(t, []string{"hn", "hanoi"}, unit.Aliases)
	assert.Empty(t, unit.ParentID)
	assert.True(t, unit.IsValidAdminSubtype())
}

func TestSlug(t *testing.T) {
	testCases := map[string]string{
		"hồ chí minh":       "ho-chi-minh",
		"bà rịa - vũng tàu": "ba-ria-vung-tau",
		"đắk lắk":           "dak-lak",
	}
	for input, expected := range testCases {
		assert.Equal(t, expected, Slug(input), input)
	}
}

func TestUnitsFromAliases(t *testing.T) {
	aliases := map[string]string{
		"hà nội":  "hà nội",
		"hn":      "hà nội",
		"ha noi":  "hà nội",
		"bến tre": "bến tre",
		"ben tre": "bến tre",
	}

	units := UnitsFromAliases(aliases, "v1")
	require.Len(t, units, 2)

	assert.Equal(t, "ben-tre", units[0].AdminID)
	assert.Equal(t, models.AdminSubtypeProvince, units[0].AdminSubtype)
	assert.Equal(t, []string{"ben tre"}, units[0].Aliases)

	assert.Equal(t, "ha-noi", units[1].AdminID)
	assert.Equal(t, "ha noi", units[1].NormalizedName)
	assert.Equal(t, models.AdminSubtypeMunicipality, units[1].AdminSubtype)
	assert.Equal(t, []string{"ha noi", "hn"}, units[1].Aliases)
	assert.Equal(t, "v1", units[1].DictionaryVersion)
	assert.True(t, units[1].IsValidLevel())
}

func TestUnitsFromAliases_Embedded(t *testing.T) {
	ds, err := resources.Default(zap.NewNop())
	require.NoError(t, err)

	units := UnitsFromAliases(ds.RegionAliases(), ds.Version())
	assert.Len(t, units, len(ds.RegionCanonicals()))
	for _, u := range units {
		assert.NotEmpty(t, u.AdminID)
		assert.Equal(t, ds.Version(), u.DictionaryVersion)
	}
}
