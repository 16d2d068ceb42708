package resources

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"dict/vi/place_names_prefix.txt": {Data: []byte("# comment\nthôn\nkhu phố|kp\n\nbad||line\n")},
		"dict/en/place_names_prefix.txt": {Data: []byte("Mount|MT\n")},
	}
}

func TestLibpostalDictionary_Load(t *testing.T) {
	d := NewLibpostalDictionary(testFS(), "dict", nil)
	index := Index{}
	d.Load(index, []string{"en", "vi", "fr"}, "place_names_prefix.txt")

	for _, key := range []string{"thôn", "thon", "khu phố", "khu pho", "kp", "mount", "mt"} {
		assert.True(t, index.Has(key), "thiếu key %q", key)
	}
	assert.False(t, index.Has("bad"))
	assert.False(t, index.Has("# comment"))
}

func TestLibpostalDictionary_Rows(t *testing.T) {
	d := NewLibpostalDictionary(testFS(), "dict", nil)
	rows := d.Rows([]string{"vi"}, "place_names_prefix.txt")

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"thôn"}, rows[0])
	assert.Equal(t, []string{"khu phố", "kp"}, rows[1])

	assert.Empty(t, d.Rows([]string{"vi"}, "missing.txt"))
}

func TestGeneratePlurals(t *testing.T) {
	index := Index{"park": true, "heights": true, "thôn": true, "12": true}
	GeneratePlurals(index)

	assert.True(t, index.Has("parks"))
	assert.True(t, index.Has("thôns"))
	assert.False(t, index.Has("heightss"))
	assert.False(t, index.Has("12s"))
}

func TestNormalizeCell(t *testing.T) {
	tests := map[string]string{
		"  Tòa Nhà ": "toà nhà",
		"Khánh Hòa":  "khánh hoà",
		"Phú Thủy":   "phú thuỷ",
		"Qui Nhơn":   "quy nhơn",
		"phường":     "phường",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, NormalizeCell(in))
			assert.Equal(t, want, RepairAccents(want))
		})
	}
}

func TestFold(t *testing.T) {
	tests := map[string]string{
		"phường":      "phuong",
		"đường":       "duong",
		"thị xã":      "thi xa",
		"hồ chí minh": "ho chi minh",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Fold(in))
		})
	}
}

func TestParseAliases(t *testing.T) {
	input := strings.Join([]string{
		"Hồ Chí Minh => HCM|tp hcm | sài gòn",
		"không có dấu phân cách",
		"",
		"hà nội => hn",
	}, "\n")

	aliases := ParseAliases(strings.NewReader(input), nil)

	assert.Equal(t, "hồ chí minh", aliases["hcm"])
	assert.Equal(t, "hồ chí minh", aliases["tp hcm"])
	assert.Equal(t, "hồ chí minh", aliases["sài gòn"])
	assert.Equal(t, "hồ chí minh", aliases["hồ chí minh"])
	assert.Equal(t, "hà nội", aliases["hn"])
	assert.NotContains(t, aliases, "không có dấu phân cách")
}

func TestLoadAliases_MissingFile(t *testing.T) {
	aliases := LoadAliases(fstest.MapFS{}, "nope.txt", nil)
	assert.NotNil(t, aliases)
	assert.Empty(t, aliases)
}

func TestDefaultDictionarySet(t *testing.T) {
	ds, err := Default(nil)
	require.NoError(t, err)

	assert.NotEmpty(t, ds.Version())
	assert.Contains(t, ds.Qualifiers(), "gần")
	assert.Contains(t, ds.Qualifiers(), "near")
	assert.Equal(t, "hồ chí minh", ds.RegionAliases()["tphcm"])
	assert.Contains(t, ds.RegionCanonicals(), "hà nội")

	locality := ds.LocalityPrefixes()
	require.NotEmpty(t, locality)
	for i := 1; i < len(locality); i++ {
		assert.GreaterOrEqual(t, len(locality[i-1].Alias), len(locality[i].Alias))
	}
	assert.Contains(t, locality, PrefixEntry{Alias: "p.", Canonical: "phường"})
}

func TestPrefixEntry_Forms(t *testing.T) {
	assert.True(t, PrefixEntry{Alias: "p.", Canonical: "phường"}.Dotted())
	assert.True(t, PrefixEntry{Alias: "q", Canonical: "quận"}.Short())
	assert.False(t, PrefixEntry{Alias: "quận", Canonical: "quận"}.Short())
	assert.False(t, PrefixEntry{Alias: "tp.", Canonical: "thành phố"}.Short())
}
