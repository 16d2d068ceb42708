package resources

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Tên file dictionary theo định dạng libpostal
const (
	FilePlacePrefix    = "place_names_prefix.txt"
	FilePlaceSuffix    = "place_names_suffix.txt"
	FileLocalityPrefix = "locality_prefix.txt"
	FileCountyPrefix   = "county_prefix.txt"
	FileRegionPrefix   = "region_prefix.txt"
	FileQualifiers     = "qualifiers.txt"
	FileDirectionals   = "directionals.txt"
	FileIntersections  = "intersections.txt"
	FileStreetTypes    = "street_types.txt"
	FileUnitTypes      = "unit_types.txt"
	FileStopWords      = "stopwords.txt"
	FileCountries      = "countries.txt"
)

var (
	// LocalesAll dùng cho dictionary song ngữ
	LocalesAll = []string{"en", "vi"}
	// LocalesVietnamese dùng cho tiền tố hành chính
	LocalesVietnamese = []string{"vi"}
)

// PrefixEntry ánh xạ một dạng viết tắt về dạng chuẩn của tiền tố hành chính
type PrefixEntry struct {
	Alias     string
	Canonical string
}

// Dotted cho biết alias là dạng viết tắt có dấu chấm (vd "p.")
func (e PrefixEntry) Dotted() bool {
	return strings.Contains(e.Alias, ".")
}

// Short cho biết alias là dạng ngắn có thể dính liền chữ số (vd "p1", "q3")
func (e PrefixEntry) Short() bool {
	return !e.Dotted() && utf8.RuneCountInString(e.Alias) <= 2
}

// DictionarySet gom toàn bộ dữ liệu tĩnh, dựng một lần khi khởi động và chỉ đọc sau đó.
// An toàn khi chia sẻ giữa nhiều goroutine.
type DictionarySet struct {
	dict             Dictionary
	qualifiers       []string
	regionPrefixes   []PrefixEntry
	countyPrefixes   []PrefixEntry
	localityPrefixes []PrefixEntry
	regionAliases    map[string]string
	version          string
}

// NewDictionarySet dựng DictionarySet từ filesystem có cấu trúc giống dữ liệu nhúng
func NewDictionarySet(fsys fs.FS, logger *zap.Logger) (*DictionarySet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	version, err := Fingerprint(fsys)
	if err != nil {
		return nil, fmt.Errorf("dựng dictionary set: %w", err)
	}

	dict := NewLibpostalDictionary(fsys, libpostalRoot, logger)
	ds := &DictionarySet{
		dict:             dict,
		qualifiers:       phrases(dict.Rows(LocalesAll, FileQualifiers)),
		regionPrefixes:   prefixEntries(dict.Rows(LocalesVietnamese, FileRegionPrefix)),
		countyPrefixes:   prefixEntries(dict.Rows(LocalesVietnamese, FileCountyPrefix)),
		localityPrefixes: prefixEntries(dict.Rows(LocalesVietnamese, FileLocalityPrefix)),
		regionAliases:    LoadAliases(fsys, regionAliases, logger),
		version:          version,
	}

	logger.Info("Đã nạp dictionary set",
		zap.String("version", version),
		zap.Int("qualifiers", len(ds.qualifiers)),
		zap.Int("region_aliases", len(ds.regionAliases)))

	return ds, nil
}

// Default dựng DictionarySet từ dữ liệu nhúng
func Default(logger *zap.Logger) (*DictionarySet, error) {
	return NewDictionarySet(EmbeddedFS(), logger)
}

// Dictionary trả về collaborator dùng cho classifier setup
func (ds *DictionarySet) Dictionary() Dictionary { return ds.dict }

// Qualifiers các cụm từ chú thích cần loại bỏ, dài trước ngắn sau
func (ds *DictionarySet) Qualifiers() []string { return ds.qualifiers }

// RegionPrefixes tiền tố cấp tỉnh/thành phố
func (ds *DictionarySet) RegionPrefixes() []PrefixEntry { return ds.regionPrefixes }

// CountyPrefixes tiền tố cấp quận/huyện
func (ds *DictionarySet) CountyPrefixes() []PrefixEntry { return ds.countyPrefixes }

// LocalityPrefixes tiền tố cấp phường/xã
func (ds *DictionarySet) LocalityPrefixes() []PrefixEntry { return ds.localityPrefixes }

// RegionAliases bảng alias -> tên tỉnh chuẩn
func (ds *DictionarySet) RegionAliases() map[string]string { return ds.regionAliases }

// Version phiên bản dữ liệu, dùng để vô hiệu hóa cache
func (ds *DictionarySet) Version() string { return ds.version }

// RegionCanonicals danh sách tên tỉnh chuẩn đã sắp xếp
func (ds *DictionarySet) RegionCanonicals() []string {
	seen := make(map[string]bool)
	var out []string
	for _, canonical := range ds.regionAliases {
		if !seen[canonical] {
			seen[canonical] = true
			out = append(out, canonical)
		}
	}
	sort.Strings(out)
	return out
}

func phrases(rows [][]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		for _, cell := range row {
			if !seen[cell] {
				seen[cell] = true
				out = append(out, cell)
			}
		}
	}
	sortLongestFirst(out)
	return out
}

func prefixEntries(rows [][]string) []PrefixEntry {
	seen := make(map[string]bool)
	var out []PrefixEntry
	for _, row := range rows {
		canonical := row[0]
		for _, alias := range row {
			if seen[alias] {
				continue
			}
			seen[alias] = true
			out = append(out, PrefixEntry{Alias: alias, Canonical: canonical})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].Alias) != len(out[j].Alias) {
			return len(out[i].Alias) > len(out[j].Alias)
		}
		return out[i].Alias < out[j].Alias
	})
	return out
}

func sortLongestFirst(list []string) {
	sort.SliceStable(list, func(i, j int) bool {
		if len(list[i]) != len(list[j]) {
			return len(list[i]) > len(list[j])
		}
		return list[i] < list[j]
	})
}
