package resources

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const repairsFile = "data/repairs.yaml"

// repairTables bảng sửa vị trí dấu và biến thể chính tả
type repairTables struct {
	AccentRepairs    map[string]string `yaml:"accent_repairs"`
	SpellingVariants map[string]string `yaml:"spelling_variants"`
}

var repairer = mustLoadRepairer()

func mustLoadRepairer() *strings.Replacer {
	r, err := loadRepairer()
	if err != nil {
		panic(err)
	}
	return r
}

func loadRepairer() (*strings.Replacer, error) {
	b, err := dataFS.ReadFile(repairsFile)
	if err != nil {
		return nil, fmt.Errorf("đọc %s: %w", repairsFile, err)
	}
	var tables repairTables
	if err := yaml.Unmarshal(b, &tables); err != nil {
		return nil, fmt.Errorf("load %s: %w", repairsFile, err)
	}

	// thứ tự key ổn định để kết quả không phụ thuộc thứ tự duyệt map
	var oldnew []string
	for _, table := range []map[string]string{tables.AccentRepairs, tables.SpellingVariants} {
		keys := make([]string, 0, len(table))
		for k := range table {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			oldnew = append(oldnew, k, table[k])
		}
	}
	return strings.NewReplacer(oldnew...), nil
}

// RepairAccents đặt lại dấu cho oa/oe/uy ("hòa" -> "hoà") và gộp "qui" -> "quy".
// Input phải là NFC lowercase. Dùng chung cho dictionary và normalizer để hai phía khớp nhau.
func RepairAccents(s string) string {
	return repairer.Replace(s)
}
