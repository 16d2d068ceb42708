package classifier

import (
	"fmt"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/resources"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/tokenization"
)

// Classifier quét từng phrase và gắn tối đa một classification thuộc kind của nó.
// Setup chạy một lần trước mọi lần gọi Each, sau đó classifier chỉ đọc.
type Classifier interface {
	Name() string
	Setup(ds *resources.DictionarySet) error
	Each(span *tokenization.Span)
}

// ClassifyAll chạy lần lượt từng classifier trên mọi phrase của mọi section.
// Classifier sau thấy kết quả của classifier trước.
func ClassifyAll(t *tokenization.Tokenizer, classifiers []Classifier) {
	for _, c := range classifiers {
		for _, section := range t.Sections() {
			for _, phrase := range section.Phrases() {
				c.Each(phrase)
			}
		}
	}
}

// Defaults danh sách classifier theo thứ tự chạy mặc định, chưa Setup
func Defaults() []Classifier {
	return DefaultsForLocales(resources.LocalesAll)
}

// DefaultsForLocales như Defaults nhưng dictionary song ngữ chỉ nạp các locale đã cho.
// Tiền tố hành chính và stop word luôn dùng tiếng Việt.
func DefaultsForLocales(locales []string) []Classifier {
	if len(locales) == 0 {
		locales = resources.LocalesAll
	}
	return []Classifier{
		NewStartTokenClassifier(),
		NewStopWordClassifier(),
		NewIntersectionClassifier().WithLocales(locales),
		NewDirectionalClassifier().WithLocales(locales),
		NewRegionPrefixClassifier(),
		NewCountyPrefixClassifier(),
		NewLocalityPrefixClassifier(),
		NewStreetPrefixClassifier().WithLocales(locales),
		NewUnitTypeClassifier().WithLocales(locales),
		NewPlacePrefixClassifier().WithLocales(locales),
		NewPlaceSuffixClassifier().WithLocales(locales),
		NewCountryClassifier().WithLocales(locales),
		NewHouseNumberClassifier(),
		NewUnitClassifier(),
		NewLocalityClassifier(),
		NewCountyClassifier(),
		NewRegionClassifier(),
		NewVillageClassifier(),
		NewStreetClassifier(),
	}
}

// Setup gọi Setup cho từng classifier, dừng ở lỗi đầu tiên
func Setup(ds *resources.DictionarySet, classifiers []Classifier) error {
	for _, c := range classifiers {
		if err := c.Setup(ds); err != nil {
			return fmt.Errorf("setup classifier %s: %w", c.Name(), err)
		}
	}
	return nil
}
