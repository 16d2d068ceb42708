package resources

import (
	"bufio"
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Index là inverted index phrase -> true dùng cho so khớp O(1)
type Index map[string]bool

// Has kiểm tra phrase có trong index không
func (idx Index) Has(phrase string) bool {
	return idx[phrase]
}

// Keys trả về danh sách key đã sắp xếp
func (idx Index) Keys() []string {
	keys := make([]string, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dictionary là collaborator nạp danh sách phrase theo locale và tên file.
type Dictionary interface {
	// Load bổ sung các phrase (và biến thể) của từng locale vào index
	Load(index Index, locales []string, file string)
	// Rows trả về các dòng đã chuẩn hóa, mỗi dòng là danh sách cell, cell đầu là dạng chuẩn
	Rows(locales []string, file string) [][]string
}

// LibpostalDictionary đọc file định dạng libpostal: các biến thể phân cách bởi '|'
type LibpostalDictionary struct {
	fsys   fs.FS
	root   string
	logger *zap.Logger
}

// NewLibpostalDictionary tạo dictionary đọc từ fsys, file nằm ở root/<locale>/<file>
func NewLibpostalDictionary(fsys fs.FS, root string, logger *zap.Logger) *LibpostalDictionary {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibpostalDictionary{fsys: fsys, root: root, logger: logger}
}

// Load nạp mọi cell của mọi dòng vào index kèm biến thể ASCII
func (d *LibpostalDictionary) Load(index Index, locales []string, file string) {
	for _, row := range d.Rows(locales, file) {
		for _, cell := range row {
			index[cell] = true
			if folded := Fold(cell); folded != cell {
				index[folded] = true
			}
		}
	}
}

// Rows đọc file của từng locale; file thiếu được bỏ qua
func (d *LibpostalDictionary) Rows(locales []string, file string) [][]string {
	var rows [][]string
	for _, locale := range locales {
		p := path.Join(d.root, locale, file)
		f, err := d.fsys.Open(p)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				d.logger.Warn("Không thể mở dictionary", zap.String("path", p), zap.Error(err))
			}
			continue
		}

		scanner := bufio.NewScanner(f)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			row, ok := parseRow(scanner.Text())
			if !ok {
				d.logger.Warn("Bỏ qua dòng dictionary không hợp lệ",
					zap.String("path", p),
					zap.Int("line", lineNo))
				continue
			}
			if row != nil {
				rows = append(rows, row)
			}
		}
		if err := scanner.Err(); err != nil {
			d.logger.Warn("Lỗi đọc dictionary", zap.String("path", p), zap.Error(err))
		}
		f.Close()
	}
	return rows
}

// parseRow trả về nil, true cho dòng trống/comment và nil, false cho dòng lỗi
func parseRow(line string) ([]string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, true
	}

	cells := strings.Split(line, "|")
	row := make([]string, 0, len(cells))
	for _, cell := range cells {
		cell = NormalizeCell(cell)
		if cell == "" {
			return nil, false
		}
		row = append(row, cell)
	}
	return row, true
}

// NormalizeCell trim, lowercase, NFC và sửa dấu một cell giống bước 1-2 của normalizer
func NormalizeCell(cell string) string {
	return RepairAccents(norm.NFC.String(strings.ToLower(strings.TrimSpace(cell))))
}

// Fold chuyển phrase về dạng ASCII không dấu (đ -> d)
func Fold(phrase string) string {
	return strings.ToLower(unidecode.Unidecode(phrase))
}

// GeneratePlurals thêm dạng số nhiều "+s" cho các key kết thúc bằng chữ cái ASCII
func GeneratePlurals(index Index) {
	for _, key := range index.Keys() {
		last, _ := utf8.DecodeLastRuneInString(key)
		if last > unicode.MaxASCII || !unicode.IsLetter(last) || last == 's' {
			continue
		}
		index[key+"s"] = true
	}
}
