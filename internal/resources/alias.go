package resources

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"strings"

	"go.uber.org/zap"
)

const aliasSeparator = "=>"

// LoadAliases đọc bảng alias "canonical => alias1|alias2" từ fsys.
// File không tồn tại trả về map rỗng, không lỗi.
func LoadAliases(fsys fs.FS, name string, logger *zap.Logger) map[string]string {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := fsys.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Không thể mở bảng alias", zap.String("path", name), zap.Error(err))
		}
		return map[string]string{}
	}
	defer f.Close()

	return ParseAliases(f, logger)
}

// ParseAliases đọc từng dòng, chuẩn hóa key và value; dòng sai định dạng bị bỏ qua
func ParseAliases(r io.Reader, logger *zap.Logger) map[string]string {
	if logger == nil {
		logger = zap.NewNop()
	}

	aliases := make(map[string]string)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		canonical, rest, ok := strings.Cut(line, aliasSeparator)
		canonical = NormalizeCell(canonical)
		if !ok || canonical == "" {
			logger.Warn("Bỏ qua dòng alias không hợp lệ", zap.Int("line", lineNo))
			continue
		}

		aliases[canonical] = canonical
		for _, alias := range strings.Split(rest, "|") {
			if alias = NormalizeCell(alias); alias != "" {
				aliases[alias] = canonical
			}
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("Lỗi đọc bảng alias", zap.Error(err))
	}

	return aliases
}
