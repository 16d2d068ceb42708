package resources

import (
	"crypto/sha256"
	"embed"
	"fmt"
	"io/fs"
)

//go:embed data
var dataFS embed.FS

const (
	libpostalRoot = "data/libpostal"
	regionAliases = "data/whosonfirst/region.txt"
)

// EmbeddedFS trả về filesystem chứa dữ liệu dictionary nhúng sẵn
func EmbeddedFS() fs.FS {
	return dataFS
}

// Fingerprint sinh phiên bản cho bộ dữ liệu dựa trên nội dung các file
func Fingerprint(fsys fs.FS) (string, error) {
	h := sha256.New()
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		b, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		h.Write([]byte(p))
		h.Write(b)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("fingerprint dictionary: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:12], nil
}
