//go:build !libpostal

package external

import "github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"

// Libpostal bản rỗng khi build không có tag libpostal
type Libpostal struct{}

func NewLibpostal(languages ...string) *Libpostal { return &Libpostal{} }

func (l *Libpostal) Available() bool { return false }

func (l *Libpostal) Parse(raw string) []models.Component { return nil }
