package classification

// DefaultConfidence độ tin cậy mặc định khi khớp chính xác
const DefaultConfidence = 1.0

// Classification là một cách hiểu (có nhãn và độ tin cậy) gắn vào span.
// Giá trị bất biến: mọi field đều unexported và Metadata trả về bản sao.
type Classification struct {
	kind       Kind
	confidence float64
	meta       map[string]string
}

// New tạo classification, confidence bị kẹp vào [0,1]
func New(kind Kind, confidence float64, meta map[string]string) Classification {
	switch {
	case confidence < 0:
		confidence = 0
	case confidence > 1:
		confidence = 1
	}

	copied := make(map[string]string, len(meta))
	for k, v := range meta {
		copied[k] = v
	}

	return Classification{kind: kind, confidence: confidence, meta: copied}
}

// Default tạo classification với confidence 1 và không có metadata
func Default(kind Kind) Classification {
	return New(kind, DefaultConfidence, nil)
}

// Kind loại classification
func (c Classification) Kind() Kind { return c.kind }

// Confidence độ tin cậy trong [0,1]
func (c Classification) Confidence() float64 { return c.confidence }

func (c Classification) IsPublic() bool { return c.kind.IsPublic() }

func (c Classification) Label() string { return c.kind.Label() }

// Meta đọc một giá trị metadata, rỗng nếu không có
func (c Classification) Meta(key string) string { return c.meta[key] }

func (c Classification) HasMeta(key string) bool {
	_, ok := c.meta[key]
	return ok
}

// Metadata trả về bản sao metadata
func (c Classification) Metadata() map[string]string {
	out := make(map[string]string, len(c.meta))
	for k, v := range c.meta {
		out[k] = v
	}
	return out
}
