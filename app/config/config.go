package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type WindowCfg struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

type SolverCfg struct {
	MaxSolutions    int `yaml:"max_solutions" json:"max_solutions"`
	MaxNodes        int `yaml:"max_nodes" json:"max_nodes"`
	ReturnSolutions int `yaml:"return_solutions" json:"return_solutions"`
}

type Thresholds struct {
	High      float64 `yaml:"high" json:"high"`
	ReviewLow float64 `yaml:"review_low" json:"review_low"`
	Fuzzy     float64 `yaml:"fuzzy" json:"fuzzy"`
}

type ConfidenceWeights struct {
	ScoreWeight        float64 `yaml:"score_weight" json:"score_weight"`
	CompletenessWeight float64 `yaml:"completeness_weight" json:"completeness_weight"`
	PathWeight         float64 `yaml:"path_weight" json:"path_weight"`
}

type ParserCfg struct {
	Window     WindowCfg         `yaml:"window" json:"window"`
	Solver     SolverCfg         `yaml:"solver" json:"solver"`
	CacheSize  int               `yaml:"cache_size" json:"cache_size"`
	Workers    int               `yaml:"workers" json:"workers"`
	Locales    []string          `yaml:"locales" json:"locales"`
	NonAccent  bool              `yaml:"non_accent" json:"non_accent"`
	JWWeight   float64           `yaml:"jw_weight" json:"jw_weight"`
	LevWeight  float64           `yaml:"lev_weight" json:"lev_weight"`
	Thresholds Thresholds        `yaml:"thresholds" json:"thresholds"`
	Confidence ConfidenceWeights `yaml:"confidence" json:"confidence"`

	UseLibpostal bool `yaml:"use_libpostal" json:"use_libpostal"`
}

// Defaults cấu hình mặc định khi không có file
func Defaults() ParserCfg {
	return ParserCfg{
		Window:    WindowCfg{Min: 0, Max: 10},
		Solver:    SolverCfg{MaxSolutions: 32, MaxNodes: 20000, ReturnSolutions: 3},
		CacheSize: 1024,
		Workers:   8,
		Locales:   []string{"en", "vi"},
		JWWeight:  0.7,
		LevWeight: 0.3,
		Thresholds: Thresholds{
			High:      0.9,
			ReviewLow: 0.6,
			Fuzzy:     0.88,
		},
		Confidence: ConfidenceWeights{
			ScoreWeight:        0.60,
			CompletenessWeight: 0.25,
			PathWeight:         0.15,
		},
	}
}

var C = Defaults()

// Load đọc file YAML đè lên giá trị mặc định. File không tồn tại thì giữ mặc định.
func Load(path string) error {
	C = Defaults()

	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err == nil {
		if err := yaml.Unmarshal(b, &C); err != nil {
			return err
		}
	}

	// ENV overrides
	switch os.Getenv("USE_LIBPOSTAL") {
	case "0":
		C.UseLibpostal = false
	case "1":
		C.UseLibpostal = true
	}
	if v, err := strconv.Atoi(os.Getenv("PARSER_WINDOW_MAX")); err == nil && v > 0 {
		C.Window.Max = v
	}
	if v, err := strconv.Atoi(os.Getenv("PARSER_CACHE_SIZE")); err == nil && v > 0 {
		C.CacheSize = v
	}
	return nil
}

func RequestTimeout() time.Duration { return 1500 * time.Millisecond }
