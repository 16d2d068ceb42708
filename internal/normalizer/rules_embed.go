package normalizer

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/rules.yaml
var rulesYAML []byte

// RulesConfig chứa bảng ký tự và giới hạn độ dài được load từ YAML nhúng
type RulesConfig struct {
	WordChars    string `yaml:"word_chars"`
	SpecialChars struct {
		Major string `yaml:"major"`
		Minor string `yaml:"minor"`
	} `yaml:"special_chars"`
	MaxLength int `yaml:"max_length"`
}

// LoadRulesConfig load cấu hình rules từ embedded YAML
func LoadRulesConfig() (*RulesConfig, error) {
	config := &RulesConfig{}
	if err := yaml.Unmarshal(rulesYAML, config); err != nil {
		return nil, fmt.Errorf("load rules.yaml: %w", err)
	}
	if config.MaxLength <= 0 {
		config.MaxLength = DefaultMaxLength
	}
	return config, nil
}
