// Package config 提供配置驱动的装配：从 YAML/JSON 配置构建
// 模型、存储与推荐编排器。
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/cfkit/candidate"
	"github.com/rushteam/cfkit/core"
	"github.com/rushteam/cfkit/matrix"
	"github.com/rushteam/cfkit/recommend"
	"github.com/rushteam/cfkit/store"
)

// Config 是推荐系统的配置结构（支持 YAML/JSON）。
type Config struct {
	Recommender RecommenderConfig `yaml:"recommender" json:"recommender"`
	Model       ModelConfig       `yaml:"model" json:"model"`
	Store       StoreConfig       `yaml:"store" json:"store"`
	Candidate   CandidateConfig   `yaml:"candidate" json:"candidate"`
}

// RecommenderConfig 是编排器配置。
type RecommenderConfig struct {
	K          int    `yaml:"k" json:"k"`
	Workers    int    `yaml:"workers" json:"workers"`
	Strict     bool   `yaml:"strict" json:"strict"`
	FilterSeen bool   `yaml:"filter_seen" json:"filter_seen"`
	Reducer    string `yaml:"reducer" json:"reducer"` // sum / max / min / last / count
}

// ModelConfig 是因子模型配置。
type ModelConfig struct {
	Type   string                 `yaml:"type" json:"type"`     // als / rpc
	Config map[string]interface{} `yaml:"config" json:"config"` // 模型特定配置
}

// StoreConfig 是存储后端配置。
type StoreConfig struct {
	Type string `yaml:"type" json:"type"` // memory / redis
	Addr string `yaml:"addr" json:"addr"`
	DB   int    `yaml:"db" json:"db"`
}

// CandidateConfig 是候选集规则配置。
type CandidateConfig struct {
	Rule string `yaml:"rule" json:"rule"` // CEL 表达式，空表示不做规则过滤
}

// LoadFromYAML 从 YAML 文件加载配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	return &cfg, nil
}

// LoadFromJSON 从 JSON 文件加载配置。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	return &cfg, nil
}

// BuildRecommender 根据配置构建编排器（模型经 factory 创建）。
func (c *Config) BuildRecommender(factory *ModelFactory) (*recommend.Recommender, error) {
	m, err := factory.Build(c.Model.Type, c.Model.Config)
	if err != nil {
		return nil, fmt.Errorf("build model %s: %w", c.Model.Type, err)
	}
	return &recommend.Recommender{
		Model:   m,
		Builder: matrix.Builder{Reducer: c.Recommender.Reducer},
		Workers: c.Recommender.Workers,
		Strict:  c.Recommender.Strict,
	}, nil
}

// BuildStore 根据配置构建存储后端。未配置时默认内存存储。
func (c *Config) BuildStore() (core.KeyValueStore, error) {
	switch c.Store.Type {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		return store.NewRedisStore(c.Store.Addr, c.Store.DB)
	default:
		return nil, fmt.Errorf("unknown store type: %s", c.Store.Type)
	}
}

// BuildRule 根据配置构建候选集规则；未配置规则时返回 nil。
func (c *Config) BuildRule() candidate.Rule {
	if c.Candidate.Rule == "" {
		return nil
	}
	return candidate.NewCELRule(c.Candidate.Rule)
}
