package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/cfkit/model"
)

const yamlConfig = `
recommender:
  k: 20
  workers: 4
  strict: true
  filter_seen: true
  reducer: max
model:
  type: als
  config:
    factors: 16
    iterations: 5
    alpha: 40.0
    seed: 42
store:
  type: memory
candidate:
  rule: 'item.id > 0'
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFromYAML(t *testing.T) {
	cfg, err := LoadFromYAML(writeFile(t, "cf.yaml", yamlConfig))
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if cfg.Recommender.K != 20 || cfg.Recommender.Workers != 4 ||
		!cfg.Recommender.Strict || !cfg.Recommender.FilterSeen ||
		cfg.Recommender.Reducer != "max" {
		t.Fatalf("recommender config: %+v", cfg.Recommender)
	}
	if cfg.Model.Type != "als" {
		t.Fatalf("model type: %s", cfg.Model.Type)
	}
	if cfg.Candidate.Rule != "item.id > 0" {
		t.Fatalf("candidate rule: %s", cfg.Candidate.Rule)
	}
}

func TestLoadFromJSON(t *testing.T) {
	cfg, err := LoadFromJSON(writeFile(t, "cf.json",
		`{"recommender":{"k":5},"model":{"type":"als"}}`))
	if err != nil {
		t.Fatalf("LoadFromJSON: %v", err)
	}
	if cfg.Recommender.K != 5 || cfg.Model.Type != "als" {
		t.Fatalf("config: %+v", cfg)
	}
}

func TestBuildRecommenderALS(t *testing.T) {
	cfg, err := LoadFromYAML(writeFile(t, "cf.yaml", yamlConfig))
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}

	r, err := cfg.BuildRecommender(DefaultFactory())
	if err != nil {
		t.Fatalf("BuildRecommender: %v", err)
	}
	als, ok := r.Model.(*model.ImplicitALS)
	if !ok {
		t.Fatalf("model: %T", r.Model)
	}
	if als.Factors != 16 || als.Iterations != 5 || als.Alpha != 40.0 || als.Seed != 42 {
		t.Fatalf("als config: %+v", als)
	}
	if r.Workers != 4 || !r.Strict || r.Builder.Reducer != "max" {
		t.Fatalf("recommender: workers=%d strict=%v reducer=%s", r.Workers, r.Strict, r.Builder.Reducer)
	}
}

func TestBuildRecommenderRPC(t *testing.T) {
	f := DefaultFactory()

	m, err := f.Build("rpc", map[string]interface{}{"endpoint": "http://localhost:8080/model"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := m.(*model.RPCModel); !ok {
		t.Fatalf("model: %T", m)
	}

	if _, err := f.Build("rpc", map[string]interface{}{}); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
}

func TestBuildUnknownModelType(t *testing.T) {
	cfg := &Config{Model: ModelConfig{Type: "svd"}}
	if _, err := cfg.BuildRecommender(DefaultFactory()); err == nil {
		t.Fatal("expected error for unknown model type")
	}
}

func TestBuildStore(t *testing.T) {
	cfg := &Config{}
	s, err := cfg.BuildStore()
	if err != nil {
		t.Fatalf("BuildStore: %v", err)
	}
	defer s.Close()
	if s.Name() != "memory" {
		t.Fatalf("default store: %s", s.Name())
	}

	cfg.Store.Type = "cassandra"
	if _, err := cfg.BuildStore(); err == nil {
		t.Fatal("expected error for unknown store type")
	}
}

func TestBuildRule(t *testing.T) {
	cfg := &Config{}
	if cfg.BuildRule() != nil {
		t.Fatal("empty rule must build nil")
	}
	cfg.Candidate.Rule = "item.id > 0"
	if cfg.BuildRule() == nil {
		t.Fatal("expected a rule")
	}
}
