package candidate_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/rushteam/cfkit/candidate"
	"github.com/rushteam/cfkit/store"
)

func TestSetBasics(t *testing.T) {
	s := candidate.FromIDs(1, 2, 2, 3)
	if s.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", s.Len())
	}
	if !s.Has(2) || s.Has(99) {
		t.Fatalf("Has misbehaves: %v", s)
	}

	var nilSet candidate.Set
	if nilSet.Has(1) {
		t.Fatal("nil set must not contain anything")
	}
}

func TestCELRuleEligible(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		expr  string
		id    int64
		attrs map[string]any
		want  bool
	}{
		{"empty_expr_always_eligible", "", 1, nil, true},
		{"id_threshold_pass", "item.id > 100", 101, nil, true},
		{"id_threshold_fail", "item.id > 100", 100, nil, false},
		{"meta_string", `item.meta.status == "active"`, 1, map[string]any{"status": "active"}, true},
		{"meta_combined", `item.meta.status == "active" && item.meta.stock > 0.0`, 1,
			map[string]any{"status": "active", "stock": 3.0}, true},
		{"meta_combined_fail", `item.meta.status == "active" && item.meta.stock > 0.0`, 1,
			map[string]any{"status": "active", "stock": 0.0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := candidate.NewCELRule(tt.expr).Eligible(ctx, tt.id, tt.attrs)
			if err != nil {
				t.Fatalf("Eligible: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCELRuleErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := candidate.NewCELRule("item.id >").Eligible(ctx, 1, nil); err == nil {
		t.Fatal("expected compile error")
	}
	if _, err := candidate.NewCELRule("item.id + 1").Eligible(ctx, 1, nil); err == nil {
		t.Fatal("expected non-boolean result error")
	}
}

func TestBuildSetWithStoreMetadata(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()

	// 物品 1、2 有元数据，3 没有
	meta := map[int64]map[string]string{
		1: {"status": `"active"`, "stock": "5"},
		2: {"status": `"inactive"`, "stock": "9"},
	}
	for id, fields := range meta {
		for f, v := range fields {
			if err := ms.HSet(ctx, "item:meta:"+strconv.FormatInt(id, 10), f, []byte(v)); err != nil {
				t.Fatalf("HSet: %v", err)
			}
		}
	}

	provider := &candidate.StoreMetadata{Store: ms, KeyPrefix: "item:meta:"}
	rule := candidate.NewCELRule(`has(item.meta.status) && item.meta.status == "active"`)

	set, err := candidate.BuildSet(ctx, []int64{1, 2, 3}, provider, rule)
	if err != nil {
		t.Fatalf("BuildSet: %v", err)
	}
	if !set.Has(1) || set.Has(2) {
		t.Fatalf("rule filtering wrong: %v", set)
	}
	// 物品 3 没有元数据：has() 存在性检查不通过
	if set.Has(3) {
		t.Fatalf("item without metadata must not pass a metadata rule: %v", set)
	}
}

func TestBuildSetNoProvider(t *testing.T) {
	ctx := context.Background()
	set, err := candidate.BuildSet(ctx, []int64{50, 150, 250}, nil, candidate.NewCELRule("item.id > 100"))
	if err != nil {
		t.Fatalf("BuildSet: %v", err)
	}
	if set.Has(50) || !set.Has(150) || !set.Has(250) {
		t.Fatalf("got %v", set)
	}
}
