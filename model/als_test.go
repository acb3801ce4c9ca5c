package model

import (
	"bytes"
	"context"
	"testing"

	"github.com/rushteam/cfkit/core"
	"github.com/rushteam/cfkit/matrix"
)

func buildMatrix(t *testing.T, log core.Log) *matrix.Matrix {
	t.Helper()
	m, err := (&matrix.Builder{}).Build(log)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return m
}

func TestImplicitALS_NotFitted(t *testing.T) {
	als := &ImplicitALS{}
	if _, err := als.Recommend(0, 5, nil, nil); !core.IsNotFitted(err) {
		t.Errorf("Recommend() error = %v, want NOT_FITTED", err)
	}
	if _, err := als.ScoreItems(0, []int{0}); !core.IsNotFitted(err) {
		t.Errorf("ScoreItems() error = %v, want NOT_FITTED", err)
	}
	if err := als.Marshal(&bytes.Buffer{}); !core.IsNotFitted(err) {
		t.Errorf("Marshal() error = %v, want NOT_FITTED", err)
	}
}

func TestImplicitALS_RecommendFiltersSeen(t *testing.T) {
	// u1: i1, i2; u2: i2, i3 —— 过滤已见后 u1 只剩 i3（列 2）
	m := buildMatrix(t, core.Log{
		{UserID: 1, ItemID: 1, Relevance: 1},
		{UserID: 1, ItemID: 2, Relevance: 1},
		{UserID: 2, ItemID: 2, Relevance: 1},
		{UserID: 2, ItemID: 3, Relevance: 1},
	})

	als := &ImplicitALS{Factors: 4, Iterations: 10, Seed: 42}
	if err := als.Fit(context.Background(), m); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	row, _ := m.Users.Offset(1)
	seen := m.SeenColumns(1)
	scores, err := als.Recommend(row, 1, seen, nil)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("len(scores) = %d, want 1", len(scores))
	}
	wantCol, _ := m.Items.Offset(3)
	if scores[0].Item != wantCol {
		t.Errorf("top item col = %d, want %d (item 3)", scores[0].Item, wantCol)
	}
}

func TestImplicitALS_DropExcludesGlobally(t *testing.T) {
	m := buildMatrix(t, core.Log{
		{UserID: 1, ItemID: 1, Relevance: 1},
		{UserID: 2, ItemID: 2, Relevance: 1},
		{UserID: 2, ItemID: 3, Relevance: 1},
	})

	als := &ImplicitALS{Factors: 4, Iterations: 5, Seed: 1}
	if err := als.Fit(context.Background(), m); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	dropCol, _ := m.Items.Offset(3)
	row, _ := m.Users.Offset(1)
	scores, err := als.Recommend(row, 10, nil, []int{dropCol})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for _, s := range scores {
		if s.Item == dropCol {
			t.Errorf("dropped column %d appeared in result", dropCol)
		}
	}
}

func TestImplicitALS_Deterministic(t *testing.T) {
	log := core.Log{
		{UserID: 1, ItemID: 1, Relevance: 2},
		{UserID: 1, ItemID: 2, Relevance: 1},
		{UserID: 2, ItemID: 2, Relevance: 3},
		{UserID: 3, ItemID: 3, Relevance: 1},
	}
	m := buildMatrix(t, log)

	fit := func() []Score {
		als := &ImplicitALS{Factors: 4, Iterations: 5, Seed: 7}
		if err := als.Fit(context.Background(), m); err != nil {
			t.Fatalf("Fit() error = %v", err)
		}
		scores, err := als.Recommend(0, 3, nil, nil)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		return scores
	}

	a, b := fit(), fit()
	if len(a) != len(b) {
		t.Fatalf("result lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("result[%d] = %v vs %v, want identical fits for a fixed seed", i, a[i], b[i])
		}
	}
}

func TestImplicitALS_UnknownRowIsZeroVector(t *testing.T) {
	m := buildMatrix(t, core.Log{
		{UserID: 1, ItemID: 1, Relevance: 1},
		{UserID: 1, ItemID: 2, Relevance: 1},
	})

	als := &ImplicitALS{Factors: 4, Iterations: 5, Seed: 3}
	if err := als.Fit(context.Background(), m); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// 未知用户：零向量 => 所有分数为 0，平局按列升序
	scores, err := als.Recommend(-1, 2, nil, nil)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("len(scores) = %d, want 2", len(scores))
	}
	if scores[0].Item != 0 || scores[1].Item != 1 {
		t.Errorf("cold user order = [%d %d], want [0 1]", scores[0].Item, scores[1].Item)
	}
	for _, s := range scores {
		if s.Value != 0 {
			t.Errorf("cold user score = %v, want 0", s.Value)
		}
	}
}

func TestImplicitALS_ScoreItemsOrderAndBounds(t *testing.T) {
	m := buildMatrix(t, core.Log{
		{UserID: 1, ItemID: 1, Relevance: 1},
		{UserID: 1, ItemID: 2, Relevance: 1},
	})

	als := &ImplicitALS{Factors: 4, Iterations: 5, Seed: 3}
	if err := als.Fit(context.Background(), m); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	items := []int{1, 99, 0, -1}
	scores, err := als.ScoreItems(0, items)
	if err != nil {
		t.Fatalf("ScoreItems() error = %v", err)
	}
	if len(scores) != len(items) {
		t.Fatalf("len(scores) = %d, want %d", len(scores), len(items))
	}
	for i, s := range scores {
		if s.Item != items[i] {
			t.Errorf("scores[%d].Item = %d, want %d (input order preserved)", i, s.Item, items[i])
		}
	}
	// 越界 / 负数列得 0 分
	if scores[1].Value != 0 || scores[3].Value != 0 {
		t.Errorf("out-of-range scores = %v, %v, want 0, 0", scores[1].Value, scores[3].Value)
	}
}

func TestImplicitALS_MarshalRoundtrip(t *testing.T) {
	m := buildMatrix(t, core.Log{
		{UserID: 1, ItemID: 1, Relevance: 1},
		{UserID: 2, ItemID: 2, Relevance: 1},
	})

	als := &ImplicitALS{Factors: 4, Iterations: 5, Seed: 9}
	if err := als.Fit(context.Background(), m); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	var buf bytes.Buffer
	if err := als.Marshal(&buf); err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	restored := &ImplicitALS{}
	if err := restored.Unmarshal(&buf); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want, err := als.Recommend(0, 2, nil, nil)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	got, err := restored.Recommend(0, 2, nil, nil)
	if err != nil {
		t.Fatalf("restored Recommend() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("result lengths differ: %d vs %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("restored result[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSortScores_TieBreak(t *testing.T) {
	s := []Score{
		{Item: 3, Value: 0.5},
		{Item: 1, Value: 0.5},
		{Item: 2, Value: 0.9},
	}
	sortScores(s)
	want := []int{2, 1, 3} // 降序分数，同分按列升序
	for i, w := range want {
		if s[i].Item != w {
			t.Errorf("sorted[%d].Item = %d, want %d", i, s[i].Item, w)
		}
	}
}
