package recommend

import (
	"context"
	"testing"

	"github.com/rushteam/cfkit/core"
)

func TestScorePairsNotFitted(t *testing.T) {
	r := &Recommender{Model: &stubModel{}}
	_, err := r.ScorePairs(context.Background(), []core.Pair{{UserID: 1, ItemID: 1}}, nil)
	if !core.IsNotFitted(err) {
		t.Fatalf("expected NOT_FITTED, got %v", err)
	}
}

// 每个输入对正好一行，顺序与输入一致；重复对各自出一行。
func TestScorePairsOneRowPerPair(t *testing.T) {
	r := newFitted(t)

	pairs := []core.Pair{
		{UserID: 2, ItemID: 3},
		{UserID: 1, ItemID: 1},
		{UserID: 2, ItemID: 3}, // 重复
		{UserID: 1, ItemID: 2},
	}
	recs, err := r.ScorePairs(context.Background(), pairs, nil)
	if err != nil {
		t.Fatalf("ScorePairs: %v", err)
	}
	if len(recs) != len(pairs) {
		t.Fatalf("got %d rows, want %d", len(recs), len(pairs))
	}
	for i, p := range pairs {
		if recs[i].UserID != p.UserID || recs[i].ItemID != p.ItemID {
			t.Fatalf("row %d: got (%d,%d), want (%d,%d)",
				i, recs[i].UserID, recs[i].ItemID, p.UserID, p.ItemID)
		}
	}
	if recs[0].Relevance != recs[2].Relevance {
		t.Fatalf("duplicate pairs scored differently: %v vs %v",
			recs[0].Relevance, recs[2].Relevance)
	}

	// stubModel: score = row*100 + col + 1
	// u2(row=1) × i3(col=2) = 103; u1(row=0) × i1(col=0) = 1
	if recs[0].Relevance != 103 || recs[1].Relevance != 1 {
		t.Fatalf("unexpected scores: %v", recs)
	}
}

// 拟合矩阵之外的用户或物品得分为 0（默认非严格模式）。
func TestScorePairsUnknownScoresZero(t *testing.T) {
	r := newFitted(t)

	recs, err := r.ScorePairs(context.Background(), []core.Pair{
		{UserID: 99, ItemID: 1},
		{UserID: 1, ItemID: 99},
	}, nil)
	if err != nil {
		t.Fatalf("ScorePairs: %v", err)
	}
	for i, rec := range recs {
		if rec.Relevance != 0 {
			t.Fatalf("row %d: got %v, want 0", i, rec.Relevance)
		}
	}
}

func TestScorePairsStrictUnknownUser(t *testing.T) {
	r := newFitted(t)
	r.Strict = true

	_, err := r.ScorePairs(context.Background(), []core.Pair{{UserID: 99, ItemID: 1}}, nil)
	if !core.IsUnknownUser(err) {
		t.Fatalf("expected UNKNOWN_USER, got %v", err)
	}
}

func TestScorePairsEmpty(t *testing.T) {
	r := newFitted(t)
	recs, err := r.ScorePairs(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("ScorePairs: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("got %d rows, want 0", len(recs))
	}
}
