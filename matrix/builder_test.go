package matrix

import (
	"testing"

	"github.com/rushteam/cfkit/core"
)

func TestBuilder_Build(t *testing.T) {
	log := core.Log{
		{UserID: 10, ItemID: 100, Relevance: 1},
		{UserID: 10, ItemID: 200, Relevance: 2},
		{UserID: 20, ItemID: 200, Relevance: 3},
		{UserID: 20, ItemID: 300, Relevance: 4},
	}

	b := &Builder{}
	m, err := b.Build(log)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if m.Rows() != 2 || m.Cols() != 3 {
		t.Fatalf("dims = %dx%d, want 2x3", m.Rows(), m.Cols())
	}
	if m.NNZ() != 4 {
		t.Errorf("NNZ = %d, want 4", m.NNZ())
	}

	// 首次出现顺序：user 10 -> row 0, user 20 -> row 1
	if row, ok := m.Users.Offset(10); !ok || row != 0 {
		t.Errorf("Users.Offset(10) = %d, %v, want 0, true", row, ok)
	}
	if row, ok := m.Users.Offset(20); !ok || row != 1 {
		t.Errorf("Users.Offset(20) = %d, %v, want 1, true", row, ok)
	}
	if col, ok := m.Items.Offset(300); !ok || col != 2 {
		t.Errorf("Items.Offset(300) = %d, %v, want 2, true", col, ok)
	}

	// 行内容：user 20 的行应包含 item 200 和 300
	if got := m.At(1, 1); got != 3 {
		t.Errorf("At(1,1) = %v, want 3", got)
	}
	if got := m.At(1, 2); got != 4 {
		t.Errorf("At(1,2) = %v, want 4", got)
	}
	// 未出现的位置隐式为零
	if got := m.At(0, 2); got != 0 {
		t.Errorf("At(0,2) = %v, want 0", got)
	}
}

func TestBuilder_Reducers(t *testing.T) {
	// 同一 (user, item) 的三条记录：2, 5, 3
	log := core.Log{
		{UserID: 1, ItemID: 7, Relevance: 2},
		{UserID: 1, ItemID: 7, Relevance: 5},
		{UserID: 1, ItemID: 7, Relevance: 3},
	}

	tests := []struct {
		reducer string
		want    float64
	}{
		{"", 10}, // 默认 sum
		{ReduceSum, 10},
		{ReduceMax, 5},
		{ReduceMin, 2},
		{ReduceLast, 3},
		{ReduceCount, 3},
	}

	for _, tt := range tests {
		t.Run("reducer="+tt.reducer, func(t *testing.T) {
			b := &Builder{Reducer: tt.reducer}
			m, err := b.Build(log)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if got := m.At(0, 0); got != tt.want {
				t.Errorf("At(0,0) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuilder_UnknownReducer(t *testing.T) {
	b := &Builder{Reducer: "median"}
	if _, err := b.Build(core.Log{{UserID: 1, ItemID: 1, Relevance: 1}}); err == nil {
		t.Fatal("Build() with unknown reducer should fail")
	}
}

func TestBuilder_EmptyLog(t *testing.T) {
	b := &Builder{}
	_, err := b.Build(nil)
	if err == nil {
		t.Fatal("Build(nil) should fail")
	}
	if !core.IsEmptyLog(err) {
		t.Errorf("error = %v, want EMPTY_LOG", err)
	}
}

func TestBuilder_Deterministic(t *testing.T) {
	log := core.Log{
		{UserID: 3, ItemID: 30, Relevance: 1},
		{UserID: 1, ItemID: 10, Relevance: 1},
		{UserID: 2, ItemID: 30, Relevance: 1},
		{UserID: 1, ItemID: 20, Relevance: 1},
	}

	b := &Builder{}
	m1, err := b.Build(log)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	m2, err := b.Build(log)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, id := range []int64{1, 2, 3} {
		r1, _ := m1.Users.Offset(id)
		r2, _ := m2.Users.Offset(id)
		if r1 != r2 {
			t.Errorf("user %d: row %d vs %d, want identical assignment", id, r1, r2)
		}
	}
	for _, id := range []int64{10, 20, 30} {
		c1, _ := m1.Items.Offset(id)
		c2, _ := m2.Items.Offset(id)
		if c1 != c2 {
			t.Errorf("item %d: col %d vs %d, want identical assignment", id, c1, c2)
		}
	}
}

func TestMatrix_SeenColumns(t *testing.T) {
	log := core.Log{
		{UserID: 1, ItemID: 10, Relevance: 1},
		{UserID: 1, ItemID: 30, Relevance: 1},
		{UserID: 2, ItemID: 20, Relevance: 1},
	}
	m, err := (&Builder{}).Build(log)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	cols := m.SeenColumns(1)
	if len(cols) != 2 {
		t.Fatalf("SeenColumns(1) = %v, want 2 columns", cols)
	}
	// 未知用户返回 nil
	if cols := m.SeenColumns(99); cols != nil {
		t.Errorf("SeenColumns(99) = %v, want nil", cols)
	}
}

func TestIndex_Roundtrip(t *testing.T) {
	ix := NewIndex()
	ids := []int64{5, 3, 5, 9}
	wantOffsets := []int{0, 1, 0, 2}
	for i, id := range ids {
		if got := ix.Add(id); got != wantOffsets[i] {
			t.Errorf("Add(%d) = %d, want %d", id, got, wantOffsets[i])
		}
	}
	if ix.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ix.Len())
	}
	if id, ok := ix.ID(1); !ok || id != 3 {
		t.Errorf("ID(1) = %d, %v, want 3, true", id, ok)
	}
	if _, ok := ix.ID(3); ok {
		t.Error("ID(3) should be out of range")
	}
}
