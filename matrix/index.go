package matrix

// Index 维护外部 ID 与连续下标之间的双向映射。
// 下标按首次出现顺序分配：对固定的输入顺序，映射是确定的。
// 构建完成后只读，可以在多个 goroutine 间安全共享。
type Index struct {
	offsets map[int64]int
	ids     []int64
}

func NewIndex() *Index {
	return &Index{offsets: make(map[int64]int)}
}

// Add 为 id 分配下标；已存在时返回现有下标。
func (ix *Index) Add(id int64) int {
	if off, ok := ix.offsets[id]; ok {
		return off
	}
	off := len(ix.ids)
	ix.offsets[id] = off
	ix.ids = append(ix.ids, id)
	return off
}

// Offset 返回 id 对应的下标。
func (ix *Index) Offset(id int64) (int, bool) {
	off, ok := ix.offsets[id]
	return off, ok
}

// ID 返回下标对应的 id。下标越界时返回 0, false。
func (ix *Index) ID(offset int) (int64, bool) {
	if offset < 0 || offset >= len(ix.ids) {
		return 0, false
	}
	return ix.ids[offset], true
}

// Len 返回已分配的下标数量。
func (ix *Index) Len() int {
	return len(ix.ids)
}

// IDs 返回全部 id，按下标顺序。返回副本，调用方可自由修改。
func (ix *Index) IDs() []int64 {
	out := make([]int64, len(ix.ids))
	copy(out, ix.ids)
	return out
}
