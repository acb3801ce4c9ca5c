package matrix

// CSR 是按行压缩的稀疏矩阵（Compressed Sparse Row）。
// 行 = 用户，列 = 物品，值 = 聚合后的 relevance；未出现的 (行, 列) 隐式为零。
//
// 不变式：
//   - 构建完成后只读，可在并行预测分区间共享
//   - 行查找为 O(1)（indptr 直接寻址）
//   - 每行的列下标严格升序
type CSR struct {
	indptr []int
	cols   []int
	vals   []float64
	nCols  int
}

// Rows 返回行数。
func (m *CSR) Rows() int {
	return len(m.indptr) - 1
}

// Cols 返回列数。
func (m *CSR) Cols() int {
	return m.nCols
}

// NNZ 返回非零元素个数。
func (m *CSR) NNZ() int {
	return len(m.cols)
}

// Row 返回第 i 行的列下标与对应值。
// 返回的是内部切片的视图，调用方不得修改；行越界时返回 nil, nil。
func (m *CSR) Row(i int) (cols []int, vals []float64) {
	if i < 0 || i+1 >= len(m.indptr) {
		return nil, nil
	}
	start, end := m.indptr[i], m.indptr[i+1]
	return m.cols[start:end], m.vals[start:end]
}

// At 返回 (i, j) 位置的值，未出现的位置为 0。
// 行内二分查找，主要用于测试与小规模校验。
func (m *CSR) At(i, j int) float64 {
	cols, vals := m.Row(i)
	lo, hi := 0, len(cols)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case cols[mid] == j:
			return vals[mid]
		case cols[mid] < j:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0
}
