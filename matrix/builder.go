package matrix

import (
	"fmt"
	"sort"

	"github.com/rushteam/cfkit/core"
)

// Matrix 打包稀疏交互矩阵与两个方向的下标映射。
// 行下标 ≠ 用户 ID（列同理），所以映射必须随矩阵一起交付。
type Matrix struct {
	*CSR

	// Users 行下标 ↔ 用户 ID
	Users *Index

	// Items 列下标 ↔ 物品 ID
	Items *Index
}

// SeenColumns 返回某用户交互过的列下标（Seen-Items Set，按列升序）。
// 用户不在矩阵中时返回 nil。
func (m *Matrix) SeenColumns(userID int64) []int {
	row, ok := m.Users.Offset(userID)
	if !ok {
		return nil
	}
	cols, _ := m.Row(row)
	return cols
}

// Builder 将交互日志压缩成稀疏用户×物品矩阵。
//
// 行为：
//   - 为每个不同的用户/物品按首次出现顺序分配连续下标（对固定输入顺序是确定的）
//   - 重复的 (user, item) 记录按 Reducer 聚合
type Builder struct {
	// Reducer 重复 (user, item) 的聚合方式：sum / max / min / last / count
	// 为空时默认 sum
	Reducer string
}

// 聚合方式常量
const (
	ReduceSum   = "sum"
	ReduceMax   = "max"
	ReduceMin   = "min"
	ReduceLast  = "last"
	ReduceCount = "count"
)

// Build 从日志构建矩阵与下标映射。
// 日志为空时返回 core.ErrEmptyLog。
func (b *Builder) Build(log core.Log) (*Matrix, error) {
	if len(log) == 0 {
		return nil, core.ErrEmptyLog
	}

	reducer := b.Reducer
	if reducer == "" {
		reducer = ReduceSum
	}

	users := NewIndex()
	items := NewIndex()

	// 每行一个 col -> 聚合值 的 map，最后再压缩成 CSR
	rows := make([]map[int]float64, 0)

	for _, in := range log {
		r := users.Add(in.UserID)
		c := items.Add(in.ItemID)
		for len(rows) <= r {
			rows = append(rows, make(map[int]float64))
		}

		old, seen := rows[r][c]
		var agg float64
		switch reducer {
		case ReduceSum:
			agg = old + in.Relevance
		case ReduceMax:
			if !seen || in.Relevance > old {
				agg = in.Relevance
			} else {
				agg = old
			}
		case ReduceMin:
			if !seen || in.Relevance < old {
				agg = in.Relevance
			} else {
				agg = old
			}
		case ReduceLast:
			agg = in.Relevance
		case ReduceCount:
			agg = old + 1
		default:
			return nil, fmt.Errorf("matrix: unknown reducer %q", reducer)
		}
		rows[r][c] = agg
	}

	nnz := 0
	for _, row := range rows {
		nnz += len(row)
	}

	csr := &CSR{
		indptr: make([]int, 1, len(rows)+1),
		cols:   make([]int, 0, nnz),
		vals:   make([]float64, 0, nnz),
		nCols:  items.Len(),
	}
	for _, row := range rows {
		cols := make([]int, 0, len(row))
		for c := range row {
			cols = append(cols, c)
		}
		sort.Ints(cols)
		for _, c := range cols {
			csr.cols = append(csr.cols, c)
			csr.vals = append(csr.vals, row[c])
		}
		csr.indptr = append(csr.indptr, len(csr.cols))
	}

	return &Matrix{CSR: csr, Users: users, Items: items}, nil
}
