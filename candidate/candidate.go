// Package candidate 定义候选集（Candidate Set）：一次推荐请求中
// 有资格被推荐的物品全集，与个性化无关。
//
// 候选集有两种来源：
//   - 静态：调用方直接给出物品 ID 列表（FromIDs）
//   - 规则：对物品元数据跑资格规则（Rule + BuildSet），例如
//     "上架中且非成人内容" 这类目录级约束
package candidate

// Set 是候选物品 ID 集合。
// nil Set 表示"未指定"：编排层会把它默认为日志中的全部物品。
type Set map[int64]struct{}

// FromIDs 从 ID 列表构建候选集。
func FromIDs(ids ...int64) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has 判断物品是否在候选集内。nil Set 上恒为 false，
// "nil 即全集"的语义由调用方处理。
func (s Set) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Len 返回候选集大小。
func (s Set) Len() int {
	return len(s)
}
