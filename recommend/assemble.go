package recommend

import "github.com/rushteam/cfkit/core"

// Assemble 把各分区的推荐批次按分区顺序拼成一张扁平关系表。
// 只做拼接：不去重、不重排、不校验，顺序完全由批次顺序决定。
func Assemble(batches [][]core.Recommendation) []core.Recommendation {
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	out := make([]core.Recommendation, 0, total)
	for _, b := range batches {
		out = append(out, b...)
	}
	return out
}
