package core

// Recommendation 是推荐输出的最小单元：扁平的 (user, item, relevance) 行。
// 列类型固定为 int64 / int64 / float64，保证跨分区合并后 schema 一致。
type Recommendation struct {
	UserID    int64   `json:"user_id"`
	ItemID    int64   `json:"item_id"`
	Relevance float64 `json:"relevance"`
}

// Pair 是 pairwise 打分的输入单元：只为显式给出的 (user, item) 对打分，
// 而不是为每个用户取 TopK。
type Pair struct {
	UserID int64 `json:"user_id"`
	ItemID int64 `json:"item_id"`
}
