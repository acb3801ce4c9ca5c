package core

import "time"

// Interaction 是一条用户-物品交互记录：评分、点击、播放时长等。
// Relevance 表示交互强度，由业务自定义语义；Timestamp 可选（零值表示未知）。
type Interaction struct {
	UserID    int64
	ItemID    int64
	Relevance float64
	Timestamp time.Time
}

// Log 是交互日志（多重集）：同一 (user, item) 允许出现多条记录。
// 重复记录的聚合策略由 matrix.Builder 的 Reducer 决定，而不是在日志层固定。
type Log []Interaction

// Users 返回日志中出现过的用户 ID，按首次出现顺序去重。
func (l Log) Users() []int64 {
	seen := make(map[int64]struct{}, len(l))
	out := make([]int64, 0, len(l))
	for _, in := range l {
		if _, ok := seen[in.UserID]; ok {
			continue
		}
		seen[in.UserID] = struct{}{}
		out = append(out, in.UserID)
	}
	return out
}

// Items 返回日志中出现过的物品 ID，按首次出现顺序去重。
func (l Log) Items() []int64 {
	seen := make(map[int64]struct{}, len(l))
	out := make([]int64, 0, len(l))
	for _, in := range l {
		if _, ok := seen[in.ItemID]; ok {
			continue
		}
		seen[in.ItemID] = struct{}{}
		out = append(out, in.ItemID)
	}
	return out
}
