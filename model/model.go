package model

import (
	"context"
	"io"

	"github.com/rushteam/cfkit/matrix"
)

// Score 是 (列下标, 预测分) 二元组。Item 是拟合矩阵中的列下标，
// 不是物品 ID —— ID 映射由编排层（recommend 包）负责。
type Score struct {
	Item  int
	Value float64
}

// FactorModel 是隐因子打分后端的最小抽象：消费稀疏交互矩阵，
// 对单个用户行产出物品分数。具体实现可以是本地模型（ALS）
// 或远程 RPC 服务。
//
// 约定：
//   - Fit 之后模型只读，可在并行预测分区间安全共享
//   - row < 0 表示未知用户（零隐向量），不是错误
//   - Recommend 返回至多 k 个结果，按 Value 降序，同分按 Item 升序——
//     可用物品不足 k 个时返回更少，不是错误
//   - seen / drop 中的列一定不出现在 Recommend 结果里；seen 为 nil 表示不过滤
type FactorModel interface {
	// Name 返回模型名称（用于日志/配置）
	Name() string

	// Fit 在稀疏交互矩阵上拟合模型。
	Fit(ctx context.Context, m *matrix.Matrix) error

	// Recommend 对单个用户行打分并返回 TopK。
	Recommend(row, k int, seen []int, drop []int) ([]Score, error)

	// ScoreItems 对给定候选列逐一打分（pairwise 稠密网格用）。
	// 结果与 items 等长、顺序一致；越界或负数列得 0 分。
	ScoreItems(row int, items []int) ([]Score, error)

	// Marshal 将拟合状态序列化（不透明保存）。
	Marshal(w io.Writer) error

	// Unmarshal 从序列化状态恢复（不透明加载）。
	Unmarshal(r io.Reader) error
}
