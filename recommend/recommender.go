// Package recommend 是推荐编排层：把交互日志、稀疏矩阵、因子模型
// 串成统一的 fit/predict 接口，并按用户分区并行产出 TopK 推荐。
//
// 排除规则有两层，二者始终叠加：
//   - 候选集外的物品全局剔除（目录级，与 FilterSeen 无关）
//   - 用户已交互过的物品按 FilterSeen 开关剔除（个性化级）
package recommend

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/cfkit/candidate"
	"github.com/rushteam/cfkit/core"
	"github.com/rushteam/cfkit/matrix"
	"github.com/rushteam/cfkit/model"
	"github.com/rushteam/cfkit/pkg/log"
)

// Recommender 是推荐编排器：持有因子模型与最近一次拟合的稀疏矩阵。
// Fit 之后可以并发调用 Recommend / ScorePairs；新的 Fit 会整体替换
// 缓存的矩阵，绝不原地修改，进行中的预测不受影响。
type Recommender struct {
	// Model 因子打分后端（外部协作者，可插拔）
	Model model.FactorModel

	// Builder 稀疏矩阵构建器（聚合策略在这里配置）
	Builder matrix.Builder

	// Workers 并行预测的分区数，<=0 时默认 runtime.NumCPU()
	Workers int

	// Strict 严格模式：请求的用户不在拟合矩阵中时报 UNKNOWN_USER；
	// 默认按零行处理（冷启动用户）
	Strict bool

	// OnExhausted 可选回调：过滤后没有任何可推荐物品的用户。
	// 在所有分区完成后按分区顺序串行调用（signal，不中断请求）。
	OnExhausted func(userID int64)

	mu   sync.RWMutex
	last *matrix.Matrix
}

// Request 是一次 TopK 推荐请求。
type Request struct {
	// Log 预测上下文日志：已见物品与默认候选集从这里来。
	// 为 nil 时复用上一次 Fit 的矩阵作为上下文。
	Log core.Log

	// K 每个用户的推荐条数（必须为正）。可用物品不足时返回更少，不是错误。
	K int

	// Users 需要生成推荐的用户，可包含拟合时未见过的用户
	Users []int64

	// Items 候选集；nil 表示"上下文日志中出现过的全部物品"
	Items candidate.Set

	// FilterSeen 是否剔除用户已交互过的物品
	FilterSeen bool
}

// Fit 重建稀疏交互矩阵并拟合模型，随后整体替换缓存的矩阵。
func (r *Recommender) Fit(ctx context.Context, interactions core.Log) error {
	start := time.Now()

	m, err := r.Builder.Build(interactions)
	if err != nil {
		return err
	}
	if err := r.Model.Fit(ctx, m); err != nil {
		return err
	}

	r.mu.Lock()
	r.last = m
	r.mu.Unlock()

	log.Logger().Info("model fitted",
		zap.String("model", r.Model.Name()),
		zap.Int("users", m.Rows()),
		zap.Int("items", m.Cols()),
		zap.Int("interactions", m.NNZ()),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// fitted 返回最近一次拟合的矩阵，未拟合时为 nil。
func (r *Recommender) fitted() *matrix.Matrix {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

func (r *Recommender) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.NumCPU()
}

// Recommend 为每个请求用户生成至多 K 条推荐。
//
// 算法：
//  1. 计算全局剔除列：拟合矩阵中不属于候选集的物品（与 FilterSeen 无关）
//  2. 用户按分区并行、互相独立地打分（矩阵与模型只读共享）
//  3. FilterSeen 时剔除该用户行中非零的物品
//  4. 合并各分区结果为扁平关系；任一分区失败则整个调用失败，不返回部分结果
func (r *Recommender) Recommend(ctx context.Context, req Request) ([]core.Recommendation, error) {
	if req.K <= 0 {
		return nil, core.ErrInvalidK
	}
	fitM := r.fitted()
	if fitM == nil {
		return nil, core.ErrNotFitted
	}

	// 预测上下文：缺省复用拟合矩阵，否则对请求日志重建
	ctxM := fitM
	if req.Log != nil {
		var err error
		ctxM, err = r.Builder.Build(req.Log)
		if err != nil {
			return nil, err
		}
	}

	// 候选集缺省为上下文日志中的全部物品
	items := req.Items
	if items == nil {
		items = candidate.FromIDs(ctxM.Items.IDs()...)
	}

	// 全局剔除列：模型认识、但候选集不认的物品。
	// 模型只会产出拟合矩阵中的列，所以在列空间里一次算全
	drop := make([]int, 0)
	for col := 0; col < fitM.Cols(); col++ {
		id, _ := fitM.Items.ID(col)
		if !items.Has(id) {
			drop = append(drop, col)
		}
	}

	partitions := partitionUsers(req.Users, r.workers())
	batches := make([][]core.Recommendation, len(partitions))
	exhausted := make([][]int64, len(partitions))

	eg, gctx := errgroup.WithContext(ctx)
	for pi, part := range partitions {
		eg.Go(func() error {
			batch := make([]core.Recommendation, 0, len(part)*req.K)
			for _, userID := range part {
				if err := gctx.Err(); err != nil {
					return err
				}

				row, known := fitM.Users.Offset(userID)
				if !known {
					if r.Strict {
						return core.NewUnknownUserError(userID)
					}
					row = -1 // 零行：冷启动用户
				}

				var seen []int
				if req.FilterSeen {
					seen = seenColumns(ctxM, fitM, userID)
				}

				scores, err := r.Model.Recommend(row, req.K, seen, drop)
				if err != nil {
					return err
				}
				if len(scores) == 0 {
					exhausted[pi] = append(exhausted[pi], userID)
					continue
				}
				for _, s := range scores {
					itemID, ok := fitM.Items.ID(s.Item)
					if !ok {
						continue
					}
					batch = append(batch, core.Recommendation{
						UserID:    userID,
						ItemID:    itemID,
						Relevance: s.Value,
					})
				}
			}
			batches[pi] = batch
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if r.OnExhausted != nil {
		for _, part := range exhausted {
			for _, userID := range part {
				r.OnExhausted(userID)
			}
		}
	}

	out := Assemble(batches)
	log.Logger().Debug("recommendations generated",
		zap.Int("users", len(req.Users)),
		zap.Int("partitions", len(partitions)),
		zap.Int("rows", len(out)),
	)
	return out, nil
}

// seenColumns 返回某用户的已见物品在拟合矩阵中的列下标。
// 上下文矩阵与拟合矩阵不同（传了新日志）时需要经过 ID 空间翻译；
// 拟合时不存在的物品跳过——模型本来就不会推它们。
func seenColumns(ctxM, fitM *matrix.Matrix, userID int64) []int {
	if ctxM == fitM {
		return fitM.SeenColumns(userID)
	}
	row, ok := ctxM.Users.Offset(userID)
	if !ok {
		return nil
	}
	cols, _ := ctxM.Row(row)
	out := make([]int, 0, len(cols))
	for _, c := range cols {
		id, _ := ctxM.Items.ID(c)
		if fitCol, ok := fitM.Items.Offset(id); ok {
			out = append(out, fitCol)
		}
	}
	return out
}
