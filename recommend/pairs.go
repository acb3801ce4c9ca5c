package recommend

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/cfkit/core"
	"github.com/rushteam/cfkit/pkg/log"
)

// ScorePairs 对指定的 (用户, 物品) 对逐一打分，每个输入对正好产出一行，
// 顺序与输入一致。不做 TopK 截断，也不做已见过滤。
//
// 实现上先对 去重用户 × 去重物品 的稠密网格打分（同一用户的所有物品
// 一次 ScoreItems 调出），再按输入对精确取值。拟合矩阵中不存在的用户
// 或物品得分为 0。
//
// plog 是可选的预测上下文日志，为 nil 时复用上一次 Fit 的矩阵；
// 内置的隐因子模型打分只依赖拟合好的因子，会忽略它。
func (r *Recommender) ScorePairs(ctx context.Context, pairs []core.Pair, plog core.Log) ([]core.Recommendation, error) {
	fitM := r.fitted()
	if fitM == nil {
		return nil, core.ErrNotFitted
	}
	if len(pairs) == 0 {
		return []core.Recommendation{}, nil
	}

	// 去重，保持首次出现顺序
	users := make([]int64, 0)
	userSeen := make(map[int64]struct{})
	items := make([]int64, 0)
	itemSeen := make(map[int64]struct{})
	for _, p := range pairs {
		if _, ok := userSeen[p.UserID]; !ok {
			userSeen[p.UserID] = struct{}{}
			users = append(users, p.UserID)
		}
		if _, ok := itemSeen[p.ItemID]; !ok {
			itemSeen[p.ItemID] = struct{}{}
			items = append(items, p.ItemID)
		}
	}

	// 物品 ID -> 拟合列；拟合时不存在的物品列为 -1（得分 0）
	cols := make([]int, len(items))
	for i, id := range items {
		col, ok := fitM.Items.Offset(id)
		if !ok {
			col = -1
		}
		cols[i] = col
	}

	// 每个用户一行网格得分，分区并行
	grid := make(map[int64]map[int64]float64, len(users))
	var gridMu sync.Mutex

	partitions := partitionUsers(users, r.workers())
	eg, gctx := errgroup.WithContext(ctx)
	for _, part := range partitions {
		eg.Go(func() error {
			local := make(map[int64]map[int64]float64, len(part))
			for _, userID := range part {
				if err := gctx.Err(); err != nil {
					return err
				}
				row, ok := fitM.Users.Offset(userID)
				if !ok {
					if r.Strict {
						return core.NewUnknownUserError(userID)
					}
					row = -1
				}
				scores, err := r.Model.ScoreItems(row, cols)
				if err != nil {
					return err
				}
				rowScores := make(map[int64]float64, len(items))
				for i, id := range items {
					rowScores[id] = scores[i].Value
				}
				local[userID] = rowScores
			}
			gridMu.Lock()
			for u, s := range local {
				grid[u] = s
			}
			gridMu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make([]core.Recommendation, len(pairs))
	for i, p := range pairs {
		out[i] = core.Recommendation{
			UserID:    p.UserID,
			ItemID:    p.ItemID,
			Relevance: grid[p.UserID][p.ItemID],
		}
	}

	log.Logger().Debug("pairs scored",
		zap.Int("pairs", len(pairs)),
		zap.Int("users", len(users)),
		zap.Int("items", len(items)),
	)
	return out, nil
}
