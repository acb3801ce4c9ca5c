// Package cfkit 是一个协同过滤工具包（Collaborative Filtering Kit）。
//
// 设计要点：
// - Matrix-first: 交互日志先聚合成稀疏 用户×物品 矩阵，模型只认矩阵
// - 模型可插拔: FactorModel 接口即可接入（本地 ALS 或 RPC 服务均可）
// - 编排与模型分离: TopK、候选集、已见过滤、并行分区都在编排层
package cfkit

import (
	"github.com/rushteam/cfkit/core"
	"github.com/rushteam/cfkit/model"
	"github.com/rushteam/cfkit/recommend"
)

// 轻量 facade：便于用户直接 import "cfkit" 使用核心抽象。
type Interaction = core.Interaction
type Log = core.Log
type Recommendation = core.Recommendation
type Pair = core.Pair

type FactorModel = model.FactorModel
type ImplicitALS = model.ImplicitALS

type Recommender = recommend.Recommender
type Request = recommend.Request
