package candidate

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rushteam/cfkit/core"
)

// MetadataProvider 提供物品元数据（资格规则的输入）。
// 实现可以是本地 Store（StoreMetadata）、Feast 特征存储（feast.Metadata）
// 或任何自定义来源。
type MetadataProvider interface {
	// ItemMetadata 批量获取物品属性：itemID -> 属性名 -> 值
	ItemMetadata(ctx context.Context, itemIDs []int64) (map[int64]map[string]any, error)
}

// StoreMetadata 是基于 KeyValueStore Hash 的元数据实现。
// 每个物品一个 Hash，key 为 KeyPrefix + itemID，field 为属性名，
// value 为 JSON 编码的属性值（裸字符串按原样保留）。
type StoreMetadata struct {
	Store core.KeyValueStore

	// KeyPrefix 例如 "item:meta:"
	KeyPrefix string
}

func (p *StoreMetadata) ItemMetadata(ctx context.Context, itemIDs []int64) (map[int64]map[string]any, error) {
	out := make(map[int64]map[string]any, len(itemIDs))
	for _, id := range itemIDs {
		fields, err := p.Store.HGetAll(ctx, p.KeyPrefix+strconv.FormatInt(id, 10))
		if err != nil {
			if core.IsStoreNotFound(err) {
				continue
			}
			return nil, err
		}
		if len(fields) == 0 {
			continue
		}
		attrs := make(map[string]any, len(fields))
		for field, raw := range fields {
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				// 非 JSON 的历史数据按字符串处理
				v = string(raw)
			}
			attrs[field] = v
		}
		out[id] = attrs
	}
	return out, nil
}

var _ MetadataProvider = (*StoreMetadata)(nil)
