package feast

import (
	"context"
	"fmt"
	"strings"

	"github.com/rushteam/cfkit/candidate"
)

// Metadata 把 Feast 在线特征当作物品元数据来源，
// 实现 candidate.MetadataProvider。
//
// 特征名中的视图前缀会被剥掉："item_stats:status" 在元数据里叫 "status"，
// 资格规则写 item.meta.status 即可。
type Metadata struct {
	Client Client

	// EntityKey 物品实体的 join key，例如 "item_id"
	EntityKey string

	// Features 要取的特征名，例如 ["item_stats:status", "item_stats:stock"]
	Features []string

	// Project 项目名称（可选，缺省用客户端配置）
	Project string
}

func (m *Metadata) ItemMetadata(ctx context.Context, itemIDs []int64) (map[int64]map[string]any, error) {
	if len(itemIDs) == 0 {
		return map[int64]map[string]any{}, nil
	}

	rows := make([]map[string]interface{}, len(itemIDs))
	for i, id := range itemIDs {
		rows[i] = map[string]interface{}{m.EntityKey: id}
	}

	resp, err := m.Client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   m.Features,
		EntityRows: rows,
		Project:    m.Project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast item metadata: %w", err)
	}
	if len(resp.FeatureVectors) != len(itemIDs) {
		return nil, fmt.Errorf("feast item metadata: %d rows for %d items", len(resp.FeatureVectors), len(itemIDs))
	}

	out := make(map[int64]map[string]any, len(itemIDs))
	for i, vec := range resp.FeatureVectors {
		if len(vec.Values) == 0 {
			continue
		}
		attrs := make(map[string]any, len(vec.Values))
		for name, v := range vec.Values {
			attrs[attrName(name)] = v
		}
		out[itemIDs[i]] = attrs
	}
	return out, nil
}

// attrName 剥掉特征视图前缀："item_stats:status" -> "status"。
func attrName(feature string) string {
	if i := strings.LastIndex(feature, ":"); i >= 0 {
		return feature[i+1:]
	}
	return feature
}

var _ candidate.MetadataProvider = (*Metadata)(nil)
