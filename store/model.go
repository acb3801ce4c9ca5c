package store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rushteam/cfkit/core"
	"github.com/rushteam/cfkit/model"
)

// SaveModel 把拟合后的模型序列化并写入存储（不透明字节串）。
func SaveModel(ctx context.Context, s core.Store, key string, m model.FactorModel) error {
	var buf bytes.Buffer
	if err := m.Marshal(&buf); err != nil {
		return fmt.Errorf("marshal model %s: %w", m.Name(), err)
	}
	if err := s.Set(ctx, key, buf.Bytes()); err != nil {
		return fmt.Errorf("save model %s: %w", m.Name(), err)
	}
	return nil
}

// LoadModel 从存储读出序列化状态并恢复到 m。
// 保存与加载的模型类型必须一致——字节串对调用方不透明。
func LoadModel(ctx context.Context, s core.Store, key string, m model.FactorModel) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load model %s: %w", m.Name(), err)
	}
	if err := m.Unmarshal(bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("unmarshal model %s: %w", m.Name(), err)
	}
	return nil
}
