package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rushteam/cfkit/core"
)

// LogStore 把交互日志持久化为 KeyValueStore 里的有序集合时间线：
// score 是单调递增的序号，member 是 JSON 编码的交互记录。
// 记录里带上序号是为了让完全相同的两次交互（同用户、同物品、同分值）
// 不被有序集合的成员去重吞掉。
type LogStore struct {
	Store core.KeyValueStore

	// Key 时间线所在的 zset key，空时用默认值
	Key string

	seq atomic.Int64
}

const defaultLogKey = "cf:interactions"

// NewLogStore 创建一个日志存储；序号从当前纳秒时间开始，
// 避免进程重启后与已有记录撞号。
func NewLogStore(s core.KeyValueStore, key string) *LogStore {
	ls := &LogStore{Store: s, Key: key}
	ls.seq.Store(time.Now().UnixNano())
	return ls
}

func (s *LogStore) key() string {
	if s.Key != "" {
		return s.Key
	}
	return defaultLogKey
}

type logRecord struct {
	UserID    int64   `json:"user_id"`
	ItemID    int64   `json:"item_id"`
	Relevance float64 `json:"relevance"`
	Timestamp int64   `json:"ts,omitempty"` // Unix 纳秒
	Seq       int64   `json:"seq"`
}

// Append 追加交互记录，保持调用顺序。
func (s *LogStore) Append(ctx context.Context, interactions ...core.Interaction) error {
	for _, it := range interactions {
		rec := logRecord{
			UserID:    it.UserID,
			ItemID:    it.ItemID,
			Relevance: it.Relevance,
			Seq:       s.seq.Add(1),
		}
		if !it.Timestamp.IsZero() {
			rec.Timestamp = it.Timestamp.UnixNano()
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode interaction: %w", err)
		}
		if err := s.Store.ZAdd(ctx, s.key(), float64(rec.Seq), string(raw)); err != nil {
			return fmt.Errorf("append interaction: %w", err)
		}
	}
	return nil
}

// Read 按追加顺序回放整条时间线。时间线不存在时返回空日志。
func (s *LogStore) Read(ctx context.Context) (core.Log, error) {
	members, err := s.Store.ZRange(ctx, s.key(), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("read timeline: %w", err)
	}
	out := make(core.Log, 0, len(members))
	for _, m := range members {
		var rec logRecord
		if err := json.Unmarshal([]byte(m), &rec); err != nil {
			return nil, fmt.Errorf("decode interaction: %w", err)
		}
		it := core.Interaction{
			UserID:    rec.UserID,
			ItemID:    rec.ItemID,
			Relevance: rec.Relevance,
		}
		if rec.Timestamp != 0 {
			it.Timestamp = time.Unix(0, rec.Timestamp)
		}
		out = append(out, it)
	}
	return out, nil
}

// Clear 删除整条时间线。
func (s *LogStore) Clear(ctx context.Context) error {
	return s.Store.Delete(ctx, s.key())
}
