// Package store 提供 core.Store / core.KeyValueStore 的具体实现，
// 以及建立在其上的交互日志时间线（LogStore）与模型持久化（SaveModel/LoadModel）。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
// 示例：
//
//	var s core.KeyValueStore = store.NewMemoryStore()
//	logs := &store.LogStore{Store: s}
package store
