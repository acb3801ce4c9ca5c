package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rushteam/cfkit/core"
	"github.com/rushteam/cfkit/matrix"
)

// RPCModel 是通过 RPC/HTTP 调用外部因子模型服务的 FactorModel 实现。
// 适用于模型由独立服务托管的场景（Python implicit、自研打分服务等）：
// 拟合与预测都发生在远端，本进程只做数据编组。
type RPCModel struct {
	name     string
	Endpoint string // 例如 "http://localhost:8080/model"
	Timeout  time.Duration
	Client   *http.Client
}

func NewRPCModel(name, endpoint string, timeout time.Duration) *RPCModel {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &RPCModel{
		name:     name,
		Endpoint: endpoint,
		Timeout:  timeout,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (m *RPCModel) Name() string {
	return m.name
}

// rpcRequest 是统一的请求格式（JSON）。
// op 取值：fit / recommend / score_items。
type rpcRequest struct {
	Op string `json:"op"`

	// fit：三元组形式的稀疏矩阵
	Rows   int       `json:"rows,omitempty"`
	Cols   int       `json:"cols,omitempty"`
	RowIdx []int     `json:"row_idx,omitempty"`
	ColIdx []int     `json:"col_idx,omitempty"`
	Values []float64 `json:"values,omitempty"`

	// recommend / score_items
	Row   int   `json:"row"`
	K     int   `json:"k,omitempty"`
	Seen  []int `json:"seen,omitempty"`
	Drop  []int `json:"drop,omitempty"`
	Items []int `json:"items,omitempty"`
}

// rpcResponse 是统一的响应格式（JSON）。
// recommend 返回 items+scores；score_items 按请求顺序返回 scores。
type rpcResponse struct {
	Items  []int     `json:"items"`
	Scores []float64 `json:"scores"`
}

// Fit 将稀疏矩阵以三元组形式推送到远端服务。实现 FactorModel 接口。
func (m *RPCModel) Fit(ctx context.Context, mat *matrix.Matrix) error {
	req := &rpcRequest{
		Op:   "fit",
		Rows: mat.Rows(),
		Cols: mat.Cols(),
	}
	for u := 0; u < mat.Rows(); u++ {
		cols, vals := mat.Row(u)
		for n, c := range cols {
			req.RowIdx = append(req.RowIdx, u)
			req.ColIdx = append(req.ColIdx, c)
			req.Values = append(req.Values, vals[n])
		}
	}
	_, err := m.call(ctx, req)
	return err
}

// Recommend 调用远端服务取 TopK。实现 FactorModel 接口。
func (m *RPCModel) Recommend(row, k int, seen []int, drop []int) ([]Score, error) {
	resp, err := m.call(context.Background(), &rpcRequest{
		Op:   "recommend",
		Row:  row,
		K:    k,
		Seen: seen,
		Drop: drop,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Items) != len(resp.Scores) {
		return nil, fmt.Errorf("response items/scores count mismatch: %d vs %d", len(resp.Items), len(resp.Scores))
	}
	out := make([]Score, len(resp.Items))
	for i := range resp.Items {
		out[i] = Score{Item: resp.Items[i], Value: resp.Scores[i]}
	}
	return out, nil
}

// ScoreItems 调用远端服务对候选列逐一打分。实现 FactorModel 接口。
func (m *RPCModel) ScoreItems(row int, items []int) ([]Score, error) {
	resp, err := m.call(context.Background(), &rpcRequest{
		Op:    "score_items",
		Row:   row,
		Items: items,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Scores) != len(items) {
		return nil, fmt.Errorf("response scores count mismatch: expected %d, got %d", len(items), len(resp.Scores))
	}
	out := make([]Score, len(items))
	for i, c := range items {
		out[i] = Score{Item: c, Value: resp.Scores[i]}
	}
	return out, nil
}

// Marshal 不支持：远端服务持有模型状态。
func (m *RPCModel) Marshal(io.Writer) error {
	return core.NewDomainError(core.ModuleModel, core.ErrorCodeNotSupported,
		"model: rpc model state lives on the remote service")
}

// Unmarshal 不支持：远端服务持有模型状态。
func (m *RPCModel) Unmarshal(io.Reader) error {
	return core.NewDomainError(core.ModuleModel, core.ErrorCodeNotSupported,
		"model: rpc model state lives on the remote service")
}

func (m *RPCModel) call(ctx context.Context, body *rpcRequest) (*rpcResponse, error) {
	if m.Client == nil {
		m.Client = &http.Client{Timeout: m.Timeout}
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("rpc error: status=%d, read body failed: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("rpc error: status=%d, body=%s", resp.StatusCode, string(respBody))
	}

	var result rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

var _ FactorModel = (*RPCModel)(nil)
