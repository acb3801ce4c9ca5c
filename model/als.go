package model

import (
	"context"
	"encoding/gob"
	"io"
	"math/rand"
	"sort"

	"github.com/rushteam/cfkit/core"
	"github.com/rushteam/cfkit/matrix"
)

// ImplicitALS 是隐式反馈场景下的交替最小二乘（ALS）因子模型。
//
// 核心思想：将交互矩阵 R 分解为用户隐向量 X 和物品隐向量 Y，
// 置信度 c = 1 + Alpha * r，偏好 p = 1（有交互即为正样本）。
// 每轮交替固定一侧，对另一侧逐行解正规方程：
//
//	x_u = (YᵀY + Yᵀ(Cᵤ-I)Y + λI)⁻¹ Yᵀ Cᵤ p_u
//
// 工程特征：
//   - 拟合：离线、一次性；给定 Seed 时结果可复现
//   - 预测：向量点积，拟合后只读、可并发
//
// 参考：Hu, Koren, Volinsky. "Collaborative Filtering for
// Implicit Feedback Datasets." ICDM 2008.
type ImplicitALS struct {
	// Factors 隐向量维度，<=0 时默认 10
	Factors int

	// Iterations 交替轮数，<=0 时默认 15
	Iterations int

	// Reg 正则化系数 λ，<=0 时默认 0.01
	Reg float64

	// Alpha 置信度系数，<=0 时默认 40
	Alpha float64

	// Seed 随机初始化种子（固定种子 => 确定性拟合）
	Seed int64

	userF [][]float64
	itemF [][]float64
}

func (m *ImplicitALS) Name() string { return "als" }

func (m *ImplicitALS) factors() int {
	if m.Factors <= 0 {
		return 10
	}
	return m.Factors
}

func (m *ImplicitALS) iterations() int {
	if m.Iterations <= 0 {
		return 15
	}
	return m.Iterations
}

func (m *ImplicitALS) reg() float64 {
	if m.Reg <= 0 {
		return 0.01
	}
	return m.Reg
}

func (m *ImplicitALS) alpha() float64 {
	if m.Alpha <= 0 {
		return 40
	}
	return m.Alpha
}

// Fit 在稀疏交互矩阵上拟合隐向量。实现 FactorModel 接口。
func (m *ImplicitALS) Fit(ctx context.Context, mat *matrix.Matrix) error {
	f := m.factors()
	nUsers, nItems := mat.Rows(), mat.Cols()
	alpha := m.alpha()

	// 用户侧与物品侧的 (对端下标, 置信度增量 c-1) 邻接表
	userAdj := make([][]entry, nUsers)
	itemAdj := make([][]entry, nItems)
	for u := 0; u < nUsers; u++ {
		cols, vals := mat.Row(u)
		userAdj[u] = make([]entry, len(cols))
		for n, c := range cols {
			conf := alpha * vals[n]
			userAdj[u][n] = entry{other: c, conf: conf}
			itemAdj[c] = append(itemAdj[c], entry{other: u, conf: conf})
		}
	}

	rng := rand.New(rand.NewSource(m.Seed))
	userF := randomFactors(rng, nUsers, f)
	itemF := randomFactors(rng, nItems, f)

	for it := 0; it < m.iterations(); it++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		leastSquares(userF, itemF, userAdj, m.reg())
		leastSquares(itemF, userF, itemAdj, m.reg())
	}

	m.userF = userF
	m.itemF = itemF
	return nil
}

// entry 是邻接表元素：对端下标 + 置信度增量 (c - 1)。
type entry struct {
	other int
	conf  float64
}

func randomFactors(rng *rand.Rand, n, f int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		v := make([]float64, f)
		for j := range v {
			v[j] = rng.Float64() * 0.01
		}
		out[i] = v
	}
	return out
}

// leastSquares 固定 other 一侧，对 target 的每一行解正规方程。
func leastSquares(target, other [][]float64, adj [][]entry, reg float64) {
	f := 0
	if len(other) > 0 {
		f = len(other[0])
	} else if len(target) > 0 {
		f = len(target[0])
	}
	if f == 0 {
		return
	}

	// YtY + λI 只依赖 other 一侧，整轮复用
	base := gram(other, f)
	for i := 0; i < f; i++ {
		base[i][i] += reg
	}

	a := make([][]float64, f)
	for i := range a {
		a[i] = make([]float64, f)
	}
	b := make([]float64, f)

	for t := range target {
		for i := 0; i < f; i++ {
			copy(a[i], base[i])
			b[i] = 0
		}
		// A += Σ (c-1) y yᵀ;  b += Σ c y   （p=1）
		for _, e := range adj[t] {
			y := other[e.other]
			for i := 0; i < f; i++ {
				yi := y[i]
				b[i] += (1 + e.conf) * yi
				row := a[i]
				for j := 0; j < f; j++ {
					row[j] += e.conf * yi * y[j]
				}
			}
		}
		solveInPlace(a, b, target[t])
	}
}

// gram 计算 FᵀF（f×f）。
func gram(factors [][]float64, f int) [][]float64 {
	out := make([][]float64, f)
	for i := range out {
		out[i] = make([]float64, f)
	}
	for _, v := range factors {
		for i := 0; i < f; i++ {
			vi := v[i]
			if vi == 0 {
				continue
			}
			row := out[i]
			for j := 0; j < f; j++ {
				row[j] += vi * v[j]
			}
		}
	}
	return out
}

// solveInPlace 解 Ax = b（列主元高斯消元），结果写入 x。
// A 和 b 会被改写。矩阵带 λI 正则，数值上总是可解的。
func solveInPlace(a [][]float64, b []float64, x []float64) {
	n := len(b)
	for col := 0; col < n; col++ {
		// 选主元
		pivot := col
		for r := col + 1; r < n; r++ {
			if abs(a[r][col]) > abs(a[pivot][col]) {
				pivot = r
			}
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		p := a[col][col]
		if p == 0 {
			continue
		}
		for r := col + 1; r < n; r++ {
			factor := a[r][col] / p
			if factor == 0 {
				continue
			}
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}
	// 回代
	for i := n - 1; i >= 0; i-- {
		sum := b[i]
		for j := i + 1; j < n; j++ {
			sum -= a[i][j] * x[j]
		}
		if a[i][i] != 0 {
			x[i] = sum / a[i][i]
		} else {
			x[i] = 0
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Recommend 对单个用户行打分并返回 TopK。实现 FactorModel 接口。
func (m *ImplicitALS) Recommend(row, k int, seen []int, drop []int) ([]Score, error) {
	if m.itemF == nil {
		return nil, core.ErrNotFitted
	}

	excluded := make(map[int]struct{}, len(seen)+len(drop))
	for _, c := range seen {
		excluded[c] = struct{}{}
	}
	for _, c := range drop {
		excluded[c] = struct{}{}
	}

	userVec := m.userVector(row)
	scored := make([]Score, 0, len(m.itemF))
	for c := range m.itemF {
		if _, ok := excluded[c]; ok {
			continue
		}
		scored = append(scored, Score{Item: c, Value: dot(userVec, m.itemF[c])})
	}

	sortScores(scored)
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// ScoreItems 对给定候选列逐一打分。实现 FactorModel 接口。
func (m *ImplicitALS) ScoreItems(row int, items []int) ([]Score, error) {
	if m.itemF == nil {
		return nil, core.ErrNotFitted
	}

	userVec := m.userVector(row)
	out := make([]Score, len(items))
	for n, c := range items {
		var v float64
		if c >= 0 && c < len(m.itemF) {
			v = dot(userVec, m.itemF[c])
		}
		out[n] = Score{Item: c, Value: v}
	}
	return out, nil
}

// userVector 返回行隐向量；未知行得零向量（冷启动用户）。
func (m *ImplicitALS) userVector(row int) []float64 {
	if row >= 0 && row < len(m.userF) {
		return m.userF[row]
	}
	return make([]float64, m.factors())
}

func dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// sortScores 按分数降序排序，同分按列下标升序（确定性平局规则）。
func sortScores(s []Score) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Value != s[j].Value {
			return s[i].Value > s[j].Value
		}
		return s[i].Item < s[j].Item
	})
}

// alsSnapshot 是序列化用的拟合状态快照。
type alsSnapshot struct {
	Factors    int
	Iterations int
	Reg        float64
	Alpha      float64
	Seed       int64
	UserF      [][]float64
	ItemF      [][]float64
}

// Marshal 将拟合状态序列化为 gob。实现 FactorModel 接口。
func (m *ImplicitALS) Marshal(w io.Writer) error {
	if m.itemF == nil {
		return core.ErrNotFitted
	}
	return gob.NewEncoder(w).Encode(&alsSnapshot{
		Factors:    m.Factors,
		Iterations: m.Iterations,
		Reg:        m.Reg,
		Alpha:      m.Alpha,
		Seed:       m.Seed,
		UserF:      m.userF,
		ItemF:      m.itemF,
	})
}

// Unmarshal 从 gob 恢复拟合状态。实现 FactorModel 接口。
func (m *ImplicitALS) Unmarshal(r io.Reader) error {
	var snap alsSnapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return err
	}
	m.Factors = snap.Factors
	m.Iterations = snap.Iterations
	m.Reg = snap.Reg
	m.Alpha = snap.Alpha
	m.Seed = snap.Seed
	m.userF = snap.UserF
	m.itemF = snap.ItemF
	return nil
}

var _ FactorModel = (*ImplicitALS)(nil)
