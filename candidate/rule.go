package candidate

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// Rule 是物品资格规则：判断一个物品是否可以进入候选集。
// 返回 true 表示物品合格。
type Rule interface {
	// Name 返回规则名称
	Name() string

	// Eligible 判断物品是否合格；attrs 是该物品的元数据（可能为 nil）
	Eligible(ctx context.Context, itemID int64, attrs map[string]any) (bool, error)
}

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// CELRule 是基于 CEL (Common Expression Language) 的资格规则。
// CEL 是 Google 开发的表达式语言，具有类型安全、高性能、线程安全等特性。
//
// 表达式语法（CEL 标准语法），输入变量为 item：
//   - item.id > 1000
//   - item.meta.status == "active"
//   - item.meta.category != "adult" && item.meta.stock > 0.0
//   - has(item.meta.status) && item.meta.status == "active"  (属性可能缺失时)
//
// 表达式在首次使用时编译并缓存，之后可以并发 Eligible。
type CELRule struct {
	// Expr CEL 表达式；为空时所有物品都合格
	Expr string

	once sync.Once
	prg  cel.Program
	err  error
}

// NewCELRule 创建一个 CEL 资格规则。
func NewCELRule(expr string) *CELRule {
	return &CELRule{Expr: expr}
}

func (r *CELRule) Name() string {
	return "candidate.cel"
}

func (r *CELRule) compile() {
	env, err := getCELEnv()
	if err != nil {
		r.err = fmt.Errorf("cel env: %w", err)
		return
	}
	ast, issues := env.Compile(r.Expr)
	if issues != nil && issues.Err() != nil {
		r.err = fmt.Errorf("compile error: %v", issues.Err())
		return
	}
	prg, err := env.Program(ast)
	if err != nil {
		r.err = fmt.Errorf("program error: %v", err)
		return
	}
	r.prg = prg
}

// Eligible 执行表达式判断物品资格。实现 Rule 接口。
func (r *CELRule) Eligible(_ context.Context, itemID int64, attrs map[string]any) (bool, error) {
	if r.Expr == "" {
		return true, nil
	}

	r.once.Do(r.compile)
	if r.err != nil {
		return false, r.err
	}

	if attrs == nil {
		attrs = map[string]any{}
	}
	input := map[string]any{
		"item": map[string]any{
			"id":   itemID,
			"meta": attrs,
		},
	}

	out, _, err := r.prg.Eval(input)
	if err != nil {
		// 访问不存在的属性时 CEL 会报错；属性可能缺失的表达式
		// 应使用 has(item.meta.key) 先做存在性检查
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

var _ Rule = (*CELRule)(nil)

// BuildSet 对一批物品跑资格规则，返回合格物品构成的候选集。
// provider 为 nil 时所有物品的 attrs 为 nil（规则只能依赖 item.id）。
func BuildSet(ctx context.Context, itemIDs []int64, provider MetadataProvider, rule Rule) (Set, error) {
	var meta map[int64]map[string]any
	if provider != nil {
		var err error
		meta, err = provider.ItemMetadata(ctx, itemIDs)
		if err != nil {
			return nil, fmt.Errorf("load item metadata: %w", err)
		}
	}

	out := make(Set, len(itemIDs))
	for _, id := range itemIDs {
		ok, err := rule.Eligible(ctx, id, meta[id])
		if err != nil {
			return nil, fmt.Errorf("rule %s on item %d: %w", rule.Name(), id, err)
		}
		if ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}
