package config

import (
	"fmt"
	"time"

	"github.com/rushteam/cfkit/model"
	"github.com/rushteam/cfkit/pkg/conv"
)

// ModelBuilder 根据 config 构建一个 FactorModel。
type ModelBuilder func(config map[string]interface{}) (model.FactorModel, error)

// ModelFactory 用于根据配置构建模型实例。
type ModelFactory struct {
	builders map[string]ModelBuilder
}

func NewModelFactory() *ModelFactory {
	return &ModelFactory{
		builders: make(map[string]ModelBuilder),
	}
}

// Register 注册模型构建器。
func (f *ModelFactory) Register(modelType string, builder ModelBuilder) {
	f.builders[modelType] = builder
}

// Build 根据类型和配置构建模型。
func (f *ModelFactory) Build(modelType string, config map[string]interface{}) (model.FactorModel, error) {
	builder, ok := f.builders[modelType]
	if !ok {
		return nil, fmt.Errorf("unknown model type %q (supported: %v)", modelType, SupportedTypes())
	}
	return builder(config)
}

func init() {
	Register("als", buildALSModel)
	Register("rpc", buildRPCModel)
}

func buildALSModel(config map[string]interface{}) (model.FactorModel, error) {
	// 未配置的字段保持零值，由模型在 Fit 时套用默认值
	return &model.ImplicitALS{
		Factors:    int(conv.ConfigGetInt64(config, "factors", 0)),
		Iterations: int(conv.ConfigGetInt64(config, "iterations", 0)),
		Reg:        conv.ConfigGetFloat64(config, "reg", 0),
		Alpha:      conv.ConfigGetFloat64(config, "alpha", 0),
		Seed:       conv.ConfigGetInt64(config, "seed", 0),
	}, nil
}

func buildRPCModel(config map[string]interface{}) (model.FactorModel, error) {
	endpoint := conv.ConfigGet[string](config, "endpoint", "")
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint not found")
	}
	timeout := 5 * time.Second
	if sec := conv.ConfigGetInt64(config, "timeout", 5); sec > 0 {
		timeout = time.Duration(sec) * time.Second
	}
	name := conv.ConfigGet[string](config, "name", "rpc")
	return model.NewRPCModel(name, endpoint, timeout), nil
}
