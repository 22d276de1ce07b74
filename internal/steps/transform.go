package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/value"
)

const (
	// StepTypeTransform это тип шага трансформации.
	StepTypeTransform = "transform"

	// Ключи конфигурации.
	configOutput    = "output"
	configParseJSON = "parse_json"
)

// TransformStep собирает новый результат из переменных предыдущих шагов.
//
// Переменные подставляются до вызова шага, поэтому шаг просто возвращает
// дерево output. С parse_json строки, похожие на JSON, декодируются обратно:
// так "{{A.extractedData.userIds}}" снова становится списком.
//
// Конфигурация:
//
//	{
//	    "output": {
//	        "firstUser": "{{db.extractedData.userIds[0]}}",
//	        "users": "{{db.extractedData.userIds}}"
//	    },
//	    "parse_json": true
//	}
type TransformStep struct{}

// NewTransformStep создаёт новый TransformStep.
func NewTransformStep() *TransformStep {
	return &TransformStep{}
}

// Type возвращает тип шага.
func (s *TransformStep) Type() string {
	return StepTypeTransform
}

// Execute возвращает дерево output.
func (s *TransformStep) Execute(ctx context.Context, req *Request) (*Response, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrStepCancelled, ctx.Err())
	default:
	}

	output, ok := req.Config[configOutput]
	if !ok {
		return nil, fmt.Errorf("%w: %s: output is required", ErrInvalidConfig, StepTypeTransform)
	}

	output = value.Clone(output)
	if GetConfigBool(req.Config, configParseJSON, false) {
		output = parseJSONLeaves(output)
	}

	return NewResponse(output), nil
}

// parseJSONLeaves пытается распарсить строковые листья как JSON.
// Если не получается, строка остаётся как есть.
func parseJSONLeaves(v value.Value) value.Value {
	switch t := v.(type) {
	case value.String:
		return parseValue(string(t))
	case value.List:
		for i, item := range t {
			t[i] = parseJSONLeaves(item)
		}
		return t
	case value.Map:
		for k, item := range t {
			t[k] = parseJSONLeaves(item)
		}
		return t
	default:
		return v
	}
}

func parseValue(s string) value.Value {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return value.String(s)
	}

	switch {
	case trimmed == "true" || trimmed == "false" || trimmed == "null",
		trimmed[0] == '{', trimmed[0] == '[',
		trimmed[0] == '-', trimmed[0] >= '0' && trimmed[0] <= '9':
		if decoded, err := value.Decode([]byte(trimmed)); err == nil {
			return decoded
		}
	}

	return value.String(s)
}
