package steps

import (
	"context"
	"errors"
	"time"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/value"
)

// Ошибки шагов.
var (
	// ErrStepNotFound: тип шага не найден в реестре.
	ErrStepNotFound = errors.New("unsupported step type")

	// ErrInvalidConfig: невалидная конфигурация шага.
	ErrInvalidConfig = errors.New("invalid step config")

	// ErrStepCancelled: выполнение шага отменено.
	ErrStepCancelled = errors.New("step execution cancelled")
)

// Step это интерфейс для типов шагов.
//
// Каждый тип шага (http, delay, transform, ...) реализует этот интерфейс.
type Step interface {
	// Type возвращает тип шага.
	Type() string

	// Execute выполняет шаг и возвращает результат.
	// Шаг должен проверять ctx.Done() для graceful shutdown.
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// Request это входные данные для выполнения шага.
type Request struct {
	// NodeID это идентификатор шага.
	NodeID string

	// Config это конфигурация шага с уже подставленными переменными.
	Config value.Map

	// Timeout это таймаут выполнения шага.
	// Если 0, используется таймаут по умолчанию.
	Timeout time.Duration
}

// Response это результат выполнения шага.
type Response struct {
	// Output это сырой результат шага. Из него строится extracted data.
	Output value.Value
}

// NewRequest создаёт новый Request.
func NewRequest(nodeID string, config value.Map, timeout time.Duration) *Request {
	if config == nil {
		config = value.Map{}
	}
	return &Request{
		NodeID:  nodeID,
		Config:  config,
		Timeout: timeout,
	}
}

// NewResponse создаёт новый Response с результатом.
func NewResponse(output value.Value) *Response {
	if output == nil {
		output = value.Map{}
	}
	return &Response{Output: output}
}

// GetConfigString извлекает строковое значение из конфига.
func GetConfigString(config value.Map, key string) string {
	if s, ok := value.AsString(config[key]); ok {
		return s
	}
	return ""
}

// GetConfigInt извлекает числовое значение из конфига.
// Строки с числом (результат подстановки переменной) тоже принимаются.
func GetConfigInt(config value.Map, key string) int {
	switch n := config[key].(type) {
	case value.Number:
		return int(n)
	case value.String:
		if f, err := value.Decode([]byte(n)); err == nil {
			if num, ok := value.AsNumber(f); ok {
				return int(num)
			}
		}
	}
	return 0
}

// GetConfigDuration извлекает длительность из конфига.
//
// Число трактуется в единицах unit. Строка может быть длительностью Go
// ("1m30s", "250ms") или числом в единицах unit. Отрицательное значение и
// мусор дают 0.
func GetConfigDuration(config value.Map, key string, unit time.Duration) time.Duration {
	var d time.Duration
	switch v := config[key].(type) {
	case value.Number:
		d = time.Duration(float64(v) * float64(unit))
	case value.String:
		if parsed, err := time.ParseDuration(string(v)); err == nil {
			d = parsed
		} else if n := GetConfigInt(config, key); n > 0 {
			d = time.Duration(n) * unit
		}
	}
	if d < 0 {
		return 0
	}
	return d
}

// GetConfigBool извлекает булево значение из конфига.
func GetConfigBool(config value.Map, key string, defaultVal bool) bool {
	switch b := config[key].(type) {
	case value.Bool:
		return bool(b)
	case value.String:
		switch b {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return defaultVal
}

// GetConfigMap извлекает map из конфига.
func GetConfigMap(config value.Map, key string) value.Map {
	if m, ok := value.AsMap(config[key]); ok {
		return m
	}
	return nil
}

// GetConfigMapString извлекает map[string]string из конфига.
// Нестроковые значения переводятся в текст.
func GetConfigMapString(config value.Map, key string) map[string]string {
	m := GetConfigMap(config, key)
	if m == nil {
		return nil
	}
	result := make(map[string]string, len(m))
	for k, v := range m {
		result[k] = value.Text(v)
	}
	return result
}
