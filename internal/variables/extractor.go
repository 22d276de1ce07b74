package variables

import (
	"fmt"
	"strings"
	"sync"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/value"
)

// Rule строит extracted data из сырого результата шага.
type Rule func(raw value.Value) (value.Map, error)

// Extraction это результат извлечения.
//
// Data никогда не nil. Если правило упало, Data пустая, а Err описывает причину.
type Extraction struct {
	Data value.Map
	Err  error
}

// Degraded возвращает true, если извлечение не удалось и Data пустая.
func (e Extraction) Degraded() bool {
	return e.Err != nil
}

// Extractor выбирает правило по типу шага (без учёта регистра).
// Для неизвестных типов используется FallbackRule.
type Extractor struct {
	mu       sync.RWMutex
	rules    map[string]Rule
	fallback Rule
}

// NewExtractor создаёт extractor со встроенными правилами.
func NewExtractor() *Extractor {
	e := &Extractor{
		rules:    make(map[string]Rule),
		fallback: FallbackRule,
	}
	registerBuiltinRules(e)
	return e
}

// Register регистрирует правило для типа шага, заменяя существующее.
func (e *Extractor) Register(stepType string, rule Rule) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rules[normalizeType(stepType)] = rule
}

// Has проверяет, есть ли отдельное правило для типа.
func (e *Extractor) Has(stepType string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, ok := e.rules[normalizeType(stepType)]
	return ok
}

// Types возвращает типы с отдельными правилами.
func (e *Extractor) Types() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	types := make([]string, 0, len(e.rules))
	for t := range e.rules {
		types = append(types, t)
	}
	return types
}

// Extract применяет правило типа к сырому результату.
// Паника или ошибка правила дают пустую Data и заполненный Err.
func (e *Extractor) Extract(nodeID, nodeType string, raw value.Value) (result Extraction) {
	e.mu.RLock()
	rule, ok := e.rules[normalizeType(nodeType)]
	if !ok {
		rule = e.fallback
	}
	e.mu.RUnlock()

	defer func() {
		if r := recover(); r != nil {
			result = Extraction{
				Data: value.Map{},
				Err:  fmt.Errorf("%w: node %s (%s): panic: %v", ErrExtractionFailed, nodeID, nodeType, r),
			}
		}
	}()

	data, err := rule(raw)
	if err != nil {
		return Extraction{
			Data: value.Map{},
			Err:  fmt.Errorf("%w: node %s (%s): %w", ErrExtractionFailed, nodeID, nodeType, err),
		}
	}
	if data == nil {
		data = value.Map{}
	}
	return Extraction{Data: data}
}

// FallbackRule копирует поля верхнего уровня map-результата.
// Результат не-map даёт пустую запись.
func FallbackRule(raw value.Value) (value.Map, error) {
	m, ok := value.AsMap(raw)
	if !ok {
		return value.Map{}, nil
	}

	out := make(value.Map, len(m))
	for k, v := range m {
		if v == nil {
			v = value.Null{}
		}
		out[k] = v
	}
	return out, nil
}

func normalizeType(stepType string) string {
	return strings.ToLower(strings.TrimSpace(stepType))
}
