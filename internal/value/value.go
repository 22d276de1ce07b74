package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnsupportedType возвращается, если Go-значение нельзя представить как Value.
var ErrUnsupportedType = errors.New("unsupported value type")

// Kind описывает вариант Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

// String возвращает имя варианта.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value это JSON-подобное дерево: конфигурация шага или результат его выполнения.
//
// Набор вариантов закрыт (Null, Bool, Number, String, List, Map):
// метод sealed не экспортируется, поэтому новые реализации вне пакета невозможны.
type Value interface {
	Kind() Kind
	sealed()
}

// Null это отсутствующее значение.
type Null struct{}

// Bool это логическое значение.
type Bool bool

// Number это число. Целые и дробные числа не различаются, как в JSON.
type Number float64

// String это строка.
type String string

// List это последовательность значений.
type List []Value

// Map это отображение строковых ключей в значения.
type Map map[string]Value

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (List) Kind() Kind   { return KindList }
func (Map) Kind() Kind    { return KindMap }

func (Null) sealed()   {}
func (Bool) sealed()   {}
func (Number) sealed() {}
func (String) sealed() {}
func (List) sealed()   {}
func (Map) sealed()    {}

// MarshalJSON сериализует Null как JSON null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// KindOf возвращает вариант значения. nil считается Null.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// Get возвращает значение по ключу.
func (m Map) Get(key string) (Value, bool) {
	v, ok := m[key]
	return v, ok
}

// Keys возвращает отсортированный список ключей.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AsString возвращает строку, если v это String.
func AsString(v Value) (string, bool) {
	s, ok := v.(String)
	return string(s), ok
}

// AsNumber возвращает число, если v это Number.
func AsNumber(v Value) (float64, bool) {
	n, ok := v.(Number)
	return float64(n), ok
}

// AsBool возвращает bool, если v это Bool.
func AsBool(v Value) (bool, bool) {
	b, ok := v.(Bool)
	return bool(b), ok
}

// AsList возвращает список, если v это List.
func AsList(v Value) (List, bool) {
	l, ok := v.(List)
	return l, ok
}

// AsMap возвращает map, если v это Map.
func AsMap(v Value) (Map, bool) {
	m, ok := v.(Map)
	return m, ok
}

// Text возвращает каноническое текстовое представление значения.
//
// Строки возвращаются как есть, числа в кратчайшей десятичной форме,
// списки и map сериализуются в компактный JSON.
func Text(v Value) string {
	switch t := v.(type) {
	case nil, Null:
		return "null"
	case Bool:
		return strconv.FormatBool(bool(t))
	case Number:
		return strconv.FormatFloat(float64(t), 'f', -1, 64)
	case String:
		return string(t)
	case List, Map:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(t); err != nil {
			return fmt.Sprint(ToAny(t))
		}
		return strings.TrimSuffix(buf.String(), "\n")
	default:
		return fmt.Sprint(t)
	}
}

// Clone возвращает глубокую копию значения.
func Clone(v Value) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case List:
		if t == nil {
			return List(nil)
		}
		out := make(List, len(t))
		for i, item := range t {
			out[i] = Clone(item)
		}
		return out
	case Map:
		return CloneMap(t)
	default:
		// скаляры неизменяемы
		return t
	}
}

// CloneMap возвращает глубокую копию map.
func CloneMap(m Map) Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, item := range m {
		out[k] = Clone(item)
	}
	return out
}

// Equal сравнивает два значения структурно.
func Equal(a, b Value) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}

	switch x := a.(type) {
	case nil, Null:
		return true
	case Bool:
		return x == b.(Bool)
	case Number:
		return x == b.(Number)
	case String:
		return x == b.(String)
	case List:
		y := b.(List)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Map:
		y := b.(Map)
		if len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
