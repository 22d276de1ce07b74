package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// FromAny преобразует декодированное дерево (encoding/json, yaml.v3) в Value.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return Clone(t), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int:
		return Number(t), nil
	case int8:
		return Number(t), nil
	case int16:
		return Number(t), nil
	case int32:
		return Number(t), nil
	case int64:
		return Number(t), nil
	case uint:
		return Number(t), nil
	case uint8:
		return Number(t), nil
	case uint16:
		return Number(t), nil
	case uint32:
		return Number(t), nil
	case uint64:
		return Number(t), nil
	case float32:
		return Number(t), nil
	case float64:
		return Number(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: number %q: %v", ErrUnsupportedType, t.String(), err)
		}
		return Number(f), nil
	case time.Time:
		return String(t.Format(time.RFC3339Nano)), nil
	case []byte:
		return String(t), nil
	case []any:
		out := make(List, len(t))
		for i, item := range t {
			conv, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = conv
		}
		return out, nil
	case []string:
		out := make(List, len(t))
		for i, item := range t {
			out[i] = String(item)
		}
		return out, nil
	case []map[string]any:
		out := make(List, len(t))
		for i, item := range t {
			conv, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = conv
		}
		return out, nil
	case map[string]any:
		out := make(Map, len(t))
		for k, item := range t {
			conv, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = conv
		}
		return out, nil
	case map[string]string:
		out := make(Map, len(t))
		for k, item := range t {
			out[k] = String(item)
		}
		return out, nil
	case map[any]any:
		// yaml может вернуть map с нестроковыми ключами
		out := make(Map, len(t))
		for k, item := range t {
			conv, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", k, err)
			}
			out[fmt.Sprint(k)] = conv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// MustFromAny работает как FromAny, но паникует при ошибке.
// Используется для литералов в тестах и значений по умолчанию.
func MustFromAny(v any) Value {
	out, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return out
}

// ToAny преобразует Value обратно в дерево из map[string]any, []any и скаляров.
func ToAny(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(t)
	case Number:
		return float64(t)
	case String:
		return string(t)
	case List:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ToAny(item)
		}
		return out
	case Map:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = ToAny(item)
		}
		return out
	default:
		return nil
	}
}

// Decode парсит JSON в Value. Числа сохраняют точность через json.Number.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("decode json: unexpected data after value")
	}
	return FromAny(raw)
}

// UnmarshalJSON декодирует JSON-объект в Map.
func (m *Map) UnmarshalJSON(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	return m.assign(v)
}

// UnmarshalYAML декодирует YAML mapping в Map.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	v, err := FromAny(raw)
	if err != nil {
		return err
	}
	return m.assign(v)
}

func (m *Map) assign(v Value) error {
	switch t := v.(type) {
	case Map:
		*m = t
	case Null:
		*m = nil
	default:
		return fmt.Errorf("%w: expected map, got %s", ErrUnsupportedType, KindOf(v))
	}
	return nil
}

// UnmarshalJSON декодирует JSON-массив в List.
func (l *List) UnmarshalJSON(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	return l.assign(v)
}

// UnmarshalYAML декодирует YAML sequence в List.
func (l *List) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	v, err := FromAny(raw)
	if err != nil {
		return err
	}
	return l.assign(v)
}

func (l *List) assign(v Value) error {
	switch t := v.(type) {
	case List:
		*l = t
	case Null:
		*l = nil
	default:
		return fmt.Errorf("%w: expected list, got %s", ErrUnsupportedType, KindOf(v))
	}
	return nil
}
