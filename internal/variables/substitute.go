package variables

import (
	"strings"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/value"
)

// Unresolved описывает ссылку, оставленную в тексте как есть.
type Unresolved struct {
	Ref Reference
	Err error
}

// StringResult это результат подстановки в строку.
type StringResult struct {
	// Text это строка после подстановки. Неразрешённые ссылки сохранены дословно.
	Text string

	// Unresolved это неразрешённые ссылки (по одной на уникальный Raw).
	Unresolved []Unresolved
}

// Complete возвращает true, если все ссылки разрешены.
func (r StringResult) Complete() bool {
	return len(r.Unresolved) == 0
}

// ConfigResult это результат подстановки в дерево конфигурации.
type ConfigResult struct {
	// Config это глубокая копия входного дерева с подставленными значениями.
	Config value.Value

	// Unresolved это неразрешённые ссылки во всём дереве.
	Unresolved []Unresolved
}

// Complete возвращает true, если все ссылки разрешены.
func (r ConfigResult) Complete() bool {
	return len(r.Unresolved) == 0
}

// Map возвращает Config как value.Map. Для не-map конфигурации возвращает nil.
func (r ConfigResult) Map() value.Map {
	m, _ := value.AsMap(r.Config)
	return m
}

type outcome struct {
	text string
	err  error
}

// SubstituteString заменяет ссылки в строке их значениями.
//
// Строки вставляются как есть, остальные значения в текстовой форме value.Text.
// Каждое вхождение заменяется независимо, повторные вхождения одной ссылки
// получают один и тот же результат. Вставленные значения повторно не сканируются.
func SubstituteString(text string, store Lookup) StringResult {
	refs := Parse(text)
	if len(refs) == 0 {
		return StringResult{Text: text}
	}

	var (
		b          strings.Builder
		resolved   = make(map[string]outcome, len(refs))
		unresolved []Unresolved
		last       int
	)

	for _, ref := range refs {
		res, seen := resolved[ref.Raw]
		if !seen {
			v, err := Resolve(ref, store)
			if err != nil {
				res = outcome{err: err}
				unresolved = append(unresolved, Unresolved{Ref: ref, Err: err})
			} else {
				res = outcome{text: value.Text(v)}
			}
			resolved[ref.Raw] = res
		}

		b.WriteString(text[last:ref.Start])
		if res.err != nil {
			b.WriteString(ref.Raw)
		} else {
			b.WriteString(res.text)
		}
		last = ref.End
	}
	b.WriteString(text[last:])

	return StringResult{Text: b.String(), Unresolved: unresolved}
}

// SubstituteConfig рекурсивно подставляет ссылки в дерево конфигурации.
//
// Строки проходят через SubstituteString, map обходятся рекурсивно.
// В списках подставляются только строковые элементы, остальные копируются без изменений.
// Входное дерево не изменяется.
func SubstituteConfig(config value.Value, store Lookup) ConfigResult {
	var unresolved []Unresolved
	out := substitute(config, store, &unresolved)
	return ConfigResult{Config: out, Unresolved: unresolved}
}

func substitute(v value.Value, store Lookup, unresolved *[]Unresolved) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null{}
	case value.String:
		res := SubstituteString(string(t), store)
		*unresolved = append(*unresolved, res.Unresolved...)
		return value.String(res.Text)
	case value.List:
		if t == nil {
			return value.List(nil)
		}
		out := make(value.List, len(t))
		for i, item := range t {
			if s, ok := item.(value.String); ok {
				res := SubstituteString(string(s), store)
				*unresolved = append(*unresolved, res.Unresolved...)
				out[i] = value.String(res.Text)
				continue
			}
			out[i] = value.Clone(item)
		}
		return out
	case value.Map:
		if t == nil {
			return value.Map(nil)
		}
		out := make(value.Map, len(t))
		// ключи по порядку, чтобы Unresolved был детерминированным
		for _, k := range t.Keys() {
			out[k] = substitute(t[k], store, unresolved)
		}
		return out
	case value.Null, value.Bool, value.Number:
		return t
	default:
		return value.Clone(t)
	}
}
