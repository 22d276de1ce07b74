package variables

import (
	"regexp"
	"strings"
)

// referencePattern находит {{...}} без вложенных фигурных скобок.
var referencePattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Reference это одна ссылка {{nodeId.path}}, найденная в строке.
type Reference struct {
	NodeID string // ID шага до первой точки
	Path   string // всё после первой точки
	Raw    string // исходный текст вместе со скобками
	Start  int    // смещение Raw в строке (байты)
	End    int    // смещение конца Raw (не включительно)
}

// String возвращает исходный текст ссылки.
func (r Reference) String() string {
	return r.Raw
}

// Parse возвращает ссылки в порядке появления.
//
// Текст внутри скобок обрезается по пробелам и делится по первой точке.
// Фрагмент без точки ({{name}}) ссылкой не считается и остаётся литералом.
func Parse(text string) []Reference {
	matches := referencePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	refs := make([]Reference, 0, len(matches))
	for _, m := range matches {
		inner := strings.TrimSpace(text[m[2]:m[3]])

		nodeID, path, ok := strings.Cut(inner, ".")
		if !ok {
			continue
		}

		refs = append(refs, Reference{
			NodeID: nodeID,
			Path:   path,
			Raw:    text[m[0]:m[1]],
			Start:  m[0],
			End:    m[1],
		})
	}
	return refs
}

// HasReferences возвращает true, если в строке есть хотя бы одна ссылка.
func HasReferences(text string) bool {
	return len(Parse(text)) > 0
}
