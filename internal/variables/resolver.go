package variables

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/value"
)

// indexedSegment это сегмент вида name[3].
var indexedSegment = regexp.MustCompile(`^(.+)\[(\d+)\]$`)

// Resolve возвращает значение, на которое указывает ссылка.
//
// Обход начинается с записи NodeOutput.Record(), поэтому путь обычно
// начинается с data или extractedData. На первом неверном сегменте
// возвращается *ResolutionError, частичное значение не возвращается.
func Resolve(ref Reference, store Lookup) (value.Value, error) {
	output, ok := store.Get(ref.NodeID)
	if !ok || output == nil {
		return nil, newResolutionError(ref, "", ErrStepNotFound)
	}
	if output.Status != domain.StepStatusSuccess {
		return nil, newResolutionError(ref, "", ErrStepNotSuccessful)
	}

	var current value.Value = output.Record()
	for _, segment := range strings.Split(ref.Path, ".") {
		next, err := step(current, segment)
		if err != nil {
			return nil, newResolutionError(ref, segment, err)
		}
		current = next
	}

	return current, nil
}

// step применяет один сегмент пути к текущему значению.
func step(current value.Value, segment string) (value.Value, error) {
	if m := indexedSegment.FindStringSubmatch(segment); m != nil {
		prop, err := property(current, m[1])
		if err != nil {
			return nil, err
		}

		list, ok := value.AsList(prop)
		if !ok {
			return nil, ErrNotAnArray
		}

		index, err := strconv.Atoi(m[2])
		if err != nil || index >= len(list) {
			return nil, ErrIndexOutOfRange
		}
		return list[index], nil
	}

	return property(current, segment)
}

func property(current value.Value, name string) (value.Value, error) {
	m, ok := value.AsMap(current)
	if !ok {
		return nil, ErrPropertyNotFound
	}

	v, ok := m[name]
	if !ok {
		return nil, ErrPropertyNotFound
	}
	if v == nil {
		return value.Null{}, nil
	}
	return v, nil
}
