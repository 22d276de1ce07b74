package variables

import (
	"errors"
	"fmt"
)

// Ошибки разрешения ссылок.
var (
	// ErrStepNotFound: шага нет в хранилище.
	ErrStepNotFound = errors.New("step not found in variable store")

	// ErrStepNotSuccessful: шаг есть, но завершился не успешно.
	ErrStepNotSuccessful = errors.New("step did not succeed")

	// ErrPropertyNotFound: сегмент пути не найден.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrNotAnArray: сегмент с индексом указывает не на массив.
	ErrNotAnArray = errors.New("property is not an array")

	// ErrIndexOutOfRange: индекс за пределами массива.
	ErrIndexOutOfRange = errors.New("array index out of range")
)

// Ошибки извлечения данных.
var (
	// ErrExtractionFailed: правило извлечения упало или вернуло ошибку.
	ErrExtractionFailed = errors.New("variable extraction failed")

	// ErrMalformedOutput: результат шага не имеет ожидаемой формы.
	ErrMalformedOutput = errors.New("malformed step output")
)

// ResolutionError описывает неразрешённую ссылку.
type ResolutionError struct {
	Ref     Reference // ссылка, которую не удалось разрешить
	Segment string    // сегмент пути, на котором остановился обход
	Err     error     // одна из ошибок разрешения выше
}

// Error реализует интерфейс error.
func (e *ResolutionError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("resolve %s: %v at %q", e.Ref.Raw, e.Err, e.Segment)
	}
	return fmt.Sprintf("resolve %s: %v", e.Ref.Raw, e.Err)
}

// Unwrap возвращает базовую ошибку.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

func newResolutionError(ref Reference, segment string, err error) *ResolutionError {
	return &ResolutionError{Ref: ref, Segment: segment, Err: err}
}
