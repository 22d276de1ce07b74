package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
	"github.com/VanshikaVirmani12/flewid-sub000/internal/engine"
)

// Ошибки загрузки workflow.
var (
	// ErrUnsupportedFormat: расширение файла не .json, .yaml или .yml.
	ErrUnsupportedFormat = errors.New("unsupported workflow format")

	// ErrInvalidWorkflow: документ не прошёл проверку struct tags.
	ErrInvalidWorkflow = errors.New("invalid workflow document")
)

// Format это формат документа workflow.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator возвращает общий экземпляр validator.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// имена полей в ошибках как в JSON документе
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// FormatFromPath определяет формат по расширению файла.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadFile читает и проверяет workflow из файла.
func LoadFile(path string) (*domain.Workflow, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow %s: %w", path, err)
	}

	wf, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// ID по умолчанию это имя файла без расширения
	if wf.ID == "" {
		wf.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return wf, nil
}

// Parse декодирует и проверяет workflow.
//
// Проверки: struct tags документа, затем engine.Validate (уникальные ID, циклы).
func Parse(data []byte, format Format) (*domain.Workflow, error) {
	wf, err := Decode(data, format)
	if err != nil {
		return nil, err
	}

	if err := ValidateDocument(wf); err != nil {
		return nil, err
	}

	if err := engine.Validate(wf); err != nil {
		return nil, err
	}

	return wf, nil
}

// Decode только декодирует документ, без проверок.
func Decode(data []byte, format Format) (*domain.Workflow, error) {
	var wf domain.Workflow

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&wf); err != nil {
			return nil, fmt.Errorf("decode json workflow: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&wf); err != nil {
			return nil, fmt.Errorf("decode yaml workflow: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	return &wf, nil
}

// ValidateDocument проверяет struct tags workflow.
func ValidateDocument(wf *domain.Workflow) error {
	err := getValidator().Struct(wf)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", ErrInvalidWorkflow, err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s: failed %q", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidWorkflow, strings.Join(messages, "; "))
}
