package steps

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/value"
)

const (
	// StepTypeHTTP это тип HTTP шага.
	StepTypeHTTP = "http"

	// Значения по умолчанию.
	defaultHTTPTimeout = 30 * time.Second
	maxResponseBody    = 10 * 1024 * 1024 // 10 MB
)

// Ключи конфигурации HTTP шага.
const (
	configMethod          = "method"
	configURL             = "url"
	configHeaders         = "headers"
	configBody            = "body"
	configFollowRedirects = "follow_redirects"
	configValidateSSL     = "validate_ssl"
	configTimeout         = "timeout"
	configTimeoutSec      = "timeout_sec"
	configFailOnStatus    = "fail_on_status"
)

// HTTPStep это шаг HTTP запроса.
//
// Конфигурация:
//
//	{
//	    "method": "POST",
//	    "url": "https://api.example.com/users/{{db.extractedData.userIds[0]}}",
//	    "headers": {"Authorization": "Bearer xxx"},
//	    "body": {"query": "{{cw.extractedData.requestIds[0]}}"},
//	    "follow_redirects": true,
//	    "validate_ssl": true,
//	    "timeout_sec": 30,           // или "timeout": "1m30s"
//	    "fail_on_status": true
//	}
//
// Результат:
//
//	{
//	    "statusCode": 200,
//	    "headers": {"Content-Type": "application/json", ...},
//	    "body": {...}  // JSON или строка
//	}
//
// При fail_on_status (по умолчанию true) ответ со статусом >= 400 считается ошибкой шага.
type HTTPStep struct {
	timeout time.Duration
}

// NewHTTPStep создаёт новый HTTPStep. timeout 0 означает 30s.
func NewHTTPStep(timeout time.Duration) *HTTPStep {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &HTTPStep{timeout: timeout}
}

// Type возвращает тип шага.
func (s *HTTPStep) Type() string {
	return StepTypeHTTP
}

// Execute выполняет HTTP запрос.
func (s *HTTPStep) Execute(ctx context.Context, req *Request) (*Response, error) {
	cfg, err := s.parseConfig(req.Config)
	if err != nil {
		return nil, err
	}

	client := s.buildClient(cfg, req.Timeout)

	httpReq, err := s.buildRequest(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrStepCancelled, ctx.Err())
		}
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	return s.parseResponse(resp, cfg.FailOnStatus)
}

// httpConfig это распарсенная конфигурация HTTP шага.
type httpConfig struct {
	Method          string
	URL             string
	Headers         map[string]string
	Body            value.Value
	FollowRedirects bool
	ValidateSSL     bool
	FailOnStatus    bool
	Timeout         time.Duration
}

// parseConfig парсит конфигурацию HTTP шага.
func (s *HTTPStep) parseConfig(config value.Map) (*httpConfig, error) {
	cfg := &httpConfig{
		Method:          GetConfigString(config, configMethod),
		URL:             GetConfigString(config, configURL),
		Headers:         GetConfigMapString(config, configHeaders),
		Body:            config[configBody],
		FollowRedirects: GetConfigBool(config, configFollowRedirects, true),
		ValidateSSL:     GetConfigBool(config, configValidateSSL, true),
		FailOnStatus:    GetConfigBool(config, configFailOnStatus, true),
		Timeout:         GetConfigDuration(config, configTimeout, time.Second),
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = GetConfigDuration(config, configTimeoutSec, time.Second)
	}

	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: %s: url is required", ErrInvalidConfig, StepTypeHTTP)
	}

	// Метод по умолчанию GET
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}
	cfg.Method = strings.ToUpper(cfg.Method)

	if cfg.Headers == nil {
		cfg.Headers = make(map[string]string)
	}

	return cfg, nil
}

// buildClient создаёт HTTP клиент с нужными настройками.
func (s *HTTPStep) buildClient(cfg *httpConfig, reqTimeout time.Duration) *http.Client {
	timeout := s.timeout
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}
	if reqTimeout > 0 {
		timeout = reqTimeout
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: !cfg.ValidateSSL,
	}

	var checkRedirect func(*http.Request, []*http.Request) error
	if !cfg.FollowRedirects {
		checkRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &http.Client{
		Timeout:       timeout,
		CheckRedirect: checkRedirect,
		Transport: &http.Transport{
			TLSClientConfig: tlsConfig,
		},
	}
}

// buildRequest создаёт HTTP запрос.
func (s *HTTPStep) buildRequest(ctx context.Context, cfg *httpConfig) (*http.Request, error) {
	var bodyReader io.Reader

	if cfg.Body != nil && value.KindOf(cfg.Body) != value.KindNull {
		bodyBytes, err := s.serializeBody(cfg.Body)
		if err != nil {
			return nil, fmt.Errorf("serialize body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)

		if !hasHeader(cfg.Headers, "Content-Type") {
			cfg.Headers["Content-Type"] = "application/json"
		}
	}

	req, err := http.NewRequestWithContext(ctx, cfg.Method, cfg.URL, bodyReader)
	if err != nil {
		return nil, err
	}

	for key, v := range cfg.Headers {
		req.Header.Set(key, v)
	}

	return req, nil
}

// serializeBody сериализует body в bytes.
func (s *HTTPStep) serializeBody(body value.Value) ([]byte, error) {
	if str, ok := value.AsString(body); ok {
		return []byte(str), nil
	}
	return json.Marshal(body)
}

// parseResponse парсит HTTP ответ в Response.
func (s *HTTPStep) parseResponse(resp *http.Response, failOnStatus bool) (*Response, error) {
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if failOnStatus && resp.StatusCode >= http.StatusBadRequest {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(bodyBytes),
		}
	}

	var body value.Value = value.String(bodyBytes)
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		// Если не удалось распарсить JSON, возвращаем как строку
		if decoded, err := value.Decode(bodyBytes); err == nil {
			body = decoded
		}
	}

	headers := make(value.Map, len(resp.Header))
	for key := range resp.Header {
		headers[key] = value.String(resp.Header.Get(key))
	}

	return NewResponse(value.Map{
		"statusCode":  value.Number(resp.StatusCode),
		"contentType": value.String(contentType),
		"headers":     headers,
		"body":        body,
	}), nil
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// HTTPError это ответ с ошибочным статусом.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

// Error реализует интерфейс error.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// IsHTTPError проверяет, является ли ошибка HTTP ошибкой.
func IsHTTPError(err error) bool {
	_, ok := err.(*HTTPError)
	return ok
}
