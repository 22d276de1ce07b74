package steps

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/value"
)

// Registry Tests

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	// Пустой реестр
	if r.Count() != 0 {
		t.Errorf("expected empty registry")
	}

	r.Register(NewDelayStep())
	if r.Count() != 1 {
		t.Errorf("expected 1 step, got %d", r.Count())
	}

	// Тип без учёта регистра
	step, err := r.Get("Delay")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if step.Type() != "delay" {
		t.Errorf("expected delay, got %s", step.Type())
	}

	// Несуществующий тип
	_, err = r.Get("unknown")
	if !errors.Is(err, ErrStepNotFound) {
		t.Errorf("expected ErrStepNotFound, got %v", err)
	}

	if !r.Has("DELAY") {
		t.Error("should have delay")
	}
	if r.Has("unknown") {
		t.Error("should not have unknown")
	}

	r.Unregister("delay")
	if r.Has("delay") {
		t.Error("should not have delay after unregister")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry(0)

	want := []string{"delay", "http", "transform"}
	got := r.Types()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %s at %d, got %s", want[i], i, got[i])
		}
	}
}

func TestRegistry_Execute(t *testing.T) {
	r := DefaultRegistry(0)
	ctx := context.Background()

	// неизвестный тип это ошибка шага
	_, err := r.Execute(ctx, "cloudwatch", value.Map{})
	if !errors.Is(err, ErrStepNotFound) {
		t.Errorf("expected ErrStepNotFound, got %v", err)
	}

	// конфигурация должна быть map
	_, err = r.Execute(ctx, "transform", value.String("x"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	out, err := r.Execute(ctx, "Transform", value.Map{"output": value.Number(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != value.Number(1) {
		t.Errorf("expected 1, got %v", out)
	}
}

// Delay Tests

func TestDelayStep_Execute(t *testing.T) {
	step := NewDelayStep()
	ctx := context.Background()

	req := NewRequest("delay1", value.Map{"duration_ms": value.Number(50)}, 0)

	start := time.Now()
	resp, err := step.Execute(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Проверяем, что задержка была
	if elapsed < 50*time.Millisecond {
		t.Errorf("expected delay >= 50ms, got %v", elapsed)
	}

	out, _ := value.AsMap(resp.Output)
	if out["duration_ms"] != value.Number(50) {
		t.Errorf("expected duration_ms=50, got %v", out["duration_ms"])
	}
}

func TestDelayStep_SubstitutedString(t *testing.T) {
	step := NewDelayStep()

	// после подстановки число приходит строкой
	req := NewRequest("delay1", value.Map{"duration_ms": value.String("10")}, 0)
	if _, err := step.Execute(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelayStep_Cancellation(t *testing.T) {
	step := NewDelayStep()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	req := NewRequest("delay1", value.Map{"duration_sec": value.Number(10)}, 0)

	_, err := step.Execute(ctx, req)
	if !errors.Is(err, ErrStepCancelled) {
		t.Errorf("expected ErrStepCancelled, got %v", err)
	}
}

func TestDelayStep_InvalidConfig(t *testing.T) {
	step := NewDelayStep()

	tests := []struct {
		name   string
		config value.Map
	}{
		{"empty", value.Map{}},
		{"zero", value.Map{"duration_ms": value.Number(0)}},
		{"not a number", value.Map{"duration_ms": value.String("{{A.data.x}}")}},
		{"negative", value.Map{"duration": value.String("-5s")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := step.Execute(context.Background(), NewRequest("d", tt.config, 0))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestDelayStep_GoDuration(t *testing.T) {
	step := NewDelayStep()

	// duration приоритетнее duration_sec
	req := NewRequest("delay1", value.Map{
		"duration":     value.String("15ms"),
		"duration_sec": value.Number(10),
	}, 0)
	resp, err := step.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, _ := value.AsMap(resp.Output)
	if out["duration"] != value.String("15ms") || out["duration_ms"] != value.Number(15) {
		t.Errorf("unexpected output: %v", out)
	}
}

func TestGetConfigDuration(t *testing.T) {
	tests := []struct {
		name     string
		raw      value.Value
		unit     time.Duration
		expected time.Duration
	}{
		{"number in seconds", value.Number(2), time.Second, 2 * time.Second},
		{"fractional seconds", value.Number(1.5), time.Second, 1500 * time.Millisecond},
		{"number in ms", value.Number(250), time.Millisecond, 250 * time.Millisecond},
		{"go duration string", value.String("1m30s"), time.Second, 90 * time.Second},
		{"substituted number", value.String("3"), time.Second, 3 * time.Second},
		{"negative", value.Number(-1), time.Second, 0},
		{"garbage", value.String("soon"), time.Second, 0},
		{"missing", nil, time.Second, 0},
		{"wrong kind", value.Bool(true), time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := value.Map{}
			if tt.raw != nil {
				config["d"] = tt.raw
			}
			if got := GetConfigDuration(config, "d", tt.unit); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

// HTTP Tests

func TestHTTPStep_GET(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"data":   []int{1, 2, 3},
		})
	}))
	defer server.Close()

	step := NewHTTPStep(0)
	resp, err := step.Execute(context.Background(), NewRequest("http1", value.Map{
		"url": value.String(server.URL),
	}, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, ok := value.AsMap(resp.Output)
	if !ok {
		t.Fatalf("expected map output, got %s", value.KindOf(resp.Output))
	}
	if out["statusCode"] != value.Number(200) {
		t.Errorf("expected status 200, got %v", out["statusCode"])
	}

	body, ok := value.AsMap(out["body"])
	if !ok {
		t.Fatalf("expected JSON body, got %s", value.Text(out["body"]))
	}
	if body["status"] != value.String("ok") {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if !value.Equal(body["data"], value.List{value.Number(1), value.Number(2), value.Number(3)}) {
		t.Errorf("unexpected data: %s", value.Text(body["data"]))
	}
}

func TestHTTPStep_POST_JSON(t *testing.T) {
	var receivedBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type application/json")
		}
		if r.Header.Get("X-User") != "u1" {
			t.Errorf("expected X-User header, got %q", r.Header.Get("X-User"))
		}

		json.NewDecoder(r.Body).Decode(&receivedBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": 123})
	}))
	defer server.Close()

	step := NewHTTPStep(time.Second)
	resp, err := step.Execute(context.Background(), NewRequest("http1", value.Map{
		"method":  value.String("post"),
		"url":     value.String(server.URL),
		"headers": value.Map{"X-User": value.String("u1")},
		"body":    value.Map{"name": value.String("test"), "count": value.Number(2)},
	}, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if receivedBody["name"] != "test" {
		t.Errorf("expected name=test in body, got %v", receivedBody["name"])
	}

	out, _ := value.AsMap(resp.Output)
	if out["statusCode"] != value.Number(201) {
		t.Errorf("expected status 201, got %v", out["statusCode"])
	}
}

func TestHTTPStep_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	step := NewHTTPStep(0)

	_, err := step.Execute(context.Background(), NewRequest("http1", value.Map{
		"url": value.String(server.URL),
	}, 0))
	if !IsHTTPError(err) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if err.(*HTTPError).Body != "boom" {
		t.Errorf("unexpected body: %q", err.(*HTTPError).Body)
	}

	// fail_on_status=false возвращает ответ как результат
	resp, err := step.Execute(context.Background(), NewRequest("http1", value.Map{
		"url":            value.String(server.URL),
		"fail_on_status": value.Bool(false),
	}, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, _ := value.AsMap(resp.Output)
	if out["statusCode"] != value.Number(500) || out["body"] != value.String("boom") {
		t.Errorf("unexpected output: %s", value.Text(resp.Output))
	}
}

func TestHTTPStep_InvalidConfig(t *testing.T) {
	step := NewHTTPStep(0)

	_, err := step.Execute(context.Background(), NewRequest("http1", value.Map{}, 0))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestHTTPStep_Cancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	step := NewHTTPStep(0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := step.Execute(ctx, NewRequest("http1", value.Map{"url": value.String(server.URL)}, 0))
	if !errors.Is(err, ErrStepCancelled) {
		t.Errorf("expected ErrStepCancelled, got %v", err)
	}
}

// Transform Tests

func TestTransformStep_Execute(t *testing.T) {
	step := NewTransformStep()

	config := value.Map{
		"output": value.Map{
			"first": value.String("u1"),
			"users": value.String(`["u1","u2"]`),
			"count": value.String("2"),
			"text":  value.String("2 users"),
		},
		"parse_json": value.Bool(true),
	}

	resp, err := step.Execute(context.Background(), NewRequest("t1", config, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, ok := value.AsMap(resp.Output)
	if !ok {
		t.Fatalf("expected map output")
	}
	if out["first"] != value.String("u1") {
		t.Errorf("first: got %v", out["first"])
	}
	if !value.Equal(out["users"], value.List{value.String("u1"), value.String("u2")}) {
		t.Errorf("users should be decoded, got %s", value.Text(out["users"]))
	}
	if out["count"] != value.Number(2) {
		t.Errorf("count should be decoded, got %v", out["count"])
	}
	if out["text"] != value.String("2 users") {
		t.Errorf("text should stay a string, got %v", out["text"])
	}

	// конфигурация не изменена
	if GetConfigMap(config, "output")["users"] != value.String(`["u1","u2"]`) {
		t.Error("transform must not mutate its config")
	}
}

func TestTransformStep_MissingOutput(t *testing.T) {
	step := NewTransformStep()

	_, err := step.Execute(context.Background(), NewRequest("t1", value.Map{}, 0))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestTransformStep_Cancellation(t *testing.T) {
	step := NewTransformStep()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := step.Execute(ctx, NewRequest("t1", value.Map{"output": value.Null{}}, 0))
	if !errors.Is(err, ErrStepCancelled) {
		t.Errorf("expected ErrStepCancelled, got %v", err)
	}
}

// Helpers Tests

func TestGetConfigHelpers(t *testing.T) {
	config := value.Map{
		"str":     value.String("hello"),
		"num":     value.Number(42),
		"numStr":  value.String("7"),
		"flag":    value.Bool(true),
		"flagStr": value.String("false"),
		"map":     value.Map{"a": value.String("x"), "b": value.Number(1)},
	}

	if GetConfigString(config, "str") != "hello" {
		t.Error("GetConfigString failed")
	}
	if GetConfigString(config, "num") != "" {
		t.Error("GetConfigString should ignore non-strings")
	}
	if GetConfigInt(config, "num") != 42 || GetConfigInt(config, "numStr") != 7 {
		t.Error("GetConfigInt failed")
	}
	if GetConfigInt(config, "str") != 0 {
		t.Error("GetConfigInt should return 0 for non-numbers")
	}
	if !GetConfigBool(config, "flag", false) || GetConfigBool(config, "flagStr", true) {
		t.Error("GetConfigBool failed")
	}
	if !GetConfigBool(config, "missing", true) {
		t.Error("GetConfigBool should return default")
	}

	headers := GetConfigMapString(config, "map")
	if headers["a"] != "x" || headers["b"] != "1" {
		t.Errorf("GetConfigMapString failed: %v", headers)
	}
	if GetConfigMap(config, "str") != nil {
		t.Error("GetConfigMap should return nil for non-maps")
	}
}

func TestHTTPStep_TimeoutFromConfig(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	step := NewHTTPStep(time.Minute)
	start := time.Now()
	_, err := step.Execute(context.Background(), NewRequest("http1", value.Map{
		"url":     value.String(server.URL),
		"timeout": value.String("50ms"),
	}, 0))
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("config timeout ignored, took %v", time.Since(start))
	}
}
