package variables

import (
	"errors"
	"testing"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/value"
)

func TestExtract_CloudWatch(t *testing.T) {
	raw := value.MustFromAny(map[string]any{
		"queryId": "q-1",
		"results": []any{
			map[string]any{
				"message":   `ERROR: payment failed userId="u-1" requestId=req-1`,
				"timestamp": "2024-01-01T00:00:00Z",
				"logStream": "stream-a",
			},
			map[string]any{
				"message":   "ok userId=u-2",
				"timestamp": "2024-01-01T00:00:01Z",
				"logStream": "stream-a",
			},
			// строка Logs Insights
			[]any{
				map[string]any{"field": "@message", "value": "user_id: u-1 done"},
				map[string]any{"field": "@logStream", "value": "stream-b"},
			},
		},
	})

	res := NewExtractor().Extract("cw1", "CloudWatch", raw)
	if res.Degraded() {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	want := map[string]value.Value{
		"eventCount": value.Number(3),
		"logStreams": value.List{value.String("stream-a"), value.String("stream-b")},
		"userIds":    value.List{value.String("u-1"), value.String("u-2")},
		"requestIds": value.List{value.String("req-1")},
		"queryId":    value.String("q-1"),
	}
	for key, expected := range want {
		if !value.Equal(res.Data[key], expected) {
			t.Errorf("%s: got %s, want %s", key, value.Text(res.Data[key]), value.Text(expected))
		}
	}

	errorsList, _ := value.AsList(res.Data["errorMessages"])
	if len(errorsList) != 1 {
		t.Errorf("expected one error message, got %s", value.Text(res.Data["errorMessages"]))
	}
}

func TestExtract_DynamoDB(t *testing.T) {
	raw := value.MustFromAny(map[string]any{
		"Items": []any{
			map[string]any{"userId": map[string]any{"S": "u1"}, "age": map[string]any{"N": "42"}},
			map[string]any{"userId": map[string]any{"S": "u2"}, "email": map[string]any{"S": "b@x"}},
			map[string]any{"userId": map[string]any{"S": "u1"}},
		},
		"ScannedCount": 10,
	})

	res := NewExtractor().Extract("db", "dynamodb", raw)
	if res.Degraded() {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	if res.Data["itemCount"] != value.Number(3) {
		t.Errorf("itemCount: got %v", res.Data["itemCount"])
	}
	if res.Data["scannedCount"] != value.Number(10) {
		t.Errorf("scannedCount: got %v", res.Data["scannedCount"])
	}
	if !value.Equal(res.Data["userIds"], value.List{value.String("u1"), value.String("u2")}) {
		t.Errorf("userIds: got %s", value.Text(res.Data["userIds"]))
	}
	wantFirst := value.Map{"userId": value.String("u1"), "age": value.Number(42)}
	if !value.Equal(res.Data["firstItem"], wantFirst) {
		t.Errorf("firstItem: got %s", value.Text(res.Data["firstItem"]))
	}
	wantAttrs := value.List{value.String("age"), value.String("userId"), value.String("email")}
	if !value.Equal(res.Data["attributeNames"], wantAttrs) {
		t.Errorf("attributeNames: got %s", value.Text(res.Data["attributeNames"]))
	}
	if _, ok := res.Data["lastEvaluatedKey"].(value.Null); !ok {
		t.Errorf("lastEvaluatedKey should be null, got %v", res.Data["lastEvaluatedKey"])
	}
}

func TestExtract_Lambda(t *testing.T) {
	tests := []struct {
		name        string
		raw         map[string]any
		wantSuccess bool
	}{
		{
			name:        "success with json payload",
			raw:         map[string]any{"StatusCode": 200, "Payload": `{"result":"ok"}`, "ExecutedVersion": "$LATEST"},
			wantSuccess: true,
		},
		{
			name:        "function error",
			raw:         map[string]any{"StatusCode": 200, "FunctionError": "Unhandled"},
			wantSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewExtractor().Extract("fn", "lambda", value.MustFromAny(tt.raw))
			if res.Degraded() {
				t.Fatalf("unexpected error: %v", res.Err)
			}
			if res.Data["success"] != value.Bool(tt.wantSuccess) {
				t.Errorf("success: got %v, want %v", res.Data["success"], tt.wantSuccess)
			}
		})
	}

	res := NewExtractor().Extract("fn", "LAMBDA", value.MustFromAny(tests[0].raw))
	payload, ok := value.AsMap(res.Data["payload"])
	if !ok || payload["result"] != value.String("ok") {
		t.Errorf("payload should be decoded, got %s", value.Text(res.Data["payload"]))
	}
}

func TestExtract_S3AndSQS(t *testing.T) {
	e := NewExtractor()

	s3 := e.Extract("bucket", "s3", value.MustFromAny(map[string]any{
		"bucket": "logs",
		"objects": []any{
			map[string]any{"key": "a.txt", "size": 10, "lastModified": "2024-01-01T00:00:00Z"},
			map[string]any{"key": "b.txt", "size": 5, "lastModified": "2024-02-01T00:00:00Z"},
		},
	}))
	if s3.Data["objectCount"] != value.Number(2) || s3.Data["totalSize"] != value.Number(15) {
		t.Errorf("unexpected s3 extraction: %s", value.Text(s3.Data))
	}
	if s3.Data["lastModified"] != value.String("2024-02-01T00:00:00Z") {
		t.Errorf("lastModified: got %v", s3.Data["lastModified"])
	}

	sqs := e.Extract("queue", "sqs", value.MustFromAny(map[string]any{
		"Messages": []any{
			map[string]any{"MessageId": "m1", "Body": "hello"},
		},
	}))
	if sqs.Data["messageCount"] != value.Number(1) {
		t.Errorf("messageCount: got %v", sqs.Data["messageCount"])
	}
	if !value.Equal(sqs.Data["messageIds"], value.List{value.String("m1")}) {
		t.Errorf("messageIds: got %s", value.Text(sqs.Data["messageIds"]))
	}
}

func TestExtract_HTTP(t *testing.T) {
	res := NewExtractor().Extract("call", "http", value.MustFromAny(map[string]any{
		"statusCode": 201,
		"headers":    map[string]any{"content-type": "application/json"},
		"body":       map[string]any{"id": 1},
	}))

	if res.Data["ok"] != value.Bool(true) {
		t.Error("2xx should be ok")
	}
	if res.Data["contentType"] != value.String("application/json") {
		t.Errorf("contentType: got %v", res.Data["contentType"])
	}
}

func TestExtract_Fallback(t *testing.T) {
	raw := value.MustFromAny(map[string]any{
		"foo":    "bar",
		"count":  2,
		"nested": map[string]any{"a": 1},
	})

	res := NewExtractor().Extract("x", "custom-type", raw)
	if res.Degraded() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if !value.Equal(res.Data, raw) {
		t.Errorf("fallback should copy top-level fields, got %s", value.Text(res.Data))
	}

	// не-map результат даёт пустую запись
	res = NewExtractor().Extract("x", "custom-type", value.String("text"))
	if res.Degraded() || len(res.Data) != 0 {
		t.Errorf("expected empty record, got %s", value.Text(res.Data))
	}
}

func TestExtract_Degrades(t *testing.T) {
	e := NewExtractor()

	// malformed payload для встроенного правила
	res := e.Extract("cw", "cloudwatch", value.String("not a map"))
	if !errors.Is(res.Err, ErrExtractionFailed) || !errors.Is(res.Err, ErrMalformedOutput) {
		t.Errorf("expected malformed output error, got %v", res.Err)
	}
	if res.Data == nil || len(res.Data) != 0 {
		t.Error("degraded extraction should return an empty record")
	}

	// паника в правиле перехватывается
	e.Register("boom", func(value.Value) (value.Map, error) {
		panic("unexpected shape")
	})
	res = e.Extract("b", "BOOM", value.Map{})
	if !errors.Is(res.Err, ErrExtractionFailed) {
		t.Errorf("expected ErrExtractionFailed, got %v", res.Err)
	}
	if res.Data == nil || len(res.Data) != 0 {
		t.Error("panic should degrade to an empty record")
	}
}

func TestExtractor_Register(t *testing.T) {
	e := NewExtractor()

	if !e.Has("CloudWatch") {
		t.Error("builtin rules should be case-insensitive")
	}
	if e.Has("custom") {
		t.Error("custom should not be registered yet")
	}

	e.Register("Custom", func(raw value.Value) (value.Map, error) {
		return value.Map{"seen": value.Bool(true)}, nil
	})

	res := e.Extract("c", "custom", value.Null{})
	if res.Data["seen"] != value.Bool(true) {
		t.Errorf("custom rule not applied: %s", value.Text(res.Data))
	}
}
