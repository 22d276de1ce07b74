package value

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{name: "string as is", value: String("u1"), expected: "u1"},
		{name: "integer number", value: Number(5), expected: "5"},
		{name: "fractional number", value: Number(2.5), expected: "2.5"},
		{name: "negative number", value: Number(-3), expected: "-3"},
		{name: "bool", value: Bool(true), expected: "true"},
		{name: "null", value: Null{}, expected: "null"},
		{name: "nil", value: nil, expected: "null"},
		{name: "list", value: List{String("a"), Number(1)}, expected: `["a",1]`},
		{name: "map sorted keys", value: Map{"b": Number(2), "a": Null{}}, expected: `{"a":null,"b":2}`},
		{name: "no html escaping", value: Map{"url": String("https://x/?a=1&b=<2>")}, expected: `{"url":"https://x/?a=1&b=<2>"}`},
		{name: "nested list with html chars", value: List{String("a&b"), List{String("<c>")}}, expected: `["a&b",["<c>"]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.value); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFromAny(t *testing.T) {
	raw := map[string]any{
		"count":  3,
		"ratio":  0.5,
		"name":   "scan",
		"ok":     true,
		"none":   nil,
		"items":  []any{"a", int64(2)},
		"nested": map[string]any{"id": json.Number("42")},
	}

	v, err := FromAny(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := Map{
		"count":  Number(3),
		"ratio":  Number(0.5),
		"name":   String("scan"),
		"ok":     Bool(true),
		"none":   Null{},
		"items":  List{String("a"), Number(2)},
		"nested": Map{"id": Number(42)},
	}
	if !Equal(v, expected) {
		t.Errorf("expected %s, got %s", Text(expected), Text(v))
	}
}

func TestFromAny_Unsupported(t *testing.T) {
	_, err := FromAny(map[string]any{"fn": func() {}})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestToAny_RoundTrip(t *testing.T) {
	v := Map{"list": List{Number(1), Bool(false)}, "s": String("x")}

	back, err := FromAny(ToAny(v))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Equal(v, back) {
		t.Errorf("round trip changed value: %s", Text(back))
	}
}

func TestClone_IsDeep(t *testing.T) {
	orig := Map{"inner": Map{"x": Number(1)}, "list": List{String("a")}}

	cp := Clone(orig).(Map)
	cp["inner"].(Map)["x"] = Number(2)
	cp["list"].(List)[0] = String("b")

	if orig["inner"].(Map)["x"] != Number(1) {
		t.Error("clone should not share nested maps")
	}
	if orig["list"].(List)[0] != String("a") {
		t.Error("clone should not share nested lists")
	}
}

func TestMap_UnmarshalJSON(t *testing.T) {
	var m Map
	if err := json.Unmarshal([]byte(`{"url":"http://x","retries":2,"tags":["a"]}`), &m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m["url"] != String("http://x") {
		t.Errorf("unexpected url: %v", m["url"])
	}
	if m["retries"] != Number(2) {
		t.Errorf("unexpected retries: %v", m["retries"])
	}
	if !Equal(m["tags"], List{String("a")}) {
		t.Errorf("unexpected tags: %s", Text(m["tags"]))
	}

	// не объект
	if err := json.Unmarshal([]byte(`[1,2]`), &m); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestMap_UnmarshalYAML(t *testing.T) {
	doc := `
config:
  table: users
  limit: 10
  filters:
    - active
`
	var holder struct {
		Config Map `yaml:"config"`
	}
	if err := yaml.Unmarshal([]byte(doc), &holder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := Map{
		"table":   String("users"),
		"limit":   Number(10),
		"filters": List{String("active")},
	}
	if !Equal(holder.Config, expected) {
		t.Errorf("expected %s, got %s", Text(expected), Text(holder.Config))
	}
}

func TestMarshalJSON_Null(t *testing.T) {
	b, err := json.Marshal(Map{"a": Null{}, "b": List{Null{}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `{"a":null,"b":[null]}` {
		t.Errorf("unexpected json: %s", b)
	}
}
