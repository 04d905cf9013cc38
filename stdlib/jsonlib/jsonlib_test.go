package jsonlib

import (
	"testing"

	"asteria/value"
)

func TestParsePrimitives(t *testing.T) {
	tests := []struct {
		src  string
		want func(value.Value) bool
	}{
		{"null", func(v value.Value) bool { return v.IsNull() }},
		{"true", func(v value.Value) bool { return v.Type() == value.TypeBoolean && v.AsBoolean() }},
		{"42", func(v value.Value) bool { return v.Type() == value.TypeInteger && v.AsInteger() == 42 }},
		{"-3.5", func(v value.Value) bool { return v.Type() == value.TypeReal && v.AsReal() == -3.5 }},
		{`"hi"`, func(v value.Value) bool { return v.Type() == value.TypeString && v.AsString() == "hi" }},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.src, err)
			}
			if !tt.want(got) {
				t.Errorf("Parse(%q) = %v, unexpected", tt.src, got)
			}
		})
	}
}

func TestParseNestedArrayInObject(t *testing.T) {
	got, err := Parse(`{ "a": [1,2,3] }`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	obj := got.AsObject()
	av, ok := obj.Get("a")
	if !ok || av.Type() != value.TypeArray {
		t.Fatalf("a = %v, want array", av)
	}
	if av.AsArray().Get(1).AsInteger() != 2 {
		t.Errorf("a[1] = %v, want 2", av.AsArray().Get(1))
	}
}

func TestStringifyRoundTrip(t *testing.T) {
	src := `{ "a": [1,2,3] }`
	v, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got := Stringify(v)
	want := `{"a":[1,2,3]}`
	if got != want {
		t.Errorf("Stringify(Parse(%q)) = %q, want %q", src, got, want)
	}
}

func TestStringifyPreservesInsertionOrder(t *testing.T) {
	obj := value.NewObject()
	obj.Set("z", value.FromInt(1))
	obj.Set("a", value.FromInt(2))
	got := Stringify(value.FromObject(obj))
	want := `{"z":1,"a":2}`
	if got != want {
		t.Errorf("Stringify() = %q, want %q", got, want)
	}
}
