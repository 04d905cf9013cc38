package stringlib

import (
	"testing"

	"asteria/context"
	"asteria/reference"
	"asteria/value"
)

func TestUpperLowerTrim(t *testing.T) {
	globals := context.NewGlobal()

	var u reference.Reference
	if exc := upper(&u, globals, []value.Value{value.FromString("hello")}); exc != nil {
		t.Fatalf("upper() raised: %v", exc)
	}
	uv, _ := u.Read()
	if uv.AsString() != "HELLO" {
		t.Errorf("upper(\"hello\") = %q, want \"HELLO\"", uv.AsString())
	}

	var l reference.Reference
	if exc := lower(&l, globals, []value.Value{value.FromString("HELLO")}); exc != nil {
		t.Fatalf("lower() raised: %v", exc)
	}
	lv, _ := l.Read()
	if lv.AsString() != "hello" {
		t.Errorf("lower(\"HELLO\") = %q, want \"hello\"", lv.AsString())
	}

	var tr reference.Reference
	if exc := trim(&tr, globals, []value.Value{value.FromString("  hi  ")}); exc != nil {
		t.Fatalf("trim() raised: %v", exc)
	}
	trv, _ := tr.Read()
	if trv.AsString() != "hi" {
		t.Errorf("trim(\"  hi  \") = %q, want \"hi\"", trv.AsString())
	}
}

func TestSplitAndJoinRoundTrip(t *testing.T) {
	globals := context.NewGlobal()

	var sp reference.Reference
	if exc := split(&sp, globals, []value.Value{value.FromString("a,b,c"), value.FromString(",")}); exc != nil {
		t.Fatalf("split() raised: %v", exc)
	}
	spv, _ := sp.Read()
	arr := spv.AsArray()
	want := []string{"a", "b", "c"}
	if arr.Len() != len(want) {
		t.Fatalf("split() length = %d, want %d", arr.Len(), len(want))
	}
	for i, w := range want {
		if arr.Get(i).AsString() != w {
			t.Errorf("split()[%d] = %q, want %q", i, arr.Get(i).AsString(), w)
		}
	}

	var jn reference.Reference
	if exc := join(&jn, globals, []value.Value{spv, value.FromString("-")}); exc != nil {
		t.Fatalf("join() raised: %v", exc)
	}
	jv, _ := jn.Read()
	if jv.AsString() != "a-b-c" {
		t.Errorf("join(split(\"a,b,c\"), \"-\") = %q, want \"a-b-c\"", jv.AsString())
	}
}

func TestRegisterBindsStdStringNamespace(t *testing.T) {
	globals := context.NewGlobal()
	Register(globals)
	for _, name := range []string{"std.string.upper", "std.string.lower", "std.string.trim", "std.string.split", "std.string.join"} {
		if _, ok := globals.LookupStdlib(name); !ok {
			t.Errorf("Register() did not bind %q", name)
		}
	}
}
