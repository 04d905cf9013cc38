package runtime

import (
	"testing"

	"asteria/context"
	"asteria/parser"
	"asteria/reference"
	"asteria/value"
)

func TestExceptionAppendGrowsBacktrace(t *testing.T) {
	exc := NewException(value.FromString("boom"), Frame{Kind: FrameThrow, File: "a.as", Line: 3})
	exc.Append(Frame{Kind: FrameCall, File: "a.as", Line: 7})

	if len(exc.Backtrace) != 2 {
		t.Fatalf("len(Backtrace) = %d, want 2", len(exc.Backtrace))
	}
	if exc.Backtrace[0].Kind != FrameThrow || exc.Backtrace[1].Kind != FrameCall {
		t.Errorf("Backtrace = %+v, want [throw, call]", exc.Backtrace)
	}
}

func TestExceptionErrorDescribesThrownValue(t *testing.T) {
	exc := NewException(value.FromString("bad input"), Frame{Kind: FrameAssert, File: "a.as", Line: 1})
	got := exc.Error()
	want := "uncaught exception: bad input"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestFrameKindString(t *testing.T) {
	tests := []struct {
		kind FrameKind
		want string
	}{
		{FrameCall, "call"},
		{FrameThrow, "throw"},
		{FrameCatch, "catch"},
		{FrameAssert, "assert"},
		{FrameNative, "native"},
		{FrameDefer, "defer"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("FrameKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNativeInvokeReturnsSetSelf(t *testing.T) {
	doubled := NewNative("double", func(self *reference.Reference, globals *context.Global, args []value.Value) *Exception {
		*self = reference.Temporary(value.FromInt(args[0].AsInteger() * 2))
		return nil
	})

	got, exc := doubled.Invoke(context.NewGlobal(), []value.Value{value.FromInt(21)})
	if exc != nil {
		t.Fatalf("Invoke() exception = %v", exc)
	}
	if got.Type() != value.TypeInteger || got.AsInteger() != 42 {
		t.Errorf("Invoke() = %v, want 42", got)
	}
}

func TestNativeInvokeVoidSelfYieldsNull(t *testing.T) {
	noop := NewNative("noop", func(self *reference.Reference, globals *context.Global, args []value.Value) *Exception {
		return nil
	})

	got, exc := noop.Invoke(context.NewGlobal(), nil)
	if exc != nil {
		t.Fatalf("Invoke() exception = %v", exc)
	}
	if !got.IsNull() {
		t.Errorf("Invoke() = %v, want null", got)
	}
}

func TestClassifyCompileErrorAssignsStatusCode(t *testing.T) {
	se := parser.CreateSyntaxError("a.as", 3, 5, "expected ';' after expression")
	ce := ClassifyCompileError(se)
	if ce.Status != StatusSemicolonExpected {
		t.Errorf("Status = %v, want StatusSemicolonExpected", ce.Status)
	}
	if ce.At.File != "a.as" || ce.At.Line != 3 {
		t.Errorf("At = %+v, want file a.as line 3", ce.At)
	}
}

func TestClassifyCompileErrorsUnknownForUnrecognizedMessage(t *testing.T) {
	se := parser.CreateSyntaxError("a.as", 1, 1, "something bespoke went wrong")
	ce := ClassifyCompileError(se)
	if ce.Status != StatusUnknown {
		t.Errorf("Status = %v, want StatusUnknown", ce.Status)
	}
}

func TestNativeInvokePropagatesException(t *testing.T) {
	failing := NewNative("fail", func(self *reference.Reference, globals *context.Global, args []value.Value) *Exception {
		return NewException(value.FromString("nope"), Frame{Kind: FrameNative, File: "<native>", Line: 0})
	})

	_, exc := failing.Invoke(context.NewGlobal(), nil)
	if exc == nil {
		t.Fatal("Invoke() exception = nil, want non-nil")
	}
	if exc.Thrown.AsString() != "nope" {
		t.Errorf("Thrown = %v, want %q", exc.Thrown, "nope")
	}
}
