package reference

import (
	"testing"

	"asteria/value"
	"asteria/variable"
)

func newBoundVariable(v value.Value) *variable.Variable {
	vr := variable.New()
	vr.Initialize(v, false)
	return vr
}

func TestReadUninitializedFails(t *testing.T) {
	if _, err := Uninitialized().Read(); err == nil {
		t.Error("Read() on an uninitialized reference succeeded, want error")
	}
}

func TestReadVoidFails(t *testing.T) {
	if _, err := Void().Read(); err == nil {
		t.Error("Read() on a void reference succeeded, want error")
	}
}

func TestReadTemporary(t *testing.T) {
	ref := Temporary(value.FromInt(42))
	got, err := ref.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.AsInteger() != 42 {
		t.Errorf("Read() = %v, want 42", got)
	}
}

func TestReadNullPropagatesThroughModifiers(t *testing.T) {
	ref := FromVariable(newBoundVariable(value.Null())).
		WithModifier(Modifier{Kind: ModKey, Key: "x"}).
		WithModifier(Modifier{Kind: ModIndex, Index: 0})
	got, err := ref.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !got.IsNull() {
		t.Errorf("Read() through a null intermediate = %v, want null", got)
	}
}

func TestReadMutableReportsAbsentThroughNull(t *testing.T) {
	ref := FromVariable(newBoundVariable(value.Null())).
		WithModifier(Modifier{Kind: ModKey, Key: "x"})
	_, present, err := ref.ReadMutable()
	if err != nil {
		t.Fatalf("ReadMutable() error = %v", err)
	}
	if present {
		t.Error("ReadMutable() through a null intermediate reported present, want absent")
	}
}

func TestIndexModifierNegativeWraparound(t *testing.T) {
	arr := value.NewArray(value.FromInt(10), value.FromInt(20), value.FromInt(30))
	ref := FromVariable(newBoundVariable(value.FromArray(arr))).
		WithModifier(Modifier{Kind: ModIndex, Index: -1})
	got, err := ref.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.AsInteger() != 30 {
		t.Errorf("a[-1] = %v, want 30", got)
	}
}

func TestOpenAutoVivifiesNullIntoObject(t *testing.T) {
	root := newBoundVariable(value.Null())
	ref := FromVariable(root).WithModifier(Modifier{Kind: ModKey, Key: "name"})

	_, setter, err := ref.Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	setter(value.FromString("asteria"))

	rootVal := root.Get()
	if rootVal.Type() != value.TypeObject {
		t.Fatalf("root became %v, want object", rootVal.Type())
	}
	got, ok := rootVal.AsObject().Get("name")
	if !ok || got.AsString() != "asteria" {
		t.Errorf("root.name = %v, want \"asteria\"", got)
	}
}

func TestOpenAutoVivifiesNullIntoArray(t *testing.T) {
	root := newBoundVariable(value.Null())
	ref := FromVariable(root).WithModifier(Modifier{Kind: ModIndex, Index: 2})

	_, setter, err := ref.Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	setter(value.FromInt(7))

	rootVal := root.Get()
	if rootVal.Type() != value.TypeArray {
		t.Fatalf("root became %v, want array", rootVal.Type())
	}
	if rootVal.AsArray().Get(2).AsInteger() != 7 {
		t.Errorf("root[2] = %v, want 7", rootVal.AsArray().Get(2))
	}
}

func TestOpenOnImmutableVariableFails(t *testing.T) {
	v := variable.New()
	v.Initialize(value.FromInt(1), true)
	ref := FromVariable(v)
	if _, _, err := ref.Open(); err == nil {
		t.Error("Open() on an immutable variable succeeded, want error")
	}
}

func TestUnsetRemovesVariableValue(t *testing.T) {
	v := newBoundVariable(value.FromInt(9))
	ref := FromVariable(v)
	prev, err := ref.Unset()
	if err != nil {
		t.Fatalf("Unset() error = %v", err)
	}
	if prev.AsInteger() != 9 {
		t.Errorf("Unset() previous value = %v, want 9", prev)
	}
	if !v.Get().IsNull() {
		t.Errorf("variable after Unset() = %v, want null", v.Get())
	}
}

func TestUnsetObjectKey(t *testing.T) {
	obj := value.NewObject()
	obj.Set("a", value.FromInt(1))
	root := newBoundVariable(value.FromObject(obj))
	ref := FromVariable(root).WithModifier(Modifier{Kind: ModKey, Key: "a"})

	prev, err := ref.Unset()
	if err != nil {
		t.Fatalf("Unset() error = %v", err)
	}
	if prev.AsInteger() != 1 {
		t.Errorf("Unset() previous value = %v, want 1", prev)
	}
	if _, ok := root.Get().AsObject().Get("a"); ok {
		t.Error("key \"a\" still present after Unset()")
	}
}

func TestWithModifierComposesWithoutMutatingOriginal(t *testing.T) {
	base := Temporary(value.Null())
	extended := base.WithModifier(Modifier{Kind: ModKey, Key: "x"})
	if len(base.mods) != 0 {
		t.Errorf("WithModifier mutated the receiver's modifier slice: %v", base.mods)
	}
	if len(extended.mods) != 1 {
		t.Errorf("extended.mods = %v, want length 1", extended.mods)
	}
}

func TestTailCallPlaceholderRoundTrips(t *testing.T) {
	callee := Temporary(value.FromInt(1))
	args := []Reference{Temporary(value.FromInt(2))}
	ph := TailCallPlaceholder(callee, args)

	if !ph.IsTailCall() {
		t.Fatal("IsTailCall() = false, want true")
	}
	gotCallee, gotArgs := ph.TailCall()
	v, _ := gotCallee.Read()
	if v.AsInteger() != 1 {
		t.Errorf("tail call callee = %v, want 1", v)
	}
	if len(gotArgs) != 1 {
		t.Fatalf("tail call args = %v, want length 1", gotArgs)
	}
}
