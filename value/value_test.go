package value

import (
	"math"
	"testing"
)

func TestCompareNumeric(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want Ordering
	}{
		{"int less", FromInt(1), FromInt(2), Less},
		{"int greater", FromInt(2), FromInt(1), Greater},
		{"int equal", FromInt(5), FromInt(5), Equal},
		{"int vs real", FromInt(2), FromReal(2.0), Equal},
		{"real less", FromReal(1.5), FromReal(2.5), Less},
		{"nan unordered", FromReal(math.NaN()), FromReal(1.0), Unordered},
		{"nan vs itself unordered", FromReal(math.NaN()), FromReal(math.NaN()), Unordered},
		{"null equal", Null(), Null(), Equal},
		{"string less", FromString("a"), FromString("b"), Less},
		{"cross type unordered", FromInt(1), FromString("1"), Unordered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEqualNaNIsFalse(t *testing.T) {
	nan := FromReal(math.NaN())
	if Equal(nan, nan) {
		t.Error("Equal(NaN, NaN) = true, want false")
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null(), false},
		{"false", FromBool(false), false},
		{"true", FromBool(true), true},
		{"zero int", FromInt(0), false},
		{"nonzero int", FromInt(1), true},
		{"empty string", FromString(""), false},
		{"nonempty string", FromString("x"), true},
		{"empty array", FromArray(NewArray()), false},
		{"nonempty array", FromArray(NewArray(FromInt(1))), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Truthy(); got != tt.want {
				t.Errorf("Truthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArrayShareIsCopyOnWrite(t *testing.T) {
	a := NewArray(FromInt(1), FromInt(2), FromInt(3))
	b := a.Share()

	b.Set(0, FromInt(99))

	if a.Get(0).AsInteger() != 1 {
		t.Errorf("mutating the shared handle changed the original: a[0] = %v", a.Get(0))
	}
	if b.Get(0).AsInteger() != 99 {
		t.Errorf("b[0] = %v, want 99", b.Get(0))
	}
}

func TestArrayNegativeIndexWraps(t *testing.T) {
	a := NewArray(FromInt(10), FromInt(20), FromInt(30))
	if got := a.Get(-1).AsInteger(); got != 30 {
		t.Errorf("a[-1] = %v, want 30", got)
	}
}

func TestObjectPreservesInsertionOrder(t *testing.T) {
	o := NewObject()
	o.Set("z", FromInt(1))
	o.Set("a", FromInt(2))
	o.Set("m", FromInt(3))

	want := []string{"z", "a", "m"}
	got := o.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i, k := range want {
		if got[i] != k {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], k)
		}
	}
}

func TestObjectShareIsCopyOnWrite(t *testing.T) {
	a := NewObject()
	a.Set("k", FromInt(1))
	b := a.Share()
	b.Set("k", FromInt(2))

	av, _ := a.Get("k")
	bv, _ := b.Get("k")
	if av.AsInteger() != 1 {
		t.Errorf("mutating the shared handle changed the original: a[k] = %v", av)
	}
	if bv.AsInteger() != 2 {
		t.Errorf("b[k] = %v, want 2", bv)
	}
}
