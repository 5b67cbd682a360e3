package script

import (
	"errors"
	"strings"
	"testing"
)

func TestFaultWrapsOnce(t *testing.T) {
	base := errors.New("divide by zero")
	err := Fault(KindBrush, "soft", base)

	kind, ok := IsFault(err)
	if !ok || kind != KindBrush {
		t.Fatalf("IsFault = %v, %v; want brush script", kind, ok)
	}
	if !errors.Is(err, base) {
		t.Error("fault should unwrap to the underlying error")
	}
	if !strings.Contains(err.Error(), "brush script") {
		t.Errorf("message %q should name the script kind", err.Error())
	}

	again := Fault(KindEffect, "x", err)
	if kind, _ := IsFault(again); kind != KindBrush {
		t.Errorf("re-wrapping changed kind to %v", kind)
	}

	if Fault(KindBrush, "", nil) != nil {
		t.Error("Fault(nil) should be nil")
	}
}

func TestRecoveredFromPanicValue(t *testing.T) {
	err := Recovered(KindGenerator, "", "index out of range")
	if kind, ok := IsFault(err); !ok || kind != KindGenerator {
		t.Fatalf("got %v, %v", kind, ok)
	}
	if !strings.Contains(err.Error(), "index out of range") {
		t.Errorf("message %q lost the panic value", err.Error())
	}
}

func TestRegistryLookup(t *testing.T) {
	RegisterBlend("test-sum", func(Params) BlendFunc {
		return func(a, b float32) (float32, error) { return a + b, nil }
	})

	fn, err := Blend("test-sum", nil)
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if v, _ := fn(1, 2); v != 3 {
		t.Errorf("test-sum(1,2) = %v", v)
	}

	if _, err := Blend("missing", nil); !errors.Is(err, ErrMissingFunction) {
		t.Errorf("missing blend err = %v", err)
	}
}

func TestParamsGet(t *testing.T) {
	p := Params{"scale": 2}
	if p.Get("scale", 1) != 2 {
		t.Error("expected stored value")
	}
	if p.Get("seed", 7) != 7 {
		t.Error("expected default")
	}
	var nilParams Params
	if nilParams.Get("seed", 3) != 3 {
		t.Error("nil params should return default")
	}
}
