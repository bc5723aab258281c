package interp

import (
	"bytes"
	"strings"
	"testing"
)

func TestUseCorePanicAndExit(t *testing.T) {
	it := New(Options{})
	if err := it.UseFeature(FeatureCore); err != nil {
		t.Fatal(err)
	}
	_, err := it.callByName("std::panic", []Literal{StringLit("boom")}, Literal{}, false)
	if err == nil {
		t.Fatal("expected std::panic to fail the call")
	}
	if p, ok := err.(*Panic); !ok || p.Value != "boom" {
		t.Fatalf("expected *Panic{boom}, got %#v", err)
	}

	func() {
		defer func() {
			r := recover()
			code, ok := ExitCode(r)
			if !ok || code != 3 {
				t.Fatalf("expected exit code 3, got %v (ok=%v)", code, ok)
			}
		}()
		_, _ = it.callByName("std::exit", []Literal{NumberLit(3)}, Literal{}, false)
		t.Fatal("std::exit should panic rather than return")
	}()
}

func TestUseIOPrintAndFmt(t *testing.T) {
	var out bytes.Buffer
	it := New(Options{Stdout: &out})
	if err := it.UseFeature(FeatureIO); err != nil {
		t.Fatal(err)
	}
	if _, err := it.callByName("std::io::println", []Literal{StringLit("hi")}, Literal{}, false); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); strings.TrimSpace(got) != "hi" {
		t.Fatalf("expected 'hi', got %q", got)
	}

	ret, err := it.callByName("std::io::fmt", []Literal{StringLit("{} + {} = {}"), NumberLit(2), NumberLit(3), NumberLit(5)}, Literal{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if ret.Str != "2 + 3 = 5" {
		t.Fatalf("expected '2 + 3 = 5', got %q", ret.Str)
	}
}

func TestUseMathMinMaxCanonical(t *testing.T) {
	it := New(Options{})
	if err := it.UseFeature(FeatureMath); err != nil {
		t.Fatal(err)
	}
	min, err := it.callByName("std::math::min", []Literal{NumberLit(7), NumberLit(2)}, Literal{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if min.Num != 2 {
		t.Fatalf("min(7,2) should be 2, got %v", min)
	}
	max, err := it.callByName("std::math::max", []Literal{NumberLit(7), NumberLit(2)}, Literal{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if max.Num != 7 {
		t.Fatalf("max(7,2) should be 7, got %v", max)
	}
}

func TestTransmuteNumberFloatRoundTrip(t *testing.T) {
	it := New(Options{})
	if err := it.UseFeature(FeatureMemory); err != nil {
		t.Fatal(err)
	}
	got, err := it.transmute(NumberLit(7), "float")
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != LitFloat || got.Flt != 7 {
		t.Fatalf("expected float 7, got %v", got)
	}

	back, err := it.transmute(got, "num")
	if err != nil {
		t.Fatal(err)
	}
	if back.Kind != LitNumber || back.Num != 7 {
		t.Fatalf("expected num 7, got %v", back)
	}
}

func TestUnwrapVersionedRejectsNewerMajor(t *testing.T) {
	blob, err := wrapVersioned(func(e *Encoder) error { return e.WriteU8(1) })
	if err != nil {
		t.Fatal(err)
	}
	// Tamper with the version prefix to claim a newer major version.
	e := newEncoder()
	if err := e.WriteString("v2.0.0"); err != nil {
		t.Fatal(err)
	}
	tampered := append(e.Bytes(), blob[len(blob)-1])

	err = unwrapVersioned(tampered, func(d *Decoder) error {
		_, rerr := d.ReadU8()
		return rerr
	})
	if err == nil {
		t.Fatal("expected newer-major-version blob to be rejected")
	}
}

func TestUsePreludeImportsResolveByCall(t *testing.T) {
	var out bytes.Buffer
	it := New(Options{Stdout: &out})
	if err := it.UseFeature(FeaturePrelude); err != nil {
		t.Fatal(err)
	}
	it.currentScopeName = "global"
	if _, err := it.callByName("println", []Literal{StringLit("from prelude")}, Literal{}, false); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "from prelude" {
		t.Fatalf("expected prelude-imported println to run, got %q", out.String())
	}
}
