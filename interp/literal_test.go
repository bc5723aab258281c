package interp

import "testing"

func TestLiteralRoundTrip(t *testing.T) {
	cases := []Literal{
		VoidLit(),
		NumberLit(42),
		NumberLit(-1),
		FloatLit(3.25),
		StringLit("hello, world"),
		CharLit('λ'),
		IdentLit("foo"),
		BoolLit(true),
		BoolLit(false),
		TypeNameLit("num"),
	}
	for _, lit := range cases {
		e := newEncoder()
		if err := lit.WriteBinary(e); err != nil {
			t.Fatalf("write %v: %v", lit, err)
		}
		got, err := ReadLiteral(newDecoder(e.Bytes()))
		if err != nil {
			t.Fatalf("read %v: %v", lit, err)
		}
		if got.Kind != lit.Kind {
			t.Fatalf("kind mismatch: want %v got %v", lit.Kind, got.Kind)
		}
		if got.String() != lit.String() {
			t.Fatalf("round trip mismatch: want %q got %q", lit.String(), got.String())
		}
	}
}

func TestLiteralStructRoundTrip(t *testing.T) {
	tmpl := newTemplate(0, "Point")
	tmpl.VarTypes["x"] = "num"
	tmpl.VarTypes["y"] = "num"
	inst := newEmptyInstance(tmpl)
	inst.Vars["x"] = NumberLit(1)
	inst.Vars["y"] = NumberLit(2)
	lit := StructLit(inst)

	e := newEncoder()
	if err := lit.WriteBinary(e); err != nil {
		t.Fatal(err)
	}
	got, err := ReadLiteral(newDecoder(e.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != LitStruct {
		t.Fatalf("expected LitStruct, got %v", got.Kind)
	}
	if got.Struct.Typename != "Point" {
		t.Fatalf("expected typename Point, got %q", got.Struct.Typename)
	}
	if got.Struct.Vars["x"].Num != 1 || got.Struct.Vars["y"].Num != 2 {
		t.Fatalf("instance vars not preserved: %+v", got.Struct.Vars)
	}
}

func TestLiteralTruthy(t *testing.T) {
	tests := []struct {
		lit  Literal
		want bool
	}{
		{VoidLit(), false},
		{NumberLit(0), false},
		{NumberLit(1), true},
		{BoolLit(false), false},
		{BoolLit(true), true},
		{StringLit(""), true},
	}
	for _, tt := range tests {
		if got := tt.lit.Truthy(); got != tt.want {
			t.Errorf("%v.Truthy() = %v, want %v", tt.lit, got, tt.want)
		}
	}
}

func TestLiteralTypeMatches(t *testing.T) {
	if !NumberLit(1).TypeMatches(NumberLit(99)) {
		t.Error("two numbers should type-match regardless of value")
	}
	if NumberLit(1).TypeMatches(FloatLit(1)) {
		t.Error("number and float must not type-match")
	}

	ta := newTemplate(1, "A")
	tb := newTemplate(2, "B")
	sa1 := StructLit(newEmptyInstance(ta))
	sa2 := StructLit(newEmptyInstance(ta))
	sb := StructLit(newEmptyInstance(tb))
	if !sa1.TypeMatches(sa2) {
		t.Error("two instances of the same structure should type-match")
	}
	if sa1.TypeMatches(sb) {
		t.Error("instances of different structures must not type-match")
	}
}

func TestLiteralInvalidDiscriminant(t *testing.T) {
	d := newDecoder([]byte{0xFE})
	if _, err := ReadLiteral(d); err == nil {
		t.Fatal("expected decode error for unknown literal discriminant")
	}
}
