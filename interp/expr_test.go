package interp

import "testing"

func TestApplyBinaryOpArithmetic(t *testing.T) {
	tests := []struct {
		op   BinaryOp
		l, r Literal
		want Literal
	}{
		{OpAdd, NumberLit(2), NumberLit(3), NumberLit(5)},
		{OpSub, NumberLit(5), NumberLit(3), NumberLit(2)},
		{OpMul, NumberLit(4), NumberLit(3), NumberLit(12)},
		{OpDiv, NumberLit(10), NumberLit(2), NumberLit(5)},
		{OpMod, NumberLit(10), NumberLit(3), NumberLit(1)},
		{OpAdd, FloatLit(1.5), FloatLit(2.5), FloatLit(4)},
		{OpAdd, StringLit("a"), StringLit("b"), StringLit("ab")},
		{OpAdd, CharLit('a'), CharLit('b'), StringLit("ab")},
		{OpBitRsh, NumberLit(8), NumberLit(2), NumberLit(2)},
		{OpBitLsh, NumberLit(1), NumberLit(3), NumberLit(8)},
		{OpLt, NumberLit(1), NumberLit(2), BoolLit(true)},
		{OpGt, NumberLit(2), NumberLit(1), BoolLit(true)},
		{OpAnd, BoolLit(true), BoolLit(false), BoolLit(false)},
		{OpOr, BoolLit(true), BoolLit(false), BoolLit(true)},
		{OpEq, BoolLit(true), BoolLit(true), BoolLit(true)},
		{OpNeq, BoolLit(true), BoolLit(false), BoolLit(true)},
		{OpBitAnd, BoolLit(true), BoolLit(false), BoolLit(false)},
		{OpBitOr, BoolLit(true), BoolLit(false), BoolLit(true)},
		{OpBitXor, BoolLit(true), BoolLit(false), BoolLit(true)},
	}
	for _, tt := range tests {
		got, err := applyBinaryOp(tt.op, tt.l, tt.r)
		if err != nil {
			t.Fatalf("%v %v %v: unexpected error: %v", tt.l, tt.op, tt.r, err)
		}
		if got.Kind != tt.want.Kind || got.String() != tt.want.String() {
			t.Fatalf("%v %v %v = %v, want %v", tt.l, tt.op, tt.r, got, tt.want)
		}
	}
}

func TestApplyBinaryOpDivisionByZero(t *testing.T) {
	if _, err := applyBinaryOp(OpDiv, NumberLit(1), NumberLit(0)); err == nil {
		t.Fatal("expected division by zero to fail")
	}
	if _, err := applyBinaryOp(OpMod, NumberLit(1), NumberLit(0)); err == nil {
		t.Fatal("expected modulo by zero to fail")
	}
}

func TestApplyBinaryOpTypeMismatch(t *testing.T) {
	if _, err := applyBinaryOp(OpSub, NumberLit(1), FloatLit(1)); err == nil {
		t.Fatal("expected type error mixing num and float")
	}
	if _, err := applyBinaryOp(OpAnd, NumberLit(1), NumberLit(0)); err == nil {
		t.Fatal("expected type error: && requires bool operands")
	}
}

func TestUnaryOpNegRequiresBool(t *testing.T) {
	it := New(Options{})
	x := &Expr{Kind: ExprUnaryOp, UnOp: OpNeg, Operand: litTok(BoolLit(true))}
	if err := it.visitUnaryOp(x); err != nil {
		t.Fatal(err)
	}
	v, err := it.popStack()
	if err != nil || v.Bool != false {
		t.Fatalf("!true should be false, got %v (err %v)", v, err)
	}

	x2 := &Expr{Kind: ExprUnaryOp, UnOp: OpNeg, Operand: litTok(NumberLit(1))}
	if err := it.visitUnaryOp(x2); err == nil {
		t.Fatal("expected error negating a non-bool with Neg")
	}
}

func TestUnaryOpRevNumberAndFloat(t *testing.T) {
	it := New(Options{})
	x := &Expr{Kind: ExprUnaryOp, UnOp: OpRev, Operand: litTok(NumberLit(5))}
	if err := it.visitUnaryOp(x); err != nil {
		t.Fatal(err)
	}
	if v, _ := it.popStack(); v.Num != -5 {
		t.Fatalf("expected -5, got %v", v)
	}

	x2 := &Expr{Kind: ExprUnaryOp, UnOp: OpRev, Operand: litTok(FloatLit(2.5))}
	if err := it.visitUnaryOp(x2); err != nil {
		t.Fatal(err)
	}
	if v, _ := it.popStack(); v.Flt != -2.5 {
		t.Fatalf("expected -2.5, got %v", v)
	}
}

func TestExprRoundTripEachKind(t *testing.T) {
	exprs := []*Expr{
		{Kind: ExprBinaryOp, BinOp: OpAdd, Left: litTok(NumberLit(1)), Right: litTok(NumberLit(2))},
		{Kind: ExprUnaryOp, UnOp: OpRev, Operand: litTok(NumberLit(3))},
		{Kind: ExprStaticAccess, Path: []string{"scope", "name"}},
		{Kind: ExprInstanceAccess, Instance: litTok(IdentLit("p")), IPath: []string{"x"}},
		{Kind: ExprInvokeStatic, Name: "add", Args: []Token{litTok(NumberLit(1)), litTok(NumberLit(2))}},
		{Kind: ExprInvokeInstance, Name: "p.move", Args: []Token{litTok(NumberLit(1))}},
		{Kind: ExprIfStmt},
		{Kind: ExprElifStmt},
		{Kind: ExprElseStmt},
		{Kind: ExprWhileStmt},
	}
	for _, x := range exprs {
		e := newEncoder()
		if err := x.WriteBinary(e); err != nil {
			t.Fatalf("write %v: %v", x, err)
		}
		got, err := ReadExpr(newDecoder(e.Bytes()))
		if err != nil {
			t.Fatalf("read %v: %v", x, err)
		}
		if got.Kind != x.Kind {
			t.Fatalf("kind mismatch: want %v got %v", x.Kind, got.Kind)
		}
	}
}

func TestExprStaticAndInstanceAccessShareWireTag(t *testing.T) {
	static := &Expr{Kind: ExprStaticAccess, Path: []string{"a", "b"}}
	instance := &Expr{Kind: ExprInstanceAccess, Instance: litTok(IdentLit("p")), IPath: []string{"x"}}

	es := newEncoder()
	if err := static.WriteBinary(es); err != nil {
		t.Fatal(err)
	}
	ei := newEncoder()
	if err := instance.WriteBinary(ei); err != nil {
		t.Fatal(err)
	}
	if es.Bytes()[0] != ei.Bytes()[0] {
		t.Fatalf("StaticAccess and InstanceAccess must share the same leading discriminant byte, got %#x and %#x", es.Bytes()[0], ei.Bytes()[0])
	}

	gs, err := ReadExpr(newDecoder(es.Bytes()))
	if err != nil || gs.Kind != ExprStaticAccess {
		t.Fatalf("expected StaticAccess back, got %v (err %v)", gs, err)
	}
	gi, err := ReadExpr(newDecoder(ei.Bytes()))
	if err != nil || gi.Kind != ExprInstanceAccess {
		t.Fatalf("expected InstanceAccess back, got %v (err %v)", gi, err)
	}
}

func TestVisitAssignRequiresIdentTarget(t *testing.T) {
	it := New(Options{})
	if err := it.currentScope().DeclareMutable("x", NumberLit(1)); err != nil {
		t.Fatal(err)
	}
	x := &Expr{Kind: ExprBinaryOp, BinOp: OpAssign, Left: litTok(IdentLit("x")), Right: litTok(NumberLit(9))}
	if err := it.visitBinaryOp(x); err != nil {
		t.Fatal(err)
	}
	v, ok := it.currentScope().lookupLocal("x")
	if !ok || v.Num != 9 {
		t.Fatalf("expected x to be reassigned to 9, got %v", v)
	}

	bad := &Expr{Kind: ExprBinaryOp, BinOp: OpAssign, Left: litTok(NumberLit(1)), Right: litTok(NumberLit(2))}
	if err := it.visitBinaryOp(bad); err == nil {
		t.Fatal("expected error assigning to a non-identifier target")
	}
}
