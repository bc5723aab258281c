package interp

import "testing"

func TestCallableRoundTripStandardAndExtern(t *testing.T) {
	static := Callable{Kind: CallStatic, OutType: "num", ParamNames: []string{"a", "b"}, Body: []Token{litTok(NumberLit(1))}}
	instance := Callable{Kind: CallInstance, OutType: "unknown", ParamNames: []string{"this", "n"}, Body: []Token{litTok(NumberLit(2))}}
	extern := Callable{Kind: CallExtern, OutType: "str", ParamNames: []string{"v"}, HandlerID: 7}

	for _, c := range []Callable{static, instance, extern} {
		e := newEncoder()
		if err := c.WriteBinary(e); err != nil {
			t.Fatalf("write %+v: %v", c, err)
		}
		got, err := ReadCallable(newDecoder(e.Bytes()))
		if err != nil {
			t.Fatalf("read %+v: %v", c, err)
		}
		if got.Kind != c.Kind || got.OutType != c.OutType || len(got.ParamNames) != len(c.ParamNames) {
			t.Fatalf("round trip mismatch: want %+v got %+v", c, got)
		}
		if c.Kind == CallExtern && got.HandlerID != c.HandlerID {
			t.Fatalf("handler id mismatch: want %d got %d", c.HandlerID, got.HandlerID)
		}
	}
}

func TestCheckArityVarargsBypasses(t *testing.T) {
	c := Callable{ParamNames: []string{"pattern", varargsSentinel}}
	if err := checkArity(c, nil); err != nil {
		t.Fatalf("varargs callable should accept zero args: %v", err)
	}
	if err := checkArity(c, []Literal{NumberLit(1), NumberLit(2), NumberLit(3)}); err != nil {
		t.Fatalf("varargs callable should accept any arg count: %v", err)
	}
}

func TestCheckArityFixedParamsRejectsMismatch(t *testing.T) {
	c := Callable{ParamNames: []string{"a", "b"}}
	if err := checkArity(c, []Literal{NumberLit(1)}); err == nil {
		t.Fatal("expected arity error for too few args")
	}
	if err := checkArity(c, []Literal{NumberLit(1), NumberLit(2)}); err != nil {
		t.Fatal(err)
	}
}

func TestCheckReturnTypeUnknownSkipsCheck(t *testing.T) {
	c := Callable{OutType: "unknown"}
	if err := checkReturnType(c, StringLit("anything")); err != nil {
		t.Fatal(err)
	}
}

func TestCheckReturnTypeMismatchErrors(t *testing.T) {
	c := Callable{OutType: "num"}
	if err := checkReturnType(c, StringLit("nope")); err == nil {
		t.Fatal("expected type error for mismatched return type")
	}
	if err := checkReturnType(c, NumberLit(1)); err != nil {
		t.Fatal(err)
	}
}

func TestInvokeCallableStaticFunction(t *testing.T) {
	it := New(Options{})
	// A function body's last expression result is left on the stack and
	// popped as the return value; no Return keyword is needed.
	c := Callable{
		Kind:       CallStatic,
		OutType:    "num",
		ParamNames: []string{"a", "b"},
		Body: []Token{
			exprTok(&Expr{Kind: ExprBinaryOp, BinOp: OpAdd, Left: litTok(IdentLit("a")), Right: litTok(IdentLit("b"))}),
		},
	}

	ret, err := it.invokeCallable(c, []Literal{NumberLit(2), NumberLit(3)}, Literal{}, false, "add")
	if err != nil {
		t.Fatal(err)
	}
	if ret.Num != 5 {
		t.Fatalf("expected 2+3=5, got %v", ret)
	}
}

func TestInvokeCallableExternDispatch(t *testing.T) {
	it := New(Options{})
	if err := it.RegisterExtern("std::test", "double", "num", []string{"n"}, func(args []Literal) (Literal, error) {
		return NumberLit(args[0].Num * 2), nil
	}); err != nil {
		t.Fatal(err)
	}
	ret, err := it.callByName("std::test::double", []Literal{NumberLit(21)}, Literal{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if ret.Num != 42 {
		t.Fatalf("expected 42, got %v", ret)
	}
}

func TestInvokeCallableArityErrorPropagates(t *testing.T) {
	it := New(Options{})
	c := Callable{Kind: CallStatic, OutType: "unknown", ParamNames: []string{"a", "b"}, Body: nil}
	if _, err := it.invokeCallable(c, []Literal{NumberLit(1)}, Literal{}, false, "f"); err == nil {
		t.Fatal("expected arity error")
	}
}
