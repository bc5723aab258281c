package interp

import "testing"

func pointBody() []Token {
	return []Token{
		kwTok(KwLet), litTok(IdentLit("x")), litTok(TypeNameLit("num")),
		kwTok(KwLet), litTok(IdentLit("y")), litTok(TypeNameLit("num")),
	}
}

func TestDeclareStructurePopulatesVarTypeSchema(t *testing.T) {
	it := New(Options{})
	if err := it.DeclareStructure("Point", pointBody()); err != nil {
		t.Fatal(err)
	}
	tmpl, ok := it.currentScope().lookupStructLocal("Point")
	if !ok {
		t.Fatal("expected Point to be registered in the declaring scope")
	}
	if tmpl.VarTypes["x"] != "num" || tmpl.VarTypes["y"] != "num" {
		t.Fatalf("expected x and y schema entries, got %+v", tmpl.VarTypes)
	}
}

func TestInstantiatePositionalArgs(t *testing.T) {
	it := New(Options{})
	if err := it.DeclareStructure("Point", pointBody()); err != nil {
		t.Fatal(err)
	}
	tmpl, _ := it.currentScope().lookupStructLocal("Point")

	inst, err := it.instantiate(tmpl, []Token{litTok(NumberLit(10)), litTok(NumberLit(20))})
	if err != nil {
		t.Fatal(err)
	}
	if inst.Vars["x"].Num != 10 || inst.Vars["y"].Num != 20 {
		t.Fatalf("expected x=10 y=20, got %+v", inst.Vars)
	}
}

func TestInstantiateTypeCheckRejectsBadArg(t *testing.T) {
	it := New(Options{})
	if err := it.DeclareStructure("Point", pointBody()); err != nil {
		t.Fatal(err)
	}
	tmpl, _ := it.currentScope().lookupStructLocal("Point")

	if _, err := it.instantiate(tmpl, []Token{litTok(StringLit("ten")), litTok(NumberLit(20))}); err == nil {
		t.Fatal("expected type error assigning a string into a num field")
	}
}

func TestSetInstanceVarEnforcesSchema(t *testing.T) {
	it := New(Options{})
	if err := it.DeclareStructure("Point", pointBody()); err != nil {
		t.Fatal(err)
	}
	tmpl, _ := it.currentScope().lookupStructLocal("Point")
	inst := newEmptyInstance(tmpl)

	if err := it.setInstanceVar(inst, "x", NumberLit(5)); err != nil {
		t.Fatal(err)
	}
	if err := it.setInstanceVar(inst, "x", StringLit("nope")); err == nil {
		t.Fatal("expected type error setting a num field to a string")
	}
	if err := it.setInstanceVar(inst, "z", NumberLit(1)); err == nil {
		t.Fatal("expected name error setting an undeclared field")
	}
}

func TestStructureTemplateRoundTrip(t *testing.T) {
	it := New(Options{})
	if err := it.DeclareStructure("Point", pointBody()); err != nil {
		t.Fatal(err)
	}
	tmpl, _ := it.currentScope().lookupStructLocal("Point")
	tmpl.Methods["reset"] = Callable{Kind: CallInstance, OutType: "unknown", ParamNames: []string{"this"}, Body: nil}

	e := newEncoder()
	if err := tmpl.WriteBinary(e); err != nil {
		t.Fatal(err)
	}
	got, err := ReadStructureTemplate(newDecoder(e.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Typename != "Point" {
		t.Fatalf("expected typename Point, got %q", got.Typename)
	}
	if got.VarTypes["x"] != "num" || got.VarTypes["y"] != "num" {
		t.Fatalf("var types not preserved: %+v", got.VarTypes)
	}
	if _, ok := got.Methods["reset"]; !ok {
		t.Fatalf("methods not preserved: %+v", got.Methods)
	}
}

func TestStructureInstanceDebugString(t *testing.T) {
	tmpl := newTemplate(0, "Point")
	tmpl.VarTypes["x"] = "num"
	inst := newEmptyInstance(tmpl)
	inst.Vars["x"] = NumberLit(7)

	if got := inst.debugString(false); got != "Point{...}" {
		t.Fatalf("compact debug form mismatch: %q", got)
	}
	if got := inst.debugString(true); got == "" {
		t.Fatal("pretty debug form should not be empty")
	}
}
