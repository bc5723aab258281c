package interp

import (
	"fmt"
	"sort"
	"strings"
)

// BinaryOp enumerates the dyadic operators an Expr can carry.
type BinaryOp uint8

const (
	OpAssign BinaryOp = iota
	OpAdd
	OpSub
	OpDiv
	OpMul
	OpMod
	OpAnd
	OpOr
	OpEq
	OpNeq
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitRsh
	OpBitLsh
	OpLt
	OpGt
)

func (op BinaryOp) String() string {
	switch op {
	case OpAssign:
		return "="
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpDiv:
		return "/"
	case OpMul:
		return "*"
	case OpMod:
		return "%"
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpBitAnd:
		return "&"
	case OpBitOr:
		return "|"
	case OpBitXor:
		return "^"
	case OpBitRsh:
		return ">>"
	case OpBitLsh:
		return "<<"
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	default:
		return "?op"
	}
}

// UnaryOp enumerates the monadic operators an Expr can carry.
type UnaryOp uint8

const (
	// OpNeg is logical not, defined only for Bool operands.
	OpNeg UnaryOp = iota
	// OpRev is arithmetic negation, defined for Number and Float operands.
	OpRev
)

func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "!"
	case OpRev:
		return "-"
	default:
		return "?unop"
	}
}

// ExprKind tags the variant carried by an Expr.
type ExprKind uint8

const (
	ExprBinaryOp ExprKind = iota + 1
	ExprUnaryOp
	ExprStaticAccess
	ExprInstanceAccess
	ExprInvokeStatic
	ExprInvokeInstance
	ExprIfStmt
	ExprElifStmt
	ExprElseStmt
	ExprWhileStmt
)

// Expr is the evaluator's expression-node sum. Exactly the fields relevant
// to Kind are populated. IfStmt/ElifStmt/ElseStmt/WhileStmt carry no
// operands here: the condition and body are pulled from the enclosing
// chain at visit time, per the control-flow protocol.
type Expr struct {
	Kind ExprKind

	BinOp BinaryOp
	Left  Token
	Right Token

	UnOp    UnaryOp
	Operand Token

	Path []string // StaticAccess

	Instance Token    // InstanceAccess receiver
	IPath    []string // InstanceAccess path

	Name string  // InvokeStatic / InvokeInstance qualified name
	Args []Token // argument tokens, unevaluated
}

// Expression discriminants, per the authoritative (most recent) revision
// of the source this interpreter is grounded on. Static and instance
// access share a single wire tag, disambiguated by a following bool flag,
// matching the source's single "access" variant.
const (
	tagExprBinaryOp     uint8 = 0x00
	tagExprUnaryOp      uint8 = 0x01
	tagExprAccess       uint8 = 0x02
	tagExprInvokeStatic uint8 = 0x03
	tagExprInvokeInst   uint8 = 0x04
	tagExprIfStmt       uint8 = 0x05
	tagExprElseStmt     uint8 = 0x06
	tagExprWhileStmt    uint8 = 0x07
	tagExprElifStmt     uint8 = 0x08
)

// WriteBinary implements the codec contract for Expr.
func (x *Expr) WriteBinary(e *Encoder) error {
	switch x.Kind {
	case ExprBinaryOp:
		if err := e.WriteU8(tagExprBinaryOp); err != nil {
			return err
		}
		if err := e.WriteU8(uint8(x.BinOp)); err != nil {
			return err
		}
		if err := x.Left.WriteBinary(e); err != nil {
			return err
		}
		return x.Right.WriteBinary(e)
	case ExprUnaryOp:
		if err := e.WriteU8(tagExprUnaryOp); err != nil {
			return err
		}
		if err := e.WriteU8(uint8(x.UnOp)); err != nil {
			return err
		}
		return x.Operand.WriteBinary(e)
	case ExprStaticAccess:
		if err := e.WriteU8(tagExprAccess); err != nil {
			return err
		}
		if err := e.WriteBool(false); err != nil {
			return err
		}
		return writeStrings(e, x.Path)
	case ExprInstanceAccess:
		if err := e.WriteU8(tagExprAccess); err != nil {
			return err
		}
		if err := e.WriteBool(true); err != nil {
			return err
		}
		if err := x.Instance.WriteBinary(e); err != nil {
			return err
		}
		return writeStrings(e, x.IPath)
	case ExprInvokeStatic:
		if err := e.WriteU8(tagExprInvokeStatic); err != nil {
			return err
		}
		if err := e.WriteString(x.Name); err != nil {
			return err
		}
		return writeTokens(e, x.Args)
	case ExprInvokeInstance:
		if err := e.WriteU8(tagExprInvokeInst); err != nil {
			return err
		}
		if err := e.WriteString(x.Name); err != nil {
			return err
		}
		return writeTokens(e, x.Args)
	case ExprIfStmt:
		return e.WriteU8(tagExprIfStmt)
	case ExprElifStmt:
		return e.WriteU8(tagExprElifStmt)
	case ExprElseStmt:
		return e.WriteU8(tagExprElseStmt)
	case ExprWhileStmt:
		return e.WriteU8(tagExprWhileStmt)
	default:
		return decodeErrorf("unknown expression kind %d", x.Kind)
	}
}

// ReadExpr is the exact inverse of Expr.WriteBinary.
func ReadExpr(d *Decoder) (*Expr, error) {
	tag, err := d.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagExprBinaryOp:
		opb, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		left, err := ReadToken(d)
		if err != nil {
			return nil, err
		}
		right, err := ReadToken(d)
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: ExprBinaryOp, BinOp: BinaryOp(opb), Left: left, Right: right}, nil
	case tagExprUnaryOp:
		opb, err := d.ReadU8()
		if err != nil {
			return nil, err
		}
		operand, err := ReadToken(d)
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: ExprUnaryOp, UnOp: UnaryOp(opb), Operand: operand}, nil
	case tagExprAccess:
		isInstance, err := d.ReadBool()
		if err != nil {
			return nil, err
		}
		if !isInstance {
			path, err := readStrings(d)
			if err != nil {
				return nil, err
			}
			return &Expr{Kind: ExprStaticAccess, Path: path}, nil
		}
		inst, err := ReadToken(d)
		if err != nil {
			return nil, err
		}
		path, err := readStrings(d)
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: ExprInstanceAccess, Instance: inst, IPath: path}, nil
	case tagExprInvokeStatic:
		name, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		args, err := readTokens(d)
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: ExprInvokeStatic, Name: name, Args: args}, nil
	case tagExprInvokeInst:
		name, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		args, err := readTokens(d)
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: ExprInvokeInstance, Name: name, Args: args}, nil
	case tagExprIfStmt:
		return &Expr{Kind: ExprIfStmt}, nil
	case tagExprElifStmt:
		return &Expr{Kind: ExprElifStmt}, nil
	case tagExprElseStmt:
		return &Expr{Kind: ExprElseStmt}, nil
	case tagExprWhileStmt:
		return &Expr{Kind: ExprWhileStmt}, nil
	default:
		return nil, invalidDiscriminant("expression", tag)
	}
}

func writeStrings(e *Encoder, ss []string) error {
	return writeStringMap(e, ss, func(string) error { return nil })
}

func readStrings(d *Decoder) ([]string, error) {
	n, err := readStringMapHeader(d)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func writeTokens(e *Encoder, toks []Token) error {
	if err := e.WriteCount(len(toks)); err != nil {
		return err
	}
	for _, t := range toks {
		if err := t.WriteBinary(e); err != nil {
			return err
		}
	}
	return nil
}

func readTokens(d *Decoder) ([]Token, error) {
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	out := make([]Token, 0, n)
	for i := 0; i < n; i++ {
		t, err := ReadToken(d)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (x *Expr) String() string {
	if x == nil {
		return "<nil-expr>"
	}
	switch x.Kind {
	case ExprBinaryOp:
		return fmt.Sprintf("(%s %s %s)", x.Left, x.BinOp, x.Right)
	case ExprUnaryOp:
		return fmt.Sprintf("(%s%s)", x.UnOp, x.Operand)
	case ExprStaticAccess:
		return strings.Join(x.Path, "::")
	case ExprInstanceAccess:
		return fmt.Sprintf("%s.%s", x.Instance, strings.Join(x.IPath, "."))
	case ExprInvokeStatic:
		return fmt.Sprintf("%s(...)", x.Name)
	case ExprInvokeInstance:
		return fmt.Sprintf("%s(...)", x.Name)
	case ExprIfStmt:
		return "if"
	case ExprElifStmt:
		return "elif"
	case ExprElseStmt:
		return "else"
	case ExprWhileStmt:
		return "while"
	default:
		return "?expr"
	}
}

// evalOperand resolves a single token into a literal: a literal token is
// taken as-is (identifiers are then name-resolved), an expression token is
// visited and its pushed result popped, anything else is an error.
func (it *Interp) evalOperand(t Token) (Literal, error) {
	switch t.Kind {
	case TokLiteral:
		if t.Lit.Kind == LitIdent {
			return it.resolveName(t.Lit.Str)
		}
		return t.Lit, nil
	case TokExpression:
		if err := it.visitExpr(t.Expr); err != nil {
			return Literal{}, err
		}
		return it.popStack()
	default:
		return Literal{}, stateErrorf("expected operand, found %s", t)
	}
}

// visitExpr dispatches a single expression node. Results are
// conventionally pushed onto the interpreter's literal stack; callers
// that need the value directly should pop it back off.
func (it *Interp) visitExpr(x *Expr) error {
	switch x.Kind {
	case ExprBinaryOp:
		return it.visitBinaryOp(x)
	case ExprUnaryOp:
		return it.visitUnaryOp(x)
	case ExprStaticAccess:
		return it.visitStaticAccess(x)
	case ExprInstanceAccess:
		return it.visitInstanceAccess(x)
	case ExprInvokeStatic:
		return it.visitInvokeStatic(x)
	case ExprInvokeInstance:
		return it.visitInvokeInstance(x)
	case ExprIfStmt:
		return it.visitIfStmt()
	case ExprElifStmt, ExprElseStmt:
		return stateErrorf("%s encountered with no preceding if", x)
	case ExprWhileStmt:
		return it.visitWhileStmt()
	default:
		return stateErrorf("unknown expression kind %d", x.Kind)
	}
}

func (it *Interp) visitUnaryOp(x *Expr) error {
	v, err := it.evalOperand(x.Operand)
	if err != nil {
		return err
	}
	switch x.UnOp {
	case OpNeg:
		if v.Kind != LitBool {
			return typeErrorf("! requires a bool operand, got %s", v.ThisType())
		}
		it.pushStack(BoolLit(!v.Bool))
		return nil
	case OpRev:
		switch v.Kind {
		case LitNumber:
			it.pushStack(NumberLit(-v.Num))
			return nil
		case LitFloat:
			it.pushStack(FloatLit(-v.Flt))
			return nil
		default:
			return typeErrorf("unary - requires num or float, got %s", v.ThisType())
		}
	default:
		return stateErrorf("unknown unary op %d", x.UnOp)
	}
}

func (it *Interp) visitBinaryOp(x *Expr) error {
	if x.BinOp == OpAssign {
		return it.visitAssign(x)
	}

	left, err := it.evalOperand(x.Left)
	if err != nil {
		return err
	}
	right, err := it.evalOperand(x.Right)
	if err != nil {
		return err
	}

	result, err := applyBinaryOp(x.BinOp, left, right)
	if err != nil {
		return err
	}
	it.pushStack(result)
	return nil
}

func (it *Interp) visitAssign(x *Expr) error {
	if x.Left.Kind != TokLiteral || x.Left.Lit.Kind != LitIdent {
		return typeErrorf("assignment target must be an identifier")
	}
	name := x.Left.Lit.Str
	val, err := it.evalOperand(x.Right)
	if err != nil {
		return err
	}
	if err := it.currentScope().SetMutable(name, val); err != nil {
		return err
	}
	it.pushStack(val)
	return nil
}

// applyBinaryOp applies a binary operator to a pair of operands, enforcing
// the permitted operand-type combinations for each operator.
func applyBinaryOp(op BinaryOp, l, r Literal) (Literal, error) {
	switch op {
	case OpAdd:
		return opAdd(l, r)
	case OpSub:
		return opArith(l, r, "-", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case OpMul:
		return opArith(l, r, "*", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	case OpDiv:
		return opDiv(l, r)
	case OpMod:
		return opMod(l, r)
	case OpAnd:
		return opBool(l, r, "&&", func(a, b bool) bool { return a && b })
	case OpOr:
		return opBool(l, r, "||", func(a, b bool) bool { return a || b })
	case OpBitAnd:
		return opBool(l, r, "&", func(a, b bool) bool { return a && b })
	case OpBitOr:
		return opBool(l, r, "|", func(a, b bool) bool { return a || b })
	case OpBitXor:
		return opBool(l, r, "^", func(a, b bool) bool { return a != b })
	case OpEq:
		return opEquality(l, r, true)
	case OpNeq:
		return opEquality(l, r, false)
	case OpBitRsh:
		return opIntOnly(l, r, ">>", func(a, b int64) int64 { return a >> uint(b) })
	case OpBitLsh:
		return opIntOnly(l, r, "<<", func(a, b int64) int64 { return a << uint(b) })
	case OpLt:
		return opCompare(l, r, "<")
	case OpGt:
		return opCompare(l, r, ">")
	default:
		return Literal{}, stateErrorf("unknown binary op %d", op)
	}
}

func opAdd(l, r Literal) (Literal, error) {
	switch {
	case l.Kind == LitNumber && r.Kind == LitNumber:
		return NumberLit(l.Num + r.Num), nil
	case l.Kind == LitFloat && r.Kind == LitFloat:
		return FloatLit(l.Flt + r.Flt), nil
	case l.Kind == LitString:
		return StringLit(l.Str + r.String()), nil
	case l.Kind == LitChar && r.Kind == LitChar:
		return StringLit(string(l.Ch) + string(r.Ch)), nil
	default:
		return Literal{}, typeErrorf("+ not defined for %s and %s", l.ThisType(), r.ThisType())
	}
}

func opArith(l, r Literal, sym string, iop func(a, b int64) int64, fop func(a, b float64) float64) (Literal, error) {
	switch {
	case l.Kind == LitNumber && r.Kind == LitNumber:
		return NumberLit(iop(l.Num, r.Num)), nil
	case l.Kind == LitFloat && r.Kind == LitFloat:
		return FloatLit(fop(l.Flt, r.Flt)), nil
	default:
		return Literal{}, typeErrorf("%s not defined for %s and %s", sym, l.ThisType(), r.ThisType())
	}
}

func opDiv(l, r Literal) (Literal, error) {
	switch {
	case l.Kind == LitNumber && r.Kind == LitNumber:
		if r.Num == 0 {
			return Literal{}, typeErrorf("division by zero")
		}
		return NumberLit(l.Num / r.Num), nil
	case l.Kind == LitFloat && r.Kind == LitFloat:
		if r.Flt == 0 {
			return Literal{}, typeErrorf("division by zero")
		}
		return FloatLit(l.Flt / r.Flt), nil
	default:
		return Literal{}, typeErrorf("/ not defined for %s and %s", l.ThisType(), r.ThisType())
	}
}

func opMod(l, r Literal) (Literal, error) {
	switch {
	case l.Kind == LitNumber && r.Kind == LitNumber:
		if r.Num == 0 {
			return Literal{}, typeErrorf("division by zero")
		}
		return NumberLit(l.Num % r.Num), nil
	case l.Kind == LitFloat && r.Kind == LitFloat:
		if r.Flt == 0 {
			return Literal{}, typeErrorf("division by zero")
		}
		return FloatLit(float64(int64(l.Flt) % int64(r.Flt))), nil
	default:
		return Literal{}, typeErrorf("%% not defined for %s and %s", l.ThisType(), r.ThisType())
	}
}

func opBool(l, r Literal, sym string, f func(a, b bool) bool) (Literal, error) {
	if l.Kind != LitBool || r.Kind != LitBool {
		return Literal{}, typeErrorf("%s requires bool operands, got %s and %s", sym, l.ThisType(), r.ThisType())
	}
	return BoolLit(f(l.Bool, r.Bool)), nil
}

func opIntOnly(l, r Literal, sym string, f func(a, b int64) int64) (Literal, error) {
	if l.Kind != LitNumber || r.Kind != LitNumber {
		return Literal{}, typeErrorf("%s requires num operands, got %s and %s", sym, l.ThisType(), r.ThisType())
	}
	return NumberLit(f(l.Num, r.Num)), nil
}

func opEquality(l, r Literal, wantEq bool) (Literal, error) {
	if l.Kind != LitBool || r.Kind != LitBool {
		return Literal{}, typeErrorf("%s requires bool operands, got %s and %s", eqSym(wantEq), l.ThisType(), r.ThisType())
	}
	eq := l.Bool == r.Bool
	return BoolLit(eq == wantEq), nil
}

func eqSym(wantEq bool) string {
	if wantEq {
		return "=="
	}
	return "!="
}

func opCompare(l, r Literal, sym string) (Literal, error) {
	switch {
	case l.Kind == LitNumber && r.Kind == LitNumber:
		if sym == "<" {
			return BoolLit(l.Num < r.Num), nil
		}
		return BoolLit(l.Num > r.Num), nil
	case l.Kind == LitFloat && r.Kind == LitFloat:
		if sym == "<" {
			return BoolLit(l.Flt < r.Flt), nil
		}
		return BoolLit(l.Flt > r.Flt), nil
	case l.Kind == LitString:
		cmp := strings.Compare(l.Str, r.String())
		if sym == "<" {
			return BoolLit(cmp < 0), nil
		}
		return BoolLit(cmp > 0), nil
	default:
		return Literal{}, typeErrorf("%s not defined for %s and %s", sym, l.ThisType(), r.ThisType())
	}
}

func (it *Interp) visitStaticAccess(x *Expr) error {
	v, err := it.resolvePath(x.Path)
	if err != nil {
		return err
	}
	it.pushStack(v)
	return nil
}

func (it *Interp) visitInstanceAccess(x *Expr) error {
	recv, err := it.evalOperand(x.Instance)
	if err != nil {
		return err
	}
	if recv.Kind != LitStruct {
		return typeErrorf("instance access on non-struct value %s", recv.ThisType())
	}
	v := recv.Struct
	for i, seg := range x.IPath {
		val, ok := v.Vars[seg]
		if !ok {
			return nameErrorf("no instance variable %q on %s", seg, v.Typename)
		}
		if i == len(x.IPath)-1 {
			it.pushStack(val)
			return nil
		}
		if val.Kind != LitStruct {
			return typeErrorf("cannot access %q through non-struct value", seg)
		}
		v = val.Struct
	}
	return nameErrorf("empty instance access path")
}

func (it *Interp) visitInvokeStatic(x *Expr) error {
	if tmpl, ok := it.currentScope().lookupStructLocal(x.Name); ok {
		inst, err := it.instantiate(tmpl, x.Args)
		if err != nil {
			return err
		}
		it.pushStack(StructLit(inst))
		return nil
	}

	args, err := it.evalArgs(x.Args)
	if err != nil {
		return err
	}
	result, err := it.callByName(x.Name, args, Literal{}, false)
	if err != nil {
		return err
	}
	it.pushStack(result)
	return nil
}

// instantiate constructs a StructureInstance from tmpl, evaluating each
// constructor argument positionally against the template's instance
// variables in name-sorted order and type-checking each write against its
// declared type tag.
func (it *Interp) instantiate(tmpl *StructureTemplate, argToks []Token) (*StructureInstance, error) {
	inst := newEmptyInstance(tmpl)
	if len(argToks) == 0 {
		return inst, nil
	}
	args, err := it.evalArgs(argToks)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tmpl.VarTypes))
	for n := range tmpl.VarTypes {
		names = append(names, n)
	}
	sort.Strings(names)
	for i, v := range args {
		if i >= len(names) {
			break
		}
		if err := it.setInstanceVar(inst, names[i], v); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func (it *Interp) visitInvokeInstance(x *Expr) error {
	receiverName, method, ok := splitLast(x.Name, ".")
	if !ok {
		return nameErrorf("malformed instance call %q", x.Name)
	}
	recvLit, err := it.resolveName(receiverName)
	if err != nil {
		return err
	}

	var recv *StructureInstance
	switch recvLit.Kind {
	case LitStruct:
		recv = recvLit.Struct
	case LitNumber:
		tmpl, ok := it.templateByHandle(int(recvLit.Num))
		if !ok {
			return nameErrorf("no structure template with handle %d", recvLit.Num)
		}
		recv = newEmptyInstance(tmpl)
	default:
		return typeErrorf("%q is not an instance or template handle", receiverName)
	}

	args, err := it.evalArgs(x.Args)
	if err != nil {
		return err
	}
	result, err := it.callByName(method, args, StructLit(recv), true)
	if err != nil {
		return err
	}
	it.pushStack(result)
	return nil
}

func (it *Interp) evalArgs(toks []Token) ([]Literal, error) {
	args := make([]Literal, 0, len(toks))
	for _, t := range toks {
		v, err := it.evalOperand(t)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func splitLast(s, sep string) (head, tail string, ok bool) {
	idx := strings.LastIndex(s, sep)
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+len(sep):], true
}

// visitIfStmt runs the if/elif/else splice protocol: evaluate the
// condition, run the matching bracketed body, and discard every other
// branch's tokens unread.
func (it *Interp) visitIfStmt() error {
	condTok := it.chain.Next()
	cond, err := it.evalOperand(condTok)
	if err != nil {
		return err
	}

	if err := it.expectLBracket(); err != nil {
		return err
	}
	body, err := it.chain.TakeGroup()
	if err != nil {
		return err
	}

	if cond.Truthy() {
		it.chain.Insert(0, body)
		if err := it.processN(len(body)); err != nil {
			return err
		}
		return it.discardElseChain()
	}

	return it.tryElseChain()
}

// tryElseChain is reached when the preceding if/elif condition was false.
// It repeatedly peeks for Elif/Else and evaluates them until one matches
// or the chain runs out of alternatives.
func (it *Interp) tryElseChain() error {
	for {
		next := it.chain.Peek()
		if next.Kind != TokExpression {
			return nil
		}
		switch next.Expr.Kind {
		case ExprElifStmt:
			it.chain.Next()
			condTok := it.chain.Next()
			cond, err := it.evalOperand(condTok)
			if err != nil {
				return err
			}
			if err := it.expectLBracket(); err != nil {
				return err
			}
			body, err := it.chain.TakeGroup()
			if err != nil {
				return err
			}
			if cond.Truthy() {
				it.chain.Insert(0, body)
				if err := it.processN(len(body)); err != nil {
					return err
				}
				return it.discardElseChain()
			}
			continue
		case ExprElseStmt:
			it.chain.Next()
			if err := it.expectLBracket(); err != nil {
				return err
			}
			body, err := it.chain.TakeGroup()
			if err != nil {
				return err
			}
			it.chain.Insert(0, body)
			return it.processN(len(body))
		default:
			return nil
		}
	}
}

// discardElseChain is reached after a branch has already matched; any
// trailing Elif/Else groups are consumed and their bodies discarded
// unevaluated.
func (it *Interp) discardElseChain() error {
	for {
		next := it.chain.Peek()
		if next.Kind != TokExpression {
			return nil
		}
		switch next.Expr.Kind {
		case ExprElifStmt, ExprElseStmt:
			it.chain.Next()
			if next.Expr.Kind == ExprElifStmt {
				it.chain.Next() // discard condition token
			}
			if err := it.expectLBracket(); err != nil {
				return err
			}
			if _, err := it.chain.TakeGroup(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (it *Interp) expectLBracket() error {
	t := it.chain.Next()
	if t.Kind != TokLBracket {
		return stateErrorf("expected '{', found %s", t)
	}
	return nil
}

// visitWhileStmt re-evaluates its condition and re-runs its body for as
// long as the condition stays truthy.
func (it *Interp) visitWhileStmt() error {
	condTok := it.chain.Next()
	if err := it.expectLBracket(); err != nil {
		return err
	}
	body, err := it.chain.TakeGroup()
	if err != nil {
		return err
	}

	for {
		cond, err := it.evalOperand(condTok)
		if err != nil {
			return err
		}
		if !cond.Truthy() {
			it.pushStack(VoidLit())
			return nil
		}
		bodyCopy := make([]Token, len(body))
		copy(bodyCopy, body)
		it.chain.Insert(0, bodyCopy)
		if err := it.processN(len(bodyCopy)); err != nil {
			return err
		}
	}
}
