package interp

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CallableKind tags the variant carried by a Callable.
type CallableKind uint8

const (
	CallStatic CallableKind = iota + 1
	CallInstance
	CallExtern
)

const varargsSentinel = "varargs"

// Callable is the tagged sum of function forms: a user-defined static
// function, a user-defined instance method (first parameter is implicitly
// the receiver), or an extern function resolved through the process-wide
// handler table.
type Callable struct {
	Kind       CallableKind
	OutType    string
	ParamNames []string
	Body       []Token // Static / Instance
	HandlerID  int     // Extern, 1-based
}

func (c Callable) isVarargs() bool {
	for _, p := range c.ParamNames {
		if p == varargsSentinel {
			return true
		}
	}
	return false
}

// Callable wire-format discriminants: Standard and Extern get distinct
// tag bytes.
const (
	tagFnStandard uint8 = 0x01
	tagFnExtern   uint8 = 0x02
)

// WriteBinary serializes a Callable. Instance callables are written as
// Standard with a leading marker byte distinguishing them from Static,
// since the source's StaticFnType only distinguishes Standard/Extern.
func (c Callable) WriteBinary(e *Encoder) error {
	switch c.Kind {
	case CallExtern:
		if err := e.WriteU8(tagFnExtern); err != nil {
			return err
		}
		if err := e.WriteString(c.OutType); err != nil {
			return err
		}
		if err := writeStrings(e, c.ParamNames); err != nil {
			return err
		}
		return e.WriteU32(uint32(c.HandlerID))
	case CallStatic, CallInstance:
		if err := e.WriteU8(tagFnStandard); err != nil {
			return err
		}
		if err := e.WriteBool(c.Kind == CallInstance); err != nil {
			return err
		}
		if err := e.WriteString(c.OutType); err != nil {
			return err
		}
		if err := writeStrings(e, c.ParamNames); err != nil {
			return err
		}
		return writeTokens(e, c.Body)
	default:
		return decodeErrorf("unknown callable kind %d", c.Kind)
	}
}

// ReadCallable is the exact inverse of Callable.WriteBinary.
func ReadCallable(d *Decoder) (Callable, error) {
	tag, err := d.ReadU8()
	if err != nil {
		return Callable{}, err
	}
	switch tag {
	case tagFnExtern:
		outType, err := d.ReadString()
		if err != nil {
			return Callable{}, err
		}
		params, err := readStrings(d)
		if err != nil {
			return Callable{}, err
		}
		handle, err := d.ReadU32()
		if err != nil {
			return Callable{}, err
		}
		return Callable{Kind: CallExtern, OutType: outType, ParamNames: params, HandlerID: int(handle)}, nil
	case tagFnStandard:
		isInstance, err := d.ReadBool()
		if err != nil {
			return Callable{}, err
		}
		outType, err := d.ReadString()
		if err != nil {
			return Callable{}, err
		}
		params, err := readStrings(d)
		if err != nil {
			return Callable{}, err
		}
		body, err := readTokens(d)
		if err != nil {
			return Callable{}, err
		}
		kind := CallStatic
		if isInstance {
			kind = CallInstance
		}
		return Callable{Kind: kind, OutType: outType, ParamNames: params, Body: body}, nil
	default:
		return Callable{}, invalidDiscriminant("callable", tag)
	}
}

// ExternFunc is the Go-side signature a host registers under a handle.
type ExternFunc func(args []Literal) (Literal, error)

// externRegistry is the process-wide table of host function pointers,
// guarded by a lock: registration and invocation both take the lock, and
// the critical section is only the slice access. A singleflight group
// collapses concurrent registrations of the same name+scope pair so a
// racing embedder never double-allocates a handle for one logical extern.
type externRegistry struct {
	mu    sync.Mutex
	fns   []ExternFunc
	group singleflight.Group
}

var externs = &externRegistry{}

// register appends fn and returns its 1-based handler ID.
func (r *externRegistry) register(fn ExternFunc) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns = append(r.fns, fn)
	return len(r.fns)
}

// registerNamed is like register but deduplicates concurrent registration
// attempts sharing the same key, returning the same handle to every
// caller that raced on it.
func (r *externRegistry) registerNamed(key string, fn ExternFunc) (int, error) {
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		return r.register(fn), nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// call invokes the handler at the given 1-based ID, mapping it to a
// 0-based index via max(0, handler-1).
func (r *externRegistry) call(handlerID int, args []Literal) (Literal, error) {
	idx := handlerID - 1
	if idx < 0 {
		idx = 0
	}
	r.mu.Lock()
	if idx >= len(r.fns) {
		r.mu.Unlock()
		return Literal{}, nameErrorf("no extern function registered at handle %d", handlerID)
	}
	fn := r.fns[idx]
	r.mu.Unlock()
	return fn(args)
}

// RegisterExtern registers a host function under name in the given scope,
// recording an Extern callable there and appending fn to the process-wide
// table.
func (it *Interp) RegisterExtern(scopeName, name string, outType string, params []string, fn ExternFunc) error {
	key := fmt.Sprintf("%s::%s", scopeName, name)
	handle, err := externs.registerNamed(key, fn)
	if err != nil {
		return err
	}
	s, ok := it.scope(scopeName)
	if !ok {
		s = newScope(scopeName)
		it.putScope(s)
	}
	return s.declareFunc(name, Callable{
		Kind:       CallExtern,
		OutType:    outType,
		ParamNames: params,
		HandlerID:  handle,
	})
}

func checkArity(c Callable, args []Literal) error {
	if c.isVarargs() {
		return nil
	}
	if len(args) != len(c.ParamNames) {
		return arityErrorf("expected %d argument(s), got %d", len(c.ParamNames), len(args))
	}
	return nil
}

func checkReturnType(c Callable, v Literal) error {
	if c.OutType == "unknown" {
		return nil
	}
	if !v.TypeStr(c.OutType) {
		return typeErrorf("return value has type %s, expected %s", v.ThisType(), c.OutType)
	}
	return nil
}

// callByName resolves a call target by name: `scope::fn`, `receiver.method`
// (handled by the caller when isInstance is true), or plain merged-view
// lookup against the current scope and its imports.
func (it *Interp) callByName(name string, args []Literal, receiver Literal, isInstance bool) (Literal, error) {
	if isInstance {
		return it.invokeCallable(receiver.Struct.callableTemplate(it, name), args, receiver, true, name)
	}
	if scopeName, fnName, ok := splitLast(name, "::"); ok {
		s, ok := it.scope(scopeName)
		if !ok {
			return Literal{}, nameErrorf("unknown scope %q", scopeName)
		}
		c, ok := s.lookupFuncLocal(fnName)
		if !ok {
			return Literal{}, nameErrorf("no function %q in scope %q", fnName, scopeName)
		}
		return it.invokeCallable(c, args, Literal{}, false, fnName)
	}
	if recvName, method, ok := splitLast(name, "."); ok {
		recv, err := it.resolveName(recvName)
		if err != nil {
			return Literal{}, err
		}
		if recv.Kind != LitStruct {
			return Literal{}, typeErrorf("%q is not a structure instance", recvName)
		}
		return it.invokeCallable(recv.Struct.callableTemplate(it, method), args, recv, true, method)
	}
	c, err := it.lookupFuncMerged(it.currentScopeName, name, make(map[string]bool))
	if err != nil {
		return Literal{}, err
	}
	return it.invokeCallable(c, args, Literal{}, false, name)
}

// callableTemplate resolves method on the instance's live template.
func (s *StructureInstance) callableTemplate(it *Interp, method string) Callable {
	tmpl, ok := it.templateByHandle(s.TemplateHandle)
	if !ok {
		return Callable{}
	}
	if c, ok := tmpl.Methods[method]; ok {
		return c
	}
	if c, ok := tmpl.Scope.lookupFuncLocal(method); ok {
		return c
	}
	return Callable{}
}

func (it *Interp) lookupFuncMerged(scopeName, name string, visiting map[string]bool) (Callable, error) {
	if visiting[scopeName] {
		return Callable{}, nameErrorf("import cycle resolving function %q from scope %q", name, scopeName)
	}
	visiting[scopeName] = true

	s, ok := it.scope(scopeName)
	if !ok {
		return Callable{}, nameErrorf("unknown scope %q", scopeName)
	}
	if c, ok := s.lookupFuncLocal(name); ok {
		return c, nil
	}
	for source, members := range s.importSnapshot() {
		for _, m := range members {
			if m != name && m != wildcardImport {
				continue
			}
			if c, err := it.lookupFuncMerged(source, name, visiting); err == nil {
				return c, nil
			}
		}
	}
	return Callable{}, nameErrorf("no function %q visible from scope %q", name, scopeName)
}

// invokeCallable runs the full invocation protocol: arity check, a fresh
// activation scope with parameters (and the receiver, for instance calls)
// bound, global bindings folded in, the body run to completion, and the
// body's last result checked against the declared return type.
func (it *Interp) invokeCallable(c Callable, args []Literal, receiver Literal, isInstance bool, name string) (Literal, error) {
	if c.Kind == 0 {
		return Literal{}, nameErrorf("no callable %q", name)
	}
	if err := checkArity(c, args); err != nil {
		return Literal{}, err
	}

	if c.Kind == CallExtern {
		v, err := externs.call(c.HandlerID, args)
		if err != nil {
			return Literal{}, err
		}
		if err := checkReturnType(c, v); err != nil {
			return Literal{}, err
		}
		return v, nil
	}

	activationName := it.newActivationName()
	activation := newScope(activationName)

	for i, p := range c.ParamNames {
		if p == varargsSentinel {
			break
		}
		if i < len(args) {
			_ = activation.DeclareMutable(p, args[i])
		}
	}
	if isInstance {
		_ = activation.DeclareMutable("this", receiver)
	}

	if global, ok := it.scope("global"); ok {
		for n, v := range global.snapshotVars() {
			if !activation.bound(n) {
				_ = activation.DeclareMutable(n, v)
			}
		}
	}
	// Every function and import visible under "global" must also be
	// callable unqualified from inside the body; a wildcard import lets
	// the merged-view function lookup fall through to global (and, from
	// there, transitively through whatever global itself imports).
	activation.AddImport("global", wildcardImport)

	level := LevelStaticFunction
	if isInstance {
		level = LevelInstanceFunction
	}
	it.pushScopeLevel(level)
	it.putScope(activation)
	prevScope := it.currentScopeName
	it.currentScopeName = activationName

	runErr := it.runBody(c.Body)
	ret := it.popStackOrVoid()

	it.currentScopeName = prevScope
	it.dropScope(activationName)
	it.popScopeLevel()

	if runErr != nil {
		return Literal{}, runErr
	}
	if err := checkReturnType(c, ret); err != nil {
		return Literal{}, err
	}
	return ret, nil
}
