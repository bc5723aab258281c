package interp

import (
	"sort"
	"sync"
)

func sortStrings(ss []string) { sort.Strings(ss) }

// wildcardImport, used as an import member name, makes every name in the
// source scope resolvable through the importing scope instead of a single
// named member.
const wildcardImport = "*"

// Scope is a named container of bindings. Every map access is guarded by
// mu so that interior mutation is safe even though a single evaluator
// never holds two scope locks nested.
type Scope struct {
	mu sync.Mutex

	Name    string
	Vars    map[string]Literal
	Consts  map[string]Literal
	Funcs   map[string]Callable
	Structs map[string]*StructureTemplate

	Exports []string
	// Imports maps source-scope-name -> imported member names.
	Imports map[string][]string
}

func newScope(name string) *Scope {
	return &Scope{
		Name:    name,
		Vars:    make(map[string]Literal),
		Consts:  make(map[string]Literal),
		Funcs:   make(map[string]Callable),
		Structs: make(map[string]*StructureTemplate),
		Imports: make(map[string][]string),
	}
}

// bound reports whether name is already taken in any of the scope's
// mutable/constant/function/struct namespaces.
func (s *Scope) bound(name string) bool {
	if _, ok := s.Vars[name]; ok {
		return true
	}
	if _, ok := s.Consts[name]; ok {
		return true
	}
	if _, ok := s.Funcs[name]; ok {
		return true
	}
	if _, ok := s.Structs[name]; ok {
		return true
	}
	return false
}

// DeclareMutable binds name to v in the mutable namespace. Re-declaring an
// existing const is rejected; re-declaring an existing mutable overwrites
// (a `let` re-run in the same scope is legal).
func (s *Scope) DeclareMutable(name string, v Literal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Consts[name]; ok {
		return stateErrorf("cannot redeclare constant %q as mutable", name)
	}
	if _, ok := s.Funcs[name]; ok {
		return stateErrorf("name %q already bound to a function", name)
	}
	if _, ok := s.Structs[name]; ok {
		return stateErrorf("name %q already bound to a structure", name)
	}
	s.Vars[name] = v
	return nil
}

// DeclareConst binds name in the constant namespace. Rejects any prior
// binding under any namespace.
func (s *Scope) DeclareConst(name string, v Literal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bound(name) {
		return stateErrorf("cannot redeclare %q: already bound", name)
	}
	s.Consts[name] = v
	return nil
}

// SetMutable reassigns an existing mutable binding. The new value's type
// tag must match the current one.
func (s *Scope) SetMutable(name string, v Literal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Consts[name]; ok {
		return typeErrorf("cannot reassign constant %q", name)
	}
	cur, ok := s.Vars[name]
	if !ok {
		return nameErrorf("no mutable binding %q in scope %q", name, s.Name)
	}
	if !cur.TypeMatches(v) {
		return typeErrorf("cannot assign %s to mutable %q of type %s", v.ThisType(), name, cur.ThisType())
	}
	s.Vars[name] = v
	return nil
}

// lookupLocal resolves name against this scope's own bindings only: vars,
// then consts, then nothing (functions/structs are resolved separately).
func (s *Scope) lookupLocal(name string) (Literal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.Vars[name]; ok {
		return v, true
	}
	if v, ok := s.Consts[name]; ok {
		return v, true
	}
	return Literal{}, false
}

func (s *Scope) lookupFuncLocal(name string) (Callable, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.Funcs[name]
	return c, ok
}

func (s *Scope) lookupStructLocal(name string) (*StructureTemplate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.Structs[name]
	return t, ok
}

// AddExport appends name to the export list, if not already present.
func (s *Scope) AddExport(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.Exports {
		if e == name {
			return
		}
	}
	s.Exports = append(s.Exports, name)
}

// AddImport records that member should be resolved from source at lookup
// time; it is not copied eagerly.
func (s *Scope) AddImport(source, member string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := s.Imports[source]
	for _, m := range members {
		if m == member {
			return
		}
	}
	s.Imports[source] = append(members, member)
}

// importSnapshot copies the current import table, used by the resolver
// to walk import sources without holding this scope's lock while it
// recurses into another scope's lock.
func (s *Scope) importSnapshot() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]string, len(s.Imports))
	for k, v := range s.Imports {
		cp := make([]string, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

func (s *Scope) declareFunc(name string, c Callable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Funcs[name] = c
	return nil
}

func (s *Scope) declareStruct(name string, t *StructureTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Structs[name] = t
}

// resolveName resolves a bare name against the current scope's own
// bindings, overlaid with every name reachable through its imports,
// resolved transitively at lookup time (never via back-pointer).
func (it *Interp) resolveName(name string) (Literal, error) {
	v, err := it.lookupMerged(it.currentScopeName, name, make(map[string]bool))
	if err != nil {
		return Literal{}, err
	}
	return v, nil
}

func (it *Interp) lookupMerged(scopeName, name string, visiting map[string]bool) (Literal, error) {
	if visiting[scopeName] {
		return Literal{}, nameErrorf("import cycle resolving %q from scope %q", name, scopeName)
	}
	visiting[scopeName] = true

	s, ok := it.scope(scopeName)
	if !ok {
		return Literal{}, nameErrorf("unknown scope %q", scopeName)
	}
	if v, ok := s.lookupLocal(name); ok {
		return v, nil
	}
	for source, members := range s.importSnapshot() {
		for _, m := range members {
			if m != name && m != wildcardImport {
				continue
			}
			if v, err := it.lookupMerged(source, name, visiting); err == nil {
				return v, nil
			}
		}
	}
	return Literal{}, nameErrorf("no binding %q visible from scope %q", name, scopeName)
}

// resolvePath resolves a StaticAccess path: length 1 is a general
// scope-chain lookup, length 2 is struct.name within the current scope's
// structure table, length 3 is scope::struct.name.
func (it *Interp) resolvePath(path []string) (Literal, error) {
	switch len(path) {
	case 1:
		return it.resolveName(path[0])
	case 2:
		return it.resolveStructStatic(it.currentScopeName, path[0], path[1])
	case 3:
		return it.resolveStructStatic(path[0], path[1], path[2])
	default:
		return Literal{}, nameErrorf("malformed static access path %v", path)
	}
}

func (it *Interp) resolveStructStatic(scopeName, structName, member string) (Literal, error) {
	s, ok := it.scope(scopeName)
	if !ok {
		return Literal{}, nameErrorf("unknown scope %q", scopeName)
	}
	tmpl, ok := s.lookupStructLocal(structName)
	if !ok {
		return Literal{}, nameErrorf("unknown structure %q in scope %q", structName, scopeName)
	}
	if v, ok := tmpl.Scope.lookupLocal(member); ok {
		return v, nil
	}
	return Literal{}, nameErrorf("no static member %q on structure %q", member, structName)
}

// WriteBinary serializes a scope: name, then vars/consts/funcs/structs
// maps (each sorted by key for determinism), then exports and imports.
// ReadScope must reconstruct every field exactly.
func (s *Scope) WriteBinary(e *Encoder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := e.WriteString(s.Name); err != nil {
		return err
	}
	if err := writeLiteralMap(e, s.Vars); err != nil {
		return err
	}
	if err := writeLiteralMap(e, s.Consts); err != nil {
		return err
	}
	if err := writeCallableMap(e, s.Funcs); err != nil {
		return err
	}
	if err := writeTemplateMap(e, s.Structs); err != nil {
		return err
	}
	if err := writeStrings(e, sortedCopy(s.Exports)); err != nil {
		return err
	}
	sources := make([]string, 0, len(s.Imports))
	for src := range s.Imports {
		sources = append(sources, src)
	}
	sortStrings(sources)
	if err := e.WriteCount(len(sources)); err != nil {
		return err
	}
	for _, src := range sources {
		if err := e.WriteString(src); err != nil {
			return err
		}
		if err := writeStrings(e, sortedCopy(s.Imports[src])); err != nil {
			return err
		}
	}
	return nil
}

// ReadScope is the exact inverse of Scope.WriteBinary.
func ReadScope(d *Decoder) (*Scope, error) {
	name, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	s := newScope(name)

	vars, err := readLiteralMap(d)
	if err != nil {
		return nil, err
	}
	s.Vars = vars

	consts, err := readLiteralMap(d)
	if err != nil {
		return nil, err
	}
	s.Consts = consts

	funcs, err := readCallableMap(d)
	if err != nil {
		return nil, err
	}
	s.Funcs = funcs

	structs, err := readTemplateMap(d)
	if err != nil {
		return nil, err
	}
	s.Structs = structs

	exports, err := readStrings(d)
	if err != nil {
		return nil, err
	}
	s.Exports = exports

	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		src, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		members, err := readStrings(d)
		if err != nil {
			return nil, err
		}
		s.Imports[src] = members
	}
	return s, nil
}

func sortedCopy(ss []string) []string {
	out := make([]string, len(ss))
	copy(out, ss)
	sortStrings(out)
	return out
}

func writeLiteralMap(e *Encoder, m map[string]Literal) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortStrings(keys)
	return writeStringMap(e, keys, func(k string) error { return m[k].WriteBinary(e) })
}

func readLiteralMap(d *Decoder) (map[string]Literal, error) {
	n, err := readStringMapHeader(d)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Literal, n)
	for i := 0; i < n; i++ {
		k, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := ReadLiteral(d)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func writeCallableMap(e *Encoder, m map[string]Callable) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortStrings(keys)
	return writeStringMap(e, keys, func(k string) error { return m[k].WriteBinary(e) })
}

func readCallableMap(d *Decoder) (map[string]Callable, error) {
	n, err := readStringMapHeader(d)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Callable, n)
	for i := 0; i < n; i++ {
		k, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := ReadCallable(d)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func writeTemplateMap(e *Encoder, m map[string]*StructureTemplate) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortStrings(keys)
	return writeStringMap(e, keys, func(k string) error { return m[k].WriteBinary(e) })
}

func readTemplateMap(d *Decoder) (map[string]*StructureTemplate, error) {
	n, err := readStringMapHeader(d)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*StructureTemplate, n)
	for i := 0; i < n; i++ {
		k, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := ReadStructureTemplate(d)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
