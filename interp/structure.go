package interp

import (
	"fmt"
	"sort"
)

// StructureTemplate is the compiled shape of a `struct` declaration: its
// instance-variable schema, static fields/methods, and an embedded scope
// hosting its statics, constants and imports. Instances reference their
// template by integer handle, not by pointer, so the reference remains
// stable across serialization of an instance.
type StructureTemplate struct {
	Handle    int
	Typename  string
	VarTypes  map[string]string // instance var name -> declared type tag
	Methods   map[string]Callable
	Scope     *Scope // statics, consts, imports
}

// WriteBinary serializes a structure template: handle, typename, the
// var-type schema, methods, then the embedded scope.
func (t *StructureTemplate) WriteBinary(e *Encoder) error {
	if err := e.WriteU32(uint32(t.Handle)); err != nil {
		return err
	}
	if err := e.WriteString(t.Typename); err != nil {
		return err
	}
	keys := make([]string, 0, len(t.VarTypes))
	for k := range t.VarTypes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if err := writeStringMap(e, keys, func(k string) error { return e.WriteString(t.VarTypes[k]) }); err != nil {
		return err
	}
	if err := writeCallableMap(e, t.Methods); err != nil {
		return err
	}
	return t.Scope.WriteBinary(e)
}

// ReadStructureTemplate is the exact inverse of StructureTemplate.WriteBinary.
func ReadStructureTemplate(d *Decoder) (*StructureTemplate, error) {
	handle, err := d.ReadU32()
	if err != nil {
		return nil, err
	}
	typename, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	n, err := readStringMapHeader(d)
	if err != nil {
		return nil, err
	}
	varTypes := make(map[string]string, n)
	for i := 0; i < n; i++ {
		k, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		varTypes[k] = v
	}
	methods, err := readCallableMap(d)
	if err != nil {
		return nil, err
	}
	scope, err := ReadScope(d)
	if err != nil {
		return nil, err
	}
	return &StructureTemplate{
		Handle:   int(handle),
		Typename: typename,
		VarTypes: varTypes,
		Methods:  methods,
		Scope:    scope,
	}, nil
}

func newTemplate(handle int, typename string) *StructureTemplate {
	return &StructureTemplate{
		Handle:   handle,
		Typename: typename,
		VarTypes: make(map[string]string),
		Methods:  make(map[string]Callable),
		Scope:    newScope(fmt.Sprintf("%s#%d", typename, handle)),
	}
}

// StructureInstance holds per-instance variable values and a reference to
// its template's handle. Method dispatch always goes through the template.
type StructureInstance struct {
	Typename       string
	TemplateHandle int
	Vars           map[string]Literal
}

func newEmptyInstance(t *StructureTemplate) *StructureInstance {
	vars := make(map[string]Literal, len(t.VarTypes))
	for name := range t.VarTypes {
		vars[name] = VoidLit()
	}
	return &StructureInstance{Typename: t.Typename, TemplateHandle: t.Handle, Vars: vars}
}

// setInstanceVar writes an instance variable, enforcing the template's
// declared type tag.
func (it *Interp) setInstanceVar(inst *StructureInstance, name string, v Literal) error {
	tmpl, ok := it.templateByHandle(inst.TemplateHandle)
	if !ok {
		return nameErrorf("instance %q has no live template (handle %d)", inst.Typename, inst.TemplateHandle)
	}
	want, ok := tmpl.VarTypes[name]
	if !ok {
		return nameErrorf("no instance variable %q on %s", name, inst.Typename)
	}
	if !v.TypeStr(want) {
		return typeErrorf("field %q of %s expects %s, got %s", name, inst.Typename, want, v.ThisType())
	}
	inst.Vars[name] = v
	return nil
}

// debugString renders the instance for Literal.String/debug stdlib calls.
// pretty adds indentation; the non-pretty form is used for plain Display.
func (s *StructureInstance) debugString(pretty bool) string {
	if !pretty {
		return fmt.Sprintf("%s{...}", s.Typename)
	}
	out := s.Typename + " {\n"
	for k, v := range s.Vars {
		out += fmt.Sprintf("  %s: %s\n", k, v.String())
	}
	return out + "}"
}

// WriteBinary serializes a structure instance: typename, template handle,
// then the instance-variable map.
func (s *StructureInstance) WriteBinary(e *Encoder) error {
	if err := e.WriteString(s.Typename); err != nil {
		return err
	}
	if err := e.WriteU32(uint32(s.TemplateHandle)); err != nil {
		return err
	}
	keys := make([]string, 0, len(s.Vars))
	for k := range s.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return writeStringMap(e, keys, func(k string) error {
		return s.Vars[k].WriteBinary(e)
	})
}

// ReadStructureInstance is the exact inverse of StructureInstance.WriteBinary.
func ReadStructureInstance(d *Decoder) (*StructureInstance, error) {
	typename, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	handleU, err := d.ReadU32()
	if err != nil {
		return nil, err
	}
	n, err := readStringMapHeader(d)
	if err != nil {
		return nil, err
	}
	vars := make(map[string]Literal, n)
	for i := 0; i < n; i++ {
		k, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := ReadLiteral(d)
		if err != nil {
			return nil, err
		}
		vars[k] = v
	}
	return &StructureInstance{Typename: typename, TemplateHandle: int(handleU), Vars: vars}, nil
}

// DeclareStructure runs a structure's declaration protocol: a fresh scope
// is created for the body, the current global bindings are copied into
// it, a const `$name` seeding the structure's own name is set, the struct
// scope level is pushed, the body token chain is run to completion, and
// finally the resulting scope is attached to the template and registered
// in the declaring scope's structure table.
func (it *Interp) DeclareStructure(name string, body []Token) error {
	handle := it.nextTemplateHandle()
	tmpl := newTemplate(handle, name)

	bodyScopeName := fmt.Sprintf("%s#%d$body", name, handle)
	bodyScope := newScope(bodyScopeName)
	if err := bodyScope.DeclareConst("$name", StringLit(name)); err != nil {
		return err
	}
	it.putScope(bodyScope)

	global, ok := it.scope("global")
	if ok {
		for n, v := range global.snapshotVars() {
			_ = bodyScope.DeclareMutable(n, v)
		}
	}

	it.pushScopeLevel(LevelStruct)
	prevScope := it.currentScopeName
	it.currentScopeName = bodyScopeName

	it.putTemplate(tmpl)
	it.currentTemplate = tmpl

	err := it.runBody(body)

	it.currentTemplate = nil
	it.currentScopeName = prevScope
	it.popScopeLevel()

	if err != nil {
		return err
	}

	tmpl.Scope = bodyScope
	it.putTemplate(tmpl)
	if declaring, ok := it.scope(prevScope); ok {
		declaring.declareStruct(name, tmpl)
	}
	return nil
}

func (s *Scope) snapshotVars() map[string]Literal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Literal, len(s.Vars)+len(s.Consts))
	for k, v := range s.Vars {
		out[k] = v
	}
	for k, v := range s.Consts {
		out[k] = v
	}
	return out
}
