package interp

import "golang.org/x/mod/semver"

// formatVersion is the compiled-in binary format version stamped on every
// transmute blob. It is bumped only when a discriminant table changes
// shape.
const formatVersion = "v1.0.0"

// wrapVersioned prefixes payload with the running format version.
func wrapVersioned(write func(e *Encoder) error) ([]byte, error) {
	e := newEncoder()
	if err := e.WriteString(formatVersion); err != nil {
		return nil, err
	}
	if err := write(e); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// unwrapVersioned reads the version prefix and rejects a blob stamped
// with a newer major version than this build understands.
func unwrapVersioned(buf []byte, read func(d *Decoder) error) error {
	d := newDecoder(buf)
	version, err := d.ReadString()
	if err != nil {
		return err
	}
	if semver.Compare(semver.Major(version), semver.Major(formatVersion)) > 0 {
		return decodeErrorf("blob format version %s is newer than supported %s", version, formatVersion)
	}
	if err := read(d); err != nil {
		return err
	}
	if n := d.remaining(); n != 0 {
		return decodeErrorf("%d trailing byte(s) after transmute payload", n)
	}
	return nil
}

// useMemory registers `std::mem`'s transmute, grounded on
// original_source/src/stdlib/mem.rs and src/vm.rs's Transmute trait.
// Every call builds a fresh buffer; none is reused across invocations.
func (it *Interp) useMemory() error {
	return it.RegisterExtern("std::mem", "transmute", "unknown", []string{"value", "type"}, func(args []Literal) (Literal, error) {
		return it.transmute(args[0], args[1].String())
	})
}

// transmute serializes v via the codec, then reads it back as typeName.
// A typeName matching a live structure template reconstructs a structure
// instance by handle; a scalar type tag is accepted when it names the
// value's own type, or when Number and Float widen into each other (see
// coerceTransmuted). Any other type tag is a type error.
func (it *Interp) transmute(v Literal, typeName string) (Literal, error) {
	blob, err := wrapVersioned(v.WriteBinary)
	if err != nil {
		return Literal{}, err
	}

	var out Literal
	err = unwrapVersioned(blob, func(d *Decoder) error {
		raw, rerr := ReadLiteral(d)
		if rerr != nil {
			return rerr
		}
		out = raw
		return nil
	})
	if err != nil {
		return Literal{}, err
	}

	return it.coerceTransmuted(out, typeName)
}

// coerceTransmuted re-tags a round-tripped literal as typeName: an
// already-matching type (or "unknown") passes through unchanged, a live
// structure template name reconstructs an empty instance by handle, and
// Number/Float widen into each other. Anything else is a type error.
func (it *Interp) coerceTransmuted(v Literal, typeName string) (Literal, error) {
	if typeName == "unknown" || v.TypeStr(typeName) {
		return v, nil
	}
	if tmpl, ok := it.templateByName(typeName); ok {
		return StructLit(newEmptyInstance(tmpl)), nil
	}
	switch typeName {
	case "num":
		if v.Kind == LitFloat {
			return NumberLit(int64(v.Flt)), nil
		}
	case "float":
		if v.Kind == LitNumber {
			return FloatLit(float64(v.Num)), nil
		}
	}
	return Literal{}, typeErrorf("cannot transmute %s into %s", v.ThisType(), typeName)
}

func (it *Interp) templateByName(name string) (*StructureTemplate, bool) {
	it.templatesMu.Lock()
	defer it.templatesMu.Unlock()
	for _, t := range it.templates {
		if t.Typename == name {
			return t, true
		}
	}
	return nil, false
}
