package interp

import "fmt"

// LitKind tags the variant carried by a Literal.
type LitKind uint8

const (
	LitVoid LitKind = iota
	LitNumber
	LitFloat
	LitString
	LitChar
	LitIdent
	LitBool
	LitTypeName
	LitStruct
)

// Discriminants for the on-wire literal tag, per the codec's self-describing
// sum-type contract. Void is written as 0x00 so an all-zero buffer decodes
// to the safe default.
const (
	tagLitVoid     uint8 = 0x00
	tagLitNumber   uint8 = 0x01
	tagLitFloat    uint8 = 0x02
	tagLitString   uint8 = 0x03
	tagLitChar     uint8 = 0x04
	tagLitIdent    uint8 = 0x05
	tagLitBool     uint8 = 0x06
	tagLitTypeName uint8 = 0x07
	tagLitStruct   uint8 = 0x08
)

// Literal is the runtime value universe: a tagged sum over every
// first-class value the evaluator can hold on its stack, bind in a scope,
// or pass across a call boundary.
type Literal struct {
	Kind   LitKind
	Num    int64
	Flt    float64
	Str    string // backs String, Ident and TypeName
	Ch     rune
	Bool   bool
	Struct *StructureInstance
}

func VoidLit() Literal                 { return Literal{Kind: LitVoid} }
func NumberLit(v int64) Literal        { return Literal{Kind: LitNumber, Num: v} }
func FloatLit(v float64) Literal       { return Literal{Kind: LitFloat, Flt: v} }
func StringLit(v string) Literal       { return Literal{Kind: LitString, Str: v} }
func CharLit(v rune) Literal           { return Literal{Kind: LitChar, Ch: v} }
func IdentLit(v string) Literal        { return Literal{Kind: LitIdent, Str: v} }
func BoolLit(v bool) Literal           { return Literal{Kind: LitBool, Bool: v} }
func TypeNameLit(v string) Literal     { return Literal{Kind: LitTypeName, Str: v} }
func StructLit(v *StructureInstance) Literal {
	return Literal{Kind: LitStruct, Str: v.Typename, Struct: v}
}

// ThisType returns the canonical type tag string for the literal. An
// Ident reports "void" because identifiers stop being first-class values
// once they are resolved by the evaluator.
func (l Literal) ThisType() string {
	switch l.Kind {
	case LitNumber:
		return "num"
	case LitFloat:
		return "float"
	case LitString:
		return "str"
	case LitChar:
		return "char"
	case LitIdent:
		return "void"
	case LitBool:
		return "bool"
	case LitTypeName:
		return "typename"
	case LitStruct:
		return l.Struct.Typename
	default:
		return "void"
	}
}

// TypeStr reports whether the literal's type tag matches the given name.
// An Ident matches every name.
func (l Literal) TypeStr(tn string) bool {
	switch l.Kind {
	case LitNumber:
		return tn == "num"
	case LitFloat:
		return tn == "float"
	case LitString:
		return tn == "str"
	case LitChar:
		return tn == "char"
	case LitIdent:
		return true
	case LitBool:
		return tn == "bool"
	case LitTypeName:
		return tn == "typename"
	case LitStruct:
		return tn == l.Struct.Typename
	default:
		return tn == "void"
	}
}

// TypeMatches reports variant-wise equality, plus typename equality for
// structures. Used to enforce that a mutable may only be reassigned a
// literal of the same type.
func (l Literal) TypeMatches(other Literal) bool {
	if l.Kind != other.Kind {
		return false
	}
	if l.Kind == LitStruct {
		return l.Struct.Typename == other.Struct.Typename
	}
	return true
}

// Truthy implements the language's boolean coercion: Number != 0, Bool as
// itself, Void is always false, anything else is true.
func (l Literal) Truthy() bool {
	switch l.Kind {
	case LitNumber:
		return l.Num != 0
	case LitBool:
		return l.Bool
	case LitVoid:
		return false
	default:
		return true
	}
}

// String implements fmt.Stringer, matching the language's display rules:
// numbers/floats/bools print decimal, strings and idents print raw,
// structures print their debug layout, Void prints as "*".
func (l Literal) String() string {
	switch l.Kind {
	case LitNumber:
		return fmt.Sprintf("%d", l.Num)
	case LitFloat:
		return formatFloat(l.Flt)
	case LitString:
		return l.Str
	case LitChar:
		return string(l.Ch)
	case LitIdent:
		return l.Str
	case LitBool:
		return fmt.Sprintf("%t", l.Bool)
	case LitTypeName:
		return l.Str
	case LitStruct:
		return l.Struct.debugString(false)
	default:
		return "*"
	}
}

func formatFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}

// WriteBinary implements the codec contract for Literal: a one-byte
// discriminant followed by the payload of the selected arm.
func (l Literal) WriteBinary(e *Encoder) error {
	switch l.Kind {
	case LitVoid:
		return e.WriteU8(tagLitVoid)
	case LitNumber:
		if err := e.WriteU8(tagLitNumber); err != nil {
			return err
		}
		return e.WriteI64(l.Num)
	case LitFloat:
		if err := e.WriteU8(tagLitFloat); err != nil {
			return err
		}
		return e.WriteF64(l.Flt)
	case LitString:
		if err := e.WriteU8(tagLitString); err != nil {
			return err
		}
		return e.WriteString(l.Str)
	case LitChar:
		if err := e.WriteU8(tagLitChar); err != nil {
			return err
		}
		return e.WriteRune(l.Ch)
	case LitIdent:
		if err := e.WriteU8(tagLitIdent); err != nil {
			return err
		}
		return e.WriteString(l.Str)
	case LitBool:
		if err := e.WriteU8(tagLitBool); err != nil {
			return err
		}
		return e.WriteBool(l.Bool)
	case LitTypeName:
		if err := e.WriteU8(tagLitTypeName); err != nil {
			return err
		}
		return e.WriteString(l.Str)
	case LitStruct:
		if err := e.WriteU8(tagLitStruct); err != nil {
			return err
		}
		return l.Struct.WriteBinary(e)
	default:
		return decodeErrorf("unknown literal kind %d", l.Kind)
	}
}

// ReadLiteral is the exact inverse of Literal.WriteBinary.
func ReadLiteral(d *Decoder) (Literal, error) {
	tag, err := d.ReadU8()
	if err != nil {
		return Literal{}, err
	}
	switch tag {
	case tagLitVoid:
		return VoidLit(), nil
	case tagLitNumber:
		v, err := d.ReadI64()
		if err != nil {
			return Literal{}, err
		}
		return NumberLit(v), nil
	case tagLitFloat:
		v, err := d.ReadF64()
		if err != nil {
			return Literal{}, err
		}
		return FloatLit(v), nil
	case tagLitString:
		v, err := d.ReadString()
		if err != nil {
			return Literal{}, err
		}
		return StringLit(v), nil
	case tagLitChar:
		v, err := d.ReadRune()
		if err != nil {
			return Literal{}, err
		}
		return CharLit(v), nil
	case tagLitIdent:
		v, err := d.ReadString()
		if err != nil {
			return Literal{}, err
		}
		return IdentLit(v), nil
	case tagLitBool:
		v, err := d.ReadBool()
		if err != nil {
			return Literal{}, err
		}
		return BoolLit(v), nil
	case tagLitTypeName:
		v, err := d.ReadString()
		if err != nil {
			return Literal{}, err
		}
		return TypeNameLit(v), nil
	case tagLitStruct:
		inst, err := ReadStructureInstance(d)
		if err != nil {
			return Literal{}, err
		}
		return StructLit(inst), nil
	default:
		return Literal{}, invalidDiscriminant("literal", tag)
	}
}
