package interp

import (
	"fmt"
	"strings"
)

// useIO registers `std::io`'s print/println/fmt/debug/debugp, grounded on
// original_source/src/stdlib/io.rs.
func (it *Interp) useIO() error {
	const scope = "std::io"
	reg := func(name, outType string, params []string, fn ExternFunc) error {
		return it.RegisterExtern(scope, name, outType, params, fn)
	}

	if err := reg("print", "void", []string{"value"}, func(args []Literal) (Literal, error) {
		fmt.Fprint(it.opts.Stdout, args[0].String())
		return VoidLit(), nil
	}); err != nil {
		return err
	}

	if err := reg("println", "void", []string{"value"}, func(args []Literal) (Literal, error) {
		fmt.Fprintln(it.opts.Stdout, args[0].String())
		return VoidLit(), nil
	}); err != nil {
		return err
	}

	if err := reg("fmt", "str", []string{"pattern", varargsSentinel}, func(args []Literal) (Literal, error) {
		if len(args) == 0 {
			return StringLit(""), nil
		}
		pattern := args[0].String()
		for _, a := range args[1:] {
			pattern = strings.Replace(pattern, "{}", a.String(), 1)
		}
		return StringLit(pattern), nil
	}); err != nil {
		return err
	}

	if err := reg("debug", "void", []string{"value"}, func(args []Literal) (Literal, error) {
		fmt.Fprintln(it.opts.Stderr, args[0].String())
		return VoidLit(), nil
	}); err != nil {
		return err
	}

	return reg("debugp", "void", []string{"value"}, func(args []Literal) (Literal, error) {
		v := args[0]
		if v.Kind == LitStruct {
			fmt.Fprintln(it.opts.Stderr, v.Struct.debugString(true))
			return VoidLit(), nil
		}
		fmt.Fprintln(it.opts.Stderr, v.String())
		return VoidLit(), nil
	})
}
