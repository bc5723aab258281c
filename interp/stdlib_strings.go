package interp

// useStrings registers `std::str`'s stringify, grounded on
// original_source/src/stdlib/strs.rs.
func (it *Interp) useStrings() error {
	return it.RegisterExtern("std::str", "stringify", "str", []string{"value"}, func(args []Literal) (Literal, error) {
		return StringLit(args[0].String()), nil
	})
}
