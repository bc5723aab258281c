package interp

import "math"

// useMath registers `std::math`'s min/max/pow/cmp over integers and
// minf/maxf/powf/cmpf/sin/cos/tan over floats, grounded on
// original_source/src/stdlib/math.rs. min always returns the smaller
// operand, max the larger.
func (it *Interp) useMath() error {
	const scope = "std::math"
	reg := func(name, outType string, params []string, fn ExternFunc) error {
		return it.RegisterExtern(scope, name, outType, params, fn)
	}

	if err := reg("min", "num", []string{"a", "b"}, func(args []Literal) (Literal, error) {
		a, b := args[0].Num, args[1].Num
		if a < b {
			return NumberLit(a), nil
		}
		return NumberLit(b), nil
	}); err != nil {
		return err
	}

	if err := reg("max", "num", []string{"a", "b"}, func(args []Literal) (Literal, error) {
		a, b := args[0].Num, args[1].Num
		if a > b {
			return NumberLit(a), nil
		}
		return NumberLit(b), nil
	}); err != nil {
		return err
	}

	if err := reg("pow", "num", []string{"base", "exp"}, func(args []Literal) (Literal, error) {
		return NumberLit(int64(math.Pow(float64(args[0].Num), float64(args[1].Num)))), nil
	}); err != nil {
		return err
	}

	if err := reg("cmp", "num", []string{"a", "b"}, func(args []Literal) (Literal, error) {
		return NumberLit(int64(cmpInt(args[0].Num, args[1].Num))), nil
	}); err != nil {
		return err
	}

	if err := reg("minf", "float", []string{"a", "b"}, func(args []Literal) (Literal, error) {
		return FloatLit(math.Min(args[0].Flt, args[1].Flt)), nil
	}); err != nil {
		return err
	}

	if err := reg("maxf", "float", []string{"a", "b"}, func(args []Literal) (Literal, error) {
		return FloatLit(math.Max(args[0].Flt, args[1].Flt)), nil
	}); err != nil {
		return err
	}

	if err := reg("powf", "float", []string{"base", "exp"}, func(args []Literal) (Literal, error) {
		return FloatLit(math.Pow(args[0].Flt, args[1].Flt)), nil
	}); err != nil {
		return err
	}

	if err := reg("cmpf", "num", []string{"a", "b"}, func(args []Literal) (Literal, error) {
		return NumberLit(int64(cmpFloat(args[0].Flt, args[1].Flt))), nil
	}); err != nil {
		return err
	}

	if err := reg("sin", "float", []string{"x"}, func(args []Literal) (Literal, error) {
		return FloatLit(math.Sin(args[0].Flt)), nil
	}); err != nil {
		return err
	}

	if err := reg("cos", "float", []string{"x"}, func(args []Literal) (Literal, error) {
		return FloatLit(math.Cos(args[0].Flt)), nil
	}); err != nil {
		return err
	}

	return reg("tan", "float", []string{"x"}, func(args []Literal) (Literal, error) {
		return FloatLit(math.Tan(args[0].Flt)), nil
	})
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
