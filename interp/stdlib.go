package interp

import (
	"time"
)

// Feature names a bundle of extern bindings registered under a fixed
// scope path.
type Feature uint8

const (
	FeatureCore Feature = iota + 1
	FeatureIO
	FeatureMath
	FeatureStrings
	FeatureMemory
	FeaturePrelude
)

// UseFeature enables a standard-library feature set, mirroring the
// teacher's `Use(Exports)` configure-after-New pattern.
func (it *Interp) UseFeature(f Feature) error {
	switch f {
	case FeatureCore:
		return it.useCore()
	case FeatureIO:
		return it.useIO()
	case FeatureMath:
		return it.useMath()
	case FeatureStrings:
		return it.useStrings()
	case FeatureMemory:
		return it.useMemory()
	case FeaturePrelude:
		return it.usePrelude()
	default:
		return nameErrorf("unknown feature %d", f)
	}
}

// useCore registers `std`'s panic/exit/sleep/sleep_millis, grounded on
// original_source/src/stdlib.rs's `std` module.
func (it *Interp) useCore() error {
	reg := func(name, outType string, params []string, fn ExternFunc) error {
		return it.RegisterExtern("std", name, outType, params, fn)
	}

	if err := reg("panic", "unknown", []string{"message"}, func(args []Literal) (Literal, error) {
		msg := args[0].String()
		return Literal{}, userPanic(msg)
	}); err != nil {
		return err
	}

	if err := reg("exit", "void", []string{"code"}, func(args []Literal) (Literal, error) {
		panic(&exitRequest{code: int(args[0].Num)})
	}); err != nil {
		return err
	}

	if err := reg("sleep", "void", []string{"seconds"}, func(args []Literal) (Literal, error) {
		time.Sleep(time.Duration(args[0].Num) * time.Second)
		return VoidLit(), nil
	}); err != nil {
		return err
	}

	return reg("sleep_millis", "void", []string{"millis"}, func(args []Literal) (Literal, error) {
		time.Sleep(time.Duration(args[0].Num) * time.Millisecond)
		return VoidLit(), nil
	})
}

// exitRequest is panicked by std::exit and recovered by the embedder's
// top-level run loop; it is not an *Error because it is not a failure.
type exitRequest struct{ code int }

// ExitCode extracts the requested process exit code from a recovered
// panic value, for embedders that want to call os.Exit themselves.
func ExitCode(r interface{}) (int, bool) {
	er, ok := r.(*exitRequest)
	if !ok {
		return 0, false
	}
	return er.code, true
}
