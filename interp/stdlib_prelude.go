package interp

// preludeImports is the curated name set imported into "global" when the
// prelude feature is enabled, grounded on original_source/src/stdlib/prelude.rs.
var preludeImports = []struct{ source, name string }{
	{"std::io", "print"},
	{"std::io", "println"},
	{"std::io", "debug"},
	{"std::io", "fmt"},
	{"std::math", "min"},
	{"std::math", "max"},
	{"std::math", "pow"},
	{"std::math", "cmp"},
	{"std::str", "stringify"},
	{"std", "exit"},
	{"std", "panic"},
	{"std", "sleep"},
}

// usePrelude enables Core/IO/Math/Strings and imports the curated default
// set into "global".
func (it *Interp) usePrelude() error {
	for _, f := range []Feature{FeatureCore, FeatureIO, FeatureMath, FeatureStrings} {
		if err := it.UseFeature(f); err != nil {
			return err
		}
	}
	global, ok := it.scope("global")
	if !ok {
		global = newScope("global")
		it.putScope(global)
	}
	for _, imp := range preludeImports {
		global.AddImport(imp.source, imp.name)
	}
	return nil
}
