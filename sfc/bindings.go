package sfc

// BindingType tags how an identifier exposed by the script block may be
// accessed from the template.
type BindingType string

const (
	BindingData               BindingType = "data"
	BindingProps              BindingType = "props"
	BindingPropsAliased       BindingType = "props-aliased"
	BindingSetupLet           BindingType = "setup-let"
	BindingSetupConst         BindingType = "setup-const"
	BindingSetupReactiveConst BindingType = "setup-reactive-const"
	BindingSetupMaybeRef      BindingType = "setup-maybe-ref"
	BindingSetupRef           BindingType = "setup-ref"
	BindingOptions            BindingType = "options"
	BindingLiteralConst       BindingType = "literal-const"
)

// BindingMetadata maps identifier names to their binding type.
type BindingMetadata map[string]BindingType

// ResolvedScript is the result of analyzing a component's script blocks.
type ResolvedScript struct {
	Content  string
	Bindings BindingMetadata
}
