package compiler

import "maps"

// Keys in Options.CompilerOptions that the loader manages.
const (
	OptionScopeID         = "scopeId"
	OptionBindingMetadata = "bindingMetadata"
)

// Options is the full input of a template compilation.
type Options struct {
	// ID is the scope identifier of the component.
	ID       string     `json:"id"`
	Filename string     `json:"filename"`
	Source   string     `json:"source"`
	InMap    *SourceMap `json:"inMap,omitempty"`

	Scoped  bool `json:"scoped"`
	Slotted bool `json:"slotted"`
	IsProd  bool `json:"isProd"`
	SSR     bool `json:"ssr"`

	// SSRCSSVars are the style v-bind() expressions injected during SSR.
	SSRCSSVars []string `json:"ssrCssVars,omitempty"`

	// Compiler overrides the implementation used to compile the template.
	Compiler Compiler `json:"-"`

	// CompilerOptions are passed through to the compiler implementation.
	CompilerOptions map[string]any `json:"compilerOptions,omitempty"`

	// TransformAssetURLs is either a bool or an object describing which
	// element attributes are rewritten into module imports.
	TransformAssetURLs any `json:"transformAssetUrls,omitempty"`
}

// Clone returns a copy of o whose CompilerOptions map can be modified
// without affecting o.
func (o *Options) Clone() *Options {
	if o == nil {
		return nil
	}
	c := *o
	c.CompilerOptions = maps.Clone(o.CompilerOptions)
	if o.SSRCSSVars != nil {
		c.SSRCSSVars = append([]string(nil), o.SSRCSSVars...)
	}
	return &c
}

// ScopeID returns the scope attribute passed to the compiler, if any.
func (o *Options) ScopeID() (string, bool) {
	if o == nil || o.CompilerOptions == nil {
		return "", false
	}
	v, ok := o.CompilerOptions[OptionScopeID].(string)
	return v, ok
}
