// Package sfc holds the parsed representation of single-file components and the
// read-only lookup tables that earlier pipeline stages populate with it.
package sfc

// Position is a location inside the component source. Line and Column are
// 1-based, Offset is a 0-based byte offset.
type Position struct {
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Offset int `json:"offset" yaml:"offset"`
}

// Block is the common part of every top-level section of a component.
type Block struct {
	Type    string            `json:"type"`
	Content string            `json:"content"`
	Lang    string            `json:"lang,omitempty"`
	Src     string            `json:"src,omitempty"`
	Attrs   map[string]string `json:"attrs,omitempty"`
	Start   Position          `json:"start"`
	End     Position          `json:"end"`
}

type TemplateBlock struct {
	Block
}

type ScriptBlock struct {
	Block
	Setup bool `json:"setup,omitempty"`
}

// StyleBlock is one <style> section. Scoped styles make the template compiler
// tag generated elements with the component's scope attribute.
type StyleBlock struct {
	Block
	Scoped bool   `json:"scoped,omitempty"`
	Module string `json:"module,omitempty"`
}

// Descriptor is the structural breakdown of one component file. Descriptors are
// produced by the parser stage and must be treated as immutable once cached.
type Descriptor struct {
	Filename    string
	Source      string
	Template    *TemplateBlock
	Script      *ScriptBlock
	ScriptSetup *ScriptBlock
	Styles      []StyleBlock

	// CSSVars lists the expressions bound through v-bind() in style blocks,
	// injected as variables during server-side rendering.
	CSSVars []string

	// Slotted is set when a style block uses the ::v-slotted selector.
	Slotted bool
}

// HasScopedStyle reports whether at least one style block is scoped.
func (d *Descriptor) HasScopedStyle() bool {
	if d == nil {
		return false
	}
	for _, s := range d.Styles {
		if s.Scoped {
			return true
		}
	}
	return false
}
