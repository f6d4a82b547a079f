package loader

import "github.com/robbyt/go-sfctemplate/compiler"

// Context is the host side of one template request: the resource being
// compiled, the build it belongs to, and the channels results are reported on.
type Context interface {
	// ResourcePath is the path of the component file.
	ResourcePath() string
	// ResourceQuery is the query of the request, with or without the leading "?".
	ResourceQuery() string
	// Mode is the build mode, "production" enables production output.
	Mode() string
	// Target is the build target, "node" implies a server build.
	Target() string

	EmitWarning(err error)
	EmitError(err error)

	// Callback completes the request. It is called at most once.
	Callback(err error, code string, m *compiler.SourceMap)
}
