package loader

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/robbyt/go-sfctemplate/compiler"
	"github.com/robbyt/go-sfctemplate/options"
	"github.com/robbyt/go-sfctemplate/sfc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	slogcontext "github.com/veqryn/slog-context"
)

const (
	appPath  = "/src/App.vue"
	appQuery = "?vue&type=template&id=abc123"
	template = "<div>{{ msg }}</div>"
)

func testHandler() slog.Handler {
	return slog.NewTextHandler(os.Stdout, nil)
}

func newCache(t *testing.T, desc *sfc.Descriptor) *sfc.Cache {
	t.Helper()
	cache := sfc.NewCache()
	require.NoError(t, cache.Set(appPath, desc))
	return cache
}

func appDescriptor(styles ...sfc.StyleBlock) *sfc.Descriptor {
	return &sfc.Descriptor{
		Filename: appPath,
		Template: &sfc.TemplateBlock{Block: sfc.Block{Type: "template", Content: template}},
		Styles:   styles,
	}
}

// recordingCompiler returns a fixed result and keeps the options it was called with.
type recordingCompiler struct {
	mu     sync.Mutex
	result *compiler.Result
	err    error
	got    []*compiler.Options
}

func (c *recordingCompiler) Compile(_ context.Context, opts *compiler.Options) (*compiler.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, opts)
	return c.result, c.err
}

func (c *recordingCompiler) last(t *testing.T) *compiler.Options {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.got)
	return c.got[len(c.got)-1]
}

func newLoader(t *testing.T, opts ...Option) *Loader {
	t.Helper()
	base := []Option{WithLogHandler(testHandler()), WithColor(false)}
	l, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return l
}

func TestLoad_TipOnly(t *testing.T) {
	t.Parallel()

	comp := &recordingCompiler{result: &compiler.Result{Code: "render(){}", Tips: []string{"unused slot"}}}
	l := newLoader(t, WithDescriptorCache(newCache(t, appDescriptor())), WithCompiler(comp))
	lctx := NewMockContext(appPath, appQuery, "development", "web")

	require.NoError(t, l.Load(t.Context(), lctx, []byte(template), nil))

	lctx.AssertNumberOfCalls(t, "EmitWarning", 1)
	lctx.AssertCalled(t, "EmitWarning", Warning("unused slot"))
	lctx.AssertNotCalled(t, "EmitError", mock.Anything)
	lctx.AssertCalled(t, "Callback", nil, "render(){}", (*compiler.SourceMap)(nil))

	opts := comp.last(t)
	assert.Equal(t, "abc123", opts.ID)
	assert.False(t, opts.Scoped)
	assert.False(t, opts.IsProd)
	assert.False(t, opts.SSR)
	_, hasScopeID := opts.ScopeID()
	assert.False(t, hasScopeID)
}

func TestLoad_RequestFields(t *testing.T) {
	t.Parallel()

	comp := &recordingCompiler{result: &compiler.Result{Code: "render(){}"}}
	l := newLoader(t, WithDescriptorCache(newCache(t, appDescriptor(sfc.StyleBlock{Scoped: true}))), WithCompiler(comp))
	lctx := NewMockContext(appPath, appQuery, "production", "node")
	inMap := &compiler.SourceMap{Version: 3, Sources: []string{"App.pug"}, SourcesContent: []string{"div {{ msg }}"}}

	require.NoError(t, l.Load(t.Context(), lctx, []byte(template), inMap))

	opts := comp.last(t)
	assert.Equal(t, "abc123", opts.ID)
	assert.Equal(t, appPath, opts.Filename)
	assert.Equal(t, template, opts.Source)
	assert.Same(t, inMap, opts.InMap)
	assert.True(t, opts.Scoped)
	assert.True(t, opts.IsProd)
	assert.True(t, opts.SSR)
	scopeID, ok := opts.ScopeID()
	assert.True(t, ok)
	assert.Equal(t, "data-v-abc123", scopeID)
	assert.Equal(t, true, opts.TransformAssetURLs)
}

func TestLoad_DiagnosticOrder(t *testing.T) {
	t.Parallel()

	located := &compiler.CompileError{
		Message: "Element is missing end tag.",
		Loc: &compiler.SourceLocation{
			Start: sfc.Position{Line: 1, Column: 1, Offset: 0},
			End:   sfc.Position{Line: 1, Column: 6, Offset: 5},
		},
	}
	unlocated := &compiler.CompileError{Message: "no location"}
	plainErr := compiler.MessageError("plain failure")

	comp := &recordingCompiler{result: &compiler.Result{
		Code:   "render(){}",
		Map:    &compiler.SourceMap{Version: 3},
		Tips:   []string{"tip one", "tip two"},
		Errors: []error{plainErr, located, unlocated},
	}}
	l := newLoader(t, WithDescriptorCache(newCache(t, appDescriptor())), WithCompiler(comp))
	lctx := NewMockContext(appPath, appQuery, "", "")

	require.NoError(t, l.Load(t.Context(), lctx, []byte(template), nil))

	calls := lctx.Emitted()
	require.Len(t, calls, 6)
	methods := make([]string, len(calls))
	for i, c := range calls {
		methods[i] = c.Method
	}
	assert.Equal(t, []string{"EmitWarning", "EmitWarning", "EmitError", "EmitError", "EmitError", "Callback"}, methods)

	assert.Equal(t, Warning("tip one"), calls[0].Arguments.Get(0))
	assert.Equal(t, Warning("tip two"), calls[1].Arguments.Get(0))

	// plain errors are passed through unmodified
	assert.Equal(t, plainErr, calls[2].Arguments.Get(0))

	formatted, ok := calls[3].Arguments.Get(0).(*FormattedError)
	require.True(t, ok)
	assert.Same(t, located, formatted.Err)
	assert.Contains(t, formatted.Error(), "VueCompilerError: Element is missing end tag.")
	assert.Contains(t, formatted.Error(), "at /src/App.vue:1:1")

	assert.Same(t, unlocated, calls[4].Arguments.Get(0))

	cb := calls[5].Arguments
	assert.Nil(t, cb.Get(0))
	assert.Equal(t, "render(){}", cb.String(1))
	assert.Equal(t, &compiler.SourceMap{Version: 3}, cb.Get(2))
	lctx.AssertNumberOfCalls(t, "Callback", 1)
}

func TestLoad_ErrorSource(t *testing.T) {
	t.Parallel()

	located := &compiler.CompileError{
		Message: "bad",
		Loc: &compiler.SourceLocation{
			Start: sfc.Position{Line: 1, Column: 1, Offset: 0},
			End:   sfc.Position{Line: 1, Column: 4, Offset: 3},
		},
	}
	newComp := func() *recordingCompiler {
		return &recordingCompiler{result: &compiler.Result{Code: "x", Errors: []error{located}}}
	}

	tests := []struct {
		name  string
		inMap *compiler.SourceMap
		want  string
	}{
		{name: "raw source", inMap: nil, want: "1  |  " + template},
		{name: "input map source", inMap: &compiler.SourceMap{SourcesContent: []string{"div(v-if=ok)"}}, want: "1  |  div(v-if=ok)"},
		{name: "input map without content", inMap: &compiler.SourceMap{Version: 3}, want: "1  |  " + template},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l := newLoader(t, WithDescriptorCache(newCache(t, appDescriptor())), WithCompiler(newComp()))
			lctx := NewMockContext(appPath, appQuery, "", "")

			require.NoError(t, l.Load(t.Context(), lctx, []byte(template), tt.inMap))

			calls := lctx.Emitted()
			require.Len(t, calls, 2)
			got := calls[0].Arguments.Error(0)
			assert.Contains(t, got.Error(), tt.want)
		})
	}
}

func TestLoad_NilCompilerError(t *testing.T) {
	t.Parallel()

	reported := compiler.MessageError("reported")
	comp := &recordingCompiler{result: &compiler.Result{Code: "x", Errors: []error{nil, reported, nil}}}
	l := newLoader(t, WithDescriptorCache(newCache(t, appDescriptor())), WithCompiler(comp))
	lctx := NewMockContext(appPath, appQuery, "", "")

	require.NoError(t, l.Load(t.Context(), lctx, []byte(template), nil))

	calls := lctx.Emitted()
	require.Len(t, calls, 2)
	assert.Equal(t, "EmitError", calls[0].Method)
	assert.Equal(t, reported, calls[0].Arguments.Get(0))
	assert.Equal(t, "Callback", calls[1].Method)
	lctx.AssertNumberOfCalls(t, "EmitError", 1)
}

func TestLoad_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cache   *sfc.Cache
		opts    []Option
		wantErr error
	}{
		{
			name:    "descriptor not cached",
			cache:   sfc.NewCache(),
			opts:    []Option{WithCompiler(&recordingCompiler{result: &compiler.Result{}})},
			wantErr: sfc.ErrDescriptorNotFound,
		},
		{
			name:    "compiler invocation fails",
			opts:    []Option{WithCompiler(&recordingCompiler{err: errors.New("malformed options")})},
			wantErr: ErrCompileFailed,
		},
		{
			name:    "compiler returns nothing",
			opts:    []Option{WithCompiler(&recordingCompiler{})},
			wantErr: ErrCompileFailed,
		},
		{
			name:    "no compiler",
			wantErr: compiler.ErrNoCompiler,
		},
		{
			name: "unknown compiler module",
			opts: []Option{
				WithRegistry(compiler.NewRegistry(testHandler())),
				WithConfig(&options.Config{Compiler: compiler.ModuleRef("missing-compiler")}),
			},
			wantErr: compiler.ErrModuleNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cache := tt.cache
			if cache == nil {
				cache = newCache(t, appDescriptor())
			}
			l := newLoader(t, append(tt.opts, WithDescriptorCache(cache))...)
			lctx := NewMockContext(appPath, appQuery, "", "")

			err := l.Load(t.Context(), lctx, []byte(template), nil)
			require.ErrorIs(t, err, tt.wantErr)
			lctx.AssertNotCalled(t, "Callback", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("nil context", func(t *testing.T) {
		t.Parallel()
		l := newLoader(t, WithDescriptorCache(sfc.NewCache()))
		require.ErrorIs(t, l.Load(t.Context(), nil, nil, nil), ErrContextNil)
	})
}

func TestLoad_NoTemplateBlock(t *testing.T) {
	t.Parallel()

	comp := &recordingCompiler{result: &compiler.Result{Code: ""}}
	desc := &sfc.Descriptor{Filename: appPath, Styles: []sfc.StyleBlock{{Scoped: true}}}
	l := newLoader(t, WithDescriptorCache(newCache(t, desc)), WithCompiler(comp))
	lctx := NewMockContext(appPath, appQuery, "production", "")

	require.NoError(t, l.Load(t.Context(), lctx, []byte("<div/>"), nil))

	want := &compiler.Options{ID: "abc123", Filename: appPath, Source: "<div/>"}
	assert.Equal(t, want, comp.last(t))
	lctx.AssertCalled(t, "Callback", nil, "", (*compiler.SourceMap)(nil))
}

func TestLoad_MissingID(t *testing.T) {
	t.Parallel()

	comp := &recordingCompiler{result: &compiler.Result{Code: "render(){}"}}
	l := newLoader(t, WithDescriptorCache(newCache(t, appDescriptor(sfc.StyleBlock{Scoped: true}))), WithCompiler(comp))
	lctx := NewMockContext(appPath, "?vue&type=template", "", "")

	require.NoError(t, l.Load(t.Context(), lctx, []byte(template), nil))

	opts := comp.last(t)
	assert.Empty(t, opts.ID)
	scopeID, _ := opts.ScopeID()
	assert.Equal(t, "data-v-", scopeID)
}

func TestLoad_ConfiguredCompiler(t *testing.T) {
	t.Parallel()

	fallback := &recordingCompiler{result: &compiler.Result{Code: "fallback"}}
	named := &recordingCompiler{result: &compiler.Result{Code: "named"}}
	reg := compiler.NewRegistry(testHandler())
	require.NoError(t, reg.Register("vue-compiler", named))

	cfg, err := options.New(
		options.WithCompilerModule("vue-compiler"),
		options.WithCompilerOptions(map[string]any{"whitespace": "preserve"}),
	)
	require.NoError(t, err)

	l := newLoader(t,
		WithDescriptorCache(newCache(t, appDescriptor())),
		WithCompiler(fallback),
		WithRegistry(reg),
		WithConfig(cfg),
	)
	lctx := NewMockContext(appPath, appQuery, "", "")

	require.NoError(t, l.Load(t.Context(), lctx, []byte(template), nil))

	lctx.AssertCalled(t, "Callback", nil, "named", (*compiler.SourceMap)(nil))
	assert.Empty(t, fallback.got)
	opts := named.last(t)
	assert.Equal(t, "preserve", opts.CompilerOptions["whitespace"])
	assert.Same(t, named, opts.Compiler)
}

func TestLoad_Bindings(t *testing.T) {
	t.Parallel()

	desc := appDescriptor()
	bindings := sfc.BindingMetadata{"msg": sfc.BindingSetupRef}
	scripts := sfc.NewScriptCache()
	require.NoError(t, scripts.Set(desc, true, &sfc.ResolvedScript{Bindings: bindings}))

	comp := &recordingCompiler{result: &compiler.Result{Code: "render(){}"}}
	l := newLoader(t, WithDescriptorCache(newCache(t, desc)), WithScriptResolver(scripts), WithCompiler(comp))

	require.NoError(t, l.Load(t.Context(), NewMockContext(appPath, appQuery, "", "node"), []byte(template), nil))
	assert.Equal(t, bindings, comp.last(t).CompilerOptions["bindingMetadata"])

	require.NoError(t, l.Load(t.Context(), NewMockContext(appPath, appQuery, "", "web"), []byte(template), nil))
	assert.NotContains(t, comp.last(t).CompilerOptions, "bindingMetadata")
}

func TestLoad_DescriptorReplaced(t *testing.T) {
	t.Parallel()

	cache := newCache(t, appDescriptor())
	comp := &recordingCompiler{result: &compiler.Result{Code: "render(){}"}}
	l := newLoader(t, WithDescriptorCache(cache), WithCompiler(comp))

	require.NoError(t, l.Load(t.Context(), NewMockContext(appPath, appQuery, "", ""), []byte(template), nil))
	assert.False(t, comp.last(t).Scoped)

	require.NoError(t, cache.Set(appPath, appDescriptor(sfc.StyleBlock{Scoped: true})))
	require.NoError(t, l.Load(t.Context(), NewMockContext(appPath, appQuery, "", ""), []byte(template), nil))
	assert.True(t, comp.last(t).Scoped)
}

func TestLoad_RequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	comp := compiler.Func(func(ctx context.Context, opts *compiler.Options) (*compiler.Result, error) {
		slogcontext.FromCtx(ctx).InfoContext(ctx, "compiling in backend")
		return &compiler.Result{Code: "render(){}"}, nil
	})
	l, err := New(
		WithLogHandler(handler),
		WithColor(false),
		WithDescriptorCache(newCache(t, appDescriptor())),
		WithCompiler(comp),
	)
	require.NoError(t, err)

	require.NoError(t, l.Load(t.Context(), NewMockContext(appPath, appQuery, "", ""), []byte(template), nil))

	var backendLine string
	for line := range strings.SplitSeq(buf.String(), "\n") {
		if strings.Contains(line, "compiling in backend") {
			backendLine = line
		}
	}
	require.NotEmpty(t, backendLine)
	assert.Contains(t, backendLine, "resource=/src/App.vue")
	assert.Contains(t, backendLine, "id=abc123")
}

func TestLoad_Concurrent(t *testing.T) {
	t.Parallel()

	comp := &recordingCompiler{result: &compiler.Result{Code: "render(){}", Tips: []string{"tip"}}}
	l := newLoader(t, WithDescriptorCache(newCache(t, appDescriptor())), WithCompiler(comp))

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			lctx := NewMockContext(appPath, appQuery, "", "")
			assert.NoError(t, l.Load(t.Context(), lctx, []byte(template), nil))
			lctx.AssertNumberOfCalls(t, "Callback", 1)
		})
	}
	wg.Wait()
	assert.Len(t, comp.got, 16)
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(WithLogHandler(testHandler()))
	require.Error(t, err)

	for _, opt := range []Option{
		WithConfig(nil),
		WithDescriptorCache(nil),
		WithScriptResolver(nil),
		WithRegistry(nil),
		WithCompiler(nil),
		WithLogHandler(nil),
		WithLogger(nil),
		WithConfig(&options.Config{TransformAssetURLs: "yes"}),
	} {
		_, err := New(WithDescriptorCache(sfc.NewCache()), opt)
		require.Error(t, err)
	}

	l, err := New(WithDescriptorCache(sfc.NewCache()), WithLogger(slog.New(testHandler())))
	require.NoError(t, err)
	assert.Contains(t, l.String(), "*sfc.Cache")
}
