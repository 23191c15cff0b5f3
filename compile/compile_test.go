package compile

import (
	"context"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func testConfig() Config {
	cfg := Default()
	cfg.Module = "example.com/site/templates"
	return cfg
}

func requireGoFile(t *testing.T, path string) string {
	t.Helper()
	src, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = parser.ParseFile(token.NewFileSet(), path, src, parser.AllErrors)
	require.NoError(t, err, "generated file %s must be well-formed Go", path)
	return string(src)
}

func TestCompileTree(t *testing.T) {
	indir := writeTree(t, map[string]string{
		"hello.html.tpl":     "@(name: string)\n<h1>Hello @name!</h1>\n",
		"page.html.tpl":      "@(x: int)\n<div>@sub.other(x)</div>\n",
		"sub/other.html.tpl": "@(x: int)\n<span>@x</span>\n",
		"notes.txt":          "not a template",
	})
	outdir := filepath.Join(t.TempDir(), "out")

	engine := New(testConfig(), nil)
	warnings, err := engine.CompileTree(context.Background(), indir, outdir)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	hello := requireGoFile(t, filepath.Join(outdir, "hello.go"))
	assert.Contains(t, hello, "package templates")
	assert.Contains(t, hello, "func Hello(w io.Writer, name string) error {")
	assert.Contains(t, hello, "// Code generated by templc. DO NOT EDIT.")

	page := requireGoFile(t, filepath.Join(outdir, "page.go"))
	assert.Contains(t, page, "sub.Other(w, x)")
	assert.Contains(t, page, `"example.com/site/templates/sub"`)

	other := requireGoFile(t, filepath.Join(outdir, "sub", "other.go"))
	assert.Contains(t, other, "package sub")
	assert.Contains(t, other, "func Other(w io.Writer, x int) error {")

	// the non-template file is ignored
	_, err = os.Stat(filepath.Join(outdir, "notes.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestCompileTreeBadFileDoesNotAbortSiblings(t *testing.T) {
	indir := writeTree(t, map[string]string{
		"good.html.tpl": "@(name: string)\n<p>@name</p>\n",
		"bad.html.tpl":  `@("unterminated`,
	})
	outdir := filepath.Join(t.TempDir(), "out")

	engine := New(testConfig(), nil)
	warnings, err := engine.CompileTree(context.Background(), indir, outdir)
	require.NoError(t, err, "a parse failure is a warning, not a run failure")

	require.Len(t, warnings, 1)
	assert.Equal(t, filepath.Join(indir, "bad.html.tpl"), warnings[0].Filename)
	assert.Contains(t, warnings[0].Message, "could not compile template")
	assert.Equal(t, 1, warnings[0].Line)

	requireGoFile(t, filepath.Join(outdir, "good.go"))
	_, err = os.Stat(filepath.Join(outdir, "bad.go"))
	assert.True(t, os.IsNotExist(err), "a skipped template leaves no output file")
}

func TestCompileTreeNameCollision(t *testing.T) {
	indir := writeTree(t, map[string]string{
		"my-page.html.tpl": "<p>dash</p>",
		"my_page.html.tpl": "<p>underscore</p>",
	})
	outdir := filepath.Join(t.TempDir(), "out")

	engine := New(testConfig(), nil)
	warnings, err := engine.CompileTree(context.Background(), indir, outdir)
	require.NoError(t, err)

	// scan order is sorted, so the dash spelling wins deterministically
	require.Len(t, warnings, 1)
	assert.Equal(t, filepath.Join(indir, "my_page.html.tpl"), warnings[0].Filename)
	assert.Contains(t, warnings[0].Message, "collides")

	requireGoFile(t, filepath.Join(outdir, "my-page.go"))
	_, err = os.Stat(filepath.Join(outdir, "my_page.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestCompileTreeIsIdempotent(t *testing.T) {
	indir := writeTree(t, map[string]string{
		"hello.html.tpl": "@(name: string)\n<h1>Hello @name!</h1>\n",
	})
	outdir := filepath.Join(t.TempDir(), "out")
	engine := New(testConfig(), nil)

	_, err := engine.CompileTree(context.Background(), indir, outdir)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(outdir, "hello.go"))
	require.NoError(t, err)

	_, err = engine.CompileTree(context.Background(), indir, outdir)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(outdir, "hello.go"))
	require.NoError(t, err)

	assert.Equal(t, first, second, "recompiling an unchanged tree must be byte-identical")
}

func TestCompileTreeForwardReference(t *testing.T) {
	// caller is enumerated before its callee in scan order
	indir := writeTree(t, map[string]string{
		"aaa.html.tpl": "@zzz()",
		"zzz.html.tpl": "<footer/>",
	})
	outdir := filepath.Join(t.TempDir(), "out")

	engine := New(testConfig(), nil)
	warnings, err := engine.CompileTree(context.Background(), indir, outdir)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	aaa := requireGoFile(t, filepath.Join(outdir, "aaa.go"))
	assert.Contains(t, aaa, "Zzz(w)")
}

func TestCompileTreeOutputFailureIsFatal(t *testing.T) {
	indir := writeTree(t, map[string]string{
		"hello.html.tpl": "<p>hi</p>",
	})
	blocked := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("file, not a directory"), 0o644))

	engine := New(testConfig(), nil)
	_, err := engine.CompileTree(context.Background(), indir, filepath.Join(blocked, "out"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutput)
}

func TestCompileTreeCancelled(t *testing.T) {
	indir := writeTree(t, map[string]string{
		"hello.html.tpl": "<p>hi</p>",
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := New(testConfig(), nil)
	_, err := engine.CompileTree(ctx, indir, filepath.Join(t.TempDir(), "out"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckTree(t *testing.T) {
	indir := writeTree(t, map[string]string{
		"good.html.tpl":     "@(name: string)\n<p>@name</p>\n",
		"bad.html.tpl":      "@if x { never closed",
		"sub/also.html.tpl": "@{broken",
	})

	engine := New(testConfig(), nil)
	warnings, err := engine.CheckTree(context.Background(), indir)
	require.NoError(t, err)

	require.Len(t, warnings, 2)
	// sorted by filename
	assert.Equal(t, filepath.Join(indir, "bad.html.tpl"), warnings[0].Filename)
	assert.Equal(t, filepath.Join(indir, "sub/also.html.tpl"), warnings[1].Filename)
	for _, w := range warnings {
		assert.Contains(t, w.Message, "could not compile template")
	}
}

func TestCompileSource(t *testing.T) {
	engine := New(testConfig(), nil)
	out, err := engine.CompileSource("inline", []byte("@(v: string)\n@v"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "func Inline(w io.Writer, v string) error {")

	_, err = engine.CompileSource("broken", []byte("@if x {"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestLoadConfig(t *testing.T) {
	t.Run("overlay on defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		require.NoError(t, os.WriteFile(path, []byte("suffix: .tpl\nmodule: example.com/x\nworkers: 2\n"), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, ".tpl", cfg.Suffix)
		assert.Equal(t, "example.com/x", cfg.Module)
		assert.Equal(t, 2, cfg.Workers)
		assert.Equal(t, "templates", cfg.Package, "unset keys keep their defaults")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		require.NoError(t, WriteConfig(path))
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})
}
