package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weft/internal/taghelpers"
	"weft/internal/testkit"
)

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return path
}

func TestClassNameFor(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"views/item-card.weft", "ItemCardTemplate"},
		{"index.weft", "IndexTemplate"},
		{"a/b/user_profile.weft", "UserProfileTemplate"},
		{"Weird..name.weft", "WeirdTemplate"},
		{"...weft", "Template"},
	}
	for _, tc := range cases {
		if got := classNameFor(tc.path); got != tc.want {
			t.Errorf("classNameFor(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestCompile_HoistsConstantAttributes(t *testing.T) {
	path := writeTemplate(t, t.TempDir(), "card.weft",
		`<div class="btn"><span class="btn">{{ x }}</span></div>`)

	res, err := Compile(path, Options{MaxDiagnostics: 64, Optimize: true})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	if res.Cached {
		t.Errorf("fresh compile reported cached")
	}
	if err := testkit.CheckIRInvariants(res.Doc); err != nil {
		t.Errorf("invariant violated: %v", err)
	}
	if !strings.Contains(res.Dump, "CardTemplate") {
		t.Errorf("dump misses generated type name:\n%s", res.Dump)
	}
	if !strings.Contains(res.Dump, `var=__attr_0 name=class value="btn"`) {
		t.Errorf("dump misses hoisted declaration:\n%s", res.Dump)
	}
	if strings.Count(res.Dump, "AttrRef var=__attr_0") != 2 {
		t.Errorf("expected 2 references in dump:\n%s", res.Dump)
	}
}

func TestCompile_TagHelperBinding(t *testing.T) {
	reg := taghelpers.NewRegistry()
	if err := reg.Register(taghelpers.Helper{
		Tag:      "user-card",
		TypeName: "UserCardHelper",
		Props:    []taghelpers.PropertyDescriptor{{Name: "Title", AttributeName: "title"}},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	path := writeTemplate(t, t.TempDir(), "page.weft", `<user-card title="Hi"></user-card>`)
	res, err := Compile(path, Options{MaxDiagnostics: 64, Optimize: true, Helpers: reg})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !strings.Contains(res.Dump, "PropDecl") || !strings.Contains(res.Dump, "prop=UserCardHelper.Title") {
		t.Errorf("helper attribute not hoisted as a property declaration:\n%s", res.Dump)
	}
}

func TestCompile_ParseErrorsLandInBag(t *testing.T) {
	path := writeTemplate(t, t.TempDir(), "broken.weft", `<div><span>text`)

	res, err := Compile(path, Options{MaxDiagnostics: 64, Optimize: true})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !res.Bag.HasErrors() {
		t.Errorf("broken template produced no diagnostics")
	}
	if res.Dump == "" {
		t.Errorf("recovery should still render the partial tree")
	}
}

func TestCompile_MissingFile(t *testing.T) {
	if _, err := Compile(filepath.Join(t.TempDir(), "nope.weft"), Options{MaxDiagnostics: 4}); err == nil {
		t.Errorf("missing file compiled")
	}
}

func TestCompile_CacheHitOnSecondRun(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	path := writeTemplate(t, t.TempDir(), "cached.weft", `<div class="a"></div>`)
	opts := Options{MaxDiagnostics: 64, Optimize: true, Cache: cache}

	first, err := Compile(path, opts)
	if err != nil {
		t.Fatalf("first compile: %v", err)
	}
	if first.Cached {
		t.Fatalf("first compile reported cached")
	}

	second, err := Compile(path, opts)
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}
	if !second.Cached {
		t.Fatalf("second compile missed the cache")
	}
	if second.Dump != first.Dump {
		t.Errorf("cached dump differs from fresh dump")
	}
}

// Byte-identical templates under different paths generate different class
// names; the cache must never serve one file's dump for the other.
func TestCompile_CacheDistinguishesPaths(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	dir := t.TempDir()
	alpha := writeTemplate(t, dir, "alpha.weft", `<div class="a"></div>`)
	beta := writeTemplate(t, dir, "beta.weft", `<div class="a"></div>`)
	opts := Options{MaxDiagnostics: 64, Optimize: true, Cache: cache}

	first, err := Compile(alpha, opts)
	if err != nil {
		t.Fatalf("compile alpha: %v", err)
	}
	if !strings.Contains(first.Dump, "AlphaTemplate") {
		t.Fatalf("alpha dump misses its type name:\n%s", first.Dump)
	}

	second, err := Compile(beta, opts)
	if err != nil {
		t.Fatalf("compile beta: %v", err)
	}
	if second.Cached {
		t.Errorf("byte-identical file under another path was served from cache")
	}
	if !strings.Contains(second.Dump, "BetaTemplate") {
		t.Errorf("beta dump carries the wrong type name:\n%s", second.Dump)
	}
}

// A changed tag helper registry changes how attributes lower, so cached
// output from a different registry is stale.
func TestCompile_CacheDistinguishesHelpers(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	path := writeTemplate(t, t.TempDir(), "card.weft", `<user-card title="Hi"></user-card>`)
	plain := Options{MaxDiagnostics: 64, Optimize: true, Cache: cache}

	if _, err := Compile(path, plain); err != nil {
		t.Fatalf("compile without helpers: %v", err)
	}

	reg := taghelpers.NewRegistry()
	if err := reg.Register(taghelpers.Helper{
		Tag:      "user-card",
		TypeName: "UserCardHelper",
		Props:    []taghelpers.PropertyDescriptor{{Name: "Title", AttributeName: "title"}},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	withHelpers := plain
	withHelpers.Helpers = reg

	res, err := Compile(path, withHelpers)
	if err != nil {
		t.Fatalf("compile with helpers: %v", err)
	}
	if res.Cached {
		t.Errorf("registry change did not invalidate the cache entry")
	}
	if !strings.Contains(res.Dump, "PropDecl") {
		t.Errorf("helper binding missing from fresh dump:\n%s", res.Dump)
	}
}

func TestCompile_ErrorsNeverCached(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	path := writeTemplate(t, t.TempDir(), "bad.weft", `<div>`)
	opts := Options{MaxDiagnostics: 64, Optimize: true, Cache: cache}

	if _, err := Compile(path, opts); err != nil {
		t.Fatalf("first compile: %v", err)
	}
	res, err := Compile(path, opts)
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}
	if res.Cached {
		t.Errorf("erroneous template was served from cache")
	}
	if !res.Bag.HasErrors() {
		t.Errorf("diagnostics lost on recompile")
	}
}

func TestCompileDir(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "a.weft", `<div class="x"></div>`)
	writeTemplate(t, dir, "sub/b.weft", `<p>{{ v }}</p>`)
	writeTemplate(t, dir, "notes.txt", "not a template")

	fs, results, err := CompileDir(context.Background(), dir, Options{MaxDiagnostics: 64, Optimize: true}, 2)
	if err != nil {
		t.Fatalf("compile dir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if fs.Len() != 2 {
		t.Errorf("file set holds %d files, want 2", fs.Len())
	}
	// Results follow the sorted file list.
	if !strings.HasSuffix(results[0].Path, "a.weft") || !strings.HasSuffix(results[1].Path, "b.weft") {
		t.Errorf("unexpected result order: %q, %q", results[0].Path, results[1].Path)
	}
	for _, res := range results {
		if res.Bag.HasErrors() {
			t.Errorf("%s: unexpected diagnostics: %v", res.Path, res.Bag.Items())
		}
		if res.Dump == "" {
			t.Errorf("%s: empty dump", res.Path)
		}
	}
}

func TestCompileDir_EmptyDir(t *testing.T) {
	fs, results, err := CompileDir(context.Background(), t.TempDir(), Options{MaxDiagnostics: 4}, 0)
	if err != nil {
		t.Fatalf("compile dir: %v", err)
	}
	if len(results) != 0 || fs.Len() != 0 {
		t.Errorf("empty directory produced results")
	}
}
