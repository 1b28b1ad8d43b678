package driver

import (
	"crypto/sha256"
	"strings"
	"unicode"

	"weft/internal/ast"
	"weft/internal/diag"
	"weft/internal/ir"
	"weft/internal/lexer"
	"weft/internal/observ"
	"weft/internal/parser"
	"weft/internal/passes"
	"weft/internal/source"
	"weft/internal/taghelpers"
	"weft/internal/token"
)

// Options configures one compilation.
type Options struct {
	MaxDiagnostics int
	Helpers        *taghelpers.Registry
	Optimize       bool       // run the pass pipeline (on by default in the CLI)
	Cache          *DiskCache // nil disables caching
}

// Result is the outcome of compiling one template file.
type Result struct {
	Path    string
	FileID  source.FileID
	FileSet *source.FileSet
	Doc     *ir.Node // nil on cache hit
	Dump    string   // rendered IR of the final document
	Bag     *diag.Bag
	Timer   *observ.Timer
	Cached  bool
}

// Compile runs the full pipeline for a single template file.
func Compile(path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return compileFile(fs, id, path, opts), nil
}

// compileFile compiles one already-loaded file: lex/parse, lower, optimize.
// Diagnostics go into the result bag; only infrastructure problems surface
// through the bag's IO codes.
func compileFile(fs *source.FileSet, id source.FileID, path string, opts Options) *Result {
	bag := diag.NewBag(opts.MaxDiagnostics)
	timer := observ.NewTimer()
	file := fs.Get(id)

	res := &Result{Path: path, FileID: id, FileSet: fs, Bag: bag, Timer: timer}

	key := cacheKey(file.Hash, path, opts)
	if opts.Cache != nil && opts.Optimize {
		var payload CachePayload
		if hit, err := opts.Cache.Get(key, &payload); err == nil && hit {
			res.Dump = payload.Dump
			res.Cached = true
			return res
		}
	}

	phase := timer.Begin("parse")
	lx := lexer.New(file, lexer.Options{Reporter: &lexer.BagReporter{Bag: bag}})
	astDoc := parser.ParseFile(file, lx, parser.Options{
		Reporter:  &diag.BagReporter{Bag: bag},
		MaxErrors: maxErrors(opts.MaxDiagnostics),
	})
	timer.End(phase, "")

	phase = timer.Begin("lower")
	doc := ir.Lower(astDoc, ir.LowerOptions{
		ClassName: classNameFor(path),
		Helpers:   opts.Helpers,
	})
	timer.End(phase, "")

	if opts.Optimize {
		phase = timer.Begin("optimize")
		if err := passes.Default().Run(doc); err != nil {
			bag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.IRPassFailure,
				Message:  err.Error(),
				Primary:  source.Span{File: id},
			})
			timer.End(phase, "aborted")
			res.Doc = doc
			return res
		}
		timer.End(phase, "")
	}

	res.Doc = doc
	res.Dump = ir.DumpString(doc)

	if opts.Cache != nil && opts.Optimize && !bag.HasErrors() && !bag.HasWarnings() {
		// Best effort; a failed cache write never fails the compile.
		_ = opts.Cache.Put(key, &CachePayload{
			Schema: cacheSchemaVersion,
			Path:   path,
			Dump:   res.Dump,
		})
	}
	return res
}

// cacheKey folds everything that shapes the dump into one digest: the source
// bytes, the path the class name derives from, and the tag helper registry.
// Byte-identical templates under two paths generate different class names,
// so content alone must never key an entry.
func cacheKey(contentHash [32]byte, path string, opts Options) [32]byte {
	h := sha256.New()
	h.Write(contentHash[:])
	h.Write([]byte(path))
	fp := opts.Helpers.Fingerprint()
	h.Write(fp[:])
	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

// Tokenize lexes one file without parsing it.
func Tokenize(path string, maxDiagnostics int) (*source.FileSet, []token.Token, *diag.Bag, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: &lexer.BagReporter{Bag: bag}})

	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return fs, tokens, bag, nil
}

// Parse lexes and parses one file without lowering it.
func Parse(path string, maxDiagnostics int) (*source.FileSet, *ast.Document, *diag.Bag, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	file := fs.Get(id)
	lx := lexer.New(file, lexer.Options{Reporter: &lexer.BagReporter{Bag: bag}})
	doc := parser.ParseFile(file, lx, parser.Options{
		Reporter:  &diag.BagReporter{Bag: bag},
		MaxErrors: maxErrors(maxDiagnostics),
	})
	return fs, doc, bag, nil
}

func maxErrors(maxDiagnostics int) uint {
	if maxDiagnostics <= 0 {
		return 0
	}
	return uint(maxDiagnostics)
}

// classNameFor derives the generated type name from the template file name:
// "views/item-card.weft" becomes "ItemCardTemplate".
func classNameFor(path string) string {
	base := path
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}

	var b strings.Builder
	upper := true
	for _, r := range base {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "Template"
	}
	return b.String() + "Template"
}
