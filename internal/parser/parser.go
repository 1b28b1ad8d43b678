package parser

import (
	"fmt"

	"fortio.org/safecast"

	"weft/internal/ast"
	"weft/internal/diag"
	"weft/internal/lexer"
	"weft/internal/source"
	"weft/internal/token"
)

// Options configures a parse.
type Options struct {
	Reporter  diag.Reporter
	MaxErrors uint // 0 means unlimited
}

// ParseFile parses the token stream of one template file into a Document.
// The parser recovers from structural errors by resyncing at the next tag
// so a single malformed element does not abandon the rest of the file.
func ParseFile(file *source.File, lx *lexer.Lexer, opts Options) *ast.Document {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	end, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(fmt.Errorf("file content overflow: %w", err))
	}
	p := &parser{lx: lx, opts: opts}
	doc := &ast.Document{
		File: file.ID,
		Span: source.Span{File: file.ID, Start: 0, End: end},
	}
	doc.Children = p.parseNodes("")
	return doc
}

type parser struct {
	lx     *lexer.Lexer
	opts   Options
	errors uint
}

func (p *parser) report(code diag.Code, sp source.Span, msg string) {
	if p.opts.MaxErrors != 0 && p.errors >= p.opts.MaxErrors {
		return
	}
	p.errors++
	diag.ReportError(p.opts.Reporter, code, sp, msg)
}

// parseNodes consumes sibling nodes until EOF or a close tag matching
// enclosing. An empty enclosing name means top level: stray close tags are
// reported and skipped instead of terminating the loop.
func (p *parser) parseNodes(enclosing string) []ast.Node {
	var nodes []ast.Node
	for {
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.EOF:
			if enclosing != "" {
				p.report(diag.SynUnclosedElement, tok.Span, "unclosed element <"+enclosing+">")
			}
			return nodes

		case token.Text:
			p.lx.Next()
			nodes = append(nodes, ast.Node{Kind: ast.KindText, Span: tok.Span, Text: tok.Text})

		case token.ExprOpen:
			nodes = append(nodes, p.parseExpr())

		case token.TagOpen:
			p.lx.Next()
			nodes = append(nodes, p.parseElement(tok))

		case token.TagClose:
			if enclosing != "" {
				if tok.Text != enclosing {
					p.report(diag.SynMismatchedClose, tok.Span,
						"expected </"+enclosing+">, found </"+tok.Text+">")
				}
				p.lx.Next()
				return nodes
			}
			p.report(diag.SynStrayCloseTag, tok.Span, "close tag </"+tok.Text+"> matches no open element")
			p.lx.Next()

		default:
			p.report(diag.SynUnexpectedToken, tok.Span, "unexpected "+tok.Kind.String())
			p.lx.Next()
		}
	}
}

func (p *parser) parseExpr() ast.Node {
	open := p.lx.Next() // ExprOpen
	node := ast.Node{Kind: ast.KindExpr, Span: open.Span}
	for {
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.ExprText:
			p.lx.Next()
			node.Text += tok.Text
			node.Span = node.Span.Cover(tok.Span)
		case token.ExprClose:
			p.lx.Next()
			node.Span = node.Span.Cover(tok.Span)
			return node
		default:
			// Lexer already reported the unterminated expression.
			return node
		}
	}
}

func (p *parser) parseElement(open token.Token) ast.Node {
	elem := &ast.Element{Tag: open.Text}
	node := ast.Node{Kind: ast.KindElement, Span: open.Span, Elem: elem}

	// Attributes until the tag terminator.
	var seen map[string]bool
attrs:
	for {
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.AttrName:
			p.lx.Next()
			if seen[tok.Text] {
				// Warnings bypass the error cap; the element still parses.
				diag.ReportWarning(p.opts.Reporter, diag.SynDuplicateAttr, tok.Span,
					"duplicate attribute "+tok.Text+" on <"+elem.Tag+">")
			}
			if seen == nil {
				seen = make(map[string]bool, 4)
			}
			seen[tok.Text] = true
			elem.Attrs = append(elem.Attrs, p.parseAttr(tok))

		case token.TagEnd:
			p.lx.Next()
			node.Span = node.Span.Cover(tok.Span)
			break attrs

		case token.TagSelfClose:
			p.lx.Next()
			elem.SelfClose = true
			node.Span = node.Span.Cover(tok.Span)
			return node

		case token.EOF:
			// Lexer reported the unterminated tag.
			return node

		default:
			p.report(diag.SynUnexpectedToken, tok.Span, "unexpected "+tok.Kind.String()+" in tag")
			p.lx.Next()
		}
	}

	elem.Children = p.parseNodes(elem.Tag)
	if n := len(elem.Children); n > 0 {
		node.Span = node.Span.Cover(elem.Children[n-1].Span)
	}
	return node
}

func (p *parser) parseAttr(name token.Token) ast.Attr {
	attr := ast.Attr{
		Name:      name.Text,
		Span:      name.Span,
		Structure: ast.StructMinimized,
	}

	if p.lx.Peek().Kind != token.Eq {
		return attr // minimized boolean attribute
	}
	p.lx.Next() // Eq

	tok := p.lx.Peek()
	switch tok.Kind {
	case token.ValueOpen:
		p.lx.Next()
		if tok.Text == "'" {
			attr.Structure = ast.StructSingleQuoted
		} else {
			attr.Structure = ast.StructDoubleQuoted
		}
		attr.Parts = p.parseQuotedValue(&attr)

	case token.ValueText:
		p.lx.Next()
		attr.Structure = ast.StructUnquoted
		attr.Parts = []ast.ValuePart{{Literal: true, Text: tok.Text, Span: tok.Span}}
		attr.Span = attr.Span.Cover(tok.Span)

	default:
		p.report(diag.SynExpectedAttrValue, tok.Span, "expected attribute value after =")
	}
	return attr
}

func (p *parser) parseQuotedValue(attr *ast.Attr) []ast.ValuePart {
	var parts []ast.ValuePart
	for {
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.ValueText:
			p.lx.Next()
			parts = append(parts, ast.ValuePart{Literal: true, Text: tok.Text, Span: tok.Span})

		case token.ExprOpen:
			expr := p.parseExpr()
			parts = append(parts, ast.ValuePart{Literal: false, Text: expr.Text, Span: expr.Span})

		case token.ValueClose:
			p.lx.Next()
			attr.Span = attr.Span.Cover(tok.Span)
			return parts

		default:
			// EOF inside a value; the lexer reported it.
			return parts
		}
	}
}
