package lexer

import (
	"weft/internal/diag"
	"weft/internal/token"

	"weft/internal/source"
)

type state uint8

const (
	stateText  state = iota // markup text outside tags
	stateTag                // inside "<name ...>"
	stateValue              // inside a quoted attribute value
	stateExpr               // inside "{{ ... }}"
)

// Lexer is a modal template lexer. The active state decides how the next
// bytes are tokenized, matching the three lexical contexts of a template:
// markup text, tag internals, and attribute values, with embedded
// expressions reachable from text and quoted values.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	look       *token.Token // 1-token lookahead buffer
	st         state
	quote      byte  // active quote byte in stateValue
	exprReturn state // state to resume after ExprClose
	afterEq    bool  // in stateTag: the next bare word is an unquoted value
}

// New creates a lexer over file.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	switch lx.st {
	case stateTag:
		return lx.nextTag()
	case stateValue:
		return lx.nextValue()
	case stateExpr:
		return lx.nextExpr()
	default:
		return lx.nextText()
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) eof() token.Token {
	return token.Token{Kind: token.EOF, Span: lx.cursor.Span(lx.cursor.Off)}
}

func (lx *Lexer) nextText() token.Token {
	if lx.cursor.EOF() {
		return lx.eof()
	}
	start := lx.cursor.Off

	if lx.peekIs('{', '{') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		lx.st = stateExpr
		lx.exprReturn = stateText
		return token.Token{Kind: token.ExprOpen, Span: lx.cursor.Span(start), Text: "{{"}
	}

	if lx.cursor.Peek() == '<' {
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '<' {
			switch {
			case b1 == '/':
				return lx.scanCloseTag(start)
			case isNameStart(b1):
				lx.cursor.Bump() // '<'
				name := lx.scanName()
				lx.st = stateTag
				lx.afterEq = false
				return token.Token{Kind: token.TagOpen, Span: lx.cursor.Span(start), Text: name}
			}
		}
		// Stray '<' participates in the text run.
	}

	return lx.scanText(start)
}

// scanText consumes a text run up to the next tag or expression opener.
func (lx *Lexer) scanText(start uint32) token.Token {
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		if lx.peekIs('{', '{') {
			break
		}
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '<' && (b1 == '/' || isNameStart(b1)) {
			break
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.Span(start)
	return token.Token{Kind: token.Text, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) scanCloseTag(start uint32) token.Token {
	lx.cursor.Bump() // '<'
	lx.cursor.Bump() // '/'
	name := lx.scanName()
	lx.skipSpace()
	if lx.cursor.Peek() == '>' {
		lx.cursor.Bump()
	} else {
		lx.report(diag.LexUnterminatedTag, lx.cursor.Span(start), "unterminated close tag")
	}
	return token.Token{Kind: token.TagClose, Span: lx.cursor.Span(start), Text: name}
}

func (lx *Lexer) nextTag() token.Token {
	lx.skipSpace()
	if lx.cursor.EOF() {
		lx.report(diag.LexUnterminatedTag, lx.cursor.Span(lx.cursor.Off), "unterminated tag")
		lx.st = stateText
		return lx.eof()
	}

	start := lx.cursor.Off
	ch := lx.cursor.Peek()
	switch {
	case ch == '>':
		lx.cursor.Bump()
		lx.st = stateText
		lx.afterEq = false
		return token.Token{Kind: token.TagEnd, Span: lx.cursor.Span(start), Text: ">"}

	case ch == '/' && lx.peekIs('/', '>'):
		lx.cursor.Bump()
		lx.cursor.Bump()
		lx.st = stateText
		lx.afterEq = false
		return token.Token{Kind: token.TagSelfClose, Span: lx.cursor.Span(start), Text: "/>"}

	case ch == '=':
		lx.cursor.Bump()
		lx.afterEq = true
		return token.Token{Kind: token.Eq, Span: lx.cursor.Span(start), Text: "="}

	case ch == '"' || ch == '\'':
		lx.cursor.Bump()
		lx.st = stateValue
		lx.quote = ch
		lx.afterEq = false
		return token.Token{Kind: token.ValueOpen, Span: lx.cursor.Span(start), Text: string(ch)}

	case lx.afterEq && isUnquotedValueByte(ch):
		for !lx.cursor.EOF() && isUnquotedValueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		lx.afterEq = false
		sp := lx.cursor.Span(start)
		return token.Token{Kind: token.ValueText, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}

	case isNameStart(ch):
		name := lx.scanName()
		lx.afterEq = false
		return token.Token{Kind: token.AttrName, Span: lx.cursor.Span(start), Text: name}

	default:
		lx.report(diag.LexUnknownChar, lx.cursor.Span(start), "unexpected character in tag")
		lx.cursor.Bump()
		return lx.Next()
	}
}

func (lx *Lexer) nextValue() token.Token {
	if lx.cursor.EOF() {
		lx.report(diag.LexUnterminatedString, lx.cursor.Span(lx.cursor.Off), "unterminated attribute value")
		lx.st = stateText
		return lx.eof()
	}

	start := lx.cursor.Off
	if lx.cursor.Peek() == lx.quote {
		lx.cursor.Bump()
		lx.st = stateTag
		return token.Token{Kind: token.ValueClose, Span: lx.cursor.Span(start), Text: string(lx.quote)}
	}
	if lx.peekIs('{', '{') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		lx.st = stateExpr
		lx.exprReturn = stateValue
		return token.Token{Kind: token.ExprOpen, Span: lx.cursor.Span(start), Text: "{{"}
	}

	for !lx.cursor.EOF() && lx.cursor.Peek() != lx.quote && !lx.peekIs('{', '{') {
		lx.cursor.Bump()
	}
	sp := lx.cursor.Span(start)
	return token.Token{Kind: token.ValueText, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) nextExpr() token.Token {
	start := lx.cursor.Off
	if lx.peekIs('}', '}') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		lx.st = lx.exprReturn
		return token.Token{Kind: token.ExprClose, Span: lx.cursor.Span(start), Text: "}}"}
	}
	if lx.cursor.EOF() {
		lx.report(diag.LexUnterminatedExpression, lx.cursor.Span(start), "unterminated expression")
		lx.st = stateText
		return lx.eof()
	}

	for !lx.cursor.EOF() && !lx.peekIs('}', '}') {
		lx.cursor.Bump()
	}
	if lx.cursor.EOF() {
		lx.report(diag.LexUnterminatedExpression, lx.cursor.Span(start), "unterminated expression")
	}
	sp := lx.cursor.Span(start)
	return token.Token{Kind: token.ExprText, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) peekIs(b0, b1 byte) bool {
	c0, c1, ok := lx.cursor.Peek2()
	return ok && c0 == b0 && c1 == b1
}

func (lx *Lexer) skipSpace() {
	for !lx.cursor.EOF() && isSpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) scanName() string {
	start := lx.cursor.Off
	for !lx.cursor.EOF() && isNameByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return string(lx.file.Content[start:lx.cursor.Off])
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isNameStart(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

func isNameByte(b byte) bool {
	return isNameStart(b) || b >= '0' && b <= '9' || b == '-' || b == ':' || b == '.'
}

func isUnquotedValueByte(b byte) bool {
	if isSpace(b) {
		return false
	}
	switch b {
	case '>', '/', '"', '\'', '=', '<', '`':
		return false
	}
	return true
}
