package token

import (
	"weft/internal/source"
)

// Token represents a single template token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsValuePart reports whether the token can appear inside an attribute value.
func (t Token) IsValuePart() bool {
	switch t.Kind {
	case ValueText, ExprOpen, ExprText, ExprClose:
		return true
	default:
		return false
	}
}
