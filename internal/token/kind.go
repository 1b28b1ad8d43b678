package token

// Kind enumerates template token kinds.
type Kind uint8

const (
	// EOF marks the end of the token stream.
	EOF Kind = iota
	// Text is a raw markup text run outside any tag.
	Text
	// TagOpen is "<name"; Text carries the tag name.
	TagOpen
	// TagClose is "</name>"; Text carries the tag name.
	TagClose
	// TagEnd is ">" terminating an open tag.
	TagEnd
	// TagSelfClose is "/>" terminating a self-closing tag.
	TagSelfClose
	// AttrName is an attribute name inside a tag.
	AttrName
	// Eq is "=" between an attribute name and its value.
	Eq
	// ValueOpen is the opening quote of an attribute value; Text is `"` or `'`.
	ValueOpen
	// ValueText is a literal chunk of an attribute value (quoted or unquoted).
	ValueText
	// ValueClose is the closing quote of an attribute value.
	ValueClose
	// ExprOpen is "{{" starting an embedded expression.
	ExprOpen
	// ExprText is the raw source of an embedded expression.
	ExprText
	// ExprClose is "}}" ending an embedded expression.
	ExprClose
)

// String returns a human-readable name for the token kind.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Text:
		return "Text"
	case TagOpen:
		return "TagOpen"
	case TagClose:
		return "TagClose"
	case TagEnd:
		return "TagEnd"
	case TagSelfClose:
		return "TagSelfClose"
	case AttrName:
		return "AttrName"
	case Eq:
		return "Eq"
	case ValueOpen:
		return "ValueOpen"
	case ValueText:
		return "ValueText"
	case ValueClose:
		return "ValueClose"
	case ExprOpen:
		return "ExprOpen"
	case ExprText:
		return "ExprText"
	case ExprClose:
		return "ExprClose"
	default:
		return "Unknown"
	}
}
