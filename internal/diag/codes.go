package diag

import (
	"fmt"
)

// Code identifies a diagnostic category. Ranges: 1xxx lexer, 2xxx parser,
// 3xxx IR/pipeline, 9xxx I/O and infrastructure.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnknownChar            Code = 1001
	LexUnterminatedString     Code = 1002
	LexUnterminatedExpression Code = 1003
	LexBadAttributeName       Code = 1004
	LexUnterminatedTag        Code = 1005

	// Syntactic
	SynUnexpectedToken   Code = 2001
	SynUnclosedElement   Code = 2002
	SynMismatchedClose   Code = 2003
	SynDuplicateAttr     Code = 2004
	SynStrayCloseTag     Code = 2005
	SynExpectedAttrValue Code = 2006

	// IR / pipeline
	IRMalformedDocument Code = 3001
	IRPassFailure       Code = 3002

	// Infrastructure
	IOLoadFileError Code = 9001
)

// ID returns the stable textual identifier used in golden and CLI output.
func (c Code) ID() string {
	switch {
	case c >= 1000 && c < 2000:
		return fmt.Sprintf("LEX%04d", uint16(c))
	case c >= 2000 && c < 3000:
		return fmt.Sprintf("SYN%04d", uint16(c))
	case c >= 3000 && c < 4000:
		return fmt.Sprintf("IR%04d", uint16(c))
	case c >= 9000:
		return fmt.Sprintf("IO%04d", uint16(c))
	default:
		return fmt.Sprintf("WEFT%04d", uint16(c))
	}
}

func (c Code) String() string { return c.ID() }
