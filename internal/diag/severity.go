package diag

// Severity ranks a diagnostic's impact on a template compile.
type Severity uint8

const (
	// SevInfo is advisory output: phase notes and hints that need no action.
	SevInfo Severity = iota
	// SevWarning flags a suspicious template construct, such as a duplicate
	// attribute, that still lowers and optimizes normally.
	SevWarning
	// SevError marks a lex, parse, or pipeline failure. Any error makes the
	// compile exit non-zero and keeps its output out of the cache.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
