package validate

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Severity separates findings that will break a playthrough from stylistic
// ones.
type Severity int

const (
	SeverityError Severity = iota
	SeverityIssue
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityIssue:
		return "issue"
	default:
		return "unknown"
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "issue":
		*s = SeverityIssue
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Finding codes.
const (
	// Errors
	CodeUnknownLabel       = "unknown-label"
	CodeLineOutOfRange     = "line-out-of-range"
	CodeBadArguments       = "bad-arguments"
	CodeDuplicateAnchor    = "duplicate-anchor"
	CodeMissingCompanion   = "missing-companion"
	CodeUnknownSpeaker     = "unknown-speaker"
	CodeMisplacedModifier  = "misplaced-modifier"
	CodeUnknownModifier    = "unknown-modifier"
	CodeModifierArguments  = "modifier-arguments"
	CodeUnknownPersona     = "unknown-persona"
	CodeExclusiveModifiers = "exclusive-modifiers"
	CodeContradiction      = "contradiction"
	CodeAmbiguousTarget    = "ambiguous-target"
	CodeSpeakerNotPersona  = "speaker-not-persona"

	// Issues
	CodeEmptySection        = "empty-section"
	CodeUnreachable         = "unreachable"
	CodeUnterminatedSection = "unterminated-section"
	CodeEmptyModifierBlock  = "empty-modifier-block"
	CodeEmptyDialogue       = "empty-dialogue"
	CodeDuplicateModifier   = "duplicate-modifier"
	CodeRedundantTarget     = "redundant-target"
)

// Finding is one problem found on a line.
type Finding struct {
	Line     int      `json:"line"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("line %d: [%s] %s", f.Line, f.Code, f.Message)
}

// Report holds every finding for one script file.
type Report struct {
	File     string    `json:"file"`
	Lines    int       `json:"lines"`
	Findings []Finding `json:"findings"`
}

func (r *Report) add(line int, sev Severity, code, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Line:     line,
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r *Report) errorf(line int, code, format string, args ...any) {
	r.add(line, SeverityError, code, format, args...)
}

func (r *Report) issuef(line int, code, format string, args ...any) {
	r.add(line, SeverityIssue, code, format, args...)
}

func (r *Report) sort() {
	sort.SliceStable(r.Findings, func(i, j int) bool {
		a, b := r.Findings[i], r.Findings[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Severity < b.Severity
	})
}

// Errors returns findings that will break a playthrough.
func (r *Report) Errors() []Finding {
	return r.filter(SeverityError)
}

// Issues returns stylistic findings.
func (r *Report) Issues() []Finding {
	return r.filter(SeverityIssue)
}

func (r *Report) filter(sev Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

// HasErrors reports whether any Error was found.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Summary is a one-line count of findings.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s: %d errors, %d issues", r.File, len(r.Errors()), len(r.Issues()))
}

// PrintReport writes the report in human-readable form.
func (r *Report) PrintReport(w io.Writer) error {
	var b strings.Builder
	b.WriteString(r.Summary())
	b.WriteString("\n")

	if errs := r.Errors(); len(errs) > 0 {
		b.WriteString("  Errors:\n")
		for _, f := range errs {
			fmt.Fprintf(&b, "    %s\n", f)
		}
	}
	if issues := r.Issues(); len(issues) > 0 {
		b.WriteString("  Issues:\n")
		for _, f := range issues {
			fmt.Fprintf(&b, "    %s\n", f)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// PrintReport writes every report to standard output.
func PrintReport(reports ...*Report) {
	for _, r := range reports {
		_ = r.PrintReport(os.Stdout)
	}
}
