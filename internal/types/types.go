package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Severity controls how a rule's suggestions are reported. SeverityOff
// disables the rule entirely.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// MarshalYAML emits the lowercase form used in .repat.yaml.
func (s Severity) MarshalYAML() (interface{}, error) {
	return strings.ToLower(s.String()), nil
}

func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(value.Value) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	case "off":
		*s = SeverityOff
	default:
		return fmt.Errorf("unknown severity %q", value.Value)
	}
	return nil
}

// ConfigRule is the per-rule section of .repat.yaml.
type ConfigRule struct {
	Severity Severity `yaml:"severity"`
}

// Position is a 1-based line/column location in a fragment file.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Suggestion is one proposed rewrite of a fragment: the span it replaces,
// the rendered replacement, and the verifier's verdict on it.
type Suggestion struct {
	Rule       string
	Category   string
	Severity   Severity
	Filename   string
	Message    string
	Original   string
	Suggested  string
	Note       string
	Start      Position
	End        Position
	Confidence float64
	Verified   bool
}
