package repat

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/repat/internal/engine"
	"github.com/gnolang/repat/internal/ir"
	"github.com/gnolang/repat/internal/sem"
	tt "github.com/gnolang/repat/internal/types"
)

// DefaultConfigPath is consulted when no configuration path is given.
const DefaultConfigPath = ".repat.yaml"

// SymbolConfig declares one member name for the semantic oracle.
type SymbolConfig struct {
	Name            string `yaml:"name"`
	Kind            string `yaml:"kind"` // field | property
	Static          bool   `yaml:"static"`
	NullableWrapper bool   `yaml:"nullable-wrapper"`
}

// ConstConfig declares one compile-time constant.
type ConstConfig struct {
	Name  string      `yaml:"name"`
	Value interface{} `yaml:"value"`
}

// Config represents the overall configuration with the verification
// switch, per-rule severities, and the semantic facts for the oracle.
type Config struct {
	Name         string                   `yaml:"name"`
	Verify       bool                     `yaml:"verify"`
	UnknownNames string                   `yaml:"unknown-names"` // allow | reject
	Rules        map[string]tt.ConfigRule `yaml:"rules"`
	Symbols      []SymbolConfig           `yaml:"symbols,omitempty"`
	Consts       []ConstConfig            `yaml:"consts,omitempty"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() Config {
	return Config{
		Name:         "repat",
		Verify:       true,
		UnknownNames: "allow",
		Rules: map[string]tt.ConfigRule{
			engine.UseRecursivePattern: {Severity: tt.SeverityWarning},
			engine.MergeGuardPattern:   {Severity: tt.SeverityWarning},
		},
	}
}

// LoadConfig reads the configuration file at path, merged over the
// defaults. An empty path tries DefaultConfigPath and falls back to the
// defaults when no such file exists; an explicit path must exist.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("parsing %s: %w", path, err)
	}
	return config, nil
}

// Oracle builds the semantic oracle the configuration declares. With no
// declared symbols or constants and unknown names allowed, that is the
// permissive oracle.
func (c Config) Oracle() (sem.Oracle, error) {
	allowUnknown, err := c.allowsUnknownNames()
	if err != nil {
		return nil, err
	}

	if len(c.Symbols) == 0 && len(c.Consts) == 0 && allowUnknown {
		return sem.Permissive(), nil
	}

	symbols := make(map[string]sem.Symbol, len(c.Symbols))
	for _, s := range c.Symbols {
		sym := sem.Symbol{Static: s.Static, NullableWrapper: s.NullableWrapper}
		switch s.Kind {
		case "field":
			sym.Kind = sem.Field
		case "", "property":
			sym.Kind = sem.Property
		default:
			return nil, fmt.Errorf("symbol %s: unknown kind %q", s.Name, s.Kind)
		}
		symbols[s.Name] = sym
	}

	consts := make(map[string]ir.Value, len(c.Consts))
	for _, cc := range c.Consts {
		val, err := constValue(cc.Value)
		if err != nil {
			return nil, fmt.Errorf("const %s: %w", cc.Name, err)
		}
		consts[cc.Name] = val
	}

	table, err := sem.NewTable(symbols, consts, allowUnknown)
	if err != nil {
		return nil, err
	}
	return table, nil
}

func (c Config) allowsUnknownNames() (bool, error) {
	switch c.UnknownNames {
	case "", "allow":
		return true, nil
	case "reject":
		return false, nil
	default:
		return false, fmt.Errorf("unknown-names must be allow or reject, got %q", c.UnknownNames)
	}
}

// constValue maps a decoded YAML scalar onto a fragment value.
func constValue(v interface{}) (ir.Value, error) {
	switch v := v.(type) {
	case int:
		return ir.IntValue{Val: int64(v)}, nil
	case int64:
		return ir.IntValue{Val: v}, nil
	case bool:
		return ir.BoolValue{Val: v}, nil
	case string:
		return ir.StringValue{Val: v}, nil
	case nil:
		return ir.NullValue{}, nil
	default:
		return nil, fmt.Errorf("unsupported constant value %v (%T)", v, v)
	}
}
