// Package repat rewrites boolean guard fragments into structural
// patterns. It wires the fragment parser, the rewrite engine, the
// equivalence verifier and the fixer behind one facade: load a
// configuration with New, then feed files or sources through the
// Process functions.
package repat

import (
	"go.uber.org/zap"

	"github.com/gnolang/repat/internal/engine"
	tt "github.com/gnolang/repat/internal/types"
)

// RewriteEngine is the engine surface the processing helpers drive.
type RewriteEngine interface {
	Run(filePath string) ([]tt.Suggestion, error)
	RunSource(source []byte) ([]tt.Suggestion, error)
	RunAt(filePath string, line, col int) ([]tt.Suggestion, error)
	IgnoreRule(rule string)
}

// Runner holds a configured rewrite engine and the logger used while
// processing.
type Runner struct {
	cfg    Config
	engine *engine.Engine
	logger *zap.Logger
	cache  *Cache
}

// Option adjusts a Runner before its engine is built.
type Option func(*Runner)

// WithLogger replaces the Runner's no-op default logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithVerify overrides the configuration's verify setting.
func WithVerify(verify bool) Option {
	return func(r *Runner) { r.cfg.Verify = verify }
}

// New loads the YAML configuration at cfgPath, builds the semantic
// oracle it declares, and returns a Runner around a fresh engine. An
// empty cfgPath falls back to .repat.yaml in the working directory, or
// to the built-in defaults when no such file exists.
func New(cfgPath string, opts ...Option) (*Runner, error) {
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	r := &Runner{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}

	oracle, err := r.cfg.Oracle()
	if err != nil {
		return nil, err
	}
	r.engine = engine.New(oracle, r.cfg.Rules, r.cfg.Verify)

	if cfgPath == "" {
		cfgPath = DefaultConfigPath
	}
	r.cache = NewCache(cfgPath)
	return r, nil
}

// Engine exposes the underlying rewrite engine.
func (r *Runner) Engine() *engine.Engine {
	return r.engine
}

// Config returns the configuration the Runner was built from.
func (r *Runner) Config() Config {
	return r.cfg
}

// IgnoreRule suppresses a rule on the underlying engine.
func (r *Runner) IgnoreRule(rule string) {
	r.engine.IgnoreRule(rule)
}

// ProcessFile runs the engine over one fragment file.
func (r *Runner) ProcessFile(path string) ([]tt.Suggestion, error) {
	return r.engine.Run(path)
}

// ProcessSource runs the engine over in-memory fragment source.
func (r *Runner) ProcessSource(source []byte) ([]tt.Suggestion, error) {
	return r.engine.RunSource(source)
}
