package view

import "os"

// Config provides environment-based configuration for the template engine.
type Config struct {
	Dir        string `env:"TEMPLATES_DIR" envDefault:""`
	Extension  string `env:"TEMPLATES_EXT" envDefault:"html"`
	FileChecks bool   `env:"TEMPLATES_FILE_CHECKS" envDefault:"false"`
}

// NewFromConfig creates an Engine reading from cfg.Dir. An empty Dir yields
// an unconfigured engine.
func NewFromConfig(cfg Config, opts ...Option) *Engine {
	base := []Option{WithExtension(cfg.Extension), WithFileChecks(cfg.FileChecks)}
	if cfg.Dir == "" {
		return New(nil, append(base, opts...)...)
	}
	return New(os.DirFS(cfg.Dir), append(base, opts...)...)
}
