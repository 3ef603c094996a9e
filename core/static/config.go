package static

// Config holds file server configuration with environment variable support.
type Config struct {
	PublicDir string `env:"STATIC_PUBLIC_DIR" envDefault:"public"`
	IndexFile string `env:"STATIC_INDEX_FILE" envDefault:"index.html"`
}

// NewFromConfig creates a FileServer from configuration.
// Additional options can override config values.
func NewFromConfig(cfg Config, opts ...Option) (*FileServer, error) {
	configOpts := make([]Option, 0, 2+len(opts))
	if cfg.PublicDir != "" {
		configOpts = append(configOpts, WithPublicDir(cfg.PublicDir))
	}
	if cfg.IndexFile != "" {
		configOpts = append(configOpts, WithIndexFile(cfg.IndexFile))
	}
	return New(append(configOpts, opts...)...)
}
