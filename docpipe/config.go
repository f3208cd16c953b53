package docpipe

import "log/slog"

// Config configures the extraction pipeline.
type Config struct {
	// MaxFileSize is the maximum document size to process (default: 50 MB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// Backends lists the text backends to try, in order (default: ledongthuc, dslipak).
	// The first backend that opens the document wins; later ones are not consulted
	// once a page has been read.
	Backends []string `json:"backends" yaml:"backends"`

	// Preflight runs pdfcpu validation before text extraction.
	Preflight bool `json:"preflight" yaml:"preflight"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 50 * 1024 * 1024
	}
	if len(c.Backends) == 0 {
		c.Backends = []string{BackendLedongthuc, BackendDslipak}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
