// Package config loads the pdfsheet service configuration: defaults, then an
// optional YAML file, then environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration.
type Config struct {
	Listen         ListenConfig     `yaml:"listen"`
	Service        ServiceConfig    `yaml:"service"`
	Upload         UploadConfig     `yaml:"upload"`
	CORSOrigins    []string         `yaml:"cors_origins"`
	RequestTimeout time.Duration    `yaml:"request_timeout"`
	MaxConcurrent  int              `yaml:"max_concurrent"` // 0 = unlimited
	Extraction     ExtractionConfig `yaml:"extraction"`
	Sheet          SheetConfig      `yaml:"sheet"`
	MCP            MCPConfig        `yaml:"mcp"`
	LogLevel       string           `yaml:"log_level"`
}

// ListenConfig is the bind address. An empty host binds all interfaces.
type ListenConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ServiceConfig is what GET / and GET /health report.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

// UploadConfig bounds uploads.
type UploadConfig struct {
	MaxFileMB int `yaml:"max_file_mb"`
}

// ExtractionConfig selects the PDF text backends, tried in order.
type ExtractionConfig struct {
	Backends  []string `yaml:"backends"`
	Preflight bool     `yaml:"preflight"`
}

// SheetConfig shapes the generated workbook.
type SheetConfig struct {
	Name        string  `yaml:"name"`
	ColumnWidth float64 `yaml:"column_width"`
	HeaderFill  string  `yaml:"header_fill"` // RGB hex, no '#'
	HeaderFont  string  `yaml:"header_font"`
}

// MCPConfig toggles the MCP endpoint.
type MCPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultCORSOrigins are the front-end origins allowed without a config file.
var DefaultCORSOrigins = []string{
	"https://acubat-pricing-platform.vercel.app",
	"https://acubat-pricing-platform-git-main-ralborta.vercel.app",
	"http://localhost:3000",
	"https://localhost:3000",
}

// Default returns sane defaults.
func Default() *Config {
	return &Config{
		Listen: ListenConfig{Port: 8080},
		Service: ServiceConfig{
			Name:    "pdf-to-excel",
			Title:   "PDF to Excel Converter",
			Version: "1.0.0",
		},
		Upload:         UploadConfig{MaxFileMB: 50},
		CORSOrigins:    append([]string(nil), DefaultCORSOrigins...),
		RequestTimeout: 120 * time.Second,
		MaxConcurrent:  8,
		Extraction: ExtractionConfig{
			Backends:  []string{"ledongthuc", "dslipak"},
			Preflight: true,
		},
		Sheet: SheetConfig{
			Name:        "PDF_Content",
			ColumnWidth: 100,
			HeaderFill:  "366092",
			HeaderFont:  "FFFFFF",
		},
		MCP:      MCPConfig{Path: "/mcp"},
		LogLevel: "info",
	}
}

// Load builds the configuration. A .env file in the working directory, if
// any, seeds the environment first; variables already set win. path may be
// empty, in which case only defaults and environment apply.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Listen.Port = p
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_MB: %w", err)
		}
		c.Upload.MaxFileMB = n
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		c.RequestTimeout = d
	}
	if v := os.Getenv("MCP_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MCP_ENABLED: %w", err)
		}
		c.MCP.Enabled = b
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Listen.Port <= 0 || c.Listen.Port > 65535 {
		return fmt.Errorf("listen.port out of range: %d", c.Listen.Port)
	}
	if c.Upload.MaxFileMB <= 0 {
		return fmt.Errorf("upload.max_file_mb must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be > 0")
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("max_concurrent must be >= 0")
	}
	if len(c.Extraction.Backends) == 0 {
		return fmt.Errorf("extraction.backends is required")
	}
	if c.Sheet.Name == "" {
		return fmt.Errorf("sheet.name is required")
	}
	if c.Sheet.ColumnWidth <= 0 || c.Sheet.ColumnWidth > 255 {
		return fmt.Errorf("sheet.column_width must be in (0, 255]")
	}
	if c.MCP.Enabled && !strings.HasPrefix(c.MCP.Path, "/") {
		return fmt.Errorf("mcp.path must start with /")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Addr returns the listen address for net/http.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Listen.Host, strconv.Itoa(c.Listen.Port))
}

// MaxFileBytes returns the upload cap in bytes.
func (c *Config) MaxFileBytes() int64 { return int64(c.Upload.MaxFileMB) * 1024 * 1024 }

// Level parses LogLevel (debug, info, warn, error).
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
