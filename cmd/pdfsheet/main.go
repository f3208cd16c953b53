// Command pdfsheet serves the PDF to XLSX converter over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/pdfsheet/api"
	"github.com/hazyhaar/pdfsheet/config"
	"github.com/hazyhaar/pdfsheet/convert"
	"github.com/hazyhaar/pdfsheet/docpipe"
	"github.com/hazyhaar/pdfsheet/sheet"
)

func main() {
	configPath := flag.String("config", os.Getenv("PDFSHEET_CONFIG"), "path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	lvl, _ := cfg.Level()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conv := convert.New(
		docpipe.New(docpipe.Config{
			MaxFileSize: cfg.MaxFileBytes(),
			Backends:    cfg.Extraction.Backends,
			Preflight:   cfg.Extraction.Preflight,
			Logger:      logger,
		}),
		sheet.NewExcelizeWriter(sheet.HeaderStyle{
			FontColor: cfg.Sheet.HeaderFont,
			FillColor: cfg.Sheet.HeaderFill,
		}),
		convert.Options{
			SheetName:   cfg.Sheet.Name,
			ColumnWidth: cfg.Sheet.ColumnWidth,
			Logger:      logger,
		},
	)

	var mcpSrv *mcp.Server
	if cfg.MCP.Enabled {
		mcpSrv = mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Service.Name,
			Version: cfg.Service.Version,
		}, nil)
		conv.RegisterMCP(mcpSrv)
	}

	server := api.New(conv, api.Options{
		Info: api.Info{
			Name:    cfg.Service.Name,
			Title:   cfg.Service.Title,
			Version: cfg.Service.Version,
		},
		MaxUpload:      cfg.MaxFileBytes(),
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		MaxConcurrent:  cfg.MaxConcurrent,
		MCP:            mcpSrv,
		MCPPath:        cfg.MCP.Path,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("pdfsheet starting", "addr", cfg.Addr(), "mcp", cfg.MCP.Enabled,
			"backends", cfg.Extraction.Backends, "max_upload_mb", cfg.Upload.MaxFileMB)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}
