package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kpp/internal/config"
	"kpp/internal/export"
	"kpp/internal/server"
)

var (
	serveAddr string
	serveDocs string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a directory of documents over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		if serveDocs != "" {
			cfg.Server.DocsDir = serveDocs
		}

		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
		log.SetOutput(os.Stdout)
		logger := log.Default()

		srvCfg := cfg.ForServer()
		srvCfg.Logger = logger
		if cfg.Export.Enabled {
			chrome := export.NewChrome(logger, cfg.Export.Timeout)
			defer chrome.Close()
			srvCfg.Printer = chrome
		}
		handler := server.New(srvCfg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if cfg.Server.Watch {
			if err := handler.Watch(ctx); err != nil {
				logger.Printf("WATCH disabled: %v", err)
			}
		}

		srv := &http.Server{
			Addr:              handler.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      2 * time.Minute,
			IdleTimeout:       60 * time.Second,
			ErrorLog:          log.New(os.Stdout, "HTTPERR ", log.LstdFlags|log.Lmicroseconds),
			ConnState: func(c net.Conn, s http.ConnState) {
				logger.Printf("CONN %s %s", s.String(), c.RemoteAddr())
			},
		}
		ln, err := net.Listen("tcp", srv.Addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		logger.Printf("Listening on %s, documents in %s", srv.Addr, cfg.Server.DocsDir)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, e.g. :8080 (overrides config and PORT)")
	serveCmd.Flags().StringVar(&serveDocs, "docs", "", "documents directory (overrides config)")
}
