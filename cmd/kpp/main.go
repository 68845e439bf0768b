package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"kpp/internal/config"
	"kpp/view"
)

var (
	cfgFile  string
	class    string
	fragment string
	mode     string
)

var rootCmd = &cobra.Command{
	Use:   "kpp",
	Short: "Prose, slide and code views over Komments++ documents",
	Long: `kpp presents HTML documents produced by Komments++ in prose, slide
and code modes on screen or for print. It serves documents over HTTP with
one viewer session per reader, presents them in the terminal, prints their
tables of contents and exports print views to PDF.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.AddCommand(serveCmd, presentCmd, tocCmd, exportCmd)
}

// addDocumentFlags registers the flags shared by commands reading a single
// document file.
func addDocumentFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&class, "class", "auto", "document class: auto, article or monograph")
	cmd.Flags().StringVar(&fragment, "fragment", "", "box or appendix id to open instead of the main document")
	cmd.Flags().StringVar(&mode, "mode", "", "start view, e.g. slide-screen")
}

func openDocument(path string) (*view.Document, error) {
	c, err := view.ParseClass(class)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	url := path
	if abs, err := filepath.Abs(path); err == nil {
		url = "file://" + filepath.ToSlash(abs)
	}
	doc, err := view.Parse(f, view.Options{Class: c, Fragment: fragment, URL: url})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// startPair resolves --mode, falling back to fallback and then to the
// class default.
func startPair(fallback view.Pair) (view.Pair, error) {
	if mode == "" {
		return fallback, nil
	}
	return view.ParsePair(mode)
}
