package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"htmlexport/internal/exporter"
	"htmlexport/internal/server"
	"htmlexport/pkg/htmlwriter"
	"htmlexport/pkg/markdown"
	"htmlexport/pkg/transcript"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	verbose bool

	outputDir string
	output    string
	title     string
	renderMD  bool
	noLinks   bool
	noImages  bool

	serveDir string
	port     string
)

var rootCmd = &cobra.Command{
	Use:   "htmlexport",
	Short: "htmlexport - Render recorded terminal transcripts as HTML",
	Long:  `htmlexport turns transcripts (stream timestamp length: content records) into HTML documents, on disk or served over HTTP and WebSocket.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// resolveOutputDir returns the output directory, using the provided value,
// or falling back to $HTMLEXPORT_OUTPUT_DIR, or "export".
func resolveOutputDir(dir string) string {
	if dir != "" {
		return dir
	}
	if env := os.Getenv("HTMLEXPORT_OUTPUT_DIR"); env != "" {
		return env
	}
	return "export"
}

func exporterOptions() exporter.Options {
	return exporter.Options{
		OutputDir: resolveOutputDir(outputDir),
		Title:     title,
		Render: exporter.RenderOptions{
			Markdown: renderMD,
			NoLinks:  noLinks,
			NoImages: noImages,
		},
	}
}

var exportCmd = &cobra.Command{
	Use:           "export transcript",
	Short:         "Export a transcript as one HTML page per day",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := transcript.ReadFile(args[0])
		if err != nil {
			return err
		}

		opts := exporterOptions()
		if opts.Title == "" {
			opts.Title = filepath.Base(args[0])
		}
		paths, err := exporter.New(opts).Export(cmd.Context(), entries)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d files to %s\n", len(paths), opts.OutputDir)
		return nil
	},
}

// stdoutSink hides os.Stdout's Close from the document writer.
type stdoutSink struct {
	io.Writer
}

var renderCmd = &cobra.Command{
	Use:           "render file",
	Short:         "Render a transcript or markdown file as a single HTML document",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd.Context(), args[0], output)
	},
}

func render(ctx context.Context, input, output string) error {
	isMarkdown := strings.EqualFold(filepath.Ext(input), ".md")

	var entries []transcript.Entry
	var source []byte
	var err error
	if isMarkdown {
		source, err = os.ReadFile(input)
	} else {
		entries, err = transcript.ReadFile(input)
	}
	if err != nil {
		return err
	}

	opts := exporterOptions()
	if opts.Title == "" {
		opts.Title = filepath.Base(input)
	}

	fn := func(w *htmlwriter.Writer) error {
		if isMarkdown {
			return writeMarkdownDocument(w, opts.Title, string(source), markdown.RenderOptions{
				NoLinks:  noLinks,
				NoImages: noImages,
			})
		}
		return exporter.New(opts).WriteDocument(ctx, w, entries)
	}

	if output == "" || output == "-" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			slog.Warn("Writing HTML to a terminal, use --output to write a file")
		}
		return htmlwriter.With(stdoutSink{os.Stdout}, fn)
	}
	if err := htmlwriter.WithFile(output, fn); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	slog.Info("Rendered document", "input", input, "output", output)
	return nil
}

func writeMarkdownDocument(w *htmlwriter.Writer, title, source string, opts markdown.RenderOptions) error {
	if err := w.WriteRaw("<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if err := w.OpenTag("html"); err != nil {
		return err
	}
	if err := w.OpenTag("head"); err != nil {
		return err
	}
	if err := w.Tag("meta", htmlwriter.A("charset", "utf-8")); err != nil {
		return err
	}
	if err := w.OpenTag("title"); err != nil {
		return err
	}
	if err := w.WriteText(title); err != nil {
		return err
	}
	if _, err := w.CloseTag(); err != nil {
		return err
	}
	if _, err := w.CloseTag(); err != nil {
		return err
	}
	if err := w.OpenTag("body"); err != nil {
		return err
	}
	if err := markdown.Write(w, source, opts); err != nil {
		return err
	}
	return w.CloseAll()
}

var serveCmd = &cobra.Command{
	Use:           "serve",
	Short:         "Serve transcripts of a directory as HTML over HTTP and WebSocket",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Run(serveDir, port, exporterOptions())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	for _, cmd := range []*cobra.Command{exportCmd, renderCmd, serveCmd} {
		cmd.Flags().StringVar(&title, "title", "", "Document title (default: input file name)")
		cmd.Flags().BoolVar(&renderMD, "markdown", false, "Render entries that look like markdown as HTML")
		cmd.Flags().BoolVar(&noLinks, "no-links", false, "Drop links from rendered markdown")
		cmd.Flags().BoolVar(&noImages, "no-images", false, "Drop images from rendered markdown")
	}

	exportCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory (default: $HTMLEXPORT_OUTPUT_DIR or export)")
	renderCmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	serveCmd.Flags().StringVarP(&serveDir, "dir", "d", ".", "Directory containing *.log transcripts")
	serveCmd.Flags().StringVarP(&port, "port", "p", "22124", "Port to listen on")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
