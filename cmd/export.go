package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sat8bit/kaiwa/renderer"
	"github.com/sat8bit/kaiwa/reveal"
	"github.com/sat8bit/kaiwa/transcript"
)

type exportOptions struct {
	out    string
	format string
	title  string
}

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the settled intro transcript as Markdown or JSON",
		Long: `Settle the whole intro without pacing and write it out.

Markdown is written to a timestamped file with Hugo front matter.
JSON is written to stdout.

Examples:
  kaiwa export --out ./pages/content/posts
  kaiwa export --format json > transcript.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.out, "out", "./pages/content/posts", "Output directory for Markdown")
	cmd.Flags().StringVar(&opts.format, "format", "md", "Output format: md or json")
	cmd.Flags().StringVar(&opts.title, "title", "Intro", "Title for the front matter")

	return cmd
}

func runExport(ctx context.Context, opts exportOptions, stdout io.Writer) error {
	if opts.format != "md" && opts.format != "json" {
		return fmt.Errorf("unknown format %q (want md or json)", opts.format)
	}

	a, err := loadApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	store, err := a.store(ctx)
	if err != nil {
		return err
	}

	if opts.format == "json" {
		return exportJSON(store, stdout)
	}
	path, err := exportMarkdown(store, opts.out, opts.title, a.persona.DisplayName, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, path)
	return nil
}

// settle は store をバイパスモードで再生し、すべて表示済みにした Host を返します。
func settle(store *transcript.Store, opts ...reveal.Option) *reveal.Host {
	h := reveal.New(store, append(opts, reveal.WithBypass(true))...)
	h.Start()
	return h
}

func exportJSON(store *transcript.Store, w io.Writer) error {
	h := settle(store)
	defer h.Cancel()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(h.Snapshot().Visible); err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	return nil
}

func exportMarkdown(store *transcript.Store, dir, title, name string, now time.Time) (string, error) {
	h := settle(store)
	defer h.Cancel()

	return renderer.SaveMarkdown(dir, renderer.Document{
		Title:    title,
		Name:     name,
		Date:     now,
		Tags:     []string{name},
		Messages: h.Snapshot().Visible,
	})
}
