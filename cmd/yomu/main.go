package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuanying/yomu/internal/document"
	"github.com/yuanying/yomu/internal/reader"
	"github.com/yuanying/yomu/internal/recent"
	"github.com/yuanying/yomu/internal/render"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
	defaultMode      = "single"
	defaultZoom      = "fit-page"
)

// cliOptions is the validated result of the root command's flags.
type cliOptions struct {
	Path      string
	Mode      reader.Mode
	ModeSet   bool
	Zoom      reader.Zoom
	ZoomSet   bool
	NativeRTL bool
	NoResume  bool
	StorePath string
	Logger    *slog.Logger
}

func buildLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func readCLIOptions(cmd *cobra.Command, args []string) (cliOptions, error) {
	var opts cliOptions
	opts.Path = args[0]

	logLevel, _ := cmd.Flags().GetString("log-level")
	switch strings.ToLower(logLevel) {
	case "debug", "info", "warn", "error":
	default:
		return opts, fmt.Errorf("--log-level must be one of debug, info, warn, error (got %q)", logLevel)
	}
	logFormat, _ := cmd.Flags().GetString("log-format")
	switch strings.ToLower(logFormat) {
	case "text", "json":
	default:
		return opts, fmt.Errorf("--log-format must be text or json (got %q)", logFormat)
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logLevel = "debug"
	}
	opts.Logger = buildLogger(os.Stderr, logLevel, logFormat)

	modeName, _ := cmd.Flags().GetString("mode")
	mode, err := reader.ParseMode(modeName)
	if err != nil {
		return opts, fmt.Errorf("--mode: %w", err)
	}
	opts.Mode = mode
	opts.ModeSet = cmd.Flags().Changed("mode")

	zoomName, _ := cmd.Flags().GetString("zoom")
	zoom, err := reader.ParseZoom(zoomName)
	if err != nil {
		return opts, fmt.Errorf("--zoom: %w", err)
	}
	opts.Zoom = zoom
	opts.ZoomSet = cmd.Flags().Changed("zoom")

	opts.NativeRTL, _ = cmd.Flags().GetBool("native-rtl")
	opts.NoResume, _ = cmd.Flags().GetBool("no-resume")
	opts.StorePath, _ = cmd.Flags().GetString("recent-file")
	return opts, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yomu <document>",
		Short: "Read PDF, EPUB and CBZ documents from the terminal",
		Long: `yomu is a terminal document reader built around a page, zoom and
mode synchronization core.

It opens PDF, EPUB and CBZ files, restores the last reading position,
and supports two-page spreads including simulated right-to-left book
order for manga and other right-to-left publications.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}
			return runReader(opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringP("mode", "m", defaultMode, "Reading mode: single, ltr or rtl")
	cmd.Flags().StringP("zoom", "z", defaultZoom, "Zoom level: fit-page, fit-width, 50%, 75%, 100%, 125%, 150% or 200%")
	cmd.Flags().Bool("native-rtl", false, "The surface lays right-to-left spreads out itself (no page reordering)")
	cmd.Flags().Bool("no-resume", false, "Do not restore or save reading progress")
	cmd.Flags().String("recent-file", "", "Recent-documents file (default: user config dir)")
	cmd.Flags().String("log-level", defaultLogLevel, "Log level: debug, info, warn, error")
	cmd.Flags().String("log-format", defaultLogFormat, "Log format: text or json")
	cmd.Flags().BoolP("verbose", "v", false, "Shorthand for --log-level debug")

	cmd.AddCommand(newInfoCmd(), newRecentCmd(), newExportCmd())
	return cmd
}

// openRecentStore resolves the progress store from the flags. A nil
// store disables persistence.
func openRecentStore(opts cliOptions) *recent.Store {
	if opts.NoResume {
		return nil
	}
	path := opts.StorePath
	if path == "" {
		p, err := recent.DefaultPath()
		if err != nil {
			opts.Logger.Warn("reading progress disabled", "error", err)
			return nil
		}
		path = p
	}
	return recent.NewStore(path)
}

func runReader(opts cliOptions, in io.Reader, out io.Writer) error {
	doc, err := document.Open(opts.Path)
	if err != nil {
		return err
	}
	defer doc.Close()

	var store reader.ProgressStore
	if s := openRecentStore(opts); s != nil {
		store = s
	}

	surface := render.NewConsoleSurface(out)
	session := reader.NewSession(surface, store, reader.Options{NativeRTL: opts.NativeRTL})
	surface.OnPageChanged = session.SurfaceReportedPage

	if err := session.Load(doc); err != nil {
		return err
	}
	// Explicit flags win over restored progress.
	if opts.ModeSet {
		session.SetMode(opts.Mode)
	}
	if opts.ZoomSet {
		session.SetZoom(opts.Zoom)
	}

	opts.Logger.Info("document opened",
		"name", doc.Name(), "pages", session.TotalPages(),
		"page", session.CurrentPage(), "mode", session.Mode().String())

	fmt.Fprintf(out, "%s: %d pages. Commands: next prev first last goto N mode M zoom Z swipe [back] status quit\n",
		doc.Name(), session.TotalPages())

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		if quit := execReaderCommand(session, surface, out, strings.Fields(scanner.Text())); quit {
			return nil
		}
		fmt.Fprint(out, "> ")
	}
	session.Save()
	return scanner.Err()
}

// execReaderCommand dispatches one interactive command line. Returns
// true when the session should end.
func execReaderCommand(session *reader.Session, surface *render.ConsoleSurface, out io.Writer, fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "n", "next":
		session.Next()
	case "p", "prev":
		session.Previous()
	case "first":
		session.First()
	case "last":
		session.Last()
	case "goto":
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintln(out, "usage: goto N")
			return false
		}
		session.GoToPage(n)
	case "mode":
		m, err := reader.ParseMode(arg)
		if err != nil {
			fmt.Fprintln(out, err)
			return false
		}
		session.SetMode(m)
	case "zoom":
		switch arg {
		case "in":
			session.ZoomIn()
		case "out":
			session.ZoomOut()
		default:
			z, err := reader.ParseZoom(arg)
			if err != nil {
				fmt.Fprintln(out, err)
				return false
			}
			session.SetZoom(z)
		}
	case "swipe":
		surface.Swipe(arg != "back")
	case "status":
		fmt.Fprintf(out, "page %d/%d, mode %s, zoom %s\n",
			session.CurrentPage(), session.TotalPages(), session.Mode(), session.Zoom())
	case "save":
		session.Save()
	case "q", "quit", "exit":
		session.Save()
		return true
	default:
		fmt.Fprintf(out, "unknown command %q\n", fields[0])
	}
	return false
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <document>",
		Short: "Print document metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Open(args[0])
			if err != nil {
				return err
			}
			defer doc.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:  %s\n", doc.Name())
			fmt.Fprintf(out, "Pages: %d\n", doc.PageCount())
			fmt.Fprintf(out, "Key:   %s\n", doc.Key())
			return nil
		},
	}
}

func newRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("recent-file")
			if path == "" {
				p, err := recent.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			store := recent.NewStore(path)

			if clear, _ := cmd.Flags().GetBool("clear"); clear {
				return store.Clear()
			}

			entries, err := store.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "no recent documents")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s\tpage %d/%d\t%s\t%s\n",
					e.DisplayName, e.CurrentPage, e.TotalPages, e.Mode,
					e.LastOpened.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
	cmd.Flags().Bool("clear", false, "Remove every recent entry")
	cmd.Flags().String("recent-file", "", "Recent-documents file (default: user config dir)")
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <document>",
		Short: "Export display-order spreads",
		Long: `export materializes the display sequence for offline viewing.

For a PDF it writes a copy with the pages collected in simulated
right-to-left book order. For EPUB and CBZ it composes one PNG per
visible unit (single page or two-page spread) into a directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Open(args[0])
			if err != nil {
				return err
			}
			defer doc.Close()

			outPath, _ := cmd.Flags().GetString("output")
			if pdf, ok := doc.(*document.PDFDocument); ok {
				if outPath == "" {
					outPath = strings.TrimSuffix(args[0], ".pdf") + ".rtl.pdf"
				}
				if err := render.ExportBookOrderPDF(pdf, outPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
				return nil
			}

			modeName, _ := cmd.Flags().GetString("mode")
			mode, err := reader.ParseMode(modeName)
			if err != nil {
				return fmt.Errorf("--mode: %w", err)
			}
			zoomName, _ := cmd.Flags().GetString("zoom")
			zoom, err := reader.ParseZoom(zoomName)
			if err != nil {
				return fmt.Errorf("--zoom: %w", err)
			}
			nativeRTL, _ := cmd.Flags().GetBool("native-rtl")

			if outPath == "" {
				outPath = doc.Name() + "-spreads"
			}
			written, err := render.ExportSpreads(doc, outPath, render.SpreadOptions{
				Mode:      mode,
				NativeRTL: nativeRTL,
				Zoom:      zoom,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d spreads to %s\n", len(written), outPath)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output path (PDF file or spread directory)")
	cmd.Flags().StringP("mode", "m", "rtl", "Reading mode for spread grouping: single, ltr or rtl")
	cmd.Flags().StringP("zoom", "z", defaultZoom, "Zoom level applied to exported pages")
	cmd.Flags().Bool("native-rtl", false, "Flip spreads instead of reordering pages")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
