package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/yuanying/yomu/internal/document"
	"github.com/yuanying/yomu/internal/reader"
	"github.com/yuanying/yomu/internal/render"
)

func readOptionsForTest(t *testing.T, flagArgs ...string) (cliOptions, error) {
	t.Helper()
	cmd := newRootCmd()
	if err := cmd.ParseFlags(flagArgs); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return readCLIOptions(cmd, []string{"./books/sample.cbz"})
}

func TestReadCLIOptions_Defaults(t *testing.T) {
	opts, err := readOptionsForTest(t)
	if err != nil {
		t.Fatalf("readCLIOptions() error = %v", err)
	}

	if opts.Path != "./books/sample.cbz" {
		t.Fatalf("Path = %q", opts.Path)
	}
	if opts.Mode != reader.SinglePage {
		t.Fatalf("Mode = %v, want SinglePage", opts.Mode)
	}
	if opts.ModeSet {
		t.Fatal("ModeSet = true for default flags")
	}
	if opts.Zoom != reader.FitPage {
		t.Fatalf("Zoom = %v, want FitPage", opts.Zoom)
	}
	if opts.NativeRTL || opts.NoResume {
		t.Fatal("boolean flags should default to false")
	}
	if opts.Logger == nil {
		t.Fatal("Logger is nil, want non-nil")
	}
	if !opts.Logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("Logger should be enabled at INFO level by default")
	}
	if opts.Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("Logger should not be enabled at DEBUG level by default")
	}
}

func TestReadCLIOptions_CustomFlags(t *testing.T) {
	opts, err := readOptionsForTest(t,
		"--mode", "rtl",
		"--zoom", "150%",
		"--native-rtl",
		"--no-resume",
		"--recent-file", "/tmp/recent.json",
		"--verbose",
	)
	if err != nil {
		t.Fatalf("readCLIOptions() error = %v", err)
	}

	if opts.Mode != reader.TwoPageRTL {
		t.Fatalf("Mode = %v, want TwoPageRTL", opts.Mode)
	}
	if !opts.ModeSet {
		t.Fatal("ModeSet = false, want true")
	}
	if opts.Zoom != reader.Zoom150 {
		t.Fatalf("Zoom = %v, want Zoom150", opts.Zoom)
	}
	if !opts.ZoomSet {
		t.Fatal("ZoomSet = false, want true")
	}
	if !opts.NativeRTL {
		t.Fatal("NativeRTL = false, want true")
	}
	if !opts.NoResume {
		t.Fatal("NoResume = false, want true")
	}
	if opts.StorePath != "/tmp/recent.json" {
		t.Fatalf("StorePath = %q", opts.StorePath)
	}
	// --verbose overrides log-level to debug
	if !opts.Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("Logger should be enabled at DEBUG level when --verbose is set")
	}
}

func TestReadCLIOptions_InvalidMode(t *testing.T) {
	_, err := readOptionsForTest(t, "--mode", "spread")
	if err == nil || !strings.Contains(err.Error(), "--mode") {
		t.Fatalf("expected mode validation error, got %v", err)
	}
}

func TestReadCLIOptions_InvalidZoom(t *testing.T) {
	_, err := readOptionsForTest(t, "--zoom", "300%")
	if err == nil || !strings.Contains(err.Error(), "--zoom") {
		t.Fatalf("expected zoom validation error, got %v", err)
	}
}

func TestReadCLIOptions_InvalidLogLevel(t *testing.T) {
	_, err := readOptionsForTest(t, "--log-level", "trace")
	if err == nil || !strings.Contains(err.Error(), "--log-level") {
		t.Fatalf("expected log-level validation error, got %v", err)
	}
}

func TestReadCLIOptions_InvalidLogFormat(t *testing.T) {
	_, err := readOptionsForTest(t, "--log-format", "yaml")
	if err == nil || !strings.Contains(err.Error(), "--log-format") {
		t.Fatalf("expected log-format validation error, got %v", err)
	}
}

func TestBuildLogger_FormatNormalization(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(&buf, "info", "JSON")
	logger.Info("test message")
	// JSON format should produce JSON output (starts with '{')
	output := buf.String()
	if len(output) == 0 || output[0] != '{' {
		t.Fatalf("expected JSON output for format 'JSON', got: %s", output)
	}
}

type staticDoc struct {
	pages int
}

func (d staticDoc) Key() string    { return "static-doc" }
func (d staticDoc) Name() string   { return "static" }
func (d staticDoc) PageCount() int { return d.pages }
func (d staticDoc) Close() error   { return nil }

func (d staticDoc) Page(index int) (document.Page, error) {
	if index < 0 || index >= d.pages {
		return document.Page{}, fmt.Errorf("page index %d out of range", index)
	}
	return document.Page{Number: index + 1, Label: fmt.Sprintf("%d", index+1)}, nil
}

func newTestSession(t *testing.T, pages int) (*reader.Session, *render.ConsoleSurface, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	surface := render.NewConsoleSurface(&buf)
	session := reader.NewSession(surface, nil, reader.Options{})
	surface.OnPageChanged = session.SurfaceReportedPage
	if err := session.Load(staticDoc{pages: pages}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return session, surface, &buf
}

func execLine(session *reader.Session, surface *render.ConsoleSurface, out io.Writer, line string) bool {
	return execReaderCommand(session, surface, out, strings.Fields(line))
}

func TestExecReaderCommand_Navigation(t *testing.T) {
	session, surface, buf := newTestSession(t, 5)

	execLine(session, surface, buf, "goto 3")
	if session.CurrentPage() != 3 {
		t.Fatalf("after goto 3: CurrentPage = %d", session.CurrentPage())
	}
	execLine(session, surface, buf, "next")
	execLine(session, surface, buf, "prev")
	if session.CurrentPage() != 3 {
		t.Fatalf("after next+prev: CurrentPage = %d", session.CurrentPage())
	}
	execLine(session, surface, buf, "last")
	if session.CurrentPage() != 5 {
		t.Fatalf("after last: CurrentPage = %d", session.CurrentPage())
	}
	execLine(session, surface, buf, "first")
	if session.CurrentPage() != 1 {
		t.Fatalf("after first: CurrentPage = %d", session.CurrentPage())
	}
}

func TestExecReaderCommand_ModeAndZoom(t *testing.T) {
	session, surface, buf := newTestSession(t, 5)

	execLine(session, surface, buf, "mode rtl")
	if session.Mode() != reader.TwoPageRTL {
		t.Fatalf("Mode = %v, want TwoPageRTL", session.Mode())
	}
	execLine(session, surface, buf, "zoom 100")
	execLine(session, surface, buf, "zoom in")
	if session.Zoom() != reader.Zoom125 {
		t.Fatalf("Zoom = %v, want Zoom125", session.Zoom())
	}
	execLine(session, surface, buf, "zoom out")
	execLine(session, surface, buf, "zoom out")
	if session.Zoom() != reader.Zoom75 {
		t.Fatalf("Zoom = %v, want Zoom75", session.Zoom())
	}
}

func TestExecReaderCommand_SwipeReportsBack(t *testing.T) {
	session, surface, buf := newTestSession(t, 5)

	execLine(session, surface, buf, "swipe")
	if session.CurrentPage() != 2 {
		t.Fatalf("after swipe: CurrentPage = %d, want 2", session.CurrentPage())
	}
	execLine(session, surface, buf, "swipe back")
	if session.CurrentPage() != 1 {
		t.Fatalf("after swipe back: CurrentPage = %d, want 1", session.CurrentPage())
	}
}

func TestExecReaderCommand_Quit(t *testing.T) {
	session, surface, buf := newTestSession(t, 5)

	if execLine(session, surface, buf, "status") {
		t.Fatal("status should not end the session")
	}
	if !strings.Contains(buf.String(), "page 1/5") {
		t.Fatalf("status output missing position: %s", buf.String())
	}
	if !execLine(session, surface, buf, "quit") {
		t.Fatal("quit should end the session")
	}
}

func TestExecReaderCommand_Unknown(t *testing.T) {
	session, surface, buf := newTestSession(t, 5)

	execLine(session, surface, buf, "frobnicate")
	if !strings.Contains(buf.String(), "unknown command") {
		t.Fatalf("expected unknown command message, got %s", buf.String())
	}
	if execLine(session, surface, buf, "") {
		t.Fatal("blank line should not end the session")
	}
}
