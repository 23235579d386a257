package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/nbsky/x6print/internal/bitmap"
	"github.com/nbsky/x6print/internal/config"
	"github.com/nbsky/x6print/internal/printer"
	"github.com/nbsky/x6print/internal/x6"
)

func main() {
	logLevel := parseLogLevel(envStr("X6PRINT_LOG_LEVEL", "info"))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	var (
		portFlag   = flag.String("port", "", "serial port of the printer (default: saved setting, then scan)")
		scanOnly   = flag.Bool("scan", false, "scan serial ports for a printer and exit")
		testPrint  = flag.Bool("test", false, "print the built-in calibration pattern")
		offset     = flag.Int("offset", 0, "leftmost source column to print")
		align      = flag.String("align", "", "placement of narrow images: left, center or right")
		fit        = flag.Bool("fit", false, "scale wide images down to the head width instead of cropping")
		feed       = flag.Int("feed", 0, "paper feed lines after the label (0 = default)")
		chunk      = flag.Int("chunk", 0, "raster bytes per write (0 = default)")
		chunkDelay = flag.Duration("delay", 0, "pause between chunks (0 = default)")
		save       = flag.Bool("save", false, "persist the given flags as defaults")
		configDir  = flag.String("config", defaultConfigDir(), "settings directory")
	)
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	store := openStore(*configDir)
	settings := store.Get()

	// Flags given on the command line win over saved settings.
	if set["port"] {
		settings.Port = *portFlag
	}
	if set["align"] {
		settings.Alignment = *align
	}
	if set["fit"] {
		settings.FitToWidth = *fit
	}
	if set["chunk"] {
		settings.ChunkSize = *chunk
	}
	if set["delay"] {
		settings.ChunkDelayMS = int(chunkDelay.Milliseconds())
	}
	if set["feed"] {
		settings.FeedLines = *feed
	}

	if *save {
		if err := store.Update(settings); err != nil {
			slog.Error("failed to save settings", "err", err)
			os.Exit(1)
		}
		slog.Info("settings saved", "dir", *configDir)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *scanOnly {
		port, ok := findPrinter()
		if !ok {
			slog.Error("no printer found")
			os.Exit(1)
		}
		fmt.Println(port)
		return
	}

	img, err := buildRaster(*testPrint, flag.Arg(0), settings, *offset)
	if err != nil {
		slog.Error("failed to prepare raster", "err", err)
		os.Exit(1)
	}
	slog.Info("raster ready", "width", img.Width, "height", img.Height, "bytes", len(img.Data))

	port := settings.Port
	if port == "" {
		slog.Info("no port configured, scanning...")
		found, ok := findPrinter()
		if !ok {
			slog.Error("no printer found; pass -port or power the printer on")
			os.Exit(1)
		}
		port = found
	}

	out, err := print(ctx, port, img, settings)
	if err != nil {
		slog.Error("print failed", "err", err)
		os.Exit(1)
	}
	if code := report(out); code != 0 {
		os.Exit(code)
	}
}

func print(ctx context.Context, port string, img *bitmap.DeviceImage, settings config.Settings) (printer.Outcome, error) {
	driver := printer.New()
	job, err := driver.Start(port, img, printer.Options{
		ChunkSize:  settings.ChunkSize,
		ChunkDelay: time.Duration(settings.ChunkDelayMS) * time.Millisecond,
		FeedLines:  settings.FeedLines,
		OnProgress: func(sent, total int) {
			slog.Debug("progress", "sent", sent, "total", total, "percent", 100*sent/total)
		},
	})
	if err != nil {
		return printer.Outcome{}, err
	}
	slog.Info("printing", "port", port)

	select {
	case <-ctx.Done():
		slog.Info("interrupt, canceling after the current chunk...")
		job.Cancel()
		<-job.Done()
	case <-job.Done():
	}

	return job.Outcome(), nil
}

// report logs how the job ended and picks the process exit status.
// A cancel is the user's own doing, not a failure.
func report(out printer.Outcome) int {
	switch out.Status {
	case printer.StatusCanceled:
		slog.Info("print canceled", "bytes_sent", out.BytesSent)
		return 130 // interrupted, the usual shell convention
	case printer.StatusFailed:
		slog.Error("print failed", "err", out.Err, "bytes_sent", out.BytesSent)
		return 1
	}
	return 0
}

// buildRaster turns the request into a device raster: either the
// built-in calibration pattern or a decoded and encoded image file.
func buildRaster(testPrint bool, path string, settings config.Settings, offset int) (*bitmap.DeviceImage, error) {
	if testPrint {
		return bitmap.TestPattern(x6.PrinterWidth, 240), nil
	}
	if path == "" {
		return nil, fmt.Errorf("no image file given (or use -test)")
	}

	alignment, err := bitmap.ParseAlignment(settings.Alignment)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := bitmap.Decode(f)
	if err != nil {
		return nil, err
	}
	slog.Debug("image decoded", "format", format, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	return bitmap.Encode(img, bitmap.Options{
		DeviceWidth: x6.PrinterWidth,
		Offset:      offset,
		Align:       alignment,
		FitToWidth:  settings.FitToWidth,
	})
}

func findPrinter() (string, bool) {
	port, ok, err := x6.FindPrinter()
	if err != nil {
		slog.Error("port scan failed", "err", err)
		return "", false
	}
	return port, ok
}

func openStore(dir string) *config.Store {
	store, err := config.NewStore(dir)
	if err != nil {
		slog.Warn("settings unavailable, using defaults", "dir", dir, "err", err)
		return config.NewMemoryStore()
	}
	return store
}

func defaultConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".x6print"
	}
	return filepath.Join(base, "x6print")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
