// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command bounce writes a YUV4MPEG2 video of a square bouncing around a
// noisy background.
//
//	bounce -o out.y4m -frames 600
//	bounce -o - | ffplay -
//	bounce -inspect out.y4m
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/image/bmp"
	"golang.org/x/term"

	"code.hybscloud.com/bounce"
	"code.hybscloud.com/bounce/internal/config"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file")
	output := flag.String("o", "", "Output file, - for stdout (overrides config)")
	frames := flag.Uint64("frames", 0, "Frame budget, 0 runs until interrupted (overrides config)")
	seed := flag.Uint64("seed", 0, "Random seed (overrides config)")
	snapshot := flag.String("snapshot", "", "Write one frame as BMP to this file")
	snapshotFrame := flag.Uint64("snapshot-frame", 0, "Frame number written by -snapshot")
	inspect := flag.String("inspect", "", "Print the header and frame count of a YUV4MPEG2 file and exit")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Stdout may carry the video; logs go to stderr.
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if *inspect != "" {
		if err := inspectFile(*inspect); err != nil {
			slog.Error("inspect failed", "file", *inspect, "error", err)
			os.Exit(1)
		}
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			slog.Error("failed to load configuration", "config", *configPath, "error", err)
			os.Exit(1)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.Output = *output
		case "frames":
			cfg.Pipeline.Frames = *frames
		case "seed":
			cfg.Seed = seed
		}
	})
	if err := config.Validate(cfg); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var snap *snapshotter
	if *snapshot != "" {
		snap = &snapshotter{path: *snapshot, frame: *snapshotFrame}
	}
	if err := run(ctx, cfg, snap); err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Info("interrupted")
			return
		}
		slog.Error("bounce failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, snap *snapshotter) error {
	w, closeSink, err := openSink(cfg.Output)
	if err != nil {
		return err
	}

	b := bounce.New(cfg.Screen.Width, cfg.Screen.Height).
		Square(cfg.Square.Width, cfg.Square.Height).
		Step(cfg.Square.Step).
		Rate(cfg.Screen.Rate).
		Slots(cfg.Pipeline.Slots).
		Frames(cfg.Pipeline.Frames).
		ReserveSlot(*cfg.Pipeline.ReserveSlot).
		Logger(slog.Default())
	if cfg.Seed != nil {
		b.Seed(*cfg.Seed)
	}
	if snap != nil {
		b.OnFrame(snap.observe)
	}

	p, err := b.Build(w)
	if err != nil {
		closeSink()
		return err
	}
	slog.Info("writing stream", "output", cfg.Output, "stream", p.ID(), "step", p.Step())

	runErr := p.Run(ctx)
	if err := closeSink(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close %s: %w", cfg.Output, err)
	}
	if snap != nil && snap.err != nil && runErr == nil {
		runErr = snap.err
	}
	return runErr
}

// openSink opens the output before any frame is drawn. Failure is fatal.
func openSink(path string) (io.Writer, func() error, error) {
	if path == "-" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, nil, fmt.Errorf("%w: refusing to write raw video to a terminal", bounce.ErrSinkUnavailable)
		}
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", bounce.ErrSinkUnavailable, err)
	}
	return f, f.Close, nil
}

// snapshotter writes one frame as a BMP from the consumer goroutine.
type snapshotter struct {
	path  string
	frame uint64
	err   error
}

func (s *snapshotter) observe(info bounce.FrameInfo, c *bounce.Canvas) {
	if info.Seq != s.frame {
		return
	}
	f, err := os.Create(s.path)
	if err != nil {
		s.err = fmt.Errorf("snapshot: %w", err)
		return
	}
	defer f.Close()
	if err := bmp.Encode(f, c.Image()); err != nil {
		s.err = fmt.Errorf("snapshot: %w", err)
		return
	}
	slog.Info("snapshot written", "file", s.path, "frame", info.Seq, "square", info.Rect.String())
}

func inspectFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := bounce.NewY4MReader(f)
	if err != nil {
		return err
	}
	n := 0
	for {
		if _, err := r.Next(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("after %d frames: %w", n, err)
		}
		n++
	}
	slog.Info("stream",
		"file", path,
		"width", r.Header.Width,
		"height", r.Header.Height,
		"rate", r.Header.Rate,
		"frames", n,
	)
	return nil
}
