// Command rotoframe loads an image sequence into a frame session, presents
// one frame through an in-memory texture and writes it as PNG.
//
// Usage:
//
//	rotoframe -glob 'shots/*.png' -index 12 -out frame.png
//	rotoframe -frames a.png,b.png -repeat 10 -v
//	rotoframe -null 320x240 -out placeholder.png
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gogpu/rotoframe"
	"github.com/gogpu/rotoframe/texture"
)

func main() {
	if err := run(os.Args[1:], afero.NewOsFs(), os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "rotoframe: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	config  string
	glob    string
	frames  string
	null    string
	index   int
	repeat  int
	out     string
	verbose bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("rotoframe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.config, "config", rotoframe.DefaultConfigFile, "TOML configuration file")
	fs.StringVar(&o.glob, "glob", "", "glob selecting the image sequence, ordered numerically")
	fs.StringVar(&o.frames, "frames", "", "comma-separated image paths, used in the given order")
	fs.StringVar(&o.null, "null", "", "use a WxH placeholder instead of images")
	fs.IntVar(&o.index, "index", 0, "frame index to present")
	fs.IntVar(&o.repeat, "repeat", 1, "number of presents (redraws) to simulate")
	fs.StringVar(&o.out, "out", "frame.png", "output PNG")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.repeat < 1 {
		return o, fmt.Errorf("-repeat must be at least 1, got %d", o.repeat)
	}
	return o, nil
}

func run(args []string, fsys afero.Fs, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := rotoframe.LoadConfig(fsys, o.config)
	if err != nil {
		return err
	}
	level, _ := cfg.Log.SlogLevel()
	if o.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	rotoframe.SetLogger(log)
	defer rotoframe.SetLogger(nil)

	src, err := openSource(fsys, o)
	if err != nil {
		return err
	}

	tex := texture.NewMemory()
	session, err := rotoframe.NewSession(nil, tex, rotoframe.WithConfig(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	if src != nil {
		if err := session.SwitchSource(src); err != nil {
			log.Warn("first frame unavailable", slog.Any("err", err))
		}
	}

	if err := session.Seek(o.index); err != nil {
		return err
	}
	var presentErr error
	for range o.repeat {
		if _, presentErr = session.Present(); presentErr != nil {
			break
		}
	}
	if presentErr != nil {
		// Report and fall back to the placeholder so there is something to show.
		log.Error("present failed", slog.Int("index", o.index), slog.Any("err", presentErr))
		if err := session.SwitchSource(rotoframe.MustNullSource(cfg.Placeholder.Width, cfg.Placeholder.Height)); err != nil {
			return err
		}
		if _, err := session.Present(); err != nil {
			return err
		}
	}

	st := session.CacheStats()
	w, h := session.NominalSize()
	log.Info("presented",
		slog.Int("index", session.DesiredIndex()),
		slog.Int("uploads", tex.Uploads()),
		slog.Uint64("cache_hits", st.Hits),
		slog.Uint64("cache_misses", st.Misses),
		slog.Int("cache_len", st.Len),
		slog.Int("nominal_width", w),
		slog.Int("nominal_height", h))

	if err := writePNG(fsys, o.out, tex); err != nil {
		return err
	}
	log.Info("wrote frame", slog.String("path", o.out))
	return presentErr
}

// openSource returns nil when no input was selected.
func openSource(fsys afero.Fs, o options) (rotoframe.FrameSource, error) {
	switch {
	case o.null != "":
		w, h, err := parseSize(o.null)
		if err != nil {
			return nil, err
		}
		return rotoframe.NewNullSource(w, h)
	case o.frames != "":
		paths := strings.Split(o.frames, ",")
		for i := range paths {
			paths[i] = strings.TrimSpace(paths[i])
		}
		return rotoframe.OpenSource(rotoframe.Selection{Paths: paths}, rotoframe.WithFs(fsys))
	case o.glob != "":
		paths, err := globSorted(fsys, o.glob)
		if err != nil {
			return nil, err
		}
		return rotoframe.OpenSource(rotoframe.Selection{Paths: paths}, rotoframe.WithFs(fsys))
	default:
		return nil, nil
	}
}

// globSorted expands pattern and orders matches so that frame_2 sorts
// before frame_10.
func globSorted(fsys afero.Fs, pattern string) ([]string, error) {
	paths, err := afero.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("glob %q: %w", pattern, rotoframe.ErrEmptySelection)
	}
	collate.New(language.Und, collate.Numeric).SortStrings(paths)
	return paths, nil
}

func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	return w, h, nil
}

func writePNG(fsys afero.Fs, path string, tex *texture.Memory) error {
	img := tex.Image()
	if img == nil {
		return errors.New("nothing was uploaded")
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
