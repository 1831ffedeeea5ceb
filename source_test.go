package rotoframe

import (
	"errors"
	"image/color"
	"io/fs"
	"testing"

	"github.com/spf13/afero"
)

func TestSourceKindString(t *testing.T) {
	tests := []struct {
		kind SourceKind
		want string
	}{
		{KindNull, "null"},
		{KindImageSequence, "image-sequence"},
		{KindVideo, "video"},
		{SourceKind(42), "SourceKind(42)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("SourceKind(%d).String() = %q, want %q", uint8(tt.kind), got, tt.want)
		}
	}
}

func TestNullSourceGradient(t *testing.T) {
	src := MustNullSource(40, 30)
	f, err := src.Decode(0)
	if err != nil {
		t.Fatalf("Decode(0) error = %v", err)
	}
	if w, h := f.Size(); w != 40 || h != 30 {
		t.Fatalf("Size() = (%d, %d), want (40, 30)", w, h)
	}

	for y := range 30 {
		for x := range 40 {
			r, g, b, a := f.At(x, y)
			wantR, wantB := uint8(3*x/10), uint8(3*y/10)
			if r != wantR || g != 0 || b != wantB || a != 255 {
				t.Fatalf("pixel(%d, %d) = (%d, %d, %d, %d), want (%d, 0, %d, 255)",
					x, y, r, g, b, a, wantR, wantB)
			}
		}
	}
}

func TestNullSourceScenarioPixel(t *testing.T) {
	f, err := MustNullSource(4, 4).Decode(0)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, a := f.At(2, 1)
	if r != 0 || g != 0 || b != 0 || a != 255 {
		t.Errorf("pixel(2, 1) = (%d, %d, %d, %d), want (0, 0, 0, 255)", r, g, b, a)
	}
}

func TestNullSourceClampsToByte(t *testing.T) {
	f, err := MustNullSource(900, 1).Decode(0)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		x    int
		want uint8
	}{
		{10, 3},
		{20, 6},
		{849, 254},
		{850, 255},
		{899, 255},
	}
	for _, tt := range tests {
		if r, _, _, _ := f.At(tt.x, 0); r != tt.want {
			t.Errorf("red at x=%d = %d, want %d", tt.x, r, tt.want)
		}
	}
}

func TestNullSourceDeterministic(t *testing.T) {
	src := MustNullSource(17, 9)
	a, err := src.Decode(0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := src.Decode(0)
	if err != nil {
		t.Fatal(err)
	}
	c, err := src.Decode(12345)
	if err != nil {
		t.Fatal(err)
	}

	if !a.Equal(b) || !a.Equal(c) {
		t.Error("NullSource must produce identical frames for every decode")
	}
	if a == b {
		t.Error("NullSource computes each frame; expected distinct buffers")
	}
}

func TestNullSourceErrors(t *testing.T) {
	if _, err := NewNullSource(0, 10); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("NewNullSource(0, 10) error = %v, want %v", err, ErrInvalidDimensions)
	}
	if _, err := MustNullSource(1, 1).Decode(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Decode(-1) error = %v, want %v", err, ErrOutOfRange)
	}
	if n, bounded := MustNullSource(1, 1).Extent(); bounded || n != 0 {
		t.Errorf("Extent() = (%d, %v), want (0, false)", n, bounded)
	}
}

func TestImageSequenceOrdering(t *testing.T) {
	paths := []string{"p0.png", "p1.png", "p2.png"}
	codec := newCountingCodec(paths...)
	seq := NewImageSequence(paths, WithCodec(codec))

	for k := range 3 {
		f, err := seq.Decode(k)
		if err != nil {
			t.Fatalf("Decode(%d) error = %v", k, err)
		}
		if r, _, _, _ := f.At(0, 0); int(r) != k {
			t.Errorf("Decode(%d) resolved to path #%d", k, r)
		}
	}

	_, err := seq.Decode(3)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Decode(3) error = %v, want %v", err, ErrOutOfRange)
	}
	if codec.total != 3 {
		t.Errorf("codec calls = %d, want 3 (out-of-range must not reach the codec)", codec.total)
	}

	var fe *FrameError
	if !errors.As(err, &fe) || fe.Index != 3 || fe.Source != KindImageSequence {
		t.Errorf("Decode(3) error = %#v, want *FrameError for index 3", err)
	}
}

func TestImageSequenceOneCodecCallPerDecode(t *testing.T) {
	paths := []string{"a.png", "b.png", "c.png"}
	codec := newCountingCodec(paths...)
	seq := NewImageSequence(paths, WithCodec(codec))

	for range 3 {
		if _, err := seq.Decode(1); err != nil {
			t.Fatal(err)
		}
	}
	if codec.calls["b.png"] != 3 {
		t.Errorf("codec calls for b.png = %d, want 3", codec.calls["b.png"])
	}
}

func TestImageSequenceCopiesPaths(t *testing.T) {
	paths := []string{"x.png", "y.png"}
	seq := NewImageSequence(paths, WithCodec(newCountingCodec(paths...)))
	paths[0] = "changed.png"

	if p, _ := seq.Path(0); p != "x.png" {
		t.Errorf("Path(0) = %q, want x.png", p)
	}
	got := seq.Paths()
	got[1] = "changed.png"
	if p, _ := seq.Path(1); p != "y.png" {
		t.Errorf("Path(1) = %q after mutating Paths(), want y.png", p)
	}
	if n, bounded := seq.Extent(); n != 2 || !bounded {
		t.Errorf("Extent() = (%d, %v), want (2, true)", n, bounded)
	}
}

func TestImageSequenceFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writePNG(t, fsys, "/shots/0001.png", 4, 3, color.NRGBA{R: 200, A: 255})
	writePNG(t, fsys, "/shots/0002.png", 6, 2, color.NRGBA{G: 100, A: 255})
	if err := afero.WriteFile(fsys, "/shots/0003.png", []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	seq := NewImageSequence([]string{
		"/shots/0001.png",
		"/shots/0002.png",
		"/shots/0003.png",
		"/shots/missing.png",
	}, WithFs(fsys))

	f0, err := seq.Decode(0)
	if err != nil {
		t.Fatalf("Decode(0) error = %v", err)
	}
	if r, _, _, a := f0.At(3, 2); r != 200 || a != 255 {
		t.Errorf("Decode(0) pixel = (%d, _, _, %d), want (200, _, _, 255)", r, a)
	}

	// Heterogeneous sizes are allowed.
	f1, err := seq.Decode(1)
	if err != nil {
		t.Fatalf("Decode(1) error = %v", err)
	}
	if w, h := f1.Size(); w != 6 || h != 2 {
		t.Errorf("Decode(1) size = (%d, %d), want (6, 2)", w, h)
	}

	_, err = seq.Decode(2)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Decode(2) error = %v, want %v", err, ErrDecode)
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("Decode(2) must match exactly one kind, got %v", err)
	}

	_, err = seq.Decode(3)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Decode(3) error = %v, want %v", err, ErrNotFound)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Decode(3) error should keep the fs cause, got %v", err)
	}
	var fe *FrameError
	if errors.As(err, &fe) && fe.Path != "/shots/missing.png" {
		t.Errorf("FrameError.Path = %q, want /shots/missing.png", fe.Path)
	}
}

func TestImageSequenceCodecErrorClassification(t *testing.T) {
	paths := []string{"gone.png", "bad.png", "custom.png"}
	codec := newCountingCodec(paths...)
	codec.fail["gone.png"] = fs.ErrNotExist
	codec.fail["bad.png"] = errors.New("corrupt header")
	codec.fail["custom.png"] = ErrNotFound

	seq := NewImageSequence(paths, WithCodec(codec))
	tests := []struct {
		index int
		want  error
	}{
		{0, ErrNotFound},
		{1, ErrDecode},
		{2, ErrNotFound},
	}
	for _, tt := range tests {
		if _, err := seq.Decode(tt.index); !errors.Is(err, tt.want) {
			t.Errorf("Decode(%d) error = %v, want %v", tt.index, err, tt.want)
		}
	}
}

func TestVideoSourceUnimplemented(t *testing.T) {
	v := NewVideoSource("/clips/take1.mp4")
	if v.Kind() != KindVideo {
		t.Errorf("Kind() = %v, want video", v.Kind())
	}
	if v.Path() != "/clips/take1.mp4" {
		t.Errorf("Path() = %q", v.Path())
	}
	for _, i := range []int{0, 1, 100} {
		if _, err := v.Decode(i); !errors.Is(err, ErrUnimplemented) {
			t.Errorf("Decode(%d) error = %v, want %v", i, err, ErrUnimplemented)
		}
	}
	if _, err := v.Decode(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Decode(-1) error = %v, want %v", err, ErrOutOfRange)
	}
}

func TestOpenSource(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if _, err := OpenSource(Selection{}); !errors.Is(err, ErrEmptySelection) {
			t.Errorf("OpenSource(empty) error = %v, want %v", err, ErrEmptySelection)
		}
	})

	t.Run("sequence keeps order", func(t *testing.T) {
		src, err := OpenSource(Selection{Paths: []string{"b.png", "a.png"}})
		if err != nil {
			t.Fatal(err)
		}
		seq, ok := src.(*ImageSequence)
		if !ok {
			t.Fatalf("OpenSource returned %T, want *ImageSequence", src)
		}
		if p, _ := seq.Path(0); p != "b.png" {
			t.Errorf("Path(0) = %q, want b.png (no sorting)", p)
		}
	})

	t.Run("video", func(t *testing.T) {
		src, err := OpenSource(Selection{Paths: []string{"m.webm"}, Video: true})
		if err != nil {
			t.Fatal(err)
		}
		if src.Kind() != KindVideo {
			t.Errorf("Kind() = %v, want video", src.Kind())
		}
	})

	t.Run("video needs one path", func(t *testing.T) {
		if _, err := OpenSource(Selection{Paths: []string{"a", "b"}, Video: true}); err == nil {
			t.Error("expected error for multi-path video selection")
		}
	})
}

// Every variant must be handled explicitly, the unimplemented one included.
func TestEveryKindHandled(t *testing.T) {
	sources := []FrameSource{
		MustNullSource(2, 2),
		NewImageSequence(nil, WithCodec(newCountingCodec())),
		NewVideoSource("v.mp4"),
	}
	for _, src := range sources {
		_, err := src.Decode(0)
		switch src.Kind() {
		case KindNull:
			if err != nil {
				t.Errorf("null: %v", err)
			}
		case KindImageSequence:
			if !errors.Is(err, ErrOutOfRange) {
				t.Errorf("empty sequence: %v, want %v", err, ErrOutOfRange)
			}
		case KindVideo:
			if !errors.Is(err, ErrUnimplemented) {
				t.Errorf("video: %v, want %v", err, ErrUnimplemented)
			}
		default:
			t.Errorf("unhandled kind %v", src.Kind())
		}
	}
}
