package rotoframe

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"

	"github.com/gogpu/rotoframe/internal/codec"
)

// FrameSource produces decoded frames by logical index.
//
// Decode must have no side effects beyond reading the backing resource, and
// repeated decodes of the same index yield identical samples as long as the
// backing resource is unchanged. Frames may differ in size from index to
// index.
//
// Errors returned by Decode match one of ErrNotFound, ErrDecode,
// ErrOutOfRange or ErrUnimplemented.
type FrameSource interface {
	// Kind identifies the variant.
	Kind() SourceKind

	// Extent returns the number of addressable frames. bounded is false for
	// sources that accept any non-negative index or whose length is unknown.
	Extent() (n int, bounded bool)

	// Decode produces the frame at index.
	Decode(index int) (*Frame, error)
}

// SourceKind enumerates the FrameSource variants.
type SourceKind uint8

const (
	// KindNull is the synthetic gradient placeholder.
	KindNull SourceKind = iota

	// KindImageSequence is an ordered list of still images.
	KindImageSequence

	// KindVideo is a video container. Decoding is not implemented yet.
	KindVideo
)

// String returns the variant name.
func (k SourceKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindImageSequence:
		return "image-sequence"
	case KindVideo:
		return "video"
	default:
		return fmt.Sprintf("SourceKind(%d)", uint8(k))
	}
}

// Codec decodes one still-image file into a Frame.
//
// A missing file should be reported with an error matching fs.ErrNotExist
// or ErrNotFound; any other error is treated as a decode failure.
type Codec interface {
	Decode(path string) (*Frame, error)
}

// CodecFunc adapts a function to the Codec interface.
type CodecFunc func(path string) (*Frame, error)

// Decode calls f(path).
func (f CodecFunc) Decode(path string) (*Frame, error) {
	return f(path)
}

// fileCodec reads files through an afero.Fs and decodes them with the
// registered image formats.
type fileCodec struct {
	fs afero.Fs
}

// NewFileCodec returns the default Codec reading from fsys.
// A nil fsys means the operating system filesystem.
func NewFileCodec(fsys afero.Fs) Codec {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return fileCodec{fs: fsys}
}

func (c fileCodec) Decode(path string) (*Frame, error) {
	img, _, err := codec.Load(c.fs, path)
	if err != nil {
		return nil, err
	}
	return FrameFromImage(img)
}

// classifyCodecError maps a codec failure onto the decode taxonomy.
func classifyCodecError(err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return ErrDecode
}

// Selection is the result of an input picker: either an ordered list of
// still images or a single video path.
type Selection struct {
	Paths []string
	Video bool
}

// OpenSource builds the FrameSource for a picker result.
// The paths are used in the order given. Options apply to image sequences.
func OpenSource(sel Selection, opts ...SequenceOption) (FrameSource, error) {
	if len(sel.Paths) == 0 {
		return nil, ErrEmptySelection
	}
	if sel.Video {
		if len(sel.Paths) != 1 {
			return nil, fmt.Errorf("rotoframe: video selection needs exactly one path, got %d", len(sel.Paths))
		}
		return NewVideoSource(sel.Paths[0]), nil
	}
	return NewImageSequence(sel.Paths, opts...), nil
}
