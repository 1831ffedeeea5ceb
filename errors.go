package rotoframe

import (
	"errors"
	"fmt"
	"strings"
)

// Decode failure kinds. Every error returned by FrameSource.Decode matches
// exactly one of these through errors.Is.
var (
	// ErrNotFound is returned when the backing file of a frame is missing.
	ErrNotFound = errors.New("rotoframe: frame not found")

	// ErrDecode is returned when the backing bytes are not a supported raster image.
	ErrDecode = errors.New("rotoframe: frame decode failed")

	// ErrOutOfRange is returned when an index lies outside a source's extent.
	ErrOutOfRange = errors.New("rotoframe: frame index out of range")

	// ErrUnimplemented is returned by source variants without decode support.
	ErrUnimplemented = errors.New("rotoframe: not implemented")
)

// Construction and session errors.
var (
	// ErrInvalidDimensions is returned when a width or height is not positive,
	// or a pixel buffer does not match its dimensions.
	ErrInvalidDimensions = errors.New("rotoframe: invalid dimensions")

	// ErrEmptySelection is returned by OpenSource when nothing was selected.
	ErrEmptySelection = errors.New("rotoframe: empty selection")

	// ErrNilSource is returned when a nil FrameSource is passed where one is required.
	ErrNilSource = errors.New("rotoframe: nil frame source")

	// ErrUpload is returned when the texture uploader rejects a frame.
	ErrUpload = errors.New("rotoframe: texture upload failed")

	// ErrSessionClosed is returned by operations on a closed Session.
	ErrSessionClosed = errors.New("rotoframe: session is closed")

	// ErrNoGeneration is returned by TextureSync.EnsureCurrent for the zero
	// Generation, which never identifies a source.
	ErrNoGeneration = errors.New("rotoframe: zero generation")
)

// FrameError describes a failed decode.
//
// Kind is one of ErrNotFound, ErrDecode, ErrOutOfRange or ErrUnimplemented.
// Err is the underlying cause and may be nil.
type FrameError struct {
	Kind   error
	Source SourceKind
	Index  int
	Path   string
	Err    error
}

func (e *FrameError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	fmt.Fprintf(&b, " (%s source, index %d", e.Source, e.Index)
	if e.Path != "" {
		fmt.Fprintf(&b, ", path %q", e.Path)
	}
	b.WriteByte(')')
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *FrameError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// outOfRange builds the error shared by every variant for indices outside
// the source's extent.
func outOfRange(kind SourceKind, index, extent int) error {
	cause := fmt.Errorf("extent is %d", extent)
	if index < 0 {
		cause = errors.New("negative index")
	}
	return &FrameError{
		Kind:   ErrOutOfRange,
		Source: kind,
		Index:  index,
		Err:    cause,
	}
}
