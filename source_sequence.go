package rotoframe

import (
	"slices"

	"github.com/spf13/afero"
)

// ImageSequence is an ordered list of still images. Index k decodes paths[k].
//
// The list is used in the order given; no sorting is applied. Each Decode
// performs exactly one codec call. Repeated requests for the same index are
// absorbed by FrameCache, not by the sequence.
type ImageSequence struct {
	paths []string
	codec Codec
}

// SequenceOption configures an ImageSequence.
type SequenceOption func(*sequenceOptions)

type sequenceOptions struct {
	codec Codec
	fs    afero.Fs
}

// WithCodec sets the codec used to decode each path.
// It takes precedence over WithFs.
func WithCodec(c Codec) SequenceOption {
	return func(o *sequenceOptions) {
		o.codec = c
	}
}

// WithFs sets the filesystem the default codec reads from.
func WithFs(fsys afero.Fs) SequenceOption {
	return func(o *sequenceOptions) {
		o.fs = fsys
	}
}

// NewImageSequence creates a sequence over a copy of paths.
func NewImageSequence(paths []string, opts ...SequenceOption) *ImageSequence {
	var o sequenceOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.codec == nil {
		o.codec = NewFileCodec(o.fs)
	}
	return &ImageSequence{
		paths: slices.Clone(paths),
		codec: o.codec,
	}
}

// Kind returns KindImageSequence.
func (s *ImageSequence) Kind() SourceKind {
	return KindImageSequence
}

// Extent returns the number of paths.
func (s *ImageSequence) Extent() (int, bool) {
	return len(s.paths), true
}

// Len returns the number of paths.
func (s *ImageSequence) Len() int {
	return len(s.paths)
}

// Paths returns a copy of the ordered path list.
func (s *ImageSequence) Paths() []string {
	return slices.Clone(s.paths)
}

// Path returns the path backing index, or false if index is out of range.
func (s *ImageSequence) Path(index int) (string, bool) {
	if index < 0 || index >= len(s.paths) {
		return "", false
	}
	return s.paths[index], true
}

// Decode decodes paths[index].
func (s *ImageSequence) Decode(index int) (*Frame, error) {
	path, ok := s.Path(index)
	if !ok {
		return nil, outOfRange(KindImageSequence, index, len(s.paths))
	}

	frame, err := s.codec.Decode(path)
	if err != nil {
		return nil, &FrameError{
			Kind:   classifyCodecError(err),
			Source: KindImageSequence,
			Index:  index,
			Path:   path,
			Err:    err,
		}
	}
	return frame, nil
}
