package rotoframe

// VideoSource is reserved for video containers.
//
// Decode always fails with ErrUnimplemented. When implemented, index must
// address presentation order (not byte offset) and any index must be
// reachable without decoding every preceding frame.
type VideoSource struct {
	path string
}

// NewVideoSource creates a video source for path.
func NewVideoSource(path string) *VideoSource {
	return &VideoSource{path: path}
}

// Kind returns KindVideo.
func (s *VideoSource) Kind() SourceKind {
	return KindVideo
}

// Extent reports an unknown length.
func (s *VideoSource) Extent() (int, bool) {
	return 0, false
}

// Path returns the container path.
func (s *VideoSource) Path() string {
	return s.path
}

// Decode fails with ErrUnimplemented for every index.
func (s *VideoSource) Decode(index int) (*Frame, error) {
	if index < 0 {
		return nil, outOfRange(KindVideo, index, -1)
	}
	return nil, &FrameError{
		Kind:   ErrUnimplemented,
		Source: KindVideo,
		Index:  index,
		Path:   s.path,
	}
}
