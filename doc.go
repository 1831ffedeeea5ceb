// Package rotoframe delivers decoded image frames to an annotation canvas.
//
// # Overview
//
// rotoframe turns an ordered collection of still images into a stream of
// RGBA8 frames addressed by index, caches decoded frames across redraws and
// keeps a single display texture in step with the frame the UI wants to
// show.
//
// # Quick Start
//
//	seq := rotoframe.NewImageSequence([]string{"f0.png", "f1.png", "f2.png"})
//	s, _ := rotoframe.NewSession(seq, uploader)
//	defer s.Close()
//
//	// Once per redraw:
//	frame, err := s.Present()
//
//	// On user input:
//	s.Step(+1)
//	err = s.SwitchSource(other)
//
// # Architecture
//
// The package is organized into:
//   - Frame: immutable RGBA8 buffer
//   - FrameSource: NullSource (gradient placeholder), ImageSequence
//     (ordered files), VideoSource (reserved, always ErrUnimplemented)
//   - FrameCache: hot slot ahead of an LRU map keyed by index
//   - TextureSync: uploads only when (index, generation) changes
//   - Session: owns all of the above; SwitchSource is the only way to
//     change the active source
//
// Texture uploaders for gogpu windows and raw wgpu HAL devices live in the
// texture sub-package.
//
// # Errors
//
// Decode failures match exactly one of ErrNotFound, ErrDecode,
// ErrOutOfRange and ErrUnimplemented. The package never replaces a failed
// frame with placeholder content; that decision belongs to the caller.
//
// # Logging
//
// rotoframe is silent by default. See SetLogger.
package rotoframe
