// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package texture provides rotoframe.TextureUploader implementations.
//
// The data flow is:
//
//	rotoframe.Session (Present) -> Frame (CPU) -> Uploader -> GPU texture
//
// # Uploaders
//
//   - Memory keeps a CPU copy of the last upload. Used headless and in tests.
//   - Canvas integrates with gogpu windows through gpucontext. Upload only
//     records the frame; RenderTo creates or updates the GPU texture and
//     draws it.
//   - HAL writes straight into a wgpu HAL texture through the device queue.
//
// # Thread Safety
//
// Uploaders are NOT safe for concurrent use. rotoframe.Session serializes
// its calls.
//
// # Integration Without Circular Imports
//
// Canvas uses gpucontext interfaces and never imports gogpu itself, so the
// package can be used from inside a gogpu application.
package texture
