// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Filename sanitization for cross-platform compatibility
//   - Output directory validation and creation
//   - Atomic file writes through a temporary ".part" file
//   - Cover art resizing and format conversion
//
// # Filename Sanitization
//
// Use SanitizeFileName before writing a downloaded file to disk:
//
//	safe := ioutils.SanitizeFileName(`Song: Part 1/2`) // Returns "Song- Part 1-2"
//	safe = ioutils.SanitizeFileName("CON")              // Returns "CON_"
//
// # Directories
//
//	// Fails with ErrInvalidPath if the path is a regular file
//	err := ioutils.EnsureDir("/music/mother-3")
//
// # Image Processing
//
// The ImageService prepares cover art for embedding in ID3 tags:
//
//	svc := ioutils.NewImageService()
//	resized, _ := svc.ResizeImage(ctx, imageData, 500, 500)
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
