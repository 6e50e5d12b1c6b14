// Package dng converts raw image-sensor capture buffers into DNG digital
// negatives.
//
// This is a pragmatic writer focused on byte-exact container layout rather
// than camera coverage. It unpacks 10/12/16-bit sensor buffers into canonical
// 16-bit samples, re-encodes them at the target bit depth (or hands them to a
// lossless JPEG coder), and assembles tags, directories and strips into a
// single buffer whose total length is computed before the first byte is
// written.
package dng
