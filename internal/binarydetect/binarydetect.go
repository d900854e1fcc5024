// Package binarydetect implements the binary classification heuristic from
// spec §4.3: a NUL-byte sniff over the leading window, refined by a
// content-type sniff, with the three-tier encoding/decoding the final
// arbiter — a file that fails every decode tier is classified binary.
package binarydetect

import (
	"bytes"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jowharshamshiri/refac/internal/encoding"
)

// SniffWindow is the number of leading bytes inspected, per spec §4.3.
const SniffWindow = 8 * 1024

// Result is the outcome of classifying a chunk of file content.
type Result struct {
	Binary  bool
	Decoded encoding.Decoded
}

// Classify sniffs up to SniffWindow bytes and, if they look textual, decodes
// the full content. sample should be the leading bytes of the file (at least
// SniffWindow, or the whole file if shorter); full is the complete file
// content to decode once classified non-binary.
func Classify(sample []byte, full []byte) Result {
	if len(sample) > SniffWindow {
		sample = sample[:SniffWindow]
	}

	if bytes.IndexByte(sample, 0x00) >= 0 {
		return Result{Binary: true}
	}

	if len(sample) > 0 {
		mt := mimetype.Detect(sample)
		if !isTextMIME(mt.String()) {
			return Result{Binary: true}
		}
	}

	decoded, err := encoding.Decode(full)
	if err != nil {
		return Result{Binary: true}
	}
	return Result{Binary: false, Decoded: decoded}
}

func isTextMIME(mime string) bool {
	if strings.HasPrefix(mime, "text/") {
		return true
	}
	switch {
	case strings.Contains(mime, "json"),
		strings.Contains(mime, "xml"),
		strings.Contains(mime, "javascript"),
		strings.Contains(mime, "x-sh"),
		strings.Contains(mime, "x-empty"):
		return true
	default:
		return false
	}
}
