// Package encoding implements the three-tier decoder described in spec §4.3
// and §9: UTF-8 first, then a declared-BOM encoding (UTF-16 LE/BE), then a
// byte-preserving ISO-8859-1 ("latin-1-like") fallback that round-trips
// arbitrary bytes. The fallback tier is what lets the engine edit files with
// isolated non-UTF-8 bytes instead of refusing them outright.
package encoding

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Kind identifies which tier decoded a file, so Encode can invert it exactly.
type Kind int

const (
	UTF8 Kind = iota
	UTF16LE
	UTF16BE
	Latin1
)

func (k Kind) String() string {
	switch k {
	case UTF16LE:
		return "utf-16le"
	case UTF16BE:
		return "utf-16be"
	case Latin1:
		return "latin-1"
	default:
		return "utf-8"
	}
}

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
)

// Decoded is the result of decoding a file's raw bytes to text, remembering
// which tier succeeded so the bytes can be re-encoded identically.
type Decoded struct {
	Text string
	Kind Kind
	// HasBOM records whether the original UTF-8 bytes carried a BOM, so
	// Encode can re-emit it and round-trip the file exactly (spec §8
	// property-4). UTF-16 always carries a BOM by construction and Latin-1
	// never does, so this only matters for Kind == UTF8.
	HasBOM bool
}

// Decode attempts UTF-8, then BOM-declared UTF-16, then the byte-preserving
// latin-1 fallback. The fallback tier always succeeds, so Decode's error
// return is reserved for a UTF-16 payload that fails to decode cleanly
// despite a BOM declaring it.
func Decode(data []byte) (Decoded, error) {
	if bytes.HasPrefix(data, bomUTF8) {
		rest := data[len(bomUTF8):]
		if utf8.Valid(rest) {
			return Decoded{Text: string(rest), Kind: UTF8, HasBOM: true}, nil
		}
	}
	if utf8.Valid(data) {
		return Decoded{Text: string(data), Kind: UTF8}, nil
	}

	if bytes.HasPrefix(data, bomUTF16LE) {
		text, err := decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data)
		if err != nil {
			return Decoded{}, fmt.Errorf("decode utf-16le: %w", err)
		}
		return Decoded{Text: text, Kind: UTF16LE}, nil
	}
	if bytes.HasPrefix(data, bomUTF16BE) {
		text, err := decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data)
		if err != nil {
			return Decoded{}, fmt.Errorf("decode utf-16be: %w", err)
		}
		return Decoded{Text: text, Kind: UTF16BE}, nil
	}

	text, err := decodeWith(charmap.ISO8859_1, data)
	if err != nil {
		// charmap.ISO8859_1 is a total function over bytes and should never
		// fail; surfaced for completeness per the EncodingError taxonomy.
		return Decoded{}, fmt.Errorf("decode latin-1 fallback: %w", err)
	}
	return Decoded{Text: text, Kind: Latin1}, nil
}

// Encode inverts Decode for the given Kind, producing the exact bytes that
// would round-trip through Decode again. hasBOM only affects the UTF8 case:
// UTF-16 always carries its BOM (ExpectBOM) and Latin-1 never does.
func Encode(text string, kind Kind, hasBOM bool) ([]byte, error) {
	switch kind {
	case UTF8:
		if hasBOM {
			return append(append([]byte{}, bomUTF8...), []byte(text)...), nil
		}
		return []byte(text), nil
	case UTF16LE:
		return encodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), text)
	case UTF16BE:
		return encodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), text)
	case Latin1:
		return encodeWith(charmap.ISO8859_1, text)
	default:
		return nil, fmt.Errorf("unknown encoding kind %d", kind)
	}
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	return enc.NewDecoder().String(string(data))
}

func encodeWith(enc encoding.Encoding, text string) ([]byte, error) {
	out, err := enc.NewEncoder().String(text)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
