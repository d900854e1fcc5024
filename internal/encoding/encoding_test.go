package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_PlainUTF8(t *testing.T) {
	d, err := Decode([]byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, UTF8, d.Kind)
	assert.Equal(t, "hello world", d.Text)
}

func TestDecode_UTF8WithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...)
	d, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, UTF8, d.Kind)
	assert.Equal(t, "hello", d.Text)
}

func TestDecode_UTF16LEWithBOM(t *testing.T) {
	encoded, err := Encode("hello", UTF16LE, false)
	require.NoError(t, err)

	d, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, UTF16LE, d.Kind)
	assert.Equal(t, "hello", d.Text)
}

func TestDecode_UTF16BEWithBOM(t *testing.T) {
	encoded, err := Encode("hello", UTF16BE, false)
	require.NoError(t, err)

	d, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, UTF16BE, d.Kind)
	assert.Equal(t, "hello", d.Text)
}

func TestDecode_InvalidUTF8FallsBackToLatin1(t *testing.T) {
	data := []byte{0x68, 0x65, 0x6c, 0x6c, 0x6f, 0xFF, 0xFE, 0x00}
	d, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, Latin1, d.Kind)

	roundTripped, err := Encode(d.Text, d.Kind, d.HasBOM)
	require.NoError(t, err)
	assert.Equal(t, data, roundTripped)
}

func TestDecodeEncode_UTF8BOMRoundTrips(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...)
	d, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, d.HasBOM)

	roundTripped, err := Encode(d.Text, d.Kind, d.HasBOM)
	require.NoError(t, err)
	assert.Equal(t, data, roundTripped)
}

func TestDecodeEncode_UTF8WithoutBOMStaysBOMFree(t *testing.T) {
	d, err := Decode([]byte("hello"))
	require.NoError(t, err)
	assert.False(t, d.HasBOM)

	roundTripped, err := Encode(d.Text, d.Kind, d.HasBOM)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), roundTripped)
}

func TestEncode_RoundTripsEveryKind(t *testing.T) {
	for _, kind := range []Kind{UTF8, UTF16LE, UTF16BE, Latin1} {
		data, err := Encode("round trip é", kind, false)
		require.NoError(t, err)

		d, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, "round trip é", d.Text)
		assert.Equal(t, kind, d.Kind)
	}
}

func TestEncode_UnknownKindErrors(t *testing.T) {
	_, err := Encode("x", Kind(99), false)
	assert.Error(t, err)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "utf-8", UTF8.String())
	assert.Equal(t, "utf-16le", UTF16LE.String())
	assert.Equal(t, "utf-16be", UTF16BE.String())
	assert.Equal(t, "latin-1", Latin1.String())
}
