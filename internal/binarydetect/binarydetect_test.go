package binarydetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_NulByteIsBinary(t *testing.T) {
	data := []byte("\x00\x01oldname\x00")
	result := Classify(data, data)
	assert.True(t, result.Binary)
}

func TestClassify_PlainTextIsNotBinary(t *testing.T) {
	data := []byte("oldname line\nother line\n")
	result := Classify(data, data)
	require.False(t, result.Binary)
	assert.Equal(t, "oldname line\nother line\n", result.Decoded.Text)
}

func TestClassify_EmptyFileIsNotBinary(t *testing.T) {
	result := Classify(nil, nil)
	assert.False(t, result.Binary)
}

func TestClassify_SampleTruncatedToSniffWindow(t *testing.T) {
	large := make([]byte, SniffWindow*2)
	for i := range large {
		large[i] = 'a'
	}
	result := Classify(large, large)
	assert.False(t, result.Binary)
}
