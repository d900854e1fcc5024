package ldiff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessStream_BasicFunctionality(t *testing.T) {
	in := "hello world\nhello universe\ngoodbye world\n"
	var out strings.Builder

	require.NoError(t, ProcessStream(strings.NewReader(in), &out, DefaultSubstitute))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "hello world", lines[0])
	assert.Equal(t, "░░░░░ universe", lines[1])
	assert.Equal(t, "goodbye world", lines[2])
}

func TestProcessStream_CustomSubstituteChar(t *testing.T) {
	in := "test line\ntest another\n"
	var out strings.Builder

	require.NoError(t, ProcessStream(strings.NewReader(in), &out, '*'))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "test line", lines[0])
	assert.Equal(t, "**** another", lines[1])
}

func TestProcessStream_EmptyInput(t *testing.T) {
	var out strings.Builder
	require.NoError(t, ProcessStream(strings.NewReader(""), &out, DefaultSubstitute))
	assert.Empty(t, out.String())
}

func TestProcessStream_SingleLine(t *testing.T) {
	var out strings.Builder
	require.NoError(t, ProcessStream(strings.NewReader("single line only\n"), &out, DefaultSubstitute))
	assert.Equal(t, "single line only\n", out.String())
}

func TestProcessStream_LogTimestamps(t *testing.T) {
	in := "2023-01-01 10:00:00 INFO Starting application\n" +
		"2023-01-01 10:00:01 INFO Loading configuration\n" +
		"2023-01-01 10:00:02 ERROR Failed to connect\n"
	var out strings.Builder

	require.NoError(t, ProcessStream(strings.NewReader(in), &out, DefaultSubstitute))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2023-01-01 10:00:00 INFO Starting application", lines[0])
	assert.Equal(t, "░░░░-░░-░░ ░░:░░:01 ░░░░ Loading configuration", lines[1])
	assert.Equal(t, "░░░░-░░-░░ ░░:░░:02 ERROR Failed to connect", lines[2])
}

func TestProcessStream_PathSegments(t *testing.T) {
	in := "/usr/local/bin/app\n" +
		"/usr/local/lib/libtest.so\n" +
		"/usr/share/doc/readme.txt\n"
	var out strings.Builder

	require.NoError(t, ProcessStream(strings.NewReader(in), &out, DefaultSubstitute))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "/usr/local/bin/app", lines[0])
	assert.Equal(t, "/░░░/░░░░░/lib/libtest.so", lines[1])
	assert.Equal(t, "/░░░/share/doc/readme.txt", lines[2])
}

func TestProcessLine_PreservesANSIEscapesAsLiteralSeparators(t *testing.T) {
	red := "\x1b[31m"
	reset := "\x1b[0m"
	prev := []string{"status", "ok"}

	out, words := ProcessLine(red+"status"+reset+" ok", prev, '#')

	assert.Equal(t, red+"######"+reset+" ##", out)
	assert.Equal(t, []string{"status", "ok"}, words)
}

func TestProcessLine_NoPreviousWordKeptLiteral(t *testing.T) {
	out, words := ProcessLine("alpha beta", nil, '#')
	assert.Equal(t, "alpha beta", out)
	assert.Equal(t, []string{"alpha", "beta"}, words)
}
