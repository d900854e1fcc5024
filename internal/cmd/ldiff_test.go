package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLdiffCommand_DefaultSubstitute(t *testing.T) {
	cmd := NewLdiffCommand()
	cmd.SetIn(strings.NewReader("hello world\nhello there\n"))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "hello world\n░░░░░ there\n", out.String())
}

func TestLdiffCommand_CustomSubstituteChar(t *testing.T) {
	cmd := NewLdiffCommand()
	cmd.SetIn(strings.NewReader("a b\na c\n"))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"#"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "a b\n# c\n", out.String())
}
