package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Output(t *testing.T) {
	cmd := newVersionCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	output := out.String()
	assert.Contains(t, output, "mutator version")
	assert.Contains(t, output, "go version")
	assert.Contains(t, output, "python, go")
}

func TestBuildVersion(t *testing.T) {
	// Test binaries report "(devel)" or no module version at all.
	assert.NotEmpty(t, buildVersion())
}
