package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/erlfang/pkg/version"
)

func TestRootCommand_Version(t *testing.T) {
	t.Parallel()

	root := newRootCommand()

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())

	assert.Equal(t, "erlfang "+version.String()+"\n", out.String())
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	t.Parallel()

	names := make([]string, 0)
	for _, c := range newRootCommand().Commands() {
		names = append(names, c.Name())
	}

	assert.Subset(t, names, []string{"scan", "parse", "rules", "version"})
}
