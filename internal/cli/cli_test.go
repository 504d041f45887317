package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithArgs_Version(t *testing.T) {
	output := captureOutput(t, func() {
		err := RunWithArgs("1.2.3", []string{"--version"})
		require.NoError(t, err)
	})

	assert.Equal(t, "journey 1.2.3\n", output)
}

func TestBuildParser_RegistersAllCommands(t *testing.T) {
	parser, globals, cmds := buildParser("test")

	require.NotNil(t, globals)
	require.NotNil(t, cmds)

	for _, name := range []string{"record", "today", "serve", "reset", "clear", "status"} {
		assert.NotNil(t, parser.Find(name), "command %q should be registered", name)
	}
}

func TestRunWithArgs_UnknownCommand(t *testing.T) {
	err := RunWithArgs("test", []string{"teleport"})
	require.Error(t, err)
}

func TestRunWithArgs_RecordRequiresURL(t *testing.T) {
	err := RunWithArgs("test", []string{"record"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--url is required")
}
