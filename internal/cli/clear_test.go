package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClear_WithoutAllFlag_Errors(t *testing.T) {
	err := RunWithArgs("test", []string{"clear"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear requires --all flag for safety")
}

func TestClear_WithAllAndForce_Succeeds(t *testing.T) {
	store := openTestStore(t)
	seedVisit(t, store, "https://example.com/a", "Page A", time.Now())

	cmd := &ClearCommand{
		All:     true,
		Force:   true,
		globals: &GlobalFlags{},
	}
	cmd.setStore(store)

	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})

	assert.Contains(t, output, "Cleared all data")

	data, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data.VisitedPages)
	assert.Empty(t, data.ArchivedDays)
}

func TestClear_JSONOutput(t *testing.T) {
	store := openTestStore(t)

	cmd := &ClearCommand{
		All:     true,
		Force:   true,
		globals: &GlobalFlags{JSON: true},
	}
	cmd.setStore(store)

	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &result), "output should be valid JSON: %s", output)
	assert.Equal(t, true, result["cleared"])
	assert.Equal(t, "all data deleted", result["message"])
}
