package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutionResultDisplay(t *testing.T) {
	ok := ExecutionResult{Output: "Created 1 event\n"}
	assert.False(t, ok.Failed())
	assert.Equal(t, "Created 1 event\n", ok.Display())

	failed := ExecutionResult{Output: "partial\n", Fault: "exit status 1: NameError"}
	assert.True(t, failed.Failed())
	assert.Equal(t, "Execution Error: exit status 1: NameError", failed.Display())

	assert.Equal(t, "", ExecutionResult{}.Display())
}
