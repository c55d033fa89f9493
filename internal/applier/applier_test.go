package applier

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDryRunWritesBatchesWithoutExecuting(t *testing.T) {
	script := "CREATE TABLE [dbo].[T] (\n    [Id] int\n);\nGO\nSELECT 1;\nGO\n"
	var out bytes.Buffer

	err := Apply(context.Background(), nil, script, Options{DryRun: true}, &out)
	require.NoError(t, err)

	rendered := out.String()
	assert.Contains(t, rendered, "-- batch 1/2")
	assert.Contains(t, rendered, "CREATE TABLE")
	assert.Contains(t, rendered, "-- batch 2/2")
	assert.Contains(t, rendered, "SELECT 1;")
}

func TestApplyDryRunEmptyScriptRunsNoBatches(t *testing.T) {
	var out bytes.Buffer
	err := Apply(context.Background(), nil, "GO\nGO\n", Options{DryRun: true}, &out)
	require.NoError(t, err)
	assert.Empty(t, out.String())
}
