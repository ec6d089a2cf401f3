package cli_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/lazarus/internal/adapters/inbound/cli"
	"github.com/abdidvp/lazarus/internal/domain"
)

const planFile = "../../../../testdata/plan/items.json"

func TestPlanCommand_JSON(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"plan", t.TempDir(), "--plan", planFile, "--json"})
	require.NoError(t, cmd.Execute())

	var batches []domain.UpdateBatch
	require.NoError(t, json.Unmarshal(buf.Bytes(), &batches))
	require.Len(t, batches, 3, "security, major, and minor/patch batches")

	assert.Equal(t, domain.PrioritySecurity, batches[0].Priority)
	assert.Equal(t, "minimist", batches[0].Packages[0].PackageName)
	assert.Equal(t, domain.PriorityMajorBump, batches[1].Priority)
	assert.Equal(t, "react", batches[1].Packages[0].PackageName)
	assert.Equal(t, domain.PriorityMinorPatch, batches[2].Priority)
	assert.Len(t, batches[2].Packages, 2)
}

func TestPlanCommand_DefaultTUI(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"plan", t.TempDir(), "--plan", planFile})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "Update plan")
	assert.Contains(t, buf.String(), "minimist")
	assert.Contains(t, buf.String(), "2 vulns")
}

func TestPlanCommand_MissingPlanFlag(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"plan"})
	assert.Error(t, cmd.Execute())
}

func TestPlanCommand_BadPlanFile(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"plan", t.TempDir(), "--plan", "does-not-exist.json"})
	assert.Error(t, cmd.Execute())
}
