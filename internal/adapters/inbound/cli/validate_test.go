package cli_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/lazarus/internal/domain"
)

func TestValidateCommand_CleanBuildJSON(t *testing.T) {
	dir := newRepoDir(t)

	buf, err := runCLI(t, "validate", dir, "--build-command", "true", "--quiet", "--json")
	require.NoError(t, err)

	var result domain.ValidationResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, domain.OutcomeSuccess, result.Outcome)
	assert.Equal(t, 1, result.Iterations)
	require.NotNil(t, result.Proof)
	assert.NotEmpty(t, result.Proof.OutputHash)
}

func TestValidateCommand_DefaultTUI(t *testing.T) {
	dir := newRepoDir(t)

	buf, err := runCLI(t, "validate", dir, "--build-command", "true", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "build repaired")
}

func TestValidateCommand_CIFailsOnBrokenBuild(t *testing.T) {
	dir := newRepoDir(t)

	// Type errors have no automated remediation, so the loop stalls fast.
	broken := `printf "src/app.ts(1,1): error TS2322: Type 'string' is not assignable.\n"; exit 2`
	_, err := runCLI(t, "validate", dir,
		"--build-command", broken, "--quiet", "--ci", "--max-iterations", "4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "still broken")
}

func TestValidateCommand_RejectsBadPackageManager(t *testing.T) {
	_, err := runCLI(t, "validate", t.TempDir(), "--pm", "bower")
	assert.Error(t, err)
}
