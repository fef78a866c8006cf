package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

func TestTailorCmd_RequiresResumeID(t *testing.T) {
	_, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	_, err := execute(t, "", "tailor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestTailorCmd_PrintsBullets(t *testing.T) {
	ts, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	out, err := execute(t, "", "tailor", "doc-1",
		"--jd", "Senior Go engineer for payments",
		"--bullets", "3", "--style", "Impact", "--limit", "6", "--show-chunks")
	require.NoError(t, err)

	assert.Contains(t, out, "• Built payment systems in Go [0, 1]")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "[1] Built payment systems")
	assert.Contains(t, out, "1 duplicates")

	req := ts.tailor.lastRequest
	assert.Equal(t, "doc-1", req.DocumentID)
	assert.Equal(t, "Senior Go engineer for payments", req.JobDescription)
	assert.Equal(t, 3, req.MaxBullets)
	assert.Equal(t, domain.StyleImpact, req.Style)
	assert.Equal(t, 6, req.RetrievalLimit)
}

func TestTailorCmd_ReadsJDFromStdin(t *testing.T) {
	ts, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	_, err := execute(t, "Platform engineer, Kubernetes", "tailor", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Platform engineer, Kubernetes", ts.tailor.lastRequest.JobDescription)
}

func TestTailorCmd_ReadsJDFromFile(t *testing.T) {
	ts, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte("Data engineer, Spark"), 0o600))

	_, err := execute(t, "", "tailor", "doc-1", "--jd-file", path)
	require.NoError(t, err)
	assert.Equal(t, "Data engineer, Spark", ts.tailor.lastRequest.JobDescription)
}

func TestTailorCmd_EmptyJD(t *testing.T) {
	_, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	_, err := execute(t, "  ", "tailor", "doc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job description is required")
}

func TestTailorCmd_UnknownStyle(t *testing.T) {
	_, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	_, err := execute(t, "", "tailor", "doc-1", "--jd", "Senior Go engineer", "--style", "poetic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown style")
}

func TestTailorCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	out, err := execute(t, "", "tailor", "doc-1", "--jd", "Senior Go engineer", "--json")
	require.NoError(t, err)

	var got domain.TailorResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "doc-1", got.DocumentID)
	require.Len(t, got.Bullets, 1)
	assert.Equal(t, []int{0, 1}, got.Bullets[0].Citations)
}

func TestTailorCmd_ServiceError(t *testing.T) {
	ts, cleanup := setupTestServicesWithMocks()
	defer cleanup()
	ts.tailor.err = domain.NewGenerationError(domain.GenerationTimeout, nil)

	_, err := execute(t, "", "tailor", "doc-1", "--jd", "Senior Go engineer")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestPreviewCmd(t *testing.T) {
	ts, cleanup := setupTestServicesWithMocks()
	defer cleanup()

	out, err := execute(t, "", "preview", "doc-1", "--jd", "payments engineer", "-k", "4")
	require.NoError(t, err)

	assert.Contains(t, out, "[1] score 0.812")
	assert.Contains(t, out, "Built payment systems")
	assert.Equal(t, 4, ts.tailor.lastLimit)
}

func TestPreviewCmd_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServicesWithMocks()
	defer cleanup()
	tailorService = nil

	_, err := execute(t, "", "preview", "doc-1", "--jd", "payments engineer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tailor service not configured")
}
