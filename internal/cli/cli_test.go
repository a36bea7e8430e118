package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/fire_calls_analysis/internal/config"
	"github.com/shenikar/fire_calls_analysis/internal/models"
	"github.com/shenikar/fire_calls_analysis/internal/service"
	"github.com/shenikar/fire_calls_analysis/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const callsCSV = `Call Number,Call Type,Call Date,Delay,Zipcode of Incident,Neighborhood
1,Medical Incident,01/02/2018,3.2,94102,Tenderloin
2,Medical Incident,01/03/2018,7.5,94103,South of Market
3,Structure Fire,01/09/2018,10.0,94103,Mission
`

func writeCalls(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calls.csv")
	require.NoError(t, os.WriteFile(path, []byte(callsCSV), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRun_SingleQueryJSON(t *testing.T) {
	path := writeCalls(t)

	out, _, err := execute(t, "run", "--file", path, "--query", "common-call-types", "--format", "json")
	require.NoError(t, err)

	var results []models.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	got := results[0]
	assert.Equal(t, "common-call-types", got.Query)
	assert.Equal(t, []string{"CallType", "count"}, got.Columns)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "Medical Incident", got.Rows[0][0])
	assert.Equal(t, float64(2), got.Rows[0][1])
}

func TestRun_AllQueriesTable(t *testing.T) {
	path := writeCalls(t)

	out, _, err := execute(t, "run", "--file", path, "--limit", "2")
	require.NoError(t, err)

	for _, title := range []string{
		"Renamed incident table",
		"Distinct call types",
		"Average response delay per neighborhood",
	} {
		assert.Contains(t, out, title)
	}
	assert.Contains(t, out, "only showing top 2 rows")
}

func TestRun_AllQueriesJSONArray(t *testing.T) {
	path := writeCalls(t)

	out, _, err := execute(t, "run", "--file", path, "--format", "json", "--limit", "1")
	require.NoError(t, err)

	var results []models.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 10)
	assert.Equal(t, "preview", results[0].Query)
	assert.Equal(t, "neighborhood-delays", results[9].Query)
	assert.Len(t, results[0].Rows, 1)
	assert.Equal(t, 3, results[0].TotalRows)
}

func TestRun_FlagsOverrideParams(t *testing.T) {
	path := writeCalls(t)

	out, _, err := execute(t, "run", "--file", path, "--query", "response-delays", "--threshold", "8", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "response-delays")
	assert.Contains(t, out, "total_rows: 1")
}

func TestRun_UnknownQuery(t *testing.T) {
	path := writeCalls(t)

	_, _, err := execute(t, "run", "--file", path, "--query", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrUnknownQuery)
}

func TestRun_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.csv")

	_, _, err := execute(t, "run", "--file", path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "absent.csv")
}

func TestRun_InvalidFormat(t *testing.T) {
	_, _, err := execute(t, "run", "--format", "xml")
	require.Error(t, err)
	assert.ErrorContains(t, err, "OutputFormat")
}

func TestQueriesCommand(t *testing.T) {
	out, _, err := execute(t, "queries")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "preview")
	assert.Contains(t, out, "neighborhood-delays")
}

func TestNewRouter_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockAnalysisService(ctrl)
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	a := &app{cfg: &config.Config{FilterYear: 2018, ZipCodes: []int{94102}}, log: log}

	gin.SetMode(gin.TestMode)
	router := newRouter(a, svc)

	svc.EXPECT().Queries().Return([]models.QueryInfo{{Name: "preview"}}).Times(1)

	for _, path := range []string{"/api/v1/system/health", "/api/v1/queries", "/metrics"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
