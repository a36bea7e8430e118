package render

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/fire_calls_analysis/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testResult() *models.Result {
	return &models.Result{
		RunID:   uuid.New(),
		Query:   "neighborhood-delays",
		Title:   "Average response delay per neighborhood",
		Columns: []string{"Neighborhood", "Avg_ResponseTime"},
		Rows: [][]any{
			{"South of Market", 7.5},
			{"Bayview Hunters Point", 5.25},
			{"Tenderloin", nil},
		},
		TotalRows:   3,
		GeneratedAt: time.Date(2018, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestNew_UnsupportedFormat(t *testing.T) {
	_, err := New("xml", 10)
	assert.ErrorContains(t, err, "xml")
}

func TestRender_Table(t *testing.T) {
	r, err := New(FormatTable, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, testResult()))
	out := buf.String()

	assert.Contains(t, out, "Average response delay per neighborhood")
	assert.Contains(t, out, "Avg_ResponseTime")
	assert.Contains(t, out, "South of Market")
	assert.Contains(t, out, "7.5")
	assert.Contains(t, out, "null")
	// длинные значения обрезаются
	assert.Contains(t, out, "Bayview Hunters P...")
	assert.NotContains(t, out, "only showing")
}

func TestRender_TableLimit(t *testing.T) {
	r, err := New(FormatTable, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, testResult()))
	out := buf.String()

	assert.Contains(t, out, "South of Market")
	assert.NotContains(t, out, "Tenderloin")
	assert.Contains(t, out, "only showing top 1 rows")
}

func TestRender_JSON(t *testing.T) {
	r, err := New(FormatJSON, 2)
	require.NoError(t, err)

	src := testResult()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, src))

	var got struct {
		Query     string  `json:"query"`
		Rows      [][]any `json:"rows"`
		TotalRows int     `json:"total_rows"`
		RunID     string  `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "neighborhood-delays", got.Query)
	assert.Len(t, got.Rows, 2)
	assert.Equal(t, 3, got.TotalRows)
	assert.Equal(t, src.RunID.String(), got.RunID)
	// исходный результат не изменяется
	assert.Len(t, src.Rows, 3)
}

func TestRender_YAML(t *testing.T) {
	r, err := New(FormatYAML, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, testResult()))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "neighborhood-delays", got["query"])
	rows, ok := got["rows"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 3)
	assert.Nil(t, rows[2].([]any)[1])
}

func TestRenderAll(t *testing.T) {
	r, err := New(FormatTable, 5)
	require.NoError(t, err)
	require.True(t, r.Streaming())

	second := testResult()
	second.Title = "Second result"

	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, []*models.Result{testResult(), second}))
	out := buf.String()

	first := bytes.Index(buf.Bytes(), []byte("Average response delay"))
	assert.GreaterOrEqual(t, first, 0)
	assert.Greater(t, bytes.Index(buf.Bytes(), []byte("Second result")), first)
	assert.NotEmpty(t, out)
}

func TestRenderAll_JSONArray(t *testing.T) {
	r, err := New(FormatJSON, 1)
	require.NoError(t, err)
	require.False(t, r.Streaming())

	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, []*models.Result{testResult(), testResult()}))

	var got []struct {
		Rows      [][]any `json:"rows"`
		TotalRows int     `json:"total_rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Len(t, got[1].Rows, 1)
	assert.Equal(t, 3, got[1].TotalRows)
}

func TestRenderAll_YAMLSequence(t *testing.T) {
	r, err := New(FormatYAML, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, []*models.Result{testResult()}))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "neighborhood-delays", got[0]["query"])
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "null", FormatCell(nil))
	assert.Equal(t, "42", FormatCell(42))
	assert.Equal(t, "3.2", FormatCell(3.2))
	assert.Equal(t, "10", FormatCell(10.0))
	assert.Equal(t, "true", FormatCell(true))
	assert.Equal(t, "2018-01-02", FormatCell(time.Date(2018, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2018-01-02 13:05:00", FormatCell(time.Date(2018, 1, 2, 13, 5, 0, 0, time.UTC)))
}
