package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/fire_calls_analysis/internal/config"
	"github.com/shenikar/fire_calls_analysis/internal/models"
	"github.com/shenikar/fire_calls_analysis/internal/query"
	"github.com/shenikar/fire_calls_analysis/internal/service"
	"github.com/shenikar/fire_calls_analysis/internal/service/mocks"
	"github.com/shenikar/fire_calls_analysis/internal/table"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var apiKeyHeader = map[string]string{"X-API-Key": "test-api-key"}

// newTestHandler создает новый экземпляр Handler с мокированным сервисом
func newTestHandler(t *testing.T) (*Handler, *mocks.MockAnalysisService, *gin.Engine) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockAnalysisService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys:        []string{"test-api-key"},
		FilterYear:     2018,
		DelayThreshold: 5,
		ZipCodes:       []int{94102, 94103},
	}

	handler := NewHandler(mockService, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, mockService, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func testResult(name string) *models.Result {
	return &models.Result{
		RunID:       uuid.New(),
		Query:       name,
		Title:       "Most common call types",
		Columns:     []string{"CallType", "count"},
		Rows:        [][]any{{"Medical Incident", 2}, {"Structure Fire", 1}, {"Alarms", 1}},
		TotalRows:   3,
		GeneratedAt: time.Now().UTC(),
	}
}

func TestListQueries_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().Queries().Return([]models.QueryInfo{
		{Name: "preview", Title: "Renamed incident table"},
		{Name: "call-types", Title: "Distinct call types"},
	}).Times(1)

	w := makeRequest(router, http.MethodGet, "/api/v1/queries", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []QueryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "call-types", resp[1].Name)
}

func TestListQueries_Unauthorized(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	mockService.EXPECT().Queries().Times(0)

	w := makeRequest(router, http.MethodGet, "/api/v1/queries", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = makeRequest(router, http.MethodGet, "/api/v1/queries", nil, map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListQueries_BearerToken(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	mockService.EXPECT().Queries().Return(nil).Times(1)

	w := makeRequest(router, http.MethodGet, "/api/v1/queries", nil, map[string]string{"Authorization": "Bearer test-api-key"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRunQuery_DefaultParams(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	expected := testResult("common-call-types")

	mockService.EXPECT().
		Run(gomock.Any(), "common-call-types", query.Params{Year: 2018, DelayThreshold: 5, ZipCodes: []int{94102, 94103}}).
		Return(expected, nil).
		Times(1)

	w := makeRequest(router, http.MethodGet, "/api/v1/queries/common-call-types", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp ResultResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, expected.RunID, resp.RunID)
	assert.Equal(t, []string{"CallType", "count"}, resp.Columns)
	assert.Len(t, resp.Rows, 3)
	assert.False(t, resp.Truncated)
}

func TestRunQuery_ParamsFromQueryString(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().
		Run(gomock.Any(), "zip-neighborhoods", query.Params{Year: 2016, DelayThreshold: 2.5, ZipCodes: []int{94110, 94112}}).
		Return(testResult("zip-neighborhoods"), nil).
		Times(1)

	url := "/api/v1/queries/zip-neighborhoods?year=2016&threshold=2.5&zip=94110&zip=94112&limit=1"
	w := makeRequest(router, http.MethodGet, url, nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp ResultResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Rows, 1)
	assert.Equal(t, 3, resp.TotalRows)
	assert.True(t, resp.Truncated)
}

func TestRunQuery_InvalidParams(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	mockService.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	for _, url := range []string{
		"/api/v1/queries/call-types?year=abc",
		"/api/v1/queries/call-types?year=1200",
		"/api/v1/queries/call-types?threshold=-1",
		"/api/v1/queries/call-types?zip=0",
		"/api/v1/queries/call-types?limit=-5",
	} {
		w := makeRequest(router, http.MethodGet, url, nil, apiKeyHeader)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
	}
}

func TestRunQuery_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unknown", fmt.Errorf("service: %w: nope", service.ErrUnknownQuery), http.StatusNotFound},
		{"invalid params", fmt.Errorf("service: %w: year", service.ErrInvalidParams), http.StatusBadRequest},
		{"not prepared", fmt.Errorf("service: %w", service.ErrNotPrepared), http.StatusServiceUnavailable},
		{"missing column", fmt.Errorf("service: query failed: %w", &table.ColumnError{Column: "CallType", Err: table.ErrMissingColumn}), http.StatusBadRequest},
		{"column type", fmt.Errorf("service: query failed: %w", &table.ColumnError{Column: "Delay", Err: table.ErrColumnType}), http.StatusBadRequest},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, mockService, router := newTestHandler(t)
			mockService.EXPECT().Run(gomock.Any(), "call-types", gomock.Any()).Return(nil, tc.err).Times(1)

			w := makeRequest(router, http.MethodGet, "/api/v1/queries/call-types", nil, apiKeyHeader)

			assert.Equal(t, tc.code, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHealthCheck_NoKey(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRegisterRoutes_NoKeysConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockAnalysisService(ctrl)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	handler := NewHandler(mockService, logger, &config.Config{FilterYear: 2018, ZipCodes: []int{94102}})
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))

	mockService.EXPECT().Queries().Return(nil).Times(1)
	w := makeRequest(router, http.MethodGet, "/api/v1/queries", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
