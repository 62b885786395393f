package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/slate-api/internal/api"
	"github.com/phrazzld/slate-api/internal/api/shared"
	"github.com/phrazzld/slate-api/internal/config"
	"github.com/phrazzld/slate-api/internal/domain"
	"github.com/phrazzld/slate-api/internal/platform/database"
	"github.com/phrazzld/slate-api/internal/platform/logger"
	"github.com/phrazzld/slate-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, enrichmentCfg config.EnrichmentConfig) *config.Config {
	t.Helper()

	if enrichmentCfg.Provider == "" {
		enrichmentCfg.Provider = "proxy"
	}
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   3001,
			LogLevel:               "debug",
			ShutdownTimeoutSeconds: 1,
		},
		Database:   testutils.TestDBConfig(t),
		Enrichment: enrichmentCfg,
	}
}

// newTestAPI wires the full application against a fresh sqlite database.
func newTestAPI(t *testing.T, cfg *config.Config) (*httptest.Server, *sql.DB) {
	t.Helper()

	_, log := logger.SetupTestLogger(t)
	db := testutils.OpenTestDB(t)

	app, err := newApplication(context.Background(), cfg, log, db, database.DialectSQLite)
	require.NoError(t, err)

	return testutils.CreateTestServer(t, app.setupRouter()), db
}

// newUpstream starts a fake text-generation proxy.
func newUpstream(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return testutils.CreateTestServer(t, handler)
}

func createTask(t *testing.T, server *httptest.Server, description string) api.TaskResponse {
	t.Helper()

	resp := testutils.ExecuteJSONRequest(t, server, http.MethodPost, "/tasks",
		map[string]string{"description": description})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var task api.TaskResponse
	testutils.DecodeJSON(t, resp, &task)
	return task
}

func listTasks(t *testing.T, server *httptest.Server) []api.TaskResponse {
	t.Helper()

	resp := testutils.ExecuteRawRequest(t, server, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tasks []api.TaskResponse
	testutils.DecodeJSON(t, resp, &tasks)
	return tasks
}

func TestBuyMilkScenario(t *testing.T) {
	server, _ := newTestAPI(t, testConfig(t, config.EnrichmentConfig{}))

	task := createTask(t, server, "buy milk")
	assert.Equal(t, int64(1), task.ID)
	assert.Equal(t, "buy milk", task.Description)
	assert.Equal(t, 0, task.IsCompleted)

	tasks := listTasks(t, server)
	require.Len(t, tasks, 1)
	assert.Equal(t, task, tasks[0])

	resp := testutils.ExecuteRawRequest(t, server, http.MethodPut, "/tasks/1", `{"is_completed": 1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var msg api.MessageResponse
	testutils.DecodeJSON(t, resp, &msg)
	assert.Equal(t, "Task updated", msg.Message)

	tasks = listTasks(t, server)
	require.Len(t, tasks, 1)
	assert.Equal(t, 1, tasks[0].IsCompleted)
}

func TestListNewestFirst(t *testing.T) {
	server, _ := newTestAPI(t, testConfig(t, config.EnrichmentConfig{}))

	assert.Empty(t, listTasks(t, server))

	createTask(t, server, "first")
	createTask(t, server, "second")
	createTask(t, server, "third")

	tasks := listTasks(t, server)
	require.Len(t, tasks, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func TestCreateRejectsMissingDescription(t *testing.T) {
	server, db := newTestAPI(t, testConfig(t, config.EnrichmentConfig{}))
	createTask(t, server, "existing")

	for _, body := range []string{`{}`, `{"description": ""}`, ``} {
		resp := testutils.ExecuteRawRequest(t, server, http.MethodPost, "/tasks", body)
		testutils.AssertErrorResponse(t, resp, http.StatusBadRequest, "Description is required.")
	}

	assert.Equal(t, 1, testutils.CountTasks(t, db), "rejected requests leave the table unchanged")
}

func TestUpdateUnknownIDSucceedsWithoutChanges(t *testing.T) {
	server, db := newTestAPI(t, testConfig(t, config.EnrichmentConfig{}))
	createTask(t, server, "buy milk")

	for _, path := range []string{"/tasks/999", "/tasks/not-a-number"} {
		resp := testutils.ExecuteRawRequest(t, server, http.MethodPut, path, `{"is_completed": true}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, 1, testutils.CountTasks(t, db))
	assert.Equal(t, 0, listTasks(t, server)[0].IsCompleted)
}

func TestDeleteIsIdempotent(t *testing.T) {
	server, db := newTestAPI(t, testConfig(t, config.EnrichmentConfig{}))
	createTask(t, server, "keep")
	drop := createTask(t, server, "drop")

	for i := 0; i < 2; i++ {
		resp := testutils.ExecuteRawRequest(t, server, http.MethodDelete, "/tasks/2", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var msg api.MessageResponse
		testutils.DecodeJSON(t, resp, &msg)
		assert.Equal(t, "Task deleted", msg.Message)
		assert.Equal(t, 1, testutils.CountTasks(t, db))
	}

	tasks := listTasks(t, server)
	require.Len(t, tasks, 1)
	assert.NotEqual(t, drop.ID, tasks[0].ID)

	next := createTask(t, server, "after delete")
	assert.Greater(t, next.ID, drop.ID, "ids are never reused")
}

func TestEnrichmentSuccessIsNormalized(t *testing.T) {
	var prompts []string
	upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			prompts = append(prompts, req.Prompt)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "  SELECT *\r\nFROM users\nWHERE active = 1;\n"}`))
	})
	server, _ := newTestAPI(t, testConfig(t, config.EnrichmentConfig{Enabled: true, Endpoint: upstream.URL}))

	task := createTask(t, server, "list active users")

	require.NotNil(t, task.GeneratedSQL)
	assert.Equal(t, "SELECT * FROM users WHERE active = 1;", *task.GeneratedSQL)
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "list active users")

	stored := listTasks(t, server)[0]
	require.NotNil(t, stored.GeneratedSQL)
	assert.Equal(t, *task.GeneratedSQL, *stored.GeneratedSQL)
}

func TestEnrichmentUpstreamErrorStoresSentinel(t *testing.T) {
	upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusInternalServerError)
	})
	server, db := newTestAPI(t, testConfig(t, config.EnrichmentConfig{Enabled: true, Endpoint: upstream.URL}))

	task := createTask(t, server, "list all users")

	require.NotNil(t, task.GeneratedSQL)
	assert.Equal(t, domain.AnnotationUnavailable, *task.GeneratedSQL)
	assert.Equal(t, 1, testutils.CountTasks(t, db))
}

func TestEnrichmentTimeoutStoresSentinel(t *testing.T) {
	release := make(chan struct{})
	upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	server, _ := newTestAPI(t, testConfig(t, config.EnrichmentConfig{
		Enabled:        true,
		Endpoint:       upstream.URL,
		TimeoutSeconds: 1,
	}))

	start := time.Now()
	task := createTask(t, server, "list all users")

	require.NotNil(t, task.GeneratedSQL)
	assert.Equal(t, domain.AnnotationUnavailable, *task.GeneratedSQL)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestEnrichmentEnabledWithoutEndpoint(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.EnrichmentConfig
	}{
		{"proxy", config.EnrichmentConfig{Enabled: true, Provider: "proxy"}},
		{"gemini with api key", config.EnrichmentConfig{
			Enabled:  true,
			Provider: "gemini",
			APIKey:   "test-key",
			Model:    "gemini-2.0-flash",
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server, db := newTestAPI(t, testConfig(t, tc.cfg))

			resp := testutils.ExecuteJSONRequest(t, server, http.MethodPost, "/tasks",
				map[string]string{"description": "buy milk"})

			testutils.AssertErrorResponse(t, resp, http.StatusInternalServerError, "no text-generation endpoint")
			assert.Equal(t, 0, testutils.CountTasks(t, db))
		})
	}
}

func TestEnrichmentDisabledSkipsUpstream(t *testing.T) {
	var calls atomic.Int32
	upstream := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"text": "SELECT 1;"}`))
	})
	server, _ := newTestAPI(t, testConfig(t, config.EnrichmentConfig{Endpoint: upstream.URL}))

	task := createTask(t, server, "buy milk")

	assert.Nil(t, task.GeneratedSQL)
	assert.Equal(t, int32(0), calls.Load())
}

func TestStorageFailureReturnsRawMessage(t *testing.T) {
	server, db := newTestAPI(t, testConfig(t, config.EnrichmentConfig{}))
	_, err := db.Exec("DROP TABLE tasks")
	require.NoError(t, err)

	resp := testutils.ExecuteRawRequest(t, server, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body shared.ErrorResponse
	testutils.DecodeJSON(t, resp, &body)
	assert.Contains(t, body.Error, "no such table: tasks")
	assert.NotContains(t, body.Error, "task service")
	assert.NotContains(t, body.Error, "operation on task failed")
}

func TestHealthCheck(t *testing.T) {
	server, _ := newTestAPI(t, testConfig(t, config.EnrichmentConfig{}))

	resp := testutils.ExecuteRawRequest(t, server, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

func TestCORSAndTraceHeaders(t *testing.T) {
	server, _ := newTestAPI(t, testConfig(t, config.EnrichmentConfig{}))

	req, err := http.NewRequest(http.MethodGet, server.URL+"/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get(shared.TraceIDHeader))

	t.Run("preflight", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, server.URL+"/tasks/1", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
		resp, err := server.Client().Do(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Less(t, resp.StatusCode, 300)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodDelete)
	})
}

func TestErrorBodiesCarryTraceID(t *testing.T) {
	server, _ := newTestAPI(t, testConfig(t, config.EnrichmentConfig{}))

	resp := testutils.ExecuteRawRequest(t, server, http.MethodPost, "/tasks", `{}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body shared.ErrorResponse
	testutils.DecodeJSON(t, resp, &body)
	assert.Equal(t, resp.Header.Get(shared.TraceIDHeader), body.TraceID)
}

func TestBuyMilkScenarioPostgres(t *testing.T) {
	db := testutils.OpenPostgresTestDB(t)
	_, log := logger.SetupTestLogger(t)

	app, err := newApplication(context.Background(), testConfig(t, config.EnrichmentConfig{}), log, db, database.DialectPostgres)
	require.NoError(t, err)
	server := testutils.CreateTestServer(t, app.setupRouter())

	task := createTask(t, server, "buy milk")
	assert.Equal(t, int64(1), task.ID)
	assert.Equal(t, 0, task.IsCompleted)

	resp := testutils.ExecuteRawRequest(t, server, http.MethodPut, "/tasks/1", `{"is_completed": "true"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, listTasks(t, server)[0].IsCompleted)

	resp = testutils.ExecuteRawRequest(t, server, http.MethodPost, "/tasks", `{"description": ""}`)
	testutils.AssertErrorResponse(t, resp, http.StatusBadRequest, "Description is required.")

	for i := 0; i < 2; i++ {
		resp = testutils.ExecuteRawRequest(t, server, http.MethodDelete, "/tasks/1", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, 0, testutils.CountTasks(t, db))
}
