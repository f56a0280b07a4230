package main

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
)

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	FileURL string          `json:"fileUrl"`
	Errors  []string        `json:"errors"`
}

func request(t *testing.T, srv *httptest.Server, method, path, body string) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	return resp.StatusCode, env
}

func decodeTask(t *testing.T, env envelope) domain.Task {
	t.Helper()
	var task domain.Task
	require.NoError(t, json.Unmarshal(env.Data, &task))
	return task
}

func TestRouter_TaskLifecycle(t *testing.T) {
	for _, mode := range []string{"merge", "reset"} {
		t.Run(mode, func(t *testing.T) {
			cfg := testConfig()
			cfg.Store.UpdateMode = mode
			app, _ := newTestApp(t, cfg)
			srv := httptest.NewServer(app.setupRouter())
			defer srv.Close()

			status, env := request(t, srv, http.MethodGet, "/tasks", "")
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, "No tasks found", env.Message)
			assert.JSONEq(t, `[]`, string(env.Data))

			status, env = request(t, srv, http.MethodPost, "/tasks", `{"title":"Buy milk","description":"2%"}`)
			require.Equal(t, http.StatusCreated, status)
			assert.Equal(t, "Task created successfully", env.Message)
			created := decodeTask(t, env)
			assert.NotEmpty(t, created.ID)
			assert.Equal(t, "Buy milk", created.Title)
			assert.Equal(t, domain.TaskStatusPending, created.Status)
			assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

			status, env = request(t, srv, http.MethodGet, "/tasks/"+created.ID, "")
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, created.ID, decodeTask(t, env).ID)

			time.Sleep(2 * time.Millisecond)
			status, env = request(t, srv, http.MethodPut, "/tasks/"+created.ID, `{"status":"completed"}`)
			require.Equal(t, http.StatusOK, status)
			updated := decodeTask(t, env)
			assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
			assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
			if mode == "reset" {
				assert.Equal(t, domain.DefaultTitle, updated.Title)
				assert.Equal(t, domain.DefaultDescription, updated.Description)
			} else {
				assert.Equal(t, "Buy milk", updated.Title)
				assert.Equal(t, "2%", updated.Description)
			}

			status, env = request(t, srv, http.MethodGet, "/tasks", "")
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, "Tasks fetched successfully", env.Message)

			status, env = request(t, srv, http.MethodDelete, "/tasks/"+created.ID, "")
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, "Task with id: "+created.ID+" deleted successfully", env.Message)

			status, env = request(t, srv, http.MethodGet, "/tasks/"+created.ID, "")
			assert.Equal(t, http.StatusNotFound, status)
			assert.Equal(t, "Task not found for id: "+created.ID, env.Message)

			status, _ = request(t, srv, http.MethodDelete, "/tasks/"+created.ID, "")
			assert.Equal(t, http.StatusNotFound, status)
		})
	}
}

func TestRouter_Validation(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	status, env := request(t, srv, http.MethodPost, "/tasks", `{"description":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Equal(t, []string{"title: is required"}, env.Errors)

	status, _ = request(t, srv, http.MethodPut, "/tasks/missing", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRouter_Upload(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := srv.Client().Post(srv.URL+"/tasks/upload", mw.FormDataContentType(), body)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "File uploaded successfully", env.Message)
	assert.True(t, strings.HasPrefix(env.FileURL, "memory://blobs/uploads/"), env.FileURL)
	assert.True(t, strings.HasSuffix(env.FileURL, "-notes.txt"), env.FileURL)

	status, env := request(t, srv, http.MethodPost, "/tasks/upload", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No file uploaded", env.Message)
}

func TestRouter_HealthAndFallbacks(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	srv := httptest.NewServer(app.setupRouter())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(raw))
	assert.Len(t, resp.Header.Get(shared.TraceIDHeader), 32)

	status, env := request(t, srv, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Page Not Found", env.Message)

	status, env = request(t, srv, http.MethodPatch, "/tasks", "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "Method Not Allowed", env.Message)
}
