package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nodular/application/ports"
	"nodular/application/projections"
	"nodular/domain/core/aggregates"
	"nodular/infrastructure/di"
	"nodular/infrastructure/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()
	board := aggregates.NewBoard("test", nil)
	store := memory.NewBoardStore(board)
	options := ports.StaticRenderOptions{Options: projections.DefaultRenderOptions()}

	commandBus, err := di.ProvideCommandBus(store, logger)
	require.NoError(t, err)
	queryBus, err := di.ProvideQueryBus(store, options, logger)
	require.NoError(t, err)

	server := httptest.NewServer(NewRouter(commandBus, queryBus, logger).Setup())
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body map[string]interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func createBubble(t *testing.T, server *httptest.Server, body map[string]interface{}) string {
	t.Helper()
	resp := postJSON(t, server.URL+"/api/v1/bubbles", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := decodeData(t, resp)
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestHealthEndpoints(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{"/health", "/ready"} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestBubbleLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t)

	promptID := createBubble(t, server, map[string]interface{}{
		"kind": "prompt", "x": 0, "y": 0, "text": "hello",
	})
	responseID := createBubble(t, server, map[string]interface{}{
		"kind": "response", "x": 0, "y": 300, "text": "hi", "author": "ai",
	})

	// Connect prompt to response
	resp := postJSON(t, server.URL+"/api/v1/connections", map[string]interface{}{
		"sourceId": promptID, "targetId": responseID,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Graph shows 2 nodes, 1 edge
	graphResp, err := http.Get(server.URL + "/api/v1/graph")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, graphResp.StatusCode)
	data := decodeData(t, graphResp)
	stats := data["stats"].(map[string]interface{})
	assert.Equal(t, float64(2), stats["nodes"])
	assert.Equal(t, float64(1), stats["edges"])

	// Delete the response; the edge goes with it
	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/bubbles/"+responseID, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	require.Equal(t, http.StatusOK, delResp.StatusCode)

	graphResp, err = http.Get(server.URL + "/api/v1/graph")
	require.NoError(t, err)
	data = decodeData(t, graphResp)
	stats = data["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["nodes"])
	assert.Equal(t, float64(0), stats["edges"])
}

func TestIllegalConnectionOverHTTP(t *testing.T) {
	server := newTestServer(t)

	prompt1 := createBubble(t, server, map[string]interface{}{
		"kind": "prompt", "x": 0, "y": 0, "text": "one",
	})
	prompt2 := createBubble(t, server, map[string]interface{}{
		"kind": "prompt", "x": 0, "y": 300, "text": "two",
	})

	resp := postJSON(t, server.URL+"/api/v1/connections", map[string]interface{}{
		"sourceId": prompt1, "targetId": prompt2,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// The check endpoint reports the same verdict without an error
	checkResp := postJSON(t, server.URL+"/api/v1/connections/check", map[string]interface{}{
		"sourceId": prompt1, "targetId": prompt2,
	})
	require.Equal(t, http.StatusOK, checkResp.StatusCode)
	data := decodeData(t, checkResp)
	assert.Equal(t, false, data["legal"])
	assert.NotEmpty(t, data["reason"])
}

func TestFileDisconnectConfirmationOverHTTP(t *testing.T) {
	server := newTestServer(t)

	promptID := createBubble(t, server, map[string]interface{}{
		"kind": "prompt", "x": 0, "y": 0, "text": "hello",
	})
	fileID := createBubble(t, server, map[string]interface{}{
		"kind": "file", "x": -200, "y": 0,
		"fileName": "notes.txt", "mimeType": "text/plain", "contentUrl": "blob:notes",
	})

	resp := postJSON(t, server.URL+"/api/v1/connections", map[string]interface{}{
		"sourceId": fileID, "targetId": promptID,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Unconfirmed removal of an attachment edge is refused
	payload, _ := json.Marshal(map[string]interface{}{
		"sourceId": fileID, "targetId": promptID,
	})
	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/connections", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusPreconditionRequired, delResp.StatusCode)

	// Confirmed removal goes through
	payload, _ = json.Marshal(map[string]interface{}{
		"sourceId": fileID, "targetId": promptID, "confirmed": true,
	})
	req, err = http.NewRequest(http.MethodDelete, server.URL+"/api/v1/connections", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	delResp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusOK, delResp.StatusCode)
}

func TestToggleCollapseOverHTTP(t *testing.T) {
	server := newTestServer(t)

	promptID := createBubble(t, server, map[string]interface{}{
		"kind": "prompt", "x": 0, "y": 0, "text": "hello",
	})

	resp := postJSON(t, server.URL+"/api/v1/bubbles/"+promptID+"/collapse", map[string]interface{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)
	assert.Equal(t, true, data["collapsed"])
}
