package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivi-ia/vivi/internal/chat"
	"github.com/vivi-ia/vivi/internal/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig().Backend
	cfg.BaseURL = srv.URL + "/"
	return New(cfg)
}

func TestSearchSendsQuestion(t *testing.T) {
	var gotBody map[string]string
	var gotMethod, gotPath, gotType, gotRequestID string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		_, _ = w.Write([]byte(`{"success": true, "resposta": "SIAPE is a payroll system.", "pergunta": "What is SIAPE?"}`))
	})

	resp := c.Search(context.Background(), "What is SIAPE?")

	assert.Equal(t, chat.SearchResponse{Success: true, Answer: "SIAPE is a payroll system."}, resp)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/buscar", gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, map[string]string{"pergunta": "What is SIAPE?"}, gotBody)
	assert.NotEmpty(t, gotRequestID)
}

func TestSearchResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   chat.SearchResponse
	}{
		{
			name:   "backend reported error",
			status: http.StatusOK,
			body:   `{"success": false, "error": "Agente indisponível"}`,
			want:   chat.SearchResponse{Error: "Agente indisponível"},
		},
		{
			name:   "failure without message",
			status: http.StatusOK,
			body:   `{"success": false}`,
			want:   chat.SearchResponse{},
		},
		{
			name:   "http exception detail",
			status: http.StatusInternalServerError,
			body:   `{"detail": "Erro interno: timeout"}`,
			want:   chat.SearchResponse{Error: "Erro interno: timeout"},
		},
		{
			name:   "validation detail",
			status: http.StatusUnprocessableEntity,
			body:   `{"detail": [{"loc": ["body", "pergunta"], "msg": "field required"}]}`,
			want:   chat.SearchResponse{Error: "field required"},
		},
		{
			name:   "html error page",
			status: http.StatusBadGateway,
			body:   `<html><body>Bad Gateway</body></html>`,
			want:   chat.SearchResponse{Error: chat.MsgConnectionError},
		},
		{
			name:   "empty answer",
			status: http.StatusOK,
			body:   `{"success": true, "resposta": ""}`,
			want:   chat.SearchResponse{Success: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			assert.Equal(t, tt.want, c.Search(context.Background(), "q"))
		})
	}
}

func TestSearchTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	cfg := config.DefaultConfig().Backend
	cfg.BaseURL = srv.URL
	srv.Close()

	resp := New(cfg).Search(context.Background(), "q")

	assert.Equal(t, chat.SearchResponse{Error: chat.MsgConnectionError}, resp)
}

func TestSearchCanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "resposta": "late"}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, chat.MsgConnectionError, c.Search(ctx, "q").Error)
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status": "healthy", "message": "Agente RAG funcionando normalmente", "agent_type": "AgenteBuscaGemini"}`))
	})

	status, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, HealthStatus{
		Status:    "healthy",
		Message:   "Agente RAG funcionando normalmente",
		AgentType: "AgenteBuscaGemini",
	}, status)
}

func TestHealthFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "Agente RAG não pôde ser inicializado"}`))
	})

	_, err := c.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "Agente RAG não pôde ser inicializado")
}
