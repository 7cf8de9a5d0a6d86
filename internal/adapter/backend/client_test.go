package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"study-buddy/internal/config"
	"study-buddy/internal/domain"
	"study-buddy/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.BackendConfig{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_ListDocuments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/documents/", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.True(t, util.IsULID(r.Header.Get("X-Request-ID")))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 2, "filename": "b.pdf", "owner_id": 1},
			{"id": 1, "filename": "a.pdf", "owner_id": 1},
		})
	})

	docs, err := c.ListDocuments(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, []domain.Document{{ID: 2, Filename: "b.pdf"}, {ID: 1, Filename: "a.pdf"}}, docs)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode domain.ErrorCode
		wantMsg  string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`, domain.CodeUnauthorized, "Could not validate credentials"},
		{"detail string", http.StatusBadRequest, `{"detail":"Unsupported file type"}`, domain.CodeBackend, "Unsupported file type"},
		{"detail list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body"],"msg":"field required"}]}`, domain.CodeBackend, "field required"},
		{"message body", http.StatusInternalServerError, `{"message":"boom"}`, domain.CodeBackend, "boom"},
		{"no body", http.StatusBadGateway, ``, domain.CodeBackend, "Request failed with status 502."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := c.QuizHistory(context.Background(), "tok", 1)
			require.Error(t, err)
			assert.Equal(t, tc.wantCode, domain.CodeOf(err))
			assert.Equal(t, tc.wantMsg, domain.UserMessage(err))
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(config.BackendConfig{BaseURL: url, Timeout: time.Second})
	_, err := c.ListDocuments(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, domain.CodeTransport, domain.CodeOf(err))
	assert.Equal(t, domain.TransportFailureMessage, domain.UserMessage(err))
}

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.True(t, util.IsULID(r.Header.Get("X-Request-ID")))
		if r.PostForm.Get("username") != "ada@example.com" || r.PostForm.Get("password") != "Secret1!" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "jwt-token", "token_type": "bearer"})
	})

	token, err := c.Login(context.Background(), "ada@example.com", "Secret1!")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)

	_, err = c.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.False(t, domain.IsUnauthorized(err), "a failed login must not look like an expired session")
	assert.Equal(t, "Incorrect email or password", domain.UserMessage(err))
}

func TestClient_RegisterEmailTaken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register/", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ada", body["name"])
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
	})

	_, err := c.Register(context.Background(), "Ada", "ada@example.com", "Secret1!")
	assert.Equal(t, "Email already registered", domain.UserMessage(err))
}

func TestClient_Upload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/upload", r.URL.Path)
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "notes.txt", header.Filename)
		assert.Equal(t, "hello", string(content))
		writeJSON(w, http.StatusOK, map[string]any{"id": 9, "filename": header.Filename})
	})

	doc, err := c.UploadDocument(context.Background(), "tok", domain.Upload{
		Filename: "notes.txt",
		Open:     func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader("hello")), nil },
	})
	require.NoError(t, err)
	assert.Equal(t, &domain.Document{ID: 9, Filename: "notes.txt"}, doc)
}

func TestClient_AskSendsHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ask", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "What is ATP?", body["question"])
		assert.Equal(t, []any{float64(3)}, body["document_ids"])
		assert.Len(t, body["chat_history"], 2)
		writeJSON(w, http.StatusOK, map[string]string{"answer": "Energy currency."})
	})

	answer, err := c.Ask(context.Background(), "tok", 3, "What is ATP?", []domain.ChatMessage{
		{Role: domain.RoleHuman, Content: "hi"},
		{Role: domain.RoleAI, Content: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Energy currency.", answer)
}

func TestClient_DeleteMultipleBodies(t *testing.T) {
	var paths []string
	var bodies []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		paths = append(paths, r.Method+" "+r.URL.Path)
		bodies = append(bodies, string(data))
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	require.NoError(t, c.DeleteQuizAttempts(ctx, "tok", []int64{1, 2}))
	require.NoError(t, c.DeleteFlashcardSets(ctx, "tok", []int64{3}))
	require.NoError(t, c.DeleteAllFlashcardSets(ctx, "tok", 5))

	assert.Equal(t, []string{
		"POST /quiz-attempts/delete-multiple",
		"POST /flashcards/delete-multiple",
		"DELETE /flashcards/document/5/all",
	}, paths)
	assert.JSONEq(t, `{"attempt_ids":[1,2]}`, bodies[0])
	assert.JSONEq(t, `{"item_ids":[3]}`, bodies[1])
}

func TestClient_ProgressReport(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/4/progress-report", r.URL.Path)
		_, _ = io.WriteString(w, `{"total_quizzes_taken":2,"average_score":75.0,"highest_score":100.0,
			"scores_over_time":[{"timestamp":"2025-01-01T10:00:00","score":50.0},{"timestamp":"2025-01-02T10:00:00","score":100.0}]}`)
	})

	report, err := c.ProgressReport(context.Background(), "tok", 4)
	require.NoError(t, err)
	assert.True(t, report.HasData())
	assert.Equal(t, 75.0, report.AverageScore)
	assert.Len(t, report.ScoresOverTime, 2)
}
