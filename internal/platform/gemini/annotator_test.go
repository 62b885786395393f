package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/phrazzld/slate-api/internal/enrichment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestAnnotator(t *testing.T, status int, body string) (*Annotator, *int32) {
	t.Helper()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "gemini-test:generateContent"), "unexpected path %s", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	a, err := New(context.Background(), Config{
		Endpoint:   server.URL,
		APIKey:     "test-key",
		Model:      "gemini-test",
		HTTPClient: server.Client(),
	}, nil)
	require.NoError(t, err)
	return a, &calls
}

func TestAnnotateSuccess(t *testing.T) {
	a, calls := newTestAnnotator(t, http.StatusOK, `{
		"candidates": [{
			"content": {"role": "model", "parts": [{"text": "SELECT *\n"}, {"text": "FROM users;"}]},
			"finishReason": "STOP"
		}]
	}`)

	text, err := a.Annotate(context.Background(), "list users")

	require.NoError(t, err)
	assert.Equal(t, "SELECT *\nFROM users;", text)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestAnnotateUpstreamError(t *testing.T) {
	a, calls := newTestAnnotator(t, http.StatusInternalServerError, `{"error":{"code":500,"message":"boom"}}`)

	_, err := a.Annotate(context.Background(), "list users")

	require.Error(t, err)
	assert.ErrorIs(t, err, enrichment.ErrAnnotationFailed)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls), "no retries")
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr error
	}{
		{
			name:    "nil response",
			resp:    nil,
			wantErr: enrichment.ErrInvalidResponse,
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: enrichment.ErrInvalidResponse,
		},
		{
			name: "prompt blocked",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
			wantErr: enrichment.ErrContentBlocked,
		},
		{
			name: "safety finish",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonSafety,
			}}},
			wantErr: enrichment.ErrContentBlocked,
		},
		{
			name: "empty parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{Text: ""}}},
			}}},
			wantErr: enrichment.ErrEmptyAnnotation,
		},
		{
			name: "thought parts skipped",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{
					{Text: "thinking about it", Thought: true},
					{Text: "N/A"},
				}},
			}}},
			want: "N/A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractText(tt.resp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(context.Background(), Config{Model: "gemini-test"}, nil)
	assert.ErrorIs(t, err, enrichment.ErrInvalidConfig)

	_, err = New(context.Background(), Config{APIKey: "k"}, nil)
	assert.ErrorIs(t, err, enrichment.ErrInvalidConfig)
}
