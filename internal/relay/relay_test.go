package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fotocoach/coachd/internal/models"
)

// collectSink records fragments; onText runs after each one is recorded.
type collectSink struct {
	texts  []string
	done   bool
	onText func() error
}

func (s *collectSink) Text(text string) error {
	s.texts = append(s.texts, text)
	if s.onText != nil {
		return s.onText()
	}
	return nil
}

func (s *collectSink) Done() error {
	s.done = true
	return nil
}

func chunkJSON(t *testing.T, content string) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion.chunk",
		"choices": []map[string]any{{"index": 0, "delta": map[string]any{"content": content}}},
	})
	require.NoError(t, err)
	return raw
}

func newTestRelay(upstreamURL string) *Relay {
	return New("test-key", upstreamURL+"/v1", "gpt-4o", 256, time.Minute, nil, zap.NewNop())
}

func userMessages() []models.ChatMessage {
	return []models.ChatMessage{{Role: "user", Content: "I'm stuck"}}
}

func TestStreamPumpsFragmentsThenDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: %s\n\n", chunkJSON(t, "What"))
		fmt.Fprintf(w, "data: %s\n\n", chunkJSON(t, " kind of stuck?"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	sink := &collectSink{}
	err := newTestRelay(srv.URL).Stream(context.Background(), userMessages(), models.ModeStandard, "en", sink)
	require.NoError(t, err)
	assert.Equal(t, []string{"What", " kind of stuck?"}, sink.texts)
	assert.True(t, sink.done)
}

// blockingUpstream emits one fragment, then holds the connection open until
// the client goes away. The returned channel closes when the upstream sees
// its request context canceled.
func blockingUpstream(t *testing.T) (*httptest.Server, chan struct{}) {
	t.Helper()
	released := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: %s\n\n", chunkJSON(t, "first"))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
			close(released)
		case <-time.After(10 * time.Second):
		}
	}))
	return srv, released
}

func TestStreamReleasesUpstreamWhenSinkCloses(t *testing.T) {
	srv, released := blockingUpstream(t)
	defer srv.Close()

	sinkErr := errors.New("downstream went away")
	sink := &collectSink{onText: func() error { return sinkErr }}

	err := newTestRelay(srv.URL).Stream(context.Background(), userMessages(), models.ModeStandard, "en", sink)
	require.ErrorIs(t, err, sinkErr)
	assert.False(t, sink.done)

	// The upstream pull must stop: the provider connection is dropped.
	select {
	case <-released:
	case <-time.After(5 * time.Second):
		t.Fatal("upstream connection was not released after sink failure")
	}
}

func TestStreamHonorsContextCancellation(t *testing.T) {
	srv, released := blockingUpstream(t)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sink := &collectSink{onText: func() error {
		cancel()
		return nil
	}}

	err := newTestRelay(srv.URL).Stream(ctx, userMessages(), models.ModeStandard, "en", sink)
	var relayErr *Error
	require.ErrorAs(t, err, &relayErr)
	assert.Equal(t, models.ErrorUnknown, relayErr.Type)
	assert.Equal(t, []string{"first"}, sink.texts)

	select {
	case <-released:
	case <-time.After(5 * time.Second):
		t.Fatal("upstream connection was not released after cancellation")
	}
}
