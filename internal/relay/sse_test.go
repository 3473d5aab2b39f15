package relay

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fotocoach/coachd/internal/models"
)

func TestSSEWriterStreamFormat(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewSSEWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.Text("Hello"))
	require.NoError(t, w.Text(" world"))
	require.NoError(t, w.Done())

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t,
		"data: {\"text\":\"Hello\"}\n\ndata: {\"text\":\" world\"}\n\ndata: [DONE]\n\n",
		rec.Body.String())
	assert.True(t, rec.Flushed)
}

func TestSSEWriterErrorFrame(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewSSEWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.Text("partial"))
	require.NoError(t, w.Error(models.ErrorOverloaded, "the service is overloaded"))

	assert.Contains(t, rec.Body.String(),
		"data: {\"error\":\"the service is overloaded\",\"errorType\":\"overloaded\"}\n\n")
	assert.NotContains(t, rec.Body.String(), doneSentinel)
}

func TestSSEWriterWroteFlag(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewSSEWriter(rec)
	require.NoError(t, err)

	assert.False(t, w.Wrote())
	assert.Empty(t, rec.Header().Get("Content-Type"))

	require.NoError(t, w.Text("x"))
	assert.True(t, w.Wrote())
}

func TestSSEWriterRoundTripsThroughFramer(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewSSEWriter(rec)
	require.NoError(t, err)
	require.NoError(t, w.Text("What"))
	require.NoError(t, w.Text(" kind of stuck?"))
	require.NoError(t, w.Done())

	var f Framer
	events := f.Feed(rec.Body.Bytes())
	require.Len(t, events, 3)
	assert.Equal(t, "What", events[0].Text)
	assert.Equal(t, " kind of stuck?", events[1].Text)
	assert.True(t, events[2].Done)
}
