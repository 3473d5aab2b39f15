package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fotocoach/coachd/internal/models"
)

func TestFramerDecodesFrames(t *testing.T) {
	var f Framer
	events := f.Feed([]byte("data: {\"text\":\"Hello\"}\n\ndata: {\"text\":\" there\"}\n\ndata: [DONE]\n\n"))
	require.Len(t, events, 3)
	assert.Equal(t, "Hello", events[0].Text)
	assert.Equal(t, " there", events[1].Text)
	assert.True(t, events[2].Done)
}

func TestFramerBuffersSplitFrames(t *testing.T) {
	var f Framer

	// A frame split mid-JSON must not be emitted until complete.
	events := f.Feed([]byte("data: {\"text\":\"Wh"))
	assert.Empty(t, events)

	events = f.Feed([]byte("at\"}\n\ndata: {\"text\":\" kind"))
	require.Len(t, events, 1)
	assert.Equal(t, "What", events[0].Text)

	events = f.Feed([]byte(" of stuck?\"}\n\ndata: [DONE]\n\n"))
	require.Len(t, events, 2)
	assert.Equal(t, " kind of stuck?", events[0].Text)
	assert.True(t, events[1].Done)
}

func TestFramerPreservesOrder(t *testing.T) {
	var f Framer
	var got string
	for _, chunk := range []string{
		"data: {\"te", "xt\":\"a\"}\n", "\ndata: {\"text\":\"b\"}\n\nda", "ta: {\"text\":\"c\"}\n\n",
	} {
		for _, ev := range f.Feed([]byte(chunk)) {
			got += ev.Text
		}
	}
	assert.Equal(t, "abc", got)
}

func TestFramerDecodesErrorFrame(t *testing.T) {
	var f Framer
	events := f.Feed([]byte("data: {\"error\":\"Too many requests\",\"errorType\":\"rate_limit\"}\n\n"))
	require.Len(t, events, 1)
	assert.Equal(t, models.ErrorRateLimit, events[0].ErrType)
	assert.Equal(t, "Too many requests", events[0].ErrMessage)
	assert.False(t, events[0].Done)
}

func TestFramerSkipsNoise(t *testing.T) {
	var f Framer
	events := f.Feed([]byte(": comment\nretry: 3000\ndata: not json at all\n\ndata: {\"text\":\"ok\"}\n\n"))
	require.Len(t, events, 1)
	assert.Equal(t, "ok", events[0].Text)
}

func TestFramerHandlesCRLF(t *testing.T) {
	var f Framer
	events := f.Feed([]byte("data: {\"text\":\"hi\"}\r\n\r\ndata: [DONE]\r\n\r\n"))
	require.Len(t, events, 2)
	assert.Equal(t, "hi", events[0].Text)
	assert.True(t, events[1].Done)
}
