package relay

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/fotocoach/coachd/internal/models"
)

// Event is one decoded frame from the relay stream.
type Event struct {
	// Text is a content fragment; empty for Done and error events.
	Text string
	// Done is true for the terminal sentinel.
	Done bool
	// ErrType is set when the server emitted an error frame mid-stream.
	ErrType models.ErrorType
	// ErrMessage accompanies ErrType.
	ErrMessage string
}

// Framer incrementally decodes the relay's line-framed stream. Network chunks
// can split a frame anywhere, so bytes are buffered until a full
// newline-delimited line is available before anything is emitted.
type Framer struct {
	buf bytes.Buffer
}

// Feed appends a chunk and returns all events completed by it, in order.
func (f *Framer) Feed(p []byte) []Event {
	f.buf.Write(p)

	var events []Event
	for {
		raw := f.buf.Bytes()
		idx := bytes.IndexByte(raw, '\n')
		if idx < 0 {
			return events
		}
		line := string(raw[:idx])
		f.buf.Next(idx + 1)

		if ev, ok := parseLine(line); ok {
			events = append(events, ev)
		}
	}
}

func parseLine(line string) (Event, bool) {
	line = strings.TrimSuffix(line, "\r")
	if !strings.HasPrefix(line, "data: ") {
		// Blank separators and unknown fields are skipped.
		return Event{}, false
	}
	payload := line[len("data: "):]
	if payload == doneSentinel {
		return Event{Done: true}, true
	}

	var frame struct {
		Text      string           `json:"text"`
		Error     string           `json:"error"`
		ErrorType models.ErrorType `json:"errorType"`
	}
	if err := json.Unmarshal([]byte(payload), &frame); err != nil {
		// Tolerate garbage frames the way the original client does.
		return Event{}, false
	}
	if frame.ErrorType != "" {
		return Event{ErrType: frame.ErrorType, ErrMessage: frame.Error}, true
	}
	if frame.Text == "" {
		return Event{}, false
	}
	return Event{Text: frame.Text}, true
}
