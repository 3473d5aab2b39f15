package relay

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fotocoach/coachd/internal/models"
)

// doneSentinel terminates every successful stream, exactly once, last.
const doneSentinel = "[DONE]"

// textFrame is the payload of one streamed fragment.
type textFrame struct {
	Text string `json:"text"`
}

// errorFrame is emitted in place of the sentinel when the stream fails after
// headers have gone out.
type errorFrame struct {
	Error     string           `json:"error"`
	ErrorType models.ErrorType `json:"errorType"`
}

// SSEWriter writes the one-event-per-line-pair stream format:
// "data: <json>\n\n" per fragment, then "data: [DONE]\n\n".
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	wrote   bool
}

func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support flushing")
	}
	return &SSEWriter{w: w, flusher: flusher}, nil
}

// Wrote reports whether anything has been flushed yet. Before the first
// write the caller can still fall back to a plain JSON error response.
func (s *SSEWriter) Wrote() bool {
	return s.wrote
}

func (s *SSEWriter) writeFrame(payload string) error {
	if !s.wrote {
		h := s.w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		s.wrote = true
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	s.flusher.Flush()
	return nil
}

func (s *SSEWriter) Text(text string) error {
	data, err := json.Marshal(textFrame{Text: text})
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	return s.writeFrame(string(data))
}

func (s *SSEWriter) Done() error {
	return s.writeFrame(doneSentinel)
}

// Error writes a terminal error frame. No sentinel follows it.
func (s *SSEWriter) Error(errType models.ErrorType, message string) error {
	data, err := json.Marshal(errorFrame{Error: message, ErrorType: errType})
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	return s.writeFrame(string(data))
}
