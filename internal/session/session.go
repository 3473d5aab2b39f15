// Package session is the client-side conversation orchestrator: it gates
// outbound text through crisis detection, tags turns with the classifier,
// sends the conversation to the chat endpoint and consumes the streamed
// reply. Conversations live in memory only and vanish with the session.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fotocoach/coachd/internal/classifier"
	"github.com/fotocoach/coachd/internal/crisis"
	"github.com/fotocoach/coachd/internal/i18n"
	"github.com/fotocoach/coachd/internal/models"
	"github.com/fotocoach/coachd/internal/relay"
)

// ErrBusy is returned when a send is attempted while a reply is still
// streaming. The session is strictly single-flight.
var ErrBusy = errors.New("session: a response is still streaming")

// ErrEmptyMessage is returned for blank input.
var ErrEmptyMessage = errors.New("session: empty message")

// CrisisError reports that the message was suppressed by the crisis gate:
// it was neither appended to the conversation nor transmitted.
type CrisisError struct {
	Signal crisis.Signal
}

func (e *CrisisError) Error() string {
	return "session: message withheld, crisis signal " + string(e.Signal)
}

// APIError is a chat-endpoint failure with its taxonomy code and a localized
// message ready for display.
type APIError struct {
	Type    models.ErrorType
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("session: %s: %s", e.Type, e.Detail)
}

// Session drives one conversation against the chat API.
type Session struct {
	endpoint string
	httpc    *http.Client
	clf      *classifier.Classifier
	det      *crisis.Detector
	mode     models.Mode
	language string
	logger   *zap.Logger

	mu       sync.Mutex
	inFlight bool
	messages []models.Message
}

func New(endpoint string, clf *classifier.Classifier, det *crisis.Detector, mode models.Mode, language string, logger *zap.Logger) *Session {
	return &Session{
		endpoint: endpoint,
		httpc:    &http.Client{},
		clf:      clf,
		det:      det,
		mode:     mode,
		language: language,
		logger:   logger,
	}
}

// Messages returns a snapshot of the transcript.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message(nil), s.messages...)
}

// Send runs one full turn: crisis gate, tagging, network call, stream
// consumption and (in trainer mode) tagging of the reply. The returned
// message is the completed assistant reply. On a reply failure the user's
// message stays in the transcript.
func (s *Session) Send(ctx context.Context, text string) (models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return models.Message{}, ErrBusy
	}
	s.inFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	// The crisis gate runs before the message touches the transcript or the
	// network; a positive signal suppresses the send entirely.
	if sig := s.det.Detect(text); crisis.ShouldIntervene(sig) {
		return models.Message{}, &CrisisError{Signal: sig}
	}

	userMsg := models.Message{
		ID:             uuid.New().String(),
		Role:           models.RoleUser,
		Content:        text,
		Timestamp:      time.Now(),
		Classification: models.ClassificationUnclassified,
	}
	// In trainer mode the user is the coach; their questions stay untagged
	// and the assistant's client replies are what gets classified.
	if s.mode != models.ModeTrainer {
		userMsg.Classification = s.clf.Classify(text, s.language)
	}

	s.mu.Lock()
	s.messages = append(s.messages, userMsg)
	wire := make([]models.ChatMessage, 0, len(s.messages))
	for _, m := range s.messages {
		wire = append(wire, models.ChatMessage{Role: m.Role, Content: m.Content})
	}
	s.mu.Unlock()

	reply, err := s.stream(ctx, wire)
	if err != nil {
		return models.Message{}, err
	}

	if s.mode == models.ModeTrainer {
		reply.Classification = s.clf.Classify(reply.Content, s.language)
	}

	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.mu.Unlock()
	return reply, nil
}

func (s *Session) stream(ctx context.Context, wire []models.ChatMessage) (models.Message, error) {
	body, err := json.Marshal(models.ChatRequest{
		Messages: wire,
		Mode:     s.mode,
		Language: s.language,
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return models.Message{}, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return models.Message{}, fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Message{}, s.decodeAPIError(resp)
	}

	reply := models.Message{
		ID:             uuid.New().String(),
		Role:           models.RoleAssistant,
		Timestamp:      time.Now(),
		Classification: models.ClassificationUnclassified,
	}

	var framer relay.Framer
	var content strings.Builder
	buf := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			for _, ev := range framer.Feed(buf[:n]) {
				switch {
				case ev.Done:
					reply.Content = content.String()
					return reply, nil
				case ev.ErrType != "":
					return models.Message{}, &APIError{
						Type:    ev.ErrType,
						Message: i18n.ErrorMessage(s.language, ev.ErrType),
						Detail:  ev.ErrMessage,
					}
				default:
					content.WriteString(ev.Text)
				}
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				// Stream ended without the sentinel: treat as failed reply.
				return models.Message{}, &APIError{
					Type:    models.ErrorUnknown,
					Message: i18n.ErrorMessage(s.language, models.ErrorUnknown),
					Detail:  "stream ended before completion",
				}
			}
			return models.Message{}, fmt.Errorf("read stream: %w", readErr)
		}
	}
}

func (s *Session) decodeAPIError(resp *http.Response) error {
	var body models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.ErrorType == "" {
		body.ErrorType = models.ErrorUnknown
		body.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
	s.logger.Warn("Chat request rejected",
		zap.String("error_type", string(body.ErrorType)),
		zap.String("detail", body.Error))
	return &APIError{
		Type:    body.ErrorType,
		Message: i18n.ErrorMessage(s.language, body.ErrorType),
		Detail:  body.Error,
	}
}

// Reclassify corrects a message's tag and feeds the correction to the
// classifier's learner.
func (s *Session) Reclassify(messageID string, corrected models.Classification) error {
	s.mu.Lock()
	var target *models.Message
	for i := range s.messages {
		if s.messages[i].ID == messageID {
			target = &s.messages[i]
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		return fmt.Errorf("session: message %s not found", messageID)
	}
	target.Classification = corrected
	content := target.Content
	s.mu.Unlock()

	s.clf.LearnFromReclassification(content, corrected)
	return nil
}
