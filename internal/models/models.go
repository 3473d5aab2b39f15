package models

import "time"

// Classification buckets a conversational turn into the obstacle-to-outcome
// coaching framework. Unclassified is reserved for messages that were never
// run through the classifier, not a possible classifier result.
type Classification string

const (
	ClassificationObstacle     Classification = "obstacle"
	ClassificationOutcome      Classification = "outcome"
	ClassificationReflection   Classification = "reflection"
	ClassificationUnclassified Classification = "unclassified"
)

// Mode selects the coaching behaviour: which system prompt is used and which
// role's messages get classified.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeKaizen   Mode = "kaizen"
	ModeTrainer  Mode = "trainer"
)

// ValidMode reports whether m is one of the supported coaching modes.
func ValidMode(m Mode) bool {
	switch m {
	case ModeStandard, ModeKaizen, ModeTrainer:
		return true
	}
	return false
}

// SupportedLanguages lists the languages with classification lexicons and
// translated UI strings. The first entry is the fallback.
var SupportedLanguages = []string{"en", "da", "sv", "no", "de"}

// ValidLanguage reports whether lang has first-class support.
func ValidLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a conversation. Content is appended to while a
// reply streams in and frozen afterwards; only the classification tag may
// change later (user reclassification).
type Message struct {
	ID             string         `json:"id"`
	Role           string         `json:"role"`
	Content        string         `json:"content"`
	Timestamp      time.Time      `json:"timestamp"`
	Classification Classification `json:"classification,omitempty"`
}

// ChatMessage is the wire form of a message sent to the chat endpoint.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
	Mode     Mode          `json:"mode,omitempty"`
	Language string        `json:"language,omitempty"`
}

// ErrorType is the machine-readable error code clients branch on. It is the
// contract; the error string next to it is diagnostics only.
type ErrorType string

const (
	ErrorValidation    ErrorType = "validation"
	ErrorConfig        ErrorType = "config"
	ErrorRateLimit     ErrorType = "rate_limit"
	ErrorQuotaExceeded ErrorType = "quota_exceeded"
	ErrorOverloaded    ErrorType = "overloaded"
	ErrorAuth          ErrorType = "auth"
	ErrorDailyLimit    ErrorType = "daily_limit"
	ErrorMonthlyLimit  ErrorType = "monthly_limit"
	ErrorUnknown       ErrorType = "unknown"
)

// ErrorResponse is the non-streaming JSON error body.
type ErrorResponse struct {
	Error     string    `json:"error"`
	ErrorType ErrorType `json:"errorType"`
}

// UsageStatus reports the admission decision and current counter values.
type UsageStatus struct {
	Allowed      bool      `json:"allowed"`
	Reason       ErrorType `json:"reason,omitempty"`
	DailyUsed    int64     `json:"dailyUsed"`
	DailyLimit   int64     `json:"dailyLimit"`
	MonthlyUsed  int64     `json:"monthlyUsed"`
	MonthlyLimit int64     `json:"monthlyLimit"`
}

// Overlay holds the learned keyword lists layered on top of the static base
// lexicons. Lists are ordered oldest first so the FIFO cap can trim from the
// front.
type Overlay struct {
	Obstacle   []string `json:"obstacle"`
	Outcome    []string `json:"outcome"`
	Reflection []string `json:"reflection"`
}

// Terms returns the learned list for a category. Unclassified has no overlay.
func (o *Overlay) Terms(c Classification) []string {
	switch c {
	case ClassificationObstacle:
		return o.Obstacle
	case ClassificationOutcome:
		return o.Outcome
	case ClassificationReflection:
		return o.Reflection
	}
	return nil
}

// SetTerms replaces the learned list for a category.
func (o *Overlay) SetTerms(c Classification, terms []string) {
	switch c {
	case ClassificationObstacle:
		o.Obstacle = terms
	case ClassificationOutcome:
		o.Outcome = terms
	case ClassificationReflection:
		o.Reflection = terms
	}
}
