package classifier

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fotocoach/coachd/internal/models"
	"github.com/fotocoach/coachd/internal/storage"
)

const (
	// maxLearnedPerCategory caps each overlay list; oldest terms are evicted
	// first. Bounds both storage size and scoring cost.
	maxLearnedPerCategory = 50

	// maxTokensPerLearning limits how many tokens one reclassification event
	// can teach.
	maxTokensPerLearning = 5

	// minTokenLength filters out short glue words the stop list misses.
	minTokenLength = 3
)

// Classifier scores free text against the base lexicons plus the learned
// overlay. The overlay store is injected so tests can run isolated instances.
type Classifier struct {
	store  storage.OverlayStore
	logger *zap.Logger

	mu      sync.Mutex
	overlay models.Overlay
}

// New loads the persisted overlay once and keeps it in memory. A store load
// failure is logged and the classifier starts with an empty overlay.
func New(store storage.OverlayStore, logger *zap.Logger) *Classifier {
	overlay, err := store.Load()
	if err != nil {
		logger.Warn("Failed to load learned overlay, starting empty", zap.Error(err))
		overlay = models.Overlay{}
	}
	return &Classifier{
		store:   store,
		logger:  logger,
		overlay: overlay,
	}
}

// Classify tags text with one of obstacle, outcome or reflection. It never
// returns unclassified: zero keyword hits fall through to reflection, and on
// equal top scores the fixed precedence obstacle > outcome > reflection wins.
func (c *Classifier) Classify(text, language string) models.Classification {
	lower := strings.ToLower(text)

	c.mu.Lock()
	obstacleScore := c.scoreLocked(lower, models.ClassificationObstacle, language)
	outcomeScore := c.scoreLocked(lower, models.ClassificationOutcome, language)
	reflectionScore := c.scoreLocked(lower, models.ClassificationReflection, language)
	c.mu.Unlock()

	maxScore := obstacleScore
	if outcomeScore > maxScore {
		maxScore = outcomeScore
	}
	if reflectionScore > maxScore {
		maxScore = reflectionScore
	}

	// Anything not clearly obstacle or outcome is reflection.
	if maxScore == 0 {
		return models.ClassificationReflection
	}
	if obstacleScore == maxScore {
		return models.ClassificationObstacle
	}
	if outcomeScore == maxScore {
		return models.ClassificationOutcome
	}
	return models.ClassificationReflection
}

func (c *Classifier) scoreLocked(lower string, category models.Classification, language string) int {
	score := 0
	for _, kw := range baseTerms(category, language) {
		if strings.Contains(lower, kw) {
			score++
		}
	}
	for _, kw := range c.overlay.Terms(category) {
		if strings.Contains(lower, kw) {
			score++
		}
	}
	return score
}

// LearnFromReclassification teaches the overlay from a user correcting a tag.
// Up to maxTokensPerLearning significant tokens from the text are appended to
// the corrected category's list. Learning is additive only: a term picked up
// for one category is never removed from another, so a term can end up in
// several overlays if the user reclassifies different messages differently.
func (c *Classifier) LearnFromReclassification(text string, corrected models.Classification) {
	tokens := significantTokens(text)
	if len(tokens) == 0 {
		return
	}

	c.mu.Lock()
	terms := c.overlay.Terms(corrected)
	for _, tok := range tokens {
		if containsTerm(terms, tok) {
			continue
		}
		terms = append(terms, tok)
	}
	if len(terms) > maxLearnedPerCategory {
		terms = terms[len(terms)-maxLearnedPerCategory:]
	}
	c.overlay.SetTerms(corrected, terms)
	overlay := c.overlay
	c.mu.Unlock()

	if err := c.store.Save(overlay); err != nil {
		c.logger.Warn("Failed to persist learned overlay", zap.Error(err))
	}
}

// Overlay returns a snapshot of the learned overlay.
func (c *Classifier) Overlay() models.Overlay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.Overlay{
		Obstacle:   append([]string(nil), c.overlay.Obstacle...),
		Outcome:    append([]string(nil), c.overlay.Outcome...),
		Reflection: append([]string(nil), c.overlay.Reflection...),
	}
}

// significantTokens extracts up to maxTokensPerLearning lowercase tokens of
// minTokenLength or more that are not stop words.
func significantTokens(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, maxTokensPerLearning)
	seen := make(map[string]struct{}, maxTokensPerLearning)
	for _, f := range fields {
		tok := strings.Trim(f, ".,;:!?\"'()[]{}")
		if len([]rune(tok)) < minTokenLength {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
		if len(tokens) == maxTokensPerLearning {
			break
		}
	}
	return tokens
}

func containsTerm(terms []string, term string) bool {
	for _, t := range terms {
		if t == term {
			return true
		}
	}
	return false
}
