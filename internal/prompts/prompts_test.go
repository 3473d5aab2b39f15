package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fotocoach/coachd/internal/models"
)

func TestBuildStandard(t *testing.T) {
	got := Build(models.ModeStandard, "en")
	assert.Contains(t, got, "Clean Language")
	assert.Contains(t, got, "What would you like to have happen?")
	assert.Contains(t, got, "Always respond in English")
	assert.NotContains(t, got, "Kaizen Mode")
	assert.NotContains(t, got, "Trainer Mode")
}

func TestBuildKaizen(t *testing.T) {
	got := Build(models.ModeKaizen, "en")
	assert.Contains(t, got, "Kaizen Mode")
	assert.NotContains(t, got, "Trainer Mode")
	// The base instruction is always present.
	assert.Contains(t, got, "Clean Language")
}

func TestBuildTrainer(t *testing.T) {
	got := Build(models.ModeTrainer, "en")
	assert.Contains(t, got, "Trainer Mode")
	assert.Contains(t, got, "YOU play the coaching client")
	assert.NotContains(t, got, "Kaizen Mode")
}

func TestBuildLanguageInstruction(t *testing.T) {
	tests := map[string]string{
		"en": "Always respond in English",
		"da": "Always respond in Danish",
		"sv": "Always respond in Swedish",
		"no": "Always respond in Norwegian",
		"de": "Always respond in German",
	}
	for lang, want := range tests {
		assert.Contains(t, Build(models.ModeStandard, lang), want, "language %s", lang)
	}
}

func TestBuildFallsBackToEnglish(t *testing.T) {
	got := Build(models.ModeStandard, "fr")
	assert.Contains(t, got, "Always respond in English")
}

func TestBuildLanguageInstructionComesLast(t *testing.T) {
	got := Build(models.ModeTrainer, "de")
	assert.True(t, strings.Index(got, "Trainer Mode") < strings.Index(got, "Always respond in German"))
}
