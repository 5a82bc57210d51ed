package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carechat-backend/internal/i18n"
	"carechat-backend/internal/models"
)

func TestBuildPrompt_Shape(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi there"},
		{Role: models.RoleUser, Content: "how do I manage nausea?"},
	}

	prompt := BuildPrompt(i18n.LangEnglish, history, "how do I manage nausea?")
	require.Len(t, prompt, 4)

	assert.Equal(t, models.RoleSystem, prompt[0].Role)
	assert.Contains(t, prompt[0].Content, i18n.ForLanguage(i18n.LangEnglish).AIDisclosure)
	assert.Contains(t, prompt[0].Content, i18n.ForLanguage(i18n.LangEnglish).MedicalDisclaimer)
	assert.Contains(t, prompt[0].Content, "Use English language")

	assert.Equal(t, "hello", prompt[1].Content)
	assert.Equal(t, "hi there", prompt[2].Content)

	// The current message appears exactly once, last.
	assert.Equal(t, models.RoleUser, prompt[3].Role)
	assert.Equal(t, "how do I manage nausea?", prompt[3].Content)
}

func TestBuildPrompt_SkipsStoredSystemRows(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleSystem, Content: "legacy preamble"},
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi"},
		{Role: models.RoleUser, Content: "next"},
	}

	prompt := BuildPrompt(i18n.LangEnglish, history, "next")
	require.Len(t, prompt, 4)
	for _, m := range prompt[1:] {
		assert.NotEqual(t, models.RoleSystem, m.Role)
	}
	assert.NotContains(t, prompt[0].Content, "legacy preamble")
}

func TestBuildPrompt_Danish(t *testing.T) {
	prompt := BuildPrompt(i18n.LangDanish, []models.Message{
		{Role: models.RoleUser, Content: "hej"},
	}, "hej")

	require.NotEmpty(t, prompt)
	assert.Contains(t, prompt[0].Content, "Use Danish language")
	assert.Contains(t, prompt[0].Content, i18n.ForLanguage(i18n.LangDanish).AIDisclosure)
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi"},
		{Role: models.RoleUser, Content: "again"},
	}

	a := BuildPrompt(i18n.LangEnglish, history, "again")
	b := BuildPrompt(i18n.LangEnglish, history, "again")
	assert.Equal(t, a, b)
}
