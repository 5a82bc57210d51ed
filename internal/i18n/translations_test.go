package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported(LangEnglish))
	assert.True(t, IsSupported(LangDanish))
	assert.False(t, IsSupported("fr"))
	assert.False(t, IsSupported(""))
}

func TestForLanguageFallsBackToEnglish(t *testing.T) {
	en := ForLanguage(LangEnglish)
	assert.Equal(t, en, ForLanguage("fr"))
	assert.Equal(t, en, ForLanguage(""))

	da := ForLanguage(LangDanish)
	assert.NotEqual(t, en.SystemPrompt, da.SystemPrompt)
	assert.NotEmpty(t, da.AIDisclosure)
	assert.NotEmpty(t, da.MedicalDisclaimer)
	assert.NotEmpty(t, da.ConsentRequired)
}
