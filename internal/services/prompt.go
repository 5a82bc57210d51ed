package services

import (
	"fmt"

	"carechat-backend/internal/i18n"
	"carechat-backend/internal/llm"
	"carechat-backend/internal/models"
)

// BuildPrompt assembles the ordered message sequence sent to the LLM for one
// turn: a single freshly built system preamble, then the prior history
// filtered to user/assistant roles, then the current user message last.
// history is the full transcript including the just-appended current
// message, which is skipped so it appears exactly once, at the end.
//
// This is a pure function: identical history and language produce an
// identical sequence.
func BuildPrompt(language string, history []models.Message, currentMessage string) []llm.ChatMessage {
	tr := i18n.ForLanguage(language)

	languageName := "English"
	if language == i18n.LangDanish {
		languageName = "Danish"
	}

	system := fmt.Sprintf(`%s

IMPORTANT COMPLIANCE REQUIREMENTS:
1. You MUST include the AI disclosure at the start of your first response
2. You MUST include the medical disclaimer when discussing any medical topics
3. Always encourage users to consult with their healthcare team for specific medical advice
4. Be empathetic, supportive, and respectful
5. Use %s language

AI Disclosure to include in first response:
%s

Medical Disclaimer to include when relevant:
%s`, tr.SystemPrompt, languageName, tr.AIDisclosure, tr.MedicalDisclaimer)

	prompt := make([]llm.ChatMessage, 0, len(history)+1)
	prompt = append(prompt, llm.ChatMessage{Role: models.RoleSystem, Content: system})

	// Prior turns only. Stored system-role rows are never replayed; the
	// preamble above is the only system entry the model sees.
	for i := 0; i < len(history)-1; i++ {
		if history[i].Role == models.RoleUser || history[i].Role == models.RoleAssistant {
			prompt = append(prompt, llm.ChatMessage{Role: history[i].Role, Content: history[i].Content})
		}
	}

	prompt = append(prompt, llm.ChatMessage{Role: models.RoleUser, Content: currentMessage})

	return prompt
}
