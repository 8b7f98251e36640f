package engine

import (
	"encoding/json"
	"strings"

	"github.com/jvcl/datachat/internal/chat/entity"
)

type answerEnvelope struct {
	Type    string     `json:"type"`
	Text    string     `json:"text"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	URL     string     `json:"url"`
}

// parseAnswer renders the model reply into an Answer. Replies that do
// not match the envelope degrade to a plain text answer with the raw
// content, never to an error.
func parseAnswer(content string) entity.Answer {
	trimmed := stripFences(content)

	var envelope answerEnvelope
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
		return entity.Answer{Kind: entity.AnswerKindText, Text: strings.TrimSpace(content)}
	}

	switch envelope.Type {
	case "table":
		if len(envelope.Columns) > 0 {
			return entity.Answer{
				Kind:    entity.AnswerKindTable,
				Columns: envelope.Columns,
				Rows:    envelope.Rows,
			}
		}
	case "image":
		if envelope.URL != "" {
			return entity.Answer{Kind: entity.AnswerKindImage, ImageURL: envelope.URL}
		}
	case "text":
		if envelope.Text != "" {
			return entity.Answer{Kind: entity.AnswerKindText, Text: envelope.Text}
		}
	}

	return entity.Answer{Kind: entity.AnswerKindText, Text: strings.TrimSpace(content)}
}

// stripFences removes a surrounding markdown code fence, which models
// add around JSON despite instructions.
func stripFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")

	return strings.TrimSpace(trimmed)
}
