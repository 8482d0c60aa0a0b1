package transcribe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const defaultTranscribeModel = "gemini-2.5-flash"

const plainPrompt = `Transcribe the spoken words in this video exactly as they are said.
Return only the transcription text with no commentary.`

const marketingPrompt = `Transcribe the spoken words in this video exactly as they are said, then split the transcript into the four marketing segments of a short-form script.

Return pure JSON with this exact shape and nothing else:
{
  "transcription": "<the full transcript>",
  "marketingSegments": {
    "hook": "<attention-grabbing opening>",
    "bridge": "<transition that builds credibility>",
    "goldenNugget": "<the core value or insight>",
    "wta": "<the call to action>"
  },
  "wordAssignments": [
    {"word": "<word>", "category": "hook|bridge|goldenNugget|wta", "position": 1}
  ]
}

Rules:
- The four segments concatenated in order must equal the transcription word for word.
- Every transcript word appears exactly once in wordAssignments, positions numbered 1..N in order.
- Do not invent words that are not spoken in the video.`

// GeminiTranscriber sends raw media to Gemini and returns the model's text
// response for parsing.
type GeminiTranscriber struct {
	apiKey  string
	model   string
	timeout time.Duration
}

// NewGeminiTranscriber constructs a transcriber for the desired model.
func NewGeminiTranscriber(apiKey, model string, timeout time.Duration) *GeminiTranscriber {
	model = strings.TrimPrefix(strings.TrimSpace(model), "models/")
	if model == "" {
		model = defaultTranscribeModel
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &GeminiTranscriber{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
	}
}

// Transcribe uploads the media inline and returns the raw response text.
// The response is handed to ParseResponse by the caller; this method only
// fails on transport or model errors.
func (t *GeminiTranscriber) Transcribe(ctx context.Context, data []byte, mimeType string, marketing bool) (string, error) {
	if t == nil || strings.TrimSpace(t.apiKey) == "" {
		return "", fmt.Errorf("transcribe: missing API key")
	}
	if len(data) == 0 {
		return "", fmt.Errorf("transcribe: empty media payload")
	}
	if mimeType == "" {
		mimeType = "video/mp4"
	}

	childCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	client, err := genai.NewClient(childCtx, &genai.ClientConfig{
		APIKey: t.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe: create genai client: %w", err)
	}

	prompt := plainPrompt
	if marketing {
		prompt = marketingPrompt
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(childCtx, t.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("transcribe: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("transcribe: model returned no candidates")
	}

	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if trimmed := strings.TrimSpace(part.Text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("transcribe: candidate missing text")
	}
	return strings.Join(parts, "\n"), nil
}
