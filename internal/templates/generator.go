package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"viralScriptAi/internal/llm"
	"viralScriptAi/internal/storage"
	"viralScriptAi/internal/transcribe"
)

// TopicPlaceholder marks the slot in a template where a topic is substituted.
const TopicPlaceholder = "{topic}"

// Generator derives reusable script templates and produces synthetic scripts from them.
type Generator interface {
	DeriveTemplate(ctx context.Context, segments storage.MarketingSegments) (storage.ScriptTemplate, error)
	GenerateScript(ctx context.Context, topic string, template storage.ScriptTemplate) (storage.MarketingSegments, error)
}

// NewHeuristic returns a deterministic rules-based generator.
func NewHeuristic() Generator {
	return heuristicGenerator{}
}

type heuristicGenerator struct{}

func (heuristicGenerator) DeriveTemplate(_ context.Context, segments storage.MarketingSegments) (storage.ScriptTemplate, error) {
	return storage.ScriptTemplate{
		Hook:   abstractSegment(segments.Hook, "Stop scrolling if you care about "+TopicPlaceholder+"."),
		Bridge: abstractSegment(segments.Bridge, "Most people get "+TopicPlaceholder+" completely wrong, and here is why."),
		Nugget: abstractSegment(segments.GoldenNugget, "The one thing that actually moves the needle with "+TopicPlaceholder+" is consistent daily practice."),
		WTA:    abstractSegment(segments.WTA, "Follow for more real talk about "+TopicPlaceholder+"."),
	}, nil
}

func (heuristicGenerator) GenerateScript(_ context.Context, topic string, template storage.ScriptTemplate) (storage.MarketingSegments, error) {
	clean := strings.TrimSpace(topic)
	if clean == "" {
		return storage.MarketingSegments{}, fmt.Errorf("generate script: empty topic")
	}

	return storage.MarketingSegments{
		Hook:         fillPlaceholder(template.Hook, clean),
		Bridge:       fillPlaceholder(template.Bridge, clean),
		GoldenNugget: fillPlaceholder(template.Nugget, clean),
		WTA:          fillPlaceholder(template.WTA, clean),
	}, nil
}

// abstractSegment keeps the original phrasing when present and falls back to a
// canned skeleton when the source segment is empty or a parse sentinel.
func abstractSegment(content, skeleton string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || trimmed == transcribe.NotPresent || trimmed == transcribe.ParsingError {
		return skeleton
	}
	return trimmed
}

func fillPlaceholder(text, topic string) string {
	filled := strings.ReplaceAll(text, TopicPlaceholder, topic)
	return strings.TrimSpace(filled)
}

// NewChat wires the generator to a chat completion client, falling back to the
// heuristic generator when the model call or parsing fails.
func NewChat(client llm.Client) Generator {
	return &chatGenerator{
		client:   client,
		fallback: heuristicGenerator{},
	}
}

type chatGenerator struct {
	client   llm.Client
	fallback Generator
}

func (g *chatGenerator) DeriveTemplate(ctx context.Context, segments storage.MarketingSegments) (storage.ScriptTemplate, error) {
	payload, _ := json.Marshal(segments)

	systemPrompt := `You are an expert short-form video scriptwriter. You turn successful scripts into reusable templates.
- Replace topic-specific words with the literal placeholder {topic}.
- Keep the sentence rhythm and persuasion structure of the original.
- Return JSON {"hook":"...","bridge":"...","nugget":"...","wta":"..."}.`
	userPrompt := fmt.Sprintf(`Derive a reusable template from this script, broken into its four marketing segments. Keep each segment roughly the same length as the original and insert {topic} wherever the subject matter appears.

Script:
%s`, string(payload))

	content, err := g.client.ChatCompletion(ctx, []llm.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, 0.4)
	if err != nil {
		return g.fallback.DeriveTemplate(ctx, segments)
	}

	template, parseErr := parseTemplate(content)
	if parseErr != nil {
		return g.fallback.DeriveTemplate(ctx, segments)
	}
	return template, nil
}

func (g *chatGenerator) GenerateScript(ctx context.Context, topic string, template storage.ScriptTemplate) (storage.MarketingSegments, error) {
	if strings.TrimSpace(topic) == "" {
		return storage.MarketingSegments{}, fmt.Errorf("generate script: empty topic")
	}

	payload, _ := json.Marshal(template)

	systemPrompt := `You are an expert short-form video scriptwriter.
- Write punchy spoken-word copy that sounds natural when read aloud.
- Follow the Hook-Bridge-Golden Nugget-WTA structure exactly.
- Return JSON {"hook":"...","bridge":"...","goldenNugget":"...","wta":"..."}.`
	userPrompt := fmt.Sprintf(`Write a script about "%s" using this template. Replace every {topic} placeholder and adapt the surrounding wording so the result reads naturally.

Template:
%s`, topic, string(payload))

	content, err := g.client.ChatCompletion(ctx, []llm.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, 0.8)
	if err != nil {
		return g.fallback.GenerateScript(ctx, topic, template)
	}

	segments, parseErr := parseSegments(content)
	if parseErr != nil {
		return g.fallback.GenerateScript(ctx, topic, template)
	}
	return segments, nil
}

func parseTemplate(content string) (storage.ScriptTemplate, error) {
	var template storage.ScriptTemplate
	if err := json.Unmarshal([]byte(content), &template); err == nil && template.Hook != "" {
		return template, nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(content[start:end+1]), &template); err == nil && template.Hook != "" {
			return template, nil
		}
	}
	return storage.ScriptTemplate{}, fmt.Errorf("could not parse template from response")
}

func parseSegments(content string) (storage.MarketingSegments, error) {
	var segments storage.MarketingSegments
	if err := json.Unmarshal([]byte(content), &segments); err == nil && segments.Hook != "" {
		return segments, nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(content[start:end+1]), &segments); err == nil && segments.Hook != "" {
			return segments, nil
		}
	}
	return storage.MarketingSegments{}, fmt.Errorf("could not parse segments from response")
}
