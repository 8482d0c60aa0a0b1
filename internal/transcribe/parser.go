package transcribe

import (
	"encoding/json"
	"regexp"
	"strings"

	"viralScriptAi/internal/storage"
)

// Sentinel values surfaced when a response cannot be parsed. Downstream code
// treats these as data, never as errors, so one bad model response cannot
// abort a batch.
const (
	NotPresent       = "Not Present"
	ParsingError     = "Parsing Error"
	FailedTranscript = "Transcription failed - unable to parse response"
)

// Parsed is the normalized shape extracted from one raw model response.
type Parsed struct {
	Transcription   string                     `json:"transcription"`
	Segments        *storage.MarketingSegments `json:"marketing_segments,omitempty"`
	WordAssignments []storage.WordAssignment   `json:"word_assignments,omitempty"`
}

// chatterPatterns strip the conversational prefixes models like to add
// before the JSON payload.
var chatterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)^okay,?\s*i'?m ready[^{]*`),
	regexp.MustCompile(`(?is)^here'?s the analysis[^{]*`),
	regexp.MustCompile(`(?is)^sure[,!.]?\s[^{]*`),
	regexp.MustCompile("(?s)```(?:json)?"),
}

// transcriptWithSegmentsPattern recovers the transcription + marketingSegments
// pair from responses where a malformed wordAssignments array breaks the
// surrounding JSON.
var transcriptWithSegmentsPattern = regexp.MustCompile(
	`(?s)"transcription"\s*:\s*"((?:[^"\\]|\\.)*)"\s*,\s*"marketingSegments"\s*:\s*(\{(?:[^{}]|\{[^{}]*\})*\})`)

// Per-field fallbacks for responses that are not valid JSON at all.
var fieldPatterns = map[string]*regexp.Regexp{
	"transcription": regexp.MustCompile(`(?is)"transcription"\s*:\s*"((?:[^"\\]|\\.)*)"`),
	"hook":          regexp.MustCompile(`(?is)"hook"\s*:\s*"((?:[^"\\]|\\.)*)"`),
	"bridge":        regexp.MustCompile(`(?is)"bridge"\s*:\s*"((?:[^"\\]|\\.)*)"`),
	"goldenNugget":  regexp.MustCompile(`(?is)"golden[\s_]?nugget"\s*:\s*"((?:[^"\\]|\\.)*)"`),
	"wta":           regexp.MustCompile(`(?is)"wta"\s*:\s*"((?:[^"\\]|\\.)*)"`),
}

// parseStrategy attempts one extraction approach; ok=false hands off to the
// next strategy in the chain.
type parseStrategy func(text string) (Parsed, bool)

var strategies = []parseStrategy{
	parseDirectJSON,
	parseSegmentsObject,
	parseFieldByField,
}

// ParseResponse turns a raw model response into a Parsed value. It never
// fails: each strategy in the chain degrades to the next, and the final
// fallback substitutes sentinel values. When marketingRequested is false the
// raw text is returned verbatim (trimmed) as the transcription.
func ParseResponse(responseText string, marketingRequested bool) Parsed {
	if !marketingRequested {
		return Parsed{Transcription: strings.TrimSpace(responseText)}
	}

	cleaned := cleanResponse(responseText)
	for _, strategy := range strategies {
		if parsed, ok := strategy(cleaned); ok {
			return parsed
		}
	}

	return Parsed{
		Transcription: FailedTranscript,
		Segments: &storage.MarketingSegments{
			Hook:         ParsingError,
			Bridge:       ParsingError,
			GoldenNugget: ParsingError,
			WTA:          ParsingError,
		},
	}
}

// cleanResponse removes model chatter and markdown fences, then drops
// everything before the first brace since a well-formed response is pure JSON.
func cleanResponse(text string) string {
	for _, pattern := range chatterPatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	if idx := strings.Index(text, "{"); idx > 0 {
		text = text[idx:]
	}
	return strings.TrimSpace(text)
}

func parseDirectJSON(text string) (Parsed, bool) {
	var envelope struct {
		Transcription     *string                    `json:"transcription"`
		MarketingSegments *storage.MarketingSegments `json:"marketingSegments"`
		WordAssignments   json.RawMessage            `json:"wordAssignments"`
	}
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return Parsed{}, false
	}
	if envelope.Transcription == nil || envelope.MarketingSegments == nil {
		return Parsed{}, false
	}

	parsed := Parsed{
		Transcription: strings.TrimSpace(*envelope.Transcription),
		Segments:      envelope.MarketingSegments,
	}

	// Extract word assignments only when the field is actually array-typed;
	// anything else is silently omitted.
	if raw := strings.TrimSpace(string(envelope.WordAssignments)); strings.HasPrefix(raw, "[") {
		var assignments []storage.WordAssignment
		if err := json.Unmarshal(envelope.WordAssignments, &assignments); err == nil {
			parsed.WordAssignments = assignments
		}
	}

	return parsed, true
}

func parseSegmentsObject(text string) (Parsed, bool) {
	match := transcriptWithSegmentsPattern.FindStringSubmatch(text)
	if match == nil {
		return Parsed{}, false
	}

	transcription, ok := unquoteJSONString(match[1])
	if !ok {
		return Parsed{}, false
	}

	var segments storage.MarketingSegments
	if err := json.Unmarshal([]byte(match[2]), &segments); err != nil {
		return Parsed{}, false
	}

	return Parsed{
		Transcription: strings.TrimSpace(transcription),
		Segments:      &segments,
	}, true
}

func parseFieldByField(text string) (Parsed, bool) {
	extract := func(field string) (string, bool) {
		match := fieldPatterns[field].FindStringSubmatch(text)
		if match == nil {
			return "", false
		}
		if value, ok := unquoteJSONString(match[1]); ok {
			return strings.TrimSpace(value), true
		}
		return strings.TrimSpace(match[1]), true
	}

	segments := storage.MarketingSegments{
		Hook:         NotPresent,
		Bridge:       NotPresent,
		GoldenNugget: NotPresent,
		WTA:          NotPresent,
	}
	segmentsFound := 0
	if v, ok := extract("hook"); ok {
		segments.Hook = v
		segmentsFound++
	}
	if v, ok := extract("bridge"); ok {
		segments.Bridge = v
		segmentsFound++
	}
	if v, ok := extract("goldenNugget"); ok {
		segments.GoldenNugget = v
		segmentsFound++
	}
	if v, ok := extract("wta"); ok {
		segments.WTA = v
		segmentsFound++
	}

	if transcription, ok := extract("transcription"); ok {
		return Parsed{Transcription: transcription, Segments: &segments}, true
	}

	// No transcript located: reconstruct it from whatever fragments were
	// recovered, keeping the fixed hook-bridge-nugget-wta order.
	if segmentsFound > 0 {
		var parts []string
		for _, fragment := range []string{segments.Hook, segments.Bridge, segments.GoldenNugget, segments.WTA} {
			if fragment != NotPresent && fragment != "" {
				parts = append(parts, fragment)
			}
		}
		return Parsed{
			Transcription: strings.Join(parts, " "),
			Segments:      &segments,
		}, true
	}

	return Parsed{}, false
}

// unquoteJSONString decodes the inner text of a JSON string literal.
func unquoteJSONString(inner string) (string, bool) {
	var value string
	if err := json.Unmarshal([]byte(`"`+inner+`"`), &value); err != nil {
		return "", false
	}
	return value, true
}
