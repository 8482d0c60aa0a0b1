package topics

import "testing"

func TestExtractKnownTopics(t *testing.T) {
	ex := NewExtractor(nil)

	tests := map[string]string{
		"Here's how to build a workout routine for beginners":             "fitness",
		"Stop procrastinating and regain your focus in three steps":       "productivity",
		"How I grew my followers with one viral content trick":            "social media",
		"The mindset shift that changed my growth forever":                "personal development",
		"Why every entrepreneur should start a business before thirty":    "business",
		"This software app will change your digital life":                 "technology",
		"What nobody tells you about dating and long term relationships":  "relationships",
		"Unlock your creative side with daily writing and music practice": "creativity",
		"asdf qwer zxcv": DefaultTopic,
		"":               DefaultTopic,
	}

	for content, want := range tests {
		t.Run(want, func(t *testing.T) {
			if got := ex.Extract(content); got != want {
				t.Fatalf("Extract(%q) = %q, want %q", content, got, want)
			}
		})
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	ex := NewExtractor(nil)
	content := "Here's how to build a workout routine for beginners"
	first := ex.Extract(content)
	for i := 0; i < 20; i++ {
		if got := ex.Extract(content); got != first {
			t.Fatalf("Extract returned %q on iteration %d, want stable %q", got, i, first)
		}
	}
}

func TestExtractTieBreaksByTaxonomyOrder(t *testing.T) {
	taxonomy := []Entry{
		{Topic: "alpha", Keywords: []string{"shared"}},
		{Topic: "beta", Keywords: []string{"shared"}},
	}
	ex := NewExtractor(taxonomy)

	if got := ex.Extract("a shared keyword"); got != "alpha" {
		t.Fatalf("tie resolved to %q, want first taxonomy entry %q", got, "alpha")
	}
}

func TestExtractCustomTaxonomy(t *testing.T) {
	taxonomy := []Entry{
		{Topic: "cooking", Keywords: []string{"recipe", "bake", "kitchen"}},
	}
	ex := NewExtractor(taxonomy)

	if got := ex.Extract("my favorite recipe to bake bread"); got != "cooking" {
		t.Fatalf("Extract = %q, want %q", got, "cooking")
	}
	if got := ex.Extract("nothing relevant here"); got != DefaultTopic {
		t.Fatalf("Extract = %q, want default %q", got, DefaultTopic)
	}
}
