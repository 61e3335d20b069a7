package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider generates meal suggestions with the Google Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider creates a new Gemini-backed suggestion provider.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-pro")
	return &GeminiProvider{client: client, model: model}, nil
}

// Generate asks the model for one meal for the given day, constrained to the
// available pool, and parses the strict-JSON reply.
func (p *GeminiProvider) Generate(ctx context.Context, day string, preferences string, pool []PoolItem) (*Suggestion, error) {
	prompt := buildPrompt(day, preferences, pool)

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate meal suggestion: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no suggestion generated")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("generated suggestion is not text")
	}

	return ParseSuggestion(string(text))
}

// Close closes the underlying Gemini client.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func buildPrompt(day string, preferences string, pool []PoolItem) string {
	var poolBuilder strings.Builder
	for _, item := range pool {
		fmt.Fprintf(&poolBuilder, "- %s: %s %s available\n", item.Name, item.Remaining, item.Unit)
	}

	return fmt.Sprintf(`

You are an expert meal planner. Suggest one meal for %s using only ingredients
from the available inventory below. Never require more of an ingredient than
the available amount.

User preferences: "%s"

Available inventory:
%s

Instructions:
1. Suggest a single meal with a name, a short recipe, and instructions.
2. List every ingredient the meal consumes with its quantity and unit,
   using the exact ingredient names and units from the inventory.
3. Return the result strictly as a JSON object with this structure:
{
  "meal": {"name": "Meal Name", "recipe": "...", "instructions": "..."},
  "ingredients": [
    {"name": "Kale", "quantity": 1, "unit": "bunch"},
    ...
  ]
}

Do not include any other text or formatting in your response.
`, day, preferences, poolBuilder.String())
}

// ParseSuggestion decodes a provider reply, tolerating a markdown code fence
// around the JSON.
func ParseSuggestion(raw string) (*Suggestion, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var s Suggestion
	if err := json.Unmarshal([]byte(cleaned), &s); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion JSON: %w. Response: %s", err, raw)
	}
	if len(s.Ingredients) == 0 {
		return nil, fmt.Errorf("suggestion carries no ingredients. Response: %s", raw)
	}
	for _, ing := range s.Ingredients {
		if ing.Name == "" {
			return nil, fmt.Errorf("suggestion carries an unnamed ingredient. Response: %s", raw)
		}
		if ing.Quantity.IsNegative() {
			return nil, fmt.Errorf("suggestion carries a negative quantity for %q. Response: %s", ing.Name, raw)
		}
	}
	return &s, nil
}
