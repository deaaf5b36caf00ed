package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealmuse/backend/config"
)

func TestSanitizeResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "fenced json",
			input:    "```json\n{\"recipes\":[]}\n```",
			expected: `{"recipes":[]}`,
		},
		{
			name:     "bare fences",
			input:    "```\n{\"recipes\":[]}\n```",
			expected: `{"recipes":[]}`,
		},
		{
			name:     "no fences",
			input:    `{"recipes":[]}`,
			expected: `{"recipes":[]}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n{\"recipes\":[]}\n  ",
			expected: `{"recipes":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeResponse(tt.input))
		})
	}
}

func TestParseRecipesValidOutput(t *testing.T) {
	raw := "```json\n" + `{
		"recipes": [
			{
				"id": 1,
				"title": "Avocado Toast",
				"diet": "vegetarian",
				"imageDescription": "A plate of avocado toast",
				"ingredients": [
					{"item": "Bread", "quantity": 2, "unit": "slices"},
					{"item": "Avocado", "quantity": 0.5, "unit": "medium", "note": "mashed"}
				],
				"instructions": ["Toast the bread.", "Spread the avocado."],
				"prepTime": 5,
				"cookTime": 2,
				"totalTime": 7,
				"servings": 1,
				"nutrition": {"calories": 250, "protein": 6, "fat": 12, "carbs": 28}
			}
		]
	}` + "\n```"

	recipes, err := ParseRecipes(raw)
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	assert.Equal(t, "Avocado Toast", recipes[0].Title)
	assert.Equal(t, "vegetarian", recipes[0].Diet)
	require.Len(t, recipes[0].Ingredients, 2)
	assert.Equal(t, 0.5, recipes[0].Ingredients[1].Quantity)
	assert.Equal(t, "mashed", recipes[0].Ingredients[1].Note)
	assert.Equal(t, 7, recipes[0].TotalTime)
	assert.Equal(t, float64(250), recipes[0].Nutrition.Calories)
	assert.Empty(t, recipes[0].ImageURL)
}

func TestParseRecipesMalformedJSON(t *testing.T) {
	raw := "```json\n{\"recipes\": [{\"title\": \"Broken\"\n```"

	recipes, err := ParseRecipes(raw)
	assert.Nil(t, recipes)

	var malformed *MalformedOutputError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, malformed.Raw, "Broken")
	assert.Error(t, malformed.Err)
}

func TestParseRecipesMissingRecipesKey(t *testing.T) {
	raw := `{"meals": []}`

	recipes, err := ParseRecipes(raw)
	assert.Nil(t, recipes)

	var missing *MissingRecipesError
	require.True(t, errors.As(err, &missing))
	assert.JSONEq(t, raw, string(missing.Raw))
}

func TestParseRecipesNonArrayRecipes(t *testing.T) {
	raw := `{"recipes": "not an array"}`

	recipes, err := ParseRecipes(raw)
	assert.Nil(t, recipes)

	var missing *MissingRecipesError
	require.True(t, errors.As(err, &missing))
}

func TestParseRecipesNullRecipes(t *testing.T) {
	raw := `{"recipes": null}`

	recipes, err := ParseRecipes(raw)
	assert.Nil(t, recipes)

	var missing *MissingRecipesError
	require.True(t, errors.As(err, &missing))
	assert.JSONEq(t, raw, string(missing.Raw))
}

func TestBuildRecipePromptIncludesFilters(t *testing.T) {
	s := &LLMService{}

	prompt := s.BuildRecipePrompt(GenerateRequest{
		Category:    "dinner",
		DietType:    "vegan",
		Ingredients: []string{"tofu", "broccoli"},
		PrepTime:    30,
	})

	assert.Contains(t, prompt, "Category: dinner")
	assert.Contains(t, prompt, "Diet type: vegan")
	assert.Contains(t, prompt, "Include ingredients: tofu, broccoli")
	assert.Contains(t, prompt, "Preferred prep time: 30 minutes")
	assert.Contains(t, prompt, `"recipes" array`)
	assert.Contains(t, prompt, "Example JSON Output")
}

func TestBuildRecipePromptOmitsEmptyFilters(t *testing.T) {
	s := &LLMService{}

	prompt := s.BuildRecipePrompt(GenerateRequest{Category: "breakfast"})

	assert.Contains(t, prompt, "Category: breakfast")
	assert.NotContains(t, prompt, "Diet type:")
	assert.NotContains(t, prompt, "Include ingredients:")
	assert.NotContains(t, prompt, "Preferred prep time:")
}

func TestGenerateContentParsesCandidate(t *testing.T) {
	var gotBody map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"model output"}]}}]}`))
	}))
	defer ts.Close()

	s := &LLMService{
		apiKey: "test-key",
		apiURL: ts.URL,
		config: generationConfig{Temperature: 0.9, TopP: 1, TopK: 1, MaxOutputTokens: 4096},
		client: ts.Client(),
	}

	text, err := s.GenerateContent(context.Background(), "make food")
	require.NoError(t, err)
	assert.Equal(t, "model output", text)

	genCfg, ok := gotBody["generationConfig"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 0.9, genCfg["temperature"])
	assert.Equal(t, float64(4096), genCfg["maxOutputTokens"])
}

func TestGenerateContentAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"quota exceeded"}`))
	}))
	defer ts.Close()

	s := &LLMService{
		apiKey: "test-key",
		apiURL: ts.URL,
		client: ts.Client(),
	}

	_, err := s.GenerateContent(context.Background(), "make food")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateContentEmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer ts.Close()

	s := &LLMService{apiKey: "k", apiURL: ts.URL, client: ts.Client()}

	_, err := s.GenerateContent(context.Background(), "make food")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response")
}

func TestNewLLMServiceRequiresKey(t *testing.T) {
	_, err := NewLLMService(&config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestNewLLMServiceDefaultsModel(t *testing.T) {
	s, err := NewLLMService(&config.Config{GeminiAPIKey: "test-key"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(s.apiURL, "gemini-1.5-flash"))
}
