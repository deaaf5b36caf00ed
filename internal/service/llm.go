package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/mealmuse/backend/config"
	"github.com/mealmuse/backend/internal/models"
)

// Nutrition is the per-recipe macro breakdown returned by the model
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// GeneratedRecipe is one recipe as produced by the generation pipeline.
// ImageURL is filled in by the image enricher, not the model.
type GeneratedRecipe struct {
	ID               int                 `json:"id"`
	Title            string              `json:"title"`
	Diet             string              `json:"diet"`
	ImageDescription string              `json:"imageDescription"`
	Ingredients      []models.Ingredient `json:"ingredients"`
	Instructions     []string            `json:"instructions"`
	PrepTime         int                 `json:"prepTime"`
	CookTime         int                 `json:"cookTime"`
	TotalTime        int                 `json:"totalTime"`
	Servings         int                 `json:"servings"`
	Nutrition        Nutrition           `json:"nutrition"`
	ImageURL         string              `json:"imageUrl"`
}

// GenerateRequest carries the user-supplied filters for recipe generation
type GenerateRequest struct {
	Category    string
	DietType    string
	Ingredients []string
	PrepTime    int
}

// MalformedOutputError reports model output that could not be parsed as JSON.
// Raw carries the sanitized text for diagnosis.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("invalid JSON received from AI: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// MissingRecipesError reports parsed output lacking a usable recipes array.
// Raw carries the parsed value for diagnosis.
type MissingRecipesError struct {
	Raw json.RawMessage
}

func (e *MissingRecipesError) Error() string {
	return "AI did not return a valid recipes array"
}

// GenerationClient produces raw model output for a prompt
type GenerationClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// generationConfig holds the sampling parameters, fixed at process start
type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// LLMService talks to the Gemini generateContent API
type LLMService struct {
	apiKey string
	apiURL string
	config generationConfig
	client *http.Client
}

// NewLLMService creates an LLMService from the process configuration
func NewLLMService(cfg *config.Config) (*LLMService, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY or GEMINI_API_KEY_FILE must be set")
	}

	model := cfg.GeminiModel
	if model == "" {
		model = "gemini-1.5-flash"
	}

	return &LLMService{
		apiKey: cfg.GeminiAPIKey,
		apiURL: fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", model),
		config: generationConfig{
			Temperature:     0.9,
			TopP:            1,
			TopK:            1,
			MaxOutputTokens: 4096,
		},
		client: &http.Client{},
	}, nil
}

// BuildRecipePrompt turns the request filters into the generation instruction.
// The embedded example pins the output schema the parser expects.
func (s *LLMService) BuildRecipePrompt(req GenerateRequest) string {
	var b strings.Builder

	b.WriteString(`You are an AI Recipe Generator.
Always respond only in valid JSON format without additional explanation.

Requirements:
1. Return a JSON object with a 5 "recipes" array.
2. Each item inside "recipes" must include:
   - "id" (unique number)
   - "title" (string)
   - "diet" (string: e.g vegetarian, vegan, non-veg, gluten-free, etc.)
   - "imageDescription" (string: detailed description for image generation)
   - "ingredients" (array of objects with "item", "quantity", "unit")
     * quantity must always be a number (e.g., 0.25 instead of 1/4, 0.5 instead of 1/2)
     * if extra info like "shredded" or "chopped" is needed, include it inside "item" or add a "note" field
   - "instructions" (array of strings, step-by-step cooking method)
   - "prepTime" (number, minutes)
   - "cookTime" (number, minutes)
   - "totalTime" (number, sum of prep + cook time)
   - "servings" (number)
   - "nutrition" (object: calories, protein, fat, carbs as numbers)
3. User can specify "diet" type.
4. User can choose specific "ingredients" to be included/excluded.
5. If no ingredients and diet type are specified, suggest based on categorized meals (breakfast, lunch, snacks, dinner).

Generate recipes for:
`)
	fmt.Fprintf(&b, "- Category: %s\n", req.Category)
	if req.DietType != "" {
		fmt.Fprintf(&b, "- Diet type: %s\n", req.DietType)
	}
	if len(req.Ingredients) > 0 {
		fmt.Fprintf(&b, "- Include ingredients: %s\n", strings.Join(req.Ingredients, ", "))
	}
	if req.PrepTime > 0 {
		fmt.Fprintf(&b, "- Preferred prep time: %d minutes\n", req.PrepTime)
	}

	b.WriteString(`
Example JSON Output:
{
  "recipes": [
    {
      "id": 1,
      "title": "Avocado Toast",
      "diet": "vegetarian",
      "imageDescription": "A plate of avocado toast garnished with chili flakes",
      "ingredients": [
        { "item": "Bread", "quantity": 2, "unit": "slices" },
        { "item": "Avocado", "quantity": 1, "unit": "medium" }
      ],
      "instructions": [
        "Toast the bread.",
        "Mash the avocado and spread it on toast."
      ],
      "prepTime": 5,
      "cookTime": 2,
      "totalTime": 7,
      "servings": 1,
      "nutrition": {
        "calories": 250,
        "protein": 6,
        "fat": 12,
        "carbs": 28
      }
    }
  ]
}
`)

	return b.String()
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

// geminiRequest is the generateContent request body
type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

// GenerateContent sends the prompt to the model and returns its raw text.
// Transport and quota failures propagate to the caller; there is no retry.
func (s *LLMService) GenerateContent(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: s.config,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL+"?key="+s.apiKey, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[LLMService] API request failed with status %d: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// SanitizeResponse strips Markdown code-fence delimiters around a JSON
// payload. Model output is not consistently fenced.
func SanitizeResponse(raw string) string {
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```", "")
	return strings.TrimSpace(raw)
}

// ParseRecipes sanitizes and parses raw model output into recipes.
// Parse failures return *MalformedOutputError; a payload without a recipes
// array returns *MissingRecipesError. Both carry the offending payload.
func ParseRecipes(raw string) ([]GeneratedRecipe, error) {
	text := SanitizeResponse(raw)

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		log.Printf("[LLMService] Invalid JSON from AI: %s", text)
		return nil, &MalformedOutputError{Raw: text, Err: err}
	}

	recipesRaw, ok := payload["recipes"]
	if !ok {
		return nil, &MissingRecipesError{Raw: json.RawMessage(text)}
	}

	// A JSON null decodes into a nil slice without error; the field must be
	// an actual array.
	var recipes []GeneratedRecipe
	if err := json.Unmarshal(recipesRaw, &recipes); err != nil || recipes == nil {
		return nil, &MissingRecipesError{Raw: json.RawMessage(text)}
	}

	return recipes, nil
}
