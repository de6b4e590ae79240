package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/olivierjeannette/skaliProgV1-sub009/utils"
)

// VisionService talks to the food-recognition endpoint: it sends a
// preprocessed photo plus a schema-hint prompt and gets back the
// model's text, which contains a JSON object listing the foods.
type VisionService struct {
	baseURL string
	client  *http.Client
}

func NewVisionService() *VisionService {
	return &VisionService{
		baseURL: os.Getenv("VISION_API_URL"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// FoodCandidate is one recognized food with the model's portion and
// macro estimates.
type FoodCandidate struct {
	Name      string  `json:"name"`
	QuantityG float64 `json:"quantity_g"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fats      float64 `json:"fats"`
}

type visionRequest struct {
	Image     string `json:"image"`
	ImageType string `json:"image_type"`
	Prompt    string `json:"prompt"`
}

type visionResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

type foodsPayload struct {
	Foods []FoodCandidate `json:"foods"`
}

const visionPrompt = `Analyze this meal photo and identify ALL visible foods.

For each detected food, estimate:
- The precise name of the food
- The approximate quantity in grams
- Calories
- Protein (g)
- Carbs (g)
- Fats (g)

Respond ONLY with valid JSON in this exact format:
{
    "foods": [
        {
            "name": "Roast chicken",
            "quantity_g": 150,
            "calories": 248,
            "protein": 46,
            "carbs": 0,
            "fats": 5.4
        }
    ]
}

Be precise about quantities by observing the plate and portion sizes.`

// AnalyzeMeal submits a preprocessed JPEG and returns the recognized
// foods. An empty slice with nil error means the service answered but
// saw no food; transport and parse failures wrap
// utils.ErrRecognitionService.
func (s *VisionService) AnalyzeMeal(ctx context.Context, image []byte) ([]FoodCandidate, error) {
	payload := visionRequest{
		Image:     base64.StdEncoding.EncodeToString(image),
		ImageType: "image/jpeg",
		Prompt:    visionPrompt,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal vision payload: %v", utils.ErrRecognitionService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/vision", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create vision request: %v", utils.ErrRecognitionService, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrRecognitionService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read vision response: %v", utils.ErrRecognitionService, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: vision API error %d: %s", utils.ErrRecognitionService, resp.StatusCode, string(body))
	}

	var vr visionResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("%w: failed to parse vision JSON: %v", utils.ErrRecognitionService, err)
	}
	if len(vr.Content) == 0 {
		return nil, fmt.Errorf("%w: vision response has no content", utils.ErrRecognitionService)
	}

	foods, err := extractFoods(vr.Content[0].Text)
	if err != nil {
		return nil, err
	}
	return foods, nil
}

// extractFoods pulls the foods JSON object out of the model text. The
// model sometimes wraps the JSON in prose, so the first '{' through
// the last '}' is taken as the object.
func extractFoods(text string) ([]FoodCandidate, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in vision response", utils.ErrRecognitionService)
	}

	var fp foodsPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &fp); err != nil {
		return nil, fmt.Errorf("%w: invalid foods JSON: %v", utils.ErrRecognitionService, err)
	}
	return fp.Foods, nil
}
