package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// EnrichmentService fills in secondary nutrients from the
// OpenFoodFacts database. It is best-effort decoration of the ledger:
// a miss or an unreachable service yields "not found", never an error,
// so a meal still gets logged with its primary macros.
type EnrichmentService struct {
	baseURL string
	client  *http.Client
}

func NewEnrichmentService() *EnrichmentService {
	base := os.Getenv("OPENFOODFACTS_URL")
	if base == "" {
		base = "https://world.openfoodfacts.org"
	}
	return &EnrichmentService{
		baseURL: base,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Enrichment holds the secondary nutrients and quality labels for one
// food, already scaled to the recognized quantity.
type Enrichment struct {
	FiberG    float64
	SugarG    float64
	SodiumMg  float64
	VitaminA  float64
	VitaminC  float64
	VitaminD  float64
	CalciumMg float64
	IronMg    float64

	NutriScore *string // "A".."E"
	NovaGroup  int
	Additives  []string
	Allergens  []string
}

type offSearchResponse struct {
	Products []struct {
		Nutriments      map[string]float64 `json:"nutriments"`
		NutriscoreGrade string             `json:"nutriscore_grade"`
		NovaGroup       int                `json:"nova_group"`
		AdditivesTags   []string           `json:"additives_tags"`
		AllergensTags   []string           `json:"allergens_tags"`
	} `json:"products"`
}

// Lookup searches OpenFoodFacts for the food name and scales its
// per-100g nutriments to quantityG. Returns (nil, nil) when nothing
// matches or the service is unavailable.
func (s *EnrichmentService) Lookup(ctx context.Context, foodName string, quantityG float64) (*Enrichment, error) {
	u := fmt.Sprintf(
		"%s/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1&page_size=1",
		s.baseURL, url.QueryEscape(foodName),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil // degrade, never abort ingestion
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var sr offSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, nil
	}
	if len(sr.Products) == 0 {
		return nil, nil
	}

	p := sr.Products[0]
	scale := func(key string) float64 {
		if v, ok := p.Nutriments[key]; ok {
			return v * quantityG / 100
		}
		return 0
	}

	e := &Enrichment{
		FiberG:    scale("fiber_100g"),
		SugarG:    scale("sugars_100g"),
		SodiumMg:  scale("sodium_100g"),
		VitaminA:  scale("vitamin-a_100g"),
		VitaminC:  scale("vitamin-c_100g"),
		VitaminD:  scale("vitamin-d_100g"),
		CalciumMg: scale("calcium_100g"),
		IronMg:    scale("iron_100g"),
		NovaGroup: p.NovaGroup,
		Additives: p.AdditivesTags,
		Allergens: p.AllergensTags,
	}
	if g := strings.ToUpper(strings.TrimSpace(p.NutriscoreGrade)); g >= "A" && g <= "E" && len(g) == 1 {
		e.NutriScore = &g
	}
	return e, nil
}
