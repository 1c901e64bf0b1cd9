// internal/services/match_service.go
package services

import (
	"fmt"
	"sort"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/catalog"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

const maxMatchAlternatives = 2

type MatchService struct {
	catalog catalog.Source
}

type ScoredProduct struct {
	Product models.Product `json:"product"`
	Score   int            `json:"score"`
	Reasons []string       `json:"reasons"`
}

type MatchResult struct {
	Primary      ScoredProduct    `json:"primary"`
	Alternatives []ScoredProduct  `json:"alternatives"`
	Selection    models.Selection `json:"selection"`
	// Complete is false while some quiz questions are still unanswered.
	Complete bool `json:"complete"`
}

// MatchRequest accepts either a full selection or answers given one question
// at a time, as the quiz UI records them.
type MatchRequest struct {
	// Checked after the answers are merged in.
	models.Selection `validate:"-"`
	Answers []QuizAnswer `json:"answers,omitempty" validate:"max=4,dive"`
}

type QuizAnswer struct {
	Question string `json:"question" validate:"required"`
	Option   string `json:"option" validate:"required"`
}

func NewMatchService(source catalog.Source) *MatchService {
	return &MatchService{catalog: source}
}

// Match scores every catalog product against the selection and returns the
// best one plus up to two runners-up. Unanswered questions contribute nothing.
func (s *MatchService) Match(selection models.Selection) (*MatchResult, error) {
	products := s.catalog.Products()
	if len(products) == 0 {
		return nil, catalog.ErrEmptyCatalog
	}

	scored := make([]ScoredProduct, 0, len(products))
	for _, product := range products {
		scored = append(scored, scoreProduct(selection, product))
	}

	// Stable so equal scores keep catalog order
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	end := 1 + maxMatchAlternatives
	if end > len(scored) {
		end = len(scored)
	}

	alternatives := make([]ScoredProduct, 0, end-1)
	alternatives = append(alternatives, scored[1:end]...)

	return &MatchResult{
		Primary:      scored[0],
		Alternatives: alternatives,
		Selection:    selection,
		Complete:     selection.Complete(),
	}, nil
}

// ResolveSelection applies the answers on top of the selection and checks
// every answered option against the quiz definition.
func (s *MatchService) ResolveSelection(req *MatchRequest) (models.Selection, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return models.Selection{}, fmt.Errorf("validation failed: %w", err)
	}

	selection := req.Selection
	for _, answer := range req.Answers {
		if err := selection.Answer(answer.Question, answer.Option); err != nil {
			return models.Selection{}, fmt.Errorf("%s: %w", answer.Question, err)
		}
	}

	if err := utils.ValidateStruct(&selection); err != nil {
		return models.Selection{}, fmt.Errorf("%w: %w", models.ErrUnknownOption, err)
	}

	return selection, nil
}

func scoreProduct(selection models.Selection, product models.Product) ScoredProduct {
	result := ScoredProduct{
		Product: product,
		Reasons: []string{},
	}
	award := func(points int, reason string) {
		result.Score += points
		result.Reasons = append(result.Reasons, reason)
	}

	// Scenario
	switch {
	case isOneOf(selection.Scenario, models.ScenarioPortable, models.ScenarioBackup) &&
		product.Series == models.SeriesLite:
		award(30, "Lightweight Lite series suits portable and backup power")
	case isOneOf(selection.Scenario, models.ScenarioRV, models.ScenarioVan, models.ScenarioSolar) &&
		(product.Series == models.SeriesCore || product.Series == models.SeriesPlus):
		award(20, fmt.Sprintf("%s series is built for RV, van and solar systems", product.Series))
	}

	// Space
	switch {
	case selection.Space == models.SpaceTight && product.FormFactor.Compact():
		award(25, "Compact form factor fits tight installation spaces")
	case selection.Space == models.SpaceStandard && product.FormFactor == models.FormFactorStandard:
		award(25, "Standard form factor fits a regular battery compartment")
	}

	// Power
	capacity := catalog.ParseCapacityAh(product.Capacity)
	switch {
	case selection.Power == models.PowerLight && capacity <= 50:
		award(25, fmt.Sprintf("%dAh covers light daily loads", capacity))
	case selection.Power == models.PowerModerate && capacity == 100:
		award(25, "100Ah is the sweet spot for moderate daily use")
	case selection.Power == models.PowerHeavy && capacity >= 200:
		award(30, fmt.Sprintf("%dAh handles heavy loads", capacity))
	}

	// Climate
	switch {
	case selection.Climate == models.ClimateCold && product.HasHeating:
		award(35, "Self-heating keeps charging safe below freezing")
	case isOneOf(selection.Climate, models.ClimateWarm, models.ClimateCool) && !product.HasHeating:
		award(5, "No heating needed in mild climates")
	}

	return result
}

func isOneOf(value string, options ...string) bool {
	for _, option := range options {
		if value == option {
			return true
		}
	}
	return false
}
