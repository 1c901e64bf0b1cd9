// internal/services/sizing_service.go
package services

import (
	"errors"
	"math"
	"sort"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/catalog"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
)

// Sizing constants for a 12V LiFePO4 system
const (
	NominalVoltage     = 12.8
	UsableDepth        = 0.8
	SafetyMargin       = 1.2
	CandidateThreshold = 0.8

	maxSizingCandidates = 3
)

var ErrInvalidAutonomy = errors.New("autonomy days must be at least 1")

type SizingService struct {
	catalog catalog.Source
}

type SizingCandidate struct {
	Product      models.Product `json:"product"`
	CapacityAh   int            `json:"capacity_ah"`
	DifferenceAh int            `json:"difference_ah"`
}

type SizingResult struct {
	DailyWh       float64           `json:"daily_wh"`
	AutonomyDays  int               `json:"autonomy_days"`
	TotalWhNeeded float64           `json:"total_wh_needed"`
	RecommendedAh int               `json:"recommended_ah"`
	Candidates    []SizingCandidate `json:"candidates"`
	NeedsParallel bool              `json:"needs_parallel"`
}

func NewSizingService(source catalog.Source) *SizingService {
	return &SizingService{catalog: source}
}

// RecommendedAh converts an energy need into amp-hours at nominal voltage,
// allowing for usable depth of discharge and a safety margin.
func RecommendedAh(totalWh float64) int {
	return int(math.Ceil((totalWh / NominalVoltage) / UsableDepth * SafetyMargin))
}

// Size computes the energy need of the appliance list and picks the closest
// catalog capacities. An empty appliance list sizes to zero.
func (s *SizingService) Size(appliances []models.Appliance, autonomyDays int) (*SizingResult, error) {
	if autonomyDays < 1 {
		return nil, ErrInvalidAutonomy
	}

	dailyWh := 0.0
	for _, appliance := range appliances {
		dailyWh += appliance.DailyWh()
	}

	totalWh := dailyWh * float64(autonomyDays)
	recommended := RecommendedAh(totalWh)
	threshold := float64(recommended) * CandidateThreshold

	candidates := []SizingCandidate{}
	for _, product := range s.catalog.Products() {
		capacity := catalog.ParseCapacityAh(product.Capacity)
		if float64(capacity) < threshold {
			continue
		}
		candidates = append(candidates, SizingCandidate{
			Product:      product,
			CapacityAh:   capacity,
			DifferenceAh: absInt(capacity - recommended),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DifferenceAh < candidates[j].DifferenceAh
	})

	if len(candidates) > maxSizingCandidates {
		candidates = candidates[:maxSizingCandidates]
	}

	return &SizingResult{
		DailyWh:       dailyWh,
		AutonomyDays:  autonomyDays,
		TotalWhNeeded: totalWh,
		RecommendedAh: recommended,
		Candidates:    candidates,
		NeedsParallel: len(candidates) == 0,
	}, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
