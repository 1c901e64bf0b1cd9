// internal/models/recommendation.go
package models

import (
	"errors"
)

// Battery selector question keys
const (
	QuestionScenario = "scenario"
	QuestionSpace    = "space"
	QuestionPower    = "power"
	QuestionClimate  = "climate"
)

var QuizQuestionKeys = []string{QuestionScenario, QuestionSpace, QuestionPower, QuestionClimate}

// Option ids the scoring rules react to
const (
	ScenarioPortable = "portable"
	ScenarioBackup   = "backup"
	ScenarioRV       = "rv"
	ScenarioVan      = "van"
	ScenarioSolar    = "solar"

	SpaceTight    = "tight"
	SpaceStandard = "standard"

	PowerLight    = "light"
	PowerModerate = "moderate"
	PowerHeavy    = "heavy"

	ClimateCold = "cold"
	ClimateCool = "cool"
	ClimateWarm = "warm"
)

var (
	ErrUnknownQuestion  = errors.New("unknown quiz question")
	ErrQuestionAnswered = errors.New("quiz question already answered")
	ErrUnknownOption    = errors.New("unknown quiz option")
)

// Selection holds the battery selector answers. An empty field means the
// question has not been answered yet.
type Selection struct {
	Scenario string `json:"scenario,omitempty" validate:"omitempty,quiz_option=scenario"`
	Space    string `json:"space,omitempty" validate:"omitempty,quiz_option=space"`
	Power    string `json:"power,omitempty" validate:"omitempty,quiz_option=power"`
	Climate  string `json:"climate,omitempty" validate:"omitempty,quiz_option=climate"`
}

func (s *Selection) field(question string) (*string, error) {
	switch question {
	case QuestionScenario:
		return &s.Scenario, nil
	case QuestionSpace:
		return &s.Space, nil
	case QuestionPower:
		return &s.Power, nil
	case QuestionClimate:
		return &s.Climate, nil
	}
	return nil, ErrUnknownQuestion
}

// Answer records the option for a question. Each question takes one answer
// until Reset is called.
func (s *Selection) Answer(question, option string) error {
	f, err := s.field(question)
	if err != nil {
		return err
	}
	if *f != "" {
		return ErrQuestionAnswered
	}
	*f = option
	return nil
}

func (s Selection) Get(question string) string {
	f, err := s.field(question)
	if err != nil {
		return ""
	}
	return *f
}

func (s Selection) Answered() int {
	n := 0
	for _, key := range QuizQuestionKeys {
		if s.Get(key) != "" {
			n++
		}
	}
	return n
}

func (s Selection) Complete() bool {
	return s.Answered() == len(QuizQuestionKeys)
}

func (s *Selection) Reset() {
	*s = Selection{}
}

// Appliance is one row of the power calculator.
type Appliance struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Watts       float64 `json:"watts"`
	HoursPerDay float64 `json:"hours_per_day"`
	Quantity    int     `json:"quantity"`
}

func (a Appliance) DailyWh() float64 {
	return a.Watts * a.HoursPerDay * float64(a.Quantity)
}

// Sanitized clamps user input into the calculator's domain: non-negative
// values and at most 24 hours per day.
func (a Appliance) Sanitized() Appliance {
	if a.Watts < 0 {
		a.Watts = 0
	}
	if a.HoursPerDay < 0 {
		a.HoursPerDay = 0
	}
	if a.HoursPerDay > 24 {
		a.HoursPerDay = 24
	}
	if a.Quantity < 0 {
		a.Quantity = 0
	}
	return a
}
