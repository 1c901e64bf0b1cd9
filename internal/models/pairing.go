// internal/models/pairing.go
package models

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Optional distinguishes a field that is present in a table entry from one
// that is absent, independently of the value's zero value.
type Optional[T any] struct {
	value   T
	present bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) Present() bool {
	return o.present
}

func (o *Optional[T]) UnmarshalYAML(node *yaml.Node) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	o.value = v
	o.present = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// LoadRange is the continuous load a scenario draws, in watts.
type LoadRange struct {
	MinWatts float64 `json:"min_watts" yaml:"min_watts"`
	MaxWatts float64 `json:"max_watts" yaml:"max_watts"`
}

type ChargerRecommendation struct {
	Name    string `json:"name" yaml:"name"`
	Current string `json:"current,omitempty" yaml:"current"`
	Note    string `json:"note,omitempty" yaml:"note"`
}

type MPPTRecommendation struct {
	Name   string `json:"name" yaml:"name"`
	Rating string `json:"rating,omitempty" yaml:"rating"`
	Note   string `json:"note,omitempty" yaml:"note"`
}

type UpgradePath struct {
	From   string `json:"from" yaml:"from"`
	To     string `json:"to" yaml:"to"`
	Reason string `json:"reason,omitempty" yaml:"reason"`
}

func (u UpgradePath) Key() string {
	return u.From + "→" + u.To
}

// PairingFragment is the partial system-pairing advice attached to one
// content tag.
type PairingFragment struct {
	LoadRange    Optional[LoadRange]               `json:"load_range" yaml:"load_range"`
	Chargers     Optional[[]ChargerRecommendation] `json:"chargers" yaml:"chargers"`
	MPPT         Optional[[]MPPTRecommendation]    `json:"mppt" yaml:"mppt"`
	UpgradePaths Optional[[]UpgradePath]           `json:"upgrade_paths" yaml:"upgrade_paths"`
	Tips         Optional[[]string]                `json:"tips" yaml:"tips"`
}

// PairingProfile is the advice merged across every tag of a page.
type PairingProfile struct {
	LoadRange    LoadRange               `json:"load_range"`
	Chargers     []ChargerRecommendation `json:"chargers"`
	MPPT         []MPPTRecommendation    `json:"mppt"`
	UpgradePaths []UpgradePath           `json:"upgrade_paths"`
	Tips         []string                `json:"tips"`
}
