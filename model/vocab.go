package model

import "github.com/pkg/errors"

// VegetableKind is the closed vocabulary keying the per-crop sub-records.
// Unknown kinds are rejected when a record is deserialized.
type VegetableKind string

const (
	Tomato     VegetableKind = "tomato"
	Pepper     VegetableKind = "pepper"
	Onion      VegetableKind = "onion"
	Cabbage    VegetableKind = "cabbage"
	GardenEggs VegetableKind = "garden_eggs"
	Okra       VegetableKind = "okra"
	Carrot     VegetableKind = "carrot"
	Lettuce    VegetableKind = "lettuce"
	Cucumber   VegetableKind = "cucumber"
	OtherVeg   VegetableKind = "other"
)

var VegetableKinds = []VegetableKind{
	Tomato, Pepper, Onion, Cabbage, GardenEggs,
	Okra, Carrot, Lettuce, Cucumber, OtherVeg,
}

func (k VegetableKind) Known() bool {
	for _, known := range VegetableKinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k *VegetableKind) UnmarshalText(text []byte) error {
	kind := VegetableKind(text)
	if !kind.Known() {
		return errors.Errorf("unknown vegetable kind %q", text)
	}
	*k = kind
	return nil
}

// ChallengeKind is the closed vocabulary keying the per-challenge
// sub-records.
type ChallengeKind string

const (
	LackQualitySeed    ChallengeKind = "lack_quality_seed"
	HighCostInputs     ChallengeKind = "high_cost_inputs"
	PestDisease        ChallengeKind = "pest_disease"
	WaterShortage      ChallengeKind = "water_shortage"
	MarketAccess       ChallengeKind = "market_access"
	TransportCost      ChallengeKind = "transport_cost"
	PostHarvestLosses  ChallengeKind = "post_harvest_losses"
	LackCredit         ChallengeKind = "lack_credit"
	LackTraining       ChallengeKind = "lack_training"
	LandAccess         ChallengeKind = "land_access"
	WeatherClimate     ChallengeKind = "weather_climate"
	TheftVandalism     ChallengeKind = "theft_vandalism"
	GenderConstraints  ChallengeKind = "gender_constraints"
	OtherChallenge     ChallengeKind = "other"
)

var ChallengeKinds = []ChallengeKind{
	LackQualitySeed, HighCostInputs, PestDisease, WaterShortage,
	MarketAccess, TransportCost, PostHarvestLosses, LackCredit,
	LackTraining, LandAccess, WeatherClimate, TheftVandalism,
	GenderConstraints, OtherChallenge,
}

func (k ChallengeKind) Known() bool {
	for _, known := range ChallengeKinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k *ChallengeKind) UnmarshalText(text []byte) error {
	kind := ChallengeKind(text)
	if !kind.Known() {
		return errors.Errorf("unknown challenge kind %q", text)
	}
	*k = kind
	return nil
}

const (
	MinSeverity = 1
	MaxSeverity = 5
)

// Single-choice option sets used by the capture wizard and validation.
var (
	YesNoOptions = []string{"yes", "no"}

	SexOptions = []string{"male", "female"}

	MaritalStatusOptions = []string{
		"single", "married", "divorced", "widowed", "other",
	}

	EducationOptions = []string{
		"none", "primary", "jhs/lower_secondary", "shs/upper_secondary",
		"vocational/technical", "diploma", "bachelor", "master", "phd", "other",
	}

	OccupationOptions = []string{
		"vegetable_farmer", "student", "employed_non_farming",
		"other_farm_worker", "not_applicable",
	}

	FarmingPracticeOptions = []string{
		"open_field", "bed_system", "protected", "vertical_urban", "other",
	}
)
