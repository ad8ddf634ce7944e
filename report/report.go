// Package report derives descriptive statistics from survey records. All
// functions are pure over their input slice; nothing here persists state.
package report

import (
	"sort"

	"github.com/mawuli/field-survey/model"
)

type Overview struct {
	TotalSurveys           int            `json:"totalSurveys"`
	AverageAge             float64        `json:"averageAge"`
	GenderDistribution     map[string]int `json:"genderDistribution"`
	CultivationStatus      map[string]int `json:"cultivationStatus"`
	AverageHouseholdSize   float64        `json:"averageHouseholdSize"`
	AverageDependents      float64        `json:"averageDependents"`
	AverageYearsCultivating float64       `json:"averageYearsCultivating"`
}

func BuildOverview(surveys []model.Survey) Overview {
	o := Overview{
		GenderDistribution: map[string]int{},
		CultivationStatus:  map[string]int{},
	}
	o.TotalSurveys = len(surveys)
	if o.TotalSurveys == 0 {
		return o
	}

	var ageSum, householdSum, dependentsSum, yearsSum int
	for _, s := range surveys {
		ageSum += s.Age
		householdSum += s.HouseholdSize
		dependentsSum += s.DependentsUnder18
		yearsSum += s.YearsOfCultivation

		if s.Sex != "" {
			o.GenderDistribution[s.Sex]++
		}
		if s.CultivatesVegetables != "" {
			o.CultivationStatus[s.CultivatesVegetables]++
		}
	}

	n := float64(o.TotalSurveys)
	o.AverageAge = float64(ageSum) / n
	o.AverageHouseholdSize = float64(householdSum) / n
	o.AverageDependents = float64(dependentsSum) / n
	o.AverageYearsCultivating = float64(yearsSum) / n
	return o
}

// ChallengeStat summarizes one challenge kind across all respondents.
type ChallengeStat struct {
	Kind            model.ChallengeKind `json:"kind"`
	Count           int                 `json:"count"`
	AverageSeverity float64             `json:"averageSeverity"`
}

// BuildChallengeStats ranks challenge kinds by how many respondents
// selected them, with the mean reported severity.
func BuildChallengeStats(surveys []model.Survey) []ChallengeStat {
	counts := map[model.ChallengeKind]int{}
	severitySums := map[model.ChallengeKind]int{}
	severityCounts := map[model.ChallengeKind]int{}

	for _, s := range surveys {
		for kind, detail := range s.Challenges {
			if !detail.Selected {
				continue
			}
			counts[kind]++
			if detail.Severity > 0 {
				severitySums[kind] += detail.Severity
				severityCounts[kind]++
			}
		}
	}

	stats := make([]ChallengeStat, 0, len(counts))
	for kind, count := range counts {
		stat := ChallengeStat{Kind: kind, Count: count}
		if severityCounts[kind] > 0 {
			stat.AverageSeverity = float64(severitySums[kind]) / float64(severityCounts[kind])
		}
		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Kind < stats[j].Kind
	})
	return stats
}

// IncomeDistribution tallies respondents per monthly income bracket.
func IncomeDistribution(surveys []model.Survey) map[string]int {
	dist := map[string]int{}
	for _, s := range surveys {
		if s.MonthlyIncome != "" {
			dist[s.MonthlyIncome]++
		}
	}
	return dist
}

// GeographicCounts tallies respondents per reported location.
func GeographicCounts(surveys []model.Survey) map[string]int {
	dist := map[string]int{}
	for _, s := range surveys {
		if s.Location != "" {
			dist[s.Location]++
		}
	}
	return dist
}

// PracticeCounts tallies the multi-choice farming practices.
func PracticeCounts(surveys []model.Survey) map[string]int {
	dist := map[string]int{}
	for _, s := range surveys {
		for _, p := range s.FarmingPractice {
			dist[p]++
		}
	}
	return dist
}

// Merge unions local and remote record sets by survey id for the
// offline-tolerant dashboard view. The remote copy wins when both exist;
// local-only records (typically still pending) are kept.
func Merge(local, remote []model.Survey) []model.Survey {
	merged := make([]model.Survey, 0, len(local)+len(remote))
	seen := make(map[string]bool, len(remote))

	for _, s := range remote {
		merged = append(merged, s)
		seen[s.SurveyID] = true
	}
	for _, s := range local {
		if !seen[s.SurveyID] {
			merged = append(merged, s)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp > merged[j].Timestamp
	})
	return merged
}
