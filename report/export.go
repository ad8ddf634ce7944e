package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/mawuli/field-survey/model"
)

var csvHeader = []string{
	"Survey ID", "Enumerator Name", "Date", "Location",
	"Respondent Name", "Sex", "Age", "Marital Status", "Education",
	"Main Occupation", "Farming Primary Income", "Household Size",
	"Dependents Under 18", "Cultivates Vegetables", "Years of Cultivation",
	"Farm Location", "Land Ownership", "Area Under Cultivation",
	"Farming Practice", "Irrigates", "Irrigation Source",
	"Cultivation Frequency", "Leverage Technology", "Timestamp",
	"Sync Status",
}

// WriteCSV streams the flat export used by the reporting dashboard.
func WriteCSV(w io.Writer, surveys []model.Survey) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range surveys {
		row := []string{
			s.SurveyID,
			s.EnumeratorName,
			s.Date,
			s.Location,
			s.RespondentName,
			s.Sex,
			strconv.Itoa(s.Age),
			s.MaritalStatus,
			s.Education,
			s.MainOccupation,
			s.FarmingPrimaryIncome,
			strconv.Itoa(s.HouseholdSize),
			strconv.Itoa(s.DependentsUnder18),
			s.CultivatesVegetables,
			strconv.Itoa(s.YearsOfCultivation),
			s.FarmLocation,
			s.LandOwnership,
			s.AreaUnderCultivation,
			strings.Join(s.FarmingPractice, ";"),
			s.Irrigates,
			s.IrrigationSource,
			s.CultivationFrequency,
			s.LeverageTechnology,
			s.Timestamp,
			string(s.SyncStatus),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON streams the records as an indented JSON array.
func WriteJSON(w io.Writer, surveys []model.Survey) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(surveys)
}
