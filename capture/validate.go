package capture

import "github.com/mawuli/field-survey/model"

const required = "Required"

// validateSection recomputes the error set for one section. Sections E, G,
// H and I carry no required fields; the instructions step never blocks.
func validateSection(s Section, d *model.Survey) ValidationErrorSet {
	errs := ValidationErrorSet{}

	switch s {
	case Consent:
		if d.EnumeratorName == "" {
			errs["enumeratorName"] = "Enumerator name is required"
		}
		if d.Location == "" {
			errs["location"] = "Location is required"
		}
		if d.Consent != "yes" {
			errs["consent"] = "Consent is required"
		}

	case SectionA:
		if d.RespondentName == "" {
			errs["respondentName"] = required
		}
		if d.Sex == "" {
			errs["sex"] = required
		}
		if d.Age < 1 {
			errs["age"] = required
		}
		if d.MaritalStatus == "" {
			errs["maritalStatus"] = required
		}
		if d.Education == "" {
			errs["education"] = required
		}
		if d.MainOccupation == "" {
			errs["mainOccupation"] = required
		}
		if d.FarmingPrimaryIncome == "" {
			errs["farmingPrimaryIncome"] = required
		}
		if d.HouseholdSize < 1 {
			errs["householdSize"] = required
		}
		if d.DependentsUnder18 < 0 {
			errs["dependentsUnder18"] = required
		}

	case SectionB:
		if d.CultivatesVegetables == "" {
			errs["cultivatesVegetables"] = required
		}
		if d.CultivatesVegetables == "yes" {
			if d.YearsOfCultivation < 0 {
				errs["yearsOfCultivation"] = required
			}
			if d.FarmLocation == "" {
				errs["farmLocation"] = required
			}
			if d.LandOwnership == "" {
				errs["landOwnership"] = required
			}
			if d.AreaUnderCultivation == "" {
				errs["areaUnderCultivation"] = required
			}
			if len(d.FarmingPractice) == 0 {
				errs["farmingPractice"] = required
			}
			if d.Irrigates == "" {
				errs["irrigates"] = required
			}
			if d.Irrigates == "yes" && d.IrrigationSource == "" {
				errs["irrigationSource"] = required
			}
			if d.CultivationFrequency == "" {
				errs["cultivationFrequency"] = required
			}
			if d.LeverageTechnology == "" {
				errs["leverageTechnology"] = required
			}
		}

	case SectionC:
		if len(d.SeedSource) == 0 {
			errs["seedSource"] = required
		}
		if d.AvgProductionPerSeason == "" {
			errs["avgProductionPerSeason"] = required
		}
		if d.UsesFertilizers == "" {
			errs["usesFertilizers"] = required
		}
		if d.UsesFertilizers == "yes" && d.FertilizerType == "" {
			errs["fertilizerType"] = required
		}
		if d.UsesPesticides == "" {
			errs["usesPesticides"] = required
		}
		if d.UsesPesticides == "yes" && d.PesticideTypesDetails == "" {
			errs["pesticideTypesDetails"] = required
		}

	case SectionD:
		if d.SellsProduce == "" {
			errs["sellsProduce"] = required
		}
		if d.SellsProduce == "yes" {
			if len(d.MainBuyers) == 0 {
				errs["mainBuyers"] = required
			}
			if d.SellingMethod == "" {
				errs["sellingMethod"] = required
			}
			if d.MonthlyIncome == "" {
				errs["monthlyIncome"] = required
			}
			if d.HasRegularBuyer == "" {
				errs["hasRegularBuyer"] = required
			}
			if d.BelongsToGroup == "" {
				errs["belongsToGroup"] = required
			}
			if d.BelongsToGroup == "yes" {
				if d.GroupName == "" {
					errs["groupName"] = required
				}
				if d.GroupRole == "" {
					errs["groupRole"] = required
				}
			}
			if d.FarmManagementPractices == "" {
				errs["farmManagementPractices"] = required
			}
		}

	case SectionF:
		for kind, detail := range d.Challenges {
			if !detail.Selected || detail.Severity == 0 {
				continue
			}
			if detail.Severity < model.MinSeverity || detail.Severity > model.MaxSeverity {
				errs["challenges."+string(kind)] = "Severity must be between 1 and 5"
			}
		}
	}

	return errs
}
