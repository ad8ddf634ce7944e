package main

import (
	"context"
	"strings"

	"github.com/mawuli/field-survey/capture"
	"github.com/mawuli/field-survey/draftstore"
	"github.com/mawuli/field-survey/model"
)

const consentScript = `Consent script: "I am conducting a survey about youth
vegetable farming. This survey is voluntary and your responses will be kept
confidential. The information will be used for research purposes only. Do
you consent to participate in this survey?"`

const instructions = `Instructions: introduce yourself, read every question
aloud exactly as written, probe without suggesting answers, and record
responses as given. Skipped sections stay empty.`

func runCapture(ctx context.Context, store *draftstore.Store) {
	p := newPrompter()

	enumerator := p.text("Enumerator name")
	flow := capture.NewFlow(enumerator)
	draft := flow.Draft()

	p.say("Survey %s", draft.SurveyID)

	for flow.Section() != capture.Submitted {
		p.say("")
		p.say("--- %s ---", flow.Section())

		switch flow.Section() {
		case capture.Consent:
			promptConsent(p, draft)
			if draft.Consent == "no" {
				p.say("No consent given: thank the respondent and end the interview.")
				return
			}
		case capture.Instructions:
			p.say(instructions)
			p.pause("ready to start")
		case capture.SectionA:
			promptSectionA(p, draft)
		case capture.SectionB:
			promptSectionB(p, draft)
		case capture.SectionC:
			promptSectionC(p, draft)
		case capture.SectionD:
			promptSectionD(p, draft)
		case capture.SectionE:
			promptSectionE(p, draft)
		case capture.SectionF:
			promptSectionF(p, draft)
		case capture.SectionG:
			promptSectionG(p, draft)
		case capture.SectionH:
			promptSectionH(p, draft)
		case capture.SectionI:
			promptSectionI(p, draft)
		case capture.Preview:
			if done := promptPreview(ctx, p, flow, store); done {
				return
			}
			continue
		}

		if !flow.Next() {
			p.say("")
			p.say("Some answers are missing:")
			for field, msg := range flow.Errors() {
				p.say("  %s: %s", field, msg)
			}
		}
	}
}

// promptPreview handles the submit/edit loop; it reports whether the
// wizard should exit.
func promptPreview(ctx context.Context, p *prompter, flow *capture.Flow, store *draftstore.Store) bool {
	draft := flow.Draft()
	p.say("Respondent: %s, %s, age %d", draft.RespondentName, draft.Sex, draft.Age)
	p.say("Cultivates vegetables: %s", draft.CultivatesVegetables)
	p.say("Survey id: %s", draft.SurveyID)

	answer := strings.ToLower(p.text("submit, edit <a-i>, or quit"))
	switch {
	case answer == "submit":
		if err := flow.Submit(ctx, store); err != nil {
			p.say("Failed to save survey, please try again: %s", err)
			return false
		}
		p.say("Survey %s saved locally, pending sync.", draft.SurveyID)
		return true

	case answer == "quit":
		p.say("Survey discarded.")
		return true

	case strings.HasPrefix(answer, "edit "):
		target, ok := sectionByLetter(strings.TrimPrefix(answer, "edit "))
		if !ok {
			p.say("Unknown section, use a letter a-i.")
			return false
		}
		if err := flow.Jump(target); err != nil {
			p.say("%s", err)
		}
		return false

	default:
		return false
	}
}

func sectionByLetter(letter string) (capture.Section, bool) {
	letter = strings.TrimSpace(letter)
	if len(letter) != 1 || letter[0] < 'a' || letter[0] > 'i' {
		return 0, false
	}
	return capture.SectionA + capture.Section(letter[0]-'a'), true
}

func promptConsent(p *prompter, d *model.Survey) {
	if d.EnumeratorName == "" {
		d.EnumeratorName = p.text("Enumerator name")
	}
	d.Location = p.text("Location (Region/District/Community)")
	p.say(consentScript)
	d.Consent = p.yesNo("Respondent gave consent?")
}

func promptSectionA(p *prompter, d *model.Survey) {
	d.RespondentName = p.text("Respondent name")
	d.Sex = p.choice("Sex", model.SexOptions)
	d.Age = p.number("Age")
	d.MaritalStatus = p.choice("Marital status", model.MaritalStatusOptions)
	d.Education = p.choice("Education level", model.EducationOptions)
	d.MainOccupation = p.choice("Main occupation", model.OccupationOptions)
	d.FarmingPrimaryIncome = p.yesNo("Is farming the primary source of income?")
	d.HouseholdSize = p.number("Household size")
	d.DependentsUnder18 = p.number("Dependents under 18")
}

func promptSectionB(p *prompter, d *model.Survey) {
	d.CultivatesVegetables = p.yesNo("Do you cultivate vegetables?")
	if d.CultivatesVegetables != "yes" {
		return
	}

	d.YearsOfCultivation = p.number("Years of cultivation")
	d.FarmLocation = p.text("Farm location")
	d.LandOwnership = p.text("Land ownership")
	if d.LandOwnership == "other" {
		d.LandOwnershipOther = p.text("Specify other land ownership")
	}
	d.AreaUnderCultivation = p.text("Area under cultivation")
	d.FarmingPractice = p.multi("Farming practices", model.FarmingPracticeOptions)
	if contains(d.FarmingPractice, "other") {
		d.FarmingPracticeOther = p.text("Specify other farming practice")
	}
	d.Irrigates = p.yesNo("Do you irrigate?")
	if d.Irrigates == "yes" {
		d.IrrigationSource = p.text("Irrigation source")
		if d.IrrigationSource == "other" {
			d.IrrigationSourceOther = p.text("Specify other irrigation source")
		}
	}
	d.CultivationFrequency = p.text("Cultivation frequency")
	d.LeverageTechnology = p.yesNo("Do you leverage technology?")
}

func promptSectionC(p *prompter, d *model.Survey) {
	p.say("Which vegetables do you grow?")
	for _, kind := range model.VegetableKinds {
		if p.yesNo("  "+string(kind)) != "yes" {
			continue
		}
		detail := model.VegetableDetail{Selected: true}
		detail.Area = p.text("    area")
		detail.Yield = p.text("    yield")
		d.Vegetables[kind] = detail
	}
	if d.Vegetables[model.OtherVeg].Selected {
		d.VegetablesOther = p.text("Specify other vegetables")
	}

	d.SeedSource = p.multi("Seed sources", []string{
		"own_saved", "agro_dealer", "market", "cooperative", "other",
	})
	if contains(d.SeedSource, "other") {
		d.SeedSourceOther = p.text("Specify other seed source")
	}
	d.AvgProductionPerSeason = p.text("Average production per season")
	d.UsesFertilizers = p.yesNo("Do you use fertilizers?")
	if d.UsesFertilizers == "yes" {
		d.FertilizerType = p.text("Fertilizer type")
		if d.FertilizerType == "other" {
			d.FertilizerTypeOther = p.text("Specify other fertilizer type")
		}
	}
	d.UsesPesticides = p.yesNo("Do you use pesticides?")
	if d.UsesPesticides == "yes" {
		d.PesticideTypesDetails = p.text("Pesticide types and details")
	}
}

func promptSectionD(p *prompter, d *model.Survey) {
	d.SellsProduce = p.yesNo("Do you sell your produce?")
	if d.SellsProduce != "yes" {
		return
	}

	d.MainBuyers = p.multi("Main buyers", []string{
		"consumers", "market_traders", "retailers", "processors", "exporters", "other",
	})
	if contains(d.MainBuyers, "other") {
		d.MainBuyersOther = p.text("Specify other buyers")
	}
	d.SellingMethod = p.text("Selling method")
	if d.SellingMethod == "other" {
		d.SellingMethodOther = p.text("Specify other selling method")
	}
	d.MonthlyIncome = p.text("Monthly income range")
	d.HasRegularBuyer = p.yesNo("Do you have a regular buyer?")
	d.BelongsToGroup = p.yesNo("Do you belong to a farmer group?")
	if d.BelongsToGroup == "yes" {
		d.GroupName = p.text("Group name")
		d.GroupRole = p.text("Role in the group")
		if d.GroupRole == "other" {
			d.GroupRoleOther = p.text("Specify other role")
		}
	}
	d.FarmManagementPractices = p.text("Farm management practices")
	if d.FarmManagementPractices == "other" {
		d.FarmManagementPracticesOther = p.text("Specify other practices")
	}
}

func promptSectionE(p *prompter, d *model.Survey) {
	d.HasExtensionAccess = p.yesNo("Access to extension services?")
	if d.HasExtensionAccess == "yes" {
		d.ExtensionSource = p.text("Extension source")
		if d.ExtensionSource == "other" {
			d.ExtensionSourceOther = p.text("Specify other extension source")
		}
	}
	d.ReceivedTraining = p.yesNo("Received training?")
	if d.ReceivedTraining == "yes" {
		d.TrainingTopics = p.text("Training topics")
		d.TrainingYear = p.text("Training year")
	}
	d.HasCredit = p.yesNo("Access to credit?")
	if d.HasCredit == "yes" {
		d.CreditSource = p.text("Credit source")
		if d.CreditSource == "other" {
			d.CreditSourceOther = p.text("Specify other credit source")
		}
	}
	d.InputAccess = p.text("Access to inputs")
	d.HasStorage = p.yesNo("Access to storage?")
}

func promptSectionF(p *prompter, d *model.Survey) {
	p.say("Which challenges affect you? Rate severity 1 (not a problem) to 5 (very severe).")
	for _, kind := range model.ChallengeKinds {
		if p.yesNo("  "+string(kind)) != "yes" {
			continue
		}
		detail := model.ChallengeDetail{Selected: true}
		detail.Severity = p.number("    severity (1-5)")
		detail.Description = p.text("    description")
		d.Challenges[kind] = detail
	}
	if d.Challenges[model.OtherChallenge].Selected {
		d.ChallengeOther = p.text("Specify other challenge")
	}
	d.MostImportantChallenge = p.text("Most important challenge")
	d.TriedStrategies = p.yesNo("Tried coping strategies?")
	if d.TriedStrategies == "yes" {
		d.Strategies = p.text("Which strategies?")
		d.StrategiesSuccessful = p.yesNo("Were they successful?")
	}
}

func promptSectionG(p *prompter, d *model.Survey) {
	d.OwnsMobilePhone = p.yesNo("Owns a mobile phone?")
	d.UsesInternetForFarming = p.yesNo("Uses internet for farming?")
	d.Platforms = p.multi("Platforms used", []string{
		"whatsapp", "facebook", "youtube", "tiktok", "sms", "other",
	})
	if contains(d.Platforms, "other") {
		d.PlatformsOther = p.text("Specify other platforms")
	}
	d.WouldUseSMS = p.yesNo("Would use SMS advisories?")
	d.InterestedInClimate = p.yesNo("Interested in climate information?")
}

func promptSectionH(p *prompter, d *model.Survey) {
	d.PlansToContinue = p.yesNo("Plans to continue farming?")
	d.EncourageExpansion1 = p.text("What would encourage expansion? (1)")
	d.EncourageExpansion2 = p.text("What would encourage expansion? (2)")
	d.EncourageExpansion3 = p.text("What would encourage expansion? (3)")
	d.SupportNeeded1 = p.text("Support needed (1)")
	d.SupportNeeded2 = p.text("Support needed (2)")
	d.SupportNeeded3 = p.text("Support needed (3)")
}

func promptSectionI(p *prompter, d *model.Survey) {
	d.Improvement1 = p.text("Suggested improvement (1)")
	d.Improvement2 = p.text("Suggested improvement (2)")
	d.Improvement3 = p.text("Suggested improvement (3)")
	d.AdditionalComments = p.text("Additional comments")
	d.EnumeratorComments = p.text("Enumerator comments")
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
