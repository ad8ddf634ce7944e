package model

import "time"

type SyncStatus string

const (
	StatusPending SyncStatus = "pending"
	StatusSynced  SyncStatus = "synced"
	StatusFailed  SyncStatus = "failed"
)

// Survey is the full record captured for one respondent. The JSON field
// names are the wire format shared by the draft store, the sync batch and
// the remote API, so they must not change independently.
type Survey struct {
	SurveyID       string     `json:"surveyId" validate:"required"`
	EnumeratorName string     `json:"enumeratorName" validate:"required"`
	Date           string     `json:"date"`
	Location       string     `json:"location"`
	Consent        string     `json:"consent"`
	Timestamp      string     `json:"timestamp"`
	SyncStatus     SyncStatus `json:"syncStatus"`
	SyncedAt       string     `json:"syncedAt,omitempty"`

	// Section A: biodata
	RespondentName       string `json:"respondentName" validate:"required"`
	Sex                  string `json:"sex"`
	Age                  int    `json:"age"`
	MaritalStatus        string `json:"maritalStatus"`
	Education            string `json:"education"`
	MainOccupation       string `json:"mainOccupation"`
	FarmingPrimaryIncome string `json:"farmingPrimaryIncome"`
	HouseholdSize        int    `json:"householdSize"`
	DependentsUnder18    int    `json:"dependentsUnder18"`

	// Section B: farm profile
	CultivatesVegetables  string   `json:"cultivatesVegetables"`
	YearsOfCultivation    int      `json:"yearsOfCultivation"`
	FarmLocation          string   `json:"farmLocation"`
	LandOwnership         string   `json:"landOwnership"`
	LandOwnershipOther    string   `json:"landOwnershipOther,omitempty"`
	AreaUnderCultivation  string   `json:"areaUnderCultivation"`
	FarmingPractice       []string `json:"farmingPractice"`
	FarmingPracticeOther  string   `json:"farmingPracticeOther,omitempty"`
	Irrigates             string   `json:"irrigates"`
	IrrigationSource      string   `json:"irrigationSource"`
	IrrigationSourceOther string   `json:"irrigationSourceOther,omitempty"`
	CultivationFrequency  string   `json:"cultivationFrequency"`
	LeverageTechnology    string   `json:"leverageTechnology"`

	// Section C: vegetables
	Vegetables             VegetableMap `json:"vegetables"`
	VegetablesOther        string       `json:"vegetablesOther,omitempty"`
	SeedSource             []string     `json:"seedSource"`
	SeedSourceOther        string       `json:"seedSourceOther,omitempty"`
	AvgProductionPerSeason string       `json:"avgProductionPerSeason"`
	UsesFertilizers        string       `json:"usesFertilizers"`
	FertilizerType         string       `json:"fertilizerType"`
	FertilizerTypeOther    string       `json:"fertilizerTypeOther,omitempty"`
	UsesPesticides         string       `json:"usesPesticides"`
	PesticideTypesDetails  string       `json:"pesticideTypesDetails"`

	// Section D: marketing
	SellsProduce                 string   `json:"sellsProduce"`
	MainBuyers                   []string `json:"mainBuyers"`
	MainBuyersOther              string   `json:"mainBuyersOther,omitempty"`
	SellingMethod                string   `json:"sellingMethod"`
	SellingMethodOther           string   `json:"sellingMethodOther,omitempty"`
	MonthlyIncome                string   `json:"monthlyIncome"`
	HasRegularBuyer              string   `json:"hasRegularBuyer"`
	BelongsToGroup               string   `json:"belongsToGroup"`
	GroupName                    string   `json:"groupName"`
	GroupRole                    string   `json:"groupRole"`
	GroupRoleOther               string   `json:"groupRoleOther,omitempty"`
	FarmManagementPractices      string   `json:"farmManagementPractices"`
	FarmManagementPracticesOther string   `json:"farmManagementPracticesOther,omitempty"`

	// Section E: services
	HasExtensionAccess   string `json:"hasExtensionAccess"`
	ExtensionSource      string `json:"extensionSource"`
	ExtensionSourceOther string `json:"extensionSourceOther,omitempty"`
	ReceivedTraining     string `json:"receivedTraining"`
	TrainingTopics       string `json:"trainingTopics"`
	TrainingYear         string `json:"trainingYear"`
	HasCredit            string `json:"hasCredit"`
	CreditSource         string `json:"creditSource"`
	CreditSourceOther    string `json:"creditSourceOther,omitempty"`
	InputAccess          string `json:"inputAccess"`
	HasStorage           string `json:"hasStorage"`

	// Section F: challenges
	Challenges             ChallengeMap `json:"challenges"`
	ChallengeOther         string       `json:"challengeOther"`
	MostImportantChallenge string       `json:"mostImportantChallenge"`
	TriedStrategies        string       `json:"triedStrategies"`
	Strategies             string       `json:"strategies"`
	StrategiesSuccessful   string       `json:"strategiesSuccessful"`

	// Section G: technology
	OwnsMobilePhone        string   `json:"ownsMobilePhone"`
	UsesInternetForFarming string   `json:"usesInternetForFarming"`
	Platforms              []string `json:"platforms"`
	PlatformsOther         string   `json:"platformsOther,omitempty"`
	WouldUseSMS            string   `json:"wouldUseSMS"`
	InterestedInClimate    string   `json:"interestedInClimate"`

	// Section H: aspirations
	PlansToContinue     string `json:"plansToContinue"`
	EncourageExpansion1 string `json:"encourageExpansion1"`
	EncourageExpansion2 string `json:"encourageExpansion2"`
	EncourageExpansion3 string `json:"encourageExpansion3"`
	SupportNeeded1      string `json:"supportNeeded1"`
	SupportNeeded2      string `json:"supportNeeded2"`
	SupportNeeded3      string `json:"supportNeeded3"`

	// Section I: suggestions
	Improvement1       string `json:"improvement1"`
	Improvement2       string `json:"improvement2"`
	Improvement3       string `json:"improvement3"`
	AdditionalComments string `json:"additionalComments"`
	EnumeratorComments string `json:"enumeratorComments"`
}

// NewDraft returns a survey with a fresh id and all answers at their zero
// values, ready for the capture flow.
func NewDraft(enumeratorName string) Survey {
	now := time.Now()
	return Survey{
		SurveyID:        NewSurveyID(),
		EnumeratorName:  enumeratorName,
		Date:            now.Format("2006-01-02"),
		Timestamp:       now.UTC().Format(time.RFC3339),
		SyncStatus:      StatusPending,
		FarmingPractice: []string{},
		Vegetables:      VegetableMap{},
		SeedSource:      []string{},
		MainBuyers:      []string{},
		Challenges:      ChallengeMap{},
		Platforms:       []string{},
	}
}

// VegetableDetail is the per-crop answer attached to a selected vegetable.
type VegetableDetail struct {
	Selected bool   `json:"selected"`
	Area     string `json:"area,omitempty"`
	Yield    string `json:"yield,omitempty"`
}

// ChallengeDetail is the per-challenge answer; severity runs 1 (not a
// problem) to 5 (very severe) and only matters when selected.
type ChallengeDetail struct {
	Selected    bool   `json:"selected"`
	Severity    int    `json:"severity,omitempty"`
	Description string `json:"description,omitempty"`
}

type VegetableMap map[VegetableKind]VegetableDetail

type ChallengeMap map[ChallengeKind]ChallengeDetail

// SyncResult is the outcome of one batch reconciliation, shared between
// the /sync endpoint response and the reconciler.
type SyncResult struct {
	Success     bool     `json:"success"`
	SyncedCount int      `json:"syncedCount"`
	FailedCount int      `json:"failedCount"`
	Errors      []string `json:"errors"`
}

// Counts tallies locally stored drafts per sync status.
type Counts struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Synced  int `json:"synced"`
	Failed  int `json:"failed"`
}
