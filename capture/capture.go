// Package capture drives the enumerator through the survey sections,
// gating each advance on the section's required fields and persisting the
// finished draft to the local store.
package capture

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/mawuli/field-survey/model"
)

// Section identifies one step of the capture flow, numbered in traversal
// order.
type Section int

const (
	Consent Section = iota
	Instructions
	SectionA
	SectionB
	SectionC
	SectionD
	SectionE
	SectionF
	SectionG
	SectionH
	SectionI
	Preview
	Submitted
)

var sectionNames = map[Section]string{
	Consent:      "Survey Information & Consent",
	Instructions: "Enumerator Instructions",
	SectionA:     "Household & Respondent Biodata",
	SectionB:     "Farm Profile",
	SectionC:     "Vegetables",
	SectionD:     "Marketing",
	SectionE:     "Services",
	SectionF:     "Challenges",
	SectionG:     "Technology",
	SectionH:     "Aspirations",
	SectionI:     "Suggestions",
	Preview:      "Preview & Submit",
	Submitted:    "Submitted",
}

func (s Section) String() string {
	return sectionNames[s]
}

// ValidationErrorSet maps field name to message; it is recomputed whole on
// every validation pass.
type ValidationErrorSet map[string]string

// DraftStore is the slice of the local store the flow needs to finish.
type DraftStore interface {
	Put(ctx context.Context, survey model.Survey) error
}

// Flow holds the in-memory draft and the current section.
type Flow struct {
	section Section
	draft   model.Survey
	errors  ValidationErrorSet
}

func NewFlow(enumeratorName string) *Flow {
	return &Flow{
		section: Consent,
		draft:   model.NewDraft(enumeratorName),
		errors:  ValidationErrorSet{},
	}
}

// Resume rebuilds a flow around an existing draft, positioned at Preview
// so any section can be re-entered.
func Resume(draft model.Survey) *Flow {
	return &Flow{
		section: Preview,
		draft:   draft,
		errors:  ValidationErrorSet{},
	}
}

func (f *Flow) Section() Section { return f.section }

// Draft exposes the in-memory record for the UI layer to fill in.
func (f *Flow) Draft() *model.Survey { return &f.draft }

// Errors is the last validation result for the current section.
func (f *Flow) Errors() ValidationErrorSet { return f.errors }

// Next validates the current section and advances when it passes,
// following the cultivation branch. It reports whether the flow moved.
func (f *Flow) Next() bool {
	if f.section >= Preview {
		return false
	}

	f.errors = validateSection(f.section, &f.draft)
	if len(f.errors) > 0 {
		return false
	}

	f.section = nextSection(f.section, &f.draft)
	return true
}

// Prev moves back one section, mirroring the forward skip.
func (f *Flow) Prev() {
	if f.section <= Consent || f.section >= Submitted {
		return
	}
	f.errors = ValidationErrorSet{}
	f.section = prevSection(f.section, &f.draft)
}

// Jump re-enters an earlier section from the preview; its validation only
// runs again on the next advance.
func (f *Flow) Jump(target Section) error {
	if f.section != Preview {
		return errors.New("can only jump from the preview")
	}
	if target < Consent || target >= Preview {
		return errors.Errorf("cannot jump to %s", target)
	}
	f.errors = ValidationErrorSet{}
	f.section = target
	return nil
}

// Submit persists the accumulated draft as pending and moves the flow to
// its terminal state. On a storage error the flow stays at Preview.
func (f *Flow) Submit(ctx context.Context, store DraftStore) error {
	if f.section != Preview {
		return errors.New("not at the preview step")
	}

	f.draft.Timestamp = time.Now().UTC().Format(time.RFC3339)
	f.draft.SyncStatus = model.StatusPending
	f.draft.SyncedAt = ""

	if err := store.Put(ctx, f.draft); err != nil {
		return errors.Wrap(err, "submit survey")
	}

	f.section = Submitted
	return nil
}

// nextSection returns the skip-aware successor: a respondent who does not
// cultivate vegetables goes straight from the farm profile to the
// challenges section, leaving C, D and E untouched.
func nextSection(s Section, draft *model.Survey) Section {
	if s == SectionB && draft.CultivatesVegetables == "no" {
		return SectionF
	}
	return s + 1
}

func prevSection(s Section, draft *model.Survey) Section {
	if s == SectionF && draft.CultivatesVegetables == "no" {
		return SectionB
	}
	return s - 1
}
