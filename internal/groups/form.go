package groups

import (
	"strings"
	"time"

	"dhukuti/internal/shared/constants"
	"dhukuti/internal/shared/money"
	"dhukuti/internal/wizard"
)

type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

// CycleDays converts a contribution frequency into the cycle length in days.
func (f Frequency) CycleDays() (int, bool) {
	switch f {
	case FrequencyWeekly:
		return 7, true
	case FrequencyBiweekly:
		return 14, true
	case FrequencyMonthly:
		return 30, true
	case FrequencyQuarterly:
		return 90, true
	default:
		return 0, false
	}
}

const dateLayout = "2006-01-02"

// FormData is what the group wizard collects.
type FormData struct {
	Name               string       `json:"name" validate:"required,min=3,max=100"`
	Description        string       `json:"description" validate:"required"`
	ContributionAmount money.Amount `json:"contributionAmount" validate:"gt=0,lte=10000000"`
	Frequency          Frequency    `json:"frequency" validate:"oneof=weekly biweekly monthly quarterly"`
	MaxMembers         int          `json:"maxMembers" validate:"gte=2"`
	StartDate          string       `json:"startDate" validate:"required,datetime=2006-01-02"`
	MeetingDay         string       `json:"meetingDay" validate:"omitempty,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	MeetingTime        string       `json:"meetingTime" validate:"omitempty,datetime=15:04"`
	Location           string       `json:"location" validate:"required"`
	Rules              string       `json:"rules"`
	IsPrivate          bool         `json:"isPrivate"`
}

func NewFormData() FormData {
	return FormData{
		Frequency:   FrequencyMonthly,
		MeetingDay:  "sunday",
		MeetingTime: "19:00",
	}
}

var formMessages = wizard.Messages{
	"name.required":          "Group name is required",
	"name":                   "Group name must be between 3 and 100 characters",
	"description":            "Description is required",
	"contributionAmount.gt":  "Valid contribution amount is required",
	"contributionAmount.lte": "Contribution amount cannot exceed 100000",
	"frequency":              "Invalid contribution frequency",
	"maxMembers":             "Minimum 2 members required",
	"startDate.required":     "Start date is required",
	"startDate":              "Start date must be a valid date (YYYY-MM-DD)",
	"meetingDay":             "Invalid meeting day",
	"meetingTime":            "Meeting time must be in HH:MM format",
	"location":               "Meeting location is required",
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validateForm(f FormData) wizard.FieldErrors {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Location = strings.TrimSpace(f.Location)
	return wizard.ValidateStruct(f, formMessages)
}

// Definition is the three-step group creation wizard.
func Definition() *wizard.Definition[FormData] {
	return &wizard.Definition[FormData]{
		Name: "group",
		Steps: []wizard.Step[FormData]{
			{Title: "Basic Information", Valid: func(f FormData) bool {
				return !blank(f.Name) && !blank(f.Description) && f.ContributionAmount > 0 && f.MaxMembers >= constants.MIN_GROUP_MEMBERS
			}},
			{Title: "Group Settings", Valid: func(f FormData) bool {
				return !blank(f.StartDate) && !blank(f.Location)
			}},
			{Title: "Review & Create"},
		},
		Validate: validateForm,
		Fields: map[string]wizard.FieldSetter[FormData]{
			"name":               wizard.Field(func(f *FormData) *string { return &f.Name }),
			"description":        wizard.Field(func(f *FormData) *string { return &f.Description }),
			"contributionAmount": wizard.Field(func(f *FormData) *money.Amount { return &f.ContributionAmount }),
			"frequency":          wizard.Field(func(f *FormData) *Frequency { return &f.Frequency }),
			"maxMembers":         wizard.Field(func(f *FormData) *int { return &f.MaxMembers }),
			"startDate":          wizard.Field(func(f *FormData) *string { return &f.StartDate }),
			"meetingDay":         wizard.Field(func(f *FormData) *string { return &f.MeetingDay }),
			"meetingTime":        wizard.Field(func(f *FormData) *string { return &f.MeetingTime }),
			"location":           wizard.Field(func(f *FormData) *string { return &f.Location }),
			"rules":              wizard.Field(func(f *FormData) *string { return &f.Rules }),
			"isPrivate":          wizard.Field(func(f *FormData) *bool { return &f.IsPrivate }),
		},
		FailureMessage: "Failed to create group",
	}
}

// ToCreateRequest builds the creation payload from a validated form.
func ToCreateRequest(f FormData) CreateGroupRequest {
	cycle, _ := f.Frequency.CycleDays()
	req := CreateGroupRequest{
		Name:               strings.TrimSpace(f.Name),
		Description:        strings.TrimSpace(f.Description),
		MaxMembers:         f.MaxMembers,
		ContributionAmount: f.ContributionAmount,
		CycleDuration:      cycle,
		Metadata: Metadata{
			MeetingDay:  f.MeetingDay,
			MeetingTime: f.MeetingTime,
			Location:    strings.TrimSpace(f.Location),
			Rules:       f.Rules,
			IsPrivate:   f.IsPrivate,
		},
	}
	if d, err := time.Parse(dateLayout, f.StartDate); err == nil {
		req.StartDate = &d
	}
	return req
}
