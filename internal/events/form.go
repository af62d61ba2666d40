package events

import (
	"strings"
	"time"

	"dhukuti/internal/shared/money"
	"dhukuti/internal/wizard"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// FormData is what the event wizard collects.
type FormData struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Category    Category          `json:"category" validate:"required,oneof=concert workshop meeting celebration sports cultural community educational"`
	Description string            `json:"description" validate:"required"`
	ImageURL    string            `json:"imageUrl" validate:"omitempty,url"`
	Tags        wizard.Tags       `json:"tags"`
	Date        string            `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string            `json:"time" validate:"required,datetime=15:04"`
	Location    string            `json:"location" validate:"required"`
	Venue       string            `json:"venue" validate:"required"`
	Capacity    int               `json:"capacity" validate:"gte=1"`
	Currency    string            `json:"currency" validate:"oneof=AUD USD EUR GBP"`
	TicketTypes []TicketTypeInput `json:"ticketTypes" validate:"min=1,dive"`
	Marketing   Marketing         `json:"marketing"`
	Settings    Settings          `json:"settings"`
}

func NewFormData() FormData {
	return FormData{
		Tags:        wizard.Tags{},
		Capacity:    100,
		Currency:    money.DefaultCurrency,
		TicketTypes: []TicketTypeInput{},
		Marketing: Marketing{
			SocialSharing:  true,
			EmailMarketing: true,
		},
		Settings: Settings{
			MaxTicketsPerPerson: 1,
			RefundPolicy:        RefundNone,
		},
	}
}

var formMessages = wizard.Messages{
	"title.required":                 "Event title is required",
	"title":                          "Event title cannot exceed 200 characters",
	"category.required":              "Category is required",
	"category":                       "Invalid event category",
	"description":                    "Description is required",
	"imageUrl":                       "Image URL must be a valid URL",
	"date.required":                  "Event date is required",
	"date":                           "Event date must be a valid date (YYYY-MM-DD)",
	"time.required":                  "Event time is required",
	"time":                           "Event time must be in HH:MM format",
	"location":                       "Location is required",
	"venue":                          "Venue is required",
	"capacity":                       "Capacity must be at least 1",
	"currency":                       "Unsupported currency",
	"ticketTypes":                    "At least one ticket type is required",
	"ticketTypes[].name":             "Ticket name is required",
	"ticketTypes[].price":            "Ticket price cannot be negative",
	"ticketTypes[].quantity":         "Ticket quantity must be at least 1",
	"settings.maxTicketsPerPerson":   "Max tickets per person must be at least 1",
	"settings.refundPolicy":          "Invalid refund policy",
	"settings.contactEmail.required": "Contact email is required",
	"settings.contactEmail":          "Contact email must be a valid email address",
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validateForm(f FormData) wizard.FieldErrors {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Location = strings.TrimSpace(f.Location)
	f.Venue = strings.TrimSpace(f.Venue)
	f.Settings.ContactEmail = strings.TrimSpace(f.Settings.ContactEmail)
	ticketTypes := make([]TicketTypeInput, len(f.TicketTypes))
	for i, t := range f.TicketTypes {
		t.Name = strings.TrimSpace(t.Name)
		ticketTypes[i] = t
	}
	f.TicketTypes = ticketTypes
	return wizard.ValidateStruct(f, formMessages)
}

func cloneForm(f FormData) FormData {
	f.Tags = append(wizard.Tags{}, f.Tags...)
	ticketTypes := make([]TicketTypeInput, len(f.TicketTypes))
	for i, t := range f.TicketTypes {
		t.Benefits = append([]string(nil), t.Benefits...)
		ticketTypes[i] = t
	}
	f.TicketTypes = ticketTypes
	return f
}

// Definition is the five-step event creation wizard.
func Definition() *wizard.Definition[FormData] {
	return &wizard.Definition[FormData]{
		Name: "event",
		Steps: []wizard.Step[FormData]{
			{Title: "Event Details", Valid: func(f FormData) bool {
				return !blank(f.Title) && f.Category != "" && !blank(f.Description)
			}},
			{Title: "Date & Location", Valid: func(f FormData) bool {
				return !blank(f.Date) && !blank(f.Time) && !blank(f.Location) && !blank(f.Venue)
			}},
			{Title: "Tickets & Pricing", Valid: func(f FormData) bool {
				return len(f.TicketTypes) > 0
			}},
			{Title: "Marketing"},
			{Title: "Review & Create", Valid: func(f FormData) bool {
				return !blank(f.Settings.ContactEmail)
			}},
		},
		Validate: validateForm,
		Clone:    cloneForm,
		Fields: map[string]wizard.FieldSetter[FormData]{
			"title":       wizard.Field(func(f *FormData) *string { return &f.Title }),
			"category":    wizard.Field(func(f *FormData) *Category { return &f.Category }),
			"description": wizard.Field(func(f *FormData) *string { return &f.Description }),
			"imageUrl":    wizard.Field(func(f *FormData) *string { return &f.ImageURL }),
			"tags":        wizard.Field(func(f *FormData) *wizard.Tags { return &f.Tags }),
			"date":        wizard.Field(func(f *FormData) *string { return &f.Date }),
			"time":        wizard.Field(func(f *FormData) *string { return &f.Time }),
			"location":    wizard.Field(func(f *FormData) *string { return &f.Location }),
			"venue":       wizard.Field(func(f *FormData) *string { return &f.Venue }),
			"capacity":    wizard.Field(func(f *FormData) *int { return &f.Capacity }),
			"currency":    wizard.Field(func(f *FormData) *string { return &f.Currency }),
			"ticketTypes": wizard.Field(func(f *FormData) *[]TicketTypeInput { return &f.TicketTypes }),
			"marketing":   wizard.Field(func(f *FormData) *Marketing { return &f.Marketing }),
			"settings":    wizard.Field(func(f *FormData) *Settings { return &f.Settings }),
		},
		FailureMessage: "Failed to create event",
	}
}

// ToCreateRequest builds the creation payload from a validated form.
func ToCreateRequest(f FormData) CreateEventRequest {
	f = cloneForm(f)
	return CreateEventRequest{
		Title:       strings.TrimSpace(f.Title),
		Category:    f.Category,
		Description: strings.TrimSpace(f.Description),
		ImageURL:    f.ImageURL,
		Tags:        f.Tags.Normalize(),
		Date:        f.Date,
		Time:        f.Time,
		Location:    strings.TrimSpace(f.Location),
		Venue:       strings.TrimSpace(f.Venue),
		Capacity:    f.Capacity,
		Currency:    f.Currency,
		TicketTypes: f.TicketTypes,
		Marketing:   f.Marketing,
		Settings:    f.Settings,
	}
}

// StartsAt combines the date and time fields of a request in loc.
func (r CreateEventRequest) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout+" "+timeLayout, r.Date+" "+r.Time, loc)
}
