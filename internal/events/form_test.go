package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhukuti/internal/shared/money"
	"dhukuti/internal/wizard"
)

var noopSubmitter = wizard.SubmitFunc[FormData](func(context.Context, FormData) (wizard.Result, error) {
	return wizard.Result{}, nil
})

func validForm() FormData {
	f := NewFormData()
	f.Title = "Dashain Night"
	f.Category = CategoryCultural
	f.Description = "Music, food and tika"
	f.Date = "2026-11-20"
	f.Time = "18:30"
	f.Location = "Sydney"
	f.Venue = "Town Hall"
	f.TicketTypes = []TicketTypeInput{
		{Name: "General", Price: money.FromMajor(35), Quantity: 80},
		{Name: "VIP", Price: money.FromMajor(90), Quantity: 20, Benefits: []string{"Front row"}},
	}
	f.Settings.ContactEmail = "hello@dhukuti.app"
	return f
}

func TestNewFormData_Defaults(t *testing.T) {
	f := NewFormData()
	assert.Equal(t, 100, f.Capacity)
	assert.Equal(t, "AUD", f.Currency)
	assert.True(t, f.Marketing.EmailMarketing)
	assert.True(t, f.Marketing.SocialSharing)
	assert.Equal(t, 1, f.Settings.MaxTicketsPerPerson)
	assert.Equal(t, RefundNone, f.Settings.RefundPolicy)
}

func TestValidateForm_Messages(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *FormData)
		field  string
		want   string
	}{
		{"missing title", func(f *FormData) { f.Title = " " }, "title", "Event title is required"},
		{"bad category", func(f *FormData) { f.Category = "party" }, "category", "Invalid event category"},
		{"missing description", func(f *FormData) { f.Description = "" }, "description", "Description is required"},
		{"bad date", func(f *FormData) { f.Date = "20/11/2026" }, "date", "Event date must be a valid date (YYYY-MM-DD)"},
		{"missing venue", func(f *FormData) { f.Venue = "" }, "venue", "Venue is required"},
		{"zero capacity", func(f *FormData) { f.Capacity = 0 }, "capacity", "Capacity must be at least 1"},
		{"no tickets", func(f *FormData) { f.TicketTypes = nil }, "ticketTypes", "At least one ticket type is required"},
		{"unnamed ticket", func(f *FormData) { f.TicketTypes[1].Name = "  " }, "ticketTypes[1].name", "Ticket name is required"},
		{"negative price", func(f *FormData) { f.TicketTypes[0].Price = -1 }, "ticketTypes[0].price", "Ticket price cannot be negative"},
		{"zero quantity", func(f *FormData) { f.TicketTypes[0].Quantity = 0 }, "ticketTypes[0].quantity", "Ticket quantity must be at least 1"},
		{"zero per person", func(f *FormData) { f.Settings.MaxTicketsPerPerson = 0 }, "settings.maxTicketsPerPerson", "Max tickets per person must be at least 1"},
		{"bad refund policy", func(f *FormData) { f.Settings.RefundPolicy = "30_days" }, "settings.refundPolicy", "Invalid refund policy"},
		{"missing email", func(f *FormData) { f.Settings.ContactEmail = "" }, "settings.contactEmail", "Contact email is required"},
		{"bad email", func(f *FormData) { f.Settings.ContactEmail = "not-an-email" }, "settings.contactEmail", "Contact email must be a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.modify(&f)
			errs := validateForm(f)
			assert.Equal(t, tt.want, errs[tt.field])
			assert.Len(t, errs, 1)
		})
	}

	assert.Empty(t, validateForm(validForm()))
}

func TestEventWizard_StepGating(t *testing.T) {
	w, err := wizard.New(Definition(), NewFormData(), noopSubmitter)
	require.NoError(t, err)
	assert.Equal(t, 5, w.TotalSteps())

	// Empty title keeps the wizard on step 1.
	require.NoError(t, w.UpdateField("category", CategoryConcert))
	require.NoError(t, w.UpdateField("description", "Live band"))
	assert.False(t, w.Next())
	assert.Equal(t, 1, w.Step())

	require.NoError(t, w.UpdateField("title", json.RawMessage(`"Rock Night"`)))
	assert.True(t, w.Next())

	assert.False(t, w.Next())
	for field, value := range map[string]string{"date": "2026-12-01", "time": "20:00", "location": "Sydney", "venue": "Enmore"} {
		require.NoError(t, w.UpdateField(field, value))
	}
	assert.True(t, w.Next())

	assert.False(t, w.Next(), "tickets step needs a ticket type")
	require.NoError(t, w.UpdateField("ticketTypes", json.RawMessage(`[{"name":"GA","price":25,"quantity":50}]`)))
	assert.True(t, w.Next())

	assert.True(t, w.Next(), "marketing step is always complete")
	assert.Equal(t, 5, w.Step())
	assert.False(t, w.IsStepValid(5))
	assert.False(t, w.Next())

	assert.True(t, w.Previous())
	assert.Equal(t, 4, w.Step())
	assert.Equal(t, "Rock Night", w.Form().Title)
}

func TestEventWizard_SubmitSendsNormalizedTags(t *testing.T) {
	var got CreateEventRequest
	submitter := wizard.SubmitFunc[FormData](func(_ context.Context, f FormData) (wizard.Result, error) {
		got = ToCreateRequest(f)
		return wizard.Result{ID: "e-1"}, nil
	})

	form := validForm()
	form.Tags = form.Tags.Add("music").Add(" food ").Add("music").Add("")
	w, err := wizard.New(Definition(), form, submitter)
	require.NoError(t, err)

	res, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "e-1", res.ID)
	assert.Equal(t, []string{"music", "food"}, []string(got.Tags))
	assert.Len(t, got.TicketTypes, 2)
	assert.Equal(t, money.FromMajor(90), got.TicketTypes[1].Price)
}

func TestEventWizard_SubmitFailureUsesFallback(t *testing.T) {
	submitter := wizard.SubmitFunc[FormData](func(context.Context, FormData) (wizard.Result, error) {
		return wizard.Result{}, assert.AnError
	})
	w, err := wizard.New(Definition(), validForm(), submitter)
	require.NoError(t, err)

	_, err = w.Submit(context.Background())
	var failure *wizard.SubmissionError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "Failed to create event", failure.Message)
	assert.Equal(t, wizard.PhaseEditing, w.Phase())
}

func TestCloneForm_IsolatesSlices(t *testing.T) {
	f := validForm()
	f.Tags = wizard.Tags{"music"}
	c := cloneForm(f)
	c.Tags[0] = "changed"
	c.TicketTypes[1].Benefits[0] = "changed"
	c.TicketTypes[0].Name = "changed"

	assert.Equal(t, "music", f.Tags[0])
	assert.Equal(t, "Front row", f.TicketTypes[1].Benefits[0])
	assert.Equal(t, "General", f.TicketTypes[0].Name)
}
