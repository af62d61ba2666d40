package groups

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhukuti/internal/shared/constants"
	"dhukuti/internal/shared/money"
	"dhukuti/internal/wizard"
)

var noopSubmitter = wizard.SubmitFunc[FormData](func(context.Context, FormData) (wizard.Result, error) {
	return wizard.Result{}, nil
})

func validForm() FormData {
	f := NewFormData()
	f.Name = "Family Savings"
	f.Description = "Monthly pot for the family"
	f.ContributionAmount = money.FromMajor(50)
	f.MaxMembers = 10
	f.StartDate = "2025-11-01"
	f.Location = "Community Hall"
	return f
}

func TestCycleDays(t *testing.T) {
	for freq, want := range map[Frequency]int{
		FrequencyWeekly: 7, FrequencyBiweekly: 14, FrequencyMonthly: 30, FrequencyQuarterly: 90,
	} {
		got, ok := freq.CycleDays()
		assert.True(t, ok)
		assert.Equal(t, want, got, freq)
	}
	_, ok := Frequency("daily").CycleDays()
	assert.False(t, ok)
}

func TestValidateForm_Messages(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *FormData)
		field  string
		want   string
	}{
		{"missing name", func(f *FormData) { f.Name = "  " }, "name", "Group name is required"},
		{"short name", func(f *FormData) { f.Name = "ab" }, "name", "Group name must be between 3 and 100 characters"},
		{"missing description", func(f *FormData) { f.Description = "" }, "description", "Description is required"},
		{"zero amount", func(f *FormData) { f.ContributionAmount = 0 }, "contributionAmount", "Valid contribution amount is required"},
		{"amount too large", func(f *FormData) { f.ContributionAmount = money.FromMajor(100000.01) }, "contributionAmount", "Contribution amount cannot exceed 100000"},
		{"one member", func(f *FormData) { f.MaxMembers = 1 }, "maxMembers", "Minimum 2 members required"},
		{"missing start", func(f *FormData) { f.StartDate = "" }, "startDate", "Start date is required"},
		{"missing location", func(f *FormData) { f.Location = "" }, "location", "Meeting location is required"},
		{"bad frequency", func(f *FormData) { f.Frequency = "daily" }, "frequency", "Invalid contribution frequency"},
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

func TestGroupWizard_Flow(t *testing.T) {
	var submitted []CreateGroupRequest
	submitter := wizard.SubmitFunc[FormData](func(_ context.Context, f FormData) (wizard.Result, error) {
		submitted = append(submitted, ToCreateRequest(f))
		return wizard.Result{ID: "g-1", Redirect: "/groups/g-1"}, nil
	})

	w, err := wizard.New(Definition(), NewFormData(), submitter)
	require.NoError(t, err)
	assert.Equal(t, 3, w.TotalSteps())

	assert.False(t, w.Next())

	require.NoError(t, w.UpdateField("name", json.RawMessage(`"Family Savings"`)))
	require.NoError(t, w.UpdateField("description", "Monthly pot"))
	require.NoError(t, w.UpdateField("contributionAmount", json.RawMessage(`50`)))
	require.NoError(t, w.UpdateField("maxMembers", 10))
	assert.True(t, w.Next())
	assert.Equal(t, 2, w.Step())

	assert.False(t, w.Next())
	require.NoError(t, w.UpdateField("startDate", "2025-11-01"))
	require.NoError(t, w.UpdateField("location", "Community Hall"))
	assert.True(t, w.Next())
	assert.True(t, w.IsStepValid(3))

	result, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/groups/g-1", result.Redirect)

	require.Len(t, submitted, 1)
	req := submitted[0]
	assert.Equal(t, 30, req.CycleDuration)
	assert.Equal(t, money.Amount(5000), req.ContributionAmount)
	assert.Equal(t, "sunday", req.Metadata.MeetingDay)
	assert.Equal(t, "19:00", req.Metadata.MeetingTime)
	require.NotNil(t, req.StartDate)
	assert.Equal(t, "2025-11-01", req.StartDate.Format(dateLayout))
}

func TestGroupWizard_UnknownField(t *testing.T) {
	w, err := wizard.New(Definition(), NewFormData(), noopSubmitter)
	require.NoError(t, err)
	assert.ErrorIs(t, w.UpdateField("colour", "red"), wizard.ErrUnknownField)
	assert.ErrorIs(t, w.UpdateField("maxMembers", "ten"), wizard.ErrInvalidValue)
}

func TestValidateForm_BoundsMatchServiceLimits(t *testing.T) {
	f := validForm()
	f.Name = strings.Repeat("n", constants.MAX_GROUP_NAME_LENGTH)
	f.ContributionAmount = constants.MAX_CONTRIBUTION_AMOUNT
	assert.Empty(t, validateForm(f))

	f.Name = strings.Repeat("n", constants.MIN_GROUP_NAME_LENGTH-1)
	f.ContributionAmount = constants.MAX_CONTRIBUTION_AMOUNT + 1
	errs := validateForm(f)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "contributionAmount")

	f = validForm()
	f.ContributionAmount = constants.MIN_CONTRIBUTION_AMOUNT
	assert.Empty(t, validateForm(f))
}
