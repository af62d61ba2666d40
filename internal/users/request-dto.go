package users

import "strings"

// UpdateProfileRequest changes the names on an account. Blank fields are left alone.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"omitempty,min=2,max=100"`
	LastName  string `json:"lastName" validate:"omitempty,min=2,max=100"`
}

func (r *UpdateProfileRequest) trim() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

// changes lists the columns to update, or nil when nothing was sent.
func (r *UpdateProfileRequest) changes() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.FirstName != "" {
		fields["first_name"] = r.FirstName
	}
	if r.LastName != "" {
		fields["last_name"] = r.LastName
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
