package tags

// CreateTagRequest creates a tag. Color is a hex colour such as "#E4572E".
type CreateTagRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=50"`
	Description string `json:"description" binding:"max=280"`
	Color       string `json:"color" binding:"omitempty,len=7,hexcolor"`
}

// UpdateTagRequest changes only the fields that are present.
type UpdateTagRequest struct {
	Description *string `json:"description,omitempty" binding:"omitempty,max=280"`
	Color       *string `json:"color,omitempty" binding:"omitempty,len=7,hexcolor"`
	IsActive    *bool   `json:"isActive,omitempty"`
}
