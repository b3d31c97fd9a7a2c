package domain

// CreateInput creates a named resource
type CreateInput struct {
	Name        string  `json:"name" validate:"required,max=100" example:"Reading list"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UpdateInput is a partial update; an empty description clears it
type UpdateInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// Empty reports whether no field is present
func (in UpdateInput) Empty() bool { return in.Name == nil && in.Description == nil }
