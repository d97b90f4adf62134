// internal/app/features/login/types.go
package login

import "github.com/jjprojectslab/comunify/internal/app/system/normalize"

type signUpRequest struct {
	FirstName      string `json:"first_name" validate:"required,max=100" label:"First name"`
	LastName       string `json:"last_name" validate:"required,max=100" label:"Last name"`
	Email          string `json:"email" validate:"required,email_strict" label:"Email"`
	Password       string `json:"password" validate:"required,min=6,max=128" label:"Password"`
	OrganizationID string `json:"organization_id" validate:"omitempty,objectid" label:"Organization"`
	LocationID     string `json:"location_id" validate:"omitempty,objectid" label:"Location"`
}

func (s *signUpRequest) Normalize() {
	s.FirstName = normalize.Name(s.FirstName)
	s.LastName = normalize.Name(s.LastName)
	s.Email = normalize.Email(s.Email)
	s.OrganizationID = normalize.Text(s.OrganizationID)
	s.LocationID = normalize.Text(s.LocationID)
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,max=254" label:"Email"`
	Password string `json:"password" validate:"required,max=128" label:"Password"`
}

func (s *signInRequest) Normalize() {
	s.Email = normalize.Email(s.Email)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,max=128" label:"Current password"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=128" label:"New password"`
}
