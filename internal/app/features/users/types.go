// internal/app/features/users/types.go
package users

import (
	"strings"

	"github.com/jjprojectslab/comunify/internal/app/system/normalize"
)

type createRequest struct {
	FirstName      string `json:"first_name" validate:"required,max=100" label:"First name"`
	LastName       string `json:"last_name" validate:"required,max=100" label:"Last name"`
	Email          string `json:"email" validate:"required,email_strict" label:"Email"`
	Password       string `json:"password" validate:"required,min=6,max=128" label:"Password"`
	OrganizationID string `json:"organization_id" validate:"omitempty,objectid" label:"Organization"`
	LocationID     string `json:"location_id" validate:"omitempty,objectid" label:"Location"`
	Role           string `json:"role" validate:"required" label:"Role"`
}

func (c *createRequest) Normalize() {
	c.FirstName = normalize.Name(c.FirstName)
	c.LastName = normalize.Name(c.LastName)
	c.Email = normalize.Email(c.Email)
	c.OrganizationID = normalize.Text(c.OrganizationID)
	c.LocationID = normalize.Text(c.LocationID)
	c.Role = strings.ToUpper(normalize.Text(c.Role))
}

func (c *createRequest) fullName() string {
	return normalize.Name(c.FirstName + " " + c.LastName)
}

// updateRequest: organization_id or location_id "" detaches the profile.
type updateRequest struct {
	FullName       *string `json:"full_name" validate:"omitnil,min=1,max=200" label:"Full name"`
	OrganizationID *string `json:"organization_id"`
	LocationID     *string `json:"location_id"`
	IsActive       *bool   `json:"is_active"`
}

func (u *updateRequest) Normalize() {
	if u.FullName != nil {
		*u.FullName = normalize.Name(*u.FullName)
	}
	for _, p := range []*string{u.OrganizationID, u.LocationID} {
		if p != nil {
			*p = normalize.Text(*p)
		}
	}
}

type rolesRequest struct {
	Roles []string `json:"roles" validate:"max=5" label:"Roles"`
}
