// internal/app/features/organizations/types.go
package organizations

import (
	"github.com/jjprojectslab/comunify/internal/app/system/htmlsanitize"
	"github.com/jjprojectslab/comunify/internal/app/system/normalize"
)

type createRequest struct {
	Name        string `json:"name" validate:"required,max=200" label:"Name"`
	Description string `json:"description" validate:"max=2000" label:"Description"`
	Address     string `json:"address" validate:"max=300" label:"Address"`
	Phone       string `json:"phone" validate:"max=50" label:"Phone"`
	Email       string `json:"email" validate:"omitempty,email_strict" label:"Email"`
	Website     string `json:"website" validate:"omitempty,url" label:"Website"`
	LocationURL string `json:"location_url" validate:"omitempty,url" label:"Location URL"`
}

func (c *createRequest) Normalize() {
	c.Name = normalize.Name(c.Name)
	c.Description = htmlsanitize.PlainText(c.Description)
	c.Address = normalize.Text(c.Address)
	c.Phone = normalize.Text(c.Phone)
	c.Email = normalize.Email(c.Email)
	c.Website = normalize.Text(c.Website)
	c.LocationURL = normalize.Text(c.LocationURL)
}

// updateRequest fields are optional; an empty string clears the field
// (except name, which must stay non-empty).
type updateRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=200" label:"Name"`
	Description *string `json:"description" validate:"omitnil,max=2000" label:"Description"`
	Address     *string `json:"address" validate:"omitnil,max=300" label:"Address"`
	Phone       *string `json:"phone" validate:"omitnil,max=50" label:"Phone"`
	Email       *string `json:"email" validate:"omitnil,max=254" label:"Email"`
	Website     *string `json:"website" validate:"omitnil,max=500" label:"Website"`
	LocationURL *string `json:"location_url" validate:"omitnil,max=500" label:"Location URL"`
}

func (u *updateRequest) Normalize() {
	apply(u.Name, normalize.Name)
	apply(u.Description, htmlsanitize.PlainText)
	apply(u.Address, normalize.Text)
	apply(u.Phone, normalize.Text)
	apply(u.Email, normalize.Email)
	apply(u.Website, normalize.Text)
	apply(u.LocationURL, normalize.Text)
}

func apply(p *string, f func(string) string) {
	if p != nil {
		*p = f(*p)
	}
}
