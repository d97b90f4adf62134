// internal/app/features/locations/types.go
package locations

import "github.com/jjprojectslab/comunify/internal/app/system/normalize"

type createRequest struct {
	OrganizationID string  `json:"organization_id" validate:"required,objectid" label:"Organization"`
	Name           string  `json:"name" validate:"required,max=200" label:"Name"`
	City           string  `json:"city" validate:"max=100" label:"City"`
	Country        string  `json:"country" validate:"max=100" label:"Country"`
	Address        string  `json:"address" validate:"max=300" label:"Address"`
	Phone          string  `json:"phone" validate:"max=50" label:"Phone"`
	IsMainCampus   bool    `json:"is_main_campus"`
	PastorID       *string `json:"pastor_id"`
}

func (c *createRequest) Normalize() {
	c.OrganizationID = normalize.Text(c.OrganizationID)
	c.Name = normalize.Name(c.Name)
	c.City = normalize.Name(c.City)
	c.Country = normalize.Name(c.Country)
	c.Address = normalize.Text(c.Address)
	c.Phone = normalize.Text(c.Phone)
}

// updateRequest: nil leaves a field alone, "" clears it. pastor_id "" removes
// the pastor.
type updateRequest struct {
	OrganizationID *string `json:"organization_id" validate:"omitnil,objectid" label:"Organization"`
	Name           *string `json:"name" validate:"omitnil,min=1,max=200" label:"Name"`
	City           *string `json:"city" validate:"omitnil,max=100" label:"City"`
	Country        *string `json:"country" validate:"omitnil,max=100" label:"Country"`
	Address        *string `json:"address" validate:"omitnil,max=300" label:"Address"`
	Phone          *string `json:"phone" validate:"omitnil,max=50" label:"Phone"`
	IsMainCampus   *bool   `json:"is_main_campus"`
	PastorID       *string `json:"pastor_id"`
}

func (u *updateRequest) Normalize() {
	for _, p := range []*string{u.Name, u.City, u.Country} {
		if p != nil {
			*p = normalize.Name(*p)
		}
	}
	for _, p := range []*string{u.OrganizationID, u.Address, u.Phone, u.PastorID} {
		if p != nil {
			*p = normalize.Text(*p)
		}
	}
}
