// internal/app/features/areas/types.go
package areas

import (
	"github.com/jjprojectslab/comunify/internal/app/system/htmlsanitize"
	"github.com/jjprojectslab/comunify/internal/app/system/normalize"
	"github.com/jjprojectslab/comunify/internal/domain/models"
)

// areaView is an area as listed: with its location name and member count.
type areaView struct {
	models.Area

	LocationName string `json:"location_name,omitempty"`
	MemberCount  int    `json:"member_count"`
}

type createRequest struct {
	Name        string  `json:"name" validate:"required,max=120" label:"Name"`
	Description string  `json:"description" validate:"max=1000" label:"Description"`
	LocationID  *string `json:"location_id"`
}

func (c *createRequest) Normalize() {
	c.Name = normalize.Name(c.Name)
	c.Description = htmlsanitize.PlainText(c.Description)
	if c.LocationID != nil {
		*c.LocationID = normalize.Text(*c.LocationID)
	}
}

type updateRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=120" label:"Name"`
	Description *string `json:"description" validate:"omitnil,max=1000" label:"Description"`
	LocationID  *string `json:"location_id"`
}

func (u *updateRequest) Normalize() {
	if u.Name != nil {
		*u.Name = normalize.Name(*u.Name)
	}
	if u.Description != nil {
		*u.Description = htmlsanitize.PlainText(*u.Description)
	}
	if u.LocationID != nil {
		*u.LocationID = normalize.Text(*u.LocationID)
	}
}

type addMemberRequest struct {
	UserID string `json:"user_id" validate:"required,objectid" label:"User"`
}

type leaderRequest struct {
	IsLeader *bool `json:"is_leader" validate:"required" label:"Leader"`
}
