// internal/app/features/organizations/create.go
package organizations

import (
	"context"
	"errors"
	"net/http"

	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	organizationstore "github.com/jjprojectslab/comunify/internal/app/store/organizations"
	"github.com/jjprojectslab/comunify/internal/app/system/auditlog"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"github.com/jjprojectslab/comunify/internal/app/system/slug"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"github.com/jjprojectslab/comunify/internal/domain/models"
	"go.uber.org/zap"
)

// insertAttempts bounds retries when a concurrent insert takes the slug
// between the existence check and the insert.
const insertAttempts = 3

// HandleCreate creates an organization with a unique slug derived from its name.
//
// Route: POST /organizations
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.OrgMutation)
	if !ok {
		return
	}
	var req createRequest
	if err := shared.DecodeValid(w, r, &req); err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	gen := slug.Generator{Exists: h.orgs.SlugExists}
	org := models.Organization{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		LocationURL: req.LocationURL,
	}

	var created models.Organization
	for attempt := 1; ; attempt++ {
		s, err := gen.Unique(ctx, req.Name)
		if err != nil {
			h.Errors().Respond(w, r, shared.StoreErr(err, ""))
			return
		}
		org.Slug = s
		created, err = h.orgs.Create(ctx, org)
		if err == nil {
			break
		}
		if !errors.Is(err, organizationstore.ErrDuplicateSlug) || attempt == insertAttempts {
			h.Errors().Respond(w, r, shared.StoreErr(err, ""))
			return
		}
		h.Logger().Debug("slug taken concurrently; retrying", zap.String("slug", s))
	}

	h.Audit.Admin(ctx, r, audit.EventOrgCreated, actor.ID, auditlog.Target{
		OrganizationID: &created.ID,
		Details:        map[string]string{"name": created.Name, "slug": created.Slug},
	})
	h.Notifier().Revalidate(ctx, revalidate.Organizations, revalidate.Dashboard)
	envelope.OK(w, http.StatusCreated, created)
}
