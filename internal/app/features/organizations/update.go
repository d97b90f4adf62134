// internal/app/features/organizations/update.go
package organizations

import (
	"context"
	"net/http"

	uierrors "github.com/jjprojectslab/comunify/internal/app/features/errors"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	organizationstore "github.com/jjprojectslab/comunify/internal/app/store/organizations"
	"github.com/jjprojectslab/comunify/internal/app/system/auditlog"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/inputval"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
)

// HandleUpdate patches an organization. The slug never changes.
//
// Route: PUT /organizations/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.OrgMutation)
	if !ok {
		return
	}
	id, err := shared.PathID(r, "id")
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	var req updateRequest
	if err := shared.DecodeValid(w, r, &req); err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	if req.Email != nil && *req.Email != "" && !inputval.IsValidEmail(*req.Email) {
		h.Errors().Respond(w, r, uierrors.Validation("Email must be a valid email address."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	org, err := h.orgs.Update(ctx, id, organizationstore.Patch{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		LocationURL: req.LocationURL,
	})
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, "Organization not found."))
		return
	}

	h.Audit.Admin(ctx, r, audit.EventOrgUpdated, actor.ID, auditlog.Target{OrganizationID: &org.ID})
	h.Notifier().Revalidate(ctx, revalidate.Organizations, revalidate.Dashboard)
	envelope.OK(w, http.StatusOK, org)
}
