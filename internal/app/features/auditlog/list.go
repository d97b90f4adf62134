// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	uierrors "github.com/jjprojectslab/comunify/internal/app/features/errors"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// HandleList returns audit events, most recent first.
//
// Query: category, event_type, user_id, since (YYYY-MM-DD), limit.
//
// Route: GET /audit
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.Audit)
	if !ok {
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	if !actor.IsSuperAdmin() {
		if actor.OrgID.IsZero() {
			envelope.OK(w, http.StatusOK, listResponse{Events: []eventView{}})
			return
		}
		filter.OrganizationID = &actor.OrgID
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Logger(), "audit log list")
	defer cancel()

	events, err := h.events.Query(ctx, filter)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	total, err := h.events.Count(ctx, filter)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}

	var userIDs, orgIDs []primitive.ObjectID
	for _, e := range events {
		if e.UserID != nil {
			userIDs = append(userIDs, *e.UserID)
		}
		if e.ActorID != nil {
			userIDs = append(userIDs, *e.ActorID)
		}
		if e.OrganizationID != nil {
			orgIDs = append(orgIDs, *e.OrganizationID)
		}
	}
	users, err := h.profiles.GetByIDs(ctx, userIDs)
	if err != nil {
		h.Logger().Warn("audit log: resolve user names", zap.Error(err))
	}
	orgNames, err := h.orgs.NamesByIDs(ctx, orgIDs)
	if err != nil {
		h.Logger().Warn("audit log: resolve organization names", zap.Error(err))
	}

	out := make([]eventView, 0, len(events))
	for _, e := range events {
		v := eventView{
			ID:            e.ID.Hex(),
			Timestamp:     e.Timestamp,
			Category:      e.Category,
			EventType:     e.EventType,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			IP:            e.IP,
			Details:       e.Details,
		}
		if e.UserID != nil {
			v.UserID = e.UserID.Hex()
			v.UserName = users[*e.UserID].FullName
		}
		if e.ActorID != nil {
			v.ActorID = e.ActorID.Hex()
			v.ActorName = users[*e.ActorID].FullName
		}
		if e.OrganizationID != nil {
			v.OrganizationID = e.OrganizationID.Hex()
			v.OrganizationName = orgNames[*e.OrganizationID]
		}
		out = append(out, v)
	}
	envelope.OK(w, http.StatusOK, listResponse{Events: out, Total: total})
}

func parseFilter(r *http.Request) (audit.QueryFilter, error) {
	f := audit.QueryFilter{
		Category:  query.Get(r, "category"),
		EventType: query.Get(r, "event_type"),
		Limit:     defaultLimit,
	}
	if f.Category != "" && !validCategories[f.Category] {
		return f, uierrors.Validation("Unknown category.")
	}
	if s := query.Get(r, "user_id"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return f, uierrors.Validation("Invalid user ID.")
		}
		f.UserID = &id
	}
	if s := query.Get(r, "since"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return f, uierrors.Validation("since must be YYYY-MM-DD.")
		}
		f.Since = &t
	}
	if s := query.Get(r, "limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return f, uierrors.Validation("limit must be a positive number.")
		}
		f.Limit = int64(min(n, maxLimit))
	}
	return f, nil
}
