// internal/app/features/areas/members.go
package areas

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	uierrors "github.com/jjprojectslab/comunify/internal/app/features/errors"
	"github.com/jjprojectslab/comunify/internal/app/features/shared"
	"github.com/jjprojectslab/comunify/internal/app/store/audit"
	areamemberstore "github.com/jjprojectslab/comunify/internal/app/store/areamembers"
	"github.com/jjprojectslab/comunify/internal/app/store/queries/arearoster"
	"github.com/jjprojectslab/comunify/internal/app/system/auditlog"
	"github.com/jjprojectslab/comunify/internal/app/system/authz"
	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"github.com/jjprojectslab/comunify/internal/app/system/revalidate"
	"github.com/jjprojectslab/comunify/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HandleMembers lists an area's roster, optionally filtered by q.
//
// Route: GET /areas/{id}/members?q=
func (h *Handler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.Areas)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	area, err := h.scopedArea(ctx, r, actor)
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	members, err := arearoster.List(ctx, h.DB, area.ID, query.Get(r, "q"))
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	envelope.OK(w, http.StatusOK, members)
}

// HandleAddMember adds a user to an area, recording who added them.
//
// Route: POST /areas/{id}/members
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.Areas)
	if !ok {
		return
	}
	var req addMemberRequest
	if err := shared.DecodeValid(w, r, &req); err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	userID, _ := primitive.ObjectIDFromHex(req.UserID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	area, err := h.scopedArea(ctx, r, actor)
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	if _, err := h.profiles.GetByID(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.Errors().Respond(w, r, uierrors.Validation("User does not exist."))
			return
		}
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}

	m, err := h.members.Add(ctx, area.ID, userID, &actor.ID)
	if errors.Is(err, areamemberstore.ErrAlreadyMember) {
		h.Errors().Respond(w, r, uierrors.Validation("User is already a member of this area."))
		return
	}
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}

	h.Audit.Admin(ctx, r, audit.EventAreaMemberAdded, actor.ID, auditlog.Target{
		UserID:  &userID,
		Details: map[string]string{"area_id": area.ID.Hex()},
	})
	h.Notifier().Revalidate(ctx, revalidate.Areas, revalidate.AreaPath(area.ID.Hex()))
	envelope.OK(w, http.StatusCreated, m)
}

// HandleRemoveMember removes every membership row for the user in the area.
//
// Route: DELETE /areas/{id}/members/{userID}
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.Areas)
	if !ok {
		return
	}
	userID, err := shared.PathID(r, "userID")
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	area, err := h.scopedArea(ctx, r, actor)
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	n, err := h.members.Remove(ctx, area.ID, userID)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	if n == 0 {
		h.Errors().Respond(w, r, uierrors.NotFound("User is not a member of this area."))
		return
	}

	h.Audit.Admin(ctx, r, audit.EventAreaMemberRemoved, actor.ID, auditlog.Target{
		UserID:  &userID,
		Details: map[string]string{"area_id": area.ID.Hex()},
	})
	h.Notifier().Revalidate(ctx, revalidate.Areas, revalidate.AreaPath(area.ID.Hex()))
	envelope.OK(w, http.StatusOK, map[string]int64{"removed": n})
}

// HandleSetLeader sets or clears the leader flag on the user's membership.
//
// Route: PUT /areas/{id}/members/{userID}/leader
func (h *Handler) HandleSetLeader(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.Areas)
	if !ok {
		return
	}
	userID, err := shared.PathID(r, "userID")
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	var req leaderRequest
	if err := shared.DecodeValid(w, r, &req); err != nil {
		h.Errors().Respond(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	area, err := h.scopedArea(ctx, r, actor)
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	n, err := h.members.SetLeader(ctx, area.ID, userID, *req.IsLeader)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	if n == 0 {
		h.Errors().Respond(w, r, uierrors.NotFound("User is not a member of this area."))
		return
	}

	leader := "false"
	if *req.IsLeader {
		leader = "true"
	}
	h.Audit.Admin(ctx, r, audit.EventAreaLeaderChanged, actor.ID, auditlog.Target{
		UserID:  &userID,
		Details: map[string]string{"area_id": area.ID.Hex(), "is_leader": leader},
	})
	h.Notifier().Revalidate(ctx, revalidate.Areas, revalidate.AreaPath(area.ID.Hex()))
	envelope.OK(w, http.StatusOK, map[string]bool{"is_leader": *req.IsLeader})
}

// HandleAvailableUsers lists active users of the area's location who are not
// yet members, by name.
//
// Route: GET /areas/{id}/available-users
func (h *Handler) HandleAvailableUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.Gate(w, r, h.Errors(), authz.Areas)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	area, err := h.scopedArea(ctx, r, actor)
	if err != nil {
		h.Errors().Respond(w, r, err)
		return
	}
	existing, err := h.members.MemberIDs(ctx, area.ID)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	users, err := h.profiles.ListActiveByLocation(ctx, area.LocationID, existing)
	if err != nil {
		h.Errors().Respond(w, r, shared.StoreErr(err, ""))
		return
	}
	envelope.OK(w, http.StatusOK, users)
}
