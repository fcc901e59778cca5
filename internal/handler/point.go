package handler

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/hyunwoopark/meritpoint/internal/model"
	"github.com/hyunwoopark/meritpoint/internal/points"
	"github.com/hyunwoopark/meritpoint/internal/websocket"
)

type PointHandler struct {
	svc    *points.Service
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewPointHandler(svc *points.Service, hub *websocket.Hub, logger *slog.Logger) *PointHandler {
	return &PointHandler{svc: svc, hub: hub, logger: logger}
}

func (h *PointHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// Value travels as a JSON number; the core requires a non-zero integer, so
// fractional values are rejected here before they can truncate.
type createPointRequest struct {
	Value      float64   `json:"value"`
	GiverID    string    `json:"giver_id"`
	ReceiverID string    `json:"receiver_id"`
	ApproverID string    `json:"approver_id"`
	Reason     string    `json:"reason"`
	GivenAt    time.Time `json:"given_at"`
}

func (h *PointHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON"})
		return
	}
	if req.Value != math.Trunc(req.Value) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "value must be an integer"})
		return
	}
	if req.GivenAt.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "a given date is required"})
		return
	}

	actor := actorFrom(r)
	err := h.svc.CreateEntry(actor, points.CreateEntryRequest{
		Value:      int(req.Value),
		GiverID:    req.GiverID,
		ReceiverID: req.ReceiverID,
		ApproverID: req.ApproverID,
		Reason:     req.Reason,
		GivenAt:    req.GivenAt,
	})
	if err == nil {
		h.broadcast(websocket.NewMessage("point", "created", 0, map[string]any{"actor": actor.SN}))
	}
	writeResult(w, err)
}

func (h *PointHandler) List(w http.ResponseWriter, r *http.Request) {
	history, err := h.svc.ListEntries(actorFrom(r))
	if err != nil {
		writeResult(w, err)
		return
	}
	if history.Entries == nil {
		history.Entries = []model.PointListItem{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *PointHandler) Pending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.svc.ListPending(actorFrom(r))
	if err != nil {
		writeResult(w, err)
		return
	}
	if pending == nil {
		pending = []model.PendingPoint{}
	}
	writeJSON(w, http.StatusOK, pending)
}

func (h *PointHandler) Counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.Counts(actorFrom(r))
	if err != nil {
		writeResult(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *PointHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sn := r.PathValue("sn")
	if sn == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "a target user is required"})
		return
	}

	summary, err := h.svc.Summary(sn)
	if err != nil {
		writeResult(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type verifyPointRequest struct {
	Approve      bool   `json:"approve"`
	RejectReason string `json:"reject_reason"`
}

func (h *PointHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid point entry id"})
		return
	}

	var req verifyPointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON"})
		return
	}

	err = h.svc.Approve(actorFrom(r), id, req.Approve, req.RejectReason)
	if err == nil {
		action := "approved"
		if !req.Approve {
			action = "rejected"
		}
		h.broadcast(websocket.NewMessage("point", action, id, nil))
	}
	writeResult(w, err)
}

func (h *PointHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid point entry id"})
		return
	}

	err = h.svc.Delete(actorFrom(r), id)
	if err == nil {
		h.broadcast(websocket.NewMessage("point", "deleted", id, nil))
	}
	writeResult(w, err)
}

type redeemRequest struct {
	UserID string  `json:"user_id"`
	Value  float64 `json:"value"`
	Reason string  `json:"reason"`
}

func (h *PointHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON"})
		return
	}
	if req.Value != math.Trunc(req.Value) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "value must be an integer"})
		return
	}

	err := h.svc.Redeem(actorFrom(r), req.UserID, int(req.Value), req.Reason)
	if err == nil {
		h.broadcast(websocket.NewMessage("redemption", "created", 0, map[string]any{"user": req.UserID}))
	}
	writeResult(w, err)
}
