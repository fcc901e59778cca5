package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hyunwoopark/meritpoint/internal/actors"
	"github.com/hyunwoopark/meritpoint/internal/model"
	"github.com/hyunwoopark/meritpoint/internal/store"
)

type ActorHandler struct {
	svc        *actors.Service
	actorStore *store.ActorStore
	logger     *slog.Logger
}

func NewActorHandler(svc *actors.Service, actorStore *store.ActorStore, logger *slog.Logger) *ActorHandler {
	return &ActorHandler{svc: svc, actorStore: actorStore, logger: logger}
}

// Commanders lists the actors eligible as designated approvers.
func (h *ActorHandler) Commanders(w http.ResponseWriter, r *http.Request) {
	commanders, err := h.actorStore.ListCommanders()
	if err != nil {
		h.logger.Error("list commanders", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "an unexpected error occurred"})
		return
	}
	if commanders == nil {
		commanders = []model.ActorRef{}
	}
	writeJSON(w, http.StatusOK, commanders)
}

type updateCapabilitiesRequest struct {
	Capabilities []model.Capability `json:"capabilities"`
}

func (h *ActorHandler) UpdateCapabilities(w http.ResponseWriter, r *http.Request) {
	sn := r.PathValue("sn")
	if sn == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "a target user is required"})
		return
	}

	var req updateCapabilitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON"})
		return
	}
	for _, c := range req.Capabilities {
		switch c {
		case model.CapAdmin, model.CapCommander, model.CapUserAdmin, model.CapStaffRole, model.CapApprover:
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unknown capability"})
			return
		}
	}

	writeResult(w, h.svc.UpdateCapabilities(actorFrom(r), sn, req.Capabilities))
}
