package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hyunwoopark/meritpoint/internal/auth"
	"github.com/hyunwoopark/meritpoint/internal/model"
	"github.com/hyunwoopark/meritpoint/internal/points"
)

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func actorFrom(r *http.Request) *model.Actor {
	actor, _ := auth.ActorFromContext(r.Context())
	return actor
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeResult follows the message-or-null convention: a nil error is
// {"message": null}, a business failure carries its human-readable message
// with a status derived from the failure kind.
func writeResult(w http.ResponseWriter, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]any{"message": nil})
		return
	}
	writeJSON(w, statusFor(err), map[string]string{"message": err.Error()})
}

func statusFor(err error) int {
	switch points.KindOf(err) {
	case points.KindValidation, points.KindSelfTarget:
		return http.StatusBadRequest
	case points.KindAuthorization:
		return http.StatusForbidden
	case points.KindNotFound:
		return http.StatusNotFound
	case points.KindConflict:
		return http.StatusConflict
	case points.KindInsufficientBalance:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
