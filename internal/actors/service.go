package actors

import (
	"log/slog"

	"github.com/hyunwoopark/meritpoint/internal/model"
	"github.com/hyunwoopark/meritpoint/internal/permission"
	"github.com/hyunwoopark/meritpoint/internal/points"
	"github.com/hyunwoopark/meritpoint/internal/store"
)

// Service manages actor capability grants. It shares the points error
// taxonomy so the transport layer maps failures uniformly.
type Service struct {
	actors *store.ActorStore
	logger *slog.Logger
}

func NewService(actors *store.ActorStore, logger *slog.Logger) *Service {
	return &Service{actors: actors, logger: logger}
}

// UpdateCapabilities replaces the target's capability set. Actors cannot
// edit themselves, Admin holders are immutable, and the Admin capability
// can never be granted here.
func (s *Service) UpdateCapabilities(actor *model.Actor, targetSN string, caps []model.Capability) error {
	if targetSN == actor.SN {
		return points.NewError(points.KindSelfTarget, "you cannot modify your own account")
	}

	target, err := s.actors.GetBySN(targetSN)
	if err != nil {
		s.logger.Error("resolve capability target", "sn", targetSN, "error", err)
		return points.NewError(points.KindStore, "an unexpected error occurred")
	}
	if target == nil {
		return points.NewError(points.KindNotFound, "the target account does not exist")
	}
	if sameCapabilities(target.Capabilities, caps) {
		return nil
	}
	if permission.Authorized(target.Capabilities, []model.Capability{model.CapAdmin}) {
		return points.NewError(points.KindAuthorization, "an administrator account cannot be modified")
	}
	if !permission.Authorized(actor.Capabilities, []model.Capability{model.CapAdmin, model.CapCommander, model.CapUserAdmin}) {
		return points.NewError(points.KindAuthorization, "you are not allowed to modify capabilities")
	}
	if permission.Authorized(caps, []model.Capability{model.CapAdmin}) {
		return points.NewError(points.KindAuthorization, "the Admin capability cannot be granted")
	}

	if err := s.actors.SetCapabilities(targetSN, caps); err != nil {
		s.logger.Error("set capabilities", "sn", targetSN, "error", err)
		return points.NewError(points.KindStore, "an unexpected error occurred")
	}
	return nil
}

// sameCapabilities compares two grants as sets.
func sameCapabilities(a, b []model.Capability) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[model.Capability]struct{}, len(a))
	for _, c := range a {
		set[c] = struct{}{}
	}
	for _, c := range b {
		if _, ok := set[c]; !ok {
			return false
		}
	}
	return true
}
