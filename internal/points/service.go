package points

import (
	"log/slog"
	"strings"
	"time"

	"github.com/hyunwoopark/meritpoint/internal/model"
	"github.com/hyunwoopark/meritpoint/internal/permission"
	"github.com/hyunwoopark/meritpoint/internal/store"
)

// Service is the points core: entry lifecycle, balance accounting, and
// redemption. The authenticated actor is always passed in explicitly; the
// service never reaches into ambient session state.
type Service struct {
	actors      *store.ActorStore
	points      *store.PointStore
	redemptions *store.RedemptionStore
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(actors *store.ActorStore, points *store.PointStore, redemptions *store.RedemptionStore, logger *slog.Logger) *Service {
	return &Service{
		actors:      actors,
		points:      points,
		redemptions: redemptions,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateEntryRequest is the caller-supplied part of a new entry. Which of
// GiverID/ReceiverID/ApproverID must be set depends on the actor's role.
type CreateEntryRequest struct {
	Value      int
	GiverID    string
	ReceiverID string
	ApproverID string
	Reason     string
	GivenAt    time.Time
}

// CreateEntry validates and persists a new point entry according to the
// actor's role. Members request entries against themselves (pending,
// approver required); staff award entries to a receiver, immediately
// approved when the actor holds Commander.
func (s *Service) CreateEntry(actor *model.Actor, req CreateEntryRequest) error {
	if strings.TrimSpace(req.Reason) == "" {
		return validation("a reason for the entry is required")
	}
	if req.Value == 0 {
		return validation("value must be at least 1 or at most -1")
	}

	switch actor.Role {
	case model.RoleMember:
		return s.createAsMember(actor, req)
	case model.RoleStaff:
		return s.createAsStaff(actor, req)
	}
	return unauthorized("you are not allowed to create point entries")
}

func (s *Service) createAsMember(actor *model.Actor, req CreateEntryRequest) error {
	if req.GiverID == "" {
		return validation("a giver is required")
	}

	giver, err := s.actors.GetBySN(req.GiverID)
	if err != nil {
		s.logger.Error("resolve giver", "sn", req.GiverID, "error", err)
		return storeFailure()
	}
	if giver == nil || giver.DeletedAt != nil {
		return notFound("the target account does not exist")
	}
	if req.GiverID == actor.SN {
		return selfTarget("you cannot award points to yourself")
	}
	if req.ApproverID == "" {
		return validation("an approver is required")
	}

	_, err = s.points.Create(store.CreatePointParams{
		GiverID:    req.GiverID,
		ReceiverID: actor.SN,
		ApproverID: req.ApproverID,
		Value:      req.Value,
		Reason:     req.Reason,
		GivenAt:    req.GivenAt,
		Status:     model.PointPending,
	})
	if err != nil {
		s.logger.Error("create point entry", "receiver", actor.SN, "error", err)
		return storeFailure()
	}
	return nil
}

func (s *Service) createAsStaff(actor *model.Actor, req CreateEntryRequest) error {
	if req.ReceiverID == "" {
		return validation("a receiver is required")
	}

	receiver, err := s.actors.GetBySN(req.ReceiverID)
	if err != nil {
		s.logger.Error("resolve receiver", "sn", req.ReceiverID, "error", err)
		return storeFailure()
	}
	if receiver == nil || receiver.DeletedAt != nil {
		return notFound("the target account does not exist")
	}
	if req.ReceiverID == actor.SN {
		return selfTarget("you cannot award points to yourself")
	}

	params := store.CreatePointParams{
		GiverID:    actor.SN,
		ReceiverID: req.ReceiverID,
		Value:      req.Value,
		Reason:     req.Reason,
		GivenAt:    req.GivenAt,
	}

	if permission.Authorized(actor.Capabilities, []model.Capability{model.CapCommander}) {
		// Approving-capability holders self-approve at creation time.
		now := s.now()
		params.ApproverID = actor.SN
		params.Status = model.PointApproved
		params.ApprovedAt = &now
	} else {
		if req.ApproverID == "" {
			return validation("an approver is required")
		}
		params.ApproverID = req.ApproverID
		params.Status = model.PointPending
	}

	if _, err := s.points.Create(params); err != nil {
		s.logger.Error("create point entry", "giver", actor.SN, "error", err)
		return storeFailure()
	}
	return nil
}

// Approve transitions a pending entry to approved or rejected. Only the
// entry's designated approver may do so, regardless of broader capabilities.
// The transition is a conditional write, so a concurrent duplicate call
// observes a conflict instead of double-applying.
func (s *Service) Approve(actor *model.Actor, entryID int64, approve bool, rejectReason string) error {
	entry, err := s.points.GetByID(entryID)
	if err != nil {
		s.logger.Error("get point entry", "id", entryID, "error", err)
		return storeFailure()
	}
	if entry == nil {
		return notFound("the point entry does not exist")
	}
	if entry.ApproverID != actor.SN {
		return unauthorized("only entries assigned to you can be approved or rejected")
	}
	if !approve && strings.TrimSpace(rejectReason) == "" {
		return validation("a rejection reason is required")
	}
	if entry.Status != model.PointPending {
		return conflict("the point entry has already been processed")
	}

	var ok bool
	if approve {
		ok, err = s.points.SetApproved(entryID)
	} else {
		ok, err = s.points.SetRejected(entryID, strings.TrimSpace(rejectReason))
	}
	if err != nil {
		s.logger.Error("transition point entry", "id", entryID, "approve", approve, "error", err)
		return storeFailure()
	}
	if !ok {
		return conflict("the point entry has already been processed")
	}
	return nil
}

// Delete removes a pending entry. Only the receiving member may delete, and
// only while the entry is still pending.
func (s *Service) Delete(actor *model.Actor, entryID int64) error {
	if actor.Role == model.RoleStaff {
		return unauthorized("staff cannot delete point entries")
	}

	entry, err := s.points.GetByID(entryID)
	if err != nil {
		s.logger.Error("get point entry", "id", entryID, "error", err)
		return storeFailure()
	}
	if entry == nil {
		return notFound("the point entry does not exist")
	}
	if entry.ReceiverID != actor.SN {
		return unauthorized("only your own point entries can be deleted")
	}
	if entry.Status != model.PointPending {
		return conflict("a processed point entry cannot be deleted")
	}

	if err := s.points.Delete(entryID); err != nil {
		s.logger.Error("delete point entry", "id", entryID, "error", err)
		return storeFailure()
	}
	return nil
}

// Summary aggregates the user's approved merit, approved demerit (a
// negative number) and redeemed total, read from the store at call time.
func (s *Service) Summary(userID string) (model.PointSummary, error) {
	merit, demerit, err := s.points.SumApproved(userID)
	if err != nil {
		s.logger.Error("sum points", "user", userID, "error", err)
		return model.PointSummary{}, storeFailure()
	}
	redeemed, err := s.redemptions.SumByUser(userID)
	if err != nil {
		s.logger.Error("sum redemptions", "user", userID, "error", err)
		return model.PointSummary{}, storeFailure()
	}
	return model.PointSummary{Merit: merit, Demerit: demerit, Redeemed: redeemed}, nil
}

// History is an actor's ledger view: received entries plus redemptions for
// members, given entries for staff.
type History struct {
	Entries     []model.PointListItem `json:"entries"`
	Redemptions []model.Redemption    `json:"redemptions,omitempty"`
}

// ListEntries returns the actor's entry history, most recent first.
func (s *Service) ListEntries(actor *model.Actor) (History, error) {
	var h History
	var err error

	if actor.Role == model.RoleMember {
		h.Entries, err = s.points.ListByReceiver(actor.SN)
		if err == nil {
			h.Redemptions, err = s.redemptions.ListByUser(actor.SN)
		}
	} else {
		h.Entries, err = s.points.ListByGiver(actor.SN)
	}
	if err != nil {
		s.logger.Error("list point entries", "actor", actor.SN, "error", err)
		return History{}, storeFailure()
	}
	return h, nil
}

// ListPending returns entries waiting on the actor as designated approver,
// most recently given first. Actors without the Commander capability have
// no approval queue.
func (s *Service) ListPending(actor *model.Actor) ([]model.PendingPoint, error) {
	if !permission.Authorized(actor.Capabilities, []model.Capability{model.CapCommander}) {
		return nil, nil
	}

	pending, err := s.points.ListPendingByApprover(actor.SN)
	if err != nil {
		s.logger.Error("list pending entries", "approver", actor.SN, "error", err)
		return nil, storeFailure()
	}
	return pending, nil
}

// Counts returns the actor's entry counts by status, over given entries for
// staff and received entries for members.
func (s *Service) Counts(actor *model.Actor) (model.PointCounts, error) {
	var c model.PointCounts
	var err error
	if actor.Role == model.RoleStaff {
		c, err = s.points.CountsByGiver(actor.SN)
	} else {
		c, err = s.points.CountsByReceiver(actor.SN)
	}
	if err != nil {
		s.logger.Error("count point entries", "actor", actor.SN, "error", err)
		return model.PointCounts{}, storeFailure()
	}
	return c, nil
}

// Redeem spends accumulated merit on behalf of a user. Staff holding Admin
// or Commander only; the overdraft guard and the insert are a single atomic
// store operation.
func (s *Service) Redeem(actor *model.Actor, userID string, value int, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return validation("a reason for the redemption is required")
	}
	if value <= 0 {
		return validation("value must be at least 1")
	}
	if actor.Role == model.RoleMember {
		return unauthorized("members cannot spend points")
	}
	if userID == "" {
		return validation("a target user is required")
	}

	target, err := s.actors.GetBySN(userID)
	if err != nil {
		s.logger.Error("resolve redemption target", "sn", userID, "error", err)
		return storeFailure()
	}
	if target == nil {
		return notFound("the target account does not exist")
	}
	if !permission.Authorized(actor.Capabilities, []model.Capability{model.CapAdmin, model.CapCommander}) {
		return unauthorized("you are not allowed to spend points")
	}

	ok, err := s.redemptions.CreateIfAffordable(userID, actor.SN, value, reason)
	if err != nil {
		s.logger.Error("record redemption", "user", userID, "error", err)
		return storeFailure()
	}
	if !ok {
		return insufficient("the user's point balance is insufficient")
	}
	return nil
}
