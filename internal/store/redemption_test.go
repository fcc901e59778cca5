package store

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hyunwoopark/meritpoint/internal/database"
	"github.com/hyunwoopark/meritpoint/internal/model"
)

func setupRedemptionTestDB(t *testing.T) (*ActorStore, *PointStore, *RedemptionStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewActorStore(db), NewPointStore(db), NewRedemptionStore(db)
}

func approvePoints(t *testing.T, ps *PointStore, value int) {
	t.Helper()
	p, err := ps.Create(CreatePointParams{
		GiverID:    "24-50000001",
		ReceiverID: "25-70000001",
		ApproverID: "24-50000002",
		Value:      value,
		Reason:     "drill",
		GivenAt:    time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC),
		Status:     model.PointPending,
	})
	if err != nil {
		t.Fatalf("create point: %v", err)
	}
	if _, err := ps.SetApproved(p.ID); err != nil {
		t.Fatalf("approve point: %v", err)
	}
}

func TestRedemptionGuard(t *testing.T) {
	as, ps, rs := setupRedemptionTestDB(t)
	as.Create("25-70000001", "Kim Cheolsu", model.RoleMember)
	as.Create("24-50000001", "Lee Young", model.RoleStaff)

	approvePoints(t, ps, 10)
	approvePoints(t, ps, -3)

	// Spendable balance is 7.
	ok, err := rs.CreateIfAffordable("25-70000001", "24-50000001", 8, "leave pass")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if ok {
		t.Error("redemption above balance should be refused")
	}

	ok, err = rs.CreateIfAffordable("25-70000001", "24-50000001", 5, "leave pass")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if !ok {
		t.Fatal("redemption within balance should succeed")
	}

	// Balance now 2: another 5 must be refused.
	ok, err = rs.CreateIfAffordable("25-70000001", "24-50000001", 5, "leave pass")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if ok {
		t.Error("redemption should account for prior redemptions")
	}

	total, err := rs.SumByUser("25-70000001")
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != 5 {
		t.Errorf("redeemed total = %d, want 5", total)
	}
}

func TestRedemptionPendingPointsDoNotCount(t *testing.T) {
	as, ps, rs := setupRedemptionTestDB(t)
	as.Create("25-70000001", "Kim Cheolsu", model.RoleMember)
	as.Create("24-50000001", "Lee Young", model.RoleStaff)

	_, err := ps.Create(CreatePointParams{
		GiverID:    "24-50000001",
		ReceiverID: "25-70000001",
		ApproverID: "24-50000002",
		Value:      20,
		Reason:     "inspection",
		GivenAt:    time.Now().UTC(),
		Status:     model.PointPending,
	})
	if err != nil {
		t.Fatalf("create point: %v", err)
	}

	ok, err := rs.CreateIfAffordable("25-70000001", "24-50000001", 1, "snack")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if ok {
		t.Error("pending entries must not fund a redemption")
	}
}

func TestRedemptionListByUser(t *testing.T) {
	as, ps, rs := setupRedemptionTestDB(t)
	as.Create("25-70000001", "Kim Cheolsu", model.RoleMember)
	as.Create("24-50000001", "Lee Young", model.RoleStaff)

	approvePoints(t, ps, 30)

	rs.CreateIfAffordable("25-70000001", "24-50000001", 10, "first")
	rs.CreateIfAffordable("25-70000001", "24-50000001", 5, "second")

	list, err := rs.ListByUser("25-70000001")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 redemptions, got %d", len(list))
	}
	if list[0].Reason != "second" || list[1].Reason != "first" {
		t.Errorf("expected newest first, got %q then %q", list[0].Reason, list[1].Reason)
	}
	if list[0].RecorderName != "Lee Young" {
		t.Errorf("recorder name = %q, want %q", list[0].RecorderName, "Lee Young")
	}

	none, err := rs.ListByUser("24-50000001")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no redemptions, got %d", len(none))
	}
}

// Concurrent redeemers must never jointly overdraw the balance. Uses a
// file-backed database because pooled in-memory connections do not share
// state.
func TestRedemptionConcurrentGuard(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	as := NewActorStore(db)
	ps := NewPointStore(db)
	rs := NewRedemptionStore(db)

	as.Create("25-70000001", "Kim Cheolsu", model.RoleMember)
	as.Create("24-50000001", "Lee Young", model.RoleStaff)
	approvePoints(t, ps, 50)

	var wg sync.WaitGroup
	results := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := rs.CreateIfAffordable("25-70000001", "24-50000001", 10, "race")
			if err != nil {
				t.Errorf("redeem: %v", err)
				return
			}
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for ok := range results {
		if ok {
			succeeded++
		}
	}
	if succeeded != 5 {
		t.Errorf("succeeded = %d, want exactly 5", succeeded)
	}

	total, err := rs.SumByUser("25-70000001")
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != 50 {
		t.Errorf("redeemed total = %d, want 50", total)
	}
}
