package services

import (
	"testing"

	"github.com/whatsthatbrick/whatsthatbrick/internal/apperr"
	"github.com/whatsthatbrick/whatsthatbrick/internal/models"
	"github.com/whatsthatbrick/whatsthatbrick/internal/types"
)

func TestApprovalPromotesRequest(t *testing.T) {
	database := newTestDB(t)
	requests := NewRequestService(database)
	submitter := identityOf(createUser(t, database, "alice", types.RoleUser))
	admin := identityOf(createUser(t, database, "admin", types.RoleAdmin))

	request, err := requests.Submit(submitter, RequestInput{Name: "2x4 Brick", PartCode: "3001"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if request.Status != types.RequestStatusSubmitted {
		t.Fatalf("expected submitted, got %s", request.Status)
	}

	result, err := requests.Handle(request.ID, admin, RequestDecision{Status: types.RequestStatusApproved})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	if result.Brick == nil {
		t.Fatal("approval must create a brick")
	}
	if result.Brick.Status != types.BrickStatusPublished {
		t.Fatalf("promoted brick must be published, got %s", result.Brick.Status)
	}
	if result.Brick.CreatedByID == nil || *result.Brick.CreatedByID != submitter.ID {
		t.Fatal("promoted brick must credit the submitter, not the admin")
	}
	if result.Brick.PartCode == nil || *result.Brick.PartCode != "3001" {
		t.Fatalf("part code should carry over, got %v", result.Brick.PartCode)
	}

	if result.Notification == nil || result.Notification.Type != types.NotificationRequestApproved {
		t.Fatal("approval must notify the submitter")
	}
	if result.Notification.UserID != submitter.ID {
		t.Fatal("notification must go to the submitter")
	}

	if result.Request.Status != types.RequestStatusApproved {
		t.Fatalf("request should be approved, got %s", result.Request.Status)
	}
	if result.Request.DateHandled == nil {
		t.Fatal("handled timestamp must be set")
	}
	if result.Request.ReviewedByID == nil || *result.Request.ReviewedByID != admin.ID {
		t.Fatal("reviewer must be recorded")
	}
}

func TestHandleIsSingleShot(t *testing.T) {
	database := newTestDB(t)
	requests := NewRequestService(database)
	submitter := identityOf(createUser(t, database, "alice", types.RoleUser))
	admin := identityOf(createUser(t, database, "admin", types.RoleAdmin))

	request, err := requests.Submit(submitter, RequestInput{Name: "2x4 Brick"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := requests.Handle(request.ID, admin, RequestDecision{Status: types.RequestStatusApproved}); err != nil {
		t.Fatalf("first handle: %v", err)
	}

	bricks := countRows(t, database, &models.Brick{})
	notifications := countRows(t, database, &models.Notification{})

	// A retried decision, even the opposite one, must not re-run the
	// promotion.
	_, err = requests.Handle(request.ID, admin, RequestDecision{Status: types.RequestStatusRejected})
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}

	if got := countRows(t, database, &models.Brick{}); got != bricks {
		t.Fatalf("second handle created a brick: %d -> %d", bricks, got)
	}
	if got := countRows(t, database, &models.Notification{}); got != notifications {
		t.Fatalf("second handle created a notification: %d -> %d", notifications, got)
	}

	var reloaded models.NewPartRequest
	if err := database.First(&reloaded, request.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != types.RequestStatusApproved {
		t.Fatalf("terminal status must not change, got %s", reloaded.Status)
	}
}

func TestHandleValidation(t *testing.T) {
	database := newTestDB(t)
	requests := NewRequestService(database)
	submitter := identityOf(createUser(t, database, "alice", types.RoleUser))
	admin := identityOf(createUser(t, database, "admin", types.RoleAdmin))

	request, err := requests.Submit(submitter, RequestInput{Name: "2x4 Brick"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := requests.Handle(request.ID, admin, RequestDecision{Status: "submitted"}); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf(`only "approved" and "rejected" are decisions, got %v`, err)
	}

	if _, err := requests.Handle(9999, admin, RequestDecision{Status: types.RequestStatusApproved}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found for missing request, got %v", err)
	}

	if _, err := requests.Submit(submitter, RequestInput{Name: "  "}); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatal("expected validation error for blank name")
	}
}

func TestRejectionNotifiesWithComment(t *testing.T) {
	database := newTestDB(t)
	requests := NewRequestService(database)
	submitter := identityOf(createUser(t, database, "alice", types.RoleUser))
	admin := identityOf(createUser(t, database, "admin", types.RoleAdmin))

	request, err := requests.Submit(submitter, RequestInput{Name: "Fake part"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	result, err := requests.Handle(request.ID, admin, RequestDecision{
		Status:       types.RequestStatusRejected,
		AdminComment: "Duplicate of 3001",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	if result.Brick != nil {
		t.Fatal("rejection must not create a brick")
	}
	if result.Notification == nil || result.Notification.Type != types.NotificationRequestRejected {
		t.Fatal("rejection must notify the submitter")
	}
	if result.Request.AdminComment != "Duplicate of 3001" {
		t.Fatalf("comment not recorded: %q", result.Request.AdminComment)
	}
}

func TestApprovalDropsCollidingPartCode(t *testing.T) {
	database := newTestDB(t)
	catalog := NewCatalogService(database)
	requests := NewRequestService(database)
	submitter := identityOf(createUser(t, database, "alice", types.RoleUser))
	admin := identityOf(createUser(t, database, "admin", types.RoleAdmin))

	createBrick(t, catalog, admin, BrickInput{Name: "Existing", PartCode: "3001"})

	request, err := requests.Submit(submitter, RequestInput{Name: "Duplicate code", PartCode: "3001"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// The approval must go through with the code silently dropped, never
	// fail on the collision.
	result, err := requests.Handle(request.ID, admin, RequestDecision{Status: types.RequestStatusApproved})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	if result.Brick == nil {
		t.Fatal("approval must still create a brick")
	}
	if result.Brick.PartCode != nil {
		t.Fatalf("colliding part code should be dropped, got %v", *result.Brick.PartCode)
	}
}

func TestRequestAccessControl(t *testing.T) {
	database := newTestDB(t)
	requests := NewRequestService(database)
	alice := identityOf(createUser(t, database, "alice", types.RoleUser))
	bob := identityOf(createUser(t, database, "bob", types.RoleUser))
	admin := identityOf(createUser(t, database, "admin", types.RoleAdmin))

	request, err := requests.Submit(alice, RequestInput{Name: "Mine"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := requests.Get(request.ID, bob); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatal("other users must not read a foreign request")
	}
	if _, err := requests.Get(request.ID, alice); err != nil {
		t.Fatalf("submitter get: %v", err)
	}
	if _, err := requests.Get(request.ID, admin); err != nil {
		t.Fatalf("admin get: %v", err)
	}
	if _, err := requests.Get(9999, admin); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatal("expected not found")
	}
}

func TestRequestListScoping(t *testing.T) {
	database := newTestDB(t)
	requests := NewRequestService(database)
	alice := identityOf(createUser(t, database, "alice", types.RoleUser))
	bob := identityOf(createUser(t, database, "bob", types.RoleUser))
	admin := identityOf(createUser(t, database, "admin", types.RoleAdmin))

	if _, err := requests.Submit(alice, RequestInput{Name: "From alice"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := requests.Submit(bob, RequestInput{Name: "From bob"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// A non-admin asking for someone else's requests is pinned to their
	// own.
	page, err := requests.List(alice, RequestFilters{UserID: bob.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || page.Data[0].UserID != alice.ID {
		t.Fatalf("non-admin list must be scoped to self")
	}

	page, err = requests.List(admin, RequestFilters{UserID: bob.ID})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if page.Total != 1 || page.Data[0].UserID != bob.ID {
		t.Fatalf("admin should filter by any user")
	}

	page, err = requests.List(admin, RequestFilters{})
	if err != nil {
		t.Fatalf("admin unfiltered list: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("admin should see all requests, got %d", page.Total)
	}

	page, err = requests.List(admin, RequestFilters{Query: "ALICE"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("free text search failed, got %d", page.Total)
	}
}

func TestRequestDelete(t *testing.T) {
	database := newTestDB(t)
	requests := NewRequestService(database)
	alice := identityOf(createUser(t, database, "alice", types.RoleUser))

	request, err := requests.Submit(alice, RequestInput{Name: "Short lived"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := requests.Delete(request.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := requests.Delete(request.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatal("expected not found on second delete")
	}

	// Deleting a request never emits a notification.
	if got := countRows(t, database, &models.Notification{}); got != 0 {
		t.Fatalf("expected no notifications, got %d", got)
	}
}
