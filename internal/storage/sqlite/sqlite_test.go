package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hisab-io/hisab/internal/apperr"
	"github.com/hisab-io/hisab/internal/models"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "hisab-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, store *SQLiteStore, email, username string) *models.User {
	t.Helper()
	user := models.NewUser(email, username, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func seedGroup(t *testing.T, store *SQLiteStore, creatorID string, memberIDs ...string) *models.Group {
	t.Helper()
	now := time.Now().Unix()
	members := []models.Member{{UserID: creatorID, JoinedAt: now}}
	for _, id := range memberIDs {
		members = append(members, models.Member{UserID: id, JoinedAt: now})
	}
	group := &models.Group{
		Name:      "Test Group",
		Currency:  "INR",
		CreatorID: creatorID,
		Members:   members,
	}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func TestUsers(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	t.Run("create and retrieve", func(t *testing.T) {
		user := seedUser(t, store, "alice@example.com", "Alice")

		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail == nil || byEmail.ID != user.ID {
			t.Errorf("GetUserByEmail: expected %s, got %+v", user.ID, byEmail)
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID == nil || byID.Email != user.Email {
			t.Errorf("GetUserByID: expected %s, got %+v", user.Email, byID)
		}
	})

	t.Run("missing user is nil not error", func(t *testing.T) {
		user, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if user != nil {
			t.Errorf("expected nil user, got %+v", user)
		}
	})

	t.Run("update profile fields", func(t *testing.T) {
		user := seedUser(t, store, "bob@example.com", "Bob")
		user.Username = "Bobby"
		user.Avatar = "/uploads/bob.png"

		if err := store.UpdateUser(ctx, user); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}

		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.Username != "Bobby" || got.Avatar != "/uploads/bob.png" {
			t.Errorf("profile not persisted: %+v", got)
		}
	})
}

func TestGroups(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")

	t.Run("create generates ID and preserves member order", func(t *testing.T) {
		group := seedGroup(t, store, alice.ID, bob.ID)

		if group.ID == "" {
			t.Error("expected generated group ID")
		}
		if group.CreatedAt == 0 {
			t.Error("expected CreatedAt to be set")
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Members) != 2 {
			t.Fatalf("expected 2 members, got %d", len(got.Members))
		}
		if got.Members[0].UserID != alice.ID {
			t.Errorf("expected creator first, got %s", got.Members[0].UserID)
		}
	})

	t.Run("missing group is a not found error", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("list by member", func(t *testing.T) {
		solo := seedGroup(t, store, alice.ID)

		groups, err := store.ListGroupsByMember(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		if len(groups) < 2 {
			t.Fatalf("expected at least 2 groups for alice, got %d", len(groups))
		}

		bobGroups, err := store.ListGroupsByMember(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		for _, g := range bobGroups {
			if g.ID == solo.ID {
				t.Error("bob should not see alice's solo group")
			}
		}
	})

	t.Run("duplicate member is a conflict", func(t *testing.T) {
		group := seedGroup(t, store, alice.ID)

		if err := store.AddGroupMember(ctx, group.ID, bob.ID, time.Now().Unix()); err != nil {
			t.Fatalf("AddGroupMember failed: %v", err)
		}
		err := store.AddGroupMember(ctx, group.ID, bob.ID, time.Now().Unix())
		if !apperr.IsKind(err, apperr.KindConflict) {
			t.Errorf("expected conflict, got %v", err)
		}
	})

	t.Run("delete removes group and memberships", func(t *testing.T) {
		group := seedGroup(t, store, alice.ID, bob.ID)

		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		if _, err := store.GetGroup(ctx, group.ID); !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("expected not found after delete, got %v", err)
		}
		if err := store.DeleteGroup(ctx, group.ID); !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("expected not found for double delete, got %v", err)
		}
	})
}

func TestExpenses(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")
	group := seedGroup(t, store, alice.ID, bob.ID)

	newExpense := func(description string, date int64) *models.Expense {
		return &models.Expense{
			Description: description,
			Amount:      100,
			PaidBy:      alice.ID,
			CreatedBy:   alice.ID,
			GroupID:     group.ID,
			Category:    models.CategoryFood,
			Date:        date,
			Splits: []models.Split{
				{UserID: alice.ID, Amount: 50},
				{UserID: bob.ID, Amount: 50},
			},
		}
	}

	t.Run("create and retrieve with splits in order", func(t *testing.T) {
		expense := newExpense("Dinner", 1700000000)
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" || expense.CreatedAt == 0 {
			t.Error("expected generated ID and CreatedAt")
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if len(got.Splits) != 2 {
			t.Fatalf("expected 2 splits, got %d", len(got.Splits))
		}
		if got.Splits[0].UserID != alice.ID || got.Splits[1].UserID != bob.ID {
			t.Errorf("split order not preserved: %+v", got.Splits)
		}
		if got.GroupID != group.ID || got.Category != models.CategoryFood {
			t.Errorf("fields not persisted: %+v", got)
		}
	})

	t.Run("update replaces splits", func(t *testing.T) {
		expense := newExpense("Rent", 1700000001)
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		expense.Amount = 120
		expense.Splits = []models.Split{{UserID: bob.ID, Amount: 120}}
		if err := store.UpdateExpense(ctx, expense); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Amount != 120 || len(got.Splits) != 1 || got.Splits[0].UserID != bob.ID {
			t.Errorf("update not persisted: %+v", got)
		}
	})

	t.Run("search pages newest first", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			e := newExpense("Weekly shop", int64(1710000000+i))
			if err := store.CreateExpense(ctx, e); err != nil {
				t.Fatalf("CreateExpense failed: %v", err)
			}
		}

		expenses, total, err := store.SearchExpensesByGroup(ctx, group.ID, "weekly", 1, 3)
		if err != nil {
			t.Fatalf("SearchExpensesByGroup failed: %v", err)
		}
		if total != 5 {
			t.Errorf("total: expected 5, got %d", total)
		}
		if len(expenses) != 3 {
			t.Errorf("page: expected 3, got %d", len(expenses))
		}
		if len(expenses) > 0 && expenses[0].Date != 1710000004 {
			t.Errorf("expected newest first, got date %d", expenses[0].Date)
		}
	})

	t.Run("personal expenses are groupless", func(t *testing.T) {
		personal := &models.Expense{
			Description: "Coffee",
			Amount:      4,
			PaidBy:      alice.ID,
			CreatedBy:   alice.ID,
			Category:    models.CategoryOther,
			Splits:      []models.Split{{UserID: alice.ID, Amount: 4}},
		}
		if err := store.CreateExpense(ctx, personal); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		list, err := store.ListPersonalExpenses(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListPersonalExpenses failed: %v", err)
		}
		if len(list) != 1 || list[0].ID != personal.ID {
			t.Errorf("expected only the personal expense, got %d", len(list))
		}
	})

	t.Run("delete cascades splits", func(t *testing.T) {
		expense := newExpense("Short lived", 1700000002)
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, expense.ID); !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("expected not found after delete, got %v", err)
		}
	})
}

func TestSettlements(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")
	group := seedGroup(t, store, alice.ID, bob.ID)

	t.Run("create applies defaults", func(t *testing.T) {
		settlement := &models.Settlement{
			GroupID:    group.ID,
			FromUserID: bob.ID,
			ToUserID:   alice.ID,
			Amount:     25,
		}
		if err := store.CreateSettlement(ctx, settlement); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}
		if settlement.ID == "" {
			t.Error("expected generated ID")
		}
		if settlement.Status != models.SettlementConfirmed {
			t.Errorf("status: expected confirmed default, got %s", settlement.Status)
		}
		if settlement.PaidAt == 0 || settlement.CreatedAt == 0 {
			t.Error("expected timestamps to be set")
		}

		got, err := store.GetSettlement(ctx, settlement.ID)
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
		if got.FromUserID != bob.ID || got.ToUserID != alice.ID || got.Amount != 25 {
			t.Errorf("fields not persisted: %+v", got)
		}
	})

	t.Run("list for split matches explicit and implicit owner", func(t *testing.T) {
		expense := &models.Expense{
			Description: "Dinner",
			Amount:      100,
			PaidBy:      alice.ID,
			CreatedBy:   alice.ID,
			GroupID:     group.ID,
			Category:    models.CategoryFood,
			Splits: []models.Split{
				{UserID: alice.ID, Amount: 50},
				{UserID: bob.ID, Amount: 50},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		// One settlement names bob's split explicitly; one targets alice's
		// split implicitly through the receiving party.
		explicit := &models.Settlement{
			GroupID: group.ID, FromUserID: bob.ID, ToUserID: alice.ID,
			Amount: 10, ExpenseID: expense.ID, SplitUserID: bob.ID,
		}
		implicit := &models.Settlement{
			GroupID: group.ID, FromUserID: bob.ID, ToUserID: alice.ID,
			Amount: 10, ExpenseID: expense.ID,
		}
		for _, s := range []*models.Settlement{explicit, implicit} {
			if err := store.CreateSettlement(ctx, s); err != nil {
				t.Fatalf("CreateSettlement failed: %v", err)
			}
		}

		forBob, err := store.ListSettlementsForSplit(ctx, expense.ID, bob.ID)
		if err != nil {
			t.Fatalf("ListSettlementsForSplit failed: %v", err)
		}
		if len(forBob) != 1 {
			t.Errorf("expected 1 settlement targeting bob's split, got %d", len(forBob))
		}

		forAlice, err := store.ListSettlementsForSplit(ctx, expense.ID, alice.ID)
		if err != nil {
			t.Fatalf("ListSettlementsForSplit failed: %v", err)
		}
		if len(forAlice) != 1 {
			t.Errorf("expected 1 settlement targeting alice's split, got %d", len(forAlice))
		}
	})

	t.Run("delete", func(t *testing.T) {
		settlement := &models.Settlement{
			GroupID:    group.ID,
			FromUserID: bob.ID,
			ToUserID:   alice.ID,
			Amount:     5,
		}
		if err := store.CreateSettlement(ctx, settlement); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}
		if err := store.DeleteSettlement(ctx, settlement.ID); err != nil {
			t.Fatalf("DeleteSettlement failed: %v", err)
		}
		if _, err := store.GetSettlement(ctx, settlement.ID); !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("expected not found after delete, got %v", err)
		}
	})
}
