//go:build db
// +build db

package memberships

import (
	"context"
	"fmt"
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	"github.com/giftwheel/giftwheel-backend/pkg/ids"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("GIFTWHEEL_DB_DSN")
	if dsn == "" {
		t.Skip("GIFTWHEEL_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func seedUser(t *testing.T, tx *gorm.DB, first string) *models.User {
	t.Helper()

	email := fmt.Sprintf("gw_test_%s@example.com", ids.New())
	user := &models.User{
		ID:        ids.New(),
		FirstName: first,
		Email:     &email,
		IsActive:  true,
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestRepositoryMembershipFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	manager := seedUser(t, tx, "Mara")
	member := seedUser(t, tx, "Ben")

	household := &models.Household{ID: ids.New(), Name: "Repo Household"}
	if err := tx.Create(household).Error; err != nil {
		t.Fatalf("create household: %v", err)
	}

	if err := repo.Upsert(ctx, &models.HouseholdMember{
		HouseholdID:    household.ID,
		UserID:         manager.ID,
		IsFamilyMember: true,
		IsManager:      true,
	}); err != nil {
		t.Fatalf("upsert manager: %v", err)
	}
	if err := repo.Upsert(ctx, &models.HouseholdMember{
		HouseholdID:    household.ID,
		UserID:         member.ID,
		IsFamilyMember: true,
	}); err != nil {
		t.Fatalf("upsert member: %v", err)
	}

	ok, err := repo.IsMember(ctx, household.ID, member.ID)
	if err != nil || !ok {
		t.Fatalf("expected member, got ok=%v err=%v", ok, err)
	}
	ok, err = repo.IsManager(ctx, household.ID, member.ID)
	if err != nil {
		t.Fatalf("is manager: %v", err)
	}
	if ok {
		t.Fatal("plain member should not be a manager")
	}

	// upsert on the same composite key promotes rather than duplicates
	if err := repo.Upsert(ctx, &models.HouseholdMember{
		HouseholdID:    household.ID,
		UserID:         member.ID,
		IsFamilyMember: true,
		IsManager:      true,
	}); err != nil {
		t.Fatalf("promote member: %v", err)
	}
	ok, err = repo.IsManager(ctx, household.ID, member.ID)
	if err != nil || !ok {
		t.Fatalf("expected promoted manager, got ok=%v err=%v", ok, err)
	}

	roster, err := repo.ListHouseholdMembers(ctx, household.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("expected 2 roster rows, got %d", len(roster))
	}
	if roster[0].FirstName != "Mara" {
		t.Fatalf("expected roster ordered by join time, got %q first", roster[0].FirstName)
	}

	earliest, err := repo.EarliestMembership(ctx, member.ID)
	if err != nil {
		t.Fatalf("earliest membership: %v", err)
	}
	if earliest.HouseholdID != household.ID {
		t.Fatalf("expected earliest membership in %s, got %s", household.ID, earliest.HouseholdID)
	}

	if err := repo.Delete(ctx, household.ID, member.ID); err != nil {
		t.Fatalf("delete membership: %v", err)
	}
	ok, err = repo.IsMember(ctx, household.ID, member.ID)
	if err != nil {
		t.Fatalf("is member after delete: %v", err)
	}
	if ok {
		t.Fatal("membership should be gone after delete")
	}

	// the user row survives membership removal
	var kept models.User
	if err := tx.First(&kept, "id = ?", member.ID).Error; err != nil {
		t.Fatalf("user row should survive: %v", err)
	}
}
