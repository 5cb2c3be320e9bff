//go:build integration

package repositories

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/BradenHooton/educenter/internal/database"
	"github.com/BradenHooton/educenter/internal/database/dbtest"
	"github.com/BradenHooton/educenter/internal/models"
)

var (
	// container is shared by every integration test in the package
	container *dbtest.TestDB
	testDB    *database.DB
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	container, err = dbtest.Start(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up test database: %v\n", err)
		os.Exit(1)
	}
	testDB = container.DB

	code := m.Run()

	_ = container.Teardown(ctx)
	os.Exit(code)
}

// truncateAll empties every table between tests
func truncateAll(t *testing.T) {
	t.Helper()
	if err := container.Truncate(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func seedUser(t *testing.T, repo *UserRepository, email, phone, status string) *models.User {
	t.Helper()
	user, err := repo.Create(context.Background(), &models.User{
		Email:        email,
		Phone:        phone,
		PasswordHash: "hash",
		FullName:     "Test " + email,
		Role:         models.RoleUser,
		Status:       status,
	})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func itoa(n int64) string {
	return fmt.Sprintf("%d", n)
}
