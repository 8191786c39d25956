package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))

	u := &types.User{Username: "ada", Email: "ada@example.com", Password: "hash"}
	if _, err := repo.Create(dbc, []*types.User{u}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Fatalf("expected id to be assigned on create")
	}

	got, err := repo.GetByUsername(dbc, " ada ")
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByUsername: err=%v got=%v", err, got)
	}
	if exists, err := repo.UsernameExists(dbc, "ada"); err != nil || !exists {
		t.Fatalf("UsernameExists: err=%v exists=%v", err, exists)
	}
	if missing, err := repo.GetByID(dbc, uuid.New()); err != nil || missing != nil {
		t.Fatalf("GetByID(missing): err=%v got=%v", err, missing)
	}

	if err := repo.UpdateName(dbc, u.ID, "Ada", "Lovelace"); err != nil {
		t.Fatalf("UpdateName: %v", err)
	}
	rows, err := repo.GetByIDs(dbc, []uuid.UUID{u.ID})
	if err != nil || len(rows) != 1 || rows[0].LastName != "Lovelace" {
		t.Fatalf("GetByIDs after UpdateName: err=%v rows=%v", err, rows)
	}

	dup := &types.User{Username: "ada", Password: "x"}
	if _, err := repo.Create(dbc, []*types.User{dup}); err == nil {
		t.Fatalf("expected duplicate username to fail")
	}
}
