package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jobtrackr/jobtrackr-go/internal/crypto"
	"github.com/jobtrackr/jobtrackr-go/internal/model"
)

type fakeResult struct {
	rows int64
	err  error
}

func (f fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (f fakeResult) RowsAffected() (int64, error) { return f.rows, f.err }

// The conditional UPDATE reports a lost race as zero affected rows.
func TestRequireRows(t *testing.T) {
	if err := requireRows(fakeResult{rows: 1}, ErrResetTokenNotFound); err != nil {
		t.Fatalf("one row: %v", err)
	}
	if err := requireRows(fakeResult{rows: 0}, ErrResetTokenNotFound); !errors.Is(err, ErrResetTokenNotFound) {
		t.Fatalf("zero rows: err = %v, want ErrResetTokenNotFound", err)
	}
	boom := errors.New("driver")
	if err := requireRows(fakeResult{err: boom}, ErrResetTokenNotFound); !errors.Is(err, boom) {
		t.Fatalf("driver error: err = %v", err)
	}
}

// openTestDB connects to the database named by JOBTRACKR_TEST_DSN. The MySQL
// statements are only exercised when it is set; unit runs cover the same
// contract through MemoryStore.
func openTestDB(t *testing.T) *UserRepository {
	t.Helper()

	dsn := os.Getenv("JOBTRACKR_TEST_DSN")
	if dsn == "" {
		t.Skip("JOBTRACKR_TEST_DSN not set")
	}

	ctx := context.Background()
	db, err := NewDB(ctx, dsn, DefaultPoolConfig())
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return NewUserRepository(db)
}

func TestMySQLConsumeResetTokenIsSingleUse(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	user := &model.User{Name: "Ada", Email: uuid.NewString() + "@example.com", PasswordHash: "old", Initials: "A"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	now := time.Now()
	digest := crypto.DigestToken(uuid.NewString())
	if err := repo.SetResetToken(ctx, user.ID, digest, now.Add(time.Hour)); err != nil {
		t.Fatalf("SetResetToken: %v", err)
	}

	if err := repo.ConsumeResetToken(ctx, user.ID, digest, now, "new"); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if err := repo.ConsumeResetToken(ctx, user.ID, digest, now, "newer"); !errors.Is(err, ErrResetTokenNotFound) {
		t.Fatalf("second consume: err = %v, want ErrResetTokenNotFound", err)
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PasswordHash != "new" || got.ResetTokenHash != nil {
		t.Fatalf("unexpected row after consume: hash=%q token=%v", got.PasswordHash, got.ResetTokenHash)
	}
}

func TestMySQLConsumeResetTokenRejectsExpired(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	user := &model.User{Name: "Grace", Email: uuid.NewString() + "@example.com", PasswordHash: "old", Initials: "G"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	now := time.Now()
	digest := crypto.DigestToken(uuid.NewString())
	if err := repo.SetResetToken(ctx, user.ID, digest, now.Add(time.Minute)); err != nil {
		t.Fatalf("SetResetToken: %v", err)
	}

	if err := repo.ConsumeResetToken(ctx, user.ID, digest, now.Add(2*time.Minute), "new"); !errors.Is(err, ErrResetTokenNotFound) {
		t.Fatalf("expired consume: err = %v, want ErrResetTokenNotFound", err)
	}
	if _, err := repo.GetByResetToken(ctx, digest, now.Add(2*time.Minute)); !errors.Is(err, ErrResetTokenNotFound) {
		t.Fatalf("expired lookup: err = %v, want ErrResetTokenNotFound", err)
	}
}
