package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"

	"github.com/jobtrackr/jobtrackr-go/internal/repository/migrations"
)

func TestNewUserRepository(t *testing.T) {
	repo := NewUserRepository(nil)
	if repo == nil {
		t.Fatal("expected non-nil UserRepository")
	}
	if repo.db != nil {
		t.Fatal("expected nil db when constructed with nil")
	}
}

func TestSentinelErrors(t *testing.T) {
	if ErrUserNotFound.Error() != "user not found" {
		t.Fatalf("unexpected error message: %s", ErrUserNotFound.Error())
	}
	if ErrDuplicateEmail.Error() != "email already exists" {
		t.Fatalf("unexpected error message: %s", ErrDuplicateEmail.Error())
	}
	if errors.Is(ErrResetTokenNotFound, ErrUserNotFound) {
		t.Fatal("reset token and user sentinels must be distinct")
	}
}

func TestIsDuplicateEntryError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "sentinel", err: ErrUserNotFound, want: false},
		{name: "duplicate entry", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, want: true},
		{name: "wrapped duplicate entry", err: fmt.Errorf("exec: %w", &mysql.MySQLError{Number: 1062}), want: true},
		{name: "other mysql error", err: &mysql.MySQLError{Number: 1452, Message: "foreign key"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateEntryError(tt.err); got != tt.want {
				t.Errorf("isDuplicateEntryError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	for _, name := range []string{"00001_create_users.sql", "00002_create_jobs.sql", "00003_create_resumes.sql"} {
		if _, err := migrations.FS.Open(name); err != nil {
			t.Errorf("migration %s not embedded: %v", name, err)
		}
	}
}
