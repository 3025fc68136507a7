package accounts

import (
	"context"
	"errors"
	"testing"

	"stopshot/pkg/model"
)

func TestMemoryDirectory_FindOrCreate(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory()

	first, err := dir.FindOrCreate(ctx, " Maria@Example.com ", "Maria  Santos")
	if err != nil {
		t.Fatalf("FindOrCreate() error = %v", err)
	}
	if first.Email != "maria@example.com" || first.Name != "Maria Santos" || first.Role != model.RoleCustomer {
		t.Errorf("account = %+v", first)
	}

	second, err := dir.FindOrCreate(ctx, "maria@example.com", "Someone Else")
	if err != nil {
		t.Fatalf("FindOrCreate() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second lookup created a new account: %s != %s", second.ID, first.ID)
	}
	if second.Name != "Maria Santos" {
		t.Errorf("existing account name overwritten: %s", second.Name)
	}
}

func TestMemoryDirectory_EmptyEmail(t *testing.T) {
	_, err := NewMemoryDirectory().FindOrCreate(context.Background(), "  ", "x")
	if !errors.Is(err, ErrEmptyEmail) {
		t.Errorf("error = %v, want ErrEmptyEmail", err)
	}
}
