package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"stopshot/internal/migrations/mongo/validators"
)

func TestCollectionsHaveValidatorsAndIndexes(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range collections() {
		if seen[def.Name] {
			t.Errorf("collection %s defined twice", def.Name)
		}
		seen[def.Name] = true

		if len(def.Indexes) == 0 {
			t.Errorf("collection %s has no indexes", def.Name)
		}
		if _, ok := def.Validator["$jsonSchema"].(bson.M); !ok {
			t.Errorf("collection %s validator has no $jsonSchema", def.Name)
		}
	}
	for _, name := range []string{"Rooms", "Reservations", "Accounts", "Special_events", "Room_locks"} {
		if !seen[name] {
			t.Errorf("collection %s is not migrated", name)
		}
	}
}

func TestRoomLocksExpireByTTL(t *testing.T) {
	if len(RoomLocksIndexes) != 1 {
		t.Fatalf("Room_locks indexes = %d, want 1", len(RoomLocksIndexes))
	}
	opts := RoomLocksIndexes[0].Options
	if opts == nil || opts.ExpireAfterSeconds == nil || *opts.ExpireAfterSeconds != 0 {
		t.Error("expires_at index must be a TTL index expiring at the stored instant")
	}
}

func TestReservationStatusEnum(t *testing.T) {
	props := validators.ReservationValidator["$jsonSchema"].(bson.M)["properties"].(bson.M)
	status, ok := props["status"].(bson.M)
	if !ok {
		t.Fatal("status property missing")
	}
	enum, _ := status["enum"].([]string)
	want := map[string]bool{"PENDING": true, "CONFIRMED": true, "CANCELLED": true}
	if len(enum) != len(want) {
		t.Fatalf("status enum = %v", enum)
	}
	for _, s := range enum {
		if !want[s] {
			t.Errorf("unexpected status %s", s)
		}
	}
}
