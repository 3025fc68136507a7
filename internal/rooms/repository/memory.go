package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	roomserrors "stopshot/internal/rooms/errors"
	mongotx "stopshot/pkg/db/mongo"
	"stopshot/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryRoomRepository struct {
	mu    sync.RWMutex
	rooms map[string]model.Room
}

// NewMemoryRoomRepository returns a registry holding seed. Pass
// DefaultCatalog() for the venue's standard rooms.
func NewMemoryRoomRepository(seed ...model.Room) RoomRepository {
	r := &memoryRoomRepository{rooms: make(map[string]model.Room)}
	for i := range seed {
		_ = r.Create(context.Background(), &seed[i])
	}
	return r
}

func (r *memoryRoomRepository) Create(_ context.Context, room *model.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room.ID == "" {
		room.ID = primitive.NewObjectID().Hex()
	}
	room.CreatedAt = time.Now().UTC()
	r.rooms[room.ID] = *room
	return nil
}

func (r *memoryRoomRepository) FindByID(_ context.Context, id string) (*model.Room, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, roomserrors.ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, roomserrors.ErrNotFound
	}
	return &room, nil
}

func (r *memoryRoomRepository) FindAll(_ context.Context, filter model.RoomFilter) ([]*model.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		if filter.Type != "" && room.Type != filter.Type {
			continue
		}
		if filter.BookableOnly && !room.Bookable {
			continue
		}
		out = append(out, &room)
	}
	slices.SortFunc(out, func(a, b *model.Room) int {
		return cmp.Or(cmp.Compare(a.Type, b.Type), cmp.Compare(a.Name, b.Name))
	})
	return out, nil
}

func (r *memoryRoomRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[id]; !ok {
		return roomserrors.ErrNotFound
	}
	delete(r.rooms, id)
	return nil
}

func (r *memoryRoomRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}
