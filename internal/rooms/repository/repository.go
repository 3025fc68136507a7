package repository

import (
	"context"
	"strconv"

	mongotx "stopshot/pkg/db/mongo"
	"stopshot/pkg/model"
)

const (
	CollectionName = "Rooms"
)

type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	FindByID(ctx context.Context, id string) (*model.Room, error)
	FindAll(ctx context.Context, filter model.RoomFilter) ([]*model.Room, error)
	Delete(ctx context.Context, id string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

// DefaultCatalog is the venue's opening room list: two karaoke rooms and ten
// four-seat tables.
func DefaultCatalog() []model.Room {
	rooms := []model.Room{
		{Name: "Karaoke Room 1", Description: "Large karaoke room", Type: model.RoomTypeKaraoke, Capacity: 10, Bookable: true},
		{Name: "Karaoke Room 2", Description: "Medium karaoke room", Type: model.RoomTypeKaraoke, Capacity: 8, Bookable: true},
	}
	for i := 1; i <= 10; i++ {
		rooms = append(rooms, model.Room{
			Name:     "Table " + strconv.Itoa(i),
			Type:     model.RoomTypeTable,
			Capacity: 4,
			Bookable: true,
		})
	}
	return rooms
}
