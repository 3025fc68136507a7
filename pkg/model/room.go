package model

import "time"

type RoomType string

const (
	RoomTypeTable   RoomType = "TABLE"
	RoomTypeKaraoke RoomType = "KARAOKE_ROOM"
)

// Label is the human readable name used in notifications and summaries.
func (t RoomType) Label() string {
	switch t {
	case RoomTypeTable:
		return "Table"
	case RoomTypeKaraoke:
		return "Karaoke Room"
	default:
		return string(t)
	}
}

type Room struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"max=500"`
	Type        RoomType  `json:"type" bson:"type" validate:"required"`
	Capacity    int       `json:"capacity" bson:"capacity" validate:"required,min=1"`
	Bookable    bool      `json:"bookable" bson:"bookable"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type RoomFilter struct {
	Type         RoomType
	BookableOnly bool
}
