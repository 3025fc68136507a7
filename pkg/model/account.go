package model

import "time"

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleOwner      Role = "OWNER"
	RoleBarManager Role = "BAR_MANAGER"
	RoleHeadChef   Role = "HEAD_CHEF"
	RoleBartender  Role = "BARTENDER"
	RoleServer     Role = "SERVER"
	RoleCustomer   Role = "CUSTOMER"
	RoleGuest      Role = "GUEST"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleBarManager, RoleHeadChef, RoleBartender, RoleServer, RoleCustomer, RoleGuest:
		return true
	}
	return false
}

// Account is the minimal identity record the reservation core links to.
type Account struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Email     string    `json:"email" bson:"email"`
	Name      string    `json:"name" bson:"name"`
	Role      Role      `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type SpecialEvent struct {
	ID    string `json:"id,omitempty" bson:"_id,omitempty"`
	Date  Date   `json:"date" bson:"date"`
	Title string `json:"title" bson:"title"`
}

// RoomLock is an advisory lock document guarding a reservation or room key.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
