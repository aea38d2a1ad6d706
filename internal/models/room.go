package models

import "github.com/kovazenko1977/sanatory/internal/store"

// Room class service tiers.
const (
	LevelStandard     = "standard"
	LevelDeluxe       = "deluxe"
	LevelSuite        = "suite"
	LevelPresidential = "presidential"
)

// RoomClass describes a bookable room category. Physical rooms reference it
// by id; it must not be deleted while any instance does.
type RoomClass struct {
	store.Meta
	Name        string   `json:"name"`
	Level       string   `json:"level"`
	MaxGuests   int      `json:"max_guests"`
	BasePrice   float64  `json:"base_price"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
	Area        float64  `json:"area"`
	Active      bool     `json:"active"`
}

// Room instance statuses.
const (
	RoomStatusActive      = "active"
	RoomStatusMaintenance = "maintenance"
	RoomStatusBlocked     = "blocked"
)

// RoomInstance is one physical room of a RoomClass. The block window is
// informational; only the status keeps a blocked room out of availability.
type RoomInstance struct {
	store.Meta
	RoomClassID int    `json:"room_class_id"`
	RoomNumber  string `json:"room_number"`
	Floor       int    `json:"floor"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
	BlockReason string `json:"block_reason,omitempty"`
	BlockFrom   string `json:"block_from,omitempty"`
	BlockTo     string `json:"block_to,omitempty"`
}

// RoomInstanceView is a room instance decorated with its resolved class.
type RoomInstanceView struct {
	RoomInstance
	RoomClass *RoomClass `json:"room_class,omitempty"`
}
