package service

import (
	"github.com/kovazenko1977/sanatory/internal/models"
	"github.com/kovazenko1977/sanatory/internal/store"
)

// Collection file names under the data directory.
const (
	roomClassesFile   = "rooms.json"
	roomInstancesFile = "room_instances.json"
	bookingsFile      = "bookings.json"
	guestsFile        = "guests.json"
	servicesFile      = "services.json"
	promocodesFile    = "promocodes.json"
	taxesFile         = "taxes.json"
	settingsFile      = "settings.json"
)

// Collections bundles the typed views every manager works through. Two
// collections bound to the same file share one lock, so managers can be
// wired independently without weakening the concurrency contract.
type Collections struct {
	RoomClasses   *store.Collection[*models.RoomClass]
	RoomInstances *store.Collection[*models.RoomInstance]
	Bookings      *store.Collection[*models.Booking]
	Guests        *store.Collection[*models.Guest]
	Services      *store.Collection[*models.Service]
	Promocodes    *store.Collection[*models.Promocode]
	Taxes         *store.Collection[*models.Tax]
	Settings      *store.Document[models.Settings]
}

// NewCollections binds all collection views to the given store.
func NewCollections(s *store.Store) *Collections {
	return &Collections{
		RoomClasses:   store.NewCollection[*models.RoomClass](s, roomClassesFile),
		RoomInstances: store.NewCollection[*models.RoomInstance](s, roomInstancesFile),
		Bookings:      store.NewCollection[*models.Booking](s, bookingsFile),
		Guests:        store.NewCollection[*models.Guest](s, guestsFile),
		Services:      store.NewCollection[*models.Service](s, servicesFile),
		Promocodes:    store.NewCollection[*models.Promocode](s, promocodesFile),
		Taxes:         store.NewCollection[*models.Tax](s, taxesFile),
		Settings:      store.NewDocument[models.Settings](s, settingsFile),
	}
}
