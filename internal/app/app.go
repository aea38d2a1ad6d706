package app

import (
	"context"

	"github.com/kovazenko1977/sanatory/internal/config"
	"github.com/kovazenko1977/sanatory/internal/logger"
	"github.com/kovazenko1977/sanatory/internal/service"
	"github.com/kovazenko1977/sanatory/internal/store"
)

// App wires the store, the managers and the optional collaborators
// (email notifications, calendar publishing) together.
type App struct {
	Config      *config.Config
	Collections *service.Collections

	Bookings *service.BookingManager
	Rooms    *service.RoomManager
	Guests   *service.GuestManager
	Catalog  *service.CatalogManager
	Stats    *service.StatsAggregator
	Settings *service.SettingsManager

	logger *logger.Logger
}

// New opens the store under cfg.DataPath and builds every manager.
// featureCfg may be nil; the calendar publisher is only wired when its
// config section is complete, and email only when SMTP credentials are set.
func New(ctx context.Context, cfg *config.Config, featureCfg *service.FeatureConfig, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.New()
	}

	st, err := store.Open(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	col := service.NewCollections(st)

	var notifier service.Notifier
	if cfg.SMTPConfigured() {
		emailSvc, err := service.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, "")
		if err != nil {
			log.Warn("Email service not available, notifications disabled", logger.Error(err))
		} else {
			notifier = emailSvc
			log.Info("Email service initialized", logger.Status("ready"))
		}
	}

	var calendarPub service.CalendarPublisher
	if featureCfg != nil && featureCfg.Calendar.Enabled() {
		calendarSvc, err := service.NewCalendarService(ctx, featureCfg.Calendar)
		if err != nil {
			log.Warn("Calendar service not available, publishing disabled", logger.Error(err))
		} else {
			calendarPub = calendarSvc
			log.Info("Calendar service initialized", logger.Status("ready"))
		}
	}

	availability := service.NewAvailabilityChecker(col.Bookings)
	pricing := service.NewPriceCalculator(col)
	rooms := service.NewRoomManager(col, log)

	return &App{
		Config:      cfg,
		Collections: col,
		Bookings:    service.NewBookingManager(col, availability, pricing, notifier, calendarPub, log),
		Rooms:       rooms,
		Guests:      service.NewGuestManager(col, log),
		Catalog:     service.NewCatalogManager(col, log),
		Stats:       service.NewStatsAggregator(col, rooms),
		Settings:    service.NewSettingsManager(col, log),
		logger:      log,
	}, nil
}
