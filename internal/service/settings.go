package service

import (
	"github.com/kovazenko1977/sanatory/internal/logger"
	"github.com/kovazenko1977/sanatory/internal/models"
)

// SettingsManager owns the property-wide settings document.
type SettingsManager struct {
	col    *Collections
	logger *logger.Logger
}

func NewSettingsManager(col *Collections, log *logger.Logger) *SettingsManager {
	return &SettingsManager{col: col, logger: log}
}

// Get returns the settings, seeding defaults on first access.
func (m *SettingsManager) Get() (models.Settings, error) {
	settings, exists, err := m.col.Settings.Load()
	if err != nil {
		return models.Settings{}, err
	}
	if !exists {
		settings = models.DefaultSettings()
		if err := m.col.Settings.Save(settings); err != nil {
			return models.Settings{}, err
		}
	}
	return settings, nil
}

type UpdateSettingsInput struct {
	PropertyName *string
	Address      *string
	Phone        *string
	Email        *string
	CheckInTime  *string
	CheckOutTime *string
	Currency     *string
	Language     *string
}

// Update merges the given fields over the settings document.
func (m *SettingsManager) Update(in UpdateSettingsInput) (models.Settings, error) {
	settings, err := m.Get()
	if err != nil {
		return models.Settings{}, err
	}
	if in.PropertyName != nil {
		settings.PropertyName = *in.PropertyName
	}
	if in.Address != nil {
		settings.Address = *in.Address
	}
	if in.Phone != nil {
		settings.Phone = *in.Phone
	}
	if in.Email != nil {
		settings.Email = *in.Email
	}
	if in.CheckInTime != nil {
		settings.CheckInTime = *in.CheckInTime
	}
	if in.CheckOutTime != nil {
		settings.CheckOutTime = *in.CheckOutTime
	}
	if in.Currency != nil {
		settings.Currency = *in.Currency
	}
	if in.Language != nil {
		settings.Language = *in.Language
	}
	if err := m.col.Settings.Save(settings); err != nil {
		return models.Settings{}, err
	}
	m.logger.Info("settings_updated")
	return settings, nil
}
