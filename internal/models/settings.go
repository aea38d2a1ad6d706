package models

// Settings is the property-wide configuration document, stored as a single
// object rather than a record list.
type Settings struct {
	PropertyName string `json:"property_name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time"`
	Currency     string `json:"currency"`
	Language     string `json:"language"`
}

// DefaultSettings returns the settings written when none exist yet.
func DefaultSettings() Settings {
	return Settings{
		PropertyName: "Санаторий",
		CheckInTime:  "14:00",
		CheckOutTime: "12:00",
		Currency:     "RUB",
		Language:     "ru",
	}
}
