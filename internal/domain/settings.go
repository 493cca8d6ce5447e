package domain

// SettingsID addresses the PlatformSettings singleton.
const SettingsID = "platform"

type PlatformSettings struct {
	ID              string
	CommissionRate  float64
	SupportEmail    string
	MaintenanceMode bool
	FeaturedTripIDs []string
}
