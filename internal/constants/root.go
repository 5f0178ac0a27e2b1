package constants

const (
	AppName           = "habitstreak"
	Version           = "v0.3.0"
	DefaultConfigDir  = "~/.config/habitstreak"
	DefaultConfigPath = "~/.config/habitstreak/habitstreak.db"
	DefaultConfigFile = "~/.config/habitstreak/config.json"
	DefaultUserID     = "local"

	// Keyring entries
	KeyringTokenUser      = "access-token"
	KeyringConnStringUser = "database-connection"

	// DateFormat is the canonical day-key format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Environment variables
	EnvDBConnection = "HABITSTREAK_DB_CONNECTION"
)

// Frequency represents how often a habit recurs
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// ISO weekday bounds (Monday=1 ... Sunday=7)
const (
	MinWeekday = 1
	MaxWeekday = 7
)

// DaysPerWeek is the calendar grid width
const DaysPerWeek = 7
