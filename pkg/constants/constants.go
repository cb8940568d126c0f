// Package constants provides shared constants for the shelter-proposal application.
package constants

// DateLayout is the format used for timeline dates in config files and output.
const DateLayout = "2006-01-02"

// Proposal constants
const (
	// GrantTotal is the requested grant amount in USD.
	GrantTotal = 250000

	// StrayPopulation is the number of stray dogs the grant is sized against.
	StrayPopulation = 15000

	// ContingencyFloor is the amount reserved for the budget remainder category.
	ContingencyFloor = 5000

	// PercentTotal is the total every percentage allocation must sum to.
	PercentTotal = 100

	// PercentFloor is the percentage reserved for the allocation remainder category.
	PercentFloor = 1
)

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPlaces is the number of places currency values are displayed with
	DecimalPlaces = 2

	// DivisionPrecision is the number of decimal places kept for inexact quotients
	DivisionPrecision = 16

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Allocation policies
const (
	// PolicyLenient lets the remainder go negative and reports it as a warning.
	PolicyLenient = "lenient"

	// PolicyClamp clamps each category so the remainder never drops below its floor.
	PolicyClamp = "clamp"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "proposal.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024
)
