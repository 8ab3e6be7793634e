// Package constants provides shared constants for the transfer suggestion system.
package constants

// Required input columns. A source file missing any of these is rejected
// before any computation runs.
const (
	ColumnArticle            = "Article"
	ColumnArticleDescription = "Article Description"
	ColumnRPType             = "RP Type"
	ColumnSite               = "Site"
	ColumnOM                 = "OM"
	ColumnMOQ                = "MOQ"
	ColumnNetStock           = "SaSa Net Stock"
	ColumnTarget             = "Target"
	ColumnPendingReceived    = "Pending Received"
	ColumnSafetyStock        = "Safety Stock"
	ColumnLastMonthSold      = "Last Month Sold Qty"
	ColumnMTDSold            = "MTD Sold Qty"
)

// RequiredColumns lists every column an input file must carry, in the
// order they are reported when missing.
var RequiredColumns = []string{
	ColumnArticle,
	ColumnArticleDescription,
	ColumnRPType,
	ColumnSite,
	ColumnOM,
	ColumnMOQ,
	ColumnNetStock,
	ColumnTarget,
	ColumnPendingReceived,
	ColumnSafetyStock,
	ColumnLastMonthSold,
	ColumnMTDSold,
}

// Normalization bounds
const (
	// MaxSalesQty caps the monthly sold quantity columns; larger values
	// are clamped and noted on the record.
	MaxSalesQty = 100000
)

// Transfer mode constants
const (
	// ModeConservative limits RF donors to stock above safety stock, at
	// most 50% of availability.
	ModeConservative = "conservative"

	// ModeEnhanced limits RF donors to stock above MOQ+1, at most 80% of
	// availability.
	ModeEnhanced = "enhanced"

	// ModeSpecial drains RF donors down to 2 units, at most 90% of
	// availability, sparing the partition's top seller.
	ModeSpecial = "special"
)

// Group policy constants
const (
	// GroupPolicyOpen allows any donor group to serve any recipient group.
	GroupPolicyOpen = "open"

	// GroupPolicySameOM restricts matching to identical donor and
	// recipient groups.
	GroupPolicySameOM = "same-om"

	// GroupPolicyHDRestricted blocks donors in group HD from serving
	// recipients in HA, HB or HC; all other pairs are eligible.
	GroupPolicyHDRestricted = "hd-restricted"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for
	// stock workbooks (8 MB)
	DefaultMaxUploadSizeBytes int64 = 8 * 1024 * 1024
)
