// Package engine implements the transfer suggestion engine: normalization
// of raw stock rows, donor and recipient candidate identification, and the
// constrained greedy matcher that pairs them into transfer lines.
package engine

import (
	"fmt"
	"strings"

	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/constants"
)

// Mode selects the RF donor rule applied for one run.
type Mode string

const (
	ModeConservative Mode = constants.ModeConservative
	ModeEnhanced     Mode = constants.ModeEnhanced
	ModeSpecial      Mode = constants.ModeSpecial
)

// ParseMode converts a mode string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeConservative, ModeEnhanced, ModeSpecial:
		return Mode(s), nil
	}
	return "", fmt.Errorf("expected mode of %s, %s or %s, got %q",
		constants.ModeConservative, constants.ModeEnhanced, constants.ModeSpecial, s)
}

// TransferType tags the rule that produced a donor candidate. The tags sort
// ND before RF, which the matcher relies on for its donor ordering.
type TransferType string

const (
	TransferND         TransferType = "ND_OUT"
	TransferRFExcess   TransferType = "RF_EXCESS_OUT"
	TransferRFEnhanced TransferType = "RF_ENHANCED_OUT"
	TransferRFSpecial  TransferType = "RF_SPECIAL_OUT"
)

// StockRecord is one normalized row of the input table, keyed by
// (Article, Site).
type StockRecord struct {
	Article         string
	Description     string
	RPType          string // ND or RF after normalization
	Site            string
	Group           string // OM
	MOQ             int
	NetStock        int
	Target          int
	PendingReceived int
	SafetyStock     int
	LastMonthSold   int
	MTDSold         int
	EffectiveSales  int
	Notes           []string // audit trail of normalization fixes
}

// DonorCandidate is a site eligible to ship stock out under the selected
// mode, with the quantity it may part with.
type DonorCandidate struct {
	Article         string
	Description     string
	Group           string
	Site            string
	TransferType    TransferType
	TransferQty     int
	EffectiveSales  int
	OriginalStock   int
	SafetyStock     int
	MOQ             int
	PendingReceived int
	ArticleDemand   int // total target for this article across all groups
}

// RecipientCandidate is a site with a positive replenishment target.
// RequiredQty holds the full target; the matcher tracks remaining demand
// in its own counters and never mutates candidates.
type RecipientCandidate struct {
	Article        string
	Group          string
	Site           string
	RequiredQty    int
	EffectiveSales int
}

// TransferLine is one suggested shipment. Lines are created by the matcher
// and immutable afterwards.
type TransferLine struct {
	Article            string
	Description        string
	Group              string // donor OM
	TransferSite       string
	TransferQty        int
	OriginalStock      int
	AfterTransferStock int
	SafetyStock        int
	MOQ                int
	ReceiveSite        string
	ReceiveTargetQty   int
	TransferType       TransferType
	Notes              string
}

// SchemaError reports required input columns that are absent. It aborts a
// run before any computation.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}
