// Package output provides utilities for formatting and displaying transfer
// suggestions and their statistics.
package output

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/internal/engine"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/internal/stats"
)

// CsvHeader is the transfer line column order for machine-readable output.
var CsvHeader = []string{
	"Article",
	"Product Description",
	"OM",
	"Transfer Site",
	"Transfer Qty",
	"Transfer Site Original Stock",
	"Transfer Site After-Transfer Stock",
	"Transfer Site Safety Stock",
	"Transfer Site MOQ",
	"Receive Site",
	"Receive Site Target Qty",
	"Notes",
}

// LineValues renders one transfer line in CsvHeader order.
func LineValues(line engine.TransferLine) []string {
	return []string{
		line.Article,
		line.Description,
		line.Group,
		line.TransferSite,
		strconv.Itoa(line.TransferQty),
		strconv.Itoa(line.OriginalStock),
		strconv.Itoa(line.AfterTransferStock),
		strconv.Itoa(line.SafetyStock),
		strconv.Itoa(line.MOQ),
		line.ReceiveSite,
		strconv.Itoa(line.ReceiveTargetQty),
		line.Notes,
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable view
// of one run.
func PrettyFormat(result *engine.Result, summary stats.Summary) {
	p := message.NewPrinter(language.English)

	fmt.Printf("--- Transfer suggestions (%s mode) ---\n", result.Mode)
	if result.Outcome != nil {
		fmt.Printf("No transfer lines generated: %s\n", result.Outcome.Message)
		fmt.Printf("  reason: %s (donors: %d, recipients: %d)\n",
			result.Outcome.Reason, result.Outcome.DonorCount, result.Outcome.RecipientCount)
		return
	}

	fmt.Printf("%-12s | %-5s -> %-5s | %7s | %s\n", "Article", "From", "To", "Qty", "Type")
	fmt.Printf("%-12s | %-5s -> %-5s | %7s | %s\n", "_______", "____", "__", "___", "____")
	for _, line := range result.Lines {
		_, _ = p.Printf("%-12s | %-5s -> %-5s | %7d | %s\n",
			line.Article, line.TransferSite, line.ReceiveSite, line.TransferQty, line.TransferType)
	}

	fmt.Printf("\n")
	_, _ = p.Printf("Total quantity:    %d\n", summary.TotalTransferQty)
	_, _ = p.Printf("Transfer lines:    %d\n", summary.TotalLines)
	_, _ = p.Printf("Distinct articles: %d\n", summary.UniqueArticles)
	_, _ = p.Printf("Distinct OMs:      %d\n", summary.UniqueGroups)

	if len(summary.ByReceiveSite) > 0 {
		fmt.Printf("\nReceive Site | Received | Target | Fulfillment\n")
		for _, site := range summary.ByReceiveSite {
			_, _ = p.Printf("%-12s | %8d | %6d | %s%%\n",
				site.Site, site.Received, site.TargetQty, site.FulfillmentRate.String())
		}
	}

	if len(summary.Violations) > 0 {
		fmt.Printf("\nCONSTRAINT VIOLATIONS (engine defect, report this):\n")
		for _, v := range summary.Violations {
			fmt.Printf("  article %s: transferred %d exceeds demand %d by %d\n",
				v.Article, v.TotalTransferred, v.TotalDemand, v.Overage)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Printf("\nData quality notes:\n")
		for _, warning := range result.Warnings {
			fmt.Printf("  %s\n", warning)
		}
	}
}

// CsvFormat outputs the transfer lines in comma-separated value format.
func CsvFormat(lines []engine.TransferLine) {
	fmt.Print(CsvString(lines))
}

// CsvString renders the transfer lines as a CSV document.
func CsvString(lines []engine.TransferLine) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write(CsvHeader)
	for _, line := range lines {
		_ = w.Write(LineValues(line))
	}
	w.Flush()
	return sb.String()
}
