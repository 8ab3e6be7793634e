// Package stats aggregates matched transfer lines into KPIs and breakdown
// tables, and independently re-checks the per-article demand constraint.
package stats

import (
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/internal/engine"
)

// Summary holds the aggregate view of one run's transfer lines.
type Summary struct {
	TotalTransferQty int                `json:"totalTransferQty"`
	TotalLines       int                `json:"totalLines"`
	UniqueArticles   int                `json:"uniqueArticles"`
	UniqueGroups     int                `json:"uniqueGroups"`
	ByArticle        []ArticleStat      `json:"byArticle,omitempty"`
	ByGroup          []GroupStat        `json:"byGroup,omitempty"`
	ByTransferType   []TransferTypeStat `json:"byTransferType,omitempty"`
	ByReceiveSite    []ReceiveSiteStat  `json:"byReceiveSite,omitempty"`
	Violations       []Violation        `json:"violations,omitempty"`
}

// ArticleStat summarizes one article's demand and movement.
type ArticleStat struct {
	Article          string          `json:"article"`
	TotalDemand      int             `json:"totalDemand"`
	TotalTransferred int             `json:"totalTransferred"`
	GroupsTouched    int             `json:"groupsTouched"`
	Lines            int             `json:"lines"`
	FulfillmentRate  decimal.Decimal `json:"fulfillmentRate"`
	Violation        bool            `json:"violation"`
}

// GroupStat summarizes movement per donor group.
type GroupStat struct {
	Group            string `json:"group"`
	TotalDemand      int    `json:"totalDemand"`
	TotalTransferred int    `json:"totalTransferred"`
	ArticlesTouched  int    `json:"articlesTouched"`
	Lines            int    `json:"lines"`
}

// TransferTypeStat totals quantity per producing rule.
type TransferTypeStat struct {
	TransferType engine.TransferType `json:"transferType"`
	TotalQty     int                 `json:"totalQty"`
	Lines        int                 `json:"lines"`
}

// ReceiveSiteStat reports how well each recipient's target was met.
type ReceiveSiteStat struct {
	Site            string          `json:"site"`
	Received        int             `json:"received"`
	TargetQty       int             `json:"targetQty"`
	FulfillmentRate decimal.Decimal `json:"fulfillmentRate"`
}

// Violation records a per-article over-allocation. Any occurrence is a
// matcher bug, not a data problem, and is surfaced rather than repaired.
type Violation struct {
	Article          string `json:"article"`
	TotalDemand      int    `json:"totalDemand"`
	TotalTransferred int    `json:"totalTransferred"`
	Overage          int    `json:"overage"`
}

// Calculate aggregates the transfer line list. Per-article demand is
// re-derived from the lines themselves, summing each distinct receive
// site's target once, so the constraint check does not trust the matcher's
// own accounting.
func Calculate(logger *zap.Logger, lines []engine.TransferLine) Summary {
	if logger == nil {
		logger = zap.NewNop()
	}

	var summary Summary
	if len(lines) == 0 {
		return summary
	}

	type articleAgg struct {
		demand      int
		transferred int
		groups      map[string]bool
		recipients  map[string]bool
		lines       int
	}
	type groupAgg struct {
		demand      int
		transferred int
		articles    map[string]bool
		recipients  map[string]bool
		lines       int
	}
	type siteAgg struct {
		received int
		target   int
	}

	articleAggs := make(map[string]*articleAgg)
	groupAggs := make(map[string]*groupAgg)
	typeAggs := make(map[engine.TransferType]*TransferTypeStat)
	siteAggs := make(map[string]*siteAgg)
	allGroups := make(map[string]bool)

	for _, line := range lines {
		summary.TotalTransferQty += line.TransferQty
		allGroups[line.Group] = true

		aa := articleAggs[line.Article]
		if aa == nil {
			aa = &articleAgg{groups: make(map[string]bool), recipients: make(map[string]bool)}
			articleAggs[line.Article] = aa
		}
		aa.transferred += line.TransferQty
		aa.groups[line.Group] = true
		aa.lines++
		if !aa.recipients[line.ReceiveSite] {
			aa.recipients[line.ReceiveSite] = true
			aa.demand += line.ReceiveTargetQty
		}

		ga := groupAggs[line.Group]
		if ga == nil {
			ga = &groupAgg{articles: make(map[string]bool), recipients: make(map[string]bool)}
			groupAggs[line.Group] = ga
		}
		ga.transferred += line.TransferQty
		ga.articles[line.Article] = true
		ga.lines++
		if !ga.recipients[line.ReceiveSite] {
			ga.recipients[line.ReceiveSite] = true
			ga.demand += line.ReceiveTargetQty
		}

		ta := typeAggs[line.TransferType]
		if ta == nil {
			ta = &TransferTypeStat{TransferType: line.TransferType}
			typeAggs[line.TransferType] = ta
		}
		ta.TotalQty += line.TransferQty
		ta.Lines++

		sa := siteAggs[line.ReceiveSite]
		if sa == nil {
			// The site's first line fixes its target, even when later lines
			// carry other articles with different targets. Inherited from the
			// source system's per-site rollup.
			sa = &siteAgg{target: line.ReceiveTargetQty}
			siteAggs[line.ReceiveSite] = sa
		}
		sa.received += line.TransferQty
	}

	summary.TotalLines = len(lines)
	summary.UniqueArticles = len(articleAggs)
	summary.UniqueGroups = len(allGroups)

	for _, article := range sortedKeys(articleAggs) {
		aa := articleAggs[article]
		stat := ArticleStat{
			Article:          article,
			TotalDemand:      aa.demand,
			TotalTransferred: aa.transferred,
			GroupsTouched:    len(aa.groups),
			Lines:            aa.lines,
			FulfillmentRate:  rate(aa.transferred, aa.demand),
		}
		if aa.transferred > aa.demand {
			stat.Violation = true
			violation := Violation{
				Article:          article,
				TotalDemand:      aa.demand,
				TotalTransferred: aa.transferred,
				Overage:          aa.transferred - aa.demand,
			}
			summary.Violations = append(summary.Violations, violation)
			logger.Error("per-article demand constraint violated",
				zap.String("op", "stats.Calculate"),
				zap.String("article", article),
				zap.Int("demand", violation.TotalDemand),
				zap.Int("transferred", violation.TotalTransferred),
				zap.Int("overage", violation.Overage),
			)
		}
		summary.ByArticle = append(summary.ByArticle, stat)
	}

	for _, group := range sortedKeys(groupAggs) {
		ga := groupAggs[group]
		summary.ByGroup = append(summary.ByGroup, GroupStat{
			Group:            group,
			TotalDemand:      ga.demand,
			TotalTransferred: ga.transferred,
			ArticlesTouched:  len(ga.articles),
			Lines:            ga.lines,
		})
	}

	types := make([]string, 0, len(typeAggs))
	for t := range typeAggs {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		summary.ByTransferType = append(summary.ByTransferType, *typeAggs[engine.TransferType(t)])
	}

	for _, site := range sortedKeys(siteAggs) {
		sa := siteAggs[site]
		summary.ByReceiveSite = append(summary.ByReceiveSite, ReceiveSiteStat{
			Site:            site,
			Received:        sa.received,
			TargetQty:       sa.target,
			FulfillmentRate: rate(sa.received, sa.target),
		})
	}

	return summary
}

// rate is transferred/demand as a percentage rounded to two places.
func rate(transferred, demand int) decimal.Decimal {
	if demand == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(transferred)).
		Div(decimal.NewFromInt(int64(demand))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
