package engine

import "sort"

// IdentifyDonors emits transfer-out candidates for every (article, group)
// partition under the selected mode. ND sites with stock always donate their
// entire net stock; RF sites follow the mode's rule and are emitted in
// ascending effective-sales order so the lowest sellers donate first. The
// matcher's sort keys preserve this order rather than re-deriving it.
func IdentifyDonors(records []StockRecord, mode Mode) []DonorCandidate {
	demand := demandByArticle(records)
	rule := ruleForMode(mode)

	type partitionKey struct {
		article string
		group   string
	}
	partitions := make(map[partitionKey][]int)
	var keys []partitionKey
	for i, rec := range records {
		key := partitionKey{rec.Article, rec.Group}
		if _, seen := partitions[key]; !seen {
			keys = append(keys, key)
		}
		partitions[key] = append(partitions[key], i)
	}
	// Map iteration is randomized; candidate production has to be
	// deterministic for idempotent runs.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].article != keys[j].article {
			return keys[i].article < keys[j].article
		}
		return keys[i].group < keys[j].group
	})

	var donors []DonorCandidate
	for _, key := range keys {
		idxs := partitions[key]

		partitionMax := 0
		for _, i := range idxs {
			if records[i].EffectiveSales > partitionMax {
				partitionMax = records[i].EffectiveSales
			}
		}

		// Priority 1: ND sites liquidate regardless of mode.
		for _, i := range idxs {
			rec := &records[i]
			if rec.RPType != "ND" || rec.NetStock <= 0 {
				continue
			}
			donors = append(donors, newDonor(rec, TransferND, rec.NetStock, demand[rec.Article]))
		}

		// Priority 2: RF sites under the mode rule, lowest sellers first.
		var rf []int
		for _, i := range idxs {
			if records[i].RPType == "RF" {
				rf = append(rf, i)
			}
		}
		sort.SliceStable(rf, func(a, b int) bool {
			return records[rf[a]].EffectiveSales < records[rf[b]].EffectiveSales
		})
		for _, i := range rf {
			rec := &records[i]
			available := rec.NetStock + rec.PendingReceived
			qty, ok := rule.qty(available, rec.NetStock, rec.MOQ, rec.SafetyStock, rec.EffectiveSales, partitionMax)
			if !ok {
				continue
			}
			donors = append(donors, newDonor(rec, rule.tag, qty, demand[rec.Article]))
		}
	}

	return donors
}

// IdentifyRecipients emits one transfer-in candidate per record with a
// positive target, in input order.
func IdentifyRecipients(records []StockRecord) []RecipientCandidate {
	var recipients []RecipientCandidate
	for _, rec := range records {
		if rec.Target <= 0 {
			continue
		}
		recipients = append(recipients, RecipientCandidate{
			Article:        rec.Article,
			Group:          rec.Group,
			Site:           rec.Site,
			RequiredQty:    rec.Target,
			EffectiveSales: rec.EffectiveSales,
		})
	}
	return recipients
}

// demandByArticle sums targets across all groups per article.
func demandByArticle(records []StockRecord) map[string]int {
	demand := make(map[string]int)
	for _, rec := range records {
		if rec.Target > 0 {
			demand[rec.Article] += rec.Target
		}
	}
	return demand
}

func newDonor(rec *StockRecord, tag TransferType, qty, articleDemand int) DonorCandidate {
	return DonorCandidate{
		Article:         rec.Article,
		Description:     rec.Description,
		Group:           rec.Group,
		Site:            rec.Site,
		TransferType:    tag,
		TransferQty:     qty,
		EffectiveSales:  rec.EffectiveSales,
		OriginalStock:   rec.NetStock,
		SafetyStock:     rec.SafetyStock,
		MOQ:             rec.MOQ,
		PendingReceived: rec.PendingReceived,
		ArticleDemand:   articleDemand,
	}
}
