package engine

import "testing"

func donor(article, group, site string, tag TransferType, qty, sales int) DonorCandidate {
	return DonorCandidate{
		Article:        article,
		Description:    article + " desc",
		Group:          group,
		Site:           site,
		TransferType:   tag,
		TransferQty:    qty,
		EffectiveSales: sales,
		OriginalStock:  qty,
	}
}

func recipient(article, group, site string, required, sales int) RecipientCandidate {
	return RecipientCandidate{
		Article:        article,
		Group:          group,
		Site:           site,
		RequiredQty:    required,
		EffectiveSales: sales,
	}
}

func TestMatchNDFullTransfer(t *testing.T) {
	records := []StockRecord{
		record("X", "OM1", "S1", "ND", 16, 0, 0, 0, 0, 0, 0),
		record("X", "OM1", "S2", "RF", 0, 10, 0, 0, 0, 5, 0),
	}

	donors := IdentifyDonors(records, ModeConservative)
	recipients := IdentifyRecipients(records)
	lines := Match(donors, recipients, OpenGroups)

	if len(lines) != 1 {
		t.Fatalf("Match() returned %d lines, expected 1", len(lines))
	}
	line := lines[0]
	if line.TransferSite != "S1" || line.ReceiveSite != "S2" {
		t.Errorf("line route = %s -> %s, expected S1 -> S2", line.TransferSite, line.ReceiveSite)
	}
	if line.TransferQty != 10 {
		t.Errorf("TransferQty = %d, expected 10 (capped by recipient demand)", line.TransferQty)
	}
	if line.OriginalStock != 16 || line.AfterTransferStock != 6 {
		t.Errorf("stock snapshot = %d -> %d, expected 16 -> 6", line.OriginalStock, line.AfterTransferStock)
	}
	if line.ReceiveTargetQty != 10 {
		t.Errorf("ReceiveTargetQty = %d, expected 10", line.ReceiveTargetQty)
	}
}

func TestMatchSkipsSelfTransfer(t *testing.T) {
	donors := []DonorCandidate{donor("A", "OM1", "S1", TransferND, 5, 0)}
	recipients := []RecipientCandidate{recipient("A", "OM1", "S1", 5, 3)}

	lines := Match(donors, recipients, OpenGroups)
	if len(lines) != 0 {
		t.Errorf("Match() = %+v, expected no self-transfer lines", lines)
	}
}

func TestMatchGlobalDemandCap(t *testing.T) {
	donors := []DonorCandidate{
		donor("A", "OM1", "D1", TransferND, 10, 0),
		donor("A", "OM1", "D2", TransferND, 10, 1),
	}
	recipients := []RecipientCandidate{recipient("A", "OM1", "R1", 15, 3)}

	lines := Match(donors, recipients, OpenGroups)
	if len(lines) != 2 {
		t.Fatalf("Match() returned %d lines, expected 2", len(lines))
	}

	total := 0
	for _, line := range lines {
		total += line.TransferQty
	}
	if total != 15 {
		t.Errorf("total transferred = %d, expected 15 (global cap)", total)
	}
	if lines[0].TransferQty != 10 || lines[1].TransferQty != 5 {
		t.Errorf("line quantities = %d, %d, expected 10, 5", lines[0].TransferQty, lines[1].TransferQty)
	}
}

func TestMatchDonorOrdering(t *testing.T) {
	// ND donors ship before RF regardless of sales; within RF the lowest
	// seller ships first.
	donors := []DonorCandidate{
		donor("A", "OM1", "RF_HIGH", TransferRFExcess, 2, 50),
		donor("A", "OM1", "RF_LOW", TransferRFExcess, 2, 1),
		donor("A", "OM1", "ND1", TransferND, 2, 99),
	}
	recipients := []RecipientCandidate{recipient("A", "OM1", "R1", 6, 3)}

	lines := Match(donors, recipients, OpenGroups)
	if len(lines) != 3 {
		t.Fatalf("Match() returned %d lines, expected 3", len(lines))
	}
	order := []string{"ND1", "RF_LOW", "RF_HIGH"}
	for i, site := range order {
		if lines[i].TransferSite != site {
			t.Errorf("lines[%d].TransferSite = %s, expected %s", i, lines[i].TransferSite, site)
		}
	}
}

func TestMatchRecipientOrdering(t *testing.T) {
	// The highest-selling recipient is replenished first.
	donors := []DonorCandidate{donor("A", "OM1", "D1", TransferND, 5, 0)}
	recipients := []RecipientCandidate{
		recipient("A", "OM1", "SLOW", 5, 1),
		recipient("A", "OM1", "FAST", 5, 9),
	}

	lines := Match(donors, recipients, OpenGroups)
	if len(lines) != 1 {
		t.Fatalf("Match() returned %d lines, expected 1", len(lines))
	}
	if lines[0].ReceiveSite != "FAST" {
		t.Errorf("ReceiveSite = %s, expected FAST", lines[0].ReceiveSite)
	}
}

func TestMatchGroupPolicies(t *testing.T) {
	donors := []DonorCandidate{donor("A", "HD", "D1", TransferND, 5, 0)}

	tests := []struct {
		name        string
		policy      GroupPolicy
		recipients  []RecipientCandidate
		expectLines int
		expectSite  string
	}{
		{
			name:        "open allows cross group",
			policy:      OpenGroups,
			recipients:  []RecipientCandidate{recipient("A", "HA", "R1", 5, 1)},
			expectLines: 1,
			expectSite:  "R1",
		},
		{
			name:        "same group only blocks cross group",
			policy:      SameGroupOnly,
			recipients:  []RecipientCandidate{recipient("A", "HA", "R1", 5, 1)},
			expectLines: 0,
		},
		{
			name:        "hd restricted blocks HA",
			policy:      RestrictHD,
			recipients:  []RecipientCandidate{recipient("A", "HA", "R1", 5, 1)},
			expectLines: 0,
		},
		{
			name:   "hd restricted falls through to other groups",
			policy: RestrictHD,
			recipients: []RecipientCandidate{
				recipient("A", "HB", "R1", 5, 9),
				recipient("A", "HX", "R2", 5, 1),
			},
			expectLines: 1,
			expectSite:  "R2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Match(donors, tt.recipients, tt.policy)
			if len(lines) != tt.expectLines {
				t.Fatalf("Match() returned %d lines, expected %d", len(lines), tt.expectLines)
			}
			if tt.expectLines > 0 && lines[0].ReceiveSite != tt.expectSite {
				t.Errorf("ReceiveSite = %s, expected %s", lines[0].ReceiveSite, tt.expectSite)
			}
		})
	}
}

func TestMatchDoesNotMutateCandidates(t *testing.T) {
	donors := []DonorCandidate{donor("A", "OM1", "D1", TransferND, 5, 0)}
	recipients := []RecipientCandidate{recipient("A", "OM1", "R1", 5, 3)}

	Match(donors, recipients, OpenGroups)

	if donors[0].TransferQty != 5 {
		t.Errorf("donor TransferQty mutated to %d", donors[0].TransferQty)
	}
	if recipients[0].RequiredQty != 5 {
		t.Errorf("recipient RequiredQty mutated to %d", recipients[0].RequiredQty)
	}
}

func TestMatchNoOverAllocationAcrossModes(t *testing.T) {
	records := []StockRecord{
		record("A", "OM1", "S1", "ND", 40, 0, 0, 0, 0, 0, 0),
		record("A", "OM1", "S2", "RF", 30, 0, 5, 2, 1, 3, 0),
		record("A", "OM1", "S3", "RF", 0, 12, 0, 0, 0, 9, 0),
		record("A", "OM2", "S4", "RF", 25, 0, 0, 4, 2, 1, 0),
		record("A", "OM2", "S5", "RF", 0, 8, 0, 0, 0, 6, 0),
		record("B", "OM1", "S1", "RF", 9, 0, 0, 8, 0, 1, 0),
		record("B", "OM1", "S6", "RF", 0, 1, 0, 0, 0, 2, 0),
	}

	demand := map[string]int{"A": 20, "B": 1}

	for _, mode := range []Mode{ModeConservative, ModeEnhanced, ModeSpecial} {
		t.Run(string(mode), func(t *testing.T) {
			donors := IdentifyDonors(records, mode)
			recipients := IdentifyRecipients(records)
			lines := Match(donors, recipients, OpenGroups)

			transferred := map[string]int{}
			for _, line := range lines {
				transferred[line.Article] += line.TransferQty
				if line.TransferQty <= 0 {
					t.Errorf("non-positive TransferQty %d on %+v", line.TransferQty, line)
				}
				if line.TransferSite == line.ReceiveSite {
					t.Errorf("self transfer on %+v", line)
				}
			}
			for article, total := range transferred {
				if total > demand[article] {
					t.Errorf("article %s transferred %d exceeds demand %d", article, total, demand[article])
				}
			}
		})
	}
}
