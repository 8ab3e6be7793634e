package engine

import (
	"fmt"
	"sort"

	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/constants"
)

// GroupPolicy decides whether a donor group may serve a recipient group.
// It varies independently of the transfer mode across deployments.
type GroupPolicy func(donorGroup, recipientGroup string) bool

// OpenGroups allows every donor/recipient group pair.
func OpenGroups(string, string) bool { return true }

// SameGroupOnly restricts matching to identical groups.
func SameGroupOnly(donorGroup, recipientGroup string) bool {
	return donorGroup == recipientGroup
}

// RestrictHD blocks donors in group HD from serving recipients in HA, HB
// or HC; every other pair is eligible, cross-group included.
func RestrictHD(donorGroup, recipientGroup string) bool {
	if donorGroup != "HD" {
		return true
	}
	switch recipientGroup {
	case "HA", "HB", "HC":
		return false
	}
	return true
}

// PolicyFor resolves a configured policy name into its predicate.
func PolicyFor(name string) (GroupPolicy, error) {
	switch name {
	case constants.GroupPolicyOpen, "":
		return OpenGroups, nil
	case constants.GroupPolicySameOM:
		return SameGroupOnly, nil
	case constants.GroupPolicyHDRestricted:
		return RestrictHD, nil
	}
	return nil, fmt.Errorf("unknown group policy %q", name)
}

// Match greedily pairs donors to recipients article by article, producing
// transfer lines. Per article the total transferred quantity never exceeds
// the total demand across all groups. Donors are served in (group,
// transfer type, effective sales ascending) order so ND liquidation and
// low sellers ship first; recipients in (group, effective sales
// descending) order so the highest sellers are replenished first. Both
// sorts are stable to keep the candidate production order as the final
// tie-break. Inputs are never mutated.
func Match(donors []DonorCandidate, recipients []RecipientCandidate, policy GroupPolicy) []TransferLine {
	if len(donors) == 0 || len(recipients) == 0 {
		return nil
	}
	if policy == nil {
		policy = OpenGroups
	}

	donorsByArticle := make(map[string][]DonorCandidate)
	var articles []string
	for _, d := range donors {
		if _, seen := donorsByArticle[d.Article]; !seen {
			articles = append(articles, d.Article)
		}
		donorsByArticle[d.Article] = append(donorsByArticle[d.Article], d)
	}
	sort.Strings(articles)

	recipientsByArticle := make(map[string][]RecipientCandidate)
	for _, r := range recipients {
		recipientsByArticle[r.Article] = append(recipientsByArticle[r.Article], r)
	}

	var lines []TransferLine
	for _, article := range articles {
		rcpts := recipientsByArticle[article]
		if len(rcpts) == 0 {
			continue
		}
		lines = append(lines, matchArticle(donorsByArticle[article], rcpts, policy)...)
	}
	return lines
}

// matchArticle runs the greedy pass for a single article.
func matchArticle(donors []DonorCandidate, recipients []RecipientCandidate, policy GroupPolicy) []TransferLine {
	totalDemand := 0
	for _, r := range recipients {
		totalDemand += r.RequiredQty
	}

	out := append([]DonorCandidate(nil), donors...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		if out[i].TransferType != out[j].TransferType {
			return out[i].TransferType < out[j].TransferType
		}
		return out[i].EffectiveSales < out[j].EffectiveSales
	})

	in := append([]RecipientCandidate(nil), recipients...)
	sort.SliceStable(in, func(i, j int) bool {
		if in[i].Group != in[j].Group {
			return in[i].Group < in[j].Group
		}
		return in[i].EffectiveSales > in[j].EffectiveSales
	})

	// Remaining demand lives in a counter slice owned by this pass, indexed
	// alongside the sorted recipients. Candidates stay untouched.
	remaining := make([]int, len(in))
	for i, r := range in {
		remaining[i] = r.RequiredQty
	}

	var lines []TransferLine
	totalTransferred := 0
	for _, donor := range out {
		left := donor.TransferQty
		for i := range in {
			if left <= 0 {
				break
			}
			if donor.Site == in[i].Site {
				continue
			}
			if !policy(donor.Group, in[i].Group) {
				continue
			}

			qty := left
			if remaining[i] < qty {
				qty = remaining[i]
			}
			if totalTransferred+qty > totalDemand {
				qty = totalDemand - totalTransferred
				if qty < 0 {
					qty = 0
				}
			}
			if qty <= 0 {
				continue
			}

			lines = append(lines, TransferLine{
				Article:            donor.Article,
				Description:        donor.Description,
				Group:              donor.Group,
				TransferSite:       donor.Site,
				TransferQty:        qty,
				OriginalStock:      donor.OriginalStock,
				AfterTransferStock: donor.OriginalStock - qty,
				SafetyStock:        donor.SafetyStock,
				MOQ:                donor.MOQ,
				ReceiveSite:        in[i].Site,
				ReceiveTargetQty:   in[i].RequiredQty,
				TransferType:       donor.TransferType,
				Notes:              fmt.Sprintf("from %s to %s", donor.Site, in[i].Site),
			})

			left -= qty
			remaining[i] -= qty
			totalTransferred += qty
		}
	}
	return lines
}
