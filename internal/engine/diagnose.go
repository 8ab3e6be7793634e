package engine

// EmptySetReason distinguishes why a run produced no transfer lines.
type EmptySetReason string

const (
	ReasonNoEligibleCandidates EmptySetReason = "no_eligible_candidates"
	ReasonNoDonors             EmptySetReason = "no_transfer_out_candidates"
	ReasonNoRecipients         EmptySetReason = "no_transfer_in_candidates"
	ReasonNoCommonArticles     EmptySetReason = "no_common_articles"
	ReasonPolicyExcluded       EmptySetReason = "om_constraint_violation"
)

// EmptyCandidateSet is a diagnosable outcome, not an error: the run
// finished but found nothing to suggest. Callers render the message.
type EmptyCandidateSet struct {
	Reason         EmptySetReason
	DonorCount     int
	RecipientCount int
	Message        string
}

// DiagnoseEmptyResult explains a zero-line run from its candidate sets.
func DiagnoseEmptyResult(donors []DonorCandidate, recipients []RecipientCandidate) *EmptyCandidateSet {
	diag := &EmptyCandidateSet{
		DonorCount:     len(donors),
		RecipientCount: len(recipients),
	}

	switch {
	case len(donors) == 0 && len(recipients) == 0:
		diag.Reason = ReasonNoEligibleCandidates
		diag.Message = "no sites qualify to ship or receive stock; check for ND sites with stock and for positive targets"
	case len(donors) == 0:
		diag.Reason = ReasonNoDonors
		diag.Message = "no sites qualify to ship stock out under the selected mode"
	case len(recipients) == 0:
		diag.Reason = ReasonNoRecipients
		diag.Message = "no sites carry a positive target quantity"
	default:
		donorArticles := make(map[string]bool, len(donors))
		for _, d := range donors {
			donorArticles[d.Article] = true
		}
		overlap := false
		for _, r := range recipients {
			if donorArticles[r.Article] {
				overlap = true
				break
			}
		}
		if !overlap {
			diag.Reason = ReasonNoCommonArticles
			diag.Message = "donor and recipient candidates share no articles"
		} else {
			diag.Reason = ReasonPolicyExcluded
			diag.Message = "candidates overlap but every pairing was excluded by the group policy or self-transfer rule"
		}
	}

	return diag
}
