package engine

import (
	"go.uber.org/zap"
)

// Options selects the per-run behavior of the engine.
type Options struct {
	Mode        Mode
	GroupPolicy GroupPolicy // nil means open
}

// Result carries everything one run produced. Lines and Outcome are
// mutually exclusive: a run with zero lines carries the diagnosis instead.
type Result struct {
	Mode       Mode
	Records    []StockRecord
	Donors     []DonorCandidate
	Recipients []RecipientCandidate
	Lines      []TransferLine
	Outcome    *EmptyCandidateSet
	Warnings   []string
}

// Run executes one full engine pass: normalize the raw table, identify
// donor and recipient candidates, and match them into transfer lines. The
// input rows are never mutated; every run starts from a fresh normalized
// copy, so recomputing with another mode is safe.
func Run(logger *zap.Logger, columns []string, rows []map[string]string, opts Options) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	records, err := Normalize(columns, rows)
	if err != nil {
		return nil, err
	}

	articles := make(map[string]bool)
	sites := make(map[string]bool)
	var warnings []string
	for _, rec := range records {
		articles[rec.Article] = true
		sites[rec.Site] = true
		for _, note := range rec.Notes {
			warnings = append(warnings, "site "+rec.Site+" article "+rec.Article+": "+note)
		}
	}
	logger.Info("input normalized",
		zap.String("op", "engine.Run"),
		zap.Int("records", len(records)),
		zap.Int("articles", len(articles)),
		zap.Int("sites", len(sites)),
		zap.Int("dataQualityNotes", len(warnings)),
	)

	mode := opts.Mode
	if mode == "" {
		mode = ModeConservative
	}

	donors := IdentifyDonors(records, mode)
	recipients := IdentifyRecipients(records)
	logger.Debug("candidates identified",
		zap.String("op", "engine.Run"),
		zap.String("mode", string(mode)),
		zap.Int("donors", len(donors)),
		zap.Int("recipients", len(recipients)),
	)

	lines := Match(donors, recipients, opts.GroupPolicy)

	result := &Result{
		Mode:       mode,
		Records:    records,
		Donors:     donors,
		Recipients: recipients,
		Lines:      lines,
		Warnings:   warnings,
	}
	if len(lines) == 0 {
		result.Outcome = DiagnoseEmptyResult(donors, recipients)
		logger.Info("run produced no transfer lines",
			zap.String("op", "engine.Run"),
			zap.String("reason", string(result.Outcome.Reason)),
			zap.Int("donors", len(donors)),
			zap.Int("recipients", len(recipients)),
		)
		return result, nil
	}

	logger.Info("transfer lines generated",
		zap.String("op", "engine.Run"),
		zap.String("mode", string(mode)),
		zap.Int("lines", len(lines)),
	)
	return result, nil
}
