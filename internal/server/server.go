// Package server exposes the transfer suggestion engine over HTTP: a
// workbook upload endpoint running one engine pass per request.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/internal/engine"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/internal/stats"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/constants"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/ingest"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/output"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/validation"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the suggestion API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Suggestion API endpoint (workbook upload)
	mux.HandleFunc("/api/suggest", h.handleSuggest)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type suggestResponse struct {
	Mode        string          `json:"mode"`
	GroupPolicy string          `json:"groupPolicy"`
	Lines       []lineRow       `json:"lines"`
	Statistics  stats.Summary   `json:"statistics"`
	Outcome     *outcomePayload `json:"outcome,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
	CSV         string          `json:"csv"`
	Duration    string          `json:"duration"`
}

type lineRow struct {
	Article            string `json:"article"`
	Description        string `json:"description"`
	OM                 string `json:"om"`
	TransferSite       string `json:"transferSite"`
	TransferQty        int    `json:"transferQty"`
	OriginalStock      int    `json:"originalStock"`
	AfterTransferStock int    `json:"afterTransferStock"`
	SafetyStock        int    `json:"safetyStock"`
	MOQ                int    `json:"moq"`
	ReceiveSite        string `json:"receiveSite"`
	ReceiveTargetQty   int    `json:"receiveTargetQty"`
	TransferType       string `json:"transferType"`
	Notes              string `json:"notes"`
}

type outcomePayload struct {
	Reason         string `json:"reason"`
	Message        string `json:"message"`
	DonorCount     int    `json:"donorCount"`
	RecipientCount int    `json:"recipientCount"`
}

func (h *handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
		return
	}

	mode := r.FormValue("mode")
	if mode == "" {
		mode = constants.ModeConservative
	}
	if err := validation.ValidateMode(mode); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	policyName := r.FormValue("groupPolicy")
	if policyName == "" {
		policyName = constants.GroupPolicyOpen
	}
	policy, err := engine.PolicyFor(policyName)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing stock workbook")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleSuggest"),
				zap.Error(closeErr),
			)
		}
	}()

	table, err := ingest.ReadWorkbook(file)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read workbook: %v", err))
		return
	}

	result, err := engine.Run(h.logger, table.Columns, table.Rows, engine.Options{
		Mode:        engine.Mode(mode),
		GroupPolicy: policy,
	})
	if err != nil {
		var schemaErr *engine.SchemaError
		if errors.As(err, &schemaErr) {
			h.respondError(w, http.StatusBadRequest, schemaErr.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to run engine: %v", err))
		return
	}

	summary := stats.Calculate(h.logger, result.Lines)
	elapsed := time.Since(start)

	response := suggestResponse{
		Mode:        mode,
		GroupPolicy: policyName,
		Lines:       buildLineRows(result.Lines),
		Statistics:  summary,
		Warnings:    result.Warnings,
		CSV:         output.CsvString(result.Lines),
		Duration:    elapsed.String(),
	}
	if result.Outcome != nil {
		response.Outcome = &outcomePayload{
			Reason:         string(result.Outcome.Reason),
			Message:        result.Outcome.Message,
			DonorCount:     result.Outcome.DonorCount,
			RecipientCount: result.Outcome.RecipientCount,
		}
	}

	h.logger.Info("suggestions computed",
		zap.String("op", "server.handleSuggest"),
		zap.String("mode", mode),
		zap.Int("lines", len(response.Lines)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func buildLineRows(lines []engine.TransferLine) []lineRow {
	rows := make([]lineRow, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, lineRow{
			Article:            line.Article,
			Description:        line.Description,
			OM:                 line.Group,
			TransferSite:       line.TransferSite,
			TransferQty:        line.TransferQty,
			OriginalStock:      line.OriginalStock,
			AfterTransferStock: line.AfterTransferStock,
			SafetyStock:        line.SafetyStock,
			MOQ:                line.MOQ,
			ReceiveSite:        line.ReceiveSite,
			ReceiveTargetQty:   line.ReceiveTargetQty,
			TransferType:       string(line.TransferType),
			Notes:              line.Notes,
		})
	}
	return rows
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.logger.Error("suggestion request failed",
		zap.String("op", "server.handleSuggest"),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
