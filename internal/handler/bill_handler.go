package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gridbill/internal/csvexport"
	"gridbill/internal/domain"
	"gridbill/internal/service"
)

// BillHandler handles bill upload and extraction endpoints.
type BillHandler struct {
	billService service.BillService
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(billService service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// Extract handles POST /api/v1/bills/extract
//
// Accepts a multipart PDF upload. The optional "strategy" query parameter
// selects the extraction pipeline ("model" or "rules", default "model");
// "format=csv" returns the record as a CSV download instead of JSON.
func (h *BillHandler) Extract(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	strategy, ok := parseStrategy(c.DefaultQuery("strategy", string(domain.StrategyModel)))
	if !ok {
		RespondError(c, http.StatusBadRequest, "INVALID_STRATEGY", "strategy must be 'model' or 'rules'")
		return
	}

	result, err := h.billService.Upload(c.Request.Context(), service.BillUploadInput{
		File:     file,
		Header:   header,
		Strategy: strategy,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		writeRecordCSV(c, header.Filename, &result.Record)
		return
	}

	RespondOK(c, result)
}

func parseStrategy(s string) (domain.ExtractionStrategy, bool) {
	switch domain.ExtractionStrategy(s) {
	case domain.StrategyModel:
		return domain.StrategyModel, true
	case domain.StrategyRules:
		return domain.StrategyRules, true
	default:
		return "", false
	}
}

func writeRecordCSV(c *gin.Context, documentName string, rec *domain.BillRecord) {
	filename := csvexport.BuildFilename(documentName)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteRecord(rec); err != nil {
		return
	}
	w.Flush()
}
