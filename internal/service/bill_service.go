package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"gridbill/internal/domain"
	"gridbill/internal/extract"
	"gridbill/internal/parser"
	"gridbill/internal/port"
	"gridbill/internal/rules"
)

// ProcessFailureMessage is the user-facing message attached to error records
// when the document itself cannot be processed.
const ProcessFailureMessage = "Failed to process the PDF bill. Please ensure it's a valid energy bill."

// BillUploadInput carries an incoming multipart bill document.
type BillUploadInput struct {
	File     multipart.File
	Header   *multipart.FileHeader
	Strategy domain.ExtractionStrategy
}

// BillExtractionResult is the outcome of one extraction run.
type BillExtractionResult struct {
	Upload    *domain.BillUpload        `json:"upload,omitempty"`
	Utility   domain.Utility            `json:"utility"`
	Strategy  domain.ExtractionStrategy `json:"strategy"`
	Record    domain.BillRecord         `json:"record"`
	ModelUsed string                    `json:"model_used,omitempty"`
}

// BillService turns uploaded bill documents into structured records.
type BillService interface {
	// Upload validates, stores, and extracts a multipart bill document.
	Upload(ctx context.Context, input BillUploadInput) (*BillExtractionResult, error)
	// ExtractContent extracts a structured record from raw PDF bytes.
	ExtractContent(ctx context.Context, content []byte, strategy domain.ExtractionStrategy) (*BillExtractionResult, error)
}

type billService struct {
	storage     port.ObjectStorage
	docs        port.DocumentSource
	billParser  port.BillParser
	maxFileSize int64
}

// NewBillService creates a BillService. Storage may be nil, in which case
// uploads are extracted without being persisted.
func NewBillService(storage port.ObjectStorage, docs port.DocumentSource, billParser port.BillParser, maxFileSizeMB int64) BillService {
	return &billService{
		storage:     storage,
		docs:        docs,
		billParser:  billParser,
		maxFileSize: maxFileSizeMB * 1024 * 1024,
	}
}

func (s *billService) Upload(ctx context.Context, input BillUploadInput) (*BillExtractionResult, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	if input.Header.Size > s.maxFileSize {
		return nil, domain.ErrFileTooLarge
	}

	content, err := io.ReadAll(io.LimitReader(input.File, s.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(content)) > s.maxFileSize {
		return nil, domain.ErrFileTooLarge
	}

	var upload *domain.BillUpload
	if s.storage != nil {
		id := uuid.New()
		key := fmt.Sprintf("bills/%s/%s.%s", time.Now().UTC().Format("2006/01"), id, ext)
		out, err := s.storage.Upload(ctx, port.UploadInput{
			Key:         key,
			Body:        bytes.NewReader(content),
			ContentType: domain.AllowedFileTypes[fileType],
		})
		if err != nil {
			log.Printf("billService.Upload: storage upload failed for %s: %v", input.Header.Filename, err)
			return nil, domain.ErrUploadFailed
		}
		upload = &domain.BillUpload{
			ID:           id,
			OriginalName: input.Header.Filename,
			FileSize:     int64(len(content)),
			S3Bucket:     out.Bucket,
			S3Key:        out.Key,
			UploadedAt:   time.Now().UTC(),
		}
	}

	result, err := s.ExtractContent(ctx, content, input.Strategy)
	if err != nil {
		return nil, err
	}
	result.Upload = upload
	return result, nil
}

func (s *billService) ExtractContent(ctx context.Context, content []byte, strategy domain.ExtractionStrategy) (*BillExtractionResult, error) {
	if strategy == "" {
		strategy = domain.StrategyModel
	}

	pages, err := s.docs.Pages(ctx, content)
	if err != nil {
		log.Printf("billService.ExtractContent: document read failed: %v", err)
		return &BillExtractionResult{
			Utility:  domain.UtilityGeneric,
			Strategy: strategy,
			Record:   domain.ErrorRecord(err, ProcessFailureMessage),
		}, nil
	}

	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(p.Text)
		sb.WriteString("\n")
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyDocument
	}

	utility := rules.Detect(text)
	fields := extract.Fields(text, rules.For(utility))

	var tableCharges []domain.ChargeLineItem
	for _, p := range pages {
		tableCharges = append(tableCharges, extract.PageCharges(p)...)
	}

	result := &BillExtractionResult{Utility: utility, Strategy: strategy}

	if strategy == domain.StrategyRules || s.billParser == nil {
		result.Strategy = domain.StrategyRules
		result.Record = extract.Assemble(fields, tableCharges, nil)
		return result, nil
	}

	out, err := s.billParser.Parse(ctx, port.ParseInput{BillText: text, Utility: utility})
	if err != nil {
		log.Printf("billService.ExtractContent: model extraction failed: %v", err)
		result.Record = domain.ErrorRecord(err, parser.ModelFailureMessage)
		return result, nil
	}

	result.ModelUsed = out.ModelUsed
	if out.Record.Failed() {
		// Unparsable model output is surfaced as-is; the caller can retry
		// with the rules strategy.
		result.Record = out.Record
		return result, nil
	}

	result.Record = extract.Assemble(fields, tableCharges, &out.Record)
	return result, nil
}
