package usecase

import (
	"bytes"
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
	"github.com/polkiloo/membership/internal/domain/model"
	"github.com/polkiloo/membership/internal/domain/repository"
	"github.com/polkiloo/membership/internal/report"
)

// ReportUseCase renders customer exports.
type ReportUseCase struct {
	customers repository.CustomerRepository
	now       Clock
}

// NewReportUseCase constructs ReportUseCase.
func NewReportUseCase(customers repository.CustomerRepository, clock Clock) *ReportUseCase {
	return &ReportUseCase{customers: customers, now: clock}
}

// Generate renders the customers created inside the requested window. Nothing
// is returned unless the whole export rendered.
func (u *ReportUseCase) Generate(ctx context.Context, req model.ReportRequest) (*model.Report, error) {
	now := u.now()

	plan, err := report.ParsePlan(string(req.Plan))
	if err != nil {
		return nil, err
	}
	if req.Format == "" {
		req.Format = model.FormatCSV
	}

	window, err := report.Range(req.Type, now, req.From, req.To)
	if err != nil {
		return nil, err
	}

	customers, err := u.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	selected := report.Select(customers, window, plan, now.Location())

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch req.Format {
	case model.FormatCSV:
		err = report.WriteCSV(&buf, selected, now.Location())
		contentType = report.ContentTypeCSV
	case model.FormatXLSX:
		err = report.WriteXLSX(&buf, selected, now.Location())
		contentType = report.ContentTypeXLSX
	default:
		return nil, fmt.Errorf("unknown report format %q: %w", req.Format, domainErrors.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	return &model.Report{
		Filename:    report.Filename(plan, req.Type, window, now, string(req.Format)),
		ContentType: contentType,
		Body:        buf.Bytes(),
		Rows:        len(selected),
	}, nil
}
