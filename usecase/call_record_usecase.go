package usecase

import (
	"context"

	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
)

const (
	defaultCallRecordLimit = 50
	maxCallRecordLimit     = 200
)

type ICallRecordUsecase interface {
	List(ctx context.Context, principal model.Principal, filter model.CallRecordFilter) ([]model.CallRecord, int64, model.CallRecordFilter, error)
}

type callRecordUsecase struct {
	report repository.ICallRecordReport
}

func NewCallRecordUsecase(report repository.ICallRecordReport) ICallRecordUsecase {
	return &callRecordUsecase{report: report}
}

// List returns the caller's own call records, newest first.
func (u *callRecordUsecase) List(ctx context.Context, principal model.Principal, filter model.CallRecordFilter) ([]model.CallRecord, int64, model.CallRecordFilter, error) {
	if principal.UserID == "" {
		return nil, 0, filter, model.NewValidationError("missing authenticated user")
	}
	filter.UserID = principal.UserID
	if filter.Limit <= 0 {
		filter.Limit = defaultCallRecordLimit
	}
	if filter.Limit > maxCallRecordLimit {
		filter.Limit = maxCallRecordLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	records, total, err := u.report.List(ctx, filter)
	if err != nil {
		return nil, 0, filter, err
	}
	return records, total, filter, nil
}
