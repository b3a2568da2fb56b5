package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/usecase"
)

func TestCallRecordList_ScopesToCaller(t *testing.T) {
	report := new(MockCallRecordReport)
	report.On("List", mock.Anything, model.CallRecordFilter{UserID: "user-1", ActionType: "post_creation", Limit: 50}).
		Return([]model.CallRecord{{ID: "r1"}}, int64(1), nil)

	uc := usecase.NewCallRecordUsecase(report)
	rows, total, applied, err := uc.List(context.Background(), principal, model.CallRecordFilter{UserID: "someone-else", ActionType: "post_creation"})

	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "user-1", applied.UserID)
	report.AssertExpectations(t)
}

func TestCallRecordList_ClampsPaging(t *testing.T) {
	report := new(MockCallRecordReport)
	report.On("List", mock.Anything, model.CallRecordFilter{UserID: "user-1", Limit: 200}).Return([]model.CallRecord{}, int64(0), nil)

	_, _, applied, err := usecase.NewCallRecordUsecase(report).List(context.Background(), principal, model.CallRecordFilter{Limit: 5000, Offset: -3})

	require.NoError(t, err)
	assert.Equal(t, 200, applied.Limit)
	assert.Zero(t, applied.Offset)
}

func TestCallRecordList_Errors(t *testing.T) {
	report := new(MockCallRecordReport)
	report.On("List", mock.Anything, mock.Anything).Return(nil, int64(0), errors.New("timeout"))
	uc := usecase.NewCallRecordUsecase(report)

	_, _, _, err := uc.List(context.Background(), model.Principal{}, model.CallRecordFilter{})
	assert.True(t, model.IsKind(err, model.KindValidation))

	_, _, _, err = uc.List(context.Background(), principal, model.CallRecordFilter{})
	assert.EqualError(t, err, "timeout")
}
