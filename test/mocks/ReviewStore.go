package mocks

import (
	"context"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/stretchr/testify/mock"
)

// ReviewStore is a mock type for the repository.ReviewStore type.
type ReviewStore struct {
	mock.Mock
}

// ListUnreviewedStates provides a mock function with given fields: ctx.
func (_m *ReviewStore) ListUnreviewedStates(ctx context.Context) ([]string, error) {
	ret := _m.Called(ctx)

	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}

	return r0, ret.Error(1)
}

// NextUnreviewed provides a mock function with given fields: ctx, state.
func (_m *ReviewStore) NextUnreviewed(ctx context.Context, state string) (*models.Facility, error) {
	ret := _m.Called(ctx, state)

	var r0 *models.Facility
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Facility)
	}

	return r0, ret.Error(1)
}

// CommitCorrection provides a mock function with given fields: ctx, correction.
func (_m *ReviewStore) CommitCorrection(ctx context.Context, correction models.Correction) error {
	ret := _m.Called(ctx, correction)

	return ret.Error(0)
}

// GetFacility provides a mock function with given fields: ctx, facilityID.
func (_m *ReviewStore) GetFacility(ctx context.Context, facilityID int) (*models.Facility, error) {
	ret := _m.Called(ctx, facilityID)

	var r0 *models.Facility
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Facility)
	}

	return r0, ret.Error(1)
}

// Ping provides a mock function with given fields: ctx.
func (_m *ReviewStore) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)

	return ret.Error(0)
}

// NewReviewStore creates a new instance of ReviewStore. It also registers a testing interface on the mock
// and a cleanup function to assert the mocks expectations.
func NewReviewStore(t interface {
	mock.TestingT
	Cleanup(func())
},
) *ReviewStore {
	m := &ReviewStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
