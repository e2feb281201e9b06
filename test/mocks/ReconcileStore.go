package mocks

import (
	"context"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/stretchr/testify/mock"
)

// ReconcileStore is a mock type for the repository.ReconcileStore type.
type ReconcileStore struct {
	mock.Mock
}

// FetchFacilitiesForGeocoding provides a mock function with given fields: ctx, state.
func (_m *ReconcileStore) FetchFacilitiesForGeocoding(ctx context.Context, state string) ([]models.Facility, error) {
	ret := _m.Called(ctx, state)

	var r0 []models.Facility
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Facility)
	}

	return r0, ret.Error(1)
}

// FetchLocatedFacilities provides a mock function with given fields: ctx.
func (_m *ReconcileStore) FetchLocatedFacilities(ctx context.Context) ([]models.Facility, error) {
	ret := _m.Called(ctx)

	var r0 []models.Facility
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Facility)
	}

	return r0, ret.Error(1)
}

// FetchRegions provides a mock function with given fields: ctx.
func (_m *ReconcileStore) FetchRegions(ctx context.Context) ([]models.Region, error) {
	ret := _m.Called(ctx)

	var r0 []models.Region
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Region)
	}

	return r0, ret.Error(1)
}

// UpdateFacilityCoordinates provides a mock function with given fields: ctx, facilityID, coords.
func (_m *ReconcileStore) UpdateFacilityCoordinates(ctx context.Context, facilityID int, coords models.Coordinates) error {
	ret := _m.Called(ctx, facilityID, coords)

	return ret.Error(0)
}

// AssignMunicipality provides a mock function with given fields: ctx, facilityID, municipalityID.
func (_m *ReconcileStore) AssignMunicipality(ctx context.Context, facilityID, municipalityID int) error {
	ret := _m.Called(ctx, facilityID, municipalityID)

	return ret.Error(0)
}

// UpdateCoordinatesByName provides a mock function with given fields: ctx, name, facilityType, coords.
func (_m *ReconcileStore) UpdateCoordinatesByName(
	ctx context.Context, name, facilityType string, coords models.Coordinates,
) (int64, error) {
	ret := _m.Called(ctx, name, facilityType, coords)

	return ret.Get(0).(int64), ret.Error(1)
}

// InsertMunicipalities provides a mock function with given fields: ctx, regions.
func (_m *ReconcileStore) InsertMunicipalities(ctx context.Context, regions []models.Region) (int64, error) {
	ret := _m.Called(ctx, regions)

	return ret.Get(0).(int64), ret.Error(1)
}

// NewReconcileStore creates a new instance of ReconcileStore. It also registers a testing interface on the mock
// and a cleanup function to assert the mocks expectations.
func NewReconcileStore(t interface {
	mock.TestingT
	Cleanup(func())
},
) *ReconcileStore {
	m := &ReconcileStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
