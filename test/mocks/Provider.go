package mocks

import (
	"context"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/stretchr/testify/mock"
)

// Provider is a mock type for the geocoding.Provider type.
type Provider struct {
	mock.Mock
}

// Geocode provides a mock function with given fields: ctx, query.
func (_m *Provider) Geocode(ctx context.Context, query string) models.GeocodeResult {
	ret := _m.Called(ctx, query)

	if len(ret) == 0 {
		panic("no return value specified for Geocode")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) models.GeocodeResult); ok {
		return rf(ctx, query)
	}

	return ret.Get(0).(models.GeocodeResult)
}

// NewProvider creates a new instance of Provider. It also registers a testing interface on the mock
// and a cleanup function to assert the mocks expectations.
func NewProvider(t interface {
	mock.TestingT
	Cleanup(func())
},
) *Provider {
	m := &Provider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
