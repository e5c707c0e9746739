// Package mocks provides test doubles for the scoring client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	model "github.com/sells-group/risk-dashboard/internal/model"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// ClientIDs provides a mock function with given fields: ctx
func (_m *MockClient) ClientIDs(ctx context.Context) ([]model.ClientID, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for ClientIDs")
	}

	var r0 []model.ClientID
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]model.ClientID, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) []model.ClientID); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.ClientID)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ClientDetail provides a mock function with given fields: ctx, id
func (_m *MockClient) ClientDetail(ctx context.Context, id model.ClientID) (*model.ClientDetail, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for ClientDetail")
	}

	var r0 *model.ClientDetail
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.ClientID) (*model.ClientDetail, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.ClientID) *model.ClientDetail); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.ClientDetail)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.ClientID) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Prediction provides a mock function with given fields: ctx, id
func (_m *MockClient) Prediction(ctx context.Context, id model.ClientID) (*model.Prediction, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for Prediction")
	}

	var r0 *model.Prediction
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.ClientID) (*model.Prediction, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.ClientID) *model.Prediction); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Prediction)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.ClientID) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Statistics provides a mock function with given fields: ctx, kind
func (_m *MockClient) Statistics(ctx context.Context, kind model.StatKind) (*model.StatDistribution, error) {
	ret := _m.Called(ctx, kind)

	if len(ret) == 0 {
		panic("no return value specified for Statistics")
	}

	var r0 *model.StatDistribution
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.StatKind) (*model.StatDistribution, error)); ok {
		return rf(ctx, kind)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.StatKind) *model.StatDistribution); ok {
		r0 = rf(ctx, kind)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.StatDistribution)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.StatKind) error); ok {
		r1 = rf(ctx, kind)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
