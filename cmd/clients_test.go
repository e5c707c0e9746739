package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/risk-dashboard/internal/model"
	"github.com/sells-group/risk-dashboard/pkg/scoring"
	"github.com/sells-group/risk-dashboard/pkg/scoring/mocks"
)

func TestRunClients(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("ClientIDs", mock.Anything).Return([]model.ClientID{"1000", "1001", "1002"}, nil)

	var buf bytes.Buffer
	require.NoError(t, runClients(context.Background(), &buf, client))
	assert.Equal(t, "1000\n1001\n1002\n", buf.String())
}

func TestRunClients_Error(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("ClientIDs", mock.Anything).Return(nil,
		&scoring.APIError{Endpoint: scoring.EndpointClients, StatusCode: 502, Kind: scoring.ErrUnavailable})

	var buf bytes.Buffer
	err := runClients(context.Background(), &buf, client)
	require.Error(t, err)
	assert.ErrorIs(t, err, scoring.ErrUnavailable)
	assert.Empty(t, buf.String())
}
