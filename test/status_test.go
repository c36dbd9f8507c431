package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/repcoin-app/backend/internal/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) deleteAllStatusChecks(ctx context.Context) {
	_, err := s.dbPool.Exec(ctx, "DELETE FROM status_check")
	require.NoError(s.T(), err)
}

func (s *IntegrationTestSuite) newStatusCheckRequest(ctx context.Context, clientName string) status.StatusCheck {
	reqJson, err := json.Marshal(map[string]string{"client_name": clientName})
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/api/status", serverEndpoint),
		bytes.NewReader(reqJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var check status.StatusCheck
	require.NoError(s.T(), json.Unmarshal(respBytes, &check))

	return check
}

func (s *IntegrationTestSuite) listStatusChecksRequest(ctx context.Context) []status.StatusCheck {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/api/status", serverEndpoint),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var checks []status.StatusCheck
	require.NoError(s.T(), json.Unmarshal(respBytes, &checks))

	return checks
}

func (s *IntegrationTestSuite) TestStatusChecks() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.deleteAllStatusChecks(ctx)

	s.T().Run("status check records client and country", func(t *testing.T) {
		check := s.newStatusCheckRequest(ctx, "fitness-app-ios")
		assert.True(t, check.ID > 0)
		assert.Equal(t, "fitness-app-ios", check.ClientName)
		// local requests resolve through the dev geo ip info
		assert.Equal(t, "DE", check.Country)
		assert.False(t, check.Timestamp.IsZero())
	})

	s.T().Run("status checks listed in insertion order", func(t *testing.T) {
		s.deleteAllStatusChecks(ctx)
		first := s.newStatusCheckRequest(ctx, "client-one")
		second := s.newStatusCheckRequest(ctx, "client-two")

		checks := s.listStatusChecksRequest(ctx)
		require.Len(t, checks, 2)
		assert.Equal(t, first.ID, checks[0].ID)
		assert.Equal(t, second.ID, checks[1].ID)
	})

	s.T().Run("empty client name rejected", func(t *testing.T) {
		req, err := http.NewRequestWithContext(
			ctx,
			"POST", fmt.Sprintf("%s/api/status", serverEndpoint),
			bytes.NewReader([]byte(`{"client_name": ""}`)),
		)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "error, client name empty", strings.TrimSpace(string(respBytes)))
	})
}
