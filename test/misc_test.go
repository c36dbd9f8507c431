package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/repcoin-app/backend/internal/misc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) miscGetRequest(ctx context.Context, path string, headers map[string]string) (int, string) {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s%s", serverEndpoint, path),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	return resp.StatusCode, string(respBytes)
}

func (s *IntegrationTestSuite) TestMisc() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.T().Run("root greets", func(t *testing.T) {
		statusCode, body := s.miscGetRequest(ctx, "/api/", nil)
		require.Equal(t, http.StatusOK, statusCode)
		assert.JSONEq(t, `{"message": "Rep Coin API - Earn While You Burn!"}`, body)
	})

	s.T().Run("version info", func(t *testing.T) {
		statusCode, body := s.miscGetRequest(ctx, "/api/version", nil)
		require.Equal(t, http.StatusOK, statusCode)
		assert.Equal(t, "test-version-info", body)
	})

	s.T().Run("my ip", func(t *testing.T) {
		statusCode, body := s.miscGetRequest(ctx, "/api/myip", map[string]string{
			"X-Real-Ip": "89.64.77.51",
		})
		require.Equal(t, http.StatusOK, statusCode)
		assert.Equal(t, "89.64.77.51", body)
	})

	s.T().Run("where am i", func(t *testing.T) {
		// local requests resolve through the dev geo ip info
		statusCode, body := s.miscGetRequest(ctx, "/api/whereami", nil)
		require.Equal(t, http.StatusOK, statusCode)
		assert.JSONEq(t, `{"city":"Berlin", "country":"DE"}`, body)
	})

	s.T().Run("random quote", func(t *testing.T) {
		statusCode, body := s.miscGetRequest(ctx, "/api/quote/random", nil)
		require.Equal(t, http.StatusOK, statusCode)

		var quote misc.Quote
		require.NoError(t, json.Unmarshal([]byte(body), &quote))
		assert.NotEmpty(t, quote.Text)
		assert.NotEmpty(t, quote.Author)
	})

	s.T().Run("unknown path", func(t *testing.T) {
		statusCode, _ := s.miscGetRequest(ctx, "/nope", nil)
		assert.Equal(t, http.StatusNotFound, statusCode)
	})
}
