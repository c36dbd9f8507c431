package test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/repcoin-app/backend/internal/challenge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) deleteAllChampions(ctx context.Context) {
	_, err := s.dbPool.Exec(ctx, "DELETE FROM challenge_champion")
	require.NoError(s.T(), err)
}

func (s *IntegrationTestSuite) getChampionRequest(ctx context.Context, kind string) (int, challenge.ChampionView) {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/api/challenge/%s", serverEndpoint, kind),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var view challenge.ChampionView
	if resp.StatusCode == http.StatusOK {
		require.NoError(s.T(), json.Unmarshal(respBytes, &view))
	}

	return resp.StatusCode, view
}

func (s *IntegrationTestSuite) submitChallengeRequest(
	ctx context.Context,
	submitReq challenge.SubmitRequest,
) (int, challenge.SubmitResponse, string) {
	reqJson, err := json.Marshal(submitReq)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/api/challenge/submit", serverEndpoint),
		bytes.NewReader(reqJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var submitResp challenge.SubmitResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(s.T(), json.Unmarshal(respBytes, &submitResp))
	}

	return resp.StatusCode, submitResp, string(respBytes)
}

func (s *IntegrationTestSuite) TestChallengeChampions() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.deleteAllChampions(ctx)

	s.T().Run("empty board has no champion", func(t *testing.T) {
		statusCode, view := s.getChampionRequest(ctx, "pushup")
		require.Equal(t, http.StatusOK, statusCode)
		assert.False(t, view.HasChampion)
		assert.Equal(t, "pushup", view.ExerciseType)
		assert.Empty(t, view.ChampionName)
	})

	s.T().Run("unknown kind is not found", func(t *testing.T) {
		statusCode, _ := s.getChampionRequest(ctx, "rowing")
		assert.Equal(t, http.StatusNotFound, statusCode)
	})

	s.T().Run("first submission takes the title", func(t *testing.T) {
		statusCode, resp, _ := s.submitChallengeRequest(ctx, challenge.SubmitRequest{
			ExerciseType:  "pushup",
			RepsCompleted: 20,
			TimeSeconds:   60,
			PlayerName:    "Ana",
		})
		require.Equal(t, http.StatusOK, statusCode)
		assert.True(t, resp.Success)
		assert.True(t, resp.IsNewChampion)
		assert.Equal(t, "Ana is the new pushup champion: 20 reps in 60.0 seconds", resp.Message)
		require.NotNil(t, resp.CurrentChampion)
		assert.Equal(t, "Ana", resp.CurrentChampion.ChampionName)
		assert.Equal(t, 20, resp.CurrentChampion.BestReps)
	})

	s.T().Run("fewer reps keep the current champion", func(t *testing.T) {
		statusCode, resp, _ := s.submitChallengeRequest(ctx, challenge.SubmitRequest{
			ExerciseType:  "pushup",
			RepsCompleted: 15,
			TimeSeconds:   30,
			PlayerName:    "Bojan",
		})
		require.Equal(t, http.StatusOK, statusCode)
		assert.True(t, resp.Success)
		assert.False(t, resp.IsNewChampion)
		assert.Equal(t, "Ana keeps the pushup title with 20 reps in 60.0 seconds", resp.Message)
		require.NotNil(t, resp.CurrentChampion)
		assert.Equal(t, "Ana", resp.CurrentChampion.ChampionName)
	})

	s.T().Run("more reps dethrone the champion", func(t *testing.T) {
		statusCode, resp, _ := s.submitChallengeRequest(ctx, challenge.SubmitRequest{
			ExerciseType:  "pushup",
			RepsCompleted: 25,
			TimeSeconds:   90,
			PlayerName:    "Vera",
		})
		require.Equal(t, http.StatusOK, statusCode)
		assert.True(t, resp.IsNewChampion)
		require.NotNil(t, resp.CurrentChampion)
		assert.Equal(t, "Vera", resp.CurrentChampion.ChampionName)
		assert.Equal(t, 25, resp.CurrentChampion.BestReps)
	})

	s.T().Run("equal reps with faster time dethrone", func(t *testing.T) {
		statusCode, resp, _ := s.submitChallengeRequest(ctx, challenge.SubmitRequest{
			ExerciseType:  "pushup",
			RepsCompleted: 25,
			TimeSeconds:   80,
			PlayerName:    "Luka",
		})
		require.Equal(t, http.StatusOK, statusCode)
		assert.True(t, resp.IsNewChampion)
		require.NotNil(t, resp.CurrentChampion)
		assert.Equal(t, "Luka", resp.CurrentChampion.ChampionName)
		assert.Equal(t, 80.0, resp.CurrentChampion.BestTimeSeconds)
	})

	s.T().Run("equal reps with slower time keep the champion", func(t *testing.T) {
		statusCode, resp, _ := s.submitChallengeRequest(ctx, challenge.SubmitRequest{
			ExerciseType:  "pushup",
			RepsCompleted: 25,
			TimeSeconds:   85,
			PlayerName:    "Igor",
		})
		require.Equal(t, http.StatusOK, statusCode)
		assert.False(t, resp.IsNewChampion)
		require.NotNil(t, resp.CurrentChampion)
		assert.Equal(t, "Luka", resp.CurrentChampion.ChampionName)
	})

	s.T().Run("zero reps never take the title", func(t *testing.T) {
		statusCode, resp, _ := s.submitChallengeRequest(ctx, challenge.SubmitRequest{
			ExerciseType:  "situp",
			RepsCompleted: 0,
			TimeSeconds:   10,
			PlayerName:    "Maja",
		})
		require.Equal(t, http.StatusOK, statusCode)
		assert.True(t, resp.Success)
		assert.False(t, resp.IsNewChampion)
		assert.Equal(t, "no reps completed, no record set", resp.Message)
		require.NotNil(t, resp.CurrentChampion)
		assert.False(t, resp.CurrentChampion.HasChampion)
	})

	s.T().Run("champion photo round trips", func(t *testing.T) {
		photo := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
		statusCode, resp, _ := s.submitChallengeRequest(ctx, challenge.SubmitRequest{
			ExerciseType:  "situp",
			RepsCompleted: 30,
			TimeSeconds:   45,
			PlayerName:    "Mira",
			PlayerPhoto:   base64.StdEncoding.EncodeToString(photo),
		})
		require.Equal(t, http.StatusOK, statusCode)
		assert.True(t, resp.IsNewChampion)

		getStatus, view := s.getChampionRequest(ctx, "situp")
		require.Equal(t, http.StatusOK, getStatus)
		assert.True(t, view.HasChampion)
		assert.Equal(t, "Mira", view.ChampionName)
		assert.Equal(t, photo, view.ChampionPhoto)
	})

	s.T().Run("invalid submissions rejected", func(t *testing.T) {
		statusCode, _, body := s.submitChallengeRequest(ctx, challenge.SubmitRequest{
			ExerciseType:  "rowing",
			RepsCompleted: 10,
			TimeSeconds:   20,
			PlayerName:    "Ana",
		})
		assert.Equal(t, http.StatusBadRequest, statusCode)
		assert.Equal(t, "error, invalid exercise type", strings.TrimSpace(body))

		statusCode, _, body = s.submitChallengeRequest(ctx, challenge.SubmitRequest{
			ExerciseType:  "pushup",
			RepsCompleted: 10,
			TimeSeconds:   20,
			PlayerName:    "",
		})
		assert.Equal(t, http.StatusBadRequest, statusCode)
		assert.Equal(t, "invalid submission: player name empty", strings.TrimSpace(body))
	})
}
