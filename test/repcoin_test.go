package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/repcoin-app/backend/internal/reps"
	"github.com/repcoin-app/backend/internal/sessions"
	"github.com/repcoin-app/backend/internal/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) deleteAllReps(ctx context.Context) {
	_, err := s.dbPool.Exec(ctx, "DELETE FROM rep")
	require.NoError(s.T(), err)
}

func (s *IntegrationTestSuite) deleteAllSessions(ctx context.Context) {
	_, err := s.dbPool.Exec(ctx, "DELETE FROM workout_session")
	require.NoError(s.T(), err)
}

func (s *IntegrationTestSuite) newRepRequest(ctx context.Context, rep reps.Rep) reps.Rep {
	repJson, err := json.Marshal(rep)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/api/reps", serverEndpoint),
		bytes.NewReader(repJson),
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

	var addedRep reps.Rep
	require.NoError(s.T(), json.Unmarshal(respBytes, &addedRep))

	return addedRep
}

func (s *IntegrationTestSuite) listRepsRequest(ctx context.Context, exerciseType string) []reps.Rep {
	listUrl := fmt.Sprintf("%s/api/reps", serverEndpoint)
	if exerciseType != "" {
		listUrl += "?exercise_type=" + exerciseType
	}

	req, err := http.NewRequestWithContext(ctx, "GET", listUrl, nil)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var repsList []reps.Rep
	require.NoError(s.T(), json.Unmarshal(respBytes, &repsList))

	return repsList
}

func (s *IntegrationTestSuite) newSessionRequest(ctx context.Context, session sessions.WorkoutSession) sessions.WorkoutSession {
	sessionJson, err := json.Marshal(session)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/api/sessions", serverEndpoint),
		bytes.NewReader(sessionJson),
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

	var addedSession sessions.WorkoutSession
	require.NoError(s.T(), json.Unmarshal(respBytes, &addedSession))

	return addedSession
}

func (s *IntegrationTestSuite) listSessionsRequest(ctx context.Context) []sessions.WorkoutSession {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/api/sessions", serverEndpoint),
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

	var sessionsList []sessions.WorkoutSession
	require.NoError(s.T(), json.Unmarshal(respBytes, &sessionsList))

	return sessionsList
}

func (s *IntegrationTestSuite) getWalletRequest(ctx context.Context) wallet.Wallet {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/api/wallet", serverEndpoint),
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

	var w wallet.Wallet
	require.NoError(s.T(), json.Unmarshal(respBytes, &w))

	return w
}

func (s *IntegrationTestSuite) TestRepsSessionsAndWallet() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.deleteAllReps(ctx)
	s.deleteAllSessions(ctx)

	s.T().Run("wallet starts empty", func(t *testing.T) {
		w := s.getWalletRequest(ctx)
		assert.Equal(t, 0, w.TotalCoins)
		assert.Equal(t, 0, w.TotalPushups)
		assert.Equal(t, 0, w.TotalSitups)
		assert.Equal(t, 0, w.SessionsCount)
	})

	s.T().Run("reps are recorded newest first", func(t *testing.T) {
		now := time.Now()
		older := s.newRepRequest(ctx, reps.Rep{
			ExerciseType: reps.ExerciseTypePushup,
			CoinsEarned:  1,
			Timestamp:    now.Add(-time.Minute),
		})
		newer := s.newRepRequest(ctx, reps.Rep{
			ExerciseType: reps.ExerciseTypeSitup,
			CoinsEarned:  2,
			Timestamp:    now,
		})
		assert.True(t, older.ID > 0)
		assert.True(t, newer.ID > 0)

		repsList := s.listRepsRequest(ctx, "")
		require.Len(t, repsList, 2)
		assert.Equal(t, newer.ID, repsList[0].ID)
		assert.Equal(t, older.ID, repsList[1].ID)

		pushupsOnly := s.listRepsRequest(ctx, "pushup")
		require.Len(t, pushupsOnly, 1)
		assert.Equal(t, older.ID, pushupsOnly[0].ID)
	})

	s.T().Run("single rep is fetched by id", func(t *testing.T) {
		added := s.newRepRequest(ctx, reps.Rep{
			ExerciseType: reps.ExerciseTypePushup,
			CoinsEarned:  3,
		})

		req, err := http.NewRequestWithContext(
			ctx,
			"GET", fmt.Sprintf("%s/api/reps/%d", serverEndpoint, added.ID),
			nil,
		)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		resp.Body.Close()

		var gottenRep reps.Rep
		require.NoError(t, json.Unmarshal(respBytes, &gottenRep))
		assert.Equal(t, added.ID, gottenRep.ID)
		assert.Equal(t, added.ExerciseType, gottenRep.ExerciseType)
		assert.Equal(t, added.CoinsEarned, gottenRep.CoinsEarned)

		req, err = http.NewRequestWithContext(
			ctx,
			"GET", fmt.Sprintf("%s/api/reps/%d", serverEndpoint, added.ID+100000),
			nil,
		)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")

		resp, err = s.httpClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})

	s.T().Run("zero coins defaults to one", func(t *testing.T) {
		added := s.newRepRequest(ctx, reps.Rep{ExerciseType: reps.ExerciseTypePushup})
		assert.Equal(t, 1, added.CoinsEarned)
		assert.False(t, added.Timestamp.IsZero())
	})

	s.T().Run("invalid reps are rejected", func(t *testing.T) {
		for name, body := range map[string]string{
			"unknown exercise": `{"exercise_type": "deadlift", "coins_earned": 1}`,
			"negative coins":   `{"exercise_type": "pushup", "coins_earned": -2}`,
		} {
			req, err := http.NewRequestWithContext(
				ctx,
				"POST", fmt.Sprintf("%s/api/reps", serverEndpoint),
				bytes.NewReader([]byte(body)),
			)
			require.NoError(t, err)
			req.Header.Set("User-Agent", "test-agent")
			req.Header.Set("Content-Type", "application/json")

			resp, err := s.httpClient.Do(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, name)
			resp.Body.Close()
		}
	})

	s.T().Run("sessions are recorded", func(t *testing.T) {
		added := s.newSessionRequest(ctx, sessions.WorkoutSession{
			Pushups:    20,
			Situps:     10,
			TotalCoins: 30,
		})
		assert.True(t, added.ID > 0)
		assert.False(t, added.Timestamp.IsZero())

		sessionsList := s.listSessionsRequest(ctx)
		require.Len(t, sessionsList, 1)
		assert.Equal(t, 20, sessionsList[0].Pushups)
		assert.Equal(t, 10, sessionsList[0].Situps)
		assert.Equal(t, 30, sessionsList[0].TotalCoins)
	})

	s.T().Run("wallet aggregates reps and sessions", func(t *testing.T) {
		s.deleteAllReps(ctx)
		s.deleteAllSessions(ctx)

		for i := 0; i < 3; i++ {
			s.newRepRequest(ctx, reps.Rep{ExerciseType: reps.ExerciseTypePushup, CoinsEarned: 1})
		}
		for i := 0; i < 2; i++ {
			s.newRepRequest(ctx, reps.Rep{ExerciseType: reps.ExerciseTypeSitup, CoinsEarned: 2})
		}
		s.newSessionRequest(ctx, sessions.WorkoutSession{Pushups: 3, Situps: 2, TotalCoins: 7})

		w := s.getWalletRequest(ctx)
		assert.Equal(t, 7, w.TotalCoins)
		assert.Equal(t, 3, w.TotalPushups)
		assert.Equal(t, 2, w.TotalSitups)
		assert.Equal(t, 1, w.SessionsCount)
	})
}
