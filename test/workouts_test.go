//go:build e2e_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/2beens/gymvariations/internal/gymstats/exercises"
	"github.com/2beens/gymvariations/internal/gymstats/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func (s *IntegrationTestSuite) TestWorkouts_SessionAndEntries() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.newSession(ctx, "e2e-lifter")
	benchID := s.systemExerciseID(ctx, token, "benchPress")

	session := workouts.RecordSessionRequest{
		Date:      "20260310",
		StartTime: "18:00",
		EndTime:   "19:10",
		Entries: []workouts.EntryPayload{
			{
				ExerciseID: benchID,
				Variations: exercises.Selection{"width": "wide"},
				Sets: []workouts.Set{
					{Weight: 80, Reps: workouts.RepCount{Bilateral: intPtr(8)}, Effort: intPtr(8)},
					{Weight: 80, Reps: workouts.RepCount{Bilateral: intPtr(7)}, Effort: intPtr(9)},
				},
			},
		},
	}
	payload, err := json.Marshal(session)
	require.NoError(s.T(), err)

	resp, body := s.do(ctx, "POST", "/workouts/sessions", token, bytes.NewReader(payload))
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode, string(body))
	var recorded workouts.RecordedResponse
	require.NoError(s.T(), json.Unmarshal(body, &recorded))
	sessionID := recorded.ID

	var entryID string
	s.T().Run("append entry to session", func(t *testing.T) {
		entry := workouts.RecordEntryRequest{
			SessionID: sessionID,
			EntryPayload: workouts.EntryPayload{
				ExerciseID: benchID,
				Variations: exercises.Selection{"planeAngle": "30"},
				Sets: []workouts.Set{
					{Weight: 60, Reps: workouts.RepCount{Bilateral: intPtr(10)}},
				},
			},
		}
		entryPayload, err := json.Marshal(entry)
		require.NoError(t, err)

		resp, body := s.do(ctx, "POST", "/workouts/entries", token, bytes.NewReader(entryPayload))
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		var entryResp workouts.RecordedResponse
		require.NoError(t, json.Unmarshal(body, &entryResp))
		entryID = entryResp.ID
	})

	s.T().Run("entry targeting", func(t *testing.T) {
		require.NotEmpty(t, entryID)
		resp, body := s.do(ctx, "GET", "/workouts/entries/"+entryID+"/targeting", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		var targeting workouts.EntryTargetingResponse
		require.NoError(t, json.Unmarshal(body, &targeting))
		assert.Greater(t, targeting.Weights["chestUpper"], 0.12)
	})

	s.T().Run("list sessions", func(t *testing.T) {
		resp, body := s.do(ctx, "GET", "/workouts/sessions?from=20260301&to=20260331", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		var sessions []workouts.Session
		require.NoError(t, json.Unmarshal(body, &sessions))
		require.Len(t, sessions, 1)
		assert.Len(t, sessions[0].Entries, 2)
	})

	s.T().Run("exercise meta", func(t *testing.T) {
		resp, body := s.do(ctx, "GET", "/workouts/meta", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		var meta workouts.ExerciseMeta
		require.NoError(t, json.Unmarshal(body, &meta))
		bench, ok := meta.Exercises[benchID]
		require.True(t, ok)
		assert.Equal(t, "benchPress", bench.Key)
		assert.Equal(t, 2, bench.EntriesCount)
		require.NotNil(t, bench.RecordSet)
		assert.InDelta(t, 640, bench.RecordSet.TotalVolume, 1e-9)
		require.NotNil(t, bench.MostRecentSession)
		assert.Equal(t, "20260310", bench.MostRecentSession.Date)
	})

	s.T().Run("unsupported variation rejects whole session", func(t *testing.T) {
		broken := session
		broken.Date = "20260311"
		broken.Entries = append([]workouts.EntryPayload{}, session.Entries...)
		broken.Entries = append(broken.Entries, workouts.EntryPayload{
			ExerciseID: benchID,
			Variations: exercises.Selection{"kneeAngle": "90"},
			Sets:       []workouts.Set{{Weight: 10, Reps: workouts.RepCount{Bilateral: intPtr(1)}}},
		})
		brokenPayload, err := json.Marshal(broken)
		require.NoError(t, err)

		resp, _ := s.do(ctx, "POST", "/workouts/sessions", token, bytes.NewReader(brokenPayload))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var sessions int
		require.NoError(t, s.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM workout_session WHERE date_str = '20260311'`,
		).Scan(&sessions))
		assert.Zero(t, sessions)
	})

	s.T().Run("other owner cannot append", func(t *testing.T) {
		otherToken := s.newSession(ctx, "e2e-other-lifter")
		entry := workouts.RecordEntryRequest{
			SessionID: sessionID,
			EntryPayload: workouts.EntryPayload{
				ExerciseID: benchID,
				Sets:       []workouts.Set{{Weight: 60, Reps: workouts.RepCount{Bilateral: intPtr(10)}}},
			},
		}
		entryPayload, err := json.Marshal(entry)
		require.NoError(t, err)

		resp, _ := s.do(ctx, "POST", "/workouts/entries", otherToken, bytes.NewReader(entryPayload))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
