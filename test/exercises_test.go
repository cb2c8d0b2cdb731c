//go:build e2e_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/2beens/gymvariations/internal/gymstats/exercises"
	"github.com/2beens/gymvariations/internal/gymstats/variations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) listExercises(ctx context.Context, token string) []exercises.Definition {
	resp, body := s.do(ctx, "GET", "/exercises", token, nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, string(body))
	var defs []exercises.Definition
	require.NoError(s.T(), json.Unmarshal(body, &defs))
	return defs
}

func (s *IntegrationTestSuite) systemExerciseID(ctx context.Context, token, key string) string {
	for _, def := range s.listExercises(ctx, token) {
		if def.Key == key && def.Owner == exercises.SystemOwner {
			return def.ID
		}
	}
	s.T().Fatalf("system exercise [%s] not found", key)
	return ""
}

func (s *IntegrationTestSuite) TestTemplates_Public() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resp, body := s.do(ctx, "GET", "/variations/templates", "", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	var templates []variations.Template
	require.NoError(s.T(), json.Unmarshal(body, &templates))
	assert.NotEmpty(s.T(), templates)

	resp, body = s.do(ctx, "GET", "/variations/templates/width", "", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	var width variations.Template
	require.NoError(s.T(), json.Unmarshal(body, &width))
	assert.Equal(s.T(), "width", width.ID)
	assert.NotEmpty(s.T(), width.Options)
}

func (s *IntegrationTestSuite) TestExercises_SeededTargeting() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.newSession(ctx, "e2e-user-1")
	benchID := s.systemExerciseID(ctx, token, "benchPress")

	s.T().Run("no selection returns base targets", func(t *testing.T) {
		resp, body := s.do(ctx, "GET", "/exercises/"+benchID+"/targeting", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		var targeting exercises.TargetingResponse
		require.NoError(t, json.Unmarshal(body, &targeting))
		assert.InDelta(t, 0.58, targeting.Weights["chestMid"], 1e-9)
	})

	s.T().Run("wide grip", func(t *testing.T) {
		resp, body := s.do(ctx, "GET", "/exercises/"+benchID+"/targeting?width=wide", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		var targeting exercises.TargetingResponse
		require.NoError(t, json.Unmarshal(body, &targeting))
		assert.InDelta(t, 0.63, targeting.Weights["chestMid"], 1e-9)
		assert.InDelta(t, 0.06, targeting.Weights["triceps"], 1e-9)
	})

	s.T().Run("unsupported template", func(t *testing.T) {
		resp, body := s.do(ctx, "GET", "/exercises/"+benchID+"/targeting?kneeAngle=90", token, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
	})

	s.T().Run("system exercise is read only", func(t *testing.T) {
		payload, err := json.Marshal(exercises.CreateRequest{
			Key:      "benchPress",
			Name:     "Bench",
			Category: exercises.Category.UpperBody,
			RepMode:  exercises.RepMode.Bilateral,
			Targets:  []exercises.TargetWeight{{Muscle: "chestMid", Weight: 1}},
		})
		require.NoError(t, err)
		resp, _ := s.do(ctx, "PUT", "/exercises/"+benchID, token, bytes.NewReader(payload))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func (s *IntegrationTestSuite) TestExercises_CustomLifecycle() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ownerToken := s.newSession(ctx, "e2e-user-2")
	otherToken := s.newSession(ctx, "e2e-user-3")

	create := exercises.CreateRequest{
		Key:      "cablePullover",
		Name:     "Cable Pullover",
		Category: exercises.Category.UpperBody,
		RepMode:  exercises.RepMode.Bilateral,
		Targets: []exercises.TargetWeight{
			{Muscle: "lats", Weight: 0.7},
			{Muscle: "triceps", Weight: 0.3},
		},
		Supports: []exercises.VariationSupport{
			{TemplateID: "cableAttachment"},
		},
	}
	payload, err := json.Marshal(create)
	require.NoError(s.T(), err)

	resp, body := s.do(ctx, "POST", "/exercises", ownerToken, bytes.NewReader(payload))
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode, string(body))
	var created exercises.CreateDefinitionResponse
	require.NoError(s.T(), json.Unmarshal(body, &created))

	s.T().Run("duplicate key conflicts", func(t *testing.T) {
		resp, _ := s.do(ctx, "POST", "/exercises", ownerToken, bytes.NewReader(payload))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	s.T().Run("same key for another owner", func(t *testing.T) {
		resp, body := s.do(ctx, "POST", "/exercises", otherToken, bytes.NewReader(payload))
		assert.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	})

	s.T().Run("hidden from other owners", func(t *testing.T) {
		resp, _ := s.do(ctx, "GET", "/exercises/"+created.ID, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	s.T().Run("replace whole aggregate", func(t *testing.T) {
		replaced := create
		replaced.Name = "Cable Pullover (rope)"
		replaced.Targets = []exercises.TargetWeight{{Muscle: "lats", Weight: 1}}
		replaced.Supports = nil
		replacePayload, err := json.Marshal(replaced)
		require.NoError(t, err)

		resp, body := s.do(ctx, "PUT", "/exercises/"+created.ID, ownerToken, bytes.NewReader(replacePayload))
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		resp, body = s.do(ctx, "GET", "/exercises/"+created.ID, ownerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var def exercises.DefinitionResponse
		require.NoError(t, json.Unmarshal(body, &def))
		assert.Equal(t, "Cable Pullover (rope)", def.Name)
		assert.Empty(t, def.Supports)
		require.Len(t, def.Targets, 1)

		var targetRows int
		require.NoError(t, s.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM exercise_target WHERE exercise_id = $1`, created.ID,
		).Scan(&targetRows))
		assert.Equal(t, 1, targetRows)
	})

	s.T().Run("invalid effect reference", func(t *testing.T) {
		invalid := create
		invalid.Key = "cablePulloverBroken"
		invalid.Effects = []exercises.VariationEffect{{
			TemplateID: "grip",
			OptionKey:  "neutral",
			Effect:     exercises.Effect{Deltas: map[string]float64{"lats": 0.1}},
		}}
		invalidPayload, err := json.Marshal(invalid)
		require.NoError(t, err)

		resp, body := s.do(ctx, "POST", "/exercises", ownerToken, bytes.NewReader(invalidPayload))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var errResp exercises.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &errResp))
		require.NotNil(t, errResp.Validation)
		assert.Equal(t, "grip", errResp.Validation.TemplateID)
	})

	s.T().Run("missing token", func(t *testing.T) {
		resp, _ := s.do(ctx, "GET", "/exercises", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
