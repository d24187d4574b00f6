package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/validately/startup-validator-backend/internal/logger"
	"github.com/validately/startup-validator-backend/internal/services"
)

func TestEvaluatorClientValidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/validate-idea", r.URL.Path)
		var req struct {
			StartupIdea string `json:"startup_idea"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "An AI sommelier for corner shops", req.StartupIdea)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(successEnvelope(req.StartupIdea))
	}))
	defer srv.Close()

	evaluator, err := services.NewEvaluatorClient(logger.NewNop(), services.EvaluatorOptions{BaseURL: srv.URL})
	require.NoError(t, err)

	evaluation, err := evaluator.Validate(context.Background(), "An AI sommelier for corner shops")
	require.NoError(t, err)
	require.True(t, evaluation.Success)
	require.Equal(t, "An AI sommelier for corner shops", evaluation.Data.StartupIdea)
	require.NotEmpty(t, evaluation.Data.AnalysisResults)
}

func TestEvaluatorClientNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "agent exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	evaluator, err := services.NewEvaluatorClient(logger.NewNop(), services.EvaluatorOptions{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = evaluator.Validate(context.Background(), "whatever idea")
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestEvaluatorClientSingleShotTimeout(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	evaluator, err := services.NewEvaluatorClient(logger.NewNop(), services.EvaluatorOptions{
		BaseURL: srv.URL,
		Timeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = evaluator.Validate(context.Background(), "slow evaluation idea")
	require.Error(t, err)
	// One attempt only; a timeout must not trigger a retry.
	require.EqualValues(t, 1, atomic.LoadInt64(&hits))
}

func TestEvaluatorClientRequiresBaseURL(t *testing.T) {
	_, err := services.NewEvaluatorClient(logger.NewNop(), services.EvaluatorOptions{})
	require.Error(t, err)
}
