package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/validately/startup-validator-backend/internal/apierr"
	"github.com/validately/startup-validator-backend/internal/logger"
	"github.com/validately/startup-validator-backend/internal/repos"
	"github.com/validately/startup-validator-backend/internal/services"
	"github.com/validately/startup-validator-backend/internal/types"
)

func successEnvelope(idea string) map[string]any {
	return map[string]any{
		"success": true,
		"data": map[string]any{
			"startup_idea": idea,
			"analysis_results": map[string]any{
				"trends":       map[string]any{"growth_rate": "High"},
				"competitors":  map[string]any{"benchmark_score": 70},
				"saturation":   map[string]any{"saturation_score": "Medium"},
				"novelty":      map[string]any{"novelty_score": 60},
				"final_report": map[string]any{"viability_score": 72},
			},
		},
	}
}

func newGateway(t *testing.T, handler http.HandlerFunc) (*httptest.Server, services.EvaluatorClient) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	evaluator, err := services.NewEvaluatorClient(logger.NewNop(), services.EvaluatorOptions{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return srv, evaluator
}

func newIdeaService(t *testing.T, db *gorm.DB, evaluator services.EvaluatorClient) services.IdeaService {
	t.Helper()
	log := logger.NewNop()
	return services.NewIdeaService(db, log, repos.NewIdeaRepo(db, log), evaluator)
}

func TestSubmitIdeaPersistsOnSuccess(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	userID := uuid.New()

	var gatewayHits int64
	_, evaluator := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&gatewayHits, 1)
		var req struct {
			StartupIdea string `json:"startup_idea"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "/validate-idea", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(successEnvelope(req.StartupIdea))
	})
	ideas := newIdeaService(t, db, evaluator)

	idea, err := ideas.SubmitIdea(ctx, userID, "A subscription box for left-handed scissors")
	require.NoError(t, err)
	require.EqualValues(t, 1, atomic.LoadInt64(&gatewayHits))
	require.Equal(t, "A subscription box for left-handed scissors", idea.Title)
	require.Equal(t, userID, idea.UserID)

	var env services.Evaluation
	require.NoError(t, json.Unmarshal(idea.Evaluation, &env))
	require.True(t, env.Success)
	require.Equal(t, idea.Title, env.Data.StartupIdea)

	listed, err := ideas.ListIdeas(ctx, userID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, idea.ID, listed[0].ID)
}

func TestSubmitIdeaGatewayErrorPersistsNothing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	userID := uuid.New()

	_, evaluator := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	ideas := newIdeaService(t, db, evaluator)

	before, err := ideas.ListIdeas(ctx, userID)
	require.NoError(t, err)

	_, err = ideas.SubmitIdea(ctx, userID, "An app that waters plants remotely")
	require.Error(t, err)
	require.Equal(t, apierr.CodeEvaluationFailed, apierr.From(err).Code)

	after, err := ideas.ListIdeas(ctx, userID)
	require.NoError(t, err)
	require.Len(t, after, len(before))
}

func TestSubmitIdeaGatewayReportedFailurePersistsNothing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	userID := uuid.New()

	_, evaluator := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
	})
	ideas := newIdeaService(t, db, evaluator)

	_, err := ideas.SubmitIdea(ctx, userID, "A subscription box for left-handed scissors")
	require.Error(t, err)
	require.Equal(t, apierr.CodeEvaluationFailed, apierr.From(err).Code)

	var count int64
	require.NoError(t, db.Model(&types.Idea{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestSubmitIdeaRejectsEmptyTitle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	var gatewayHits int64
	_, evaluator := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&gatewayHits, 1)
	})
	ideas := newIdeaService(t, db, evaluator)

	_, err := ideas.SubmitIdea(ctx, uuid.New(), "   ")
	require.Error(t, err)
	require.Equal(t, apierr.CodeValidation, apierr.From(err).Code)
	require.EqualValues(t, 0, atomic.LoadInt64(&gatewayHits))
}

func TestListIdeasNewestFirstAndOwnerScoped(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	alice := uuid.New()
	bob := uuid.New()

	_, evaluator := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StartupIdea string `json:"startup_idea"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(successEnvelope(req.StartupIdea))
	})
	ideas := newIdeaService(t, db, evaluator)

	titles := []string{
		"A marketplace for vintage synthesizers",
		"Compostable packaging for street food",
		"Peer tutoring for rural students",
	}
	for _, title := range titles {
		_, err := ideas.SubmitIdea(ctx, alice, title)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}
	_, err := ideas.SubmitIdea(ctx, bob, "Drone delivery for mountain villages")
	require.NoError(t, err)

	listed, err := ideas.ListIdeas(ctx, alice)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	require.Equal(t, titles[2], listed[0].Title)
	require.Equal(t, titles[1], listed[1].Title)
	require.Equal(t, titles[0], listed[2].Title)
	for _, idea := range listed {
		require.Equal(t, alice, idea.UserID)
	}

	// Re-querying with no intervening submission yields identical output.
	again, err := ideas.ListIdeas(ctx, alice)
	require.NoError(t, err)
	require.Len(t, again, len(listed))
	for i := range listed {
		require.Equal(t, listed[i].ID, again[i].ID)
	}
}

func TestGetIdea(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	userID := uuid.New()

	_, evaluator := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(successEnvelope("x"))
	})
	ideas := newIdeaService(t, db, evaluator)

	created, err := ideas.SubmitIdea(ctx, userID, "A meal-kit service for night-shift workers")
	require.NoError(t, err)

	got, err := ideas.GetIdea(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	_, err = ideas.GetIdea(ctx, uuid.New())
	require.Error(t, err)
	require.Equal(t, apierr.CodeNotFound, apierr.From(err).Code)
}
