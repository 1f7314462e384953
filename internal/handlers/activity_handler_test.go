package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"github.com/Madiyar2201/Time_Tracker/internal/services"
	jwtutil "github.com/Madiyar2201/Time_Tracker/pkg/jwt"
	"github.com/Madiyar2201/Time_Tracker/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubActivityStore struct {
	activities []models.Activity
}

func (s *stubActivityStore) CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	s.activities = append(s.activities, *activity)
	return activity, nil
}

func (s *stubActivityStore) GetUserActivities(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Activity, error) {
	matched := make([]models.Activity, 0)
	for _, a := range s.activities {
		if a.UserID == userID {
			matched = append(matched, a)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if limit > 0 && int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *stubActivityStore) GetSubjectActivities(ctx context.Context, subjectType string, subjectID primitive.ObjectID, page, limit int64) ([]models.Activity, error) {
	return nil, nil
}

func (s *stubActivityStore) DeleteSubjectActivities(ctx context.Context, subjectType string, subjectID primitive.ObjectID) error {
	return nil
}

type stubTaskStatsStore struct{}

func (stubTaskStatsStore) GetTasksByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	return nil, nil
}

func (stubTaskStatsStore) GetTasksByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	return nil, nil
}

func authedRequest(t *testing.T, method, target string, userID primitive.ObjectID) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	claims := &jwtutil.Claims{UserID: userID.Hex(), Email: "tesla@tesla.dk"}
	return req.WithContext(middleware.ContextWithUser(req.Context(), claims))
}

func TestGetActivitiesHandler(t *testing.T) {
	userID := primitive.NewObjectID()
	store := &stubActivityStore{activities: []models.Activity{
		{
			ID:          primitive.NewObjectID(),
			UserID:      userID,
			SubjectType: models.KindTask,
			SubjectID:   primitive.NewObjectID(),
			Description: "completed_task",
			CreatedAt:   time.Now(),
		},
		{
			ID:          primitive.NewObjectID(),
			UserID:      primitive.NewObjectID(),
			SubjectType: models.KindTask,
			SubjectID:   primitive.NewObjectID(),
			Description: "created_task",
			CreatedAt:   time.Now(),
		},
	}}
	handler := NewActivityHandler(services.NewActivityService(store, stubTaskStatsStore{}))

	rec := httptest.NewRecorder()
	handler.GetActivitiesHandler(rec, authedRequest(t, http.MethodGet, "/activities", userID))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []struct {
			Description     string `json:"description"`
			EchoDescription string `json:"echo_description"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	// Only the acting user's activity comes back.
	require.Len(t, body.Data, 1)
	assert.Equal(t, "completed_task", body.Data[0].Description)
	assert.Equal(t, "Completed Task", body.Data[0].EchoDescription)
}

func TestGetActivitiesHandlerUnauthorized(t *testing.T) {
	handler := NewActivityHandler(services.NewActivityService(&stubActivityStore{}, stubTaskStatsStore{}))

	rec := httptest.NewRecorder()
	handler.GetActivitiesHandler(rec, httptest.NewRequest(http.MethodGet, "/activities", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetFeedHandlerGroupsByDay(t *testing.T) {
	userID := primitive.NewObjectID()
	today := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	store := &stubActivityStore{activities: []models.Activity{
		{
			ID: primitive.NewObjectID(), UserID: userID,
			SubjectType: models.KindTask, SubjectID: primitive.NewObjectID(),
			Description: "created_task", CreatedAt: today,
		},
		{
			ID: primitive.NewObjectID(), UserID: userID,
			SubjectType: models.KindTask, SubjectID: primitive.NewObjectID(),
			Description: "billed_task", CreatedAt: today.AddDate(0, 0, -1),
		},
	}}
	handler := NewActivityHandler(services.NewActivityService(store, stubTaskStatsStore{}))

	rec := httptest.NewRecorder()
	handler.GetFeedHandler(rec, authedRequest(t, http.MethodGet, "/feed", userID))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []struct {
			Date       string `json:"date"`
			Activities []struct {
				Description string `json:"description"`
			} `json:"activities"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	require.Len(t, body.Data, 2)
	assert.Equal(t, "2026-08-28", body.Data[0].Date)
	assert.Equal(t, "2026-08-27", body.Data[1].Date)
	require.Len(t, body.Data[0].Activities, 1)
	assert.Equal(t, "created_task", body.Data[0].Activities[0].Description)
}
