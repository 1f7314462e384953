package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// feedPageSize bounds how many activities a single feed request pulls.
	feedPageSize = 50

	// statisticsWeeks caps how many week groups statistics return.
	statisticsWeeks = 10
)

// ActivityStore is the persistence abstraction for activity records.
// Queries return newest-first snapshots; a limit of 0 means no limit.
type ActivityStore interface {
	CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	GetUserActivities(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Activity, error)
	GetSubjectActivities(ctx context.Context, subjectType string, subjectID primitive.ObjectID, page, limit int64) ([]models.Activity, error)
	DeleteSubjectActivities(ctx context.Context, subjectType string, subjectID primitive.ObjectID) error
}

// TaskStatsStore provides the task queries behind entity statistics.
// Tasks come back newest-first by creation time, tombstoned rows excluded.
type TaskStatsStore interface {
	GetTasksByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
	GetTasksByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error)
}

// SubjectLookup resolves one subject kind to its current record. It
// returns an error when the subject no longer exists.
type SubjectLookup func(ctx context.Context, id primitive.ObjectID) (interface{}, error)

// ActivityService records lifecycle events and aggregates them into the
// feed and the weekly statistics.
type ActivityService struct {
	store    ActivityStore
	tasks    TaskStatsStore
	subjects map[string]SubjectLookup
	now      func() time.Time
}

func NewActivityService(store ActivityStore, tasks TaskStatsStore) *ActivityService {
	return &ActivityService{
		store:    store,
		tasks:    tasks,
		subjects: make(map[string]SubjectLookup),
		now:      time.Now,
	}
}

// RegisterSubject adds a kind to the subject dispatch table used when
// the feed resolves activity subjects.
func (s *ActivityService) RegisterSubject(kind string, lookup SubjectLookup) {
	s.subjects[kind] = lookup
}

// Record persists one activity for the given entity and event. A zero
// actor means the mutation was not made by an authenticated user and is
// deliberately not recorded. An entity without a resolvable owner is an
// invariant violation: no row is written and an error is returned.
// The diff is only attached to plain update events.
func (s *ActivityService) Record(ctx context.Context, entity models.Trackable, event string, actorID primitive.ObjectID, changes *models.ActivityChanges) (*models.Activity, error) {
	if actorID.IsZero() {
		return nil, nil
	}

	ownerID := entity.OwnerUserID()
	if ownerID.IsZero() {
		return nil, fmt.Errorf("cannot record %s activity: %s %s has no owning user",
			event, entity.KindName(), entity.TrackableID().Hex())
	}

	if event != models.EventUpdated {
		changes = nil
	}

	activity := &models.Activity{
		UserID:      ownerID,
		SubjectType: entity.KindName(),
		SubjectID:   entity.TrackableID(),
		Description: fmt.Sprintf("%s_%s", event, entity.KindName()),
		Changes:     changes,
		CreatedAt:   s.now(),
	}

	stored, err := s.store.CreateActivity(ctx, activity)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"subject_type": activity.SubjectType,
			"subject_id":   activity.SubjectID.Hex(),
			"description":  activity.Description,
		}).Error("Failed to record activity")
		return nil, err
	}
	return stored, nil
}

// DeleteForSubject removes every activity referencing the entity. It
// runs before a hard delete; a failure here aborts the hard delete so
// no activity can be left pointing at a gone subject.
func (s *ActivityService) DeleteForSubject(ctx context.Context, entity models.Trackable) error {
	if err := s.store.DeleteSubjectActivities(ctx, entity.KindName(), entity.TrackableID()); err != nil {
		return fmt.Errorf("failed to delete activities of %s %s: %v",
			entity.KindName(), entity.TrackableID().Hex(), err)
	}
	return nil
}

// FeedItem is an activity enriched for presentation. Subject is the
// resolved entity, nil when its kind is unregistered or it is gone.
type FeedItem struct {
	models.Activity
	EchoDescription string      `json:"echo_description"`
	Subject         interface{} `json:"subject,omitempty"`
}

// FeedGroup is one calendar day of a user's feed, newest day first.
type FeedGroup struct {
	Date       string     `json:"date"`
	Activities []FeedItem `json:"activities"`
}

// RecentActivities returns one flat newest-first page of a user's
// activities.
func (s *ActivityService) RecentActivities(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]FeedItem, error) {
	activities, err := s.store.GetUserActivities(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(activities))
	for _, activity := range activities {
		items = append(items, FeedItem{
			Activity:        activity,
			EchoDescription: activity.EchoDescription(),
		})
	}
	return items, nil
}

// SubjectActivities returns one newest-first page of the activities
// recorded for a single entity.
func (s *ActivityService) SubjectActivities(ctx context.Context, entity models.Trackable, page, limit int64) ([]FeedItem, error) {
	activities, err := s.store.GetSubjectActivities(ctx, entity.KindName(), entity.TrackableID(), page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(activities))
	for _, activity := range activities {
		items = append(items, FeedItem{
			Activity:        activity,
			EchoDescription: activity.EchoDescription(),
		})
	}
	return items, nil
}

// Feed groups the most recent activities of a user by calendar day.
// Days come newest first and so do the activities inside each day,
// which is the order the store already returns.
func (s *ActivityService) Feed(ctx context.Context, userID primitive.ObjectID) ([]FeedGroup, error) {
	activities, err := s.store.GetUserActivities(ctx, userID, 1, feedPageSize)
	if err != nil {
		return nil, err
	}

	groups := make([]FeedGroup, 0)
	for _, activity := range activities {
		item := FeedItem{
			Activity:        activity,
			EchoDescription: activity.EchoDescription(),
			Subject:         s.resolveSubject(ctx, activity),
		}

		date := activity.CreatedAt.Format("2006-01-02")
		if len(groups) == 0 || groups[len(groups)-1].Date != date {
			groups = append(groups, FeedGroup{Date: date})
		}
		last := len(groups) - 1
		groups[last].Activities = append(groups[last].Activities, item)
	}
	return groups, nil
}

func (s *ActivityService) resolveSubject(ctx context.Context, activity models.Activity) interface{} {
	lookup, ok := s.subjects[activity.SubjectType]
	if !ok {
		return nil
	}
	subject, err := lookup(ctx, activity.SubjectID)
	if err != nil {
		// The subject may have been hard-deleted since; the feed entry
		// still renders from the description alone.
		return nil
	}
	return subject
}

// WeekStatistics is one week of a user's activity, with per-description
// counts.
type WeekStatistics struct {
	Week   string         `json:"week"`
	Counts map[string]int `json:"counts"`
}

// Statistics groups all of a user's activities into ISO week buckets,
// newest week first, keeps the 10 most recent weeks that contain any
// activity and counts the descriptions inside each week. Weeks without
// activity are skipped, not zero-filled.
func (s *ActivityService) Statistics(ctx context.Context, userID primitive.ObjectID) ([]WeekStatistics, error) {
	activities, err := s.store.GetUserActivities(ctx, userID, 1, 0)
	if err != nil {
		return nil, err
	}

	weeks := make([]WeekStatistics, 0)
	index := make(map[string]int)
	for _, activity := range activities {
		key := weekKey(activity.CreatedAt)
		i, ok := index[key]
		if !ok {
			weeks = append(weeks, WeekStatistics{Week: key, Counts: make(map[string]int)})
			i = len(weeks) - 1
			index[key] = i
		}
		weeks[i].Counts[activity.Description]++
	}

	if len(weeks) > statisticsWeeks {
		weeks = weeks[:statisticsWeeks]
	}
	return weeks, nil
}

// WeekCount is one week bucket of a task statistics series.
type WeekCount struct {
	Week  string `json:"week"`
	Count int    `json:"count"`
}

// TaskStatistics holds the three weekly series computed over an
// entity's tasks: billed tasks bucketed by billing week, completed
// tasks by completion week and all tasks by creation week.
type TaskStatistics struct {
	BilledAt    []WeekCount `json:"billed_at"`
	CompletedAt []WeekCount `json:"completed_at"`
	CreatedAt   []WeekCount `json:"created_at"`
}

// ProjectStatistics computes the weekly task series for one project.
func (s *ActivityService) ProjectStatistics(ctx context.Context, projectID primitive.ObjectID) (*TaskStatistics, error) {
	tasks, err := s.tasks.GetTasksByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return taskStatistics(tasks), nil
}

// UserTaskStatistics computes the weekly task series across every task
// a user owns.
func (s *ActivityService) UserTaskStatistics(ctx context.Context, userID primitive.ObjectID) (*TaskStatistics, error) {
	tasks, err := s.tasks.GetTasksByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return taskStatistics(tasks), nil
}

func taskStatistics(tasks []models.Task) *TaskStatistics {
	return &TaskStatistics{
		BilledAt: weekCounts(tasks, func(t *models.Task) *time.Time {
			return t.BilledAt
		}),
		CompletedAt: weekCounts(tasks, func(t *models.Task) *time.Time {
			return t.CompletedAt
		}),
		CreatedAt: weekCounts(tasks, func(t *models.Task) *time.Time {
			return &t.CreatedAt
		}),
	}
}

// weekCounts buckets tasks by the week of the series timestamp, in the
// encounter order of the newest-first task list, capped at the 10 most
// recent non-empty weeks. Tasks without the timestamp are skipped.
func weekCounts(tasks []models.Task, timestamp func(*models.Task) *time.Time) []WeekCount {
	counts := make([]WeekCount, 0)
	index := make(map[string]int)
	for i := range tasks {
		ts := timestamp(&tasks[i])
		if ts == nil {
			continue
		}
		key := weekKey(*ts)
		j, ok := index[key]
		if !ok {
			counts = append(counts, WeekCount{Week: key})
			j = len(counts) - 1
			index[key] = j
		}
		counts[j].Count++
	}
	if len(counts) > statisticsWeeks {
		counts = counts[:statisticsWeeks]
	}
	return counts
}

// weekKey buckets a timestamp by ISO year and week, e.g. "2026-W35".
// Carrying the year keeps ordering correct across year boundaries where
// a bare week number would sort week 01 before week 52.
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
