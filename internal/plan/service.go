package plan

import (
	"context"

	"github.com/joeyShea/travel-map/internal/db"
)

// Plans is the authed user's saved entries, each carried with enough trip
// context to render the sidebar without extra lookups.
type Plans struct {
	SavedActivities []SavedActivity `json:"saved_activities"`
	SavedLodgings   []SavedLodging  `json:"saved_lodgings"`
}

type SavedActivity struct {
	ActivityID    string `json:"activity_id"`
	Title         string `json:"title"`
	TripID        string `json:"trip_id"`
	TripTitle     string `json:"trip_title"`
	TripThumbnail string `json:"trip_thumbnail"`
}

type SavedLodging struct {
	LodgingID     string `json:"lodging_id"`
	Title         string `json:"title"`
	TripID        string `json:"trip_id"`
	TripTitle     string `json:"trip_title"`
	TripThumbnail string `json:"trip_thumbnail"`
}

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) UserPlans(ctx context.Context, userID string) (Plans, error) {
	plans := Plans{SavedActivities: []SavedActivity{}, SavedLodgings: []SavedLodging{}}

	rows, err := s.db.Query(ctx, `
		SELECT sa.activity_id, a.title, t.id, t.title, t.thumbnail_url
		FROM saved_activities sa
		JOIN activities a ON a.id = sa.activity_id
		JOIN trips t ON t.id = a.trip_id
		WHERE sa.user_id = $1
		ORDER BY sa.created_at
	`, userID)
	if err != nil {
		return Plans{}, err
	}
	for rows.Next() {
		var e SavedActivity
		if err := rows.Scan(&e.ActivityID, &e.Title, &e.TripID, &e.TripTitle, &e.TripThumbnail); err != nil {
			rows.Close()
			return Plans{}, err
		}
		plans.SavedActivities = append(plans.SavedActivities, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Plans{}, err
	}

	rows, err = s.db.Query(ctx, `
		SELECT sl.lodging_id, l.title, t.id, t.title, t.thumbnail_url
		FROM saved_lodgings sl
		JOIN lodgings l ON l.id = sl.lodging_id
		JOIN trips t ON t.id = l.trip_id
		WHERE sl.user_id = $1
		ORDER BY sl.created_at
	`, userID)
	if err != nil {
		return Plans{}, err
	}
	for rows.Next() {
		var e SavedLodging
		if err := rows.Scan(&e.LodgingID, &e.Title, &e.TripID, &e.TripTitle, &e.TripThumbnail); err != nil {
			rows.Close()
			return Plans{}, err
		}
		plans.SavedLodgings = append(plans.SavedLodgings, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Plans{}, err
	}

	return plans, nil
}

// ToggleActivity saves the activity for the user, or unsaves it when it was
// already saved, and returns the refreshed plans.
func (s *Service) ToggleActivity(ctx context.Context, userID, activityID string) (Plans, error) {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM saved_activities WHERE user_id = $1 AND activity_id = $2
	`, userID, activityID)
	if err != nil {
		return Plans{}, err
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.db.Exec(ctx, `
			INSERT INTO saved_activities (user_id, activity_id) VALUES ($1,$2)
		`, userID, activityID); err != nil {
			return Plans{}, err
		}
	}
	return s.UserPlans(ctx, userID)
}

// ToggleLodging mirrors ToggleActivity for lodgings.
func (s *Service) ToggleLodging(ctx context.Context, userID, lodgingID string) (Plans, error) {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM saved_lodgings WHERE user_id = $1 AND lodging_id = $2
	`, userID, lodgingID)
	if err != nil {
		return Plans{}, err
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.db.Exec(ctx, `
			INSERT INTO saved_lodgings (user_id, lodging_id) VALUES ($1,$2)
		`, userID, lodgingID); err != nil {
			return Plans{}, err
		}
	}
	return s.UserPlans(ctx, userID)
}
