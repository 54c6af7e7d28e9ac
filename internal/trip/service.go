package trip

import (
	"context"
	"errors"
	"fmt"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/joeyShea/travel-map/internal/db"
)

var (
	ErrNotFound  = errors.New("trip not found")
	ErrForbidden = errors.New("not the trip owner")
)

// ValidationError marks client-caused input failures so handlers can map
// them to 400 instead of 500.
type ValidationError struct {
	msg string
}

func (e ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return ValidationError{msg: fmt.Sprintf(format, args...)}
}

var validVisibility = map[string]bool{"public": true, "private": true, "friends": true}
var validDuration = map[string]bool{"multiday trip": true, "day trip": true, "overnight trip": true}

// FeedTopic is the broadcast channel map sessions listen on for trip churn.
const FeedTopic = "feed"

// FeedPublisher fans trip lifecycle events out to live map sessions.
type FeedPublisher interface {
	Broadcast(topic string, payload []byte)
}

type Service struct {
	db   db.Querier
	feed FeedPublisher
}

func NewService(db db.Querier, feed FeedPublisher) *Service {
	return &Service{db: db, feed: feed}
}

const tripColumns = `t.id, t.title, t.description, t.thumbnail_url, t.latitude, t.longitude,
	       t.cost, t.duration, t.date, t.visibility, t.owner_user_id,
	       u.name, u.bio, u.verified, u.college, u.profile_image_url, t.created_at`

// ListTrips returns the trips the viewer may see: public posts plus their
// own. An empty viewerID lists public trips only.
func (s *Service) ListTrips(ctx context.Context, viewerID string) ([]Trip, error) {
	return s.queryTrips(ctx, `
		SELECT `+tripColumns+`
		FROM trips t
		JOIN travelers u ON u.id = t.owner_user_id
		WHERE t.visibility = 'public' OR t.owner_user_id = $1
		ORDER BY t.created_at DESC
	`, viewerID)
}

// ListUserTrips returns one user's trips, applying the same visibility rule.
func (s *Service) ListUserTrips(ctx context.Context, targetID, viewerID string) ([]Trip, error) {
	return s.queryTrips(ctx, `
		SELECT `+tripColumns+`
		FROM trips t
		JOIN travelers u ON u.id = t.owner_user_id
		WHERE t.owner_user_id = $1 AND (t.visibility = 'public' OR t.owner_user_id = $2)
		ORDER BY t.created_at DESC
	`, targetID, viewerID)
}

func (s *Service) GetTrip(ctx context.Context, id, viewerID string) (Trip, error) {
	trips, err := s.queryTrips(ctx, `
		SELECT `+tripColumns+`
		FROM trips t
		JOIN travelers u ON u.id = t.owner_user_id
		WHERE t.id = $1 AND (t.visibility = 'public' OR t.owner_user_id = $2)
	`, id, viewerID)
	if err != nil {
		return Trip{}, err
	}
	if len(trips) == 0 {
		return Trip{}, ErrNotFound
	}
	return trips[0], nil
}

func (s *Service) queryTrips(ctx context.Context, sql string, args ...any) ([]Trip, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		var t Trip
		var date *time.Time
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.ThumbnailURL, &t.Latitude, &t.Longitude,
			&t.Cost, &t.Duration, &date, &t.Visibility, &t.OwnerUserID,
			&t.Owner.Name, &t.Owner.Bio, &t.Owner.Verified, &t.Owner.College, &t.Owner.ProfileImageURL,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		t.Owner.UserID = t.OwnerUserID
		if date != nil {
			t.Date = date.Format("2006-01-02")
		}
		t.Tags = []string{}
		t.Lodgings = []Lodging{}
		t.Activities = []Activity{}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.hydrateChildren(ctx, trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// hydrateChildren batch-loads tags, lodgings and activities for the trips.
func (s *Service) hydrateChildren(ctx context.Context, trips []Trip) error {
	if len(trips) == 0 {
		return nil
	}

	ids := make([]string, len(trips))
	index := make(map[string]*Trip, len(trips))
	for i := range trips {
		ids[i] = trips[i].ID
		index[trips[i].ID] = &trips[i]
	}

	rows, err := s.db.Query(ctx, `
		SELECT trip_id, tag FROM trip_tags WHERE trip_id = ANY($1) ORDER BY tag
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var tripID, tag string
		if err := rows.Scan(&tripID, &tag); err != nil {
			rows.Close()
			return err
		}
		if t := index[tripID]; t != nil {
			t.Tags = append(t.Tags, tag)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.Query(ctx, `
		SELECT id, trip_id, title, description, address, latitude, longitude, thumbnail_url, cost, created_at
		FROM lodgings WHERE trip_id = ANY($1) ORDER BY created_at
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var l Lodging
		if err := rows.Scan(&l.ID, &l.TripID, &l.Title, &l.Description, &l.Address,
			&l.Latitude, &l.Longitude, &l.ThumbnailURL, &l.Cost, &l.CreatedAt); err != nil {
			rows.Close()
			return err
		}
		if t := index[l.TripID]; t != nil {
			t.Lodgings = append(t.Lodgings, l)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.Query(ctx, `
		SELECT id, trip_id, title, description, latitude, longitude, thumbnail_url, cost, created_at
		FROM activities WHERE trip_id = ANY($1) ORDER BY created_at
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.TripID, &a.Title, &a.Description,
			&a.Latitude, &a.Longitude, &a.ThumbnailURL, &a.Cost, &a.CreatedAt); err != nil {
			rows.Close()
			return err
		}
		if t := index[a.TripID]; t != nil {
			t.Activities = append(t.Activities, a)
		}
	}
	rows.Close()
	return rows.Err()
}

// CreateTripInput is the create payload; children are inserted with the trip.
type CreateTripInput struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	ThumbnailURL string          `json:"thumbnail_url"`
	Latitude     *float64        `json:"latitude"`
	Longitude    *float64        `json:"longitude"`
	Cost         *float64        `json:"cost"`
	Duration     string          `json:"duration"`
	Date         string          `json:"date"`
	Visibility   string          `json:"visibility"`
	Tags         []string        `json:"tags"`
	Lodgings     []LodgingInput  `json:"lodgings"`
	Activities   []ActivityInput `json:"activities"`
}

type LodgingInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Address      string   `json:"address"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Cost         *float64 `json:"cost"`
}

type ActivityInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Cost         *float64 `json:"cost"`
}

func (s *Service) CreateTrip(ctx context.Context, ownerID string, input CreateTripInput) (Trip, error) {
	if input.Title == "" {
		return Trip{}, validationf("title is required")
	}
	if err := validateCoordinate(input.Latitude, input.Longitude); err != nil {
		return Trip{}, err
	}
	visibility := input.Visibility
	if visibility == "" {
		visibility = "public"
	}
	if !validVisibility[visibility] {
		return Trip{}, validationf("visibility must be public, private or friends")
	}
	if input.Duration != "" && !validDuration[input.Duration] {
		return Trip{}, validationf("duration must be multiday trip, day trip or overnight trip")
	}
	var date *time.Time
	if input.Date != "" {
		parsed, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return Trip{}, validationf("date must be formatted YYYY-MM-DD")
		}
		date = &parsed
	}

	id := uuid.NewString()
	var createdAt time.Time
	row := s.db.QueryRow(ctx, `
		INSERT INTO trips (id, title, description, thumbnail_url, latitude, longitude, cost, duration, date, visibility, owner_user_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at
	`, id, input.Title, input.Description, input.ThumbnailURL, input.Latitude, input.Longitude,
		input.Cost, input.Duration, date, visibility, ownerID)
	if err := row.Scan(&createdAt); err != nil {
		return Trip{}, err
	}

	for _, tag := range input.Tags {
		if tag == "" {
			continue
		}
		if _, err := s.db.Exec(ctx, `
			INSERT INTO trip_tags (trip_id, tag) VALUES ($1,$2) ON CONFLICT DO NOTHING
		`, id, tag); err != nil {
			return Trip{}, err
		}
	}
	for _, l := range input.Lodgings {
		if _, err := s.insertLodging(ctx, id, l); err != nil {
			return Trip{}, err
		}
	}
	for _, a := range input.Activities {
		if _, err := s.insertActivity(ctx, id, a); err != nil {
			return Trip{}, err
		}
	}

	s.publish("trip_created", id)
	return s.GetTrip(ctx, id, ownerID)
}

func (s *Service) AddLodging(ctx context.Context, tripID, ownerID string, input LodgingInput) (Lodging, error) {
	if err := s.requireOwner(ctx, tripID, ownerID); err != nil {
		return Lodging{}, err
	}
	if input.Title == "" {
		return Lodging{}, validationf("title is required")
	}
	if err := validateCoordinate(input.Latitude, input.Longitude); err != nil {
		return Lodging{}, err
	}
	lodging, err := s.insertLodging(ctx, tripID, input)
	if err != nil {
		return Lodging{}, err
	}
	s.publish("trip_updated", tripID)
	return lodging, nil
}

func (s *Service) AddActivity(ctx context.Context, tripID, ownerID string, input ActivityInput) (Activity, error) {
	if err := s.requireOwner(ctx, tripID, ownerID); err != nil {
		return Activity{}, err
	}
	if input.Title == "" {
		return Activity{}, validationf("title is required")
	}
	if err := validateCoordinate(input.Latitude, input.Longitude); err != nil {
		return Activity{}, err
	}
	activity, err := s.insertActivity(ctx, tripID, input)
	if err != nil {
		return Activity{}, err
	}
	s.publish("trip_updated", tripID)
	return activity, nil
}

func (s *Service) DeleteTrip(ctx context.Context, tripID, ownerID string) error {
	if err := s.requireOwner(ctx, tripID, ownerID); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM trips WHERE id=$1`, tripID); err != nil {
		return err
	}
	s.publish("trip_deleted", tripID)
	return nil
}

func (s *Service) insertLodging(ctx context.Context, tripID string, input LodgingInput) (Lodging, error) {
	l := Lodging{
		ID:           uuid.NewString(),
		TripID:       tripID,
		Title:        input.Title,
		Description:  input.Description,
		Address:      input.Address,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		ThumbnailURL: input.ThumbnailURL,
		Cost:         input.Cost,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO lodgings (id, trip_id, title, description, address, latitude, longitude, thumbnail_url, cost)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at
	`, l.ID, l.TripID, l.Title, l.Description, l.Address, l.Latitude, l.Longitude, l.ThumbnailURL, l.Cost)
	if err := row.Scan(&l.CreatedAt); err != nil {
		return Lodging{}, err
	}
	return l, nil
}

func (s *Service) insertActivity(ctx context.Context, tripID string, input ActivityInput) (Activity, error) {
	a := Activity{
		ID:           uuid.NewString(),
		TripID:       tripID,
		Title:        input.Title,
		Description:  input.Description,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		ThumbnailURL: input.ThumbnailURL,
		Cost:         input.Cost,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO activities (id, trip_id, title, description, latitude, longitude, thumbnail_url, cost)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, a.ID, a.TripID, a.Title, a.Description, a.Latitude, a.Longitude, a.ThumbnailURL, a.Cost)
	if err := row.Scan(&a.CreatedAt); err != nil {
		return Activity{}, err
	}
	return a, nil
}

func (s *Service) requireOwner(ctx context.Context, tripID, userID string) error {
	var ownerID string
	err := s.db.QueryRow(ctx, `SELECT owner_user_id FROM trips WHERE id=$1`, tripID).Scan(&ownerID)
	if err != nil {
		return ErrNotFound
	}
	if ownerID != userID {
		return ErrForbidden
	}
	return nil
}

func (s *Service) publish(eventType, tripID string) {
	if s.feed == nil {
		return
	}
	payload, err := gojson.Marshal(map[string]string{"type": eventType, "trip_id": tripID})
	if err != nil {
		return
	}
	s.feed.Broadcast(FeedTopic, payload)
}

func validateCoordinate(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return validationf("latitude and longitude must be provided together")
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 {
		return validationf("latitude must be between -90 and 90")
	}
	if *lng < -180 || *lng > 180 {
		return validationf("longitude must be between -180 and 180")
	}
	return nil
}
