package trip

import "time"

// Owner is the author snapshot embedded in every trip payload.
type Owner struct {
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	Bio             string `json:"bio"`
	Verified        bool   `json:"verified"`
	College         string `json:"college"`
	ProfileImageURL string `json:"profile_image_url"`
}

type Lodging struct {
	ID           string    `json:"id"`
	TripID       string    `json:"trip_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Address      string    `json:"address"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Cost         *float64  `json:"cost"`
	CreatedAt    time.Time `json:"created_at"`
}

type Activity struct {
	ID           string    `json:"id"`
	TripID       string    `json:"trip_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Cost         *float64  `json:"cost"`
	CreatedAt    time.Time `json:"created_at"`
}

// Trip is a travel post anchored to one coordinate, with its children
// embedded (they are never fetched independently).
type Trip struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	Cost         *float64   `json:"cost"`
	Duration     string     `json:"duration"`
	Date         string     `json:"date"`
	Visibility   string     `json:"visibility"`
	OwnerUserID  string     `json:"owner_user_id"`
	Owner        Owner      `json:"owner"`
	Tags         []string   `json:"tags"`
	Lodgings     []Lodging  `json:"lodgings"`
	Activities   []Activity `json:"activities"`
	CreatedAt    time.Time  `json:"created_at"`
}

// HasCoordinate reports whether the trip can appear on the map at all.
func (t Trip) HasCoordinate() bool {
	return t.Latitude != nil && t.Longitude != nil
}
