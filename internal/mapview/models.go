package mapview

// Activity is a trip sub-entry with its own pin. Coord is nil when the
// activity has no usable coordinate and must never reach the map.
type Activity struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Coord       *LatLng `json:"coord"`
}

// Lodging is a trip sub-entry; its coordinate is optional.
type Lodging struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Address     string  `json:"address"`
	Coord       *LatLng `json:"coord"`
}

// Trip is the map-facing projection of a trip post. Callers must filter out
// trips without a valid coordinate before handing them to this package.
type Trip struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Thumbnail  string     `json:"thumbnail"`
	Author     string     `json:"author"`
	Date       string     `json:"date"`
	At         LatLng     `json:"at"`
	Activities []Activity `json:"activities"`
	Lodgings   []Lodging  `json:"lodgings"`
}

// Selection is the ephemeral focus state owned by the screen and passed into
// every reconciliation pass. FullScreen supersedes Trip; Activity and Lodging
// are mutually exclusive.
type Selection struct {
	Trip       *Trip
	FullScreen *Trip
	Activity   *Activity
	Lodging    *Lodging
}

// Focused returns the trip whose details are currently in view, if any.
func (s Selection) Focused() *Trip {
	if s.FullScreen != nil {
		return s.FullScreen
	}
	return s.Trip
}

// Empty reports whether nothing is selected at all.
func (s Selection) Empty() bool {
	return s.Trip == nil && s.FullScreen == nil && s.Activity == nil && s.Lodging == nil
}

// SelectTrip puts the trip in sidebar focus, leaving full-screen mode and
// dropping any detail selection. A nil trip clears everything.
func (s *Selection) SelectTrip(t *Trip) {
	s.Trip = t
	s.FullScreen = nil
	s.Activity = nil
	s.Lodging = nil
}

// EnterFullScreen switches to full-screen mode for the trip.
func (s *Selection) EnterFullScreen(t *Trip) {
	s.FullScreen = t
	s.Trip = nil
	s.Activity = nil
	s.Lodging = nil
}

// ExitFullScreen returns from full-screen mode to the sidebar view of the
// same trip.
func (s *Selection) ExitFullScreen() {
	s.Trip = s.FullScreen
	s.FullScreen = nil
	s.Activity = nil
	s.Lodging = nil
}

// SelectActivity focuses one activity, clearing any lodging selection.
func (s *Selection) SelectActivity(a *Activity) {
	s.Activity = a
	if a != nil {
		s.Lodging = nil
	}
}

// SelectLodging focuses one lodging, clearing any activity selection.
func (s *Selection) SelectLodging(l *Lodging) {
	s.Lodging = l
	if l != nil {
		s.Activity = nil
	}
}
