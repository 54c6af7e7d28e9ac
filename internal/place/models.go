package place

// Option is one selectable place in the trip composer. Label and Address
// carry the same normalized text; the client keeps both fields.
type Option struct {
	Label     string  `json:"label"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}
