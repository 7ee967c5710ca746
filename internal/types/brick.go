package types

// ColorVariant is one color a brick was produced in. Code is the
// manufacturer's color code when known.
type ColorVariant struct {
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// SetAppearance records a set the brick is known to appear in.
type SetAppearance struct {
	SetID   string `json:"set_id,omitempty"`
	SetName string `json:"set_name,omitempty"`
	Year    int    `json:"year,omitempty"`
}

// Dimensions in millimetres.
type Dimensions struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}
