package config

// UIConfig holds terminal desk configuration.
type UIConfig struct {
	// Theme selects the glamour style for order details: light, dark, auto
	Theme string `json:"theme" yaml:"theme"`

	// WrapWidth caps detail rendering width (0 = follow the terminal)
	WrapWidth int `json:"wrap_width,omitempty" yaml:"wrap_width,omitempty"`

	// ShowContact enables the contact action in order details
	ShowContact bool `json:"show_contact" yaml:"show_contact"`
}
