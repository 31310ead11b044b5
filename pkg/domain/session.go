package domain

// SessionOptions controls how the external desktop application is started or attached.
type SessionOptions struct {
	// Version is the desktop release to drive, e.g. "2023.1".
	Version string `json:"version" yaml:"version"`

	// NonGraphical starts the desktop without its GUI.
	NonGraphical bool `json:"non_graphical" yaml:"non_graphical"`

	// CloseOnExit releases the desktop when the workflow finishes.
	// When false the desktop (and any GUI attached to it) stays open.
	CloseOnExit bool `json:"close_on_exit" yaml:"close_on_exit"`
}

// ProjectRef identifies a saved project file and, optionally, the design inside it.
type ProjectRef struct {
	Path   string `json:"path" yaml:"path"`
	Design string `json:"design,omitempty" yaml:"design"`
}
