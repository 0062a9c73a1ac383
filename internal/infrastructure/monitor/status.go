package monitor

import "time"

type Status struct {
	Storage    bool              `json:"storage"`
	Components []ComponentStatus `json:"components"`
	LastCheck  time.Time         `json:"last_check"`
}

type ComponentStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}
