package models

// ClockRequest is the body of POST /api/time-tracking/clock.
type ClockRequest struct {
	StaffID string `json:"staffId" binding:"required"`
	Action  Action `json:"action" binding:"required"`
}

// ClockResponse is returned by the clock endpoint.
type ClockResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// StatusResponse is returned by the status endpoint.
type StatusResponse struct {
	Success bool   `json:"success"`
	Action  Action `json:"action,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ManualEntryRequest lets admins record an entry with an explicit date and time.
type ManualEntryRequest struct {
	StaffID string `json:"staffId" binding:"required"`
	Action  Action `json:"action" binding:"required"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// UpdateEntryRequest overwrites selected fields of an entry. Time is "HH:MM"
// applied to Date (or the entry's current date).
type UpdateEntryRequest struct {
	StaffID string `json:"staffId"`
	Action  Action `json:"action"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// AddStaffRequest creates or replaces a staff member.
type AddStaffRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required"`
}

// StoreStatus reports store configuration and reachability.
type StoreStatus struct {
	Env struct {
		HasURI      bool `json:"hasUri"`
		HasDatabase bool `json:"hasDatabase"`
	} `json:"env"`
	Store struct {
		Reachable bool   `json:"reachable"`
		Error     string `json:"error,omitempty"`
	} `json:"store"`
	LastAction Action `json:"lastAction,omitempty"`
}
