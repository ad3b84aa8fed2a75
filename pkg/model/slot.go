package model

// TimeSlot is a computed candidate start time. Never persisted;
// produced fresh on every availability request.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	StaffID   string `json:"staff_id,omitempty"`
}

// Availability is the full answer for one tenant/service/date.
type Availability struct {
	TenantID       string     `json:"tenant_id"`
	ServiceID      string     `json:"service_id"`
	Date           string     `json:"date"`
	Slots          []TimeSlot `json:"slots"`
	AvailableCount int        `json:"available_count"`
	TotalCount     int        `json:"total_count"`
}
