package model

// BusinessHours is one weekday row of a tenant's weekly schedule.
// Weekday follows time.Weekday numbering: 0=Sunday .. 6=Saturday.
type BusinessHours struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TenantID  string `json:"tenant_id" bson:"tenant_id" validate:"required,mongodb"`
	Weekday   int    `json:"day_of_week" bson:"day_of_week" validate:"min=0,max=6"`
	Open      bool   `json:"is_open" bson:"is_open"`
	OpenTime  string `json:"open_time" bson:"open_time" validate:"required,datetime=15:04"`
	CloseTime string `json:"close_time" bson:"close_time" validate:"required,datetime=15:04"`
}
