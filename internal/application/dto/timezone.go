package dto

// TimezoneRequest is the DTO for setting a user's timezone.
type TimezoneRequest struct {
	Timezone string `json:"timezone"`
}

// TimezoneResponse is the DTO returned for a user's timezone.
type TimezoneResponse struct {
	UserID   int64  `json:"user_id"`
	Timezone string `json:"timezone"`
}
