package domain

// Identity is the snapshot of an authenticated account held in a session.
// It is frozen at signin time and does not track later account changes.
type Identity struct {
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	RegionCode int    `json:"region_code"`
}
