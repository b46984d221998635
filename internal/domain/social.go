package domain

import "time"

// Follow is a directed edge from follower to followed.
type Follow struct {
	FollowerID string    `json:"follower_id"`
	FollowedID string    `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// FollowCounts summarizes a user's follow graph.
type FollowCounts struct {
	FollowedBy int `json:"followed_by"`
	Following  int `json:"following"`
}

// EntryCounts is a user's review count per media type.
type EntryCounts struct {
	Movies int `json:"movies"`
	Books  int `json:"books"`
	TV     int `json:"tv"`
}
