package entity

import "time"

// Follow edge lifecycle. An edge is created PENDING, moves to ACCEPTED in
// place, and is deleted outright on rejection or cancellation; there is no
// terminal REJECTED record.
const (
	FollowPending  = "PENDING"
	FollowAccepted = "ACCEPTED"
	FollowRejected = "REJECTED"
)

// FollowEdge is a directed follow relationship from ByID to ToID.
// At most one edge may exist per (ByID, ToID) pair.
type FollowEdge struct {
	ID        string    `json:"id"`
	ByID      string    `json:"by"`
	ToID      string    `json:"to"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// FollowRequest is a pending edge enriched with the requester's public
// profile, as returned to the receiving user.
type FollowRequest struct {
	Edge FollowEdge `json:"edge"`
	By   UserRef    `json:"by"`
}
