package entity

import "time"

// Course is a bootcamp course owned by a publisher.
type Course struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	OwnerID      string    `json:"owner"`
	Weeks        int       `json:"weeks"`
	Tuition      float64   `json:"tuition"`
	MinimumSkill string    `json:"minimum_skill"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Review is a user's rating of a course, 1..10.
type Review struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course"`
	UserID    string    `json:"user"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
