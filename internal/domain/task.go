package domain

import "time"

// MaxTaskLength is the longest task text accepted, in characters.
const MaxTaskLength = 255

// Task is a single to-do item. UserID is fixed at creation and never
// serialized; ownership is implied by the authenticated caller.
type Task struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	Text      string    `db:"task" json:"task"`
	Completed bool      `db:"completed" json:"completed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
