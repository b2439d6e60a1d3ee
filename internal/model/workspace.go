package model

import "time"

type Workspace struct {
	ID        int64      `json:"id"`
	PublicID  string     `json:"public_id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}
