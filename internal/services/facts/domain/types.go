// Package domain defines the stored facts and the store ports
package domain

import "time"

// Upload is the per-user metadata written with every committed upload
type Upload struct {
	UserID        string     `json:"user_id"`
	Events        int        `json:"events"`
	Conversations int        `json:"conversations"`
	FirstChats    int        `json:"first_chats"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	UploadedAt    time.Time  `json:"uploaded_at"`
}
