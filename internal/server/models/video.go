package models

import "time"

type Video struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Title        string    `json:"title"`
	VideoURL     string    `json:"videoFile"`
	ThumbnailURL string    `json:"thumbnail"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
}

// WatchEntry is one row of a user's watch history: the watched video plus a
// projection of its owner.
type WatchEntry struct {
	Video     Video     `json:"video"`
	Owner     Profile   `json:"owner"`
	WatchedAt time.Time `json:"watchedAt"`
}
