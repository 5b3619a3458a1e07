package models

import "time"

// Subscription is a directed edge: subscriber follows channel. Both sides are
// users; a "channel" is just a user looked at from the audience side.
type Subscription struct {
	ID           string
	SubscriberID string
	ChannelID    string
	CreatedAt    time.Time
}

// ChannelStats aggregates a channel's relationship sets for a given viewer.
type ChannelStats struct {
	Subscribers  int64 `json:"subscribersCount"`
	SubscribedTo int64 `json:"channelsSubscribedToCount"`
	IsSubscribed bool  `json:"isSubscribed"`
}

// ChannelProfile is the read model for GET /user-profile/:username.
type ChannelProfile struct {
	Profile
	ChannelStats
}
