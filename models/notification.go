package models

// Notification is an entry in the notifications panel: a like received
// (resonance) or a mutual like (bloom), enriched with the sender's profile.
type Notification struct {
	Type       string `json:"type"` // resonance or bloom
	FromUserID string `json:"fromUserId"`
	Username   string `json:"username"`
	AvatarURL  string `json:"avatarUrl"`
	CreatedAt  string `json:"createdAt"`
}
