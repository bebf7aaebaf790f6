package models

// QualifiedSignal is a nearby user who cleared every stage of the
// signal funnel, including the compatibility threshold.
type QualifiedSignal struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL string  `json:"avatarUrl"`
	Score     float64 `json:"score"`
}
