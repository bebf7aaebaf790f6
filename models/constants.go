package models

// Declared genders
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// Interaction states
const (
	InteractionLiked    = "LIKED"
	InteractionRejected = "REJECTED"
)

// Notification kinds surfaced by the notifications panel
const (
	NotificationResonance = "resonance" // someone liked you
	NotificationBloom     = "bloom"     // mutual like
)
