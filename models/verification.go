package models

// EmailVerification holds a single-use login-link token. One row per user;
// issuing a new token overwrites the previous one.
type EmailVerification struct {
	UserID    string `dynamodbav:"userId" json:"userId"` // Partition Key
	Token     string `dynamodbav:"token" json:"token"`   // GSI partition
	ExpiresAt string `dynamodbav:"expiresAt" json:"expiresAt"`
}

const EmailVerificationsTable = "EmailVerifications"

// TokenIndex is the GSI used to resolve a verification token back to its user
const TokenIndex = "token-index"
