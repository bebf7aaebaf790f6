package models

// User defines the structure for a campus account and its profile
type User struct {
	ID         string `dynamodbav:"userId" json:"id"`
	Email      string `dynamodbav:"email" json:"email"`
	RollNumber string `dynamodbav:"rollNumber" json:"rollNumber"`
	Username   string `dynamodbav:"username,omitempty" json:"username,omitempty"`
	AvatarURL  string `dynamodbav:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Gender     string `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	Bio        string `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Verified   bool   `dynamodbav:"verified" json:"verified"`
	CreatedAt  string `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// UsersTable is the DynamoDB table name for user records
const UsersTable = "Users"

// EmailIndex is the GSI used to look up a user by email
const EmailIndex = "email-index"
