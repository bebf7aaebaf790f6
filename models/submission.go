package models

// OnboardingSubmission stores the questionnaire answers and the profile
// blurb generated from them.
type OnboardingSubmission struct {
	UserID     string   `dynamodbav:"userId" json:"userId"` // Partition Key
	RollNumber string   `dynamodbav:"rollNumber" json:"rollNumber"`
	Answers    []string `dynamodbav:"answers" json:"answers"`
	Poem       string   `dynamodbav:"poem,omitempty" json:"poem,omitempty"`
	UpdatedAt  string   `dynamodbav:"updatedAt" json:"updatedAt"`
}

const OnboardingSubmissionsTable = "OnboardingSubmissions"
