package models

type Interaction struct {
	FromUserID string `dynamodbav:"fromUserId" json:"fromUserId"` // Partition Key
	ToUserID   string `dynamodbav:"toUserId" json:"toUserId"`     // Sort Key, also GSI partition
	State      string `dynamodbav:"state" json:"state"`           // LIKED, REJECTED
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt  string `dynamodbav:"updatedAt" json:"updatedAt"`
}

// InteractionsTable is the DynamoDB table name for directed interactions
const InteractionsTable = "Interactions"

// ToUserIndex is the GSI used for reverse-direction lookups (toUserId as partition)
const ToUserIndex = "toUserId-index"
