package models

type Message struct {
	MatchID   string `dynamodbav:"matchId" json:"matchId"`     // ✅ Partition Key
	MessageID string `dynamodbav:"messageId" json:"messageId"` // ✅ Sort Key
	SenderID  string `dynamodbav:"senderId" json:"senderId"`
	Content   string `dynamodbav:"content" json:"content"`
	Kind      string `dynamodbav:"kind" json:"kind"` // user, system
	IsRead    bool   `dynamodbav:"isRead" json:"isRead"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// MessagesTable is the DynamoDB table name for match message threads
const MessagesTable = "Messages"
