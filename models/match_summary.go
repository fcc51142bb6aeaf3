package models

// MatchSummary is the per-user denormalized view of one match thread. It is
// written transactionally with the match or message mutation it reflects and
// never exists without its Match.
type MatchSummary struct {
	UserID        string `dynamodbav:"userId" json:"userId"`   // ✅ Partition Key
	MatchID       string `dynamodbav:"matchId" json:"matchId"` // ✅ Sort Key
	PartnerID     string `dynamodbav:"partnerId" json:"partnerId"`
	Status        string `dynamodbav:"status,omitempty" json:"status,omitempty"`
	LastMessage   string `dynamodbav:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastMessageAt string `dynamodbav:"lastMessageAt,omitempty" json:"lastMessageAt,omitempty"`
	UnreadCount   int    `dynamodbav:"unreadCount" json:"unreadCount"`
}

// MatchSummariesTable is the DynamoDB table name for per-user match summaries
const MatchSummariesTable = "MatchSummaries"
