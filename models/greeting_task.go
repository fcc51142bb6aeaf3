package models

// GreetingTask is the durable deferred-delivery record for one bot greeting.
// The conditional insert keyed by matchId makes webhook redelivery a no-op,
// and the pending→sent transition is claimed inside the delivery transaction
// so at most one greeting ever lands in a thread.
type GreetingTask struct {
	MatchID   string `dynamodbav:"matchId" json:"matchId"` // ✅ Partition Key
	BotID     string `dynamodbav:"botId" json:"botId"`
	HumanID   string `dynamodbav:"humanId" json:"humanId"`
	State     string `dynamodbav:"state" json:"state"`         // pending, sent
	DeliverAt string `dynamodbav:"deliverAt" json:"deliverAt"` // RFC3339
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
	SentAt    string `dynamodbav:"sentAt,omitempty" json:"sentAt,omitempty"`
}

// GreetingTasksTable is the DynamoDB table name for scheduled bot greetings
const GreetingTasksTable = "GreetingTasks"
