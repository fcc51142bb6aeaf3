package models

type Interaction struct {
	ActorID   string `dynamodbav:"actorId" json:"actorId"`   // ✅ Partition Key
	TargetID  string `dynamodbav:"targetId" json:"targetId"` // ✅ Sort Key
	Kind      string `dynamodbav:"kind" json:"kind"`         // like, dislike, superlike
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// InteractionsTable is the DynamoDB table name for swipe decisions. At most
// one item exists per (actorId, targetId); the insert is conditional on the
// key being absent.
const InteractionsTable = "Interactions"
