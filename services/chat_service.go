package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"sparkd_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ChatService manages match message threads and the per-user summaries that
// mirror them. Every message append updates the summaries in the same
// transaction, so a thread and its projections never diverge.
type ChatService struct {
	Dynamo   *DynamoService
	Matches  *MatchService
	Notifier Notifier
}

// GetMessagesByMatchID fetches messages for a given matchId, newest first.
func (cs *ChatService) GetMessagesByMatchID(ctx context.Context, matchID string, limit int) ([]models.Message, error) {
	keyCondition := "matchId = :matchId"
	expressionValues := map[string]types.AttributeValue{
		":matchId": &types.AttributeValueMemberS{Value: matchID},
	}

	items, err := cs.Dynamo.QueryItems(ctx, models.MessagesTable, keyCondition, expressionValues, nil, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	// The sort key is messageId, so order by timestamp here.
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt > messages[j].CreatedAt
	})

	return messages, nil
}

// SendMessage appends a message from a match participant to the thread.
func (cs *ChatService) SendMessage(ctx context.Context, matchID, senderID, content string) (*models.Message, error) {
	if matchID == "" || senderID == "" || content == "" {
		return nil, ErrInvalidInput
	}

	match, err := cs.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.Terminal() || !match.HasParticipant(senderID) {
		return nil, ErrNotFound
	}

	message := models.Message{
		MatchID:   matchID,
		MessageID: uuid.NewString(),
		SenderID:  senderID,
		Content:   content,
		Kind:      models.MessageKindUser,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	items, err := cs.messageWriteItems(message, match.Participants)
	if err != nil {
		return nil, err
	}
	if err := cs.Dynamo.TransactWrite(ctx, items...); err != nil {
		return nil, err
	}

	if cs.Notifier != nil {
		cs.Notifier.NotifyMessage(message)
	}

	return &message, nil
}

// HasMessageFrom reports whether senderID has any message in the thread.
func (cs *ChatService) HasMessageFrom(ctx context.Context, matchID, senderID string) (bool, error) {
	messages, err := cs.GetMessagesByMatchID(ctx, matchID, 200)
	if err != nil {
		return false, err
	}
	for _, message := range messages {
		if message.SenderID == senderID {
			return true, nil
		}
	}
	return false, nil
}

// MarkMessagesAsRead flips the caller's received messages to read and zeroes
// their summary's unread counter.
func (cs *ChatService) MarkMessagesAsRead(ctx context.Context, matchID, uid string) error {
	if matchID == "" || uid == "" {
		return ErrInvalidInput
	}

	messages, err := cs.GetMessagesByMatchID(ctx, matchID, 200)
	if err != nil {
		return err
	}

	for _, message := range messages {
		if message.SenderID == uid || message.IsRead {
			continue
		}
		key := map[string]types.AttributeValue{
			"matchId":   &types.AttributeValueMemberS{Value: matchID},
			"messageId": &types.AttributeValueMemberS{Value: message.MessageID},
		}
		_, err := cs.Dynamo.UpdateItem(ctx, models.MessagesTable, key,
			"SET isRead = :read", "",
			map[string]types.AttributeValue{
				":read": &types.AttributeValueMemberBOOL{Value: true},
			}, nil)
		if err != nil {
			log.Printf("❌ Failed to mark message %s as read: %v", message.MessageID, err)
		}
	}

	summaryKey := map[string]types.AttributeValue{
		"userId":  &types.AttributeValueMemberS{Value: uid},
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	_, err = cs.Dynamo.UpdateItem(ctx, models.MatchSummariesTable, summaryKey,
		"SET unreadCount = :zero", "",
		map[string]types.AttributeValue{
			":zero": &types.AttributeValueMemberN{Value: "0"},
		}, nil)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to reset unread count: %w", err)
	}

	return nil
}

// messageWriteItems builds the transactional writes for one appended message:
// the message itself plus a summary update per participant, with the unread
// counter incremented only on the receiving sides.
func (cs *ChatService) messageWriteItems(message models.Message, participants []string) ([]types.TransactWriteItem, error) {
	messageItem, err := attributevalue.MarshalMap(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	messagesTable := models.MessagesTable
	items := []types.TransactWriteItem{{
		Put: &types.Put{
			TableName: &messagesTable,
			Item:      messageItem,
		},
	}}

	for _, uid := range participants {
		inc := "1"
		if uid == message.SenderID {
			inc = "0"
		}
		summariesTable := models.MatchSummariesTable
		update := "SET lastMessage = :msg, lastMessageAt = :at ADD unreadCount :inc"
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName: &summariesTable,
				Key: map[string]types.AttributeValue{
					"userId":  &types.AttributeValueMemberS{Value: uid},
					"matchId": &types.AttributeValueMemberS{Value: message.MatchID},
				},
				UpdateExpression: &update,
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":msg": &types.AttributeValueMemberS{Value: message.Content},
					":at":  &types.AttributeValueMemberS{Value: message.CreatedAt},
					":inc": &types.AttributeValueMemberN{Value: inc},
				},
			},
		})
	}

	return items, nil
}
