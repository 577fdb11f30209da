package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/repository"
	apperrors "github.com/godlywomen/community-api/pkg/util"
)

// MessagingService manages private two-party conversations.
type MessagingService struct {
	users         repository.UserRepository
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	logger        *zap.Logger
}

// MessagingDependencies bundles collaborators for the messaging service.
type MessagingDependencies struct {
	UserRepo         repository.UserRepository
	ConversationRepo repository.ConversationRepository
	MessageRepo      repository.MessageRepository
	Logger           *zap.Logger
}

// ConversationSummary is a conversation with the caller's unread count.
type ConversationSummary struct {
	Conversation domain.Conversation
	UnreadCount  int
}

// NewMessagingService constructs the service.
func NewMessagingService(deps MessagingDependencies) *MessagingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessagingService{
		users:         deps.UserRepo,
		conversations: deps.ConversationRepo,
		messages:      deps.MessageRepo,
		logger:        logger,
	}
}

// ListConversations returns the caller's conversations, most recently
// active first.
func (s *MessagingService) ListConversations(ctx context.Context, userID string, page PageRequest) (Paged[ConversationSummary], error) {
	page = page.Normalize()
	convs, err := s.conversations.ListForUser(ctx, userID, page.Limit, page.Offset())
	if err != nil {
		return Paged[ConversationSummary]{}, err
	}
	total, err := s.conversations.CountForUser(ctx, userID)
	if err != nil {
		return Paged[ConversationSummary]{}, err
	}

	items := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		unread, err := s.messages.CountUnread(ctx, conv.ID, userID)
		if err != nil {
			return Paged[ConversationSummary]{}, err
		}
		items = append(items, ConversationSummary{Conversation: conv, UnreadCount: unread})
	}
	return newPaged(items, page, total), nil
}

// StartConversation returns the conversation between the caller and
// participantID, creating it on first contact. The bool reports creation.
func (s *MessagingService) StartConversation(ctx context.Context, userID, participantID string) (*domain.Conversation, bool, error) {
	participantID = strings.TrimSpace(participantID)
	switch {
	case participantID == "":
		return nil, false, apperrors.NewValidationError("participant required", map[string]any{"participant_id": "required"})
	case participantID == userID:
		return nil, false, apperrors.NewValidationError("cannot start a conversation with yourself", map[string]any{"participant_id": participantID})
	}
	if _, err := s.users.GetByID(ctx, participantID); err != nil {
		return nil, false, mapRepoError(err, "user")
	}

	conv, created, err := s.conversations.FindOrCreate(ctx, domain.NewParticipants(userID, participantID))
	if err != nil {
		return nil, false, mapRepoError(err, "user")
	}
	if created {
		s.logger.Info("conversation started",
			zap.String("conversation_id", conv.ID),
			zap.String("user_id", userID),
		)
	}
	return conv, created, nil
}

// GetConversation returns a conversation the caller takes part in, with the
// caller's unread count.
func (s *MessagingService) GetConversation(ctx context.Context, userID, id string) (*ConversationSummary, error) {
	conv, err := s.participantOf(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	unread, err := s.messages.CountUnread(ctx, conv.ID, userID)
	if err != nil {
		return nil, err
	}
	return &ConversationSummary{Conversation: *conv, UnreadCount: unread}, nil
}

// ListMessages returns one page of a conversation, oldest message first.
func (s *MessagingService) ListMessages(ctx context.Context, userID, conversationID string, page PageRequest) (Paged[domain.Message], error) {
	if strings.TrimSpace(conversationID) == "" {
		return Paged[domain.Message]{}, apperrors.NewValidationError("conversation required", map[string]any{"conversation_id": "required"})
	}
	if _, err := s.participantOf(ctx, userID, conversationID); err != nil {
		return Paged[domain.Message]{}, err
	}
	page = page.Normalize()
	items, err := s.messages.ListByConversation(ctx, conversationID, page.Limit, page.Offset())
	if err != nil {
		return Paged[domain.Message]{}, err
	}
	total, err := s.messages.CountByConversation(ctx, conversationID)
	if err != nil {
		return Paged[domain.Message]{}, err
	}
	return newPaged(items, page, total), nil
}

// SendMessage appends a message from the caller to a conversation.
func (s *MessagingService) SendMessage(ctx context.Context, userID, conversationID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	details := map[string]any{}
	if strings.TrimSpace(conversationID) == "" {
		details["conversation_id"] = "required"
	}
	if content == "" {
		details["content"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid message", details)
	}
	if _, err := s.participantOf(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	message := &domain.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        content,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, mapRepoError(err, "conversation")
	}
	return message, nil
}

// DeleteMessage removes a message. Only its sender may delete it.
func (s *MessagingService) DeleteMessage(ctx context.Context, userID, id string) error {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "message")
	}
	if err := requireOwner(message.SenderID, userID, "message"); err != nil {
		return err
	}
	return mapRepoError(s.messages.Delete(ctx, id), "message")
}

// MarkRead flags every message the other participant sent as read and
// returns how many changed.
func (s *MessagingService) MarkRead(ctx context.Context, userID, conversationID string) (int, error) {
	if _, err := s.participantOf(ctx, userID, conversationID); err != nil {
		return 0, err
	}
	return s.messages.MarkRead(ctx, conversationID, userID)
}

func (s *MessagingService) participantOf(ctx context.Context, userID, conversationID string) (*domain.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, mapRepoError(err, "conversation")
	}
	if !conv.HasParticipant(userID) {
		return nil, apperrors.NewForbidden("not a participant in this conversation")
	}
	return conv, nil
}
