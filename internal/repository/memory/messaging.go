package memory

import (
	"context"
	"sort"

	"github.com/godlywomen/community-api/internal/domain"
	"github.com/godlywomen/community-api/internal/repository"
)

type conversationRepo struct{ s *Store }

func (r *conversationRepo) FindOrCreate(_ context.Context, participants [2]string) (*domain.Conversation, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, conv := range r.s.conversations {
		if conv.Participants == participants {
			out := *conv
			return &out, false, nil
		}
	}
	for _, id := range participants {
		if _, ok := r.s.users[id]; !ok {
			return nil, false, repository.ErrNotFound
		}
	}
	now := r.s.now()
	conv := &domain.Conversation{
		ID:           r.s.newID(),
		Participants: participants,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.conversations[conv.ID] = conv
	out := *conv
	return &out, true, nil
}

func (r *conversationRepo) GetByID(_ context.Context, id string) (*domain.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	conv, ok := r.s.conversations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *conv
	return &out, nil
}

func (r *conversationRepo) ListForUser(_ context.Context, userID string, limit, offset int) ([]domain.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return window(r.forUser(userID), limit, offset), nil
}

func (r *conversationRepo) CountForUser(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.forUser(userID)), nil
}

// forUser returns the user's conversations, most recently active first.
func (r *conversationRepo) forUser(userID string) []domain.Conversation {
	var out []domain.Conversation
	for _, conv := range r.s.conversations {
		if conv.HasParticipant(userID) {
			out = append(out, *conv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return r.s.order[out[i].ID] > r.s.order[out[j].ID]
	})
	return out
}

type messageRepo struct{ s *Store }

func (r *messageRepo) Create(_ context.Context, message *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	conv, ok := r.s.conversations[message.ConversationID]
	if !ok {
		return repository.ErrNotFound
	}
	message.ID = r.s.newID()
	message.IsRead = false
	message.CreatedAt = r.s.now()
	stored := *message
	r.s.messages[message.ID] = &stored
	conv.UpdatedAt = message.CreatedAt
	return nil
}

func (r *messageRepo) GetByID(_ context.Context, id string) (*domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	msg, ok := r.s.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *msg
	return &out, nil
}

func (r *messageRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.messages[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.messages, id)
	return nil
}

func (r *messageRepo) ListByConversation(_ context.Context, conversationID string, limit, offset int) ([]domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return window(r.inConversation(conversationID), limit, offset), nil
}

func (r *messageRepo) CountByConversation(_ context.Context, conversationID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.inConversation(conversationID)), nil
}

func (r *messageRepo) MarkRead(_ context.Context, conversationID, readerID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	changed := 0
	for _, msg := range r.s.messages {
		if msg.ConversationID == conversationID && msg.SenderID != readerID && !msg.IsRead {
			msg.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func (r *messageRepo) CountUnread(_ context.Context, conversationID, readerID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := 0
	for _, msg := range r.s.messages {
		if msg.ConversationID == conversationID && msg.SenderID != readerID && !msg.IsRead {
			total++
		}
	}
	return total, nil
}

// inConversation returns the conversation's messages, oldest first.
func (r *messageRepo) inConversation(conversationID string) []domain.Message {
	var out []domain.Message
	for _, msg := range r.s.messages {
		if msg.ConversationID == conversationID {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.s.order[out[i].ID] < r.s.order[out[j].ID] })
	return out
}
