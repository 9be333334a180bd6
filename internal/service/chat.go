package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marqueelz_backend/internal/model"
	"marqueelz_backend/internal/textgen"

	"github.com/google/uuid"
)

// companionPersonality is prepended to every completion request so the
// companion keeps its voice across sessions.
const companionPersonality = `You are Marqueelz's loving AI companion. Your purpose is to:
1. Be sweet, caring, and supportive 💖
2. Remember past conversations to provide personalized support
3. Use cute emojis and maintain a warm, friendly tone
4. Help celebrate achievements and encourage daily login streaks
5. Keep responses concise but meaningful

Remember: You're not just an AI, you're a friend who cares about Marqueelz's happiness and well-being! 🌟`

const (
	chatContextWindow = 5
	chatTemperature   = 0.7
	chatMaxTokens     = 150
)

var ErrEmptyMessage = errors.New("message is empty")

type ChatService struct {
	repo      ChatRepository
	generator TextGenerator
	notifier  *Notifications
}

func NewChatService(repo ChatRepository, generator TextGenerator, notifier *Notifications) *ChatService {
	return &ChatService{
		repo:      repo,
		generator: generator,
		notifier:  notifier,
	}
}

// Send persists the user's message, asks the companion for a reply using
// the user's recent messages as context, and persists the reply. A failed
// completion leaves the user message stored; the transcript stays honest
// about what was said.
func (s *ChatService) Send(ctx context.Context, userID uuid.UUID, prompt string) (*model.ChatMessage, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyMessage
	}

	history, err := s.repo.GetRecentChatMessages(ctx, userID, chatContextWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat context: %w", err)
	}

	userMsg := &model.ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      model.ChatRoleUser,
		Content:   prompt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateChatMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	reply, err := s.generator.Complete(ctx, buildPrompt(history, prompt), textgen.Options{
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	aiMsg := &model.ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      model.ChatRoleCompanion,
		Content:   reply,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateChatMessage(ctx, aiMsg); err != nil {
		return nil, fmt.Errorf("failed to store reply: %w", err)
	}

	s.notifier.Publish(userID, Event{
		Type: "chat.reply",
		Payload: map[string]any{
			"id":      aiMsg.ID.String(),
			"content": aiMsg.Content,
		},
	})

	return aiMsg, nil
}

func (s *ChatService) History(ctx context.Context, userID uuid.UUID) ([]*model.ChatMessage, error) {
	return s.repo.GetChatHistory(ctx, userID)
}

func buildPrompt(history []*model.ChatMessage, prompt string) string {
	var b strings.Builder
	b.WriteString(companionPersonality)
	b.WriteString("\n\nPrevious conversation:\n")
	for _, msg := range history {
		speaker := "User"
		if msg.Role == model.ChatRoleCompanion {
			speaker = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, msg.Content)
	}
	b.WriteString("\nUser: ")
	b.WriteString(prompt)
	return b.String()
}
