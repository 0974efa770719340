package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	"go.uber.org/zap"

	"vinylscout/internal/models"
	"vinylscout/internal/repository"
)

const (
	defaultMinDealScore = 0.25
	defaultPollMinutes  = 30
)

const startText = "Welcome to Vinyl Scout!\n\n" +
	"I find underpriced vinyl, CD, and cassette deals on eBay " +
	"by comparing against Discogs median prices.\n\n" +
	"Commands:\n" +
	"/add_search <query> - Add a search\n" +
	"/my_searches - List your searches\n" +
	"/remove_search <id> - Remove a search\n" +
	"/set_threshold <value> - Set minimum deal score (0-1)\n" +
	"/help - Show this help"

const helpText = "Available commands:\n" +
	"/start - Welcome message\n" +
	"/add_search <query> - Add a saved search\n" +
	"/my_searches - List your saved searches\n" +
	"/remove_search <id> - Remove a search by ID\n" +
	"/set_threshold <value> - Set minimum deal score (0.0 to 1.0)\n" +
	"/help - Show this help"

// Sender is the slice of the Telegram API the command handlers need.
type Sender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// Bot serves the chat commands that manage saved searches.
type Bot struct {
	client *telego.Bot
	sender Sender
	store  repository.Repository
	logger *zap.Logger
}

func New(client *telego.Bot, store repository.Repository, logger *zap.Logger) *Bot {
	return &Bot{client: client, sender: client, store: store, logger: logger}
}

// Run consumes updates via long polling until ctx ends.
func (b *Bot) Run(ctx context.Context) error {
	updates, err := b.client.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}
	b.logger.Info("telegram bot started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update telego.Update) {
	msg := update.Message
	if msg == nil || !strings.HasPrefix(msg.Text, "/") {
		return
	}
	command, args := splitCommand(msg.Text)
	chatID := msg.Chat.ID

	var err error
	switch command {
	case "/start":
		err = b.reply(ctx, chatID, startText)
	case "/help":
		err = b.reply(ctx, chatID, helpText)
	case "/add_search":
		err = b.addSearch(ctx, chatID, args)
	case "/my_searches":
		err = b.mySearches(ctx, chatID)
	case "/remove_search":
		err = b.removeSearch(ctx, chatID, args)
	case "/set_threshold":
		err = b.setThreshold(ctx, chatID, args)
	default:
		return
	}
	if err != nil {
		b.logger.Error("command handling failed",
			zap.String("command", command),
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// splitCommand separates "/cmd@BotName rest of args" into command and args.
func splitCommand(text string) (string, string) {
	command, args, _ := strings.Cut(text, " ")
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}
	return command, strings.TrimSpace(args)
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) error {
	_, err := b.sender.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	return err
}

func (b *Bot) addSearch(ctx context.Context, chatID int64, args string) error {
	if args == "" {
		return b.reply(ctx, chatID, "Usage: /add_search <query>")
	}
	watch := &models.Watch{
		ChatID:       chatID,
		Query:        args,
		MinDealScore: defaultMinDealScore,
		PollMinutes:  defaultPollMinutes,
		Active:       true,
	}
	if err := b.store.CreateWatch(ctx, watch); err != nil {
		return err
	}
	return b.reply(ctx, chatID, fmt.Sprintf("Search added (ID: %d): %s", watch.ID, watch.Query))
}

func (b *Bot) mySearches(ctx context.Context, chatID int64) error {
	watches, err := b.store.ListWatchesByChat(ctx, chatID)
	if err != nil {
		return err
	}
	if len(watches) == 0 {
		return b.reply(ctx, chatID, "No saved searches.")
	}
	lines := make([]string, 0, len(watches))
	for _, w := range watches {
		status := "active"
		if !w.Active {
			status = "inactive"
		}
		lines = append(lines, fmt.Sprintf("[%d] %s (%s)", w.ID, w.Query, status))
	}
	return b.reply(ctx, chatID, strings.Join(lines, "\n"))
}

func (b *Bot) removeSearch(ctx context.Context, chatID int64, args string) error {
	if args == "" {
		return b.reply(ctx, chatID, "Usage: /remove_search <id>")
	}
	id, err := strconv.ParseUint(args, 10, 32)
	if err != nil {
		return b.reply(ctx, chatID, "Invalid search ID.")
	}
	if err := b.store.SetWatchActive(ctx, uint(id), false); err != nil {
		return err
	}
	return b.reply(ctx, chatID, fmt.Sprintf("Search %d removed.", id))
}

func (b *Bot) setThreshold(ctx context.Context, chatID int64, args string) error {
	if args == "" {
		return b.reply(ctx, chatID, "Usage: /set_threshold <value>")
	}
	value, err := strconv.ParseFloat(args, 64)
	if err != nil {
		return b.reply(ctx, chatID, "Invalid threshold value.")
	}
	if value < 0 || value > 1 {
		return b.reply(ctx, chatID, "Threshold must be between 0.0 and 1.0.")
	}
	if err := b.store.SetChatMinDealScore(ctx, chatID, value); err != nil {
		return err
	}
	return b.reply(ctx, chatID, fmt.Sprintf("Threshold set to %.2f for all your searches.", value))
}
