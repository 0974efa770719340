package alert

import (
	"context"

	"github.com/mymmrac/telego"
	"go.uber.org/zap"

	"vinylscout/internal/client/ebay"
	"vinylscout/internal/scorer"
)

// MessageSender is the slice of the Telegram bot API the notifier needs.
type MessageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// Notifier formats deals and delivers them to Telegram chats.
type Notifier struct {
	sender     MessageSender
	campaignID string
	logger     *zap.Logger
}

func NewNotifier(sender MessageSender, campaignID string, logger *zap.Logger) *Notifier {
	return &Notifier{sender: sender, campaignID: campaignID, logger: logger}
}

// Send delivers one deal alert to one chat.
func (n *Notifier) Send(ctx context.Context, chatID int64, deal *scorer.Deal) error {
	link := ebay.MakeAffiliateURL(deal.ItemWebURL, n.campaignID)
	_, err := n.sender.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      FormatDealMessage(deal, link),
		ParseMode: telego.ModeHTML,
	})
	if err != nil {
		return err
	}
	n.logger.Info("alert sent",
		zap.Int64("chat_id", chatID),
		zap.String("listing_id", deal.ListingID),
		zap.Float64("deal_score", deal.DealScore),
	)
	return nil
}
