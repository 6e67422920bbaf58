package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// TelegramService handles sending notifications to Telegram.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// EnquiryNotification contains enquiry data for the admin feed.
type EnquiryNotification struct {
	EnquiryID     string
	ItemName      string
	BrandName     string
	ListedPrice   float64
	OfferedPrice  float64
	OwnerName     string
	EnquirerName  string
	EnquirerEmail string
}

// NotifyNewEnquiry sends notification about a new enquiry to the admin chat.
func (s *TelegramService) NotifyNewEnquiry(n EnquiryNotification) error {
	if s.adminChatID == "" {
		return nil
	}

	text := fmt.Sprintf(
		"<b>New enquiry</b>\n%s %s\nListed: %.2f, offered: %.2f\nOwner: %s\nFrom: %s (%s)\nID: %s",
		n.BrandName,
		n.ItemName,
		n.ListedPrice,
		n.OfferedPrice,
		n.OwnerName,
		n.EnquirerName,
		n.EnquirerEmail,
		n.EnquiryID,
	)

	return s.SendMessage(s.adminChatID, text)
}
