// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package telegram implements a minimal Telegram Bot API client and the
// update types this service cares about.
package telegram

import (
	"context"
	"net/http"
	"strings"

	"go.astrophena.name/tgcrm/internal/request"
	"go.astrophena.name/tgcrm/internal/tgmarkup"
)

// DefaultAPIURL is the production Telegram Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

// Client makes Telegram Bot API calls.
type Client struct {
	// Token is the Telegram Bot API token.
	Token string
	// APIURL is the Bot API endpoint. If empty, DefaultAPIURL is used.
	APIURL string
	// HTTPClient is an optional custom HTTP client object to use for requests.
	HTTPClient *http.Client
	// Scrubber is an optional strings.Replacer that scrubs unwanted data from
	// error messages.
	Scrubber *strings.Replacer
}

// SendMessageParams is the payload of a sendMessage Bot API call.
type SendMessageParams struct {
	ChatID int64 `json:"chat_id"`
	tgmarkup.Message
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// InlineKeyboardMarkup represents an inline keyboard attached to a message.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton is a single button of an inline keyboard.
type InlineKeyboardButton struct {
	Text   string      `json:"text"`
	URL    string      `json:"url,omitempty"`
	WebApp *WebAppInfo `json:"web_app,omitempty"`
}

// WebAppInfo describes a Mini App opened when the user presses the button.
type WebAppInfo struct {
	URL string `json:"url"`
}

// SendMessage sends a message on behalf of the bot.
func (c *Client) SendMessage(ctx context.Context, msg SendMessageParams) error {
	_, err := request.Make[request.IgnoreResponse](ctx, request.Params{
		Method:     http.MethodPost,
		URL:        c.apiURL() + "/bot" + c.Token + "/sendMessage",
		Body:       msg,
		HTTPClient: c.HTTPClient,
		Scrubber:   c.Scrubber,
	})
	return err
}

// SetWebhook points the bot's webhook at url. If secret is not empty,
// Telegram will send it back in the X-Telegram-Bot-Api-Secret-Token header
// of every webhook request.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	body := map[string]string{"url": url}
	if secret != "" {
		body["secret_token"] = secret
	}
	_, err := request.Make[request.IgnoreResponse](ctx, request.Params{
		Method:     http.MethodPost,
		URL:        c.apiURL() + "/bot" + c.Token + "/setWebhook",
		Body:       body,
		HTTPClient: c.HTTPClient,
		Scrubber:   c.Scrubber,
	})
	return err
}

func (c *Client) apiURL() string {
	if c.APIURL != "" {
		return c.APIURL
	}
	return DefaultAPIURL
}

// Update is an incoming webhook update, trimmed to the fields this service
// inspects. See https://core.telegram.org/bots/api#update.
type Update struct {
	Message       *Message       `json:"message"`
	EditedMessage *Message       `json:"edited_message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

// Message is a Telegram message. See https://core.telegram.org/bots/api#message.
type Message struct {
	Chat Chat   `json:"chat"`
	Text string `json:"text"`
}

// Chat is the conversation a message belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// CallbackQuery is an incoming callback query from an inline keyboard button.
type CallbackQuery struct {
	Message *Message `json:"message"`
}

// Msg returns the message carried by the update: the message itself, the
// edited message or the callback query's message, in that priority order.
// It returns nil if the update carries none.
func (u *Update) Msg() *Message {
	switch {
	case u.Message != nil:
		return u.Message
	case u.EditedMessage != nil:
		return u.EditedMessage
	case u.CallbackQuery != nil:
		return u.CallbackQuery.Message
	}
	return nil
}
