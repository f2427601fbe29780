package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// BotClient implements Sender against the Telegram-style Bot HTTP API
// (https://core.telegram.org/bots/api). Only the two methods the engine
// needs are implemented; connection handling is delegated to net/http.
type BotClient struct {
	// BaseURL of the Bot API, without trailing slash (e.g. "https://api.telegram.org").
	BaseURL string
	// Token is the bot credential; it becomes part of the request path.
	Token string
	// HTTP is the underlying client; a default with a 30s timeout is used when nil.
	HTTP *http.Client
}

// NewBotClient returns a BotClient for the given API base URL and token.
func NewBotClient(baseURL, token string) *BotClient {
	return &BotClient{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// apiResponse is the common Bot API envelope.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *BotClient) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *BotClient) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.BaseURL, c.Token, method)
}

// SendText posts a sendMessage call with a JSON body.
func (c *BotClient) SendText(ctx context.Context, chatID int64, text string) error {
	body, err := json.Marshal(map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "sendMessage")
}

// SendImage posts a sendPhoto call with a multipart file upload.
func (c *BotClient) SendImage(ctx context.Context, chatID int64, imagePath string) error {
	f, err := os.Open(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return err
	}
	part, err := w.CreateFormFile("photo", filepath.Base(imagePath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendPhoto"), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req, "sendPhoto")
}

// do executes the request and maps Bot API failures to errors.
func (c *BotClient) do(req *http.Request, method string) error {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	// The Bot API reports failures both via status and via the ok field.
	var env apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env); err != nil {
		return fmt.Errorf("%s: status %d: %w", method, resp.StatusCode, err)
	}
	if !env.OK {
		return fmt.Errorf("%s: status %d: %s", method, resp.StatusCode, env.Description)
	}
	return nil
}
