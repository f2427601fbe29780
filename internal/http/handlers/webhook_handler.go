// Webhook HTTP handler.
//
// This file exposes the single inbound transport endpoint:
//   - POST /bot/webhook/{token}   (receive one bot API update)
//
// The handler is transport-thin: it authenticates the path token, decodes the
// update envelope into an engine message, and hands it to the routing engine.
// Processing outcomes (drops, dispatch failures) are deliberately not exposed
// in the response; the bot API only needs a 200 to stop redelivering.
package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suggestbot/go-suggest-backend/internal/domain"
	"github.com/suggestbot/go-suggest-backend/internal/engine"
)

// UpdateRequest mirrors the bot API update envelope, reduced to the fields the
// engine consumes.
type UpdateRequest struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		From *struct {
			ID        int64  `json:"id"`
			Username  string `json:"username"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		} `json:"from"`
		Chat *struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}

// Webhook godoc
// @ID          webhook
// @Summary     Receive a bot API update
// @Description Authenticates the webhook token and routes the contained message
// @Description through the moderation pipeline. Updates without a text message
// @Description are acknowledged and ignored.
// @Tags        Webhook
// @Accept      json
// @Produce     json
//
// @Param       token  path  string  true  "Bot token configured at setup"
// @Param       body   body  handlers.UpdateRequest  true  "Bot API update"
//
// @Success     200  {object}  map[string]bool        "Update accepted"
// @Failure     400  {object}  handlers.ErrorResponse "Malformed update"
// @Failure     401  {object}  handlers.ErrorResponse "Token mismatch"
// @Router      /bot/webhook/{token} [post]
func (h *Handlers) Webhook(c *gin.Context) {
	token := c.Param("token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.botToken)) != 1 {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid webhook token")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "malformed update payload")
		return
	}

	// Edits, joins, stickers and other non-text updates carry no routable
	// content. Acknowledge so the bot API does not retry.
	if req.Message == nil || req.Message.From == nil || req.Message.Text == "" {
		ok(c, http.StatusOK, gin.H{"ok": true})
		return
	}

	from := req.Message.From
	display := from.FirstName
	if from.LastName != "" {
		if display != "" {
			display += " "
		}
		display += from.LastName
	}

	h.eng.Handle(c.Request.Context(), engine.Message{
		Sender: domain.Identity{
			NumericID:   from.ID,
			Handle:      from.Username,
			DisplayName: display,
		},
		Text: req.Message.Text,
	})

	ok(c, http.StatusOK, gin.H{"ok": true})
}
