package sendgrid_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	sendgrid_client "github.com/aaravmahajanofficial/pos-inventory/pkg/sendgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	apiKey    = "SG.test-api-key"
	fromEmail = "reports@pos.local"
	fromName  = "POS Reports"
)

type sendgridV3Payload struct {
	Personalizations []struct {
		To      []map[string]string `json:"to"`
		Cc      []map[string]string `json:"cc,omitempty"`
		Subject string              `json:"subject"`
	} `json:"personalizations"`
	From    map[string]string `json:"from"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

// newTestService points a fresh client at a server that records the payload.
func newTestService(t *testing.T, status int, payload *sendgridV3Payload) sendgrid_client.EmailService {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer "+apiKey, r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, payload))

		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	service := sendgrid_client.NewEmailService(apiKey, fromEmail, fromName)
	service.GetSendGridClient().Request.BaseURL = server.URL

	return service
}

func TestEmailService_Send(t *testing.T) {
	t.Run("Success - Report with CC", func(t *testing.T) {
		// Arrange
		var payload sendgridV3Payload
		service := newTestService(t, http.StatusAccepted, &payload)

		// Act
		err := service.Send(t.Context(), &models.EmailMessage{
			To:          "owner@shop.test",
			CC:          []string{"accounts@shop.test"},
			Subject:     "Sales report 2025-01-01 to 2025-01-07",
			Content:     "Total sales: 120.00",
			HTMLContent: "<p>Total sales: 120.00</p>",
		})

		// Assert
		require.NoError(t, err)
		require.Len(t, payload.Personalizations, 1)
		pers := payload.Personalizations[0]
		assert.Equal(t, "owner@shop.test", pers.To[0]["email"])
		require.Len(t, pers.Cc, 1)
		assert.Equal(t, "accounts@shop.test", pers.Cc[0]["email"])
		assert.Equal(t, "Sales report 2025-01-01 to 2025-01-07", pers.Subject)
		assert.Equal(t, fromEmail, payload.From["email"])
		assert.Equal(t, fromName, payload.From["name"])
		require.Len(t, payload.Content, 2)
		assert.Equal(t, "text/plain", payload.Content[0].Type)
		assert.Equal(t, "text/html", payload.Content[1].Type)
	})

	t.Run("Success - Plain text only", func(t *testing.T) {
		var payload sendgridV3Payload
		service := newTestService(t, http.StatusAccepted, &payload)

		err := service.Send(t.Context(), &models.EmailMessage{To: "owner@shop.test", Subject: "s", Content: "body"})

		require.NoError(t, err)
		require.Len(t, payload.Content, 1)
		assert.Empty(t, payload.Personalizations[0].Cc)
	})

	t.Run("Failure - API error", func(t *testing.T) {
		var payload sendgridV3Payload
		service := newTestService(t, http.StatusBadRequest, &payload)

		err := service.Send(t.Context(), &models.EmailMessage{To: "bad@shop.test", Subject: "s", Content: "body"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status code: 400")
	})

	t.Run("Failure - Network error", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		service := sendgrid_client.NewEmailService(apiKey, fromEmail, fromName)
		service.GetSendGridClient().Request.BaseURL = server.URL
		server.Close()

		err := service.Send(t.Context(), &models.EmailMessage{To: "owner@shop.test", Subject: "s", Content: "body"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "sending email")
	})
}
