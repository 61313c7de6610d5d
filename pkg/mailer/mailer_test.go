package mailer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResendTestSender(t *testing.T, handler http.HandlerFunc) *ResendSender {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := resend.NewClient("re_test")
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL

	return NewResendSenderWithClient(client)
}

func TestResendSender_Send(t *testing.T) {
	sender := newResendTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "New Booking Request - Jane", body["subject"])
		assert.Equal(t, "jane@example.com", body["reply_to"])
		assert.Equal(t, []interface{}{"ops@example.com"}, body["to"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	})

	id, err := sender.Send(context.Background(), Message{
		From:    "onboarding@resend.dev",
		To:      []string{"ops@example.com"},
		ReplyTo: "jane@example.com",
		Subject: "New Booking Request - Jane",
		Text:    "text",
		HTML:    "<p>html</p>",
		Tags:    map[string]string{"service_type": "sedan"},
	})
	require.NoError(t, err)
	assert.Equal(t, "49a3999c-0ce1-4ea6-ab68-afcd6dc2e794", id)
}

func TestResendSender_ProviderError(t *testing.T) {
	sender := newResendTestSender(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from field"}`))
	})

	_, err := sender.Send(context.Background(), Message{From: "bad", To: []string{"ops@example.com"}, Subject: "s", Text: "t"})
	assert.Error(t, err)
}

func TestResendSender_NoRecipients(t *testing.T) {
	sender := NewResendSender("re_test")

	_, err := sender.Send(context.Background(), Message{Subject: "s"})
	assert.Error(t, err)
}

func TestToTags_Sorted(t *testing.T) {
	tags := toTags(map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, []resend.Tag{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}, tags)
	assert.Nil(t, toTags(nil))
}

func TestLogSender(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	var sender Sender = NewLogSender(logger)

	id, err := sender.Send(context.Background(), Message{Subject: "hello"})
	require.NoError(t, err)
	assert.Contains(t, id, "dev-")
}
