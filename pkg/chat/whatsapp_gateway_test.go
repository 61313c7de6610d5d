package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppGateway_SendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/waInstance1101/sendMessage/secret-token", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body SendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "61412345678@c.us", body.ChatID)
		assert.Equal(t, "hello", body.Message)

		_, _ = w.Write([]byte(`{"idMessage":"3EB0C767D097B7C7C030"}`))
	}))
	defer server.Close()

	gateway := NewWhatsAppGateway(WhatsAppConfig{
		APIURL:     server.URL + "/",
		InstanceID: "1101",
		APIToken:   "secret-token",
	})

	id, err := gateway.SendMessage(context.Background(), "61412345678@c.us", "hello")
	require.NoError(t, err)
	assert.Equal(t, "3EB0C767D097B7C7C030", id)
}

func TestWhatsAppGateway_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"chatId is invalid"}`)
	}))
	defer server.Close()

	gateway := NewWhatsAppGateway(WhatsAppConfig{APIURL: server.URL, InstanceID: "1", APIToken: "t"})

	_, err := gateway.SendMessage(context.Background(), "bad", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "chatId is invalid")
}

func TestWhatsAppGateway_MissingMessageID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	gateway := NewWhatsAppGateway(WhatsAppConfig{APIURL: server.URL, InstanceID: "1", APIToken: "t"})

	_, err := gateway.SendMessage(context.Background(), "61412345678@c.us", "hello")
	assert.Error(t, err)
}

func TestWhatsAppGateway_ConnectionErrorHidesToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	gateway := NewWhatsAppGateway(WhatsAppConfig{APIURL: url, InstanceID: "1", APIToken: "very-secret"})

	_, err := gateway.SendMessage(context.Background(), "61412345678@c.us", "hello")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "very-secret")
}

func TestLogGateway(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	var gateway Gateway = NewLogGateway(logger)

	id, err := gateway.SendMessage(context.Background(), "61412345678@c.us", "hello")
	require.NoError(t, err)
	assert.Contains(t, id, "dev-")
	assert.NotEmpty(t, gateway.GetName())
}
