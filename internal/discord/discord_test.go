package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmbedPostsMessage(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload messagePayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id": "1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bot-token", nil)
	embed := Embed{Title: "🐙 크라켄", Color: 0xe74c3c, Footer: &EmbedFooter{Text: "NA · Archeage Event Alert"}}

	err := c.SendEmbed(context.Background(), "111222", "<@&333>", "333", embed)
	require.NoError(t, err)

	assert.Equal(t, "/channels/111222/messages", gotPath)
	assert.Equal(t, "Bot bot-token", gotAuth)
	assert.Equal(t, "<@&333>", gotPayload.Content)
	require.Len(t, gotPayload.Embeds, 1)
	assert.Equal(t, "🐙 크라켄", gotPayload.Embeds[0].Title)
	require.NotNil(t, gotPayload.AllowedMentions)
	assert.Equal(t, []string{"333"}, gotPayload.AllowedMentions.Roles)
}

func TestSendEmbedNoMentionOmitsAllowedMentions(t *testing.T) {
	var gotPayload messagePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bot-token", nil)
	require.NoError(t, c.SendEmbed(context.Background(), "111", "", "", Embed{Title: "t"}))
	assert.Nil(t, gotPayload.AllowedMentions)
}

func TestSendEmbedEmptyChannelIsError(t *testing.T) {
	c := NewClient("http://unreachable.invalid", "bot-token", nil)
	err := c.SendEmbed(context.Background(), "", "", "", Embed{})
	assert.Error(t, err)
}

func TestSendEmbedAPIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "Missing Access", "code": 50001}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bot-token", nil)
	err := c.SendEmbed(context.Background(), "111", "", "", Embed{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "Missing Access")
}
