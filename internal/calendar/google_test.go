package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/kavvi/landing-backend/internal/config"
)

func testClient() *Client {
	return NewClient(config.GoogleConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:8080/auth/google/callback",
	}, "vendas@kavvicrm.com.br")
}

func TestAuthURL(t *testing.T) {
	url := testClient().AuthURL("csrf-state")
	assert.Contains(t, url, "client_id=client-id")
	assert.Contains(t, url, "state=csrf-state")
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "calendar.events")
}

func TestAuthorized(t *testing.T) {
	c := testClient()
	assert.False(t, c.Authorized())

	c.SetToken(&oauth2.Token{AccessToken: "tok", Expiry: time.Now().Add(time.Hour)})
	assert.True(t, c.Authorized())
}

func TestCreateDemoEventRequiresToken(t *testing.T) {
	c := testClient()
	_, err := c.CreateDemoEvent(context.Background(),
		"Carlos Lima", "carlos@example.com", "+5511988887777", "Lima Corp",
		time.Now().Add(24*time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authorized")
}
