package blog

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blogApp() *fiber.App {
	h := NewHandlers()
	app := fiber.New()
	app.Get("/blog", h.List)
	app.Get("/blog/:slug", h.Get)
	return app
}

func TestListPosts(t *testing.T) {
	app := blogApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/blog", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	posts := out["data"].(map[string]interface{})["posts"].([]interface{})
	assert.Equal(t, len(All()), len(posts))

	// Newest first.
	first := posts[0].(map[string]interface{})
	assert.Equal(t, "ebike-battery-health", first["slug"])
}

func TestListPosts_CategoryFilter(t *testing.T) {
	app := blogApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/blog?category=micromobility", nil))
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	posts := out["data"].(map[string]interface{})["posts"].([]interface{})
	require.NotEmpty(t, posts)
	for _, p := range posts {
		assert.Equal(t, "micromobility", p.(map[string]interface{})["category"])
	}
}

func TestGetPost(t *testing.T) {
	app := blogApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/blog/ev-range-anxiety-myths", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	post := out["data"].(map[string]interface{})["post"].(map[string]interface{})
	assert.Equal(t, "Five Range-Anxiety Myths, Debunked", post["title"])
}

func TestGetPost_NotFound(t *testing.T) {
	app := blogApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/blog/no-such-post", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestByCategory_AllSentinel(t *testing.T) {
	assert.Equal(t, All(), ByCategory("all"))
	assert.Equal(t, All(), ByCategory(""))
	assert.Empty(t, ByCategory("no-such-category"))
}
