package vkimpl_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/9049480440/vk-hashtag-monitor/internal/vk/vkimpl"
	"github.com/9049480440/vk-hashtag-monitor/pkg/config"
	"github.com/9049480440/vk-hashtag-monitor/pkg/errors"
	"github.com/9049480440/vk-hashtag-monitor/pkg/logger"
)

// fakeAPI is a scripted VK API server: one canned JSON body per method path,
// recording the query values of every request.
type fakeAPI struct {
	t         *testing.T
	responses map[string]string
	requests  map[string][]map[string]string
}

func newFakeAPI(t *testing.T, responses map[string]string) (*fakeAPI, *httptest.Server) {
	t.Helper()

	if _, ok := responses["users.get"]; !ok {
		responses["users.get"] = `{"response": []}`
	}

	api := &fakeAPI{t: t, responses: responses, requests: make(map[string][]map[string]string)}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	return api, server
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[1:]

	params := make(map[string]string)
	for k, v := range r.URL.Query() {
		params[k] = v[0]
	}
	f.requests[method] = append(f.requests[method], params)

	body, ok := f.responses[method]
	if !ok {
		f.t.Errorf("unexpected VK method called: %s", method)
		body = `{"error": {"error_code": 3, "error_msg": "unknown method"}}`
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func newClient(t *testing.T, server *httptest.Server) *vkimpl.VKImpl {
	t.Helper()

	cfg := &config.Config{}
	cfg.VK.Token = "test-token"
	cfg.VK.Version = "5.131"
	cfg.VK.BaseURL = server.URL
	cfg.VK.Delay = time.Millisecond

	client, err := vkimpl.New(vkimpl.Opts{Config: cfg, Logger: logger.New(logger.Opts{})})
	require.NoError(t, err)
	return client
}

func TestNewProbesToken(t *testing.T) {
	api, server := newFakeAPI(t, map[string]string{})
	newClient(t, server)

	require.NotEmpty(t, api.requests["users.get"])
	probe := api.requests["users.get"][0]
	assert.Equal(t, "test-token", probe["access_token"])
	assert.Equal(t, "5.131", probe["v"])
}

func TestNewRejectsInvalidToken(t *testing.T) {
	_, server := newFakeAPI(t, map[string]string{
		"users.get": `{"error": {"error_code": 5, "error_msg": "User authorization failed"}}`,
	})

	cfg := &config.Config{}
	cfg.VK.Token = "bad-token"
	cfg.VK.Version = "5.131"
	cfg.VK.BaseURL = server.URL
	cfg.VK.Delay = time.Millisecond

	_, err := vkimpl.New(vkimpl.Opts{Config: cfg, Logger: logger.New(logger.Opts{})})
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))
}

func TestSearchPosts(t *testing.T) {
	api, server := newFakeAPI(t, map[string]string{
		"newsfeed.search": `{"response": {"items": [
			{"id": 1, "owner_id": -100, "date": 1754900000, "text": "#tag hello", "views": {"count": 10}},
			{"id": 2, "from_id": 200, "date": 1754900100, "text": "#tag again"}
		]}}`,
	})
	client := newClient(t, server)

	posts, err := client.SearchPosts(context.Background(), "tag", 500)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, int64(1), posts[0].ID)
	assert.Equal(t, int64(-100), posts[0].OwnerID)
	assert.Equal(t, 10, posts[0].Views.Count)
	assert.Nil(t, posts[1].Views)

	require.Len(t, api.requests["newsfeed.search"], 1)
	search := api.requests["newsfeed.search"][0]
	assert.Equal(t, "#tag", search["q"])
	assert.Equal(t, "200", search["count"])
}

func TestSearchPostsKeepsExplicitTagSyntax(t *testing.T) {
	api, server := newFakeAPI(t, map[string]string{
		"newsfeed.search": `{"response": {"items": []}}`,
	})
	client := newClient(t, server)

	posts, err := client.SearchPosts(context.Background(), "#already", 50)
	require.NoError(t, err)
	assert.Empty(t, posts)

	search := api.requests["newsfeed.search"][0]
	assert.Equal(t, "#already", search["q"])
	assert.Equal(t, "50", search["count"])
}

func TestSearchPostsDegradesToEmptyOnAPIError(t *testing.T) {
	_, server := newFakeAPI(t, map[string]string{
		"newsfeed.search": `{"error": {"error_code": 6, "error_msg": "Too many requests per second"}}`,
	})
	client := newClient(t, server)

	posts, err := client.SearchPosts(context.Background(), "tag", 100)
	require.NoError(t, err)
	assert.Nil(t, posts)
}

func TestGetPostByID(t *testing.T) {
	api, server := newFakeAPI(t, map[string]string{
		"wall.getById": `{"response": [
			{"id": 42, "owner_id": -100, "date": 1754900000, "likes": {"count": 7}}
		]}`,
	})
	client := newClient(t, server)

	raw, err := client.GetPostByID(context.Background(), -100, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), raw.ID)
	assert.Equal(t, 7, raw.Likes.Count)

	assert.Equal(t, "-100_42", api.requests["wall.getById"][0]["posts"])
}

func TestGetPostByIDNotFound(t *testing.T) {
	_, server := newFakeAPI(t, map[string]string{
		"wall.getById": `{"response": []}`,
	})
	client := newClient(t, server)

	_, err := client.GetPostByID(context.Background(), -100, 42)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetPostByIDAccessDenied(t *testing.T) {
	_, server := newFakeAPI(t, map[string]string{
		"wall.getById": `{"error": {"error_code": 15, "error_msg": "Access denied"}}`,
	})
	client := newClient(t, server)

	_, err := client.GetPostByID(context.Background(), -100, 42)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetGroupName(t *testing.T) {
	api, server := newFakeAPI(t, map[string]string{
		"groups.getById": `{"response": [{"id": 100, "name": "Some Community"}]}`,
	})
	client := newClient(t, server)

	name, err := client.GetGroupName(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "Some Community", name)
	assert.Equal(t, "100", api.requests["groups.getById"][0]["group_id"])
}

func TestGetUserName(t *testing.T) {
	_, server := newFakeAPI(t, map[string]string{
		"users.get": `{"response": [{"id": 200, "first_name": "Ivan", "last_name": "Petrov"}]}`,
	})

	cfg := &config.Config{}
	cfg.VK.Token = "test-token"
	cfg.VK.Version = "5.131"
	cfg.VK.BaseURL = server.URL
	cfg.VK.Delay = time.Millisecond

	client, err := vkimpl.New(vkimpl.Opts{Config: cfg, Logger: logger.New(logger.Opts{})})
	require.NoError(t, err)

	name, err := client.GetUserName(context.Background(), 200)
	require.NoError(t, err)
	assert.Equal(t, "Ivan Petrov", name)
}

func TestGetUserNameEmptyResult(t *testing.T) {
	_, server := newFakeAPI(t, map[string]string{
		"users.get": `{"response": []}`,
	})
	client := newClient(t, server)

	_, err := client.GetUserName(context.Background(), 999)
	assert.True(t, errors.IsNotFound(err))
}
