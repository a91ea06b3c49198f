package server

import (
	"context"
	"net/http"
	"testing"

	"astra/internal/models"
	"astra/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ctxMarkerKey struct{}

// capturePublisher records the context and events it is handed so tests can
// check what the handlers publish.
type capturePublisher struct {
	userCtx      context.Context
	broadcastCtx context.Context
	events       []notifications.Event
}

func (p *capturePublisher) PublishUser(ctx context.Context, _ uint, event notifications.Event) error {
	p.userCtx = ctx
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) PublishBroadcast(ctx context.Context, event notifications.Event) error {
	p.broadcastCtx = ctx
	p.events = append(p.events, event)
	return nil
}

// withCtxMarker tags the request context the way ContextMiddleware tags it
// with request and user IDs.
func withCtxMarker(value string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(context.WithValue(c.UserContext(), ctxMarkerKey{}, value))
		return c.Next()
	}
}

func TestPublishBroadcastEvent_CarriesRequestContext(t *testing.T) {
	s, mocks := newTestServer()
	pub := &capturePublisher{}
	s.notifier = pub

	mocks.posts.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Post).ID = 42
	}).Return(nil)
	mocks.posts.On("GetByID", mock.Anything, uint(42), uint(1)).
		Return(&models.Post{ID: 42, UserID: 1, Content: "hello"}, nil)

	app := fiber.New()
	app.Post("/posts", withCtxMarker("req-77"), asUser(1), s.CreatePost)

	resp := postJSON(t, app, "/posts", map[string]string{"content": "hello"})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NotNil(t, pub.broadcastCtx)
	assert.Equal(t, "req-77", pub.broadcastCtx.Value(ctxMarkerKey{}))
	require.Len(t, pub.events, 1)
	assert.Equal(t, EventPostCreated, pub.events[0].Type)
	assert.Equal(t, uint(1), pub.events[0].ActorID)
}

func TestPublishUserEvent_CarriesRequestContext(t *testing.T) {
	s, mocks := newTestServer()
	pub := &capturePublisher{}
	s.notifier = pub

	mocks.users.On("GetByID", mock.Anything, uint(2)).Return(&models.User{ID: 2}, nil)
	mocks.follows.On("Follow", mock.Anything, uint(1), uint(2)).Return(true, nil)
	mocks.follows.On("CountFollowers", mock.Anything, uint(2)).Return(int64(1), nil)

	app := fiber.New()
	app.Post("/users/:id/follow", withCtxMarker("req-78"), asUser(1), s.ToggleFollow)

	resp := postJSON(t, app, "/users/2/follow", map[string]string{})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, pub.userCtx)
	assert.Equal(t, "req-78", pub.userCtx.Value(ctxMarkerKey{}))
	require.Len(t, pub.events, 1)
	assert.Equal(t, EventFollowToggled, pub.events[0].Type)
}
