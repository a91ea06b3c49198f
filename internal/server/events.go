package server

import (
	"context"
	"log"

	"astra/internal/notifications"
)

// Event type constants prevent typos in event names.
const (
	EventPostCreated     = "post_created"
	EventPostUpdated     = "post_updated"
	EventPostDeleted     = "post_deleted"
	EventPostLikeToggled = "post_like_toggled"
	EventCommentCreated  = "comment_created"
	EventCommentUpdated  = "comment_updated"
	EventCommentDeleted  = "comment_deleted"
	EventFollowToggled   = "follow_toggled"
)

func (s *Server) publishUserEvent(ctx context.Context, userID, actorID uint, eventType string, payload map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	event := notifications.NewEvent(eventType, actorID, payload)
	if err := s.notifier.PublishUser(ctx, userID, event); err != nil {
		log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
	}
}

func (s *Server) publishBroadcastEvent(ctx context.Context, actorID uint, eventType string, payload map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	event := notifications.NewEvent(eventType, actorID, payload)
	if err := s.notifier.PublishBroadcast(ctx, event); err != nil {
		log.Printf("failed to publish %s broadcast event: %v", eventType, err)
	}
}
