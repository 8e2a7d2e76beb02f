package server

import (
	"context"
	"encoding/json"
	"log"

	"entangl/internal/models"
)

// Event type constants prevent typos in event names.
const (
	EventFollowRequestReceived  = "follow_request_received"
	EventFollowRequestSent      = "follow_request_sent"
	EventFollowRequestAccepted  = "follow_request_accepted"
	EventFollowRequestDeclined  = "follow_request_declined"
	EventFollowRequestCancelled = "follow_request_cancelled"
	EventFollowerAdded          = "follower_added"
	EventFollowerRemoved        = "follower_removed"
	EventPostLiked              = "post_liked"
	EventCommentCreated         = "comment_created"
)

func (s *Server) publishUserEvent(userID uint, eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	message := string(eventJSON)
	if s.hub != nil {
		s.hub.Broadcast(userID, message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishUser(context.Background(), userID, message); err != nil {
			log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
		}
	}
}

func userSummary(user models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
		"avatar":   user.Avatar,
	}
}
