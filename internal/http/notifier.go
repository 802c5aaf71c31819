package http

import (
	"encoding/json"
	"log"

	"github.com/sujalbistaa/blogicum/internal/blog"
	"github.com/sujalbistaa/blogicum/internal/media"
	"github.com/sujalbistaa/blogicum/internal/models"
	"github.com/sujalbistaa/blogicum/internal/ws"
)

// WsMessage is the envelope of every live feed message.
type WsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// HubNotifier forwards public blog events to the websocket hub. The
// blog service only calls it for content anyone may see.
type HubNotifier struct {
	Hub   *ws.Hub
	Media *media.Resolver
}

var _ blog.Notifier = (*HubNotifier)(nil)

func (n *HubNotifier) PostPublished(post *models.Post) {
	n.broadcastMessage(WsMessage{Type: "new_post", Data: postResponse(post, blog.Anonymous, n.Media)})
}

func (n *HubNotifier) CommentAdded(post *models.Post, comment *models.Comment) {
	if !comment.IsPublished {
		return
	}
	n.broadcastMessage(WsMessage{Type: "new_comment", Data: commentResponse(comment)})
}

func (n *HubNotifier) broadcastMessage(msg WsMessage) {
	jsonMsg, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshalling WS message: %v", err)
		return
	}
	if !n.Hub.Publish(jsonMsg) {
		log.Printf("Dropped WS message %q: hub unavailable", msg.Type)
	}
}
