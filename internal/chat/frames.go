// internal/chat/frames.go
package chat

import "encoding/json"

// Client frames carry a type discriminator plus the fields for that type.
// Server frames mirror the shape with type in {auth, message, onlineUsers, error}.
const (
	FrameAuth        = "auth"
	FrameMessage     = "message"
	FrameOnlineUsers = "onlineUsers"
	FrameError       = "error"
)

type ClientFrame struct {
	Type        string `json:"type"`
	Token       string `json:"token,omitempty"`
	RecipientID string `json:"recipientId,omitempty"`
	Content     string `json:"content,omitempty"`
}

type AuthFrame struct {
	Type string   `json:"type"`
	User UserInfo `json:"user"`
}

type MessageFrame struct {
	Type        string `json:"type"`
	SenderID    string `json:"senderId"`
	SenderName  string `json:"senderName"`
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp"`
}

type OnlineUsersFrame struct {
	Type  string     `json:"type"`
	Users []UserInfo `json:"users"`
}

type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type UserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func marshalFrame(v interface{}) []byte {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return payload
}

func errorPayload(message string) []byte {
	return marshalFrame(ErrorFrame{Type: FrameError, Message: message})
}
