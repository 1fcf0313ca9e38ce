package model

import "time"

// ChatLog records one exchange with the help chatbot
type ChatLog struct {
	ID        ChatLogID
	UserID    string
	Query     string
	Response  string
	Fallback  bool
	CreatedAt time.Time
}
