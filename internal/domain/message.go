package domain

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a session's conversation.
//
// Weather is only ever attached client-side to assistant replies that
// answered a weather question; the backend never stores it.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Weather   *Weather  `json:"weather,omitempty"`
}

// Weather is a current-conditions report for one city.
type Weather struct {
	Location    string `json:"location"`
	Temperature int    `json:"temperature"`
	Humidity    int    `json:"humidity"`
	WindSpeed   string `json:"windSpeed"`
	Description string `json:"description"`
	WeatherCode int    `json:"weatherCode"`
}

// StatusCheck records a client heartbeat posted to /api/status.
type StatusCheck struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChatReply is the backend's answer to one sent message.
type ChatReply struct {
	SessionID string    `json:"session_id"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}
