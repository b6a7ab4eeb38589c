package models

import "time"

type MessageType int

const (
	User MessageType = iota
	Assistant
	System
	Program
)

// Message is one entry of the visible transcript for the active mode.
// Messages are append-only; the reducer never edits one in place.
type Message struct {
	ID        string
	Content   string
	Type      MessageType
	Timestamp time.Time
}
