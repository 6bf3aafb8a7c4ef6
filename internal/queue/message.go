package queue

import (
	"encoding/json"
	"errors"
)

// Message asks a worker to pre-render the PDF for one resume version.
type Message struct {
	JobApplicationID string `json:"jobApplicationId"`
	UserID           string `json:"userId"`
	Version          int    `json:"version"`
	RequestID        string `json:"requestId,omitempty"`
	EnqueuedAt       string `json:"enqueuedAt"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	if msg.JobApplicationID == "" || msg.UserID == "" || msg.Version < 1 {
		return Message{}, errors.New("render message missing jobApplicationId, userId or version")
	}
	return msg, nil
}
