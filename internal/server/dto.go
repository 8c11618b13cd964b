package server

import (
	"time"

	"github.com/rcliao/helios/internal/model"
)

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type queryRequest struct {
	Query      string `json:"query"`
	ProjectKey string `json:"project_key,omitempty"`
}

type answerResponse struct {
	Response   string `json:"response"`
	ProjectKey string `json:"project_key,omitempty"`
}

type historyResponse struct {
	SessionID string       `json:"session_id"`
	Turns     []model.Turn `json:"turns"`
}

type errorResponse struct {
	Error    string `json:"error"`
	Response string `json:"response,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
