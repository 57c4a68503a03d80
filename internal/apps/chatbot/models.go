package chatbot

import "github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/chatlog"

type SendRequest struct {
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Place   string   `json:"place"`
}

type SendResponse struct {
	Reply     string `json:"reply"`
	Remaining int    `json:"remaining"`
	Weather   string `json:"weather,omitempty"`
}

type HistoryResponse struct {
	Data []chatlog.Message `json:"data"`
}
