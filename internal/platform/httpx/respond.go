package httpx

import (
	"encoding/json"
	"net/http"
)

// Pagination describes the skip/limit window attached to list responses.
type Pagination struct {
	Skip       int64 `json:"skip"`
	Limit      int64 `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	HasMore    bool  `json:"hasMore"`
}

type successEnvelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// WriteData writes a success envelope with the supplied payload.
func WriteData(w http.ResponseWriter, status int, data any) {
	writeSuccess(w, status, successEnvelope{Success: true, Data: data})
}

// WriteMessage writes a success envelope carrying only a message.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	writeSuccess(w, status, successEnvelope{Success: true, Message: message})
}

// WriteDataMessage writes a success envelope with both payload and message.
func WriteDataMessage(w http.ResponseWriter, status int, data any, message string) {
	writeSuccess(w, status, successEnvelope{Success: true, Data: data, Message: message})
}

// WritePage writes a success envelope for a paginated list.
func WritePage(w http.ResponseWriter, status int, data any, page Pagination) {
	writeSuccess(w, status, successEnvelope{Success: true, Data: data, Pagination: &page})
}

func writeSuccess(w http.ResponseWriter, status int, envelope successEnvelope) {
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope)
}
