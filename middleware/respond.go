package middleware

import (
	"campus-server/utils/errors"
	"encoding/json"
	"log"
	"net/http"
)

// Envelope is the wire shape of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WriteData writes a success envelope carrying data.
func WriteData(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, Envelope{Success: true, Data: data})
}

// WriteMessage writes a success envelope carrying only a message.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, Envelope{Success: true, Message: message})
}

// WriteCreated writes a 201 envelope with a message and the created record.
func WriteCreated(w http.ResponseWriter, message string, data any) {
	writeEnvelope(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// WriteError writes an APIError as a failure envelope
func WriteError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*errors.APIError)
	if !ok {
		apiErr = errors.Wrap(err, "UNKNOWN_ERROR", "Unexpected error", errors.ErrInternal.Status)
	}
	// Log server errors
	if apiErr.Status >= 500 {
		log.Printf("Server error %s (Details: %s)", apiErr.Error(), apiErr.Details)
	}
	writeEnvelope(w, apiErr.Status, Envelope{Success: false, Error: apiErr.Message})
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
