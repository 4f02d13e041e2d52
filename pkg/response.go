package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

func WriteResponse(w http.ResponseWriter, contentType, message string) {
	WriteResponseBytes(w, contentType, []byte(message))
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte) {
	if contentType != "" {
		w.Header().Add("Content-Type", contentType)
	}

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%s]: %s", message, err)
	}
}

func WriteJSONResponse(w http.ResponseWriter, payload any) {
	respBytes, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	WriteResponseBytes(w, "application/json", respBytes)
}
