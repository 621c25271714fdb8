package routerhelper

import (
	"encoding/json"
	"net/http"
)

type Envelope map[string]interface{}

func WriteJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// NewErrorEnvelope {"error": {"code": <status text>, "message": message}}
func NewErrorEnvelope(status int, message string) Envelope {
	return Envelope{"error": map[string]string{
		"code":    http.StatusText(status),
		"message": message,
	}}
}

func WriteError(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, NewErrorEnvelope(status, message), nil)
}
