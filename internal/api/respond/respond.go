// Package respond writes JSON bodies and taxonomy error bodies.
package respond

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/xwing-campaign/internal/domain"
)

// ErrorBody is the body of every failed request.
type ErrorBody struct {
	Name    domain.Kind `json:"name"`
	Message string      `json:"message"`
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR [respond.JSON] encode failed: %v", err)
	}
}

func OK(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusOK, v)
}

// Empty writes {}.
func Empty(w http.ResponseWriter) {
	JSON(w, http.StatusOK, struct{}{})
}

// Error maps err to its taxonomy status. Errors outside the taxonomy are
// logged and reported as a generic ServiceError.
func Error(w http.ResponseWriter, op string, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		log.Printf("ERROR [%s] %v", op, err)
		derr = domain.ServiceError("Internal server error")
	} else if derr.Status() >= http.StatusInternalServerError {
		log.Printf("ERROR [%s] %v", op, err)
	}

	JSON(w, derr.Status(), ErrorBody{Name: derr.Kind, Message: derr.Message})
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Invalid("Invalid request body")
	}
	return nil
}
