package utils

import (
	"encoding/json"
	"net/http"

	"github.com/bpresles/CasaNova/common/models"
	"github.com/rs/zerolog/log"
)

// WriteJSON writes data as the JSON body with the given status code. Once the
// header is out an encoding failure can only be logged.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Int("status", statusCode).Msg("Failed to encode response")
	}
}

func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, models.BaseResponse{Message: message})
}

// WriteList writes a {count, data} envelope; nil becomes an empty array.
func WriteList[T any](w http.ResponseWriter, statusCode int, data []T) {
	if data == nil {
		data = []T{}
	}
	WriteJSON(w, statusCode, models.ListResponse{Count: len(data), Data: data})
}

// WriteError writes {error: <status text>, message}.
func WriteError(w http.ResponseWriter, statusCode int, errorMessage string) {
	WriteJSON(w, statusCode, models.ErrorResponse{
		Error: http.StatusText(statusCode),
		Msg:   errorMessage,
	})
}

// WritePagination wraps one page of data with its metadata.
func WritePagination(w http.ResponseWriter, statusCode int, data any, currentPage, perPage int, total int64) {
	var lastPage int64
	if perPage > 0 {
		lastPage = (total + int64(perPage) - 1) / int64(perPage)
	}

	WriteJSON(w, statusCode, models.BasePaginationResponse{
		Data: data,
		Meta: models.MetaResponse{
			CurrentPage: int64(currentPage),
			LastPage:    lastPage,
			PerPage:     int64(perPage),
			Total:       total,
		},
	})
}
