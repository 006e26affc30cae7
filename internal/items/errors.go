package items

import (
	"errors"
	"fmt"
	"net/http"

	"ItemStore/pkg/kit"
)

var (
	errNotJSON      = errors.New("request must be json")
	errMissingField = errors.New("missing name or price")
	errFieldTypes   = errors.New("bad name or price type")
	errNameType     = errors.New("name must be a string")
	errPriceType    = errors.New("price must be a number")
	errNoUpdateData = errors.New("no update data provided")
)

func writeValidationError(w http.ResponseWriter, err error) {
	switch err {
	case errNotJSON:
		kit.WriteError(w, http.StatusBadRequest, "Bad Request", "Request must be JSON.")
	case errMissingField:
		kit.WriteError(w, http.StatusBadRequest, "Bad Request", "Missing 'name' or 'price' in request body.")
	case errFieldTypes:
		kit.WriteError(w, http.StatusBadRequest, "Bad Request", "'name' must be a string and 'price' must be a number.")
	case errNameType:
		kit.WriteError(w, http.StatusBadRequest, "Bad Request", "'name' must be a string.")
	case errPriceType:
		kit.WriteError(w, http.StatusBadRequest, "Bad Request", "'price' must be a number.")
	case errNoUpdateData:
		kit.WriteError(w, http.StatusBadRequest, "Bad Request", "No update data provided.")
	default:
		kit.WriteError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred.")
	}
}

// id is int for store lookups and string when the raw path segment did
// not fit an int; the message echoes whichever was requested.
func writeNotFound(w http.ResponseWriter, id any) {
	kit.WriteError(w, http.StatusNotFound, "Not Found", fmt.Sprintf("Item with ID %v not found.", id))
}

func writeServerError(w http.ResponseWriter) {
	kit.WriteError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred.")
}
