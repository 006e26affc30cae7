package items

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ItemStore/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Store Store
	Log   *zap.Logger
}

type mutationResponse struct {
	Message string `json:"message"`
	Item    Item   `json:"item"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		kit.WriteError(w, http.StatusNotFound, "Not Found", "The requested URL was not found on the server.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		kit.WriteError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "The method is not allowed for the requested URL.")
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, http.StatusServiceUnavailable, "Service Unavailable", "not ready")
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/api/items", s.list)
	r.Post("/api/items", s.create)

	// Digits-only pattern: a non-integer id never matches and falls
	// through to the JSON 404 handler.
	r.Get("/api/items/{id:[0-9]+}", s.get)
	r.Put("/api/items/{id:[0-9]+}", s.update)
	r.Delete("/api/items/{id:[0-9]+}", s.delete)

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	all, err := s.Store.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list items failed", zap.Error(err))
		}
		writeServerError(w)
		return
	}
	kit.WriteJSON(w, http.StatusOK, all)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, parsed := pathID(r)
	if !parsed {
		writeNotFound(w, chi.URLParam(r, "id"))
		return
	}

	it, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get item failed", zap.Error(err), zap.Int("id", id))
		}
		writeServerError(w)
		return
	}
	if !ok {
		writeNotFound(w, id)
		return
	}
	kit.WriteJSON(w, http.StatusOK, it)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeBody(w, r)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	nameRaw, hasName := fields["name"]
	priceRaw, hasPrice := fields["price"]
	if !hasName || !hasPrice {
		writeValidationError(w, errMissingField)
		return
	}

	var name string
	var price float64
	if json.Unmarshal(nameRaw, &name) != nil || json.Unmarshal(priceRaw, &price) != nil {
		writeValidationError(w, errFieldTypes)
		return
	}

	it, err := s.Store.Create(r.Context(), name, price)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("create item failed", zap.Error(err))
		}
		writeServerError(w)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, mutationResponse{
		Message: "Item added successfully",
		Item:    it,
	})
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, parsed := pathID(r)
	if !parsed {
		writeNotFound(w, chi.URLParam(r, "id"))
		return
	}

	_, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get item failed", zap.Error(err), zap.Int("id", id))
		}
		writeServerError(w)
		return
	}
	if !ok {
		writeNotFound(w, id)
		return
	}

	fields, err := decodeBody(w, r)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	// Present-field type errors take precedence over the empty-body
	// check; a non-empty body of only unknown keys updates nothing.
	var p Patch
	if raw, has := fields["name"]; has {
		var name string
		if json.Unmarshal(raw, &name) != nil {
			writeValidationError(w, errNameType)
			return
		}
		p.Name = &name
	}
	if raw, has := fields["price"]; has {
		var price float64
		if json.Unmarshal(raw, &price) != nil {
			writeValidationError(w, errPriceType)
			return
		}
		p.Price = &price
	}
	if len(fields) == 0 {
		writeValidationError(w, errNoUpdateData)
		return
	}

	it, ok, err := s.Store.Update(r.Context(), id, p)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("update item failed", zap.Error(err), zap.Int("id", id))
		}
		writeServerError(w)
		return
	}
	if !ok {
		writeNotFound(w, id)
		return
	}

	kit.WriteJSON(w, http.StatusOK, mutationResponse{
		Message: "Item updated successfully",
		Item:    it,
	})
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, parsed := pathID(r)
	if !parsed {
		writeNotFound(w, chi.URLParam(r, "id"))
		return
	}

	removed, err := s.Store.Delete(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("delete item failed", zap.Error(err), zap.Int("id", id))
		}
		writeServerError(w)
		return
	}
	if !removed {
		writeNotFound(w, id)
		return
	}

	kit.WriteJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Item with ID %d deleted successfully", id),
	})
}

// pathID parses the digits-only id segment. Parsing still fails when the
// digits overflow int; such an id cannot exist, and the caller 404s with
// the raw segment so the message names the id actually requested.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

// decodeBody enforces the JSON content type and parses the body into a
// raw field map so callers can tell a missing field from a mistyped one.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	if !isJSONRequest(r) {
		return nil, errNotJSON
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, errNotJSON
	}
	return fields, nil
}

func isJSONRequest(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
