package handler

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/catalog-gateway/internal/model"
	"github.com/vyrodovalexey/catalog-gateway/internal/store"
)

// Version is the application version.
const Version = "1.0.0"

// RecordHandler handles record gateway requests for a single resource
// collection mounted under /api/{resource}.
type RecordHandler struct {
	store    store.Store
	logger   *zap.Logger
	resource string
}

// NewRecordHandler creates a new RecordHandler instance.
func NewRecordHandler(s store.Store, logger *zap.Logger, resource string) *RecordHandler {
	return &RecordHandler{
		store:    s,
		logger:   logger,
		resource: resource,
	}
}

// RegisterRoutes registers the gateway routes with the router. Mutating
// routes are wrapped with the gate; a nil gate leaves them open.
func (h *RecordHandler) RegisterRoutes(router *mux.Router, gate func(http.Handler) http.Handler) {
	if gate == nil {
		gate = func(next http.Handler) http.Handler { return next }
	}

	base := "/api/" + h.resource

	router.HandleFunc("/", h.Info).Methods(http.MethodGet)
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.Handle(base, gate(http.HandlerFunc(h.CreateRecord))).Methods(http.MethodPost)
	router.HandleFunc(base, h.ListRecords).Methods(http.MethodGet)
	router.HandleFunc(base+"/{id}", h.GetRecord).Methods(http.MethodGet)
	router.Handle(base+"/{id}", gate(http.HandlerFunc(h.ReplaceRecord))).Methods(http.MethodPut)
	router.Handle(base+"/{id}", gate(http.HandlerFunc(h.PatchRecord))).Methods(http.MethodPatch)
	router.Handle(base+"/{id}", gate(http.HandlerFunc(h.DeleteRecord))).Methods(http.MethodDelete)
	router.PathPrefix("/api").HandlerFunc(h.APINotFound)
}

// Info handles GET / requests.
func (h *RecordHandler) Info(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, model.InfoResponse{
		Message:   "Record Gateway API",
		Endpoints: []string{"/api/" + h.resource},
	})
}

// HealthCheck handles GET /health requests.
func (h *RecordHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: Version,
	})
}

// ListRecords handles GET /api/{resource} requests, translating the
// category, minPrice, sort, and fields query parameters into a store
// query.
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docs, err := h.store.List(ctx, queryFromRequest(r))
	if err != nil {
		h.logger.Error("failed to list records", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, docs)
}

// GetRecord handles GET /api/{resource}/{id} requests.
func (h *RecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	doc, err := h.store.Get(ctx, id)
	if err != nil {
		h.handleStoreError(w, err, "get record")
		return
	}

	h.writeJSON(w, http.StatusOK, doc)
}

// CreateRecord handles POST /api/{resource} requests.
func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rec, ok := h.recordBody(w, r)
	if !ok {
		return
	}

	doc, err := h.store.Create(ctx, rec)
	if err != nil {
		h.handleStoreError(w, err, "create record")
		return
	}

	h.writeJSON(w, http.StatusCreated, doc)
}

// ReplaceRecord handles PUT /api/{resource}/{id} requests. The payload
// is validated like a create; only the three core fields are replaced.
func (h *RecordHandler) ReplaceRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	rec, ok := h.recordBody(w, r)
	if !ok {
		return
	}

	doc, err := h.store.Replace(ctx, id, rec)
	if err != nil {
		h.handleStoreError(w, err, "replace record")
		return
	}

	h.writeJSON(w, http.StatusOK, doc)
}

// PatchRecord handles PATCH /api/{resource}/{id} requests, merging an
// arbitrary field map into the record. An empty body is rejected.
func (h *RecordHandler) PatchRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(fields) == 0 {
		h.writeError(w, http.StatusBadRequest, "patch body cannot be empty")
		return
	}

	doc, err := h.store.Patch(ctx, id, fields)
	if err != nil {
		h.handleStoreError(w, err, "patch record")
		return
	}

	h.writeJSON(w, http.StatusOK, doc)
}

// DeleteRecord handles DELETE /api/{resource}/{id} requests.
func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(ctx, id); err != nil {
		h.handleStoreError(w, err, "delete record")
		return
	}

	h.writeJSON(w, http.StatusNoContent, nil)
}

// APINotFound handles requests to unmatched paths under /api.
func (h *RecordHandler) APINotFound(w http.ResponseWriter, _ *http.Request) {
	h.writeError(w, http.StatusNotFound, "API endpoint not found")
}

// queryFromRequest translates the list query parameters into a store
// query. A non-numeric minPrice degrades to a NaN bound, which matches
// no record.
func queryFromRequest(r *http.Request) store.Query {
	params := r.URL.Query()
	q := store.Query{
		Category: params.Get("category"),
	}

	if raw := params.Get("minPrice"); raw != "" {
		bound, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			bound = math.NaN()
		}
		q.MinPrice = &bound
	}

	if params.Get("sort") == "price" {
		q.SortByPrice = true
	}

	if raw := params.Get("fields"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			field = strings.TrimSpace(field)
			if field != "" {
				q.Fields = append(q.Fields, field)
			}
		}
	}

	return q
}

// recordID extracts and validates the path identifier, writing a 400
// response and returning false on a malformed ID. The store is never
// reached for malformed identifiers.
func (h *RecordHandler) recordID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	if !store.ValidID(id) {
		h.writeError(w, http.StatusBadRequest, "invalid record id")
		return "", false
	}
	return id, true
}

// recordBody decodes and validates a create/replace payload, writing a
// 400 response and returning false on failure.
func (h *RecordHandler) recordBody(w http.ResponseWriter, r *http.Request) (*model.Record, bool) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	rec, err := model.RecordFromBody(body)
	if err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	return rec, true
}

// handleStoreError handles store errors and writes appropriate HTTP responses.
func (h *RecordHandler) handleStoreError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, store.ErrInvalidID):
		h.writeError(w, http.StatusBadRequest, "invalid record id")
	default:
		h.logger.Error("store operation failed", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *RecordHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError writes an error response with the given status code and message.
func (h *RecordHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, model.ErrorResponse{Error: message})
}
