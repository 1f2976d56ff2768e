// File: product-service/internal/api/http_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"product-service/internal/domain"
	"product-service/internal/store"
)

// indexPage is the root page served at GET /.
const indexPage = `<!DOCTYPE html>
<html>
  <head><title>Product Catalog Administration</title></head>
  <body>
    <h1>Product Catalog Administration</h1>
    <p>This service exposes a REST API for Products under /products.</p>
  </body>
</html>
`

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	productStore store.ProductStorer
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(ps store.ProductStorer) *HTTPHandler {
	return &HTTPHandler{productStore: ps}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{
		Status:  code,
		Error:   http.StatusText(code),
		Message: message,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil { // Avoid writing a body for 204 No Content
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("ERROR: Failed to encode JSON response: %v", err)
			http.Error(w, `{"error": "Internal server error during JSON encoding"}`, http.StatusInternalServerError)
		}
	}
}

// decodeBody decodes a JSON request body into a raw mapping for
// domain.Product.Deserialize. UseNumber keeps prices exact instead of
// collapsing them into float64.
func decodeBody(r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}

func requireJSONContentType(w http.ResponseWriter, r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		respondWithError(w, http.StatusUnsupportedMediaType,
			fmt.Sprintf("Content-Type must be application/json, got %q", contentType))
		return false
	}
	return true
}

func notFoundMessage(id string) string {
	return fmt.Sprintf("Product with id '%s' was not found.", id)
}

// --- Service Handlers ---

func (h *HTTPHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(indexPage)); err != nil {
		log.Printf("ERROR: Failed to write index page: %v", err)
	}
}

func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "OK"})
}

// --- Product Handlers ---

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if !requireJSONContentType(w, r) {
		return
	}

	data, err := decodeBody(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	product, err := (&domain.Product{}).Deserialize(data)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.productStore.CreateProduct(r.Context(), product)
	if err != nil {
		log.Printf("ERROR: CreateProduct store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/products/%d", *created.ID))
	respondWithJSON(w, http.StatusCreated, created.Serialize())
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "productId")
	productID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		respondWithError(w, http.StatusNotFound, notFoundMessage(idStr))
		return
	}

	product, err := h.productStore.GetProductByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, notFoundMessage(idStr))
			return
		}
		log.Printf("ERROR: GetProductByID store operation for ID %d failed: %v", productID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}
	respondWithJSON(w, http.StatusOK, product.Serialize())
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	if !requireJSONContentType(w, r) {
		return
	}

	idStr := chi.URLParam(r, "productId")
	productID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		respondWithError(w, http.StatusNotFound, notFoundMessage(idStr))
		return
	}

	data, err := decodeBody(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	// Existence check first so a missing row is a 404 rather than a 400
	// from payload validation.
	product, err := h.productStore.GetProductByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, notFoundMessage(idStr))
			return
		}
		log.Printf("ERROR: Product for update (ID %d) lookup failed: %v", productID, err)
		respondWithError(w, http.StatusInternalServerError, "Error checking product existence")
		return
	}

	if _, err := product.Deserialize(data); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.productStore.UpdateProduct(r.Context(), product)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, notFoundMessage(idStr))
			return
		}
		log.Printf("ERROR: UpdateProduct store operation for ID %d failed: %v", productID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	respondWithJSON(w, http.StatusOK, updated.Serialize())
}

// DeleteProduct always answers 204: deletes are idempotent and a missing
// row is not an error.
func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "productId")
	productID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		respondWithJSON(w, http.StatusNoContent, nil)
		return
	}

	if err := h.productStore.DeleteProduct(r.Context(), productID); err != nil {
		log.Printf("ERROR: DeleteProduct store operation for ID %d failed: %v", productID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	respondWithJSON(w, http.StatusNoContent, nil)
}

// ListProducts lists all products, or the exact-match subset when one of the
// name/category/available/price query parameters is present. The first
// recognized filter wins.
func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	qParams := r.URL.Query()

	var (
		products []domain.Product
		err      error
	)
	switch {
	case qParams.Get("name") != "":
		products, err = h.productStore.ListProductsByName(r.Context(), qParams.Get("name"))
	case qParams.Get("category") != "":
		category, parseErr := domain.ParseCategory(qParams.Get("category"))
		if parseErr != nil {
			respondWithError(w, http.StatusBadRequest, parseErr.Error())
			return
		}
		products, err = h.productStore.ListProductsByCategory(r.Context(), category)
	case qParams.Get("available") != "":
		available, parseErr := strconv.ParseBool(qParams.Get("available"))
		if parseErr != nil {
			respondWithError(w, http.StatusBadRequest,
				"Invalid available value: must be true or false")
			return
		}
		products, err = h.productStore.ListProductsByAvailability(r.Context(), available)
	case qParams.Get("price") != "":
		price, parseErr := domain.ParsePrice(qParams.Get("price"))
		if parseErr != nil {
			respondWithError(w, http.StatusBadRequest, parseErr.Error())
			return
		}
		products, err = h.productStore.ListProductsByPrice(r.Context(), price)
	default:
		products, err = h.productStore.ListProducts(r.Context())
	}
	if err != nil {
		log.Printf("ERROR: ListProducts store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	// Serialize into an array; an empty result is [] rather than null.
	results := make([]map[string]any, 0, len(products))
	for i := range products {
		results = append(results, products[i].Serialize())
	}
	respondWithJSON(w, http.StatusOK, results)
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/health", h.Health)

	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct)
		r.Get("/", h.ListProducts)
		r.Route("/{productId}", func(r chi.Router) {
			r.Get("/", h.GetProduct)
			r.Put("/", h.UpdateProduct)
			r.Delete("/", h.DeleteProduct)
		})
	})
}
