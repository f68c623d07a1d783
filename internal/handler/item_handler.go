package handler

import (
	"encoding/json"
	"net/http"

	"driftnote-server/internal/domain"
	"driftnote-server/internal/service"
	"driftnote-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type ItemHandler struct {
	service  *service.ItemService
	validate *validator.Validate
}

func NewItemHandler(service *service.ItemService) *ItemHandler {
	return &ItemHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *ItemHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.Created(w, h.service.CreateFolder(&req))
}

func (h *ItemHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.Created(w, h.service.CreateNote(&req))
}

// List returns the children of ?parent=<id>, or of the root when the
// parameter is absent.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	var parentID *string
	if parent := r.URL.Query().Get("parent"); parent != "" {
		parentID = &parent
	}

	response.Success(w, h.service.ListChildren(parentID))
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["id"]
	if itemID == "" {
		response.BadRequest(w, "Item ID is required")
		return
	}

	item := h.service.GetByID(itemID)
	if item == nil {
		response.NotFound(w, "Item not found")
		return
	}

	response.Success(w, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["id"]
	if itemID == "" {
		response.BadRequest(w, "Item ID is required")
		return
	}

	var req domain.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	h.service.UpdateItem(itemID, &req)
	response.Success(w, map[string]string{"message": "Item updated"})
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["id"]
	if itemID == "" {
		response.BadRequest(w, "Item ID is required")
		return
	}

	h.service.DeleteItem(itemID)
	response.Success(w, map[string]string{"message": "Item deleted"})
}

func (h *ItemHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, "Query parameter q is required")
		return
	}

	response.Success(w, h.service.Search(query))
}
