package handlers

import (
	"net/http"

	"quartermaster/internal/api/response"
)

// UserHandler reserves the user management routes. Accounts beyond the
// configured admin are not implemented yet, so every route answers 501.
type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

func (h *UserHandler) NotImplemented(w http.ResponseWriter, r *http.Request) {
	response.Error(w, http.StatusNotImplemented, "user management is not implemented")
}
