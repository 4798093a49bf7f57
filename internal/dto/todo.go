package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateTodoRequest is the POST /todo body. Description is a pointer so that
// an explicitly empty string binds fine while a missing field fails binding.
type CreateTodoRequest struct {
	Description *string `json:"description" binding:"required"`
}

type TodoResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	Datetime    time.Time `json:"datetime"`
}
