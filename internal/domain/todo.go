package domain

import (
	"time"

	"github.com/google/uuid"
)

// Domain entity: the business object (source of truth).
// Does not depend on Gin, SQLite or Redis.
type Todo struct {
	ID          uuid.UUID
	Description string
	Done        bool
	Datetime    time.Time
}
