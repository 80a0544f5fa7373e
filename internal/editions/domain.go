package editions

import "time"

// Edition is the top-level tenant partition of the Safety ID product.
type Edition struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
