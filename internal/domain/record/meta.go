package record

import "time"

// Meta is the identity and audit stamp shared by every stored entity.
// CreatedAt is fixed at insert; UpdatedAt moves on every mutating write.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch stamps m for a write happening at now.
func (m *Meta) Touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}
