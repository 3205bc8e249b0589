package record

import (
	"testing"
	"time"
)

func TestTouchKeepsCreatedAt(t *testing.T) {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	var m Meta
	m.Touch(first)
	m.Touch(later)

	if !m.CreatedAt.Equal(first) {
		t.Fatalf("expected created_at %s, got %s", first, m.CreatedAt)
	}
	if !m.UpdatedAt.Equal(later) {
		t.Fatalf("expected updated_at %s, got %s", later, m.UpdatedAt)
	}
}
