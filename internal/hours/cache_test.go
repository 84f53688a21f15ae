package hours

import (
	"testing"
	"time"

	"antiques-directory/internal/models"
)

func TestCache_SetGetInvalidate(t *testing.T) {
	c := NewCache(time.Minute, nil)
	week := []models.DayHours{openDay(models.Monday, "09:00", "17:00")}

	if _, ok := c.Get(42); ok {
		t.Fatal("empty cache returned a hit")
	}

	c.Set(42, week)
	got, ok := c.Get(42)
	if !ok || len(got) != 1 || *got[0].OpenTime != "09:00" {
		t.Fatalf("cache miss after Set: %v %v", got, ok)
	}

	c.Invalidate(42)
	if _, ok := c.Get(42); ok {
		t.Fatal("Invalidate did not drop the entry")
	}
}

func TestCache_Expiry(t *testing.T) {
	clock := time.Date(2024, time.March, 18, 12, 0, 0, 0, time.UTC)
	c := NewCache(5*time.Minute, func() time.Time { return clock })

	c.Set(7, []models.DayHours{closedDay(models.Sunday)})
	if _, ok := c.Get(7); !ok {
		t.Fatal("fresh entry should be a hit")
	}

	clock = clock.Add(5*time.Minute + time.Second)
	if _, ok := c.Get(7); ok {
		t.Fatal("expired entry should be a miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be purged on read, len=%d", c.Len())
	}
}
