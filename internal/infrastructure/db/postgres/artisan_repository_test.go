package postgres

import (
	"strings"
	"testing"

	"github.com/fissaa/marketplace-api/internal/core/ports"
)

func TestArtisanWhere_Empty(t *testing.T) {
	where, args := artisanWhere(ports.ArtisanFilter{})
	if where != "" || args != nil {
		t.Fatalf("expected no clause, got %q %v", where, args)
	}
}

func TestArtisanWhere_AllFilters(t *testing.T) {
	rating := 4.5
	available := false

	where, args := artisanWhere(ports.ArtisanFilter{
		Profession: "plumber",
		City:       "Casablanca",
		MinRating:  &rating,
		Available:  &available,
	})

	for _, want := range []string{
		"a.profession = $1",
		"a.city = $2",
		"COALESCE(s.rating, 0) >= $3",
		"a.available = $4",
	} {
		if !strings.Contains(where, want) {
			t.Errorf("clause %q missing from %q", want, where)
		}
	}
	if strings.Count(where, " AND ") != 3 {
		t.Errorf("filters must be joined with AND: %q", where)
	}
	if len(args) != 4 || args[0] != "plumber" || args[2] != 4.5 || args[3] != false {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestArtisanWhere_NumbersFollowSuppliedFilters(t *testing.T) {
	available := true

	where, args := artisanWhere(ports.ArtisanFilter{City: "Rabat", Available: &available})

	if !strings.Contains(where, "a.city = $1") || !strings.Contains(where, "a.available = $2") {
		t.Fatalf("unexpected placeholders: %q", where)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %v", args)
	}
}
