package postgres

import (
	"strings"
	"testing"
	"time"
)

func TestFindByTeamsQuery_RequiresBothTeamNames(t *testing.T) {
	day := time.Date(2026, 3, 7, 15, 30, 0, 0, time.UTC)

	query, args, err := findByTeamsQuery("Boca Juniors", "River Plate", day)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	if !strings.Contains(query, "home_team ILIKE $3 AND away_team ILIKE $4") {
		t.Fatalf("both team predicates must be conjunctive, got %q", query)
	}
	if strings.Contains(query, " OR ") {
		t.Fatalf("name pairing must not use OR, got %q", query)
	}
	if !strings.Contains(query, "ORDER BY kickoff_at, id") {
		t.Fatalf("candidate ordering missing, got %q", query)
	}

	if len(args) != 4 {
		t.Fatalf("expected 4 args, got %v", args)
	}
	if args[2] != "%Boca Juniors%" || args[3] != "%River Plate%" {
		t.Fatalf("unexpected name patterns: %v", args)
	}

	start, _ := args[0].(time.Time)
	end, _ := args[1].(time.Time)
	if !start.Equal(time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)) || !end.Equal(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("window must span the fixture's calendar day: %v .. %v", start, end)
	}
}
