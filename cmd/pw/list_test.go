package main

import (
	"strings"
	"testing"
)

func TestList_Empty(t *testing.T) {
	cfg := testConfig(t, "")
	if out := mustRun(t, "list", "favorites", "-c", cfg); out != "Favorites is empty.\n" {
		t.Errorf("output = %q", out)
	}
	if out := mustRun(t, "list", "smart-stats", "-c", cfg); out != "Smart Stats is empty.\n" {
		t.Errorf("output = %q", out)
	}
}

func TestList_UnknownName(t *testing.T) {
	cfg := testConfig(t, "")
	_, err := run(t, "", "list", "bookmarks", "-c", cfg)
	if err == nil || !strings.Contains(err.Error(), "unknown list") {
		t.Errorf("error = %v", err)
	}
}

// seedPit stores one pit record so its fields can be favorited.
func seedPit(t *testing.T, cfg, doc string) {
	t.Helper()
	mustRun(t, "record", "add", "pit", writeTemp(t, "pit.json", doc), "--id", "1", "-c", cfg)
}

func TestListAddFavorites(t *testing.T) {
	cfg := testConfig(t, "")
	seedPit(t, cfg, `{"auto_points":3}`)
	out := mustRun(t, "list", "add", "favorites", "auto_points", "-c", cfg)
	if !strings.Contains(out, "Added to favorites") || !strings.Contains(out, "Auto Points") {
		t.Errorf("output = %s", out)
	}

	_, err := run(t, "", "list", "add", "favorites", "auto_points", "-c", cfg)
	if err == nil || !strings.Contains(err.Error(), "Auto Points is already in favorites") {
		t.Errorf("duplicate error = %v", err)
	}

	out = mustRun(t, "list", "favorites", "-c", cfg)
	if strings.Count(out, "auto_points") != 1 {
		t.Errorf("favorites = %s", out)
	}
}

func TestListAddFavorites_UnknownField(t *testing.T) {
	cfg := testConfig(t, "")
	seedPit(t, cfg, `{"auto_points":3}`)
	_, err := run(t, "", "list", "add", "favorites", "auto_pionts", "-c", cfg)
	if err == nil || !strings.Contains(err.Error(), "invalid entry") {
		t.Errorf("error = %v", err)
	}
	if out := mustRun(t, "list", "favorites", "-c", cfg); out != "Favorites is empty.\n" {
		t.Errorf("rejected entry was saved: %s", out)
	}
}

func TestList_Candidates(t *testing.T) {
	cfg := testConfig(t, "")
	mustRun(t, "teams", "import", "e", writeTemp(t, "t.json", `[{"team_number":1,"nickname":"x"}]`), "-c", cfg)
	mustRun(t, "record", "add", "pit", writeTemp(t, "p.json", `{"drivetrain":"tank","weight":100}`), "--id", "1", "-c", cfg)
	mustRun(t, "list", "add", "favorites", "weight", "-c", cfg)

	out := mustRun(t, "list", "favorites", "--candidates", "-c", cfg)
	if !strings.Contains(out, "drivetrain (Drivetrain)") {
		t.Errorf("candidates missing drivetrain: %s", out)
	}
	if strings.Contains(out, "weight (Weight)") {
		t.Errorf("current favorite listed as candidate: %s", out)
	}
	if strings.Contains(out, "nickname") {
		t.Errorf("team list fields listed as candidates: %s", out)
	}
}

func TestListAddSmartStats_Invalid(t *testing.T) {
	cfg := testConfig(t, "")
	_, err := run(t, "", "list", "add", "smart_stats", "bad", "match", "auto +", "-c", cfg)
	if err == nil || !strings.Contains(err.Error(), "invalid entry") {
		t.Errorf("error = %v", err)
	}
	if out := mustRun(t, "list", "smart_stats", "-c", cfg); out != "Smart Stats is empty.\n" {
		t.Errorf("rejected entry was saved: %s", out)
	}
}

func TestListAddSmartResults(t *testing.T) {
	cfg := testConfig(t, "")
	out := mustRun(t, "list", "add", "smart_results", "max_climb", "match", "climb", "max", "--group-by", "event", "-c", cfg)
	if !strings.Contains(out, "match: max(climb) by event") {
		t.Errorf("output = %s", out)
	}
	if _, err := run(t, "", "list", "add", "smart_results", "x", "match", "climb", "median", "-c", cfg); err == nil {
		t.Error("unknown aggregation should fail")
	}
}

func TestListRm(t *testing.T) {
	cfg := testConfig(t, "")
	seedPit(t, cfg, `{"a":1,"b":2,"c":3}`)
	for _, f := range []string{"a", "b", "c"} {
		mustRun(t, "list", "add", "favorites", f, "-c", cfg)
	}

	out := mustRun(t, "list", "rm", "favorites", "1", "-c", cfg)
	if !strings.Contains(out, "Deleted entry 1 from favorites") {
		t.Errorf("output = %s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	last := strings.Fields(lines[len(lines)-1])
	if last[0] != "1" || last[len(last)-1] != "c" {
		t.Errorf("entries should shift down after delete: %q", lines)
	}
}

func TestListRm_OutOfRange(t *testing.T) {
	cfg := testConfig(t, "")
	seedPit(t, cfg, `{"a":1}`)
	mustRun(t, "list", "add", "favorites", "a", "-c", cfg)

	for _, idx := range []string{"1", "5"} {
		_, err := run(t, "", "list", "rm", "favorites", idx, "-c", cfg)
		if err == nil || !strings.Contains(err.Error(), "index out of range") {
			t.Errorf("rm %s error = %v", idx, err)
		}
	}
	if out := mustRun(t, "list", "favorites", "-c", cfg); !strings.Contains(out, "a") {
		t.Errorf("list changed after failed delete: %s", out)
	}
}
