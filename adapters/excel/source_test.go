package excel

import (
	"math"
	"testing"

	"shotlens/domain/court"
)

const tol = 1e-9

func TestNormalizeCoordinates_LeftSide(t *testing.T) {
	// Center-lateral shot right at the basket end.
	x, y, ok := normalizeCoordinates(0, 50, "left")
	if !ok {
		t.Fatal("front-court shot rejected")
	}
	if math.Abs(x) > tol {
		t.Errorf("court x = %v, want 0", x)
	}
	if math.Abs(y-court.CourtMinY) > tol {
		t.Errorf("court y = %v, want %v", y, court.CourtMinY)
	}

	// Half-court line maps to the top of the frame.
	_, y, ok = normalizeCoordinates(50, 50, "left")
	if !ok {
		t.Fatal("half-court shot rejected")
	}
	if math.Abs(y-422.5) > tol {
		t.Errorf("half-court y = %v, want 422.5", y)
	}
}

func TestNormalizeCoordinates_RightSideFlips(t *testing.T) {
	// The same physical shot recorded from each side must land on the same
	// canonical point.
	lx, ly, _ := normalizeCoordinates(10, 30, "left")
	rx, ry, ok := normalizeCoordinates(90, 70, "right")
	if !ok {
		t.Fatal("flipped shot rejected")
	}
	if math.Abs(lx-rx) > tol || math.Abs(ly-ry) > tol {
		t.Errorf("flip mismatch: left (%v,%v) vs right (%v,%v)", lx, ly, rx, ry)
	}
}

func TestNormalizeCoordinates_BackCourtDropped(t *testing.T) {
	if _, _, ok := normalizeCoordinates(60, 50, "left"); ok {
		t.Error("back-court shot kept")
	}
	// side=right flips first, so a small raw x is back-court.
	if _, _, ok := normalizeCoordinates(30, 50, "right"); ok {
		t.Error("flipped back-court shot kept")
	}
}

func TestNormalizeCoordinates_LateralRange(t *testing.T) {
	lo, _, _ := normalizeCoordinates(10, 0, "left")
	hi, _, _ := normalizeCoordinates(10, 100, "left")
	if math.Abs(lo-court.CourtMinX) > tol || math.Abs(hi-court.CourtMaxX) > tol {
		t.Errorf("lateral extremes = %v..%v, want %v..%v", lo, hi, court.CourtMinX, court.CourtMaxX)
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"10:00", 600},
		{"03:27", 207},
		{"0:05", 5},
		{"", 0},
		{"garbage", 0},
		{"3:xx", 0},
	}
	for _, tc := range cases {
		if got := parseClock(tc.in); got != tc.want {
			t.Errorf("parseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestActionMaps(t *testing.T) {
	// Made actions are a subset of shot actions.
	for id := range madeActionIDs {
		if !shotActionIDs[id] {
			t.Errorf("made action %d is not a shot action", id)
		}
	}
	for id := range threePointActionIDs {
		if !shotActionIDs[id] {
			t.Errorf("three-point action %d is not a shot action", id)
		}
	}
}

func TestActionTypeName(t *testing.T) {
	if got := actionTypeName(28, true); got != "Layup" {
		t.Errorf("action 28 = %q, want Layup", got)
	}
	if got := actionTypeName(12345, true); got != "Other" {
		t.Errorf("unknown action = %q, want Other", got)
	}
	if got := actionTypeName(0, false); got != "Other" {
		t.Errorf("absent action = %q, want Other", got)
	}
}

func TestParseRow_Filters(t *testing.T) {
	src := NewSource(Config{TeamFilter: "宇都宮"})
	header := []string{colAction1, colAction2, colGameID, colPeriod, colClock, colX, colY, colSide, colPlayerID, colPlayerName, colTeamName}
	cols, err := headerIndex(header)
	if err != nil {
		t.Fatalf("headerIndex failed: %v", err)
	}

	base := []string{"1", "28", "101", "2", "05:30", "20", "60", "left", "77", "比江島", "宇都宮ブレックス"}
	row := func(mutate func([]string)) []string {
		r := append([]string(nil), base...)
		if mutate != nil {
			mutate(r)
		}
		return r
	}

	parsed, keep, err := src.parseRow(cols, row(nil))
	if err != nil || !keep {
		t.Fatalf("valid row rejected: keep=%v err=%v", keep, err)
	}
	if parsed.event.GameID != 101 || parsed.event.EntityID != 77 {
		t.Errorf("ids wrong: %+v", parsed.event)
	}
	if !parsed.event.Made || parsed.event.PointValue != 3 {
		t.Errorf("action 1 must be a made three: %+v", parsed.event)
	}
	if parsed.event.RemainingSec != 330 {
		t.Errorf("remaining = %d, want 330", parsed.event.RemainingSec)
	}
	if parsed.event.ActionType != "Layup" {
		t.Errorf("action type = %q, want Layup", parsed.event.ActionType)
	}

	filterCases := []struct {
		name   string
		mutate func([]string)
	}{
		{"non-shot action", func(r []string) { r[0] = "17" }},
		{"other team", func(r []string) { r[10] = "千葉ジェッツ" }},
		{"missing coordinates", func(r []string) { r[5] = "" }},
		{"overtime period", func(r []string) { r[3] = "5" }},
		{"excluded tip-in", func(r []string) { r[1] = "92" }},
		{"back-court shot", func(r []string) { r[5] = "80" }},
	}
	for _, tc := range filterCases {
		t.Run(tc.name, func(t *testing.T) {
			_, keep, err := src.parseRow(cols, row(tc.mutate))
			if err != nil {
				t.Fatalf("filter case errored: %v", err)
			}
			if keep {
				t.Error("row kept, want filtered")
			}
		})
	}

	// Unparseable required numerics fail the batch.
	if _, _, err := src.parseRow(cols, row(func(r []string) { r[2] = "abc" })); err == nil {
		t.Error("bad game id must be fatal")
	}
	if _, _, err := src.parseRow(cols, row(func(r []string) { r[5] = "x" })); err == nil {
		t.Error("bad coordinate must be fatal")
	}
}

func TestHeaderIndex_MissingColumn(t *testing.T) {
	_, err := headerIndex([]string{colAction1, colGameID})
	if err == nil {
		t.Fatal("expected missing-column error")
	}
}
