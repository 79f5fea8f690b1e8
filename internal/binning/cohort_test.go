package binning

import (
	"testing"

	"shotlens/domain/court"
	"shotlens/domain/tensor"
)

func TestBuildCohorts_JointKeysAndLabels(t *testing.T) {
	grid := twoCellGrid(t)

	// Both cohorts reuse game id 7; the joint key keeps their rows distinct.
	a := TeamSeasonCohort{Season: "2022-23", Events: []court.ShotEvent{shot(7, -100, true)}}
	b := TeamSeasonCohort{Season: "2023-24", Events: []court.ShotEvent{shot(7, 100, false), shot(9, 100, true)}}

	res, err := BuildCohorts(grid, a, b)
	if err != nil {
		t.Fatalf("BuildCohorts failed: %v", err)
	}

	if res.Tensor.GamesN != 3 {
		t.Fatalf("expected 3 rows, got %d", res.Tensor.GamesN)
	}

	wantIDs := []int64{7, GameIDOffset + 7, GameIDOffset + 9}
	wantLabels := []int{0, 1, 1}
	for i, ref := range res.Index {
		if ref.GameID != wantIDs[i] {
			t.Errorf("row %d game id = %d, want %d", i, ref.GameID, wantIDs[i])
		}
		if ref.CohortIndex != wantLabels[i] {
			t.Errorf("row %d label = %d, want %d", i, ref.CohortIndex, wantLabels[i])
		}
	}
	if res.Index[0].Cohort != "2022-23" || res.Index[1].Cohort != "2023-24" {
		t.Errorf("cohort names wrong: %+v", res.Index)
	}

	// Retained events carry the relabeled joint keys so shot listings can
	// match rows directly.
	for _, ev := range res.Events {
		if ev.GameID != wantIDs[0] && ev.GameID != wantIDs[1] && ev.GameID != wantIDs[2] {
			t.Errorf("event kept original game id %d", ev.GameID)
		}
	}

	if got := res.Tensor.At(0, 0, 0, tensor.ChannelMakes); got != 1 {
		t.Errorf("cohort A makes = %v, want 1", got)
	}
	if got := res.Tensor.At(1, 0, 1, tensor.ChannelMisses); got != 1 {
		t.Errorf("cohort B misses = %v, want 1", got)
	}
}

func TestBuildCohorts_EightDigitGameIDsStayDistinct(t *testing.T) {
	grid := twoCellGrid(t)

	// NBA shot-detail ids run to 8 digits. These two are exactly one million
	// apart, which a smaller stride would fold onto the same joint key.
	a := TeamSeasonCohort{Season: "2021-22", Events: []court.ShotEvent{shot(21900001, -100, true)}}
	b := TeamSeasonCohort{Season: "2020-21", Events: []court.ShotEvent{shot(20900001, 100, false)}}

	res, err := BuildCohorts(grid, a, b)
	if err != nil {
		t.Fatalf("BuildCohorts failed: %v", err)
	}

	if res.Tensor.GamesN != 2 {
		t.Fatalf("expected 2 rows, got %d", res.Tensor.GamesN)
	}
	if res.Index[0].GameID != 21900001 || res.Index[0].CohortIndex != 0 {
		t.Errorf("row 0 = %+v, want cohort 0 game 21900001", res.Index[0])
	}
	if res.Index[1].GameID != GameIDOffset+20900001 || res.Index[1].CohortIndex != 1 {
		t.Errorf("row 1 = %+v, want cohort 1 game %d", res.Index[1], GameIDOffset+20900001)
	}
	// No cross-cohort accumulation: each row carries only its own attempt.
	if got := res.Tensor.At(0, 0, 0, tensor.ChannelAttempts); got != 1 {
		t.Errorf("row 0 attempts = %v, want 1", got)
	}
	if got := res.Tensor.At(1, 0, 1, tensor.ChannelAttempts); got != 1 {
		t.Errorf("row 1 attempts = %v, want 1", got)
	}
}

func TestBuildCohorts_LabelsHelper(t *testing.T) {
	grid := twoCellGrid(t)

	res, err := BuildCohorts(grid,
		PlayerCohort{PlayerID: 1, Name: "Alice", Events: []court.ShotEvent{shot(1, -100, true)}},
		PlayerCohort{PlayerID: 2, Events: []court.ShotEvent{shot(1, 100, true)}},
	)
	if err != nil {
		t.Fatalf("BuildCohorts failed: %v", err)
	}

	labels := res.Index.Labels()
	if len(labels) != 2 || labels[0] != 0 || labels[1] != 1 {
		t.Errorf("labels = %v, want [0 1]", labels)
	}
	if res.Index[0].Cohort != "Alice" {
		t.Errorf("named cohort label = %q", res.Index[0].Cohort)
	}
	if res.Index[1].Cohort != "player_2" {
		t.Errorf("fallback cohort label = %q", res.Index[1].Cohort)
	}
}

func TestBuildCohorts_EmptyCohortContributesNoRows(t *testing.T) {
	grid := twoCellGrid(t)

	res, err := BuildCohorts(grid,
		PlayerCohort{PlayerID: 1, Events: []court.ShotEvent{shot(1, -100, true)}},
		PlayerCohort{PlayerID: 2},
	)
	if err != nil {
		t.Fatalf("BuildCohorts failed: %v", err)
	}
	if res.Tensor.GamesN != 1 {
		t.Errorf("rows = %d, want 1", res.Tensor.GamesN)
	}
}
