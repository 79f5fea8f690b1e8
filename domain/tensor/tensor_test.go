package tensor

import (
	"errors"
	"testing"

	"shotlens/domain/core"
)

func TestShotTensor_AddAndSlab(t *testing.T) {
	st := NewShotTensor(2, 3, 4)

	st.Add(1, 2, 3, ChannelAttempts, 1)
	st.Add(1, 2, 3, ChannelAttempts, 1)
	st.Set(0, 0, 0, ChannelMakes, 5)

	if got := st.At(1, 2, 3, ChannelAttempts); got != 2 {
		t.Errorf("attempts = %v, want 2", got)
	}
	if got := st.At(0, 0, 0, ChannelMakes); got != 5 {
		t.Errorf("makes = %v, want 5", got)
	}
	// Neighboring positions stay untouched.
	if got := st.At(1, 2, 2, ChannelAttempts); got != 0 {
		t.Errorf("neighbor cell = %v, want 0", got)
	}
	if got := st.At(1, 2, 3, ChannelMakes); got != 0 {
		t.Errorf("neighbor channel = %v, want 0", got)
	}

	slab := st.ChannelSlab(ChannelAttempts)
	if slab.GamesN != 2 || slab.TimeBins != 3 || slab.Cells != 4 {
		t.Fatalf("slab shape = %dx%dx%d", slab.GamesN, slab.TimeBins, slab.Cells)
	}
	if got := slab.At(1, 2, 3); got != 2 {
		t.Errorf("slab value = %v, want 2", got)
	}
	if len(slab.Data) != 24 {
		t.Errorf("slab length = %d, want 24", len(slab.Data))
	}
}

func TestShotTensor_GameTotal(t *testing.T) {
	st := NewShotTensor(2, 2, 2)
	st.Set(0, 0, 0, ChannelAttempts, 3)
	st.Set(0, 1, 1, ChannelAttempts, 4)
	st.Set(1, 0, 0, ChannelAttempts, 9)

	if got := st.GameTotal(0, ChannelAttempts); got != 7 {
		t.Errorf("game 0 total = %v, want 7", got)
	}
	if got := st.GameTotal(1, ChannelAttempts); got != 9 {
		t.Errorf("game 1 total = %v, want 9", got)
	}
}

func TestShotTensor_CloneIsIndependent(t *testing.T) {
	st := NewShotTensor(1, 1, 1)
	st.Set(0, 0, 0, ChannelPoints, 2)

	clone := st.Clone()
	clone.Set(0, 0, 0, ChannelPoints, 99)

	if got := st.At(0, 0, 0, ChannelPoints); got != 2 {
		t.Errorf("original mutated through clone: %v", got)
	}
}

func TestClusterSelection_Resolve(t *testing.T) {
	// Empty selection means every row.
	all, err := ClusterSelection(nil).Resolve(3)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(all) != 3 || all[0] != 0 || all[2] != 2 {
		t.Errorf("expected [0 1 2], got %v", all)
	}

	subset, err := ClusterSelection{2, 0}.Resolve(3)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(subset) != 2 || subset[0] != 2 || subset[1] != 0 {
		t.Errorf("expected [2 0], got %v", subset)
	}

	if _, err := (ClusterSelection{3}).Resolve(3); !errors.Is(err, core.ErrSelectionRange) {
		t.Errorf("expected ErrSelectionRange, got %v", err)
	}
	if _, err := (ClusterSelection{-1}).Resolve(3); !errors.Is(err, core.ErrSelectionRange) {
		t.Errorf("expected ErrSelectionRange, got %v", err)
	}
}

func TestLatentDims_Product(t *testing.T) {
	if got := (LatentDims{4, 3, 5}).Product(); got != 60 {
		t.Errorf("product = %d, want 60", got)
	}
	if got := (LatentDims{7}).Product(); got != 7 {
		t.Errorf("single-mode product = %d, want 7", got)
	}
}
