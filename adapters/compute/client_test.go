package compute

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"shotlens/domain/core"
	"shotlens/domain/tensor"
	"shotlens/ports"
)

func sidecarStub(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL})
}

func TestFactorizer_FitThenRefit(t *testing.T) {
	var gotFit fitRequest
	var gotRefit refitRequest

	client := sidecarStub(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/factorize/fit":
			if err := json.NewDecoder(r.Body).Decode(&gotFit); err != nil {
				t.Errorf("decode fit request: %v", err)
			}
		case "/factorize/refit":
			if err := json.NewDecoder(r.Body).Decode(&gotRefit); err != nil {
				t.Errorf("decode refit request: %v", err)
			}
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(factorizationResponse{
			FitID:  "fit-1",
			Latent: [][]float64{{1, 2}, {3, 4}},
			Projections: [][][]float64{
				{{1}, {0}},
				{{0.5}, {0.5}},
			},
		})
	})

	f := NewFactorizer(client)
	slab := &tensor.ModeSlab{GamesN: 2, TimeBins: 1, Cells: 2, Data: []float64{1, 2, 3, 4}}

	fact, err := f.Fit(context.Background(), slab, []int{0, 1}, tensor.LatentDims{1, 1})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if len(gotFit.Shape) != 3 || gotFit.Shape[0] != 2 {
		t.Errorf("fit shape = %v", gotFit.Shape)
	}
	if len(gotFit.Data) != 4 || len(gotFit.Labels) != 2 {
		t.Errorf("fit payload wrong: %+v", gotFit)
	}
	rows, cols := fact.Latent.Dims()
	if rows != 2 || cols != 2 {
		t.Errorf("latent = %dx%d, want 2x2", rows, cols)
	}
	if len(fact.Projections) != 2 {
		t.Errorf("projections = %d, want 2", len(fact.Projections))
	}

	weights := []ports.ClassWeights{{Between: 1, Within: 1}, {Target: 1}}
	if _, err := f.RefitWithWeights(context.Background(), weights); err != nil {
		t.Fatalf("RefitWithWeights failed: %v", err)
	}
	if gotRefit.FitID != "fit-1" {
		t.Errorf("refit fit id = %q, want fit-1", gotRefit.FitID)
	}
	if len(gotRefit.Weights) != 2 || gotRefit.Weights[1].Target != 1 {
		t.Errorf("refit weights = %+v", gotRefit.Weights)
	}
}

func TestFactorizer_RefitBeforeFit(t *testing.T) {
	f := NewFactorizer(sidecarStub(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("sidecar must not be called")
	}))

	_, err := f.RefitWithWeights(context.Background(), nil)
	if !core.IsPrecondition(err) {
		t.Errorf("expected precondition error, got %v", err)
	}
}

func TestClient_SidecarErrorDetail(t *testing.T) {
	client := sidecarStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "rank too large"})
	})

	f := NewFactorizer(client)
	slab := &tensor.ModeSlab{GamesN: 1, TimeBins: 1, Cells: 1, Data: []float64{1}}
	_, err := f.Fit(context.Background(), slab, []int{0}, tensor.LatentDims{1, 1})
	if err == nil || !strings.Contains(err.Error(), "rank too large") {
		t.Errorf("expected detail in error, got %v", err)
	}
}

func TestEmbedder_ShapeChecked(t *testing.T) {
	client := sidecarStub(t, func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode embed request: %v", err)
		}
		if req.Seed != 42 {
			t.Errorf("seed = %d, want 42", req.Seed)
		}
		// One row short.
		json.NewEncoder(w).Encode(embedResponse{Embedding: [][]float64{{1, 2}}})
	})

	e := NewEmbedder(client, 0)
	x := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	_, err := e.FitTransform(context.Background(), x)
	if !errors.Is(err, core.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestEmbedder_RoundTrip(t *testing.T) {
	client := sidecarStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Embedding: [][]float64{{1, -1}, {2, -2}}})
	})

	e := NewEmbedder(client, 7)
	out, err := e.FitTransform(context.Background(), mat.NewDense(2, 3, nil))
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}
	if got := out.At(1, 1); got != -2 {
		t.Errorf("embedding[1][1] = %v, want -2", got)
	}
}

func TestEstimator_LengthChecked(t *testing.T) {
	var gotParams ports.ForestParams
	client := sidecarStub(t, func(w http.ResponseWriter, r *http.Request) {
		var req importanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode importance request: %v", err)
		}
		gotParams = req.Params
		json.NewEncoder(w).Encode(importanceResponse{Importances: []float64{0.5, 0.5}})
	})

	est := NewEstimator(client)
	x := mat.NewDense(6, 2, nil)
	imp, err := est.Fit(context.Background(), x, []int{0, 1, 0, 1, 0, 1}, ports.DefaultForestParams())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if len(imp) != 2 {
		t.Errorf("importances = %d, want 2", len(imp))
	}
	if gotParams.Trees != 300 || gotParams.Seed != 42 || !gotParams.Bootstrap {
		t.Errorf("params not forwarded: %+v", gotParams)
	}

	// Wrong width is a shape error.
	_, err = est.Fit(context.Background(), mat.NewDense(6, 3, nil), []int{0, 1, 0, 1, 0, 1}, ports.DefaultForestParams())
	if !errors.Is(err, core.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}
