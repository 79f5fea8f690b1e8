package ui

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shotlens/app"
	"shotlens/domain/core"
	"shotlens/domain/tensor"
	"shotlens/internal/aggregate"
)

// handlePlayers lists selectable players from the event source.
func (s *Server) handlePlayers(c *gin.Context) {
	players, err := s.svc.ListPlayers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, players)
}

// handleInitialize builds a new session, replacing any existing one.
func (s *Server) handleInitialize(c *gin.Context) {
	var req InitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	s.applyDefaults(&req)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.svc.Initialize(c.Request.Context(), app.InitializeParams{
		Mode:           req.Mode,
		PlayerIDs:      req.PlayerIDs,
		GridXBins:      req.XBins,
		GridYBins:      req.YBins,
		TimeBinSeconds: req.TimeBinSeconds,
		Channel:        req.Channel,
		Dims:           tensor.LatentDims(req.LatentDims),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	s.sess = sess
	c.JSON(http.StatusOK, sessionResponse(sess))
}

// handleRecompute refits the decomposition with caller-chosen class weights.
func (s *Server) handleRecompute(c *gin.Context) {
	var req RecomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dims := tensor.LatentDims(req.LatentDims)
	if len(dims) == 0 && s.sess != nil {
		dims = s.sess.Dims
	}
	if err := s.svc.Recompute(c.Request.Context(), s.sess, req.ClassWeights, dims); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s.sess))
}

// handleAggregateCluster answers count and ratio queries over the raw
// tensor.
func (s *Server) handleAggregateCluster(c *gin.Context) {
	var req AggregateClusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	res, err := s.svc.AggregateCluster(s.sess, tensor.ClusterSelection(req.Cluster),
		req.Channel, req.Ratio, req.Weighted, timeBinOrAll(req.TimeBin))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AggregateClusterResponse{Values: res.Values, Attempts: res.Attempts})
}

// handleAnalyzeClusters returns the contribution map separating two
// clusters.
func (s *Server) handleAnalyzeClusters(c *gin.Context) {
	var req AnalyzeClustersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.svc.AnalyzeClusters(c.Request.Context(), s.sess, req.Cluster1, req.Cluster2, req.ZScore)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AnalyzeClustersResponse{Dims: m.Dims, Data: m.Data})
}

// handleClusterShots lists the raw shots behind a cluster.
func (s *Server) handleClusterShots(c *gin.Context) {
	var req ClusterShotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	shots, err := s.svc.ClusterShots(s.sess, tensor.ClusterSelection(req.Cluster), timeBinOrAll(req.TimeBin))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shots": toShotRecords(shots), "count": len(shots)})
}

func (s *Server) applyDefaults(req *InitializeRequest) {
	if req.XBins == 0 {
		req.XBins = s.defaults.XBins
	}
	if req.YBins == 0 {
		req.YBins = s.defaults.YBins
	}
	if req.TimeBinSeconds == 0 {
		req.TimeBinSeconds = s.defaults.TimeBinSeconds
	}
	if len(req.LatentDims) == 0 {
		req.LatentDims = s.defaults.LatentDims
	}
}

// timeBinOrAll treats an absent time_bin as the all-time aggregation.
func timeBinOrAll(tb *int) int {
	if tb == nil {
		return aggregate.AllTime
	}
	return *tb
}

func sessionResponse(sess *app.Session) SessionResponse {
	cohorts := make([]string, 0)
	seen := -1
	for _, ref := range sess.Index {
		if ref.CohortIndex > seen {
			cohorts = append(cohorts, ref.Cohort)
			seen = ref.CohortIndex
		}
	}
	resp := SessionResponse{
		Mode:       sess.Mode,
		Games:      sess.Rows(),
		TimeBins:   sess.Grid.TimeBins,
		Cells:      sess.Grid.NumCells(),
		Cohorts:    cohorts,
		Labels:     sess.Labels,
		LatentDims: sess.Dims,
	}
	if sess.Embedding != nil {
		rows, cols := sess.Embedding.Dims()
		resp.Embedding = make([][]float64, rows)
		for r := 0; r < rows; r++ {
			resp.Embedding[r] = make([]float64, cols)
			copy(resp.Embedding[r], sess.Embedding.RawRowView(r))
		}
	}
	return resp
}

// writeError maps domain errors onto HTTP statuses: precondition and
// lifecycle violations are the caller's fault, everything else is ours.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if core.IsPrecondition(err) || errors.Is(err, core.ErrNotInitialized) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"detail": err.Error()})
}
