package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	search "github.com/pdrpinto/chase"
	"github.com/pdrpinto/chase/grid"
	"github.com/pdrpinto/chase/internal/perflog"
)

type searchRequest struct {
	Strategy string      `json:"strategy" binding:"required"`
	Layout   []string    `json:"layout" binding:"required,max=1000"`
	Start    *grid.Coord `json:"start"`
	Goal     *grid.Coord `json:"goal"`
	Level    string      `json:"level"`
}

type compareRequest struct {
	Layout     []string    `json:"layout" binding:"required,max=1000"`
	Start      *grid.Coord `json:"start"`
	Goal       *grid.Coord `json:"goal"`
	Level      string      `json:"level"`
	Strategies []string    `json:"strategies"`
}

type resultResponse struct {
	RequestID       string           `json:"request_id,omitempty"`
	Algorithm       string           `json:"algorithm"`
	Found           bool             `json:"found"`
	Actions         []grid.Direction `json:"actions"`
	Cost            float64          `json:"cost"`
	PathLength      int              `json:"path_length"`
	ExpandedNodes   int              `json:"expanded_nodes"`
	ElapsedSeconds  float64          `json:"elapsed_seconds"`
	PeakMemoryBytes uint64           `json:"peak_memory_bytes"`
	Truncated       bool             `json:"truncated"`
}

func newResultResponse(strategy search.Strategy, result search.Result[grid.Direction]) resultResponse {
	return resultResponse{
		Algorithm:       strategy.DisplayName(),
		Found:           result.Found,
		Actions:         result.Actions,
		Cost:            result.Cost,
		PathLength:      result.PathLength(),
		ExpandedNodes:   result.ExpandedNodes,
		ElapsedSeconds:  result.Elapsed.Seconds(),
		PeakMemoryBytes: result.PeakMemory,
		Truncated:       result.Truncated,
	}
}

func levelOrDefault(level string) string {
	if level == "" {
		return "api"
	}
	return level
}

func (s *Server) handleStrategies(c *gin.Context) {
	strategies := make([]gin.H, 0, len(search.Strategies()))
	for _, strategy := range search.Strategies() {
		strategies = append(strategies, gin.H{"id": strategy.String(), "name": strategy.DisplayName()})
	}
	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if !bindJSON(c, &req) {
		return
	}
	strategy, err := search.ParseStrategy(req.Strategy)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err)
		return
	}
	maze, start, goal, err := scenario(req.Layout, req.Start, req.Goal)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err)
		return
	}

	requestID := newID()
	result, err := search.Solve(c.Request.Context(), strategy, grid.NewChaseProblem(maze, start, goal), s.searchOptions...)
	if err != nil {
		s.logger.Error("search failed", slog.String("request_id", requestID), slog.String("error", err.Error()))
		errorResponse(c, http.StatusInternalServerError, err)
		return
	}
	s.record(c, strategy, levelOrDefault(req.Level), result)

	response := newResultResponse(strategy, result)
	response.RequestID = requestID
	c.JSON(http.StatusOK, response)
}

func (s *Server) handleCompare(c *gin.Context) {
	var req compareRequest
	if !bindJSON(c, &req) {
		return
	}
	strategies := search.Strategies()
	if len(req.Strategies) > 0 {
		strategies = make([]search.Strategy, 0, len(req.Strategies))
		for _, name := range req.Strategies {
			strategy, err := search.ParseStrategy(name)
			if err != nil {
				errorResponse(c, http.StatusBadRequest, err)
				return
			}
			strategies = append(strategies, strategy)
		}
	}
	maze, start, goal, err := scenario(req.Layout, req.Start, req.Goal)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err)
		return
	}

	jobs := make([]search.Job[grid.Coord, grid.Direction], 0, len(strategies))
	for _, strategy := range strategies {
		jobs = append(jobs, search.Job[grid.Coord, grid.Direction]{
			Strategy: strategy,
			Problem:  grid.NewChaseProblem(maze, start, goal),
		})
	}
	results, err := search.SearchAll(c.Request.Context(), jobs, s.searchOptions...)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err)
		return
	}

	requestID := newID()
	responses := make([]resultResponse, 0, len(results))
	for i, result := range results {
		s.record(c, strategies[i], levelOrDefault(req.Level), result)
		responses = append(responses, newResultResponse(strategies[i], result))
	}
	c.JSON(http.StatusOK, gin.H{"request_id": requestID, "results": responses})
}

func (s *Server) record(c *gin.Context, strategy search.Strategy, level string, result search.Result[grid.Direction]) {
	entry := perflog.NewEntry(strategy.DisplayName(), level, result)
	if err := s.sink.Record(c.Request.Context(), entry); err != nil {
		s.logger.Warn("performance log write failed", slog.String("error", err.Error()))
	}
}

type sessionRequest struct {
	Strategy string      `json:"strategy" binding:"required"`
	Layout   []string    `json:"layout" binding:"max=1000"`
	Rows     int         `json:"rows" binding:"omitempty,min=5,max=1000"`
	Cols     int         `json:"cols" binding:"omitempty,min=5,max=1000"`
	Clusters int         `json:"clusters" binding:"omitempty,min=0,max=1000"`
	Steps    int         `json:"steps" binding:"omitempty,min=0,max=100000"`
	Density  *float64    `json:"density" binding:"omitempty,min=0,max=1"`
	Seed     *int64      `json:"seed"`
	Start    *grid.Coord `json:"start"`
	Goal     *grid.Coord `json:"goal"`
}

type sessionResponse struct {
	ID       string       `json:"id"`
	Strategy string       `json:"strategy"`
	Rows     int          `json:"rows"`
	Cols     int          `json:"cols"`
	Walls    []grid.Coord `json:"walls"`
	// Intersections are the open corner cells a renderer highlights.
	Intersections []grid.Coord `json:"intersections"`
	Start         grid.Coord   `json:"start"`
	Goal          grid.Coord   `json:"goal"`
}

// randomScenario mirrors the visualiser defaults: a 24x40 grid of
// clustered walls with the corners kept open. Binding has already bounded
// the size and walk lengths.
func randomScenario(req sessionRequest) (*grid.Maze, grid.Coord, grid.Coord, error) {
	rows, cols := 24, 40
	if req.Rows > 0 {
		rows = req.Rows
	}
	if req.Cols > 0 {
		cols = req.Cols
	}
	clusters, steps, density := 8, 200, 0.25
	if req.Clusters > 0 {
		clusters = req.Clusters
	}
	if req.Steps > 0 {
		steps = req.Steps
	}
	if req.Density != nil {
		density = *req.Density
	}
	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	start := grid.Coord{Row: 0, Col: 0}
	goal := grid.Coord{Row: rows - 1, Col: cols - 1}
	if req.Start != nil {
		start = *req.Start
	}
	if req.Goal != nil {
		goal = *req.Goal
	}
	maze, err := grid.RandomMaze(rows, cols, clusters, steps, density, seed, start, goal)
	if err != nil {
		return nil, grid.Coord{}, grid.Coord{}, err
	}
	return maze, start, goal, checkEndpoints(maze, start, goal)
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req sessionRequest
	if !bindJSON(c, &req) {
		return
	}
	strategy, err := search.ParseStrategy(req.Strategy)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err)
		return
	}

	var (
		maze        *grid.Maze
		start, goal grid.Coord
	)
	if len(req.Layout) > 0 {
		maze, start, goal, err = scenario(req.Layout, req.Start, req.Goal)
	} else {
		maze, start, goal, err = randomScenario(req)
	}
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err)
		return
	}

	stepper, err := search.NewStepper(strategy, grid.NewChaseProblem(maze, start, goal), s.searchOptions...)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err)
		return
	}
	id := newID()
	if err := s.add(id, &session{maze: maze, start: start, goal: goal, stepper: stepper, lastUsed: s.now()}); err != nil {
		errorResponse(c, http.StatusTooManyRequests, err)
		return
	}
	s.logger.Debug("session created", slog.String("id", id), slog.String("strategy", strategy.String()))

	c.JSON(http.StatusCreated, sessionResponse{
		ID:            id,
		Strategy:      strategy.String(),
		Rows:          maze.Rows(),
		Cols:          maze.Cols(),
		Walls:         maze.Walls(),
		Intersections: maze.Intersections(),
		Start:         start,
		Goal:          goal,
	})
}

type stepResponse struct {
	Step      int              `json:"step"`
	Current   grid.Coord       `json:"current"`
	Expanded  int              `json:"expanded"`
	Frontier  []grid.Coord     `json:"frontier"`
	Done      bool             `json:"done"`
	Found     bool             `json:"found"`
	Truncated bool             `json:"truncated"`
	Actions   []grid.Direction `json:"actions,omitempty"`
}

func (s *Server) handleStep(c *gin.Context) {
	current, err := s.lookup(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusNotFound, err)
		return
	}

	current.mu.Lock()
	snapshot, err := current.stepper.Step()
	current.lastUsed = s.now()
	current.mu.Unlock()
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, stepResponse{
		Step:      snapshot.StepIndex,
		Current:   snapshot.Current,
		Expanded:  snapshot.Expanded,
		Frontier:  snapshot.Frontier,
		Done:      snapshot.Done,
		Found:     snapshot.Found,
		Truncated: snapshot.Truncated,
		Actions:   snapshot.Actions,
	})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		errorResponse(c, http.StatusNotFound, errors.New("session not found"))
		return
	}
	c.Status(http.StatusNoContent)
}
