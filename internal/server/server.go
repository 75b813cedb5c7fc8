// Package server exposes the search engine over HTTP: one-shot searches,
// side-by-side strategy comparisons and step-by-step sessions for
// visualisers.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	search "github.com/pdrpinto/chase"
	"github.com/pdrpinto/chase/grid"
	"github.com/pdrpinto/chase/internal/perflog"
)

// MaxBodyBytes bounds request bodies; a MaxSide x MaxSide layout fits.
const MaxBodyBytes = 4 << 20

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Logger        *slog.Logger
	Sink          perflog.Sink
	SearchOptions []search.Option
	MaxSessions   int
	// SessionTTL evicts sessions left unstepped for longer. Defaults to 10m.
	SessionTTL time.Duration
	// Gatherer backs GET /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Server holds the stepping sessions. Handlers are safe for concurrent use.
type Server struct {
	logger        *slog.Logger
	sink          perflog.Sink
	searchOptions []search.Option
	maxSessions   int
	sessionTTL    time.Duration
	gatherer      prometheus.Gatherer
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu      sync.Mutex
	maze    *grid.Maze
	start   grid.Coord
	goal    grid.Coord
	stepper *search.Stepper[grid.Coord, grid.Direction]
	// lastUsed is guarded by mu.
	lastUsed time.Time
}

// evictable reports whether the session is idle past ttl or, when the
// server is full, already finished.
func (entry *session) evictable(now time.Time, ttl time.Duration, full bool) bool {
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if now.Sub(entry.lastUsed) > ttl {
		return true
	}
	return full && entry.stepper.Done()
}

// New creates a Server.
func New(options Options) *Server {
	s := &Server{
		logger:        options.Logger,
		sink:          options.Sink,
		searchOptions: options.SearchOptions,
		maxSessions:   options.MaxSessions,
		sessionTTL:    options.SessionTTL,
		gatherer:      options.Gatherer,
		now:           time.Now,
		sessions:      make(map[string]*session),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.sink == nil {
		s.sink = perflog.Discard{}
	}
	if s.maxSessions <= 0 {
		s.maxSessions = 64
	}
	if s.sessionTTL <= 0 {
		s.sessionTTL = 10 * time.Minute
	}
	return s
}

// Router registers every route on a fresh gin engine.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), limitBody(MaxBodyBytes))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/v1")
	v1.GET("/strategies", s.handleStrategies)
	v1.POST("/search", s.handleSearch)
	v1.POST("/compare", s.handleCompare)
	v1.POST("/sessions", s.handleCreateSession)
	v1.POST("/sessions/:id/step", s.handleStep)
	v1.DELETE("/sessions/:id", s.handleDeleteSession)
	return router
}

func errorResponse(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func limitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// bindJSON decodes and validates the body, answering 413 or 400 on failure.
func bindJSON(c *gin.Context, target any) bool {
	err := c.ShouldBindJSON(target)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		errorResponse(c, http.StatusRequestEntityTooLarge, err)
		return false
	}
	errorResponse(c, http.StatusBadRequest, err)
	return false
}

// scenario resolves a posted layout plus optional endpoints. Missing
// endpoints are read from 'S' and 'G' markers in the layout.
func scenario(layout []string, start, goal *grid.Coord) (*grid.Maze, grid.Coord, grid.Coord, error) {
	if start == nil || goal == nil {
		maze, markedStart, markedGoal, err := grid.ParseScenario(layout)
		if err != nil {
			return nil, grid.Coord{}, grid.Coord{}, err
		}
		if start != nil {
			markedStart = *start
		}
		if goal != nil {
			markedGoal = *goal
		}
		return maze, markedStart, markedGoal, checkEndpoints(maze, markedStart, markedGoal)
	}
	maze, err := grid.ParseMaze(layout)
	if err != nil {
		return nil, grid.Coord{}, grid.Coord{}, err
	}
	return maze, *start, *goal, checkEndpoints(maze, *start, *goal)
}

func checkEndpoints(maze *grid.Maze, start, goal grid.Coord) error {
	if maze.IsWall(start) {
		return fmt.Errorf("%w: start %s is a wall or out of bounds", grid.ErrBadMaze, start)
	}
	if maze.IsWall(goal) {
		return fmt.Errorf("%w: goal %s is a wall or out of bounds", grid.ErrBadMaze, goal)
	}
	return nil
}

func (s *Server) lookup(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	return current, nil
}

func (s *Server) add(id string, created *session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.evictLocked(now, false)
	if len(s.sessions) >= s.maxSessions {
		s.evictLocked(now, true)
	}
	if len(s.sessions) >= s.maxSessions {
		return fmt.Errorf("session limit %d reached", s.maxSessions)
	}
	s.sessions[id] = created
	return nil
}

func (s *Server) evictLocked(now time.Time, full bool) {
	for id, existing := range s.sessions {
		if existing.evictable(now, s.sessionTTL, full) {
			delete(s.sessions, id)
			s.logger.Debug("session evicted", slog.String("id", id))
		}
	}
}

func newID() string { return uuid.NewString() }
