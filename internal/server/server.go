// Package server exposes a running game over HTTP
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tursodatabase/tursotris/internal/tetris"
	"golang.org/x/sync/errgroup"
)

const (
	eventBuffer     = 64
	shutdownTimeout = 5 * time.Second
)

// Server serves the state of one threaded game and queues moves into it
type Server struct {
	game    tetris.Threaded
	catalog *tetris.Catalog
	ranking *tetris.Ranking
	router  *gin.Engine
}

type pieceInfo struct {
	ID           tetris.PieceID       `json:"id"`
	Name         string               `json:"name"`
	Orientations []tetris.Orientation `json:"orientations"`
}

type moveRequest struct {
	Move string `json:"move" binding:"required"`
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// New creates a server for game. ranking may be nil.
func New(game tetris.Threaded, catalog *tetris.Catalog, ranking *tetris.Ranking) *Server {
	s := &Server{
		game:    game,
		catalog: catalog,
		ranking: ranking,
		router:  gin.New(),
	}
	s.router.Use(gin.Recovery())
	s.router.GET("/state", s.state)
	s.router.GET("/pieces", s.pieces)
	s.router.GET("/ranking", s.rankingEntries)
	s.router.GET("/events", s.events)
	s.router.POST("/moves", s.move)
	s.router.POST("/pause", s.pause)
	s.router.POST("/resume", s.resume)
	return s
}

// Handler returns the http handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is done
func (s *Server) Run(ctx context.Context, addr string) error {
	g, ctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) state(c *gin.Context) {
	c.JSON(http.StatusOK, s.game.Snapshot())
}

func (s *Server) pieces(c *gin.Context) {
	pieces := make([]pieceInfo, 0, s.catalog.Count())
	for _, id := range s.catalog.IDs() {
		shape, err := s.catalog.Shape(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		pieces = append(pieces, pieceInfo{ID: id, Name: shape.Name, Orientations: shape.Orientations})
	}
	c.JSON(http.StatusOK, pieces)
}

func (s *Server) rankingEntries(c *gin.Context) {
	if s.ranking == nil {
		c.JSON(http.StatusOK, []tetris.RankingEntry{})
		return
	}
	c.JSON(http.StatusOK, s.ranking.Entries())
}

func (s *Server) move(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	move, err := tetris.ParseMove(req.Move)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.game.DoMove(move)
	c.JSON(http.StatusAccepted, gin.H{"move": move.String()})
}

func (s *Server) pause(c *gin.Context) {
	s.game.Pause()
	c.JSON(http.StatusOK, gin.H{"paused": s.game.IsPaused()})
}

func (s *Server) resume(c *gin.Context) {
	s.game.Resume()
	c.JSON(http.StatusOK, gin.H{"paused": s.game.IsPaused()})
}

// events streams game events. The first event is the current state; events are
// dropped for clients that fall behind.
func (s *Server) events(c *gin.Context) {
	ch := make(chan tetris.Event, eventBuffer)
	cancel := s.game.Subscribe(func(event tetris.Event) {
		select {
		case ch <- event:
		default:
		}
	})
	defer cancel()

	c.SSEvent("state", s.game.Snapshot())
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case event := <-ch:
			c.SSEvent(event.Type.String(), event)
			return true
		}
	})
}
