package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ccheshirecat/folio/internal/contact"
	"github.com/ccheshirecat/folio/internal/session"
	"github.com/ccheshirecat/folio/internal/terminal"
)

// ContactService accepts contact form submissions.
type ContactService interface {
	Submit(ctx context.Context, sub contact.Submission) (*contact.Message, error)
}

// SessionServer runs interactive terminal sessions.
type SessionServer interface {
	Serve(ctx context.Context, conn session.Conn, remoteAddr string) error
}

// Params wires the public API.
type Params struct {
	Logger         *slog.Logger
	Contact        ContactService
	Sessions       SessionServer
	AllowedOrigins []string
}

// New constructs the public HTTP API serving the portfolio page.
func New(p Params) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(p.Logger))

	registry, err := terminal.Builtins()
	if err != nil {
		// The built-in table is static; failing here is a programming error.
		panic(err)
	}

	api := &apiServer{
		logger:   p.Logger,
		contact:  p.Contact,
		sessions: p.Sessions,
		commands: commandsResponse(registry),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(p.AllowedOrigins),
		},
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/commands", api.listCommands)
		v1.POST("/contact", api.submitContact)
	}

	r.GET("/ws/v1/terminal", api.terminalWebSocket)

	return r
}

// requestLogger adapts slog to Gin's middleware interface.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		args := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.String("latency", latency.String()),
			slog.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			args = append(args, slog.String("error", c.Errors.String()))
			logger.Error("http request", args...)
		} else {
			logger.Info("http request", args...)
		}
	}
}

// originChecker allows same-origin requests plus the configured origins.
// An empty allow list accepts every origin.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.TrimSuffix(strings.ToLower(o), "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}

type apiServer struct {
	logger   *slog.Logger
	contact  ContactService
	sessions SessionServer
	commands []commandResponse
	upgrader websocket.Upgrader
}

type commandResponse struct {
	Name     string `json:"name"`
	Usage    string `json:"usage"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
}

func commandsResponse(r *terminal.Registry) []commandResponse {
	out := make([]commandResponse, 0, r.Len())
	for _, cmd := range r.Commands() {
		out = append(out, commandResponse{
			Name:     cmd.Name,
			Usage:    cmd.Usage,
			Summary:  cmd.Summary,
			Category: string(cmd.Category),
		})
	}
	return out
}

func (api *apiServer) listCommands(c *gin.Context) {
	c.JSON(http.StatusOK, api.commands)
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

func (api *apiServer) submitContact(c *gin.Context) {
	if api.contact == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "contact form not available"})
		return
	}
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := api.contact.Submit(c.Request.Context(), contact.Submission{
		Name:     req.Name,
		Email:    req.Email,
		Message:  req.Message,
		RemoteIP: c.ClientIP(),
	})
	if err != nil {
		if errors.Is(err, contact.ErrInvalidSubmission) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		api.logger.Error("submit contact", "error", err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// terminalWebSocket upgrades the request and hands the connection to a session.
func (api *apiServer) terminalWebSocket(c *gin.Context) {
	if api.sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "terminal sessions not available"})
		return
	}
	conn, err := api.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		api.logger.Error("terminal ws upgrade", "error", err)
		return
	}
	defer conn.Close()

	if err := api.sessions.Serve(c.Request.Context(), conn, c.ClientIP()); err != nil {
		api.logger.Warn("terminal session", "error", err)
	}
}
