package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/utopia-ai/advisor/backend/internal/handler/agent"
	"github.com/utopia-ai/advisor/backend/internal/handler/chat"
	"github.com/utopia-ai/advisor/backend/internal/handler/stream"
	"github.com/utopia-ai/advisor/backend/internal/handler/ws"
	"github.com/utopia-ai/advisor/backend/internal/metrics"
	middlewarePkg "github.com/utopia-ai/advisor/backend/internal/middleware"
	agentModel "github.com/utopia-ai/advisor/backend/internal/model/agent"
	chatService "github.com/utopia-ai/advisor/backend/internal/service/chat"
	"github.com/utopia-ai/advisor/backend/pkg/utils"
)

// Deps collects what the router wires into handlers.
type Deps struct {
	Engine         *chatService.Engine
	Agents         agentModel.Store
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{
				"status":    "ok",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		agent.New(deps.Agents).RegisterRoutes(api)
		chat.New(deps.Engine, logger).RegisterRoutes(api)
		stream.New(deps.Engine, logger).RegisterRoutes(api)
		ws.New(deps.Engine, deps.AllowedOrigins, logger).RegisterRoutes(api)
	})

	return r
}
