// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/skillswap/skillswap/internal/app/features/health"
	ideasfeature "github.com/skillswap/skillswap/internal/app/features/ideas"
	notificationsfeature "github.com/skillswap/skillswap/internal/app/features/notifications"
	requestsfeature "github.com/skillswap/skillswap/internal/app/features/requests"
	skillsfeature "github.com/skillswap/skillswap/internal/app/features/skills"
	teamsfeature "github.com/skillswap/skillswap/internal/app/features/teams"
	wsfeature "github.com/skillswap/skillswap/internal/app/features/ws"
	ideastore "github.com/skillswap/skillswap/internal/app/store/ideas"
	notificationstore "github.com/skillswap/skillswap/internal/app/store/notifications"
	requeststore "github.com/skillswap/skillswap/internal/app/store/requests"
	skillstore "github.com/skillswap/skillswap/internal/app/store/skills"
	teamstore "github.com/skillswap/skillswap/internal/app/store/teams"
	userstore "github.com/skillswap/skillswap/internal/app/store/users"
	"github.com/skillswap/skillswap/internal/app/system/realtime"
	"github.com/skillswap/skillswap/internal/app/system/teamflow"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. SkillSwap wires the Mongo-backed stores
// into the team-formation service, creates the realtime hub, and mounts the
// JSON API plus the websocket endpoint.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	ideas := ideastore.New(db)
	requests := requeststore.New(db)
	teams := teamstore.New(db)
	notifications := notificationstore.New(db)
	users := userstore.New(db)
	skillsStore := skillstore.New(db)

	hub := realtime.NewHub(logger)
	flow := teamflow.NewService(ideas, requests, teams, notifications, hub, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	ideasHandler := ideasfeature.NewHandler(ideas, logger)
	r.Mount("/api/ideas", ideasfeature.Routes(ideasHandler))

	skillsHandler := skillsfeature.NewHandler(skillsStore, logger)
	r.Mount("/api/skills", skillsfeature.Routes(skillsHandler))

	requestsHandler := requestsfeature.NewHandler(flow, requests, users, ideas, logger)
	r.Mount("/api/requests", requestsfeature.Routes(requestsHandler))

	teamsHandler := teamsfeature.NewHandler(flow, teams, ideas, logger)
	r.Mount("/api/teams", teamsfeature.Routes(teamsHandler))

	notificationsHandler := notificationsfeature.NewHandler(notifications, logger)
	r.Mount("/api/notifications", notificationsfeature.Routes(notificationsHandler))

	wsHandler := wsfeature.NewHandler(hub, flow, appCfg.WSAllowedOrigins, logger)
	r.Mount("/ws", wsfeature.Routes(wsHandler))

	return r, nil
}
