package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tiredaf123/fitflow--G3-sub001/docs"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/api/handlers"
	mw "github.com/tiredaf123/fitflow--G3-sub001/internal/app/api/middleware"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/chathub"
	contentsvc "github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/content"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/identity"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/membership"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/messaging"
	planssvc "github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/plans"
	cfgpkg "github.com/tiredaf123/fitflow--G3-sub001/pkg/config"
	metrics "github.com/tiredaf123/fitflow--G3-sub001/pkg/metrics"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(
	r *gin.Engine,
	log *zap.SugaredLogger,
	cfg *cfgpkg.Config,
	identitySvc *identity.Service,
	membershipMgr membership.Manager,
	messagingSvc *messaging.Service,
	hub *chathub.Hub,
	plansSvc *planssvc.Service,
	contentSvc *contentsvc.Service,
) {
	// Prometheus metrics on a side listener
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			MetricsList: []*metrics.Metric{metrics.MetricWebhookEvents},
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: health, swagger, auth, webhook, websocket handshake
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	pubV1 := pub.Group("/api/v1")
	handlers.RegisterAuthRoutes(pubV1, identitySvc)
	// webhook authenticates via signature, never via bearer token
	handlers.RegisterBillingWebhookRoutes(pubV1, membershipMgr, log)
	// websocket authenticates inside the handler before the upgrade
	handlers.RegisterChatSocketRoutes(pub, hub, cfg, log)

	// Authenticated group
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.AuthMiddleware(cfg))
	handlers.RegisterProfileRoutes(apiV1, identitySvc)
	handlers.RegisterMembershipRoutes(apiV1, membershipMgr)
	handlers.RegisterMessageRoutes(apiV1, messagingSvc)
	handlers.RegisterPlanRoutes(apiV1, plansSvc)
	handlers.RegisterContentRoutes(apiV1, contentSvc)

	// Trainer/admin group
	admin := apiV1.Group("/admin")
	admin.Use(mw.RequireRole(types.RoleTrainer, types.RoleAdmin))
	handlers.RegisterAdminPlanRoutes(admin, plansSvc)
	handlers.RegisterAdminContentRoutes(admin, contentSvc)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
