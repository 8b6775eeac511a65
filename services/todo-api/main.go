package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/todo-app/todo-backend/pkg/apihelpers"
	mw "github.com/todo-app/todo-backend/pkg/apihelpers/middlewares"
	"github.com/todo-app/todo-backend/services/todo-api/apihandlers"
)

func main() {
	defer todoUserDBService.Close()

	// Start webserver
	router := gin.New()
	router.Use(gin.Recovery(), mw.RequestID(), mw.RequestLogger(slog.Default()))
	router.Use(mw.NewRequestMetrics(prometheus.DefaultRegisterer, "todo").Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.GinConfig.AllowOrigins,
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length", mw.HeaderRequestID},
		ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length", mw.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add handlers
	router.GET("/", apihandlers.HealthCheckHandle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	apiRoot := router.Group(conf.GinConfig.RoutePrefix)

	todoHandlers := apihandlers.NewHTTPHandler(
		userManagementService,
		!conf.GinConfig.InsecureCookie,
	)
	todoHandlers.AddTodoAPI(apiRoot)

	if conf.GinConfig.DebugMode && conf.GinConfig.RoutesFile != "" {
		if err := apihelpers.WriteRoutesToFile(router, conf.GinConfig.RoutesFile); err != nil {
			slog.Warn("failed to write routes file", slog.String("error", err.Error()))
		}
	}

	// Start the server
	slog.Info("Starting Todo API on port " + conf.GinConfig.Port)
	if !conf.GinConfig.MTLS.Use {
		err := router.Run(":" + conf.GinConfig.Port)
		if err != nil {
			slog.Error("Exited Todo API", slog.String("error", err.Error()))
			return
		}
	} else {
		tlsConfig, err := apihelpers.LoadTLSConfig(conf.GinConfig.MTLS.CertificatePaths)
		if err != nil {
			slog.Error("Error loading TLS config.", slog.String("error", err.Error()))
			return
		}

		server := &http.Server{
			Addr:      ":" + conf.GinConfig.Port,
			Handler:   router,
			TLSConfig: tlsConfig,
		}

		err = server.ListenAndServeTLS(conf.GinConfig.MTLS.CertificatePaths.ServerCertPath, conf.GinConfig.MTLS.CertificatePaths.ServerKeyPath)
		if err != nil {
			slog.Error("Exited Todo API", slog.String("error", err.Error()))
			return
		}
	}
}
