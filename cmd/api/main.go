package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/catalogo-api/internal/bootstrap"
	httpRouter "github.com/jhoicas/catalogo-api/internal/interfaces/http"
	"github.com/jhoicas/catalogo-api/pkg/config"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("local_store", cfg.Local.Driver).
		Bool("remote_configured", cfg.DB.Configured()).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}
	if cfg.Admin.Password == "" {
		log.Warn().Msg("ADMIN_PASSWORD vacío: no se sembrará el usuario administrador inicial")
	}

	ctx := context.Background()
	container, err := bootstrap.New(ctx, cfg, log, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar dependencias")
	}
	defer container.Close()

	// La primera carga siembra el catálogo si el almacén local está vacío.
	loadCtx, cancelLoad := context.WithTimeout(ctx, 2*cfg.Cache.RemoteTimeout)
	if err := container.Refetch(loadCtx); err != nil {
		log.Error().Err(err).Msg("carga inicial de colecciones")
	}
	cancelLoad()
	container.StartResync()

	metrics := httpRouter.NewMetrics(nil, nil)
	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:         cfg.App.Name,
		AllowOrigins: cfg.HTTP.AllowOrigins,
		SwaggerFile:  "./docs/swagger.json",
	}, metrics)

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   container.ProductUC,
		CategoryUC:  container.CategoryUC,
		QuotationUC: container.QuotationUC,
		FollowUpUC:  container.FollowUpUC,
		VisitorUC:   container.VisitorUC,
		ContactUC:   container.ContactUC,
		AuthUC:      container.AuthUC,
		DashboardUC: container.DashboardUC,
		StatusUC:    container.StatusUC,
		Metrics:     metrics,
		JWTSecret:   cfg.JWT.Secret,
		AppName:     cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
