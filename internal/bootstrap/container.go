// Package bootstrap arma las dependencias compartidas por el API y el CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	appanalytics "github.com/jhoicas/catalogo-api/internal/application/analytics"
	"github.com/jhoicas/catalogo-api/internal/application/auth"
	"github.com/jhoicas/catalogo-api/internal/application/cache"
	"github.com/jhoicas/catalogo-api/internal/application/ports"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/localstore"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/mail"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/catalogo-api/pkg/config"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

// Container colecciones, casos de uso y recursos abiertos del proceso.
type Container struct {
	Config *config.Config
	Log    *logger.Logger

	Pool  *pgxpool.Pool // nil si el almacén remoto no está configurado
	Local repository.SnapshotStore

	Products   *cache.Collection[entity.Product, entity.ProductPatch]
	Categories *cache.Collection[entity.Category, entity.CategoryPatch]
	Quotations *cache.Collection[entity.QuotationRequest, entity.QuotationPatch]
	FollowUps  *cache.Collection[entity.FollowUp, entity.FollowUpPatch]
	Visitors   *cache.Collection[entity.Visitor, entity.VisitorPatch]
	Sessions   *cache.Collection[entity.VisitorSession, entity.SessionPatch]
	AdminUsers *cache.Collection[entity.AdminUser, entity.AdminUserPatch]

	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	QuotationUC *usecase.QuotationUseCase
	FollowUpUC  *usecase.FollowUpUseCase
	VisitorUC   *usecase.VisitorUseCase
	ContactUC   *usecase.ContactUseCase
	AuthUC      *auth.AuthUseCase
	SessionGate *auth.SessionGate
	DashboardUC *appanalytics.DashboardUseCase
	StatusUC    *appanalytics.StatusUseCase

	resyncer *cache.Resyncer
}

// remotes adaptadores de Postgres; quedan nil (interfaz nil) sin pool.
type remotes struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	quotations repository.QuotationRepository
	followUps  repository.FollowUpRepository
	visitors   repository.VisitorRepository
	sessions   repository.VisitorSessionRepository
	adminUsers repository.AdminUserRepository
	health     appanalytics.RemoteHealth
}

// New abre el almacén local, el pool remoto (si hay credenciales) y construye
// colecciones y casos de uso. reg recibe las métricas de la caché; nil = registro por defecto.
// No carga las colecciones: ver Refetch.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, reg prometheus.Registerer) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		log.Info().Msg("almacén remoto no configurado: solo almacén local")
	case err != nil:
		// un DSN inválido no debe impedir servir desde el almacén local
		log.Error().Err(err).Msg("no se pudo crear el pool remoto: solo almacén local")
	default:
		c.Pool = pool
	}

	local, err := localstore.Open(cfg.Local.Driver, cfg.Local.Path, log.Component("localstore"))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("abrir almacén local: %w", err)
	}
	c.Local = local

	var r remotes
	if c.Pool != nil {
		r = remotes{
			products:   postgres.NewProductRepository(c.Pool),
			categories: postgres.NewCategoryRepository(c.Pool),
			quotations: postgres.NewQuotationRepository(c.Pool),
			followUps:  postgres.NewFollowUpRepository(c.Pool),
			visitors:   postgres.NewVisitorRepository(c.Pool),
			sessions:   postgres.NewVisitorSessionRepository(c.Pool),
			adminUsers: postgres.NewAdminUserRepository(c.Pool),
			health:     postgres.NewHealth(c.Pool, cfg.Cache.RemoteTimeout),
		}
	}

	adminSeed, err := auth.BootstrapAdmin(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Email)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("usuario administrador inicial: %w", err)
	}

	opts := cache.Options{
		Timeout: cfg.Cache.RemoteTimeout,
		Logger:  log.Component("cache"),
		Metrics: cache.NewMetrics(reg),
	}
	c.Products = cache.NewCollection(cache.ProductDescriptor(), r.products, local, opts)
	c.Categories = cache.NewCollection(cache.CategoryDescriptor(), r.categories, local, opts)
	c.Quotations = cache.NewCollection(cache.QuotationDescriptor(), r.quotations, local, opts)
	c.FollowUps = cache.NewCollection(cache.FollowUpDescriptor(), r.followUps, local, opts)
	c.Visitors = cache.NewCollection(cache.VisitorDescriptor(), r.visitors, local, opts)
	c.Sessions = cache.NewCollection(cache.SessionDescriptor(), r.sessions, local, opts)
	c.AdminUsers = cache.NewCollection(cache.AdminUserDescriptor(adminSeed), r.adminUsers, local, opts)

	mailer, err := mail.New(cfg.Mail)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("configurar correo: %w", err)
	}
	company := ports.CompanyInfo{
		Name:    cfg.Company.Name,
		Email:   cfg.Company.Email,
		Phone:   cfg.Company.Phone,
		Address: cfg.Company.Address,
	}

	c.ProductUC = usecase.NewProductUseCase(c.Products)
	c.CategoryUC = usecase.NewCategoryUseCase(c.Categories)
	c.QuotationUC = usecase.NewQuotationUseCase(c.Quotations, c.FollowUps, mailer, pdf.NewMarotoPDFGenerator(), company, log.Component("quotations"))
	c.FollowUpUC = usecase.NewFollowUpUseCase(c.FollowUps, c.Quotations)
	c.VisitorUC = usecase.NewVisitorUseCase(c.Visitors, c.Sessions)
	c.ContactUC = usecase.NewContactUseCase(mailer, company, log.Component("contact"))
	c.AuthUC = auth.NewAuthUseCase(c.AdminUsers, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth")).WithBootstrapAdmin(adminSeed)
	c.SessionGate = auth.NewSessionGate(local)
	c.DashboardUC = appanalytics.NewDashboardUseCase(c.Products, c.Quotations, c.FollowUpUC, c.VisitorUC)
	c.StatusUC = appanalytics.NewStatusUseCase(r.health, cfg.Local.Driver, c.collectionInfo(), c.Refetchers())

	if cfg.Cache.ResyncSpec != "" {
		c.resyncer, err = cache.NewResyncer(cfg.Cache.ResyncSpec, 0, log.Component("resync"), c.Refetchers()...)
		if err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

// Refetchers todas las colecciones, en el orden en que se cargan.
func (c *Container) Refetchers() []cache.Refetcher {
	return []cache.Refetcher{c.Products, c.Categories, c.Quotations, c.FollowUps, c.Visitors, c.Sessions, c.adminRefetcher()}
}

// adminUsersRefetcher recarga los administradores y vuelve a sembrar el inicial
// si el remoto no tiene ninguno.
type adminUsersRefetcher struct {
	*cache.Collection[entity.AdminUser, entity.AdminUserPatch]
	auth *auth.AuthUseCase
}

func (r adminUsersRefetcher) Refetch(ctx context.Context) error {
	if err := r.Collection.Refetch(ctx); err != nil {
		return err
	}
	return r.auth.EnsureBootstrapAdmin(ctx)
}

func (c *Container) adminRefetcher() cache.Refetcher {
	return adminUsersRefetcher{Collection: c.AdminUsers, auth: c.AuthUC}
}

// RefetchAdminUsers carga la colección de administradores (login de catalogctl).
func (c *Container) RefetchAdminUsers(ctx context.Context) error {
	return c.adminRefetcher().Refetch(ctx)
}

func (c *Container) collectionInfo() []appanalytics.CollectionInfo {
	return []appanalytics.CollectionInfo{c.Products, c.Categories, c.Quotations, c.FollowUps, c.Visitors, c.Sessions, c.AdminUsers}
}

// Refetch carga todas las colecciones. Solo falla si el almacén local falla.
func (c *Container) Refetch(ctx context.Context) error {
	return cache.RefetchAll(ctx, c.Refetchers()...)
}

// StartResync inicia la resincronización periódica si CACHE_RESYNC_SPEC está definido.
func (c *Container) StartResync() {
	if c.resyncer != nil {
		c.resyncer.Start()
	}
}

// Close libera el planificador, el almacén local y el pool, en ese orden.
func (c *Container) Close() {
	if c.resyncer != nil {
		c.resyncer.Stop()
	}
	if c.Local != nil {
		if err := c.Local.Close(); err != nil {
			c.Log.Error().Err(err).Msg("cerrar almacén local")
		}
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
