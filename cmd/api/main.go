package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/hibiken/asynq"

	"github.com/jhoicas/grocery-api/internal/application/auth"
	"github.com/jhoicas/grocery-api/internal/application/export"
	"github.com/jhoicas/grocery-api/internal/application/notification"
	"github.com/jhoicas/grocery-api/internal/application/order"
	"github.com/jhoicas/grocery-api/internal/application/ports"
	"github.com/jhoicas/grocery-api/internal/application/sectionrequest"
	"github.com/jhoicas/grocery-api/internal/application/usecase"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
	"github.com/jhoicas/grocery-api/internal/infrastructure/csvexport"
	"github.com/jhoicas/grocery-api/internal/infrastructure/mail"
	"github.com/jhoicas/grocery-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/grocery-api/internal/infrastructure/pdf"
	"github.com/jhoicas/grocery-api/internal/infrastructure/postgres"
	"github.com/jhoicas/grocery-api/internal/infrastructure/queue"
	infraredis "github.com/jhoicas/grocery-api/internal/infrastructure/redis"
	"github.com/jhoicas/grocery-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/grocery-api/internal/interfaces/http"
	"github.com/jhoicas/grocery-api/pkg/config"
	"github.com/jhoicas/grocery-api/pkg/logger"
)

// stores repositorios y runners de transacción del driver elegido.
type stores struct {
	users           repository.UserRepository
	sections        repository.SectionRepository
	products        repository.ProductRepository
	sectionRequests repository.SectionRequestRepository
	orders          repository.OrderRepository
	exportJobs      repository.ExportJobRepository
	workflowTx      sectionrequest.TxRunner
	checkoutTx      order.TxRunner
	close           func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	// Redis es opcional para la API: sin él el catálogo se lee siempre de la base de datos.
	var cache ports.CatalogCache
	redisClient, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, caché del catálogo desactivada")
	} else {
		defer redisClient.Close()
		cache = infraredis.NewCatalogCache(redisClient)
	}

	catalogUC := usecase.NewCatalogUseCase(st.sections, st.products, cache, usecase.CatalogOptions{
		TTL:          cfg.Cache.CatalogTTL,
		StoreTimeout: cfg.Timeouts.Store,
		CacheTimeout: cfg.Timeouts.Cache,
	}, log.Component("catalog"))

	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	gate := auth.NewGate(st.users, cfg.JWT.Secret)
	sectionUC := usecase.NewSectionUseCase(st.sections, catalogUC)
	productUC := usecase.NewProductUseCase(st.products, st.sections, catalogUC)
	requestUC := sectionrequest.NewUseCase(st.sectionRequests, st.workflowTx, catalogUC)
	orderUC := order.NewUseCase(st.checkoutTx, st.users, st.orders, catalogUC, order.Options{
		AllowNegativeStock: cfg.Checkout.AllowNegativeStock,
	})

	// Exportación CSV: la API solo encola; el worker puede correr embebido o en cmd/worker.
	redisOpt := queue.RedisOpt(cfg.Redis)
	queueClient := queue.NewClient(redisOpt, cfg.Export.Queue)
	defer queueClient.Close()
	exportUC := export.NewUseCase(st.exportJobs, st.products, queueClient, csvexport.NewWriter(cfg.Export.Dir))

	var worker *asynq.Server
	if cfg.Export.EmbeddedWorker {
		worker = queue.NewServer(redisOpt, cfg.Export, log.Component("export-worker"))
		if err := worker.Start(queue.NewMux(exportUC, log.Component("export-worker"))); err != nil {
			log.Fatal().Err(err).Msg("arrancar worker de exportación")
		}
	}

	// Jobs de correo
	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Scheduler.Timezone).Msg("zona horaria del scheduler")
	}
	jobs := notification.NewJobs(
		st.users, st.orders,
		mail.NewSMTPSender(cfg.Mail),
		infrapdf.NewActivityReportRenderer(),
		notification.Options{
			InactivityThreshold: cfg.Scheduler.InactivityThreshold,
			Location:            loc,
			MailTimeout:         cfg.Timeouts.Mail,
		},
		log.Component("notification"),
	)
	sched := scheduler.New(loc, cfg.Timeouts.Job, log.Component("scheduler"))
	if cfg.Scheduler.Enabled {
		if err := sched.Register("reminders", cfg.Scheduler.ReminderCron, jobs.SendReminders); err != nil {
			log.Fatal().Err(err).Msg("registrar job de recordatorios")
		}
		if err := sched.Register("monthly_report", cfg.Scheduler.ReportCron, jobs.SendMonthlyReports); err != nil {
			log.Fatal().Err(err).Msg("registrar job de reporte mensual")
		}
		sched.Start()
		log.Info().Int("jobs", sched.Len()).Str("timezone", loc.String()).Msg("scheduler iniciado")
	}

	app := httpRouter.NewApp(cfg.App.Name, httpRouter.RouterDeps{
		AuthUC:           authUC,
		Gate:             gate,
		SectionUC:        sectionUC,
		CatalogUC:        catalogUC,
		ProductUC:        productUC,
		SectionRequestUC: requestUC,
		OrderUC:          orderUC,
		ExportUC:         exportUC,
		JWTSecret:        cfg.JWT.Secret,
		RequestTimeout:   cfg.Timeouts.Request,
		Log:              log.Component("http"),
	})

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Grocery API",
	}))

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
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del scheduler")
	}
	if worker != nil {
		worker.Shutdown()
	}

	log.Info().Msg("aplicación detenida")
}

// openStores conecta el driver configurado. "memory" no persiste nada y sirve para demos locales.
func openStores(ctx context.Context, cfg config.DBConfig) (*stores, error) {
	if cfg.Driver == "memory" {
		m := memory.NewStore()
		return &stores{
			users:           m.Users(),
			sections:        m.Sections(),
			products:        m.Products(),
			sectionRequests: m.SectionRequests(),
			orders:          m.Orders(),
			exportJobs:      m.ExportJobs(),
			workflowTx:      m,
			checkoutTx:      m,
			close:           func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	tx := postgres.NewTxRunner(pool)
	return &stores{
		users:           postgres.NewUserRepository(pool),
		sections:        postgres.NewSectionRepository(pool),
		products:        postgres.NewProductRepository(pool),
		sectionRequests: postgres.NewSectionRequestRepository(pool),
		orders:          postgres.NewOrderRepository(pool),
		exportJobs:      postgres.NewExportJobRepository(pool),
		workflowTx:      tx,
		checkoutTx:      tx,
		close:           pool.Close,
	}, nil
}
