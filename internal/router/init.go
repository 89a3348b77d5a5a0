package router

import (
	app "github.com/taivex/taivex/internal/application"
	"github.com/taivex/taivex/internal/container"
	pginfra "github.com/taivex/taivex/internal/infrastructure/postgres"
	handlers "github.com/taivex/taivex/internal/interface/http"
	"github.com/taivex/taivex/internal/router/modules"
	"github.com/taivex/taivex/pkg/helpers"
)

// Deps holds every constructed service and handler so tests and the seed
// command can reuse the same wiring.
type Deps struct {
	Auth         *app.AuthService
	Customers    *app.CustomerService
	Orders       *app.OrderService
	Measurements *app.MeasurementService
	Categories   *app.CategoryService
	Reminders    *app.ReminderService
	Dashboard    *app.DashboardService
	Shop         *app.ShopService
	Export       *app.ExportService
	Billing      *app.BillingService

	AuthHandler        *handlers.AuthHandler
	CustomerHandler    *handlers.CustomerHandler
	OrderHandler       *handlers.OrderHandler
	MeasurementHandler *handlers.MeasurementHandler
	CategoryHandler    *handlers.CategoryHandler
	ReminderHandler    *handlers.ReminderHandler
	DashboardHandler   *handlers.DashboardHandler
	SettingsHandler    *handlers.SettingsHandler
	BillHandler        *handlers.BillHandler
}

// BuildDeps wires repositories, services and handlers from the container
// singletons.
func BuildDeps() *Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	rdb := container.GetRedis()

	accounts := pginfra.NewAccountRepository(pool)
	customers := pginfra.NewCustomerRepository(pool)
	orders := pginfra.NewOrderRepository(pool)
	measurements := pginfra.NewMeasurementRepository(pool)
	categories := pginfra.NewCategoryRepository(pool)
	reminders := pginfra.NewReminderRepository(pool)
	profiles := pginfra.NewShopProfileRepository(pool)
	dashboard := pginfra.NewDashboardRepository(pool)

	// a nil publisher keeps the dev-code fallback; never wrap a typed nil
	var pub app.Publisher
	if rp := container.GetRabbitPub(); rp != nil {
		pub = rp
	}

	auth := &app.AuthService{
		Accounts:         accounts,
		JWT:              container.GetJWT(),
		Redis:            rdb,
		Challenges:       &app.RedisChallengeStore{Redis: rdb},
		Pub:              pub,
		Logger:           logger,
		AppName:          cfg.AppName,
		LockoutThreshold: cfg.LockoutThreshold,
		LockoutDuration:  cfg.LockoutDuration,
		OTPTTL:           cfg.OTPTTL,
		ChallengeTTL:     cfg.ChallengeTTL,
		SessionTTL:       cfg.SessionTTL,
	}

	customerSvc := &app.CustomerService{
		Customers: customers,
		Logger:    logger,
		GCS:       container.GetGCS(),
		GCSBucket: cfg.GCSBucket,
		ES:        container.GetES(),
		ESIndex:   cfg.ESCustomersIndex,
	}

	orderSvc := &app.OrderService{Orders: orders, Customers: customers, Logger: logger}
	measurementSvc := &app.MeasurementService{
		Measurements: measurements,
		Categories:   categories,
		Customers:    customers,
		Logger:       logger,
	}
	categorySvc := &app.CategoryService{Categories: categories, Logger: logger}
	reminderSvc := &app.ReminderService{
		Reminders: reminders,
		Customers: customers,
		Orders:    orders,
		Profiles:  profiles,
		Dash:      dashboard,
		Pub:       pub,
		Logger:    logger,
		AppName:   cfg.AppName,
	}
	dashboardSvc := &app.DashboardService{Dash: dashboard, Logger: logger}
	shopSvc := &app.ShopService{
		Profiles:     profiles,
		Customers:    customers,
		Orders:       orders,
		Measurements: measurements,
		Reminders:    reminders,
		Logger:       logger,
		GCS:          container.GetGCS(),
		GCSBucket:    cfg.GCSBucket,
	}
	exportSvc := &app.ExportService{
		Orders:       orders,
		Customers:    customers,
		Measurements: measurements,
		Logger:       logger,
	}
	billingSvc := &app.BillingService{
		Orders:        orders,
		Profiles:      profiles,
		Signer:        helpers.NewBillSigner(cfg.SecretKey, cfg.BillTokenMaxAge),
		Logger:        logger,
		BaseURL:       cfg.BaseURL,
		SavedBillsDir: cfg.SavedBillsDir,
	}

	d := &Deps{
		Auth:         auth,
		Customers:    customerSvc,
		Orders:       orderSvc,
		Measurements: measurementSvc,
		Categories:   categorySvc,
		Reminders:    reminderSvc,
		Dashboard:    dashboardSvc,
		Shop:         shopSvc,
		Export:       exportSvc,
		Billing:      billingSvc,
	}

	d.AuthHandler = handlers.NewAuthHandler(auth, logger, cfg.CookieDomain, cfg.CookieSecure)
	d.CustomerHandler = handlers.NewCustomerHandler(customerSvc, logger)
	d.OrderHandler = handlers.NewOrderHandler(orderSvc, logger)
	d.MeasurementHandler = handlers.NewMeasurementHandler(measurementSvc, logger)
	d.CategoryHandler = handlers.NewCategoryHandler(categorySvc, logger)
	d.ReminderHandler = handlers.NewReminderHandler(reminderSvc, logger)
	d.DashboardHandler = handlers.NewDashboardHandler(dashboardSvc, logger)
	d.SettingsHandler = handlers.NewSettingsHandler(shopSvc, exportSvc, logger)
	d.BillHandler = handlers.NewBillHandler(billingSvc, orderSvc, logger)
	return d
}

// InitModules initializes all application modules and registers them with the
// router registry. Call once during startup.
func InitModules(r *Registry) *Deps {
	d := BuildDeps()

	r.Add(modules.NewAuthModule(d.AuthHandler))
	r.Add(modules.NewDashboardModule(d.DashboardHandler))
	r.Add(modules.NewCustomerModule(d.CustomerHandler, d.MeasurementHandler))
	r.Add(modules.NewCatalogModule(d.CategoryHandler, d.MeasurementHandler))
	r.Add(modules.NewOrderModule(d.OrderHandler, d.ReminderHandler))
	r.Add(modules.NewSettingsModule(d.SettingsHandler))
	r.Add(modules.NewBillModule(d.BillHandler))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
	return d
}
