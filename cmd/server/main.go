package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-booking/internal/config"
	"github.com/iliyamo/hotel-booking/internal/database"
	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/notify"
	"github.com/iliyamo/hotel-booking/internal/queue"
	"github.com/iliyamo/hotel-booking/internal/repository"
	"github.com/iliyamo/hotel-booking/internal/router"
	"github.com/iliyamo/hotel-booking/internal/service"
	"github.com/iliyamo/hotel-booking/internal/utils"
	"github.com/iliyamo/hotel-booking/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBDriver, dsn(cfg))
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	store := repository.NewSQLStore(db)

	var events service.EventPublisher
	if cfg.RabbitMQURL != "" {
		events = queue.NewPublisher(cfg.RabbitMQURL)
		consumer := &queue.Consumer{URL: cfg.RabbitMQURL, LogPath: cfg.BookingLogPath}
		if cfg.TelegramToken != "" {
			tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
			if err != nil {
				log.Printf("telegram notifications disabled: %v", err)
			} else {
				consumer.Notifier = tg
			}
		}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("booking consumer stopped: %v", err)
			}
		}()
	} else {
		log.Printf("RABBITMQ_URL not set, booking events disabled")
	}

	rooms := service.NewRoomService(store)
	bookings := service.NewBookingService(store, events)

	view := handler.NewView(cfg.Hotel)
	admin := handler.NewAdminHandler(view, rooms, bookings, verifier(cfg), cfg.JWTSecret, cfg.SessionTTL)
	admin.SecureCookie = !cfg.Dev()

	e := echo.New()
	e.HideBanner = true
	e.Renderer = web.MustRenderer()
	e.HTTPErrorHandler = view.ErrorHandler
	if cfg.Dev() {
		e.Logger.SetLevel(glog.DEBUG)
	} else {
		e.Logger.SetLevel(glog.INFO)
	}
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	var mw router.Middlewares
	if rdb := config.NewRedisClient(); rdb != nil {
		defer rdb.Close()
		var client redis.UniversalClient = rdb
		mw.PageCache = middleware.NewRedisCache(config.LoadPageCacheConfig(), client)
		mw.RateLimit = middleware.NewTokenBucket(config.LoadRateLimitConfig(), client)
	}

	router.RegisterRoutes(e, handler.Health(db))
	router.RegisterPublic(e, router.Handlers{
		Pages:    handler.NewPageHandler(view),
		Rooms:    handler.NewRoomHandler(view, rooms),
		Bookings: handler.NewBookingHandler(view, rooms, bookings),
	}, mw)
	router.RegisterAdmin(e, admin, mw)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// dsn returns DB_DSN or builds one from the DB_* parts.
func dsn(cfg config.Config) string {
	if cfg.DBDSN != "" {
		return cfg.DBDSN
	}
	switch cfg.DBDriver {
	case database.MySQL:
		port := cfg.DBPort
		if port == "" {
			port = "3306"
		}
		return database.MySQLDSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, port, cfg.DBName)
	case database.Postgres:
		port := cfg.DBPort
		if port == "" {
			port = "5432"
		}
		return database.PostgresDSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, port, cfg.DBName)
	}
	return "hotel.db"
}

// verifier builds the admin credential check.  Without a configured
// password nobody can log in.
func verifier(cfg config.Config) service.CredentialVerifier {
	hash := cfg.AdminHash
	if hash == "" && cfg.AdminPassword != "" {
		h, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("hash admin password: %v", err)
		}
		hash = h
	}
	if hash == "" {
		log.Printf("ADMIN_PASSWORD and ADMIN_PASSWORD_HASH not set, admin login disabled")
	}
	return service.NewStaticVerifier(cfg.AdminUsername, hash)
}
