package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/nkosarev/bookstore-server/internal/api/http/router"
	httpServer "github.com/nkosarev/bookstore-server/internal/api/http/server"
	"github.com/nkosarev/bookstore-server/internal/config"
	"github.com/nkosarev/bookstore-server/internal/email"
	"github.com/nkosarev/bookstore-server/internal/hasher"
	"github.com/nkosarev/bookstore-server/internal/link"
	"github.com/nkosarev/bookstore-server/internal/logger"
	mongorepo "github.com/nkosarev/bookstore-server/internal/repository/mongo"
	"github.com/nkosarev/bookstore-server/internal/repository/postgres"
	"github.com/nkosarev/bookstore-server/internal/service"
	storage "github.com/nkosarev/bookstore-server/internal/storage/minio"
	"github.com/nkosarev/bookstore-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize identity storage", "error", err)
	}
	defer db.Close()

	mongoClient, err := mongorepo.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		logger.Fatal("failed to initialize catalog storage", "error", err)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	coverStorage, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize cover storage", "error", err)
	}

	codec, err := token.NewCodec(cfg.Token.Secret)
	if err != nil {
		logger.Fatal("failed to initialize token codec", "error", err)
	}
	links, err := link.NewBuilder(cfg.PublicBaseURL)
	if err != nil {
		logger.Fatal("failed to initialize link builder", "error", err)
	}
	notifier := email.NewSMTPNotifier(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	passwordHasher := hasher.NewBcrypt(0)

	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	bookRepo := mongorepo.NewBookRepository(mongoClient.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))

	authService := service.NewAuth(userRepo, roleRepo, passwordHasher, codec, links, notifier, cfg.Token.TTL, logger)
	catalogService := service.NewCatalog(bookRepo, coverStorage, logger)

	r := router.New(authService, catalogService, logger)
	server := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "address", server.Address())
		if err := server.Start(); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", server.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
