package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"guestlist/config"
	"guestlist/internal/adapters/auth"
	"guestlist/internal/adapters/email"
	"guestlist/internal/adapters/payment"
	httpdelivery "guestlist/internal/delivery/http"
	"guestlist/internal/delivery/http/controllers"
	"guestlist/internal/delivery/http/middleware"
	"guestlist/internal/domain"
	"guestlist/internal/repository/postgres"
	"guestlist/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.NewLogger().Error("failed to load configuration", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	rsvpRepo := postgres.NewRSVPRepository(db)
	offerRepo := postgres.NewOfferRepository(db)
	ledger := postgres.NewCapacityRepository(db)

	signer, err := auth.NewOfferSigner(cfg.OfferSigningSecret)
	if err != nil {
		logger.Error("failed to create offer signer", "err", err)
		os.Exit(1)
	}
	hostVerifier, err := auth.NewHostTokenVerifier(cfg.HostTokenSecret)
	if err != nil {
		logger.Error("failed to create host token verifier", "err", err)
		os.Exit(1)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	var payments domain.PaymentProcessor
	if cfg.PaymentAPIURL != "" {
		payments = payment.NewHTTPProcessor(&http.Client{Timeout: 10 * time.Second}, cfg.PaymentAPIURL)
	} else {
		payments = payment.NewNoopProcessor()
	}

	admissionService := services.NewAdmissionService(eventRepo, rsvpRepo, ledger)
	offerService := services.NewOfferService(
		eventRepo, rsvpRepo, offerRepo, ledger,
		signer, payments, emailService,
		cfg.RedeemBaseURL, logger,
	)

	admissionController := controllers.NewAdmissionController(logger, admissionService)
	offerController := controllers.NewOfferController(logger, offerService)

	mux := httpdelivery.NewRouter(admissionController, offerController, hostVerifier)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}
