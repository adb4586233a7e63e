package main

import (
	"os"
	"os/signal"
	"sync"
	"time"

	"attendance/config"
	"attendance/domain"
	"attendance/services/attendance/delivery"
	"attendance/services/attendance/repository"
	"attendance/services/attendance/usecase"

	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	requestTimeout = 10 * time.Second
	otpTTL         = 5 * time.Minute
	otpMaxAttempts = 3
)

var log *logrus.Logger
var wg sync.WaitGroup

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment")
	}

	log = config.GetLogrusInstance()

	startHTTP()
}

func bootSender() domain.DigestSender {
	countryCode := config.GetDefaultCountryCode()

	switch config.GetDigestChannel() {
	case "whatsapp":
		client, err := config.InitMeow()
		if err != nil {
			log.Fatalf("Failed to init WhatsApp client: %v", err)
		}
		return repository.NewWhatsappSender(client, countryCode)
	default:
		client, from, err := config.InitTwilio()
		if err != nil {
			log.Fatalf("Failed to init Twilio client: %v", err)
		}
		return repository.NewTwilioSender(client, *from, countryCode)
	}
}

func startHTTP() {
	log.Info("Starting HTTP")
	app := config.NewFiberApp()

	// CORS Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	sqlDB, err := config.BootSQL()
	if err != nil {
		log.Fatalf("Failed to boot SQL connection: %v", err)
	}

	gormDB, err := config.BootGorm()
	if err != nil {
		log.Fatalf("Failed to boot GORM connection: %v", err)
	}

	sender := bootSender()

	dialer, emailSender, err := config.InitEmailer()
	if err != nil {
		log.Fatalf("Failed to init emailer: %v", err)
	}

	// Regis repo and Usecase Here
	attendanceRepo := repository.NewAttendanceRepository(gormDB)
	directoryRepo := repository.NewDirectoryRepository(gormDB)
	authRepo := repository.NewAuthRepository(gormDB)
	otpStore := repository.NewOTPStore(sqlDB, otpTTL, otpMaxAttempts)
	otpMailer := repository.NewOTPMailer(dialer, *emailSender, otpTTL)
	exporter := repository.NewReportExporter(config.GetExportDir())

	attendanceUC := usecase.NewAttendanceUseCase(attendanceRepo, requestTimeout)
	reportUC := usecase.NewReportUseCase(attendanceRepo, directoryRepo, exporter, requestTimeout)
	notifierUC := usecase.NewNotifierUseCase(attendanceRepo, directoryRepo, sender, requestTimeout)
	authUC := usecase.NewAuthUseCase(authRepo, otpStore, otpMailer, requestTimeout)

	// delivery here
	delivery.NewAuthDelivery(app, authUC)
	delivery.NewAttendanceDeliveryDeploy(app, attendanceUC)
	delivery.NewReportDeliveryDeploy(app, reportUC)
	delivery.NewNotifierDeliveryDeploy(app, notifierUC)

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infof("Starting HTTP server for Public on port %s", config.GetFiberHttpPort())
		if err := app.Listen(config.GetFiberListenAddress()); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, os.Kill)

	<-signalChan

	log.Info("Shutting down the server...")

	if err := app.Shutdown(); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}

	wg.Wait()
	log.Info("Server shut down gracefully")
}
