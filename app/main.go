package main

import (
	"attendance/config"
	"attendance/queue"
	"attendance/services/attendance/delivery"
	"attendance/services/attendance/repository"
	"attendance/services/attendance/usecase"
	"context"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
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

func startHTTP() {
	log.Info("Starting HTTP")
	app := fiber.New(config.GetFiberConfig())

	// CORS Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	db, err := config.BootDB()
	if err != nil {
		log.Fatalf("Failed to boot DB: %v", err)
		return
	}

	smsConfig := config.InitTwilio()

	meowClient, err := config.InitMeow()
	if err != nil {
		log.Errorf("WhatsApp client unavailable: %v", err)
	}

	if err := config.InitEmailer(); err != nil {
		log.Warnf("Emailer unavailable: %v", err)
	}
	emailSender, _ := config.GetEmailSender()

	jobs := buildQueue()

	// Repositories
	logRepo := repository.NewNotificationLogRepository(db)
	notifierRepo := repository.NewNotifierRepository(smsConfig, meowClient, config.GetEmailDialer(), emailSender, logRepo)
	attendanceRepo := repository.NewAttendanceRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	userRepo := repository.NewUserRepository(db)
	authRepo := repository.NewAuthRepository(userRepo)
	faceClient := repository.NewFaceClient(config.GetFaceServiceURL(), os.Getenv("SKIP_FACE_SERVICE") == "true")

	// Usecases
	timeout := 10 * time.Second
	attendanceUC := usecase.NewAttendanceUseCase(attendanceRepo, studentRepo, teacherRepo, notifierRepo, jobs, timeout)
	authUC := usecase.NewAuthUseCase(authRepo, timeout)
	notificationUC := usecase.NewNotificationUseCase(logRepo, timeout)

	// Deliveries
	delivery.NewAttendanceDelivery(app, attendanceUC, faceClient)
	delivery.NewAuthDelivery(app, authUC)
	delivery.NewNotificationDelivery(app, notificationUC)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	startWorker(workerCtx, jobs, attendanceUC.NotifyForSession)

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

	stopWorker()
	wg.Wait()
	log.Info("Server shut down gracefully")
}

func buildQueue() queue.Queue {
	if config.GetQueueBackend() == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr: config.GetRedisAddr(),
		})
		log.Infof("Using Redis queue at %s", config.GetRedisAddr())
		return queue.NewRedisQueue(client, os.Getenv("QUEUE_KEY"))
	}
	log.Info("Using in-memory queue")
	return queue.NewInMemory(256)
}

// startWorker consumes notification jobs until the context is cancelled.
// Session fan-out runs here so HTTP responses never wait on Twilio.
func startWorker(ctx context.Context, jobs queue.Queue, notify func(context.Context, int)) {
	msgs, err := jobs.Consume(ctx)
	if err != nil {
		log.Errorf("Could not start queue consumer: %v", err)
		return
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for msg := range msgs {
			if msg.Type != "session" {
				log.Warnf("Skipping unknown job type %q (id %s)", msg.Type, msg.ID)
				continue
			}
			sessionID, err := strconv.Atoi(msg.Body)
			if err != nil {
				log.Errorf("Bad session id in job %s: %v", msg.ID, err)
				continue
			}
			notify(ctx, sessionID)
		}
	}()
}
