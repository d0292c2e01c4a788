package main

import (
	"fmt"
	"log"
	"net/http"

	"eduProject/config"
	"eduProject/controllers"
	"eduProject/database"
	"eduProject/middleware"
	"eduProject/services"
	"github.com/gorilla/mux"
)

// healthHandler отвечает на проверку работоспособности сервиса
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}

func initBackgroundWorkers(db *database.Database, emailService *services.EmailService) *services.NotificationService {
	// Создаем сервис уведомлений и запускаем обработку очереди
	notificationService := services.NewNotificationService(db.DB, emailService)
	notificationService.Start()
	log.Println("Сервис уведомлений запущен")

	// Запускаем планировщик блокировки неактивных пользователей
	scheduler := services.NewUserSchedulerService(db.DB)
	scheduler.Start()
	log.Println("Планировщик блокировки пользователей запущен")

	return notificationService
}

func main() {
	// Инициализируем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем подключение к базе данных
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}

	// Инициализируем сервис email
	emailService := services.NewEmailService(cfg)

	// Запускаем фоновые обработчики
	notificationService := initBackgroundWorkers(db, emailService)

	// Инициализируем платежный шлюз
	stripeService := services.NewStripeService(cfg)

	// Создаем роутер
	router := mux.NewRouter()

	// Инициализируем контроллеры
	authController := controllers.NewAuthController(db.DB, cfg)
	courseController := controllers.NewCourseController(db.DB, notificationService)
	lessonController := controllers.NewLessonController(db.DB, notificationService)
	subscriptionController := controllers.NewSubscriptionController(db.DB)
	paymentController := controllers.NewPaymentController(db.DB, stripeService, cfg.Host)

	// Проверка работоспособности
	router.HandleFunc("/api/health", healthHandler).Methods("GET")

	// Публичные маршруты для аутентификации
	router.HandleFunc("/api/auth/signUp", authController.SignUp).Methods("POST")
	router.HandleFunc("/api/auth/signIn", authController.SignIn).Methods("POST")

	// Защищенные маршруты
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.AuthMiddleware([]byte(authController.GetJWTKey())))
	protected.Use(middleware.LoggingMiddleware)
	protected.Use(middleware.RateLimitMiddleware)

	// Маршруты для работы с курсами
	protected.HandleFunc("/courses", courseController.CreateCourse).Methods("POST")
	protected.HandleFunc("/courses", courseController.GetCourses).Methods("GET")
	protected.HandleFunc("/courses/{id}", courseController.GetCourse).Methods("GET")
	protected.HandleFunc("/courses/{id}", courseController.UpdateCourse).Methods("PUT", "PATCH")
	protected.HandleFunc("/courses/{id}", courseController.DeleteCourse).Methods("DELETE")

	// Маршруты для работы с уроками
	protected.HandleFunc("/lessons", lessonController.CreateLesson).Methods("POST")
	protected.HandleFunc("/lessons", lessonController.GetLessons).Methods("GET")
	protected.HandleFunc("/lessons/{id}", lessonController.GetLesson).Methods("GET")
	protected.HandleFunc("/lessons/{id}", lessonController.UpdateLesson).Methods("PUT", "PATCH")
	protected.HandleFunc("/lessons/{id}", lessonController.DeleteLesson).Methods("DELETE")

	// Маршрут для переключения подписки на курс
	protected.HandleFunc("/subscriptions", subscriptionController.ToggleSubscription).Methods("POST")

	// Маршруты для работы с платежами
	protected.HandleFunc("/payments/create", paymentController.CreatePayment).Methods("POST")
	protected.HandleFunc("/payments/status", paymentController.GetPaymentStatus).Methods("GET")
	protected.HandleFunc("/payments/history", paymentController.GetPaymentHistory).Methods("GET")
	protected.HandleFunc("/payments/success", paymentController.PaymentSuccess).Methods("GET")
	protected.HandleFunc("/payments/cancel", paymentController.PaymentCancel).Methods("GET")

	// Запускаем сервер
	port := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на порту %s", port)
	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
