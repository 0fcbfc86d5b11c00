package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"autolanka/internal/api"
	"autolanka/internal/auth"
	"autolanka/internal/config"
	"autolanka/internal/gateway"
	"autolanka/internal/repository"
	"autolanka/internal/service"
	"autolanka/internal/storage"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	jobRepo := repository.NewJobRepository(db)

	tokens := auth.NewTokenService(cfg.JWTSecret)
	sender := service.NewSenderService(cfg)
	signer := gateway.NewSigner(cfg.Gateway.MerchantID, cfg.Gateway.MerchantSecret, cfg.Gateway.Currency, nil)
	store := storage.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)

	authSvc := service.NewAuthService(userRepo, tokens, sender)
	vehicleSvc := service.NewVehicleService(vehicleRepo, catalogRepo)
	bookingSvc := service.NewBookingService(reservationRepo, catalogRepo, vehicleRepo)
	paymentSvc := service.NewPaymentService(reservationRepo, signer, cfg.Gateway)
	jobSvc := service.NewJobService(jobRepo)

	userHandler := api.NewUserHandler(authSvc)
	vehicleHandler := api.NewVehicleHandler(vehicleSvc, store)
	bookingHandler := api.NewBookingHandler(bookingSvc)
	paymentHandler := api.NewPaymentHandler(paymentSvc)

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/api/v1").Subrouter()

	// Public endpoints
	user := v1.PathPrefix("/user").Subrouter()
	user.HandleFunc("/register", userHandler.Register).Methods("POST")
	user.HandleFunc("/login", userHandler.Login).Methods("POST")
	user.HandleFunc("/emailverify", userHandler.EmailVerify).Methods("GET")
	user.HandleFunc("/otpverify", userHandler.OTPVerify).Methods("POST")
	user.HandleFunc("/resend-verify-email", userHandler.ResendVerifyEmail).Methods("POST")
	user.HandleFunc("/forgot-password-process", userHandler.ForgotPassword).Methods("POST")
	user.HandleFunc("/verify-password-token", userHandler.VerifyResetPasswordToken).Methods("GET")
	user.HandleFunc("/reset-password", userHandler.ResetPassword).Methods("POST")
	user.HandleFunc("/reset-password-direct", userHandler.ResetPasswordDirect).Methods("POST")
	user.HandleFunc("/confirm-password-reset", userHandler.ConfirmPasswordReset).Methods("GET")
	user.HandleFunc("/loadVehicleTypes", vehicleHandler.LoadVehicleTypes).Methods("GET")
	user.HandleFunc("/loadVehicleBrands", vehicleHandler.LoadVehicleBrands).Methods("GET")
	user.HandleFunc("/loadServiceTypes", vehicleHandler.LoadServiceTypes).Methods("GET")

	// Protected endpoints
	protected := user.NewRoute().Subrouter()
	protected.Use(auth.Middleware(tokens))
	protected.HandleFunc("/profile", userHandler.Profile).Methods("GET")
	protected.HandleFunc("/register-vehicle", vehicleHandler.RegisterVehicle).Methods("POST")
	protected.HandleFunc("/update-vehicle-image", vehicleHandler.UpdateVehicleImage).Methods("POST")
	protected.HandleFunc("/vehicles", vehicleHandler.ListVehicles).Methods("GET")
	protected.HandleFunc("/book-service", bookingHandler.BookService).Methods("POST")
	protected.HandleFunc("/maintenance-history", bookingHandler.MaintenanceHistory).Methods("GET")
	protected.HandleFunc("/current-service-status", bookingHandler.CurrentServiceStatus).Methods("GET")

	// Gateway endpoints. The IPN is server-to-server from the gateway and
	// cannot carry a bearer token; create is called by the app.
	payments := v1.PathPrefix("/payments").Subrouter()
	payments.HandleFunc("/ipn", paymentHandler.Notify).Methods("POST")
	payments.HandleFunc("/return", paymentHandler.Return).Methods("GET", "POST")
	payments.HandleFunc("/cancel", paymentHandler.Cancel).Methods("GET", "POST")

	createPayment := payments.NewRoute().Subrouter()
	createPayment.Use(auth.Middleware(tokens))
	createPayment.HandleFunc("/create", paymentHandler.CreatePayment).Methods("POST")

	c := cron.New()
	c.AddFunc("*/10 * * * *", func() {
		if err := jobSvc.CompleteFinishedReservations(); err != nil {
			log.Printf("Cron error: %v", err)
		}
	})
	c.AddFunc("0 3 * * *", func() {
		cutoff := time.Now().AddDate(0, 0, -1)
		deleted, err := jobSvc.DeleteOldPendingReservations(cutoff)
		if err != nil {
			log.Printf("Cron error: %v", err)
			return
		}
		if deleted > 0 {
			log.Printf("Cron Job: deleted %d stale pending reservations", deleted)
		}
	})
	c.Start()
	defer c.Stop()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	h := handlers.RecoveryHandler()(cors(handlers.CombinedLoggingHandler(os.Stdout, r)))

	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, h))
}
