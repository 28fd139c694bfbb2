package main

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/presence-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/postgresql"
	leaveService "github.com/cmlabs-hris/presence-backend-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/presence-backend-go/internal/service/notification"
	sessionService "github.com/cmlabs-hris/presence-backend-go/internal/service/session"
	tokenService "github.com/cmlabs-hris/presence-backend-go/internal/service/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	tokenRepo := postgresql.NewScanTokenRepository(db)
	sessionRepo := postgresql.NewAttendanceSessionRepository(db)
	eventRepo := postgresql.NewEventRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	auditLogRepo := postgresql.NewAuditLogRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	notificationSvc := notificationService.NewNotificationService(notificationRepo, notificationService.Config{})
	defer notificationSvc.Stop()
	sessionSvc := sessionService.NewSessionService(sessionRepo, notificationSvc)
	tokenSvc := tokenService.NewTokenService(tokenRepo, eventRepo, employeeRepo, sessionSvc)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo, employeeRepo, notificationSvc, auditLogRepo)

	tokenHandler := appHTTP.NewTokenHandler(tokenSvc)
	sessionHandler := appHTTP.NewSessionHandler(sessionSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notificationSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:        cfg.App.Env,
			CORSOrigin: cfg.App.CORSOrigin,
		},
		JWTService,
		tokenHandler,
		sessionHandler,
		leaveHandler,
		notificationHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
