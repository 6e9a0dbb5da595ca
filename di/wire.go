//go:build wireinject
// +build wireinject

package di

import (
	"tourwise/config"
	"tourwise/infras/jwt"
	"tourwise/infras/kafka"
	"tourwise/infras/otel"
	"tourwise/infras/postgres"
	"tourwise/infras/redis"
	"tourwise/infras/s3"
	"tourwise/infras/smtp"
	"tourwise/internal/notification"
	"tourwise/permissions"
	"tourwise/shared/cache"
	"tourwise/transport/http"
	"tourwise/transport/http/middleware"
	"tourwise/transport/http/router"

	authService "tourwise/internal/domains/auth/service"
	bookingRepository "tourwise/internal/domains/booking/repository"
	bookingService "tourwise/internal/domains/booking/service"
	matchingService "tourwise/internal/domains/matching/service"
	reviewRepository "tourwise/internal/domains/review/repository"
	reviewService "tourwise/internal/domains/review/service"
	studentRepository "tourwise/internal/domains/student/repository"
	studentService "tourwise/internal/domains/student/service"
	userRepository "tourwise/internal/domains/user/repository"
	userService "tourwise/internal/domains/user/service"

	authHandler "tourwise/internal/handlers/auth"
	bookingHandler "tourwise/internal/handlers/booking"
	matchingHandler "tourwise/internal/handlers/matching"
	reviewHandler "tourwise/internal/handlers/review"
	studentHandler "tourwise/internal/handlers/student"
	userHandler "tourwise/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	smtp.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	notification.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var studentDomain = wire.NewSet(
	studentRepository.New,
	studentRepository.NewAvailability,
	studentService.New,
)

var matchingDomain = wire.NewSet(
	matchingService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.NewRequest,
	bookingRepository.NewSelection,
	bookingService.New,
)

var reviewDomain = wire.NewSet(
	reviewRepository.New,
	reviewService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	studentDomain,
	matchingDomain,
	bookingDomain,
	reviewDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	studentHandler.New,
	matchingHandler.New,
	bookingHandler.New,
	reviewHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
