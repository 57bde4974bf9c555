package di

import (
	"go.uber.org/zap"

	"bookreviews-backend/application/ports"
	"bookreviews-backend/infrastructure/config"
	"bookreviews-backend/pkg/auth"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	ReviewRepo ports.ReviewRepository
	Verifier   auth.Verifier
	Events     ports.EventPublisher
	Metrics    ports.Metrics
}
