//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/config"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Persistence and transports
		ProvideRawSource,
		ProvideStores,
		ProvidePublisher,
		ProvideCache,

		// Orchestration
		ProvidePipeline,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
