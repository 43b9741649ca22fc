//go:build wireinject
// +build wireinject

package di

import (
	"PairSight/pkg/config"
	"PairSight/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCacheStore,
		ProvideKafkaProducer,

		// Repositories
		ProvideCandleSource,
		ProvideNotifier,
		ProvideSignalPublisher,

		// Engine services
		ProvideGates,
		ProvideClassifier,
		ProvideLimiter,
		ProvideClock,

		// Use cases
		ProvideEvaluator,
		ProvideDispatcher,

		// Transport
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
