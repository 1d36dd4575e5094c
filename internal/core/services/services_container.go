package services

import (
	portssvc "github.com/SscSPs/txn_processor/internal/core/ports/services"
	"github.com/SscSPs/txn_processor/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(recorder *metrics.Recorder) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Replay: NewReplayService(WithMetrics(recorder)),
	}
}

// Helper to check interface implementations at compile time
var _ portssvc.ReplaySvcFacade = (*replayService)(nil)
