package app

import (
	redisclient "github.com/pathwise/pathwise-backend/internal/clients/redis"
	"github.com/pathwise/pathwise-backend/internal/platform/envutil"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

type Clients struct {
	PairLocker redisclient.PairLocker
}

// wireClients connects external infrastructure. Redis is optional: without it
// path generation is only serialized within a single process.
func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")

	var locker redisclient.PairLocker
	if envutil.String("REDIS_ADDR", "") != "" {
		l, err := redisclient.NewPairLocker(log)
		if err != nil {
			log.Warn("redis pair locker unavailable, falling back to in-process serialization", "error", err)
		} else {
			locker = l
		}
	}
	return Clients{PairLocker: locker}
}
