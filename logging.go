package pollnet

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	loggerOnce   sync.Once
	sharedLogger *logrus.Logger
)

// defaultLogger returns the process-wide default logger, creating it on
// first use via a sync.Once-guarded logrus.Logger.
func defaultLogger() *logrus.Logger {
	loggerOnce.Do(func() {
		sharedLogger = logrus.New()
		sharedLogger.SetLevel(logrus.InfoLevel)
	})
	return sharedLogger
}

var contextsCreated int
var contextsCreatedMu sync.Mutex

func warnIfAdditionalContext(log *logrus.Entry) {
	contextsCreatedMu.Lock()
	contextsCreated++
	n := contextsCreated
	contextsCreatedMu.Unlock()
	if n > 1 {
		log.Warn("multiple contexts created in this process")
	}
}
