package views_test

import (
	"time"

	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/pkg/logger"
)

func init() {
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// newNotifier returns a notifier whose messages outlive any test
func newNotifier() *notify.Notifier {
	return notify.New(time.Hour)
}

// recorder collects navigation targets
type recorder struct {
	paths []string
}

func (r *recorder) navigate(path string) {
	r.paths = append(r.paths, path)
}
