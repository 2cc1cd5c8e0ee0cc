package health

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/heptiolabs/healthcheck"
)

type opts struct {
	ChiMux          *chi.Mux
	readinessChecks map[string]healthcheck.Check
}

type Opt func(*opts)

func WithChiMux(mux *chi.Mux) Opt {
	return func(o *opts) {
		o.ChiMux = mux
	}
}

// WithReadinessCheck fails readiness while check errors or exceeds timeout.
func WithReadinessCheck(name string, check func() error, timeout time.Duration) Opt {
	return func(o *opts) {
		if o.readinessChecks == nil {
			o.readinessChecks = map[string]healthcheck.Check{}
		}
		o.readinessChecks[name] = healthcheck.Timeout(check, timeout)
	}
}
