package server

import (
	"context"
	"net/http"

	"github.com/spigell/career-advisor/internal/store"

	"go.uber.org/zap"
)

// counter is one of the per-user plan counters.
type counter struct {
	name    string
	claim   func(ctx context.Context, id string) (int, error)
	release func(ctx context.Context, id string) (int, error)
}

func (s *Server) chatCounter() counter {
	return counter{name: "chat_count", claim: s.store.IncrementChatCount, release: s.store.DecrementChatCount}
}

func (s *Server) resumeCounter() counter {
	return counter{name: "resume_scan_count", claim: s.store.IncrementResumeScans, release: s.store.DecrementResumeScans}
}

// reserve claims one unit of c before any model call, so concurrent requests
// cannot push a free user past limit. A claim over the limit is given back and
// limitErr is returned. The returned func gives the claim back when the
// request fails later on.
func (s *Server) reserve(r *http.Request, user *store.User, c counter, limit int, limitErr error) (func(), error) {
	n, err := c.claim(r.Context(), user.ID)
	if err != nil {
		return nil, err
	}

	release := func() {
		if _, err := c.release(context.WithoutCancel(r.Context()), user.ID); err != nil {
			s.requestLogger(r).Warn("releasing plan counter",
				zap.String("counter", c.name),
				zap.Error(err),
			)
		}
	}

	if user.Plan == store.PlanFree && n > limit {
		release()
		return nil, limitErr
	}
	return release, nil
}
