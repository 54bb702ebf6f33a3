package health

import (
	"context"
	"time"

	"entrega-backend/internal/cache"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Status struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type Checker struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

func NewChecker(db *pgxpool.Pool, c *cache.Cache) *Checker {
	return &Checker{db: db, cache: c}
}

// Check pings the database and cache. The cache is optional, so a disabled
// cache degrades the report without failing it.
func (c *Checker) Check(ctx context.Context) *Status {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	status := &Status{Status: "ok", Checks: map[string]string{}}

	if err := c.db.Ping(ctx); err != nil {
		status.Status = "unhealthy"
		status.Checks["database"] = err.Error()
	} else {
		status.Checks["database"] = "ok"
	}

	if err := c.cache.Ping(ctx); err != nil {
		status.Checks["cache"] = "disabled"
	} else {
		status.Checks["cache"] = "ok"
	}

	return status
}
