// Package database picks a storage backend from the DATABASE_URL scheme.
package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/hongminglow/gestionrh/internal/storage"
	"github.com/hongminglow/gestionrh/internal/storage/postgres"
	"github.com/hongminglow/gestionrh/internal/storage/sqlite"
)

// Open connects to the database named by url and migrates it.
//
//	postgres://… or postgresql://…  → Postgres (pgx pool)
//	sqlite://path or file:path      → SQLite file
func Open(ctx context.Context, url string) (storage.Store, error) {
	url = strings.TrimSpace(url)
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.NewStore(ctx, url)
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.NewStore(ctx, strings.TrimPrefix(url, "sqlite://"))
	case strings.HasPrefix(url, "file:"):
		return sqlite.NewStore(ctx, strings.TrimPrefix(url, "file:"))
	}
	return nil, fmt.Errorf("unsupported DATABASE_URL scheme in %q", redact(url))
}

// redact hides everything between the scheme and the host so passwords never reach logs.
func redact(url string) string {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		if len(url) > 12 {
			return url[:12] + "…"
		}
		return url
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***" + rest[at:]
	}
	return scheme + "://" + rest
}
