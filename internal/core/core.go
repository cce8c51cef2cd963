package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/cache"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
)

var (
	NoRecordFound   = xerrors.Message("No record found")
	ErrUnauthorized = xerrors.Message("Authentication required")
	ErrForbidden    = xerrors.Message("You do not have permission to perform this action")
)

// ImageStore persists uploaded post images and returns their public relative path.
type ImageStore interface {
	Save(ctx context.Context, data []byte) (string, error)
}

type Core struct {
	log          *slog.Logger
	sqlTemplate  *databaseutils.SQLTemplate
	session      databaseutils.Session
	pageCache    cache.PageCache
	pageCacheTTL time.Duration
	images       ImageStore
}

func NewCore(log *slog.Logger, sqlTemplate *databaseutils.SQLTemplate, session databaseutils.Session,
	pageCache cache.PageCache, pageCacheTTL time.Duration, images ImageStore) *Core {
	return &Core{
		log:          log,
		sqlTemplate:  sqlTemplate,
		session:      session,
		pageCache:    pageCache,
		pageCacheTTL: pageCacheTTL,
		images:       images,
	}
}
