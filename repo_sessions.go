package auth

import (
	"context"
	"database/sql"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type refreshSessions struct {
	db  *bun.DB
	now func() time.Time
}

var _ SessionStore = (*refreshSessions)(nil)

// NewRefreshSessionsRepository returns the bun-backed refresh session store.
func NewRefreshSessionsRepository(db *bun.DB) SessionStore {
	return &refreshSessions{db: db, now: time.Now}
}

func (r *refreshSessions) Create(ctx context.Context, session *RefreshSession) error {
	_, err := r.db.NewInsert().Model(session).Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist refresh session")
	}
	return nil
}

func (r *refreshSessions) GetByToken(ctx context.Context, token string) (*RefreshSession, error) {
	record := &RefreshSession{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query refresh session")
	}

	return record, nil
}

func (r *refreshSessions) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.NewDelete().
		Model((*RefreshSession)(nil)).
		Where("?TableAlias.token = ?", token).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete refresh session")
	}
	return nil
}

func (r *refreshSessions) DeleteByUser(ctx context.Context, userID string) (int, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return 0, accountNotFound(userID)
	}

	res, err := r.db.NewDelete().
		Model((*RefreshSession)(nil)).
		Where("?TableAlias.user_id = ?", uid).
		Exec(ctx)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to revoke refresh sessions")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to revoke refresh sessions")
	}

	return int(affected), nil
}

// DeleteExpired removes every session past its expiry. Expired sessions are
// also removed lazily during verification; this sweep keeps the table small.
func (r *refreshSessions) DeleteExpired(ctx context.Context) (int, error) {
	res, err := r.db.NewDelete().
		Model((*RefreshSession)(nil)).
		Where("?TableAlias.expires_at <= ?", r.now()).
		Exec(ctx)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sweep expired sessions")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sweep expired sessions")
	}

	return int(affected), nil
}
