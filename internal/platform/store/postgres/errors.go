package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"smartWaiter/internal/platform/store"
)

// classify maps driver errors onto the store error kinds.
func classify(ctx context.Context, resource, op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgerrcode.IsDataException(pgErr.Code) || pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return store.NewValidation(resource, pgErr.Message)
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = ctxErr
	}
	return store.NewUpstream(op, err)
}

// notFoundOr returns a NotFoundError for pgx.ErrNoRows and classifies anything else.
func notFoundOr(ctx context.Context, err error, resource string, id int64, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.NewNotFound(resource, "id", id)
	}
	return classify(ctx, resource, op, err)
}
