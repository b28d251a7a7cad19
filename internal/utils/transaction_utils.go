package utils

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"lovelog/internal/interfaces"
	"lovelog/internal/schemas"
)

// BeginTransaction begins a new database transaction with a context deadline.
// It returns the transaction object, the transaction context, and a cancel function for the context.
// If the transaction fails to begin, it logs and sends an error response.
func BeginTransaction(c *gin.Context, pool interfaces.PgxPoolIface) (pgx.Tx, context.Context, context.CancelFunc) {
	transactionCtx, cancel := context.WithDeadline(c.Request.Context(), time.Now().Add(10*time.Second))

	tx, err := pool.Begin(transactionCtx)
	if err != nil {
		WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		cancel()
		return nil, nil, nil
	}

	return tx, transactionCtx, cancel
}

// RollbackTransaction rolls back the given transaction if an error occurred.
// It logs any errors that occur during the rollback, except if the transaction is already closed.
func RollbackTransaction(c *gin.Context, tx pgx.Tx, ctx context.Context, cancel context.CancelFunc, err error) {
	if err != nil {
		log.Debug("Rolling back transaction due to error: ", err)
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			if errors.Is(rollbackErr, pgx.ErrTxClosed) {
				return
			}

			cancel()
			log.Debug("Context canceled")
			WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, rollbackErr)
		}
		log.Debug("Transaction rolled back")
	}
}

// CommitTransaction attempts to commit the given transaction.
// If the commit fails, it logs the error, sends an error response, and returns the error.
// If the commit is successful, it logs the success and cancels the context.
func CommitTransaction(c *gin.Context, tx pgx.Tx, ctx context.Context, cancel context.CancelFunc) error {
	log.Debug("Committing transaction")
	err := tx.Commit(ctx)
	defer func() {
		if err := ctx.Err(); err != nil {
			log.Debug("Context error: ", err)
		}
		cancel()
		log.Debug("Context canceled")
	}()

	if err != nil {
		log.Debug("Rolling back transaction due to error: ", err)
		WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}

	log.Debug("Transaction committed")
	return nil
}
