// Package txn wraps multi-document MongoDB transactions with a fallback for
// deployments that don't support them (standalone servers, some DocumentDB
// versions). Callers run their writes inside WithTransaction; when the
// server rejects transactions outright, the callback is re-run outside a
// session so single-node dev setups still work.
package txn

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// WithTransaction runs fn inside a MongoDB transaction. If the deployment
// does not support transactions, fn is re-executed without one and a
// warning is logged; in that mode a mid-batch fault can leave earlier
// writes in place, which is acceptable only for dev deployments.
func WithTransaction(ctx context.Context, client *mongo.Client, log *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return runWithoutTransaction(ctx, log, fn)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return runWithoutTransaction(ctx, log, fn)
	}
	return err
}

func runWithoutTransaction(ctx context.Context, log *zap.Logger, fn func(ctx context.Context) error) error {
	if log != nil {
		log.Warn("transactions unsupported by deployment; running writes without transaction")
	}
	return fn(ctx)
}

// Mongo server error codes that indicate transactions are unavailable:
// 20 IllegalOperation (not a replica set member), 51 and 263 variants
// raised by standalone/older deployments.
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// IsNotSupported reports whether err indicates the deployment cannot run
// multi-document transactions (as opposed to the transaction failing).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	if ce, ok := err.(mongo.CommandError); ok {
		if notSupportedCodes[ce.Code] {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set") {
		return true
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	if strings.Contains(msg, "transaction") && strings.Contains(msg, "session") {
		return true
	}
	if strings.Contains(msg, "illegal operation") && strings.Contains(msg, "transaction") {
		return true
	}
	return false
}
