// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Index creation is idempotent; we aggregate
errors so any problem is visible and startup can fail fast.

The unique indexes back the business invariants: one account per email, one
employee code per policy, and at most one self and one spouse member per
employee. The stores check these invariants up front for friendly errors;
the indexes make them hold under concurrent writers.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	var problems []string

	ensure := func(coll string, models []mongo.IndexModel) {
		if len(models) == 0 {
			return
		}
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		log.Info("indexes ensured", zap.String("collection", coll), zap.Int("count", len(models)))
	}

	ensure("users", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
	})

	ensure("policies", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "manager_id", Value: 1}},
			Options: options.Index().SetName("by_manager"),
		},
		{
			Keys:    bson.D{{Key: "number", Value: 1}},
			Options: options.Index().SetName("uniq_number").SetUnique(true),
		},
	})

	ensure("employees", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "policy_id", Value: 1}, {Key: "code_ci", Value: 1}},
			Options: options.Index().SetName("uniq_policy_code").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "policy_id", Value: 1}},
			Options: options.Index().SetName("by_policy"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("by_user").SetSparse(true),
		},
	})

	ensure("members", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}},
			Options: options.Index().SetName("by_employee"),
		},
		{
			Keys: bson.D{{Key: "employee_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_self_per_employee").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"relationship": "self"}),
		},
		{
			Keys: bson.D{{Key: "employee_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_spouse_per_employee").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"relationship": "spouse"}),
		},
	})

	ensure("audit_events", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_category_created"),
		},
	})

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
