// Package employeestore persists employee records and keeps the
// employee/self-member pairing atomic: an employee is always created
// together with its self member, and deleting an employee removes every
// member under it.
package employeestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/enrollhub/internal/app/system/normalize"
	"github.com/dalemusser/enrollhub/internal/app/system/txn"
	"github.com/dalemusser/enrollhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	db  *mongo.Database
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{db: db, c: db.Collection("employees"), log: log}
}

var (
	// ErrDuplicateCode is returned when an employee code already exists within the policy.
	ErrDuplicateCode = errors.New("an employee with this code already exists in the policy")
	// ErrNotFound is returned when the employee does not exist.
	ErrNotFound = errors.New("employee not found")

	errMissingFields = errors.New("code, first_name, last_name, and email are required")
)

// GetByID loads an employee by ObjectID. Returns ErrNotFound when missing.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	var e models.Employee
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ListByPolicy returns employees of a policy ordered by code. limit <= 0
// means no limit; afterCode pages by the previous page's last code.
func (s *Store) ListByPolicy(ctx context.Context, policyID primitive.ObjectID, afterCode string, limit int64) ([]models.Employee, error) {
	filter := bson.M{"policy_id": policyID}
	if afterCode != "" {
		filter["code_ci"] = bson.M{"$gt": strings.ToLower(afterCode)}
	}

	opts := options.Find().SetSort(bson.D{{Key: "code_ci", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Employee
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExistingCodes returns, for the given candidate codes, the set that
// already exists within the policy. Comparison is case-insensitive; the
// returned map is keyed by lowercased code. One query regardless of batch
// size, so bulk import's duplicate check stays a single round trip.
func (s *Store) ExistingCodes(ctx context.Context, policyID primitive.ObjectID, codes []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(codes) == 0 {
		return existing, nil
	}

	ci := make([]string, 0, len(codes))
	for _, c := range codes {
		ci = append(ci, strings.ToLower(strings.TrimSpace(c)))
	}

	cur, err := s.c.Find(ctx,
		bson.M{"policy_id": policyID, "code_ci": bson.M{"$in": ci}},
		options.Find().SetProjection(bson.M{"code_ci": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc struct {
			CodeCI string `bson:"code_ci"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		existing[doc.CodeCI] = true
	}
	return existing, cur.Err()
}

// normalizeNew validates and normalizes an employee for insertion.
func normalizeNew(e *models.Employee) error {
	e.Code = strings.TrimSpace(e.Code)
	e.FirstName = normalize.Name(e.FirstName)
	e.LastName = normalize.Name(e.LastName)
	e.Email = normalize.Email(e.Email)
	if e.Code == "" || e.FirstName == "" || e.LastName == "" || e.Email == "" {
		return errMissingFields
	}
	e.CodeCI = strings.ToLower(e.Code)
	return nil
}

// selfMemberFor builds the self member row mirroring the employee's
// personal fields.
func selfMemberFor(e models.Employee, createdBy *primitive.ObjectID, now time.Time) models.Member {
	return models.Member{
		ID:           primitive.NewObjectID(),
		EmployeeID:   e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		DateOfBirth:  e.DateOfBirth,
		Gender:       e.Gender,
		Relationship: models.RelationshipSelf,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CreateWithSelf inserts an employee and its self member inside one
// transaction. Returns ErrDuplicateCode when the code is taken.
func (s *Store) CreateWithSelf(ctx context.Context, e models.Employee, createdBy *primitive.ObjectID) (models.Employee, error) {
	if err := normalizeNew(&e); err != nil {
		return models.Employee{}, err
	}

	e.ID = primitive.NewObjectID()
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	self := selfMemberFor(e, createdBy, now)

	members := s.db.Collection("members")
	err := txn.WithTransaction(ctx, s.db.Client(), s.log, func(ctx context.Context) error {
		if _, err := s.c.InsertOne(ctx, e); err != nil {
			return err
		}
		_, err := members.InsertOne(ctx, self)
		return err
	})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Employee{}, ErrDuplicateCode
		}
		return models.Employee{}, err
	}
	return e, nil
}

// CreateBatchWithSelf inserts every employee plus its self member inside a
// single transaction: either the whole surviving batch commits or none of
// it does. Callers are expected to have pre-filtered duplicates via
// ExistingCodes; a race that slips through still trips the unique index
// and aborts the batch with ErrDuplicateCode.
func (s *Store) CreateBatchWithSelf(ctx context.Context, entries []models.Employee, createdBy *primitive.ObjectID) ([]models.Employee, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	now := time.Now()
	empDocs := make([]interface{}, 0, len(entries))
	memberDocs := make([]interface{}, 0, len(entries))
	out := make([]models.Employee, 0, len(entries))

	for i := range entries {
		e := entries[i]
		if err := normalizeNew(&e); err != nil {
			return nil, err
		}
		e.ID = primitive.NewObjectID()
		e.CreatedAt = now
		e.UpdatedAt = now
		empDocs = append(empDocs, e)
		memberDocs = append(memberDocs, selfMemberFor(e, createdBy, now))
		out = append(out, e)
	}

	members := s.db.Collection("members")
	err := txn.WithTransaction(ctx, s.db.Client(), s.log, func(ctx context.Context) error {
		if _, err := s.c.InsertMany(ctx, empDocs); err != nil {
			return err
		}
		_, err := members.InsertMany(ctx, memberDocs)
		return err
	})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}
	return out, nil
}

// Update applies a patch to an employee. Nil fields are left unchanged; a
// pointer to the empty string clears an optional field. Code and the
// required identity fields cannot be cleared, only replaced.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now()}
	unset := bson.M{}

	if upd.Code != nil && strings.TrimSpace(*upd.Code) != "" {
		code := strings.TrimSpace(*upd.Code)
		set["code"] = code
		set["code_ci"] = strings.ToLower(code)
	}
	if upd.FirstName != nil && normalize.Name(*upd.FirstName) != "" {
		set["first_name"] = normalize.Name(*upd.FirstName)
	}
	if upd.LastName != nil && normalize.Name(*upd.LastName) != "" {
		set["last_name"] = normalize.Name(*upd.LastName)
	}
	if upd.Email != nil && normalize.Email(*upd.Email) != "" {
		set["email"] = normalize.Email(*upd.Email)
	}

	applyOptional := func(field string, v *string) {
		if v == nil {
			return
		}
		if strings.TrimSpace(*v) == "" {
			unset[field] = ""
			return
		}
		set[field] = strings.TrimSpace(*v)
	}
	applyOptional("phone", upd.Phone)
	applyOptional("date_of_birth", upd.DateOfBirth)
	applyOptional("gender", upd.Gender)
	applyOptional("department", upd.Department)
	applyOptional("designation", upd.Designation)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateCode
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Update is the patch structure for employee edits: nil means "leave
// unchanged", a pointer to "" means "clear" for the optional fields.
type Update struct {
	Code        *string
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	DateOfBirth *string
	Gender      *string
	Department  *string
	Designation *string
}

// Delete removes an employee and cascades to every member under it, inside
// one transaction. Returns ErrNotFound when the employee doesn't exist.
// The cascade is scoped to the one employee_id; the self-member rule in
// memberstore (ErrSelfUndeletable) does not apply here.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	members := s.db.Collection("members")
	var deleted int64

	err := txn.WithTransaction(ctx, s.db.Client(), s.log, func(ctx context.Context) error {
		res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		if deleted == 0 {
			return nil
		}
		_, err = members.DeleteMany(ctx, bson.M{"employee_id": id})
		return err
	})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}
