package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/afiya/health-system/internal/core/domain"
)

const collectionPrograms = "programs"

type ProgramRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewProgramRepository(db *mongo.Database) *ProgramRepository {
	return &ProgramRepository{db: db, col: db.Collection(collectionPrograms)}
}

// List returns all programs sorted by name, then id for deterministic ties.
func (r *ProgramRepository) List(ctx context.Context) ([]domain.Program, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	programs := make([]domain.Program, 0)
	if err := cur.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

func (r *ProgramRepository) FindByID(ctx context.Context, id int64) (*domain.Program, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Program
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProgramNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProgramRepository) FindByName(ctx context.Context, name string) (*domain.Program, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Program
	err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProgramNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create assigns the next program id and inserts the document. The unique
// index on name turns a racing duplicate into ErrProgramNameTaken.
func (r *ProgramRepository) Create(ctx context.Context, name string) (*domain.Program, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextSequence(ctx, r.db, collectionPrograms)
	if err != nil {
		return nil, err
	}

	p := domain.Program{ID: id, Name: name}
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrProgramNameTaken
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProgramRepository) UpdateName(ctx context.Context, id int64, name string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrProgramNameTaken
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrProgramNotFound
	}
	return nil
}

// Delete removes the program document first, then pulls its id out of every
// client's membership array. Deleting first means a concurrent enroll either
// fails its existence check or leaves an entry the $pull sweeps away.
func (r *ProgramRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrProgramNotFound
	}

	_, err = r.db.Collection(collectionClients).UpdateMany(
		ctx,
		bson.M{"program_ids": id},
		bson.M{"$pull": bson.M{"program_ids": id}},
	)
	return err
}

// EnsureIndexes creates the unique index backing the name invariant.
func (r *ProgramRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
