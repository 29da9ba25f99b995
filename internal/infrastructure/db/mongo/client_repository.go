package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/afiya/health-system/internal/core/domain"
	"github.com/afiya/health-system/internal/core/ports"
)

const collectionClients = "clients"

type ClientRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{db: db, col: db.Collection(collectionClients)}
}

// clientDoc is the stored shape: the membership is a plain array of program
// ids, resolved to id+name pairs on every read.
type clientDoc struct {
	ID          int64   `bson:"_id"`
	Name        string  `bson:"name"`
	DateOfBirth string  `bson:"date_of_birth"`
	ContactInfo string  `bson:"contact_info"`
	ProgramIDs  []int64 `bson:"program_ids"`
}

func (r *ClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	return r.find(ctx, bson.M{})
}

func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc clientDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}

	clients, err := r.resolve(ctx, []clientDoc{doc})
	if err != nil {
		return nil, err
	}
	return &clients[0], nil
}

// SearchByName matches q as a case-insensitive substring. The query is
// regex-escaped so callers cannot inject pattern syntax.
func (r *ClientRepository) SearchByName(ctx context.Context, q string) ([]domain.Client, error) {
	filter := bson.M{"name": bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}}
	return r.find(ctx, filter)
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextSequence(ctx, r.db, collectionClients)
	if err != nil {
		return nil, err
	}

	doc := clientDoc{
		ID:          id,
		Name:        c.Name,
		DateOfBirth: c.DateOfBirth,
		ContactInfo: c.ContactInfo,
		ProgramIDs:  []int64{},
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	return &domain.Client{
		ID:               id,
		Name:             c.Name,
		DateOfBirth:      c.DateOfBirth,
		ContactInfo:      c.ContactInfo,
		EnrolledPrograms: []domain.ProgramRef{},
	}, nil
}

func (r *ClientRepository) Update(ctx context.Context, id int64, upd ports.ClientUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.DateOfBirth != nil {
		set["date_of_birth"] = *upd.DateOfBirth
	}
	if upd.ContactInfo != nil {
		set["contact_info"] = *upd.ContactInfo
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

// AddEnrollment unions programID into the membership array. $addToSet makes
// the operation idempotent and safe against concurrent adds on the same
// client: both land, neither overwrites the other.
func (r *ClientRepository) AddEnrollment(ctx context.Context, clientID, programID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(
		ctx,
		bson.M{"_id": clientID},
		bson.M{"$addToSet": bson.M{"program_ids": programID}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, domain.ErrClientNotFound
	}
	return res.ModifiedCount > 0, nil
}

func (r *ClientRepository) RemoveEnrollment(ctx context.Context, clientID, programID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(
		ctx,
		bson.M{"_id": clientID},
		bson.M{"$pull": bson.M{"program_ids": programID}},
	)
	return err
}

// EnsureIndexes creates the name index used by list ordering and search.
func (r *ClientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
	})
	return err
}

func (r *ClientRepository) find(ctx context.Context, filter bson.M) ([]domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []clientDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return r.resolve(ctx, docs)
}

// resolve expands each document's program id array into id+name references,
// fetching the referenced programs in a single $in query. Ids whose program
// vanished mid-read are skipped rather than surfaced as dangling refs.
func (r *ClientRepository) resolve(ctx context.Context, docs []clientDoc) ([]domain.Client, error) {
	idSet := make(map[int64]struct{})
	for _, d := range docs {
		for _, pid := range d.ProgramIDs {
			idSet[pid] = struct{}{}
		}
	}

	names := make(map[int64]string, len(idSet))
	if len(idSet) > 0 {
		ids := make([]int64, 0, len(idSet))
		for pid := range idSet {
			ids = append(ids, pid)
		}

		cur, err := r.db.Collection(collectionPrograms).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)

		var programs []domain.Program
		if err := cur.All(ctx, &programs); err != nil {
			return nil, err
		}
		for _, p := range programs {
			names[p.ID] = p.Name
		}
	}

	clients := make([]domain.Client, 0, len(docs))
	for _, d := range docs {
		refs := make([]domain.ProgramRef, 0, len(d.ProgramIDs))
		for _, pid := range d.ProgramIDs {
			if name, ok := names[pid]; ok {
				refs = append(refs, domain.ProgramRef{ID: pid, Name: name})
			}
		}
		clients = append(clients, domain.Client{
			ID:               d.ID,
			Name:             d.Name,
			DateOfBirth:      d.DateOfBirth,
			ContactInfo:      d.ContactInfo,
			EnrolledPrograms: refs,
		})
	}
	return clients, nil
}
