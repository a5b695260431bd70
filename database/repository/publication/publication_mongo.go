package publicationRepo

import (
	"context"
	"fmt"
	"time"

	"suarec/database"
	"suarec/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PublicationRepository abstracts publication persistence.
type PublicationRepository interface {
	Create(p *models.Publication) error
	GetByID(id string) (*models.Publication, error)
	ListByProvider(providerID string) ([]models.Publication, error)
}

// MongoPublicationRepo implements PublicationRepository using MongoDB.
type MongoPublicationRepo struct {
	coll *mongo.Collection
}

// NewMongoPublicationRepo creates a new instance of PublicationRepository using MongoDB.
func NewMongoPublicationRepo() PublicationRepository {
	coll := database.DB().Collection("publications")
	repo := &MongoPublicationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create publication indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoPublicationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new publication document.
func (r *MongoPublicationRepo) Create(p *models.Publication) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to create publication: %w", err)
	}
	return nil
}

// GetByID fetches a publication by its ID.
func (r *MongoPublicationRepo) GetByID(id string) (*models.Publication, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var p models.Publication
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("publication with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch publication %s: %w", id, err)
	}
	return &p, nil
}

// ListByProvider returns a provider's publications, most recent first.
func (r *MongoPublicationRepo) ListByProvider(providerID string) ([]models.Publication, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"provider_id": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list publications for %s: %w", providerID, err)
	}
	defer cur.Close(ctx)

	pubs := []models.Publication{}
	if err := cur.All(ctx, &pubs); err != nil {
		return nil, fmt.Errorf("failed to decode publications for %s: %w", providerID, err)
	}
	return pubs, nil
}
