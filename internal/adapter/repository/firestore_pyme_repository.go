package repository

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"

	"ikam/internal/domain/entity"
	"ikam/internal/domain/repository"
	"ikam/pkg/errors"
	"ikam/pkg/subscription"
)

// Firestore caps batched reads, so GetMany fetches in chunks.
const getAllBatchSize = 30

type firestorePymeRepository struct {
	client *firestore.Client
}

func NewFirestorePymeRepository(client *firestore.Client) repository.PymeRepository {
	return &firestorePymeRepository{client: client}
}

func pymeFromDoc(doc *firestore.DocumentSnapshot) (*entity.Pyme, error) {
	var pyme entity.Pyme
	if err := doc.DataTo(&pyme); err != nil {
		return nil, err
	}
	pyme.ID = doc.Ref.ID
	return &pyme, nil
}

func (r *firestorePymeRepository) GetByID(ctx context.Context, id string) (*entity.Pyme, error) {
	doc, err := r.client.Collection(pymeCollection).Doc(id).Get(ctx)
	if err != nil {
		if IsNotFound(err) {
			return nil, errors.NotFound("Pyme", nil)
		}
		return nil, errors.Internal("Failed to get pyme", err)
	}

	pyme, err := pymeFromDoc(doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse pyme data", err)
	}
	return pyme, nil
}

func (r *firestorePymeRepository) GetMany(ctx context.Context, ids []string) ([]*entity.Pyme, error) {
	pymes := make([]*entity.Pyme, 0, len(ids))
	for i := 0; i < len(ids); i += getAllBatchSize {
		end := i + getAllBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		refs := make([]*firestore.DocumentRef, 0, end-i)
		for _, id := range ids[i:end] {
			refs = append(refs, r.client.Collection(pymeCollection).Doc(id))
		}

		docs, err := r.client.GetAll(ctx, refs)
		if err != nil {
			log.Printf("Error batch fetching pymes: %v", err)
			return nil, errors.Internal("Failed to fetch pymes", err)
		}
		pymes = append(pymes, decodeDocs(docs, pymeFromDoc)...)
	}
	return pymes, nil
}

func (r *firestorePymeRepository) List(ctx context.Context) ([]*entity.Pyme, error) {
	pymes, err := queryAll(ctx, r.client.Collection(pymeCollection).Query, pymeFromDoc)
	if err != nil {
		return nil, errors.Internal("Failed to fetch pymes", err)
	}
	return pymes, nil
}

func (r *firestorePymeRepository) Watch(ctx context.Context, onUpdate func([]*entity.Pyme)) *subscription.Subscription {
	return watchQuery(ctx, "pymes", r.client.Collection(pymeCollection).Query, pymeFromDoc, onUpdate)
}
