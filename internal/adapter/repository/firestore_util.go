package repository

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ikam/pkg/subscription"
)

const (
	chatCollection         = "chat"
	messageCollection      = "mensaje"
	userCollection         = "users"
	pymeCollection         = "pyme"
	likeCollection         = "likes"
	categoriaCollection    = "categoria"
	subCategoriaCollection = "subCategoria"
	coloniaCollection      = "colonia"
	questionCollection     = "preguntas"
	supportCollection      = "soporte"
)

func IsNotFound(err error) bool {
	return err != nil && status.Code(err) == codes.NotFound
}

func IsAlreadyExists(err error) bool {
	return err != nil && status.Code(err) == codes.AlreadyExists
}

type decodeFunc[T any] func(doc *firestore.DocumentSnapshot) (*T, error)

// decodeDocs skips malformed documents instead of failing the whole result.
func decodeDocs[T any](docs []*firestore.DocumentSnapshot, decode decodeFunc[T]) []*T {
	items := make([]*T, 0, len(docs))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		item, err := decode(doc)
		if err != nil {
			log.Printf("Error parsing document %s: %v", doc.Ref.Path, err)
			continue
		}
		items = append(items, item)
	}
	return items
}

func queryAll[T any](ctx context.Context, q firestore.Query, decode decodeFunc[T]) ([]*T, error) {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return decodeDocs(docs, decode), nil
}

// watchQuery delivers the full decoded result set of q on every change.
func watchQuery[T any](parent context.Context, name string, q firestore.Query, decode decodeFunc[T], onUpdate func([]*T)) *subscription.Subscription {
	open := func(ctx context.Context) (func() ([]*T, error), func()) {
		it := q.Snapshots(ctx)
		next := func() ([]*T, error) {
			snap, err := it.Next()
			if err != nil {
				return nil, err
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				return nil, err
			}
			return decodeDocs(docs, decode), nil
		}
		return next, it.Stop
	}
	return subscription.Start(parent, name, open, onUpdate)
}
