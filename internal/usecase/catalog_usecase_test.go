package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ikam/internal/adapter/repository/memory"
	"ikam/internal/domain/entity"
	"ikam/pkg/errors"
)

func newCatalogFixture() (*memory.Store, *CatalogUseCase, *SupportUseCase) {
	store := memory.NewStore()
	store.Seed(memory.Fixtures{
		Pymes:      []*entity.Pyme{{ID: "p1", Name: "Tacos Lupita", CategoryID: "c1"}},
		Categorias: []*entity.Categoria{{ID: "c1", Name: "Comida"}, {ID: "c2", Name: "Servicios"}},
		SubCategorias: []*entity.SubCategoria{
			{ID: "s1", Name: "Tacos", CategoryID: "c1"},
			{ID: "s2", Name: "Plomería", CategoryID: "c2"},
		},
		Colonias: []*entity.Colonia{{ID: "k1", Name: "Centro"}, {ID: "k2", Name: "Las Flores"}},
	})
	support := memory.NewSupportRepository(store)
	catalog := NewCatalogUseCase(memory.NewCatalogRepository(store), memory.NewPymeRepository(store), support)
	return store, catalog, NewSupportUseCase(support)
}

func TestCatalogBootstrap(t *testing.T) {
	_, uc, _ := newCatalogFixture()

	snapshot, err := uc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Len(t, snapshot.Pymes, 1)
	assert.Len(t, snapshot.Categorias, 2)
	assert.Len(t, snapshot.SubCategorias, 2)
	assert.Equal(t, []entity.ColoniaOption{
		{Label: "Centro", Value: "Centro"},
		{Label: "Las Flores", Value: "Las Flores"},
	}, snapshot.Colonias)
}

func TestListSubCategoriasFilter(t *testing.T) {
	_, uc, _ := newCatalogFixture()

	subs, err := uc.ListSubCategorias(context.Background(), "c2")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Plomería", subs[0].Name)
}

func TestGetPymeDetailsMissing(t *testing.T) {
	_, uc, _ := newCatalogFixture()

	_, err := uc.GetPymeDetails(context.Background(), "p404")
	assert.True(t, errors.IsNotFound(err))
}

func TestCatalogSubscribe(t *testing.T) {
	_, uc, support := newCatalogFixture()
	ctx := context.Background()

	_, err := uc.Subscribe(ctx, "productos", func(interface{}) {})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	var mu sync.Mutex
	var last interface{}
	sub, err := uc.Subscribe(ctx, CollectionPreguntas, func(v interface{}) {
		mu.Lock()
		last = v
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Cancel()

	_, err = support.AskQuestion(ctx, "ana@example.com", "¿Cómo registro mi negocio?")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		questions, ok := last.([]*entity.Question)
		return ok && len(questions) == 1 && questions[0].Email == "ana@example.com"
	}, time.Second, 5*time.Millisecond)
}

func TestSupportValidation(t *testing.T) {
	store, _, support := newCatalogFixture()
	ctx := context.Background()

	_, err := support.AskQuestion(ctx, "ana@example.com", "  ")
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	_, err = support.OpenSupportTicket(ctx, "ana@example.com", "", "no carga")
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	ticket, err := support.OpenSupportTicket(ctx, "ana@example.com", "App", "no carga el mapa")
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.ID)
	assert.Len(t, store.Tickets(), 1)
}
