// Package memory is a process-local document store with live listeners. It
// backs development runs (STORE_DRIVER=memory) and the use case tests.
package memory

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"ikam/internal/domain/entity"
	"ikam/pkg/subscription"
)

type Store struct {
	mu            sync.RWMutex
	chats         map[string]*entity.Chat
	messages      map[string][]*entity.Message
	users         map[string]*entity.UserProfile
	pymes         map[string]*entity.Pyme
	favorites     map[string]*entity.Favorite
	categorias    map[string]*entity.Categoria
	subCategorias map[string]*entity.SubCategoria
	colonias      map[string]*entity.Colonia
	questions     map[string]*entity.Question
	tickets       map[string]*entity.SupportTicket

	watchMu  sync.Mutex
	watchers map[int]chan struct{}
	nextID   int

	failMu   sync.Mutex
	failures map[string]error
}

func NewStore() *Store {
	return &Store{
		chats:         make(map[string]*entity.Chat),
		messages:      make(map[string][]*entity.Message),
		users:         make(map[string]*entity.UserProfile),
		pymes:         make(map[string]*entity.Pyme),
		favorites:     make(map[string]*entity.Favorite),
		categorias:    make(map[string]*entity.Categoria),
		subCategorias: make(map[string]*entity.SubCategoria),
		colonias:      make(map[string]*entity.Colonia),
		questions:     make(map[string]*entity.Question),
		tickets:       make(map[string]*entity.SupportTicket),
		watchers:      make(map[int]chan struct{}),
		failures:      make(map[string]error),
	}
}

// write runs fn under the write lock and wakes every listener afterwards.
func (s *Store) write(fn func() error) error {
	s.mu.Lock()
	err := fn()
	s.mu.Unlock()
	if err == nil {
		s.broadcast()
	}
	return err
}

func (s *Store) read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) broadcast() {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Store) addWatcher() (<-chan struct{}, func()) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan struct{}, 1)
	s.watchers[id] = ch

	return ch, func() {
		s.watchMu.Lock()
		delete(s.watchers, id)
		s.watchMu.Unlock()
	}
}

// FailListeners makes every listener whose name has the given prefix fail with
// err on its next wake-up. Used to simulate backend listener errors.
func (s *Store) FailListeners(prefix string, err error) {
	s.failMu.Lock()
	s.failures[prefix] = err
	s.failMu.Unlock()
	s.broadcast()
}

func (s *Store) listenerFailure(name string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	for prefix, err := range s.failures {
		if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
			return err
		}
	}
	return nil
}

// ListenerCount reports how many listeners are attached.
func (s *Store) ListenerCount() int {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	return len(s.watchers)
}

// watch delivers view() once on attach and again whenever a write changes it.
func watch[T any](s *Store, parent context.Context, name string, view func() T, onUpdate func(T)) *subscription.Subscription {
	open := func(ctx context.Context) (func() (T, error), func()) {
		signal, release := s.addWatcher()
		first := true
		var last T

		next := func() (T, error) {
			for {
				if !first {
					select {
					case <-ctx.Done():
						var zero T
						return zero, ctx.Err()
					case <-signal:
					}
				}
				if err := s.listenerFailure(name); err != nil {
					var zero T
					return zero, err
				}

				var current, out T
				changed := false
				s.read(func() {
					current = view()
					if first || !reflect.DeepEqual(current, last) {
						changed = true
						out = view()
					}
				})
				if changed {
					first = false
					last = current
					return out, nil
				}
			}
		}
		return next, release
	}
	return subscription.Start(parent, name, open, onUpdate)
}

func copyOf[T any](v *T) *T {
	c := *v
	return &c
}

func copyUser(u *entity.UserProfile) *entity.UserProfile {
	c := copyOf(u)
	c.Tokens = append([]string(nil), u.Tokens...)
	return c
}

// sortedValues returns copies of the map values ordered by key.
func sortedValues[T any](m map[string]*T) []*T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*T, 0, len(keys))
	for _, k := range keys {
		out = append(out, copyOf(m[k]))
	}
	return out
}
