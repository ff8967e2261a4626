package memory

import (
	"encoding/json"
	"fmt"
	"os"

	"ikam/internal/domain/entity"
)

// Fixtures is the layout of the MEMORY_SEED_FILE document.
type Fixtures struct {
	Users         []*entity.UserProfile  `json:"users"`
	Pymes         []*entity.Pyme         `json:"pymes"`
	Chats         []*entity.Chat         `json:"chats"`
	Messages      []*entity.Message      `json:"messages"`
	Favorites     []*entity.Favorite     `json:"favorites"`
	Categorias    []*entity.Categoria    `json:"categorias"`
	SubCategorias []*entity.SubCategoria `json:"subcategorias"`
	Colonias      []*entity.Colonia      `json:"colonias"`
	Questions     []*entity.Question     `json:"preguntas"`
}

func LoadFixtures(store *Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}

	var f Fixtures
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse fixtures %s: %w", path, err)
	}

	store.Seed(f)
	return nil
}

// Seed writes every fixture document, replacing documents with the same id.
func (s *Store) Seed(f Fixtures) {
	_ = s.write(func() error {
		for _, u := range f.Users {
			s.users[u.UID] = copyUser(u)
		}
		for _, p := range f.Pymes {
			s.pymes[p.ID] = copyOf(p)
		}
		for _, c := range f.Chats {
			s.chats[c.ID] = copyOf(c)
		}
		for _, m := range f.Messages {
			s.messages[m.ChatID] = append(s.messages[m.ChatID], copyOf(m))
		}
		for _, fav := range f.Favorites {
			if fav.ID == "" {
				fav.ID = entity.FavoriteID(fav.UserID, fav.PymeID)
			}
			s.favorites[fav.ID] = copyOf(fav)
		}
		for _, c := range f.Categorias {
			s.categorias[c.ID] = copyOf(c)
		}
		for _, c := range f.SubCategorias {
			s.subCategorias[c.ID] = copyOf(c)
		}
		for _, c := range f.Colonias {
			s.colonias[c.ID] = copyOf(c)
		}
		for _, q := range f.Questions {
			s.questions[q.ID] = copyOf(q)
		}
		return nil
	})
}

func (s *Store) PutUser(u *entity.UserProfile) {
	s.Seed(Fixtures{Users: []*entity.UserProfile{u}})
}

func (s *Store) PutPyme(p *entity.Pyme) {
	s.Seed(Fixtures{Pymes: []*entity.Pyme{p}})
}

func (s *Store) PutChat(c *entity.Chat) {
	s.Seed(Fixtures{Chats: []*entity.Chat{c}})
}

func (s *Store) DeleteChat(id string) {
	_ = s.write(func() error {
		delete(s.chats, id)
		return nil
	})
}

func (s *Store) Tickets() []*entity.SupportTicket {
	var tickets []*entity.SupportTicket
	s.read(func() { tickets = sortedValues(s.tickets) })
	return tickets
}
