package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/UkralStul/draft-store/internal/domain"
	"github.com/UkralStul/draft-store/internal/storage"
)

var _ storage.DraftStorage = (*Store)(nil)

// Store реализует хранилище черновиков в памяти.
// Наружу отдаются только копии, чтобы вызывающий код не менял строки в обход Update.
type Store struct {
	mu          sync.RWMutex
	drafts      map[domain.DraftID]*domain.Draft
	persons     map[domain.PersonID]struct{}
	communities map[domain.CommunityID]struct{}
}

// New создает новый экземпляр in-memory хранилища.
func New() *Store {
	return &Store{
		drafts:      make(map[domain.DraftID]*domain.Draft),
		persons:     make(map[domain.PersonID]struct{}),
		communities: make(map[domain.CommunityID]struct{}),
	}
}

// AddPerson регистрирует автора, на которого могут ссылаться черновики.
func (s *Store) AddPerson(id domain.PersonID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persons[id] = struct{}{}
}

// AddCommunity регистрирует сообщество, на которое могут ссылаться черновики.
func (s *Store) AddCommunity(id domain.CommunityID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.communities[id] = struct{}{}
}

func (s *Store) Create(ctx context.Context, form domain.DraftInsertForm) (*domain.Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Аналог внешних ключей в базе
	if _, ok := s.persons[form.CreatorID]; !ok {
		return nil, fmt.Errorf("creator %s does not exist: %w", form.CreatorID, storage.ErrConstraintViolation)
	}
	if _, ok := s.communities[form.CommunityID]; !ok {
		return nil, fmt.Errorf("community %s does not exist: %w", form.CommunityID, storage.ErrConstraintViolation)
	}

	row := form.Row()
	row.ID = domain.NewDraftID()
	s.drafts[row.ID] = &row

	out := row.Clone()
	return &out, nil
}

func (s *Store) Read(ctx context.Context, id domain.DraftID) (*domain.Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	draft, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft with id %s: %w", id, storage.ErrNotFound)
	}
	out := draft.Clone()
	return &out, nil
}

func (s *Store) Update(ctx context.Context, id domain.DraftID, form domain.DraftUpdateForm) (*domain.Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft with id %s: %w", id, storage.ErrNotFound)
	}
	form.ApplyTo(draft)

	out := draft.Clone()
	return &out, nil
}

func (s *Store) Delete(ctx context.Context, id domain.DraftID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return 0, nil
	}
	delete(s.drafts, id)
	return 1, nil
}
