package inmemory

import (
	"context"
	"sync"
	"testing"

	"github.com/UkralStul/draft-store/internal/domain"
	"github.com/UkralStul/draft-store/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore создает хранилище с одним автором и одним сообществом
func newTestStore(t *testing.T) (*Store, domain.PersonID, domain.CommunityID) {
	t.Helper()
	store := New()
	person, community := domain.NewPersonID(), domain.NewCommunityID()
	store.AddPerson(person)
	store.AddCommunity(community)
	return store, person, community
}

func TestStore_Crud(t *testing.T) {
	store, person, community := newTestStore(t)
	ctx := context.Background()

	inserted, err := store.Create(ctx, domain.NewDraftInsertForm("A test post", person, community))
	require.NoError(t, err)
	require.NotEmpty(t, inserted.ID)

	expected := domain.Draft{
		ID:          inserted.ID,
		Name:        "A test post",
		CreatorID:   person,
		CommunityID: community,
		NSFW:        false,
		LanguageID:  domain.UndeterminedLanguage,
	}
	assert.Equal(t, expected, *inserted)

	read, err := store.Read(ctx, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, expected, *read)

	name := "A test post"
	updated, err := store.Update(ctx, inserted.ID, domain.DraftUpdateForm{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, expected, *updated)

	deleted, err := store.Delete(ctx, inserted.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}

func TestStore_CreateWithOptionalFields(t *testing.T) {
	store, person, community := newTestStore(t)
	ctx := context.Background()

	form := domain.NewDraftInsertForm("Link", person, community).
		WithURL("https://example.com").
		WithBody("**bold**").
		WithNSFW(true).
		WithEmbed("Example", "An example page").
		WithThumbnailURL("https://example.com/t.png").
		WithLanguage(37)

	inserted, err := store.Create(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", *inserted.URL)
	assert.Equal(t, "**bold**", *inserted.Body)
	assert.True(t, inserted.NSFW)
	assert.Equal(t, "Example", *inserted.EmbedTitle)
	assert.Equal(t, "An example page", *inserted.EmbedDescription)
	assert.Nil(t, inserted.EmbedVideoURL)
	assert.Equal(t, domain.LanguageID(37), inserted.LanguageID)

	read, err := store.Read(ctx, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, inserted, read)
}

func TestStore_CreateMissingRequiredField(t *testing.T) {
	store, person, community := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, domain.DraftInsertForm{CreatorID: person, CommunityID: community})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrValidation)

	_, err = store.Create(ctx, domain.DraftInsertForm{Name: "no creator", CommunityID: community})
	assert.ErrorIs(t, err, storage.ErrValidation)
}

func TestStore_CreateUnknownReferences(t *testing.T) {
	store, person, community := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, domain.NewDraftInsertForm("x", domain.NewPersonID(), community))
	assert.ErrorIs(t, err, storage.ErrConstraintViolation)

	_, err = store.Create(ctx, domain.NewDraftInsertForm("x", person, domain.NewCommunityID()))
	assert.ErrorIs(t, err, storage.ErrConstraintViolation)
}

func TestStore_ReadNotFound(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.Read(context.Background(), domain.NewDraftID())
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_UpdateEmptyFormIsNoop(t *testing.T) {
	store, person, community := newTestStore(t)
	ctx := context.Background()

	inserted, err := store.Create(ctx, domain.NewDraftInsertForm("Draft", person, community).WithURL("https://a.b"))
	require.NoError(t, err)

	updated, err := store.Update(ctx, inserted.ID, domain.DraftUpdateForm{})
	require.NoError(t, err)
	assert.Equal(t, inserted, updated)
}

func TestStore_UpdateClearVersusUntouched(t *testing.T) {
	store, person, community := newTestStore(t)
	ctx := context.Background()

	inserted, err := store.Create(ctx, domain.NewDraftInsertForm("Draft", person, community).
		WithURL("https://a.b").
		WithBody("body"))
	require.NoError(t, err)

	// url не задан - остается как был
	updated, err := store.Update(ctx, inserted.ID, domain.DraftUpdateForm{Body: domain.Set("new body")})
	require.NoError(t, err)
	require.NotNil(t, updated.URL)
	assert.Equal(t, "https://a.b", *updated.URL)
	assert.Equal(t, "new body", *updated.Body)

	// url явно очищен
	updated, err = store.Update(ctx, inserted.ID, domain.DraftUpdateForm{URL: domain.Clear[string]()})
	require.NoError(t, err)
	assert.Nil(t, updated.URL)
	assert.Equal(t, "new body", *updated.Body)

	read, err := store.Read(ctx, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, read)
}

func TestStore_UpdateNotFound(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.Update(context.Background(), domain.NewDraftID(), domain.DraftUpdateForm{})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_UpdateEmptyName(t *testing.T) {
	store, person, community := newTestStore(t)
	ctx := context.Background()

	inserted, err := store.Create(ctx, domain.NewDraftInsertForm("Draft", person, community))
	require.NoError(t, err)

	empty := " "
	_, err = store.Update(ctx, inserted.ID, domain.DraftUpdateForm{Name: &empty})
	assert.ErrorIs(t, err, storage.ErrValidation)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	store, person, community := newTestStore(t)
	ctx := context.Background()

	inserted, err := store.Create(ctx, domain.NewDraftInsertForm("Draft", person, community))
	require.NoError(t, err)

	n, err := store.Delete(ctx, inserted.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = store.Delete(ctx, inserted.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	_, err = store.Read(ctx, inserted.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ReturnedDraftsAreCopies(t *testing.T) {
	store, person, community := newTestStore(t)
	ctx := context.Background()

	inserted, err := store.Create(ctx, domain.NewDraftInsertForm("Draft", person, community).WithURL("https://a.b"))
	require.NoError(t, err)

	*inserted.URL = "https://changed"
	inserted.Name = "changed"

	read, err := store.Read(ctx, inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft", read.Name)
	assert.Equal(t, "https://a.b", *read.URL)
}

func TestStore_CancelledContext(t *testing.T) {
	store, person, community := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Create(ctx, domain.NewDraftInsertForm("Draft", person, community))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_ConcurrentCreate(t *testing.T) {
	store, person, community := newTestStore(t)
	ctx := context.Background()

	const n = 50
	ids := make([]domain.DraftID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := store.Create(ctx, domain.NewDraftInsertForm("Draft", person, community))
			if assert.NoError(t, err) {
				ids[i] = d.ID
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[domain.DraftID]struct{}, n)
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)
}
