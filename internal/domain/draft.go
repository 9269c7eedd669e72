package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Draft представляет неопубликованный черновик поста.
type Draft struct {
	ID          DraftID     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string      `json:"name" gorm:"type:text;not null"`
	URL         *string     `json:"url,omitempty" gorm:"type:text"`  // ссылка поста
	Body        *string     `json:"body,omitempty" gorm:"type:text"` // markdown
	CreatorID   PersonID    `json:"creatorId" gorm:"type:uuid;not null;index"`
	CommunityID CommunityID `json:"communityId" gorm:"type:uuid;not null;index"`
	NSFW        bool        `json:"nsfw" gorm:"column:nsfw;not null;default:false"`

	// Метаданные для превью ссылки.
	EmbedTitle       *string `json:"embedTitle,omitempty" gorm:"type:text"`
	EmbedDescription *string `json:"embedDescription,omitempty" gorm:"type:text"`
	ThumbnailURL     *string `json:"thumbnailUrl,omitempty" gorm:"type:text"`
	EmbedVideoURL    *string `json:"embedVideoUrl,omitempty" gorm:"type:text"`

	LanguageID LanguageID `json:"languageId" gorm:"not null;default:0"`
}

func (Draft) TableName() string { return "draft" }

// Колонки таблицы draft, которые допускают изменение.
const (
	ColumnName             = "name"
	ColumnURL              = "url"
	ColumnBody             = "body"
	ColumnNSFW             = "nsfw"
	ColumnEmbedTitle       = "embed_title"
	ColumnEmbedDescription = "embed_description"
	ColumnEmbedVideoURL    = "embed_video_url"
	ColumnThumbnailURL     = "thumbnail_url"
	ColumnLanguageID       = "language_id"
)

// ErrValidation - общий вид ошибок валидации форм.
var ErrValidation = errors.New("validation failed")

// ValidationError сообщает, какое поле формы некорректно.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// DraftInsertForm содержит все, что нужно для создания черновика.
// Name, CreatorID и CommunityID обязательны, остальные поля берут значения по умолчанию.
type DraftInsertForm struct {
	Name             string      `json:"name"`
	CreatorID        PersonID    `json:"creatorId"`
	CommunityID      CommunityID `json:"communityId"`
	NSFW             *bool       `json:"nsfw,omitempty"`
	URL              *string     `json:"url,omitempty"`
	Body             *string     `json:"body,omitempty"`
	EmbedTitle       *string     `json:"embedTitle,omitempty"`
	EmbedDescription *string     `json:"embedDescription,omitempty"`
	EmbedVideoURL    *string     `json:"embedVideoUrl,omitempty"`
	ThumbnailURL     *string     `json:"thumbnailUrl,omitempty"`
	LanguageID       *LanguageID `json:"languageId,omitempty"`
}

// NewDraftInsertForm принимает обязательные поля аргументами,
// поэтому форму без них через конструктор не собрать.
func NewDraftInsertForm(name string, creatorID PersonID, communityID CommunityID) DraftInsertForm {
	return DraftInsertForm{Name: name, CreatorID: creatorID, CommunityID: communityID}
}

func (f DraftInsertForm) WithNSFW(v bool) DraftInsertForm   { f.NSFW = &v; return f }
func (f DraftInsertForm) WithURL(v string) DraftInsertForm  { f.URL = &v; return f }
func (f DraftInsertForm) WithBody(v string) DraftInsertForm { f.Body = &v; return f }

func (f DraftInsertForm) WithEmbed(title, description string) DraftInsertForm {
	f.EmbedTitle, f.EmbedDescription = &title, &description
	return f
}

func (f DraftInsertForm) WithEmbedVideoURL(v string) DraftInsertForm { f.EmbedVideoURL = &v; return f }
func (f DraftInsertForm) WithThumbnailURL(v string) DraftInsertForm  { f.ThumbnailURL = &v; return f }
func (f DraftInsertForm) WithLanguage(v LanguageID) DraftInsertForm  { f.LanguageID = &v; return f }

// Validate ловит формы, собранные литералом без обязательных полей.
func (f DraftInsertForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: ColumnName, Reason: "is required"}
	}
	if f.CreatorID == "" {
		return &ValidationError{Field: "creator_id", Reason: "is required"}
	}
	if f.CommunityID == "" {
		return &ValidationError{Field: "community_id", Reason: "is required"}
	}
	return nil
}

// Row строит строку для вставки с примененными значениями по умолчанию.
// ID остается пустым, его выдает хранилище.
func (f DraftInsertForm) Row() Draft {
	d := Draft{
		Name:             f.Name,
		URL:              clonePtr(f.URL),
		Body:             clonePtr(f.Body),
		CreatorID:        f.CreatorID,
		CommunityID:      f.CommunityID,
		EmbedTitle:       clonePtr(f.EmbedTitle),
		EmbedDescription: clonePtr(f.EmbedDescription),
		EmbedVideoURL:    clonePtr(f.EmbedVideoURL),
		ThumbnailURL:     clonePtr(f.ThumbnailURL),
		LanguageID:       UndeterminedLanguage,
	}
	if f.NSFW != nil {
		d.NSFW = *f.NSFW
	}
	if f.LanguageID != nil {
		d.LanguageID = *f.LanguageID
	}
	return d
}

// DefaultedColumns возвращает колонки со значением по умолчанию в схеме,
// которые форма не задала. При вставке их нужно пропускать.
func (f DraftInsertForm) DefaultedColumns() []string {
	var cols []string
	if f.NSFW == nil {
		cols = append(cols, ColumnNSFW)
	}
	if f.LanguageID == nil {
		cols = append(cols, ColumnLanguageID)
	}
	return cols
}

// DraftUpdateForm описывает частичное изменение черновика.
// Обычные поля: nil - не менять. Nullable-колонки задаются через Patch,
// чтобы отличать "не менять" от "очистить".
// ID, CreatorID и CommunityID не меняются, поэтому их здесь нет.
type DraftUpdateForm struct {
	Name             *string       `json:"name,omitempty"`
	NSFW             *bool         `json:"nsfw,omitempty"`
	URL              Patch[string] `json:"url,omitzero"`
	Body             Patch[string] `json:"body,omitzero"`
	EmbedTitle       Patch[string] `json:"embedTitle,omitzero"`
	EmbedDescription Patch[string] `json:"embedDescription,omitzero"`
	EmbedVideoURL    Patch[string] `json:"embedVideoUrl,omitzero"`
	ThumbnailURL     Patch[string] `json:"thumbnailUrl,omitzero"`
	LanguageID       *LanguageID   `json:"languageId,omitempty"`
}

func (f DraftUpdateForm) Validate() error {
	if f.Name != nil && strings.TrimSpace(*f.Name) == "" {
		return &ValidationError{Field: ColumnName, Reason: "cannot be empty"}
	}
	return nil
}

// IsEmpty сообщает, что форма ничего не меняет.
func (f DraftUpdateForm) IsEmpty() bool {
	return len(f.Changes()) == 0
}

// Changes возвращает набор изменений колонка -> значение.
// Очищаемые колонки получают nil.
func (f DraftUpdateForm) Changes() map[string]any {
	changes := make(map[string]any)
	if f.Name != nil {
		changes[ColumnName] = *f.Name
	}
	if f.NSFW != nil {
		changes[ColumnNSFW] = *f.NSFW
	}
	if f.LanguageID != nil {
		changes[ColumnLanguageID] = *f.LanguageID
	}
	patches := []struct {
		column string
		patch  Patch[string]
	}{
		{ColumnURL, f.URL},
		{ColumnBody, f.Body},
		{ColumnEmbedTitle, f.EmbedTitle},
		{ColumnEmbedDescription, f.EmbedDescription},
		{ColumnEmbedVideoURL, f.EmbedVideoURL},
		{ColumnThumbnailURL, f.ThumbnailURL},
	}
	for _, p := range patches {
		if !p.patch.IsSet() {
			continue
		}
		if v, ok := p.patch.Get(); ok {
			changes[p.column] = v
		} else {
			changes[p.column] = nil
		}
	}
	return changes
}

// ApplyTo применяет форму к черновику в памяти.
func (f DraftUpdateForm) ApplyTo(d *Draft) {
	if f.Name != nil {
		d.Name = *f.Name
	}
	if f.NSFW != nil {
		d.NSFW = *f.NSFW
	}
	if f.LanguageID != nil {
		d.LanguageID = *f.LanguageID
	}
	f.URL.Apply(&d.URL)
	f.Body.Apply(&d.Body)
	f.EmbedTitle.Apply(&d.EmbedTitle)
	f.EmbedDescription.Apply(&d.EmbedDescription)
	f.EmbedVideoURL.Apply(&d.EmbedVideoURL)
	f.ThumbnailURL.Apply(&d.ThumbnailURL)
}

// Clone возвращает копию без общих указателей.
func (d Draft) Clone() Draft {
	d.URL = clonePtr(d.URL)
	d.Body = clonePtr(d.Body)
	d.EmbedTitle = clonePtr(d.EmbedTitle)
	d.EmbedDescription = clonePtr(d.EmbedDescription)
	d.EmbedVideoURL = clonePtr(d.EmbedVideoURL)
	d.ThumbnailURL = clonePtr(d.ThumbnailURL)
	return d
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
