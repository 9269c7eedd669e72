package domain

import "github.com/google/uuid"

// DraftID идентифицирует черновик.
type DraftID string

// PersonID идентифицирует автора черновика.
type PersonID string

// CommunityID идентифицирует сообщество, в которое будет опубликован черновик.
type CommunityID string

// LanguageID - ключ в реестре языков.
type LanguageID int32

// UndeterminedLanguage используется, когда язык не указан.
const UndeterminedLanguage LanguageID = 0

func NewDraftID() DraftID         { return DraftID(uuid.NewString()) }
func NewPersonID() PersonID       { return PersonID(uuid.NewString()) }
func NewCommunityID() CommunityID { return CommunityID(uuid.NewString()) }

func (id DraftID) String() string     { return string(id) }
func (id PersonID) String() string    { return string(id) }
func (id CommunityID) String() string { return string(id) }
