package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/UkralStul/draft-store/internal/domain"
	"github.com/UkralStul/draft-store/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var _ storage.DraftStorage = (*Store)(nil)

// Store реализует хранилище черновиков в PostgreSQL.
// Каждая операция - один SQL-запрос на соединении, взятом из пула gorm.
type Store struct {
	db *gorm.DB
}

// Options - параметры пула соединений.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	LogLevel        logger.LogLevel
}

// New создает новый экземпляр хранилища PostgreSQL.
func New(dsn string, opts Options) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(opts.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w: %w", storage.ErrConnection, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	// Таблицы persons и communities ведет внешняя схема, здесь только draft
	if opts.AutoMigrate {
		if err := db.AutoMigrate(&domain.Draft{}); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// NewWithDB оборачивает уже открытый *gorm.DB.
func NewWithDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx возвращает хранилище, выполняющее запросы внутри транзакции tx.
// Транзакцией управляет вызывающий код.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

// Close закрывает пул соединений.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ParseLogLevel переводит уровень из конфигурации в уровень логгера gorm.
func ParseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (s *Store) Create(ctx context.Context, form domain.DraftInsertForm) (*domain.Draft, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	row, res := s.insert(ctx, form)
	if res.Error != nil {
		return nil, classify("create draft", res.Error)
	}
	return row, nil
}

// insert выполняет INSERT ... RETURNING *. Незаданные поля со значением
// по умолчанию в запрос не попадают, их значения берутся из схемы.
func (s *Store) insert(ctx context.Context, form domain.DraftInsertForm) (*domain.Draft, *gorm.DB) {
	row := form.Row()
	q := s.db.WithContext(ctx).Clauses(clause.Returning{})
	if cols := form.DefaultedColumns(); len(cols) > 0 {
		q = q.Omit(cols...)
	}
	return &row, q.Create(&row)
}

func (s *Store) Read(ctx context.Context, id domain.DraftID) (*domain.Draft, error) {
	var draft domain.Draft
	if err := s.db.WithContext(ctx).First(&draft, "id = ?", id).Error; err != nil {
		return nil, classifyLookup(fmt.Sprintf("read draft %s", id), err)
	}
	return &draft, nil
}

func (s *Store) Update(ctx context.Context, id domain.DraftID, form domain.DraftUpdateForm) (*domain.Draft, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	changes := form.Changes()
	if len(changes) == 0 {
		return s.Read(ctx, id)
	}

	draft, res := s.update(ctx, id, changes)
	if res.Error != nil {
		return nil, classifyLookup(fmt.Sprintf("update draft %s", id), res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update draft %s: %w", id, storage.ErrNotFound)
	}
	return draft, nil
}

// update выполняет UPDATE ... RETURNING * только по колонкам из changes.
func (s *Store) update(ctx context.Context, id domain.DraftID, changes map[string]any) (*domain.Draft, *gorm.DB) {
	var draft domain.Draft
	res := s.db.WithContext(ctx).
		Model(&draft).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(changes)
	return &draft, res
}

func (s *Store) Delete(ctx context.Context, id domain.DraftID) (int64, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Draft{})
	if res.Error != nil {
		err := classifyLookup(fmt.Sprintf("delete draft %s", id), res.Error)
		if storage.Kind(err) == storage.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	return res.RowsAffected, nil
}
