package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/UkralStul/draft-store/internal/config"
	"github.com/UkralStul/draft-store/internal/domain"
	"github.com/UkralStul/draft-store/internal/storage"
	"github.com/UkralStul/draft-store/internal/storage/inmemory"
	"github.com/UkralStul/draft-store/internal/storage/postgres"
)

// flags - параметры командной строки поверх конфигурации из окружения.
type flags struct {
	creator   domain.PersonID
	community domain.CommunityID
}

// loadConfig читает окружение, применяет флаги и только потом проверяет результат.
func loadConfig(args []string) (config.Config, flags, error) {
	cfg, err := config.Parse()
	if err != nil {
		return config.Config{}, flags{}, err
	}

	fs := flag.NewFlagSet("drafts", flag.ContinueOnError)
	storageType := fs.String("storage", cfg.Storage, "Storage type (in-memory or postgres)")
	creator := fs.String("creator", "", "Existing person id (postgres only)")
	community := fs.String("community", "", "Existing community id (postgres only)")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, flags{}, err
	}
	cfg.Storage = *storageType

	if err := cfg.Validate(); err != nil {
		return config.Config{}, flags{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, flags{creator: domain.PersonID(*creator), community: domain.CommunityID(*community)}, nil
}

func main() {
	cfg, f, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := run(cfg, f); err != nil {
		log.Fatalf("round trip failed: %v", err)
	}
}

func run(cfg config.Config, f flags) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var store storage.DraftStorage
	personID, communityID := f.creator, f.community

	log.Printf("Starting with %s storage", cfg.Storage)
	if cfg.Storage == config.StoragePostgres {
		pg, err := postgres.New(cfg.DatabaseURL, postgres.Options{
			MaxOpenConns:    cfg.DB.MaxOpenConns,
			MaxIdleConns:    cfg.DB.MaxIdleConns,
			ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
			AutoMigrate:     cfg.DB.AutoMigrate,
			LogLevel:        postgres.ParseLogLevel(cfg.DB.LogLevel),
		})
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		defer pg.Close()
		store = pg
	} else {
		mem := inmemory.New()
		// Ссылки на автора и сообщество для проверки внешних ключей
		if personID == "" {
			personID = domain.NewPersonID()
		}
		if communityID == "" {
			communityID = domain.NewCommunityID()
		}
		mem.AddPerson(personID)
		mem.AddCommunity(communityID)
		store = mem
	}

	return roundTrip(ctx, store, personID, communityID)
}

// roundTrip проходит полный цикл жизни черновика и проверяет результат каждого шага.
func roundTrip(ctx context.Context, s storage.DraftStorage, personID domain.PersonID, communityID domain.CommunityID) error {
	draft, err := s.Create(ctx, domain.NewDraftInsertForm("A test post", personID, communityID).
		WithURL("https://example.com/post"))
	if err != nil {
		return err
	}
	log.Printf("created draft %s (nsfw=%t, language=%d)", draft.ID, draft.NSFW, draft.LanguageID)

	read, err := s.Read(ctx, draft.ID)
	if err != nil {
		return err
	}
	log.Printf("read draft %s: %q", read.ID, read.Name)

	name := "A test post"
	updated, err := s.Update(ctx, draft.ID, domain.DraftUpdateForm{
		Name: &name,
		URL:  domain.Clear[string](),
	})
	if err != nil {
		return err
	}
	log.Printf("updated draft %s, url cleared: %t", updated.ID, updated.URL == nil)

	n, err := s.Delete(ctx, draft.ID)
	if err != nil {
		return err
	}
	log.Printf("deleted %d draft(s)", n)
	return nil
}
