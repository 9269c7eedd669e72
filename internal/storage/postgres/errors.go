package postgres

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/UkralStul/draft-store/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE, которые разбираются отдельно.
const (
	invalidTextRepresentation = "22P02"
	tooManyConnections        = "53300"
	adminShutdown             = "57P01"
	cannotConnectNow          = "57P03"
)

// classify сводит ошибку gorm/pgx к таксономии storage, сохраняя исходную причину.
func classify(op string, err error) error {
	if kind := kindOf(err); kind != nil {
		return fmt.Errorf("%s: %w: %w", op, kind, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// classifyLookup дополнительно считает невалидный uuid отсутствующей строкой:
// такой ключ не может совпасть ни с одной записью.
func classifyLookup(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrNotFound, err)
	}
	return classify(op, err)
}

func kindOf(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return storage.ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrDuplicatedKey):
		return storage.ErrConstraintViolation
	case errors.Is(err, driver.ErrBadConn):
		return storage.ErrConnection
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		// класс 23 - integrity constraint violation
		case strings.HasPrefix(pgErr.Code, "23"):
			return storage.ErrConstraintViolation
		// класс 08 - connection exception
		case strings.HasPrefix(pgErr.Code, "08"),
			pgErr.Code == tooManyConnections,
			pgErr.Code == adminShutdown,
			pgErr.Code == cannotConnectNow:
			return storage.ErrConnection
		}
		return nil
	}

	// pgconn оборачивает ошибку dial, net.OpError остается в цепочке
	var opErr *net.OpError
	if errors.As(err, &opErr) || pgconn.Timeout(err) {
		return storage.ErrConnection
	}
	return nil
}
