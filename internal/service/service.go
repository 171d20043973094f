package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/cloud"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/domain"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/repository"
)

// ReadingStore is the persistence collaborator for sensor readings.
type ReadingStore interface {
	InsertReading(ctx context.Context, rd *domain.Reading) error
	InsertReadings(ctx context.Context, readings []domain.Reading) error
	AverageByEquipment(ctx context.Context, start, end time.Time) ([]domain.EquipmentAverage, error)
}

// AccountStore is the persistence collaborator for accounts.
type AccountStore interface {
	CreateAccount(ctx context.Context, a *domain.Account) error
	AccountByUsername(ctx context.Context, username string) (*domain.Account, error)
}

// TokenIssuer is the token collaborator.
type TokenIssuer interface {
	IssuePair(accountID int64) (domain.TokenPair, error)
	Refresh(refreshToken string) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type UploadArchiver interface {
	ArchiveUpload(ctx context.Context, filename string, data []byte) (string, error)
}

type UploadNotifier interface {
	NotifyUploadReport(ctx context.Context, report cloud.UploadReport) error
}

type UploadRecorder interface {
	RecordUpload(ctx context.Context, report cloud.UploadReport) error
}

// Deps carries the collaborators that are not backed by the database.
// Archiver, Notifier and Ledger are optional.
type Deps struct {
	Tokens   TokenIssuer
	Hasher   PasswordHasher
	Archiver UploadArchiver
	Notifier UploadNotifier
	Ledger   UploadRecorder
}

type Services struct {
	Repos      *repository.Repos
	Readings   *ReadingService
	Aggregates *AggregateService
	Accounts   *AccountService
}

func New(db *sqlx.DB, deps Deps) *Services {
	repos := repository.New(db)
	return &Services{
		Repos:      repos,
		Readings:   NewReadingService(repos, deps.Archiver, deps.Notifier, deps.Ledger),
		Aggregates: NewAggregateService(repos),
		Accounts:   NewAccountService(repos, deps.Hasher, deps.Tokens),
	}
}
