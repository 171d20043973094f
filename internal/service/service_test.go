package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/auth"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/cloud"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/database"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/domain"
)

func setupDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

func setupServices(t *testing.T, deps Deps) *Services {
	t.Helper()
	if deps.Tokens == nil {
		deps.Tokens = auth.NewIssuer([]byte("test-secret"), 5*time.Minute, 24*time.Hour)
	}
	if deps.Hasher == nil {
		deps.Hasher = auth.NewHasher(bcrypt.MinCost)
	}
	return New(setupDB(t), deps)
}

type fakeArchiver struct {
	files map[string][]byte
	err   error
}

func (f *fakeArchiver) ArchiveUpload(_ context.Context, filename string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	f.files[filename] = data
	return "uploads/test/" + filename, nil
}

// fakeNotifier doubles as notifier and ledger.
type fakeNotifier struct {
	reports []cloud.UploadReport
}

func (f *fakeNotifier) NotifyUploadReport(_ context.Context, r cloud.UploadReport) error {
	f.reports = append(f.reports, r)
	return nil
}

func (f *fakeNotifier) RecordUpload(ctx context.Context, r cloud.UploadReport) error {
	return f.NotifyUploadReport(ctx, r)
}

// failingStore fails every write, standing in for a lost connection.
type failingStore struct{}

var errStoreDown = errors.New("connection refused")

func (failingStore) InsertReading(context.Context, *domain.Reading) error { return errStoreDown }
func (failingStore) InsertReadings(context.Context, []domain.Reading) error { return errStoreDown }
func (failingStore) AverageByEquipment(context.Context, time.Time, time.Time) ([]domain.EquipmentAverage, error) {
	return nil, errStoreDown
}
