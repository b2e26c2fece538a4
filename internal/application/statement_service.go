package application

import (
	"bytes"
	"context"
	"encoding/csv"
	"path"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-finance/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-finance/internal/domain/repository"
)

// ObjectUploader stores a blob and returns its public URL.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, body []byte) (string, error)
}

// StatementService exports a user's yearly entries as CSV.
type StatementService struct {
	Repo     repo.EntryRepository
	Uploader ObjectUploader
	Logger   *logrus.Logger
}

func NewStatementService(repo repo.EntryRepository, uploader ObjectUploader, logger *logrus.Logger) *StatementService {
	return &StatementService{Repo: repo, Uploader: uploader, Logger: logger}
}

var statementHeader = []string{"id", "description", "month", "year", "amount", "type", "status", "registration_date"}

// Export uploads the user's entries for year and returns the object URL.
func (s *StatementService) Export(ctx context.Context, userID int64, year int) (string, error) {
	if s.Uploader == nil {
		return "", ErrExportUnavailable
	}
	entries, err := s.Repo.Find(ctx, repo.EntryFilter{UserID: &userID, Year: &year})
	if err != nil {
		return "", err
	}
	body, err := RenderStatementCSV(entries)
	if err != nil {
		return "", err
	}
	objectPath := path.Join("statements", strconv.FormatInt(userID, 10), strconv.Itoa(year)+"-"+uuid.NewString()+".csv")
	url, err := s.Uploader.Upload(ctx, objectPath, "text/csv", body)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("statement upload failed")
		}
		return "", err
	}
	return url, nil
}

func RenderStatementCSV(entries []entity.Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(statementHeader); err != nil {
		return nil, err
	}
	for _, e := range entries {
		rec := []string{
			strconv.FormatInt(e.ID, 10),
			e.Description,
			strconv.Itoa(e.Month),
			strconv.Itoa(e.Year),
			e.Amount.StringFixed(2),
			string(e.Type),
			string(e.Status),
			e.RegisteredAt.Format("2006-01-02"),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
