package measure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/ougirez/aquagas/internal/domain"
	"github.com/ougirez/aquagas/internal/pkg/constants"
	"github.com/ougirez/aquagas/internal/pkg/imagesource"
	"github.com/ougirez/aquagas/internal/pkg/logger"
	"github.com/ougirez/aquagas/internal/pkg/recognition"
	"github.com/ougirez/aquagas/internal/pkg/store"
)

// Service drives a reading through its lifecycle: upload with recognition,
// one-time confirmation, and listing per customer.
type Service struct {
	store      store.Store
	recognizer recognition.Recognizer
	fetcher    *imagesource.Fetcher
	tempDir    string
}

func NewMeasureService(store store.Store, recognizer recognition.Recognizer, fetcher *imagesource.Fetcher) *Service {
	return &Service{
		store:      store,
		recognizer: recognizer,
		fetcher:    fetcher,
		tempDir:    os.TempDir(),
	}
}

// Customer codes are free-form input; anything outside this set is
// rewritten before the code becomes part of a filename.
var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// uploadFileName derives the transient filename for the image. Year and
// month fully qualify the billing period so names never collide across
// years.
func uploadFileName(at time.Time, measureType domain.MeasureType, customerCode string) string {
	code := unsafeNameChars.ReplaceAllString(customerCode, "_")
	return fmt.Sprintf("%04d-%02d-%s-%s.png", at.Year(), int(at.Month()), measureType, code)
}

func (s *Service) Upload(ctx context.Context, req *domain.UploadRequest) (*domain.UploadResponse, error) {
	measureDatetime, err := time.Parse(time.RFC3339, req.MeasureDatetime)
	if err != nil {
		return nil, constants.ErrInvalidData.WithDescription(
			fmt.Sprintf("Invalid Measure Datetime, expected RFC3339 timestamp, got %q", req.MeasureDatetime))
	}

	measureType := domain.MeasureType(req.MeasureType)
	if !measureType.Valid() {
		return nil, constants.ErrInvalidData.WithDescription(
			fmt.Sprintf(`Invalid Measure Type, expected "WATER" | "GAS", got %q`, req.MeasureType))
	}

	exists, err := s.store.ExistsForPeriod(ctx, req.CustomerCode, measureType, measureDatetime)
	if err != nil {
		logger.Errorf(ctx, "ExistsForPeriod: %s", err.Error())
		return nil, fmt.Errorf("ExistsForPeriod: %w", err)
	}
	if exists {
		return nil, constants.ErrDoubleReport
	}

	data, err := s.fetcher.Fetch(ctx, req.Image)
	if err != nil {
		logger.Errorf(ctx, "fetch image: %s", err.Error())
		return nil, constants.ErrInvalidData.WithDescription("Invalid Image, could not read image source")
	}

	imagePath := filepath.Join(s.tempDir, uploadFileName(measureDatetime, measureType, req.CustomerCode))
	if err = os.WriteFile(imagePath, data, 0o600); err != nil {
		return nil, fmt.Errorf("write temp image: %w", err)
	}
	// The local copy must not outlive the request, whether recognition
	// succeeds or not.
	defer func() {
		if rmErr := os.Remove(imagePath); rmErr != nil {
			logger.Warnf(ctx, "remove temp image: %s", rmErr.Error())
		}
	}()

	result, err := s.recognizer.Recognize(ctx, imagePath, promptFor(measureType))
	if err != nil {
		logger.Errorf(ctx, "Recognize: %s", err.Error())
		return nil, constants.ErrRecognitionFailed.WithDescription(err.Error())
	}

	m := &domain.Measure{
		UploadName:      filepath.Base(imagePath),
		ImageURL:        result.FileURI,
		HasConfirmed:    false,
		MeasureValue:    result.Value,
		MeasureType:     measureType,
		MeasureDatetime: measureDatetime,
		MeasureUUID:     uuid.NewString(),
	}

	if err = s.store.InsertMeasure(ctx, req.CustomerCode, m); err != nil {
		logger.Errorf(ctx, "InsertMeasure: %s", err.Error())
		return nil, fmt.Errorf("InsertMeasure: %w", err)
	}

	logger.Infof(ctx, "reading uploaded, customer_code-%s, measure_uuid-%s, value-%d",
		req.CustomerCode, m.MeasureUUID, m.MeasureValue)

	return &domain.UploadResponse{
		ImageURL:     m.ImageURL,
		MeasureValue: m.MeasureValue,
		MeasureUUID:  m.MeasureUUID,
	}, nil
}

func (s *Service) Confirm(ctx context.Context, req *domain.ConfirmRequest) error {
	exists, err := s.store.ExistsByUUID(ctx, req.MeasureUUID)
	if err != nil {
		logger.Errorf(ctx, "ExistsByUUID: %s", err.Error())
		return fmt.Errorf("ExistsByUUID: %w", err)
	}
	if !exists {
		return constants.ErrMeasureNotFound
	}

	confirmed, err := s.store.IsConfirmed(ctx, req.MeasureUUID)
	if err != nil {
		logger.Errorf(ctx, "IsConfirmed: %s", err.Error())
		return fmt.Errorf("IsConfirmed: %w", err)
	}
	if confirmed {
		return constants.ErrConfirmationDup
	}

	changed, err := s.store.ConfirmMeasure(ctx, req.MeasureUUID, *req.ConfirmedValue)
	if err != nil {
		logger.Errorf(ctx, "ConfirmMeasure: %s", err.Error())
		return fmt.Errorf("ConfirmMeasure: %w", err)
	}
	// The record was gone by the time the update ran.
	if !changed {
		return constants.ErrMeasureNotFound
	}

	return nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerCode, measureTypeParam string) (*domain.ListResponse, error) {
	var measureType *domain.MeasureType
	if measureTypeParam != "" {
		mt := domain.MeasureType(measureTypeParam)
		if !mt.Valid() {
			return nil, constants.ErrInvalidType
		}
		measureType = &mt
	}

	summaries, err := s.store.ListForCustomer(ctx, customerCode, measureType)
	if err != nil {
		logger.Errorf(ctx, "ListForCustomer: %s", err.Error())
		return nil, fmt.Errorf("ListForCustomer: %w", err)
	}
	if len(summaries) == 0 {
		return nil, constants.ErrMeasuresNotFound
	}

	return &domain.ListResponse{CustomerCode: customerCode, Measures: summaries}, nil
}
