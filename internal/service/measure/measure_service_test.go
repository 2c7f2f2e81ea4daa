package measure_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ougirez/aquagas/internal/domain"
	"github.com/ougirez/aquagas/internal/pkg/constants"
	"github.com/ougirez/aquagas/internal/pkg/imagesource"
	"github.com/ougirez/aquagas/internal/pkg/recognition"
	measureService "github.com/ougirez/aquagas/internal/service/measure"
)

// fakeStore keeps readings in memory with the same semantics the real
// store enforces against postgres.
type fakeStore struct {
	customers map[string]int64
	measures  []*domain.Measure
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{customers: map[string]int64{}}
}

func (f *fakeStore) Bootstrap(context.Context) error { return nil }

func (f *fakeStore) EnsureCustomer(_ context.Context, code string) (int64, error) {
	if id, ok := f.customers[code]; ok {
		return id, nil
	}
	f.nextID++
	f.customers[code] = f.nextID
	return f.nextID, nil
}

func (f *fakeStore) CustomerExists(_ context.Context, code string) (bool, error) {
	_, ok := f.customers[code]
	return ok, nil
}

func (f *fakeStore) ExistsForPeriod(_ context.Context, code string, mt domain.MeasureType, at time.Time) (bool, error) {
	customerID, ok := f.customers[code]
	if !ok {
		return false, nil
	}
	for _, m := range f.measures {
		if m.CustomerID == customerID && m.MeasureType == mt &&
			m.MeasureDatetime.Year() == at.Year() && m.MeasureDatetime.Month() == at.Month() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ExistsByUUID(_ context.Context, uuid string) (bool, error) {
	return f.find(uuid) != nil, nil
}

func (f *fakeStore) IsConfirmed(_ context.Context, uuid string) (bool, error) {
	m := f.find(uuid)
	if m == nil {
		return false, constants.ErrDBNotFound
	}
	return m.HasConfirmed, nil
}

func (f *fakeStore) InsertMeasure(ctx context.Context, code string, m *domain.Measure) error {
	id, err := f.EnsureCustomer(ctx, code)
	if err != nil {
		return err
	}
	m.CustomerID = id
	f.measures = append(f.measures, m)
	return nil
}

func (f *fakeStore) ConfirmMeasure(_ context.Context, uuid string, value int64) (bool, error) {
	m := f.find(uuid)
	if m == nil {
		return false, nil
	}
	m.HasConfirmed = true
	m.MeasureValue = value
	return true, nil
}

func (f *fakeStore) ListForCustomer(_ context.Context, code string, mt *domain.MeasureType) ([]domain.MeasureSummary, error) {
	customerID, ok := f.customers[code]
	if !ok {
		return nil, nil
	}
	var out []domain.MeasureSummary
	for _, m := range f.measures {
		if m.CustomerID != customerID {
			continue
		}
		if mt != nil && m.MeasureType != *mt {
			continue
		}
		out = append(out, domain.MeasureSummary{
			ImageURL:        m.ImageURL,
			MeasureDatetime: m.MeasureDatetime,
			HasConfirmed:    m.HasConfirmed,
			MeasureType:     m.MeasureType,
			MeasureUUID:     m.MeasureUUID,
		})
	}
	return out, nil
}

func (f *fakeStore) find(uuid string) *domain.Measure {
	for _, m := range f.measures {
		if m.MeasureUUID == uuid {
			return m
		}
	}
	return nil
}

type fakeRecognizer struct {
	value int64
	err   error
	calls int
}

func (f *fakeRecognizer) Recognize(_ context.Context, _, _ string) (*recognition.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &recognition.Result{
		Value:    f.value,
		FileURI:  "https://files.example/meter.png",
		MimeType: "image/png",
	}, nil
}

func newService(st *fakeStore, rec *fakeRecognizer) *measureService.Service {
	return measureService.NewMeasureService(st, rec, imagesource.NewFetcher(time.Second))
}

func uploadRequest(code string) *domain.UploadRequest {
	return &domain.UploadRequest{
		Image:           base64.StdEncoding.EncodeToString([]byte("meter photo bytes")),
		CustomerCode:    code,
		MeasureDatetime: "2024-05-01T00:00:00Z",
		MeasureType:     "WATER",
	}
}

func TestUpload_HappyPath(t *testing.T) {
	st := newFakeStore()
	rec := &fakeRecognizer{value: 120}
	svc := newService(st, rec)

	resp, err := svc.Upload(context.Background(), uploadRequest("C1"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if resp.MeasureValue != 120 {
		t.Errorf("Expected measure_value 120, got %d", resp.MeasureValue)
	}
	if resp.MeasureUUID == "" {
		t.Error("Expected a generated measure_uuid")
	}
	if resp.ImageURL != "https://files.example/meter.png" {
		t.Errorf("Unexpected image_url: %s", resp.ImageURL)
	}

	if len(st.measures) != 1 {
		t.Fatalf("Expected 1 stored measure, got %d", len(st.measures))
	}
	m := st.measures[0]
	if m.HasConfirmed {
		t.Error("Fresh reading must not be confirmed")
	}
	if m.UploadName != "2024-05-WATER-C1.png" {
		t.Errorf("Unexpected upload name: %s", m.UploadName)
	}
}

func TestUpload_GeneratesFreshUUIDs(t *testing.T) {
	st := newFakeStore()
	svc := newService(st, &fakeRecognizer{value: 1})

	first, err := svc.Upload(context.Background(), uploadRequest("C1"))
	if err != nil {
		t.Fatalf("first Upload failed: %v", err)
	}

	req := uploadRequest("C1")
	req.MeasureDatetime = "2024-06-01T00:00:00Z"
	second, err := svc.Upload(context.Background(), req)
	if err != nil {
		t.Fatalf("second Upload failed: %v", err)
	}

	if first.MeasureUUID == second.MeasureUUID {
		t.Error("Expected distinct uuids for distinct readings")
	}
}

func TestUpload_DoubleReportSameMonth(t *testing.T) {
	st := newFakeStore()
	svc := newService(st, &fakeRecognizer{value: 10})

	if _, err := svc.Upload(context.Background(), uploadRequest("C1")); err != nil {
		t.Fatalf("first Upload failed: %v", err)
	}

	req := uploadRequest("C1")
	req.MeasureDatetime = "2024-05-20T12:00:00Z"
	_, err := svc.Upload(context.Background(), req)
	if !errors.Is(err, constants.ErrDoubleReport) {
		t.Fatalf("Expected DOUBLE_REPORT, got %v", err)
	}
}

func TestUpload_ScopedDuplicateCheck(t *testing.T) {
	st := newFakeStore()
	svc := newService(st, &fakeRecognizer{value: 10})

	if _, err := svc.Upload(context.Background(), uploadRequest("C1")); err != nil {
		t.Fatalf("first Upload failed: %v", err)
	}

	// Same month, different type: allowed.
	gas := uploadRequest("C1")
	gas.MeasureType = "GAS"
	if _, err := svc.Upload(context.Background(), gas); err != nil {
		t.Errorf("GAS upload in same month must not conflict with WATER: %v", err)
	}

	// Same month and type, different customer: allowed.
	other := uploadRequest("C2")
	if _, err := svc.Upload(context.Background(), other); err != nil {
		t.Errorf("Other customer's upload must not conflict: %v", err)
	}
}

func TestUpload_InvalidDatetime(t *testing.T) {
	svc := newService(newFakeStore(), &fakeRecognizer{})

	req := uploadRequest("C1")
	req.MeasureDatetime = "yesterday"
	_, err := svc.Upload(context.Background(), req)
	if !errors.Is(err, constants.ErrInvalidData) {
		t.Fatalf("Expected INVALID_DATA, got %v", err)
	}
}

func TestUpload_RecognitionFailure(t *testing.T) {
	st := newFakeStore()
	rec := &fakeRecognizer{err: fmt.Errorf("model answer is not json")}
	svc := newService(st, rec)

	_, err := svc.Upload(context.Background(), uploadRequest("C1"))
	if !errors.Is(err, constants.ErrRecognitionFailed) {
		t.Fatalf("Expected RECOGNITION_FAILED, got %v", err)
	}
	if len(st.measures) != 0 {
		t.Error("No reading must be stored when recognition fails")
	}
}

func TestUpload_HostileCustomerCode(t *testing.T) {
	st := newFakeStore()
	svc := newService(st, &fakeRecognizer{value: 7})

	req := uploadRequest("../../../etc/passwd")
	if _, err := svc.Upload(context.Background(), req); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	name := st.measures[0].UploadName
	if strings.ContainsAny(name, `/\`) {
		t.Errorf("Upload name carries path separators: %s", name)
	}
	if dir := filepath.Dir(filepath.Join(os.TempDir(), name)); filepath.Clean(dir) != filepath.Clean(os.TempDir()) {
		t.Errorf("Upload name escapes the temp dir: %s", name)
	}
}

// vanishingStore reports a reading as present right up until the
// confirming update, as if it were removed by a concurrent writer.
type vanishingStore struct {
	*fakeStore
}

func (v *vanishingStore) ConfirmMeasure(context.Context, string, int64) (bool, error) {
	return false, nil
}

func TestConfirm_RecordGoneBeforeUpdate(t *testing.T) {
	st := newFakeStore()
	svc := measureService.NewMeasureService(&vanishingStore{st}, &fakeRecognizer{value: 9}, imagesource.NewFetcher(time.Second))

	resp, err := svc.Upload(context.Background(), uploadRequest("C1"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	value := int64(42)
	err = svc.Confirm(context.Background(), &domain.ConfirmRequest{
		MeasureUUID:    resp.MeasureUUID,
		ConfirmedValue: &value,
	})
	if !errors.Is(err, constants.ErrMeasureNotFound) {
		t.Fatalf("Expected MEASURE_NOT_FOUND when the update touches no rows, got %v", err)
	}
}

func TestConfirm_UnknownUUID(t *testing.T) {
	svc := newService(newFakeStore(), &fakeRecognizer{})

	value := int64(42)
	err := svc.Confirm(context.Background(), &domain.ConfirmRequest{
		MeasureUUID:    "c0ffee00-0000-0000-0000-000000000000",
		ConfirmedValue: &value,
	})
	if !errors.Is(err, constants.ErrMeasureNotFound) {
		t.Fatalf("Expected MEASURE_NOT_FOUND, got %v", err)
	}
}

func TestConfirm_OnceThenDuplicate(t *testing.T) {
	st := newFakeStore()
	svc := newService(st, &fakeRecognizer{value: 100})

	resp, err := svc.Upload(context.Background(), uploadRequest("C1"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	value := int64(42)
	req := &domain.ConfirmRequest{MeasureUUID: resp.MeasureUUID, ConfirmedValue: &value}

	if err = svc.Confirm(context.Background(), req); err != nil {
		t.Fatalf("first Confirm failed: %v", err)
	}

	err = svc.Confirm(context.Background(), req)
	if !errors.Is(err, constants.ErrConfirmationDup) {
		t.Fatalf("Expected CONFIRMATION_DUPLICATE, got %v", err)
	}

	if st.measures[0].MeasureValue != 42 {
		t.Errorf("Expected confirmed value 42, got %d", st.measures[0].MeasureValue)
	}
}

func TestList_RoundTrip(t *testing.T) {
	st := newFakeStore()
	svc := newService(st, &fakeRecognizer{value: 100})

	resp, err := svc.Upload(context.Background(), uploadRequest("C1"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	value := int64(42)
	if err = svc.Confirm(context.Background(), &domain.ConfirmRequest{
		MeasureUUID:    resp.MeasureUUID,
		ConfirmedValue: &value,
	}); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	list, err := svc.ListByCustomer(context.Background(), "C1", "")
	if err != nil {
		t.Fatalf("ListByCustomer failed: %v", err)
	}

	if len(list.Measures) != 1 {
		t.Fatalf("Expected 1 measure, got %d", len(list.Measures))
	}
	if !list.Measures[0].HasConfirmed {
		t.Error("Expected has_confirmed true after confirmation")
	}
}

func TestList_FilterByType(t *testing.T) {
	st := newFakeStore()
	svc := newService(st, &fakeRecognizer{value: 1})

	if _, err := svc.Upload(context.Background(), uploadRequest("C1")); err != nil {
		t.Fatalf("WATER upload failed: %v", err)
	}
	gas := uploadRequest("C1")
	gas.MeasureType = "GAS"
	if _, err := svc.Upload(context.Background(), gas); err != nil {
		t.Fatalf("GAS upload failed: %v", err)
	}

	list, err := svc.ListByCustomer(context.Background(), "C1", "GAS")
	if err != nil {
		t.Fatalf("ListByCustomer failed: %v", err)
	}
	if len(list.Measures) != 1 || list.Measures[0].MeasureType != domain.MeasureTypeGas {
		t.Errorf("Expected only the GAS measure, got %+v", list.Measures)
	}
}

func TestList_InvalidType(t *testing.T) {
	svc := newService(newFakeStore(), &fakeRecognizer{})

	_, err := svc.ListByCustomer(context.Background(), "C1", "OIL")
	if !errors.Is(err, constants.ErrInvalidType) {
		t.Fatalf("Expected INVALID_TYPE, got %v", err)
	}

	// Case-sensitive.
	_, err = svc.ListByCustomer(context.Background(), "C1", "water")
	if !errors.Is(err, constants.ErrInvalidType) {
		t.Fatalf("Expected INVALID_TYPE for lowercase type, got %v", err)
	}
}

func TestList_Empty(t *testing.T) {
	svc := newService(newFakeStore(), &fakeRecognizer{})

	_, err := svc.ListByCustomer(context.Background(), "C1", "")
	if !errors.Is(err, constants.ErrMeasuresNotFound) {
		t.Fatalf("Expected MEASURES_NOT_FOUND, got %v", err)
	}
}
