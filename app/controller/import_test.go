package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mlongerich/DonationTracker-sub005/app/entity"
	"github.com/mlongerich/DonationTracker-sub005/app/importer"
	"github.com/mlongerich/DonationTracker-sub005/app/repository"
	"github.com/mlongerich/DonationTracker-sub005/app/service"
	"github.com/mlongerich/DonationTracker-sub005/app/types"
	"github.com/mlongerich/DonationTracker-sub005/config"
)

type controllerLedger struct {
	donors    map[string]importer.DonorRef
	projects  map[string]importer.ProjectRef
	children  map[string]importer.ChildRef
	invoices  map[string]importer.InvoiceRef
	donations []*entity.Donation
	nextID    uint64
}

func newControllerLedger() *controllerLedger {
	return &controllerLedger{
		donors:   map[string]importer.DonorRef{},
		projects: map[string]importer.ProjectRef{},
		children: map[string]importer.ChildRef{},
		invoices: map[string]importer.InvoiceRef{},
	}
}

func (l *controllerLedger) id() uint64 {
	l.nextID++
	return l.nextID
}

func (l *controllerLedger) FindOrCreateDonor(_ context.Context, identity importer.DonorIdentity) (importer.DonorRef, error) {
	if ref, ok := l.donors[identity.Email]; ok {
		return ref, nil
	}
	ref := importer.DonorRef{ID: l.id(), Email: identity.Email}
	l.donors[identity.Email] = ref
	return ref, nil
}

func (l *controllerLedger) FindOrCreateProject(_ context.Context, name string) (importer.ProjectRef, error) {
	if ref, ok := l.projects[name]; ok {
		return ref, nil
	}
	ref := importer.ProjectRef{ID: l.id(), Name: name}
	l.projects[name] = ref
	return ref, nil
}

func (l *controllerLedger) FindOrCreateChild(_ context.Context, name string) (importer.ChildRef, error) {
	if ref, ok := l.children[name]; ok {
		return ref, nil
	}
	ref := importer.ChildRef{ID: l.id(), Name: name}
	l.children[name] = ref
	return ref, nil
}

func (l *controllerLedger) FindOrCreateSponsorship(_ context.Context, donorID, childID uint64) (importer.SponsorshipRef, error) {
	return importer.SponsorshipRef{ID: donorID*1000 + childID}, nil
}

func (l *controllerLedger) FindOrCreateInvoice(_ context.Context, gatewayInvoiceID string) (importer.InvoiceRef, error) {
	if ref, ok := l.invoices[gatewayInvoiceID]; ok {
		return ref, nil
	}
	ref := importer.InvoiceRef{ID: l.id(), GatewayInvoiceID: gatewayInvoiceID}
	l.invoices[gatewayInvoiceID] = ref
	return ref, nil
}

func (l *controllerLedger) FindDonationBySubscriptionAndChild(_ context.Context, subscriptionID string, childID uint64) (*entity.Donation, error) {
	for _, d := range l.donations {
		if d.GatewaySubscriptionID != nil && *d.GatewaySubscriptionID == subscriptionID &&
			d.ChildID != nil && *d.ChildID == childID {
			return d, nil
		}
	}
	return nil, nil
}

func (l *controllerLedger) FindConflictingSubscriptionDonation(_ context.Context, invoiceID, childID uint64, subscriptionID string) (*entity.Donation, error) {
	for _, d := range l.donations {
		if d.InvoiceID != nil && *d.InvoiceID == invoiceID &&
			d.ChildID != nil && *d.ChildID == childID &&
			d.GatewaySubscriptionID != nil && *d.GatewaySubscriptionID != subscriptionID {
			return d, nil
		}
	}
	return nil, nil
}

func (l *controllerLedger) FindDonationByChargeAndProject(_ context.Context, chargeID string, projectID uint64) (*entity.Donation, error) {
	for _, d := range l.donations {
		if d.GatewayChargeID == chargeID && d.ProjectID != nil && *d.ProjectID == projectID {
			return d, nil
		}
	}
	return nil, nil
}

func (l *controllerLedger) FindDonationByChargeAndDonor(_ context.Context, chargeID string, donorID uint64) (*entity.Donation, error) {
	for _, d := range l.donations {
		if d.GatewayChargeID == chargeID && d.ProjectID == nil && d.DonorID == donorID {
			return d, nil
		}
	}
	return nil, nil
}

func (l *controllerLedger) CreateDonation(_ context.Context, donation *entity.Donation) error {
	donation.ID = l.id()
	l.donations = append(l.donations, donation)
	return nil
}

func (l *controllerLedger) UpdateDonation(_ context.Context, donation *entity.Donation) error {
	for i, d := range l.donations {
		if d.ID == donation.ID {
			l.donations[i] = donation
			return nil
		}
	}
	return errors.New("donation not found")
}

func (l *controllerLedger) RecordDonationEvent(_ context.Context, _ *entity.DonationEvent) error {
	return nil
}

type controllerTxScope struct {
	ledger *controllerLedger
}

func (s *controllerTxScope) RunInTransaction(_ context.Context, fn func(ledger importer.Ledger) error) error {
	return fn(s.ledger)
}

type controllerRunRepo struct {
	runs []*entity.ImportRun
}

func (r *controllerRunRepo) Create(_ context.Context, run *entity.ImportRun) error {
	run.ID = uint64(len(r.runs) + 1)
	r.runs = append(r.runs, run)
	return nil
}

func (r *controllerRunRepo) FindByPublicID(_ context.Context, publicID string) (*entity.ImportRun, error) {
	for _, run := range r.runs {
		if run.PublicID == publicID {
			return run, nil
		}
	}
	return nil, nil
}

func (r *controllerRunRepo) List(_ context.Context, _, _ int32) ([]*entity.ImportRun, error) {
	return r.runs, nil
}

type controllerDonationRepo struct {
	findByIDFn func(ctx context.Context, id uint64) (*entity.Donation, error)
	listFn     func(ctx context.Context, filter repository.DonationFilter) ([]*entity.Donation, error)
}

func (r *controllerDonationRepo) FindByID(ctx context.Context, id uint64) (*entity.Donation, error) {
	if r.findByIDFn != nil {
		return r.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (r *controllerDonationRepo) List(ctx context.Context, filter repository.DonationFilter) ([]*entity.Donation, error) {
	if r.listFn != nil {
		return r.listFn(ctx, filter)
	}
	return []*entity.Donation{}, nil
}

func newTestController(donationRepo *controllerDonationRepo) (*ImportController, *controllerLedger, *controllerRunRepo) {
	ledger := newControllerLedger()
	runRepo := &controllerRunRepo{}

	importService := service.NewImportService(
		&controllerTxScope{ledger: ledger},
		runRepo,
		importer.DefaultProfileRegistry(),
		config.ImportConfig{ProjectNameMaxLength: 60, MaxRowsPerRequest: 10000},
	)
	donationService := service.NewDonationService(donationRepo)

	return NewImportController(importService, donationService), ledger, runRepo
}

func TestCreateImportReturnsRunSummary(t *testing.T) {
	controller, ledger, _ := newTestController(&controllerDonationRepo{})

	body := `{"profile":"legacy_export","rows":[{"charge_id":"ch_1","customer_id":"cus_1","amount":"25.00","date":"2024-03-01","status":"succeeded","description":"General Donation","email":"donor@example.com"}]}`
	e := echo.New()
	req := httptest.NewRequest("POST", "/imports", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	if err := controller.CreateImport(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp types.ImportRunEnvelopeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ImportRun == nil || resp.ImportRun.SucceededCount != 1 {
		t.Fatalf("unexpected run: %+v", resp.ImportRun)
	}
	if len(ledger.donations) != 1 {
		t.Fatalf("expected 1 donation, got %d", len(ledger.donations))
	}
}

func TestCreateImportRejectsUnknownProfile(t *testing.T) {
	controller, _, _ := newTestController(&controllerDonationRepo{})

	body := `{"profile":"mystery_export","rows":[{"charge_id":"ch_1"}]}`
	e := echo.New()
	req := httptest.NewRequest("POST", "/imports", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	if err := controller.CreateImport(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateImportRejectsEmptyRows(t *testing.T) {
	controller, _, _ := newTestController(&controllerDonationRepo{})

	body := `{"profile":"legacy_export","rows":[]}`
	e := echo.New()
	req := httptest.NewRequest("POST", "/imports", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	if err := controller.CreateImport(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListImportRuns(t *testing.T) {
	controller, _, runRepo := newTestController(&controllerDonationRepo{})
	runRepo.runs = append(runRepo.runs, &entity.ImportRun{ID: 1, PublicID: "run-1", Profile: "legacy_export"})

	e := echo.New()
	req := httptest.NewRequest("GET", "/imports", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	if err := controller.ListImportRuns(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp types.ListImportRunsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.ImportRuns) != 1 || resp.ImportRuns[0].Id != "run-1" {
		t.Fatalf("unexpected runs: %+v", resp.ImportRuns)
	}
}

func TestGetImportRunNotFound(t *testing.T) {
	controller, _, _ := newTestController(&controllerDonationRepo{})

	e := echo.New()
	req := httptest.NewRequest("GET", "/imports/missing", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("missing")

	if err := controller.GetImportRun(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetDonationByID(t *testing.T) {
	donationRepo := &controllerDonationRepo{
		findByIDFn: func(_ context.Context, id uint64) (*entity.Donation, error) {
			if id == 7 {
				return &entity.Donation{ID: 7, DonorID: 1, GatewayChargeID: "ch_7", Status: entity.DonationStatusSucceeded}, nil
			}
			return nil, nil
		},
	}
	controller, _, _ := newTestController(donationRepo)

	e := echo.New()
	req := httptest.NewRequest("GET", "/donations/7", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("7")

	if err := controller.GetDonation(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp types.DonationEnvelopeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Donation == nil || resp.Donation.GatewayChargeId != "ch_7" || resp.Donation.Status != "succeeded" {
		t.Fatalf("unexpected donation: %+v", resp.Donation)
	}

	rec2 := httptest.NewRecorder()
	ctx = e.NewContext(httptest.NewRequest("GET", "/donations/8", nil), rec2)
	ctx.SetParamNames("id")
	ctx.SetParamValues("8")

	if err := controller.GetDonation(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec2.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec2.Code)
	}
}

func TestListDonationsFiltersByStatus(t *testing.T) {
	donationRepo := &controllerDonationRepo{
		listFn: func(_ context.Context, filter repository.DonationFilter) ([]*entity.Donation, error) {
			if !filter.HasStatus || filter.Status != entity.DonationStatusNeedsAttention {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			return []*entity.Donation{
				{ID: 1, DonorID: 1, GatewayChargeID: "ch_1", Status: entity.DonationStatusNeedsAttention},
			}, nil
		},
	}
	controller, _, _ := newTestController(donationRepo)

	e := echo.New()
	req := httptest.NewRequest("GET", "/donations?status=needs_attention", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	if err := controller.ListDonations(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp types.ListDonationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Donations) != 1 || resp.Donations[0].Status != "needs_attention" {
		t.Fatalf("unexpected donations: %+v", resp.Donations)
	}
}

func TestHealth(t *testing.T) {
	controller, _, _ := newTestController(&controllerDonationRepo{})

	e := echo.New()
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	if err := controller.Health(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
