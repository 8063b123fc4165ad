package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/internal/domain/enum"
	"github.com/sangkips/receipts-api/internal/domain/extrafield"
	domainRepo "github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RepositoryTestSuite struct {
	suite.Suite
	db          *gorm.DB
	ctx         context.Context
	projects    domainRepo.ProjectRepository
	receipts    domainRepo.ReceiptRepository
	idempotency domainRepo.IdempotencyRepository
	tx          domainRepo.Transactor
}

func (s *RepositoryTestSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.ctx = context.Background()
	s.projects = NewProjectRepository(s.db)
	s.receipts = NewReceiptRepository(s.db)
	s.idempotency = NewIdempotencyRepository(s.db)
	s.tx = NewTransactor(s.db, time.Second)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) createProject(code string) *entity.Project {
	p := &entity.Project{
		Code:     code,
		Name:     code + " Ltd",
		IsActive: true,
		ReceiptExtraSchema: extrafield.Schema{
			{Key: "po_number", Type: extrafield.TypeString, Required: true},
		},
	}
	s.Require().NoError(s.projects.Create(s.ctx, p))
	return p
}

func (s *RepositoryTestSuite) newReceipt(projectID uint64, no int64) *entity.Receipt {
	return &entity.Receipt{
		ProjectID:   projectID,
		ReceiptNo:   no,
		DateTime:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		PaymentMode: enum.PaymentModeCash,
		Subtotal:    decimal.RequireFromString("19.98"),
		Discount:    decimal.Zero,
		Tax:         decimal.Zero,
		GrandTotal:  decimal.RequireFromString("19.98"),
		ExtraData:   datatypes.NewJSONType(extrafield.Data{"po_number": extrafield.String("PO-1")}),
		Items: []entity.ReceiptItem{
			{Position: 1, ItemName: "Widget", Qty: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("9.99"), LineTotal: decimal.RequireFromString("19.98")},
			{Position: 2, ItemName: "Box", Qty: decimal.NewFromInt(1), UnitPrice: decimal.Zero, LineTotal: decimal.Zero},
		},
	}
}

func (s *RepositoryTestSuite) TestProject_CreateAndLookup() {
	p := s.createProject("ACME")
	s.NotZero(p.ID)

	byCode, err := s.projects.GetByCode(s.ctx, "ACME")
	s.Require().NoError(err)
	s.Require().NotNil(byCode)
	s.Equal(p.ID, byCode.ID)
	s.Equal(extrafield.TypeString, byCode.ReceiptExtraSchema[0].Type)

	byID, err := s.projects.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("ACME", byID.Code)

	missing, err := s.projects.GetByCode(s.ctx, "NOPE")
	s.NoError(err)
	s.Nil(missing)
}

func (s *RepositoryTestSuite) TestProject_DuplicateCode() {
	s.createProject("ACME")
	err := s.projects.Create(s.ctx, &entity.Project{Code: "ACME", Name: "Other"})
	s.ErrorIs(err, domainRepo.ErrDuplicateKey)
}

func (s *RepositoryTestSuite) TestProject_UpdateKeepsSequence() {
	p := s.createProject("ACME")
	s.Require().NoError(s.projects.UpdateReceiptSeq(s.ctx, p.ID, 7))

	p.Name = "Acme Corp"
	p.IsActive = false
	p.ReceiptSeq = 0
	s.Require().NoError(s.projects.Update(s.ctx, p))

	got, err := s.projects.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Acme Corp", got.Name)
	s.False(got.IsActive)
	s.EqualValues(7, got.ReceiptSeq)
}

func (s *RepositoryTestSuite) TestProject_SoftDeleteReservesCode() {
	p := s.createProject("ACME")
	s.Require().NoError(s.projects.Delete(s.ctx, p.ID))

	got, err := s.projects.GetByCode(s.ctx, "ACME")
	s.NoError(err)
	s.Nil(got)

	exists, err := s.projects.CodeExists(s.ctx, "ACME")
	s.NoError(err)
	s.True(exists)

	list, err := s.projects.List(s.ctx)
	s.NoError(err)
	s.Empty(list)
}

func (s *RepositoryTestSuite) TestProject_LockAndUpdateSeqInTransaction() {
	p := s.createProject("ACME")

	err := s.tx.WithinTransaction(s.ctx, func(ctx context.Context) error {
		locked, err := s.projects.LockByCode(ctx, "ACME")
		if err != nil {
			return err
		}
		s.Require().NotNil(locked)
		return s.projects.UpdateReceiptSeq(ctx, locked.ID, locked.ReceiptSeq+1)
	})
	s.Require().NoError(err)

	got, _ := s.projects.GetByID(s.ctx, p.ID)
	s.EqualValues(1, got.ReceiptSeq)
}

func (s *RepositoryTestSuite) TestTransaction_RollbackDiscardsWrites() {
	p := s.createProject("ACME")
	boom := errors.New("boom")

	err := s.tx.WithinTransaction(s.ctx, func(ctx context.Context) error {
		if err := s.projects.UpdateReceiptSeq(ctx, p.ID, 5); err != nil {
			return err
		}
		if err := s.receipts.Create(ctx, s.newReceipt(p.ID, 5)); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	got, _ := s.projects.GetByID(s.ctx, p.ID)
	s.Zero(got.ReceiptSeq)

	list, err := s.receipts.ListByProject(s.ctx, p.ID)
	s.NoError(err)
	s.Empty(list)
}

func (s *RepositoryTestSuite) TestTransaction_NestedJoinsOuter() {
	p := s.createProject("ACME")
	boom := errors.New("boom")

	err := s.tx.WithinTransaction(s.ctx, func(ctx context.Context) error {
		if err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			return s.projects.UpdateReceiptSeq(ctx, p.ID, 3)
		}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	got, _ := s.projects.GetByID(s.ctx, p.ID)
	s.Zero(got.ReceiptSeq)
}

func (s *RepositoryTestSuite) TestReceipt_CreateAndGet() {
	p := s.createProject("ACME")
	r := s.newReceipt(p.ID, 1)
	s.Require().NoError(s.receipts.Create(s.ctx, r))
	s.NotZero(r.ID)

	got, err := s.receipts.GetByProjectCodeAndID(s.ctx, "ACME", r.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.EqualValues(1, got.ReceiptNo)
	s.Equal(enum.PaymentModeCash, got.PaymentMode)
	s.Equal("19.98", got.GrandTotal.StringFixed(2))
	s.Equal("PO-1", got.Extra()["po_number"].Text())
	s.Require().Len(got.Items, 2)
	s.Equal("Widget", got.Items[0].ItemName)
	s.Equal("Box", got.Items[1].ItemName)
	s.Require().NotNil(got.Project)
	s.Equal("ACME", got.Project.Code)
}

func (s *RepositoryTestSuite) TestReceipt_GetScopedToProject() {
	acme := s.createProject("ACME")
	s.createProject("GLOBEX")
	r := s.newReceipt(acme.ID, 1)
	s.Require().NoError(s.receipts.Create(s.ctx, r))

	got, err := s.receipts.GetByProjectCodeAndID(s.ctx, "GLOBEX", r.ID)
	s.NoError(err)
	s.Nil(got)

	got, err = s.receipts.GetByProjectCodeAndID(s.ctx, "ACME", r.ID+100)
	s.NoError(err)
	s.Nil(got)
}

func (s *RepositoryTestSuite) TestReceipt_HiddenAfterProjectDelete() {
	p := s.createProject("ACME")
	r := s.newReceipt(p.ID, 1)
	s.Require().NoError(s.receipts.Create(s.ctx, r))
	s.Require().NoError(s.projects.Delete(s.ctx, p.ID))

	got, err := s.receipts.GetByProjectCodeAndID(s.ctx, "ACME", r.ID)
	s.NoError(err)
	s.Nil(got)
}

func (s *RepositoryTestSuite) TestReceipt_DuplicateNumberRejected() {
	p := s.createProject("ACME")
	s.Require().NoError(s.receipts.Create(s.ctx, s.newReceipt(p.ID, 1)))

	err := s.receipts.Create(s.ctx, s.newReceipt(p.ID, 1))
	s.ErrorIs(err, domainRepo.ErrDuplicateKey)
}

func (s *RepositoryTestSuite) TestReceipt_ListNewestFirst() {
	p := s.createProject("ACME")
	for i := int64(1); i <= 3; i++ {
		s.Require().NoError(s.receipts.Create(s.ctx, s.newReceipt(p.ID, i)))
	}

	list, err := s.receipts.ListByProject(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.EqualValues(3, list[0].ReceiptNo)
	s.EqualValues(1, list[2].ReceiptNo)
	s.Equal("19.98", list[0].GrandTotal.StringFixed(2))
}

func (s *RepositoryTestSuite) TestIdempotency_RoundTripAndExpiry() {
	live := &entity.IdempotencyKey{
		Key: "abc", Endpoint: "POST /api/admin/receipts", RequestHash: "h1",
		ResponseCode: 201, ResponseBody: `{"success":true}`, ExpiresAt: time.Now().Add(time.Hour),
	}
	stale := &entity.IdempotencyKey{
		Key: "old", Endpoint: "POST /api/admin/receipts", RequestHash: "h2",
		ResponseCode: 201, ExpiresAt: time.Now().Add(-time.Hour),
	}
	s.Require().NoError(s.idempotency.Create(s.ctx, live))
	s.Require().NoError(s.idempotency.Create(s.ctx, stale))

	got, err := s.idempotency.GetByKey(s.ctx, "POST /api/admin/receipts", "abc")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.True(got.Matches("h1"))

	other, err := s.idempotency.GetByKey(s.ctx, "POST /api/admin/projects", "abc")
	s.NoError(err)
	s.Nil(other)

	removed, err := s.idempotency.DeleteExpired(s.ctx)
	s.NoError(err)
	s.EqualValues(1, removed)
}

func (s *RepositoryTestSuite) TestIdempotency_ReplacesExpiredKey() {
	endpoint := "POST /api/admin/receipts"
	s.Require().NoError(s.idempotency.Create(s.ctx, &entity.IdempotencyKey{
		Key: "k", Endpoint: endpoint, RequestHash: "old", ResponseCode: 201,
		ExpiresAt: time.Now().Add(-time.Minute),
	}))
	s.Require().NoError(s.idempotency.Create(s.ctx, &entity.IdempotencyKey{
		Key: "k", Endpoint: endpoint, RequestHash: "new", ResponseCode: 400,
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	got, err := s.idempotency.GetByKey(s.ctx, endpoint, "k")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.True(got.Matches("new"))
	s.Equal(400, got.ResponseCode)
	s.False(got.IsExpired())
}

func TestClassify_PassesThroughUnknown(t *testing.T) {
	assert.Nil(t, classify(nil))
	plain := errors.New("plain")
	assert.Equal(t, plain, classify(plain))
	require.ErrorIs(t, classify(gorm.ErrDuplicatedKey), domainRepo.ErrDuplicateKey)
}

func TestClassify_PostgresCodes(t *testing.T) {
	lock := classify(fmt.Errorf("query: %w", &pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"}))
	assert.ErrorIs(t, lock, domainRepo.ErrLockTimeout)

	dup := classify(&pgconn.PgError{Code: "23505", ConstraintName: "idx_projects_code"})
	assert.ErrorIs(t, dup, domainRepo.ErrDuplicateKey)

	other := &pgconn.PgError{Code: "42P01"}
	assert.Equal(t, error(other), classify(other))
}
