package service

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/internal/domain/extrafield"
	"github.com/sangkips/receipts-api/internal/infrastructure/repository"
	"github.com/sangkips/receipts-api/internal/testutil"
	"github.com/sangkips/receipts-api/pkg/apperror"
	"github.com/sangkips/receipts-api/pkg/signing"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type PublicReceiptServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	cache    *mockReceiptCache
	service  *PublicReceiptService
	receipts *ReceiptService
	receipt  *entity.Receipt
}

func (s *PublicReceiptServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewTestDB(s.T())

	projectRepo := repository.NewProjectRepository(s.db)
	receiptRepo := repository.NewReceiptRepository(s.db)
	s.receipts = NewReceiptService(repository.NewTransactor(s.db, time.Second), projectRepo, receiptRepo, NewSequenceAllocator(projectRepo))

	signer, err := signing.New("test-secret")
	s.Require().NoError(err)
	s.cache = new(mockReceiptCache)
	s.service = NewPublicReceiptService(receiptRepo, s.cache, signer, "https://receipts.example.com/")

	project := &entity.Project{
		Code:       "ACME",
		Name:       "Acme",
		FooterNote: "Thank you",
		IsActive:   true,
		ReceiptExtraSchema: extrafield.Schema{
			{Key: "po_number", Label: "PO", Type: extrafield.TypeString},
		},
	}
	s.Require().NoError(projectRepo.Create(s.ctx, project))

	s.receipt, err = s.receipts.CreateReceipt(s.ctx, &CreateReceiptInput{
		ProjectCode: "ACME",
		PaymentMode: "UPI",
		Items:       []ReceiptItemInput{{Name: "Widget", Qty: dec("2"), UnitPrice: dec("9.99")}},
		ExtraData:   extra(s.T(), `{"po_number":"PO-7"}`),
	})
	s.Require().NoError(err)
}

func TestPublicReceiptServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PublicReceiptServiceTestSuite))
}

func (s *PublicReceiptServiceTestSuite) TestShareLink() {
	link, err := s.service.ShareLink(s.ctx, "ACME", s.receipt.ID)
	s.Require().NoError(err)

	sig := s.service.Sign("ACME", s.receipt.ID)
	s.Len(sig, 64)
	s.Equal("https://receipts.example.com/r/ACME/"+strconv.FormatUint(s.receipt.ID, 10)+"?sign="+sig, link)

	_, err = s.service.ShareLink(s.ctx, "ACME", s.receipt.ID+1)
	requireAppError(s.T(), err, http.StatusNotFound, "Receipt not found")

	_, err = s.service.ShareLink(s.ctx, "OTHER", s.receipt.ID)
	requireAppError(s.T(), err, http.StatusNotFound, "Receipt not found")
}

func (s *PublicReceiptServiceTestSuite) TestGetPublicReceipt_ValidSignature() {
	s.cache.On("Get", mock.Anything, "ACME", s.receipt.ID).Return(nil, nil).Once()
	s.cache.On("Set", mock.Anything, mock.AnythingOfType("*entity.PublicReceipt")).Return(nil).Once()

	view, err := s.service.GetPublicReceipt(s.ctx, "ACME", s.receipt.ID, s.service.Sign("ACME", s.receipt.ID))
	s.Require().NoError(err)

	s.Equal("ACME", view.Project.Code)
	s.Equal("Thank you", view.Project.FooterNote)
	s.Equal(s.receipt.ReceiptNo, view.Receipt.ReceiptNo)
	s.Equal("19.98", view.Receipt.GrandTotal.StringFixed(2))
	s.Require().Len(view.Receipt.Items, 1)
	s.Equal("PO-7", view.Receipt.Extra()["po_number"].Text())
	s.Nil(view.Receipt.Project)
	s.Require().Len(view.ReceiptExtraSchema, 1)
	s.Equal("PO", view.ReceiptExtraSchema[0].Label)
	s.cache.AssertExpectations(s.T())
}

func (s *PublicReceiptServiceTestSuite) TestGetPublicReceipt_CacheHit() {
	cached := &entity.PublicReceipt{Project: entity.ProjectSummary{Code: "ACME", Name: "Cached"}}
	s.cache.On("Get", mock.Anything, "ACME", s.receipt.ID).Return(cached, nil).Once()

	view, err := s.service.GetPublicReceipt(s.ctx, "ACME", s.receipt.ID, s.service.Sign("ACME", s.receipt.ID))
	s.Require().NoError(err)
	s.Equal("Cached", view.Project.Name)
	s.cache.AssertNotCalled(s.T(), "Set", mock.Anything, mock.Anything)
}

func (s *PublicReceiptServiceTestSuite) TestGetPublicReceipt_CacheFailuresAreIgnored() {
	s.cache.On("Get", mock.Anything, "ACME", s.receipt.ID).Return(nil, errors.New("connection refused")).Once()
	s.cache.On("Set", mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

	view, err := s.service.GetPublicReceipt(s.ctx, "ACME", s.receipt.ID, s.service.Sign("ACME", s.receipt.ID))
	s.Require().NoError(err)
	s.Equal("Acme", view.Project.Name)
}

func (s *PublicReceiptServiceTestSuite) TestGetPublicReceipt_TamperedSignature() {
	sig := []byte(s.service.Sign("ACME", s.receipt.ID))
	if sig[10] == 'a' {
		sig[10] = 'b'
	} else {
		sig[10] = 'a'
	}

	_, err := s.service.GetPublicReceipt(s.ctx, "ACME", s.receipt.ID, string(sig))
	s.Same(apperror.ErrInvalidSignature, err)
	s.Equal(http.StatusForbidden, apperror.GetAppError(err).Code)

	// A signature for another receipt never unlocks this one
	_, err = s.service.GetPublicReceipt(s.ctx, "ACME", s.receipt.ID, s.service.Sign("ACME", s.receipt.ID+1))
	s.Same(apperror.ErrInvalidSignature, err)

	s.cache.AssertNotCalled(s.T(), "Get", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PublicReceiptServiceTestSuite) TestGetPublicReceipt_MissingSignature() {
	_, err := s.service.GetPublicReceipt(s.ctx, "ACME", s.receipt.ID, " ")
	requireAppError(s.T(), err, http.StatusBadRequest, "signature is required")
}

func (s *PublicReceiptServiceTestSuite) TestGetPublicReceipt_SignedButMissing() {
	missing := s.receipt.ID + 100
	s.cache.On("Get", mock.Anything, "ACME", missing).Return(nil, nil).Once()

	_, err := s.service.GetPublicReceipt(s.ctx, "ACME", missing, s.service.Sign("ACME", missing))
	requireAppError(s.T(), err, http.StatusNotFound, "Receipt not found")
}

func (s *PublicReceiptServiceTestSuite) TestGetPublicReceipt_DeletedProject() {
	s.Require().NoError(s.db.Delete(&entity.Project{}, s.receipt.ProjectID).Error)
	s.cache.On("Get", mock.Anything, "ACME", s.receipt.ID).Return(nil, nil).Once()

	_, err := s.service.GetPublicReceipt(s.ctx, "ACME", s.receipt.ID, s.service.Sign("ACME", s.receipt.ID))
	requireAppError(s.T(), err, http.StatusNotFound, "Receipt not found")
}
