package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/sangkips/receipts-api/internal/domain/entity"
	"github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/pkg/apperror"
	"github.com/sangkips/receipts-api/pkg/signing"
)

// PublicReceiptService signs receipt references and serves the receipts they
// point to without authentication
type PublicReceiptService struct {
	receiptRepo repository.ReceiptRepository
	cache       repository.PublicReceiptCache
	signer      *signing.Signer
	baseURL     string
}

// NewPublicReceiptService creates a new public receipt service
func NewPublicReceiptService(
	receiptRepo repository.ReceiptRepository,
	cache repository.PublicReceiptCache,
	signer *signing.Signer,
	baseURL string,
) *PublicReceiptService {
	return &PublicReceiptService{
		receiptRepo: receiptRepo,
		cache:       cache,
		signer:      signer,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// Sign returns the signature of a receipt reference
func (s *PublicReceiptService) Sign(projectCode string, receiptID uint64) string {
	return s.signer.Sign(signing.ReceiptPayload(projectCode, receiptID))
}

// ShareLink builds the signed public link of an existing receipt
func (s *PublicReceiptService) ShareLink(ctx context.Context, projectCode string, receiptID uint64) (string, error) {
	code := strings.TrimSpace(projectCode)
	if code == "" {
		return "", invalidField("project_code", "project code is required")
	}

	receipt, err := s.receiptRepo.GetByProjectCodeAndID(ctx, code, receiptID)
	if err != nil {
		return "", storageError("Unable to load receipt", err)
	}
	if receipt == nil {
		return "", apperror.NewNotFoundError("Receipt")
	}

	return fmt.Sprintf("%s/r/%s/%d?sign=%s",
		s.baseURL, url.PathEscape(code), receiptID, s.Sign(code, receiptID)), nil
}

// GetPublicReceipt checks the signature and returns the public view of the
// receipt. Every mismatch yields the same ErrInvalidSignature so callers
// cannot tell which part of a forged link was wrong.
func (s *PublicReceiptService) GetPublicReceipt(ctx context.Context, projectCode string, receiptID uint64, signature string) (*entity.PublicReceipt, error) {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return nil, invalidField("sign", "signature is required")
	}
	if !s.signer.Verify(signing.ReceiptPayload(projectCode, receiptID), signature) {
		return nil, apperror.ErrInvalidSignature
	}

	if view, err := s.cache.Get(ctx, projectCode, receiptID); err != nil {
		log.Printf("public receipt cache get %s:%d: %v", projectCode, receiptID, err)
	} else if view != nil {
		return view, nil
	}

	receipt, err := s.receiptRepo.GetByProjectCodeAndID(ctx, projectCode, receiptID)
	if err != nil {
		return nil, storageError("Unable to load receipt", err)
	}
	if receipt == nil || receipt.Project == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}

	project := receipt.Project
	receipt.Project = nil
	view := &entity.PublicReceipt{
		Project:            project.Summary(),
		Receipt:            receipt,
		ReceiptExtraSchema: project.ReceiptExtraSchema,
	}

	if err := s.cache.Set(ctx, view); err != nil {
		log.Printf("public receipt cache set %s:%d: %v", projectCode, receiptID, err)
	}
	return view, nil
}
