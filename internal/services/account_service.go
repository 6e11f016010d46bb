package services

import (
	"context"

	"cipherhaven/internal/models"
	"cipherhaven/internal/repositories"
)

type AccountService interface {
	ListAccounts(ctx context.Context, limit, offset int) ([]*models.Account, error)
}

type accountService struct {
	repo repositories.AccountRepository
}

func NewAccountService(repo repositories.AccountRepository) AccountService {
	return &accountService{repo: repo}
}

func (s *accountService) ListAccounts(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}
