package service

import (
	"github.com/brfrastenen/brfweb/internal/config"
	"github.com/brfrastenen/brfweb/internal/identity"
	"github.com/brfrastenen/brfweb/internal/repository"
)

type Services struct {
	Auth  *AuthService
	News  *NewsService
	Audit *AuditService
}

func NewServices(repos *repository.Repositories, verifier identity.Verifier, cfg *config.Config) *Services {
	audit := NewAuditService(repos.Audit)
	return &Services{
		Auth:  NewAuthService(verifier, cfg),
		News:  NewNewsService(repos.News, audit),
		Audit: audit,
	}
}
