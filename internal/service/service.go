package service

import (
	"go.uber.org/zap"

	"jcbcommunity/internal/config"
	"jcbcommunity/internal/metrics"
	"jcbcommunity/internal/password"
	"jcbcommunity/internal/repository"
	"jcbcommunity/internal/storage"
)

type Service struct {
	User     UserService
	Post     PostService
	Reaction ReactionService
	Upload   UploadService
	Auth     AuthService
	Tables   TablesService
}

func NewService(rep *repository.Repository, cfg *config.Config, store storage.Storage, hasher password.Hasher, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		User:     NewUserService(rep.User),
		Post:     NewPostService(rep.Post, rep.Reply, logger),
		Reaction: NewReactionService(rep.Reaction, m, logger),
		Upload:   NewUploadService(rep.Upload, store, cfg.Upload, m, logger),
		Auth:     NewAuthService(rep.User, hasher, cfg, logger),
		Tables:   NewTablesService(rep.Tables),
	}
}
