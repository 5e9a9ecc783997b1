// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	userstore "github.com/dalemusser/enrollhub/internal/app/store/users"
	"github.com/dalemusser/enrollhub/internal/app/system/normalize"
	"github.com/dalemusser/enrollhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// EnrollHub uses it to seed the bootstrap manager account so a fresh
// deployment has a working login.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return seedBootstrapManager(ctx, appCfg, deps, logger)
}

func seedBootstrapManager(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	email := normalize.Email(appCfg.BootstrapManagerEmail)
	if email == "" {
		return nil
	}

	users := userstore.New(deps.MongoDatabase)

	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("bootstrap manager lookup: %w", err)
	}
	if existing != nil {
		if !strings.EqualFold(existing.Role, models.RoleManager) {
			logger.Warn("bootstrap manager account exists with a different role; leaving it unchanged",
				zap.String("email", email), zap.String("role", existing.Role))
		}
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.BootstrapManagerPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bootstrap manager password hash: %w", err)
	}

	_, err = users.Create(ctx, models.User{
		FullName:     appCfg.BootstrapManagerName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleManager,
		Status:       models.StatusActive,
	})
	if err != nil {
		return fmt.Errorf("bootstrap manager create: %w", err)
	}

	logger.Info("created bootstrap manager account", zap.String("email", email))
	return nil
}
