package identity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/auth0/go-auth0"
	"github.com/auth0/go-auth0/management"
)

// RoleAssigner grants a role to a user at the identity provider. The provider
// is the source of truth for roles; the API only mirrors them into tokens.
type RoleAssigner interface {
	AssignRole(ctx context.Context, subject, role string) error
}

// Config holds management-API credentials and the provider-side role ids.
type Config struct {
	Domain       string
	ClientID     string
	ClientSecret string
	// RoleIDs maps application role names (COMPANY, JOB_SEEKER) to the
	// provider's role identifiers.
	RoleIDs map[string]string
	// PropagationDelay is how long to wait after assignment before the new
	// role is visible in freshly issued tokens.
	PropagationDelay time.Duration
}

// Auth0RoleAssigner assigns roles through the Auth0 management API.
type Auth0RoleAssigner struct {
	mgmt             *management.Management
	roleIDs          map[string]string
	propagationDelay time.Duration
	logger           *slog.Logger
}

func NewAuth0RoleAssigner(ctx context.Context, cfg *Config, logger *slog.Logger) (*Auth0RoleAssigner, error) {
	mgmt, err := management.New(
		cfg.Domain,
		management.WithClientCredentials(ctx, cfg.ClientID, cfg.ClientSecret),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create management client: %w", err)
	}

	return &Auth0RoleAssigner{
		mgmt:             mgmt,
		roleIDs:          cfg.RoleIDs,
		propagationDelay: cfg.PropagationDelay,
		logger:           logger,
	}, nil
}

// AssignRole grants the provider role mapped to the application role and then
// waits a fixed delay so the next token issued carries it.
func (a *Auth0RoleAssigner) AssignRole(ctx context.Context, subject, role string) error {
	roleID, ok := a.roleIDs[role]
	if !ok {
		return fmt.Errorf("no provider role configured for %q", role)
	}

	err := a.mgmt.User.AssignRoles(ctx, subject, []*management.Role{
		{ID: auth0.String(roleID)},
	})
	if err != nil {
		a.logger.Error("Failed to assign role at identity provider",
			slog.String("subject", subject),
			slog.String("role", role),
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to assign role: %w", err)
	}

	a.logger.Info("Role assigned at identity provider",
		slog.String("subject", subject),
		slog.String("role", role),
	)

	if a.propagationDelay > 0 {
		select {
		case <-time.After(a.propagationDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
