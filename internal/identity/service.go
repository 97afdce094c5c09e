package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
)

// DefaultProvider labels identity links created from the configured IdP.
const DefaultProvider = "oidc"

type linkStore interface {
	FindLink(ctx context.Context, provider, subject string) (*models.IdentityLink, error)
	CreateLink(ctx context.Context, link *models.IdentityLink) error
	TouchLastSeen(ctx context.Context, linkID string) error
}

type userStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
	TouchLastLogin(ctx context.Context, userID string) error
}

// Service maps external identity-provider subjects to local users.
type Service interface {
	ResolveOrCreateUser(ctx context.Context, subject, email string) (string, error)
}

type service struct {
	links    linkStore
	users    userStore
	provider string
	logg     *logger.Logger
}

// NewService builds an identity resolver with the required dependencies.
func NewService(links linkStore, users userStore, provider string, logg *logger.Logger) (Service, error) {
	if links == nil {
		return nil, fmt.Errorf("identity link store required")
	}
	if users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if provider == "" {
		provider = DefaultProvider
	}
	return &service{links: links, users: users, provider: provider, logg: logg}, nil
}

// ResolveOrCreateUser returns the local user id for an external subject,
// creating the user and link on first sight. A link whose backing user row
// was removed out of band is healed by recreating the user.
func (s *service) ResolveOrCreateUser(ctx context.Context, subject, email string) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "identity subject required")
	}

	link, err := s.links.FindLink(ctx, s.provider, subject)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up identity link")
	}

	if link != nil {
		if err := s.links.TouchLastSeen(ctx, link.ID); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "link_id", link.ID), "failed to refresh identity link last seen")
		}
		if _, err := s.users.FindByID(ctx, link.UserID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load linked user")
			}
			healed := newUserFromEmail(email)
			healed.ID = link.UserID
			if _, err := s.users.Create(ctx, healed); err != nil {
				return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recreate linked user")
			}
			s.logg.Warn(s.logg.WithUserID(ctx, link.UserID), "recreated user row missing behind identity link")
		}
		if err := s.users.TouchLastLogin(ctx, link.UserID); err != nil {
			s.logg.Warn(s.logg.WithUserID(ctx, link.UserID), "failed to stamp last login")
		}
		return link.UserID, nil
	}

	user, err := s.users.Create(ctx, newUserFromEmail(email))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user for new identity")
	}

	newLink := &models.IdentityLink{
		Provider: s.provider,
		Subject:  subject,
		UserID:   user.ID,
	}
	if err := s.links.CreateLink(ctx, newLink); err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.logg.Error(s.logg.WithUserID(ctx, user.ID), "failed to unwind user after link insert failure", delErr)
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create identity link")
	}

	return user.ID, nil
}

func newUserFromEmail(email string) *models.User {
	user := &models.User{FirstName: "User", IsActive: true}
	email = strings.TrimSpace(email)
	if email == "" {
		return user
	}
	user.Email = &email
	if at := strings.Index(email, "@"); at > 0 {
		user.FirstName = email[:at]
	}
	return user
}
