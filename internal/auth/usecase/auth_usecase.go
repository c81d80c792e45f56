package usecase

import (
	"fmt"
	"log"
	"time"

	"rec-webapp-backend/internal/auth/domain"
	"rec-webapp-backend/internal/auth/repository"
	"rec-webapp-backend/internal/httperr"
)

// AuthUsecase covers identity persistence and the policy-acceptance ledger.
type AuthUsecase interface {
	// EnsureUser makes sure a user row exists for the identity.
	EnsureUser(identity *domain.Identity) (*domain.User, error)

	// TermsStatus reports whether the user must (re-)accept the current
	// policy version, and which version they last accepted ("" if none).
	TermsStatus(sub string) (required bool, acceptedVersion string, err error)

	// AcceptTerms records acceptance of the current policy version.
	AcceptTerms(sub, ip string) error

	// SetWelcomeSeeder installs a hook invoked once per first-seen user.
	SetWelcomeSeeder(seeder WelcomeSeeder)
}

// WelcomeSeeder creates the initial notification for a first-seen user.
type WelcomeSeeder interface {
	SeedWelcome(sub string) error
}

type authUsecase struct {
	users         repository.UserRepository
	policies      repository.PolicyRepository
	policyVersion string
	seeder        WelcomeSeeder
}

func NewAuthUsecase(users repository.UserRepository, policies repository.PolicyRepository, policyVersion string) AuthUsecase {
	return &authUsecase{
		users:         users,
		policies:      policies,
		policyVersion: policyVersion,
	}
}

func (u *authUsecase) SetWelcomeSeeder(seeder WelcomeSeeder) {
	u.seeder = seeder
}

func (u *authUsecase) EnsureUser(identity *domain.Identity) (*domain.User, error) {
	existing, err := u.users.FindBySub(identity.Sub)
	if err != nil {
		return nil, err
	}

	user, err := u.users.EnsureUser(identity)
	if err != nil {
		return nil, err
	}

	// First sight of this subject: hand them their welcome notification.
	// Best effort, a failed seed never fails the request.
	if existing == nil && u.seeder != nil {
		if err := u.seeder.SeedWelcome(user.Sub); err != nil {
			log.Printf("[WARN] failed to seed welcome notification for %s: %v", user.Sub, err)
		}
	}

	return user, nil
}

func (u *authUsecase) TermsStatus(sub string) (bool, string, error) {
	accepted, err := u.policies.AcceptedVersion(sub)
	if err != nil {
		return false, "", err
	}
	// Any mismatch requires re-acceptance, including older accepted versions.
	return accepted != u.policyVersion, accepted, nil
}

func (u *authUsecase) AcceptTerms(sub, ip string) error {
	if sub == "" {
		return fmt.Errorf("%w: missing subject", httperr.ErrValidation)
	}
	return u.policies.Accept(sub, u.policyVersion, ip, time.Now().UTC())
}
