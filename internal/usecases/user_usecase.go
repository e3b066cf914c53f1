package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
	"alquilar.backend/internal/domain/repositories"
)

// UserUsecase handles profile and identity verification business logic
type UserUsecase struct {
	userRepo repositories.UserRepository
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(userRepo repositories.UserRepository) *UserUsecase {
	return &UserUsecase{userRepo: userRepo}
}

// GetProfile returns the user's own profile
func (u *UserUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies partial profile updates. Empty fields keep their
// current value.
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Address != "" {
		user.Address = null.StringFrom(input.Address)
	}
	if input.ProfileImage != "" {
		user.ProfileImage = null.StringFrom(input.ProfileImage)
	}
	if input.PaymentMethods != nil {
		user.PaymentMethods = input.PaymentMethods
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SubmitIdentification records an identity document and queues it for review.
// Resubmitting always moves the status back to pending.
func (u *UserUsecase) SubmitIdentification(ctx context.Context, userID uuid.UUID, input *entities.SubmitIdentificationInput) error {
	ident := entities.Identification{
		DocumentType:       null.StringFrom(input.DocumentType),
		DocumentNumber:     null.StringFrom(input.DocumentNumber),
		VerificationStatus: entities.VerificationStatusPending,
	}
	if input.DocumentURL != "" {
		ident.DocumentURL = null.StringFrom(input.DocumentURL)
	}
	return u.userRepo.UpdateIdentification(ctx, userID, ident)
}

// VerifyIdentity records an admin decision on a pending submission
func (u *UserUsecase) VerifyIdentity(ctx context.Context, input *entities.VerifyIdentityInput) error {
	if input.Status != entities.VerificationStatusApproved && input.Status != entities.VerificationStatusRejected {
		return domainerrors.ErrInvalidInput
	}

	user, err := u.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user.Identification.VerificationStatus != entities.VerificationStatusPending {
		return domainerrors.ErrInvalidInput
	}

	ident := user.Identification
	ident.VerificationStatus = input.Status
	return u.userRepo.UpdateIdentification(ctx, input.UserID, ident)
}

// ListUsers returns accounts for back office use
func (u *UserUsecase) ListUsers(ctx context.Context, limit, offset int) ([]*entities.User, int, error) {
	return u.userRepo.List(ctx, limit, offset)
}
