package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/pkg/access"
	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
)

// Service exposes user profile and address management. Every operation
// is owner-or-staff guarded.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID, p access.Principal) (*UserDTO, error)
	Update(ctx context.Context, userID uuid.UUID, p access.Principal, input UpdateUserInput) (*UserDTO, error)
	Delete(ctx context.Context, userID uuid.UUID, p access.Principal) error

	CreateAddress(ctx context.Context, p access.Principal, input AddressInput) (*AddressDTO, error)
	GetAddress(ctx context.Context, addressID uuid.UUID, p access.Principal) (*AddressDTO, error)
	UpdateAddress(ctx context.Context, addressID uuid.UUID, p access.Principal, input AddressInput) (*AddressDTO, error)
	DeleteAddress(ctx context.Context, addressID uuid.UUID, p access.Principal) error
}

// UpdateUserInput holds optional profile mutations.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	IsActive  *bool
}

// AddressInput holds the payload for address writes.
type AddressInput struct {
	Street  string
	Number  string
	City    string
	State   string
	ZipCode string
}

type service struct {
	repo Repository
}

// NewService constructs a users service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID, p access.Principal) (*UserDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := access.Require(user.ID, p); err != nil {
		return nil, err
	}
	return NewUserDTO(user), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, p access.Principal, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := access.Require(user.ID, p); err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.IsActive != nil {
		// only staff may toggle account activation
		if !p.Role.IsStaff() {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, access.ForbiddenMessage)
		}
		user.IsActive = *input.IsActive
	}

	updated, err := s.repo.UpdateUser(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return NewUserDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID, p access.Principal) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := access.Require(user.ID, p); err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

func (s *service) CreateAddress(ctx context.Context, p access.Principal, input AddressInput) (*AddressDTO, error) {
	if p.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindAddressByUser(ctx, p.UserID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "address already exists for this user")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}

	address := &models.Address{
		UserID:  p.UserID,
		Street:  input.Street,
		Number:  input.Number,
		City:    input.City,
		State:   input.State,
		ZipCode: input.ZipCode,
	}
	created, err := s.repo.CreateAddress(ctx, address)
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "address already exists for this user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	return NewAddressDTO(created), nil
}

func (s *service) GetAddress(ctx context.Context, addressID uuid.UUID, p access.Principal) (*AddressDTO, error) {
	address, err := s.findAddress(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if err := access.Require(address.UserID, p); err != nil {
		return nil, err
	}
	return NewAddressDTO(address), nil
}

func (s *service) UpdateAddress(ctx context.Context, addressID uuid.UUID, p access.Principal, input AddressInput) (*AddressDTO, error) {
	address, err := s.findAddress(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if err := access.Require(address.UserID, p); err != nil {
		return nil, err
	}
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}

	address.Street = input.Street
	address.Number = input.Number
	address.City = input.City
	address.State = input.State
	address.ZipCode = input.ZipCode

	updated, err := s.repo.UpdateAddress(ctx, address)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	return NewAddressDTO(updated), nil
}

func (s *service) DeleteAddress(ctx context.Context, addressID uuid.UUID, p access.Principal) error {
	address, err := s.findAddress(ctx, addressID)
	if err != nil {
		return err
	}
	if err := access.Require(address.UserID, p); err != nil {
		return err
	}
	if err := s.repo.DeleteAddress(ctx, addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

func (s *service) findUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) findAddress(ctx context.Context, addressID uuid.UUID) (*models.Address, error) {
	address, err := s.repo.FindAddressByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	return address, nil
}

func validateAddressInput(input AddressInput) error {
	missing := []string{}
	if input.Street == "" {
		missing = append(missing, "street")
	}
	if input.Number == "" {
		missing = append(missing, "number")
	}
	if input.City == "" {
		missing = append(missing, "city")
	}
	if input.State == "" {
		missing = append(missing, "state")
	}
	if input.ZipCode == "" {
		missing = append(missing, "zipCode")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "address fields are required").WithDetails(missing)
	}
	return nil
}
