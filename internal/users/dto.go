package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	"github.com/storefrontlabs/storefront-backend/pkg/enums"
)

// UserDTO is the API representation of a user. Password hashes never
// leave the service layer.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        enums.Role `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// AddressDTO is the API representation of a user's address.
type AddressDTO struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"userId"`
	Street  string    `json:"street"`
	Number  string    `json:"number"`
	City    string    `json:"city"`
	State   string    `json:"state"`
	ZipCode string    `json:"zipCode"`
}

// NewUserDTO maps a user model to its DTO.
func NewUserDTO(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// NewAddressDTO maps an address model to its DTO.
func NewAddressDTO(address *models.Address) *AddressDTO {
	if address == nil {
		return nil
	}
	return &AddressDTO{
		ID:      address.ID,
		UserID:  address.UserID,
		Street:  address.Street,
		Number:  address.Number,
		City:    address.City,
		State:   address.State,
		ZipCode: address.ZipCode,
	}
}
