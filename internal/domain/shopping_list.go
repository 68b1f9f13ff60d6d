package domain

import "time"

// ShoppingList is a named list owned by a single user.
type ShoppingList struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewShoppingList validates name and returns a list owned by ownerID.
func NewShoppingList(ownerID int64, name string) (*ShoppingList, error) {
	if ownerID <= 0 {
		return nil, NewValidationError("owner_id", "Owner is required", ErrInvalidID)
	}

	trimmed, err := ValidateName(name, NameContextShoppingList)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &ShoppingList{
		OwnerID:   ownerID,
		Name:      trimmed,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rename validates and applies a new name.
func (l *ShoppingList) Rename(name string) error {
	trimmed, err := ValidateName(name, NameContextShoppingList)
	if err != nil {
		return err
	}
	l.Name = trimmed
	l.UpdatedAt = time.Now().UTC()
	return nil
}
