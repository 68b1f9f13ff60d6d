package domain

import "time"

// DefaultItemQuantity is used when a request omits the quantity.
const DefaultItemQuantity = 1

// ShoppingItem is an entry on a shopping list.
type ShoppingItem struct {
	ID        int64     `json:"id"`
	ListID    int64     `json:"list_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Bought    bool      `json:"bought"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewShoppingItem validates its input and returns an unbought item for listID.
// A zero quantity falls back to DefaultItemQuantity.
func NewShoppingItem(listID int64, name string, quantity int) (*ShoppingItem, error) {
	if listID <= 0 {
		return nil, NewValidationError("list_id", "Shopping list is required", ErrInvalidID)
	}

	trimmed, err := ValidateName(name, NameContextItem)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		quantity = DefaultItemQuantity
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &ShoppingItem{
		ListID:    listID,
		Name:      trimmed,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update replaces the item's name and quantity after validating both.
func (i *ShoppingItem) Update(name string, quantity int) error {
	trimmed, err := ValidateName(name, NameContextItem)
	if err != nil {
		return err
	}
	if quantity == 0 {
		quantity = i.Quantity
	}
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	i.Name = trimmed
	i.Quantity = quantity
	i.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkBought flags the item as bought.
func (i *ShoppingItem) MarkBought() {
	i.Bought = true
	i.UpdatedAt = time.Now().UTC()
}

func validateQuantity(quantity int) error {
	if quantity < 1 {
		return NewValidationError("quantity", "Quantity must be a positive number", ErrInvalidQuantity)
	}
	return nil
}
