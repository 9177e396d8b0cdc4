package orders

import (
	"fmt"

	"github.com/sweetflow/sweetflow/pkg/models"
)

// Editor holds the line items of an order being composed or edited.
// It is the in-process counterpart of the order form: rows are added
// with defaults, removed (never below one), and patched field by
// field, and the total is recomputed fresh from the current rows on
// every read.
type Editor struct {
	items []models.OrderItem
	dirty bool
}

// NewEditor starts a draft with a single default row, the way a blank
// order form opens.
func NewEditor() *Editor {
	return &Editor{items: []models.OrderItem{defaultItem()}}
}

// NewEditorWith starts from an existing order's items, for the edit
// flow. An empty slice still yields one default row.
func NewEditorWith(items []models.OrderItem) *Editor {
	if len(items) == 0 {
		return NewEditor()
	}
	return &Editor{items: append([]models.OrderItem(nil), items...)}
}

func defaultItem() models.OrderItem {
	return models.OrderItem{Quantity: 1, UnitPrice: 0}
}

// AddItem appends a fresh default row. There is no upper bound.
func (e *Editor) AddItem() {
	e.items = append(e.items, defaultItem())
	e.dirty = true
}

// RemoveItem removes the row at index i. It refuses when only one row
// remains, since an order must always carry at least one item, and
// reports whether anything was removed.
func (e *Editor) RemoveItem(i int) bool {
	if len(e.items) <= 1 || i < 0 || i >= len(e.items) {
		return false
	}
	e.items = append(e.items[:i], e.items[i+1:]...)
	e.dirty = true
	return true
}

// ItemPatch carries the fields of a single row to overwrite; nil
// fields are left untouched.
type ItemPatch struct {
	Name      *string
	Quantity  *int
	UnitPrice *float64
}

// UpdateItem applies a patch to the row at index i.
func (e *Editor) UpdateItem(i int, patch ItemPatch) error {
	if i < 0 || i >= len(e.items) {
		return fmt.Errorf("no item at index %d", i)
	}
	if patch.Name != nil {
		e.items[i].Name = *patch.Name
	}
	if patch.Quantity != nil {
		e.items[i].Quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		e.items[i].UnitPrice = *patch.UnitPrice
	}
	e.dirty = true
	return nil
}

// Items returns a copy of the current rows.
func (e *Editor) Items() []models.OrderItem {
	return append([]models.OrderItem(nil), e.items...)
}

func (e *Editor) Len() int {
	return len(e.items)
}

// Subtotal returns the derived subtotal of one row; blank fields
// contribute zero.
func (e *Editor) Subtotal(i int) float64 {
	if i < 0 || i >= len(e.items) {
		return 0
	}
	return e.items[i].Subtotal()
}

// Total recomputes the order total from the current rows. Nothing is
// cached between calls.
func (e *Editor) Total() float64 {
	return models.OrderTotal(e.items)
}

// Dirty reports whether any row was mutated since the editor opened,
// for unsaved-changes tracking.
func (e *Editor) Dirty() bool {
	return e.dirty
}
