package orders

import (
	"testing"

	"github.com/sweetflow/sweetflow/pkg/models"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestNewEditorStartsWithOneDefaultRow(t *testing.T) {
	e := NewEditor()
	if e.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", e.Len())
	}
	item := e.Items()[0]
	if item.Quantity != 1 || item.UnitPrice != 0 || item.Name != "" {
		t.Errorf("unexpected default item: %+v", item)
	}
	if e.Dirty() {
		t.Error("fresh editor should not be dirty")
	}
}

func TestAddAndUpdateRecomputesTotal(t *testing.T) {
	e := NewEditor()
	if err := e.UpdateItem(0, ItemPatch{Name: strPtr("Cheesecake"), Quantity: intPtr(2), UnitPrice: floatPtr(10)}); err != nil {
		t.Fatal(err)
	}
	if got := e.Total(); got != 20 {
		t.Errorf("total = %v, want 20", got)
	}

	e.AddItem()
	if got := e.Total(); got != 20 {
		t.Errorf("total after adding blank row = %v, want 20", got)
	}

	if err := e.UpdateItem(1, ItemPatch{Name: strPtr("Rugelach"), Quantity: intPtr(3), UnitPrice: floatPtr(5.5)}); err != nil {
		t.Fatal(err)
	}
	if got := e.Total(); got != 36.5 {
		t.Errorf("total = %v, want 36.5", got)
	}

	if !e.Dirty() {
		t.Error("editor should be dirty after mutations")
	}
}

func TestBlankFieldsContributeZeroToTotal(t *testing.T) {
	e := NewEditorWith([]models.OrderItem{
		{Name: "Brownie", Quantity: 2, UnitPrice: 12},
		{Name: "Macaron"}, // quantity and price not filled in yet
	})
	if got := e.Total(); got != 24 {
		t.Errorf("total = %v, want 24", got)
	}
	if got := e.Subtotal(1); got != 0 {
		t.Errorf("blank row subtotal = %v, want 0", got)
	}
}

func TestRemoveItemRefusesLastRow(t *testing.T) {
	e := NewEditor()
	if e.RemoveItem(0) {
		t.Fatal("removing the only row should be refused")
	}
	if e.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", e.Len())
	}

	e.AddItem()
	if !e.RemoveItem(1) {
		t.Fatal("removing one of two rows should succeed")
	}
	if e.RemoveItem(0) {
		t.Error("back to one row, removal should be refused again")
	}
}

func TestRemoveItemOutOfRange(t *testing.T) {
	e := NewEditor()
	e.AddItem()
	if e.RemoveItem(5) {
		t.Error("out-of-range removal should be refused")
	}
	if e.RemoveItem(-1) {
		t.Error("negative index removal should be refused")
	}
}

func TestUpdateItemOutOfRange(t *testing.T) {
	e := NewEditor()
	if err := e.UpdateItem(3, ItemPatch{Name: strPtr("x")}); err == nil {
		t.Error("expected error for out-of-range update")
	}
}

func TestTotalRounding(t *testing.T) {
	e := NewEditorWith([]models.OrderItem{
		{Name: "Tart", Quantity: 3, UnitPrice: 3.33},
		{Name: "Eclair", Quantity: 1, UnitPrice: 0.01},
	})
	if got := e.Total(); got != 10 {
		t.Errorf("total = %v, want 10", got)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	e := NewEditor()
	items := e.Items()
	items[0].Name = "mutated"
	if e.Items()[0].Name != "" {
		t.Error("mutating the returned slice must not affect the editor")
	}
}
