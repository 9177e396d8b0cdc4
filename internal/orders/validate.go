package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/sweetflow/sweetflow/pkg/models"
)

// ValidateDraft runs the full rule set against an order draft. The
// returned map is empty when the draft is submittable. now anchors the
// delivery-date comparison; time of day is ignored.
func ValidateDraft(d *models.OrderDraft, now time.Time) models.ValidationErrors {
	errs := models.ValidationErrors{}

	if len(strings.TrimSpace(d.ClientName)) < 2 {
		errs["client_name"] = "Client name is required and must be at least 2 characters"
	}

	if len(d.Items) == 0 {
		errs["items"] = "At least one dessert item is required"
	}
	for i, item := range d.Items {
		if strings.TrimSpace(item.Name) == "" {
			errs[fmt.Sprintf("items[%d].name", i)] = "Dessert name is required"
		}
		if item.Quantity < 1 {
			errs[fmt.Sprintf("items[%d].quantity", i)] = "Quantity must be at least 1"
		}
		if item.UnitPrice < 1 {
			errs[fmt.Sprintf("items[%d].unit_price", i)] = "Unit price must be at least 1 ILS"
		}
	}

	if _, err := time.Parse(models.DateLayout, d.DeliveryDate); err != nil {
		errs["delivery_date"] = "Delivery date must be a valid date"
	} else if d.DeliveryDate < now.Format(models.DateLayout) {
		// Lexical comparison of YYYY-MM-DD strings is date comparison
		// with the time of day already zeroed out.
		errs["delivery_date"] = "Delivery date cannot be in the past"
	}

	if d.Status != "" && !models.ValidStatus(d.Status) {
		errs["status"] = "Status must be one of pending, in_progress, completed, cancelled"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
