package terminal

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cafepos/pos-app/models"
	"github.com/cafepos/pos-app/utils"
)

const receiptWidth = 40

// RenderReceipt formats a confirmed order as a plain-text receipt for the
// terminal's printer. The order is the server's immutable record; nothing is
// recomputed here.
func RenderReceipt(order *models.Order, settings models.Settings) string {
	var b strings.Builder

	center(&b, settings.StoreName)
	center(&b, order.OrderNumber)
	center(&b, order.CreatedAt.Format("2006-01-02 15:04"))
	b.WriteString(strings.Repeat("-", receiptWidth) + "\n")

	for _, line := range order.OrderItems {
		name := line.Item.Name
		if name == "" {
			name = fmt.Sprintf("Item #%d", line.ItemID)
		}
		left := fmt.Sprintf("%dx %s", line.Quantity, name)
		row(&b, left, utils.FormatMoney(line.Subtotal))
	}

	b.WriteString(strings.Repeat("-", receiptWidth) + "\n")
	row(&b, "Subtotal", utils.FormatMoney(order.Subtotal))
	if !order.Discount.IsZero() {
		row(&b, "Discount", "-"+utils.FormatMoney(order.Discount))
	}
	row(&b, "Tax", utils.FormatMoney(order.Tax))
	row(&b, "TOTAL", utils.FormatMoney(order.Total))
	row(&b, "Paid by", order.PaymentType)

	if order.Notes != "" {
		b.WriteString(strings.Repeat("-", receiptWidth) + "\n")
		b.WriteString(order.Notes + "\n")
	}
	if settings.ReceiptFooter != "" {
		b.WriteString(strings.Repeat("-", receiptWidth) + "\n")
		center(&b, settings.ReceiptFooter)
	}

	return b.String()
}

// Widths are measured in runes so accented names keep the columns aligned.
func center(b *strings.Builder, s string) {
	width := utf8.RuneCountInString(s)
	if width >= receiptWidth {
		b.WriteString(s + "\n")
		return
	}
	pad := (receiptWidth - width) / 2
	b.WriteString(strings.Repeat(" ", pad) + s + "\n")
}

func row(b *strings.Builder, left, right string) {
	gap := receiptWidth - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(left + strings.Repeat(" ", gap) + right + "\n")
}
