// Recibo de venta en texto plano con layout fijo de 40 columnas.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sfrestrepo/bookshop-pos/internal/pos"
)

const (
	width    = 40
	titleMax = 18
)

// Generate renderiza el recibo desde los valores congelados de la venta.
// Mismo sale + mismo instante de emisión => mismos bytes; los precios
// actuales del catálogo no participan.
func Generate(sale *pos.Sale, now time.Time) (string, error) {
	if sale == nil {
		return "", pos.ErrNoPendingSale
	}

	thick := strings.Repeat("=", width)
	thin := strings.Repeat("-", width)

	var b strings.Builder
	b.WriteString(thick + "\n")
	b.WriteString(center("BOOKSHOP POS") + "\n")
	b.WriteString(thick + "\n")
	fmt.Fprintf(&b, "Venta:   %s\n", sale.ID)
	fmt.Fprintf(&b, "Fecha:   %s\n", time.Unix(sale.CreatedUnix, 0).UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Emitido: %s\n", now.UTC().Format("2006-01-02 15:04:05"))
	b.WriteString(thin + "\n")
	for _, l := range sale.Lines {
		fmt.Fprintf(&b, "%-18s %3d %7s %9s\n",
			truncate(l.Title, titleMax), l.Qty, money(l.UnitCents), money(l.LineCents))
	}
	b.WriteString(thin + "\n")
	fmt.Fprintf(&b, "%-22s %17s\n", "Subtotal", money(sale.SubtotalCents))
	fmt.Fprintf(&b, "%-22s %17s\n", "IVA (5%)", money(sale.TaxCents))
	fmt.Fprintf(&b, "%-22s %17s\n", "TOTAL", money(sale.TotalCents))
	b.WriteString(thick + "\n")
	return b.String(), nil
}

// money formatea centavos como "1,234.50".
func money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s.%02d", sign, humanize.Comma(cents/100), cents%100)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func center(s string) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
