package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfrestrepo/bookshop-pos/internal/pos"
)

func sampleSale() *pos.Sale {
	return &pos.Sale{
		ID:          "f3c9a1e2-0000-4000-8000-000000000001",
		CreatedUnix: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC).Unix(),
		Lines: []pos.SaleLine{
			{BookID: "d", Title: "Dune", UnitCents: 1000, Qty: 2, LineCents: 2000},
		},
		SubtotalCents: 2000,
		TaxCents:      100,
		TotalCents:    2100,
	}
}

func TestGenerate_NilSale(t *testing.T) {
	_, err := Generate(nil, time.Now())
	require.ErrorIs(t, err, pos.ErrNoPendingSale)
}

func TestGenerate_Deterministic(t *testing.T) {
	now := time.Date(2026, 1, 2, 16, 0, 0, 0, time.UTC)

	a, err := Generate(sampleSale(), now)
	require.NoError(t, err)
	b, err := Generate(sampleSale(), now)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_Layout(t *testing.T) {
	now := time.Date(2026, 1, 2, 16, 0, 0, 0, time.UTC)
	out, err := Generate(sampleSale(), now)
	require.NoError(t, err)

	assert.Contains(t, out, "BOOKSHOP POS")
	assert.Contains(t, out, "Venta:   f3c9a1e2-0000-4000-8000-000000000001")
	assert.Contains(t, out, "Fecha:   2026-01-02 15:04:05")
	assert.Contains(t, out, "Emitido: 2026-01-02 16:00:00")
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "21.00")

	// layout fijo: filas de ítems y totales en exactamente 40 columnas
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	var inBody bool
	for _, line := range lines {
		if strings.HasPrefix(line, "----") {
			inBody = !inBody
			continue
		}
		if inBody || strings.HasPrefix(line, "Subtotal") ||
			strings.HasPrefix(line, "IVA") || strings.HasPrefix(line, "TOTAL") {
			assert.Len(t, []rune(line), 40, "line %q", line)
		}
	}
}

func TestGenerate_TruncatesLongTitles(t *testing.T) {
	sale := sampleSale()
	sale.Lines[0].Title = "An Extremely Long Book Title That Does Not Fit"

	out, err := Generate(sale, time.Now())
	require.NoError(t, err)
	assert.Contains(t, out, "An Extremely Long ")
	assert.NotContains(t, out, "An Extremely Long B")
}

func TestGenerate_ThousandSeparators(t *testing.T) {
	sale := sampleSale()
	sale.Lines[0].UnitCents = 123450
	sale.Lines[0].LineCents = 246900
	sale.SubtotalCents = 246900
	sale.TaxCents = 12345
	sale.TotalCents = 259245

	out, err := Generate(sale, time.Now())
	require.NoError(t, err)
	assert.Contains(t, out, "1,234.50")
	assert.Contains(t, out, "2,469.00")
	assert.Contains(t, out, "2,592.45")
}

// El recibo reproduce los valores congelados de la venta aunque el instante
// de emisión cambie: sólo difiere la línea "Emitido".
func TestGenerate_OnlyEmissionTimestampVaries(t *testing.T) {
	a, err := Generate(sampleSale(), time.Date(2026, 1, 2, 16, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	b, err := Generate(sampleSale(), time.Date(2026, 3, 9, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	linesA := strings.Split(a, "\n")
	linesB := strings.Split(b, "\n")
	require.Equal(t, len(linesA), len(linesB))
	for i := range linesA {
		if strings.HasPrefix(linesA[i], "Emitido:") {
			assert.NotEqual(t, linesA[i], linesB[i])
			continue
		}
		assert.Equal(t, linesA[i], linesB[i])
	}
}
