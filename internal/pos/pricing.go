package pos

// Totals son los valores derivados del carrito; siempre recalculados,
// nunca almacenados.
type Totals struct {
	Subtotal Money
	Tax      Money
	Total    Money
}

// PriceLines es una función pura sobre las líneas: suma primero y
// redondea el impuesto una sola vez sobre el subtotal.
func PriceLines(lines []CartLine) Totals {
	var sub Money
	for _, l := range lines {
		sub = sub.Add(Money{Cents: l.PriceCents}.Mul(l.Qty))
	}
	tax := taxOn(sub)
	return Totals{Subtotal: sub, Tax: tax, Total: sub.Add(tax)}
}
