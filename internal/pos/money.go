package pos

// Dinero en centavos, como en todo el sistema: nada de floats.
type Money struct{ Cents int64 }

func (m Money) Add(o Money) Money   { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Mul(qty int64) Money { return Money{Cents: m.Cents * qty} }

// Tasa de impuesto fija del 5%, en puntos base para que toda la
// aritmética quede en enteros.
const TaxRateBasisPoints = 500

// taxOn se aplica sobre el subtotal ya acumulado: sumar primero,
// redondear (half-up) una sola vez.
func taxOn(subtotal Money) Money {
	return Money{Cents: (subtotal.Cents*TaxRateBasisPoints + 5000) / 10000}
}
