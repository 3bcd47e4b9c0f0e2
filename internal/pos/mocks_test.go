package pos

import (
	"context"
	"sync"
)

// memInventory implementa InventoryStore con el mismo contrato condicional
// del repositorio real: el descuento falla sin aplicar nada si no alcanza.
type memInventory struct {
	mu    sync.Mutex
	books map[string]*Book

	decErr map[string]error // fuerza fallos de DecrementStock por libro
	incErr map[string]error // fuerza fallos de IncrementStock por libro
}

func newMemInventory(books ...Book) *memInventory {
	m := &memInventory{
		books:  make(map[string]*Book),
		decErr: make(map[string]error),
		incErr: make(map[string]error),
	}
	for i := range books {
		b := books[i]
		m.books[b.ID] = &b
	}
	return m
}

func (m *memInventory) GetBook(_ context.Context, id string) (*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memInventory) DecrementStock(_ context.Context, id string, qty int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.decErr[id]; err != nil {
		return err
	}
	b, ok := m.books[id]
	if !ok {
		return ErrBookNotFound
	}
	if b.Stock < qty {
		return ErrInsufficientStock
	}
	b.Stock -= qty
	return nil
}

func (m *memInventory) IncrementStock(_ context.Context, id string, qty int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.incErr[id]; err != nil {
		return err
	}
	b, ok := m.books[id]
	if !ok {
		return ErrBookNotFound
	}
	b.Stock += qty
	return nil
}

func (m *memInventory) stock(id string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.books[id].Stock
}

// memSales acumula las ventas registradas; appendErr simula un WriteError
// del almacén de ventas.
type memSales struct {
	mu        sync.Mutex
	appended  []*Sale
	appendErr error
}

func (m *memSales) Append(_ context.Context, s *Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, s)
	return nil
}

func (m *memSales) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appended)
}
