package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcoral/gestock-api/internal/application/ledger"
	"github.com/dcoral/gestock-api/internal/domain/entity"
	"github.com/dcoral/gestock-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del Stock Ledger: las operaciones bulk validan ítem por ítem (producto
// inexistente, stock insuficiente) sin que un ítem malo bloquee a sus hermanos,
// y el subconjunto válido se confirma como una sola unidad. El runner fake
// simula el rollback restaurando un snapshot del estado previo, igual que lo
// haría la transacción de PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

func TestBulkIncrement_SumaYReportaCantidades(t *testing.T) {
	repo := newFakeProductRepo(
		producto("prod-001", "Arroz", 10),
		producto("prod-002", "Aceite", 3),
	)
	svc := ledger.NewService(&fakeTxRunner{repo: repo})

	results, err := svc.BulkIncrement(context.Background(), []ledger.Item{
		{ProductID: "prod-001", Amount: dec(5)},
		{ProductID: "prod-002", Amount: dec(7)},
	})

	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Success)
	assert.True(t, dec(10).Equal(results[0].OldQuantity), "OldQuantity debe ser la existencia previa")
	assert.True(t, dec(15).Equal(results[0].NewQuantity), "NewQuantity = old + amount")

	assert.True(t, results[1].Success)
	assert.True(t, dec(10).Equal(results[1].NewQuantity))

	assert.True(t, dec(15).Equal(repo.quantity("prod-001")), "la cantidad persistida debe igualar NewQuantity")
	assert.True(t, dec(10).Equal(repo.quantity("prod-002")))
}

func TestBulkIncrement_ProductoInexistenteNoBloqueaAlResto(t *testing.T) {
	repo := newFakeProductRepo(producto("prod-001", "Arroz", 10))
	svc := ledger.NewService(&fakeTxRunner{repo: repo})

	results, err := svc.BulkIncrement(context.Background(), []ledger.Item{
		{ProductID: "prod-999", Amount: dec(5)},
		{ProductID: "prod-001", Amount: dec(5)},
	})

	require.NoError(t, err, "los fallos por ítem no son un error de la llamada")
	require.Len(t, results, 2)

	assert.False(t, results[0].Success)
	assert.Equal(t, ledger.CodeProductNotFound, results[0].Code)
	assert.Contains(t, results[0].Error, "Product not found")

	assert.True(t, results[1].Success, "el ítem válido se aplica aunque su hermano falle")
	assert.True(t, dec(15).Equal(repo.quantity("prod-001")))
}

func TestBulkDecrement_RestaConValidacionDeStock(t *testing.T) {
	repo := newFakeProductRepo(producto("prod-001", "Arroz", 10))
	svc := ledger.NewService(&fakeTxRunner{repo: repo})

	results, err := svc.BulkDecrement(context.Background(), []ledger.Item{
		{ProductID: "prod-001", Amount: dec(4)},
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.True(t, dec(10).Equal(results[0].OldQuantity))
	assert.True(t, dec(6).Equal(results[0].NewQuantity))
	assert.True(t, dec(6).Equal(repo.quantity("prod-001")))
}

func TestBulkDecrement_StockInsuficienteFallaSoloEseItem(t *testing.T) {
	repo := newFakeProductRepo(
		producto("prod-001", "Arroz", 15),
		producto("prod-002", "Aceite", 8),
	)
	svc := ledger.NewService(&fakeTxRunner{repo: repo})

	results, err := svc.BulkDecrement(context.Background(), []ledger.Item{
		{ProductID: "prod-001", Amount: dec(20)}, // 20 > 15
		{ProductID: "prod-002", Amount: dec(3)},
	})

	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Success)
	assert.Equal(t, ledger.CodeInsufficientStock, results[0].Code)
	assert.Contains(t, results[0].Error, "Insufficient stock")
	assert.True(t, dec(15).Equal(results[0].OldQuantity), "el fallo conserva la existencia encontrada")
	assert.True(t, dec(15).Equal(repo.quantity("prod-001")), "el producto insuficiente no cambia")

	assert.True(t, results[1].Success)
	assert.True(t, dec(5).Equal(repo.quantity("prod-002")), "el hermano válido sí se aplica")
}

func TestBulkDecrement_PermiteDejarStockEnCeroPeroNuncaNegativo(t *testing.T) {
	repo := newFakeProductRepo(producto("prod-001", "Arroz", 5))
	svc := ledger.NewService(&fakeTxRunner{repo: repo})

	results, err := svc.BulkDecrement(context.Background(), []ledger.Item{
		{ProductID: "prod-001", Amount: dec(5)},
	})
	require.NoError(t, err)
	assert.True(t, results[0].Success, "old == amount es válido (queda en cero)")
	assert.True(t, decimal.Zero.Equal(repo.quantity("prod-001")))

	results, err = svc.BulkDecrement(context.Background(), []ledger.Item{
		{ProductID: "prod-001", Amount: dec(1)},
	})
	require.NoError(t, err)
	assert.False(t, results[0].Success, "con stock en cero cualquier resta es insuficiente")
	assert.True(t, decimal.Zero.Equal(repo.quantity("prod-001")))
}

func TestBulk_FalloDePersistenciaInvalidaElLoteEntero(t *testing.T) {
	repo := newFakeProductRepo(
		producto("prod-001", "Arroz", 10),
		producto("prod-002", "Aceite", 10),
	)
	repo.failOnUpdate["prod-002"] = errors.New("conexión perdida")
	svc := ledger.NewService(&fakeTxRunner{repo: repo})

	results, err := svc.BulkIncrement(context.Background(), []ledger.Item{
		{ProductID: "prod-001", Amount: dec(5)},
		{ProductID: "prod-002", Amount: dec(5)},
	})

	require.Error(t, err, "un fallo del store es un fallo de la llamada completa")
	assert.Nil(t, results)
	assert.True(t, dec(10).Equal(repo.quantity("prod-001")),
		"el rollback descarta también los ítems ya aplicados")
	assert.True(t, dec(10).Equal(repo.quantity("prod-002")))
}

func TestDecrementTx_UsaLosRepositoriosDelCaller(t *testing.T) {
	repo := newFakeProductRepo(producto("prod-001", "Arroz", 10))
	svc := ledger.NewService(&fakeTxRunner{repo: repo})

	results, err := svc.DecrementTx(repo, []ledger.Item{
		{ProductID: "prod-001", Amount: dec(2)},
	})

	require.NoError(t, err)
	assert.True(t, results[0].Success)
	assert.True(t, dec(8).Equal(repo.quantity("prod-001")),
		"la escritura debe pasar por el repositorio recibido")
}

func TestFailures_FiltraSoloLosItemsFallidos(t *testing.T) {
	results := []ledger.ItemResult{
		{ProductID: "a", Success: true},
		{ProductID: "b", Code: ledger.CodeInsufficientStock},
		{ProductID: "c", Success: true},
	}
	failed := ledger.Failures(results)
	require.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].ProductID)
}

// ── fakes ─────────────────────────────────────────────────────────────────────

// fakeProductRepo implementa repository.ProductRepository en memoria.
type fakeProductRepo struct {
	products     map[string]*entity.Product
	failOnUpdate map[string]error
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{
		products:     make(map[string]*entity.Product),
		failOnUpdate: make(map[string]error),
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByName(name string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	existing, ok := r.products[p.ID]
	if !ok {
		return errors.New("no existe")
	}
	quantity := existing.Quantity
	cp := *p
	cp.Quantity = quantity // Update nunca toca quantity
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	if err := r.failOnUpdate[id]; err != nil {
		return err
	}
	p, ok := r.products[id]
	if !ok {
		return errors.New("no existe")
	}
	p.Quantity = quantity
	return nil
}

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	return r.ListAll()
}

func (r *fakeProductRepo) ListAll() ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) quantity(id string) decimal.Decimal {
	return r.products[id].Quantity
}

func (r *fakeProductRepo) snapshot() map[string]entity.Product {
	s := make(map[string]entity.Product, len(r.products))
	for id, p := range r.products {
		s[id] = *p
	}
	return s
}

func (r *fakeProductRepo) restore(s map[string]entity.Product) {
	r.products = make(map[string]*entity.Product, len(s))
	for id, p := range s {
		cp := p
		r.products[id] = &cp
	}
}

// fakeTxRunner simula la transacción: snapshot antes de fn, restore si falla.
type fakeTxRunner struct {
	repo *fakeProductRepo
}

func (t *fakeTxRunner) RunLedger(_ context.Context, fn func(repository.ProductRepository) error) error {
	before := t.repo.snapshot()
	if err := fn(t.repo); err != nil {
		t.repo.restore(before)
		return err
	}
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func producto(id, name string, quantity int64) *entity.Product {
	return &entity.Product{
		ID:       id,
		Name:     name,
		Quantity: decimal.NewFromInt(quantity),
		Unit:     "unidad",
		Price:    decimal.NewFromInt(100),
	}
}

func dec(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}
