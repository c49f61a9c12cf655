package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcoral/gestock-api/internal/application/dto"
	"github.com/dcoral/gestock-api/internal/application/inventory"
	"github.com/dcoral/gestock-api/internal/application/ledger"
	"github.com/dcoral/gestock-api/internal/domain"
	"github.com/dcoral/gestock-api/internal/domain/entity"
	"github.com/dcoral/gestock-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del motor de movimientos. Usan el ledger real sobre repositorios en
// memoria: lo que se verifica es el contrato completo (validar todas las
// líneas antes de mutar, snapshots previousStock/newStock, reversión exacta
// dentro de la ventana de 24 horas) tal como lo vería la API.
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_EntradaSumaStockYGuardaSnapshots(t *testing.T) {
	env := newTestEnv(t, producto("prod-001", "Arroz", 10))

	resp, err := env.uc.Create(context.Background(), dto.CreateMovementRequest{
		Type:         entity.MovementTypeStockIn,
		Supplier:     "Distribuidora Norte",
		StockManager: "Alice",
		Items: []dto.MovementItemRequest{
			{ProductID: "prod-001", Quantity: dec(5)},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)

	line := resp.Lines[0]
	assert.True(t, dec(10).Equal(line.PreviousStock), "previousStock debe ser la existencia previa")
	assert.True(t, dec(15).Equal(line.NewStock), "newStock = previousStock + quantity")
	assert.True(t, dec(15).Equal(env.products.quantity("prod-001")),
		"la cantidad persistida debe igualar newStock")

	assert.Equal(t, "MOV000001", resp.ID)
	assert.Equal(t, "Alice", resp.StockManager)
	assert.NotEmpty(t, resp.DisplayDate)

	guardado, err := env.movements.GetByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, guardado, "el movimiento debe quedar persistido")
}

func TestCreate_DistribucionRestaStock(t *testing.T) {
	env := newTestEnv(t, producto("prod-001", "Arroz", 10))

	resp, err := env.uc.Create(context.Background(), dto.CreateMovementRequest{
		Type:         entity.MovementTypeDistribution,
		DepartmentID: depID,
		StockManager: "Alice",
		Items: []dto.MovementItemRequest{
			{ProductID: "prod-001", Quantity: dec(4)},
		},
	})

	require.NoError(t, err)
	assert.True(t, dec(10).Equal(resp.Lines[0].PreviousStock))
	assert.True(t, dec(6).Equal(resp.Lines[0].NewStock))
	assert.True(t, dec(6).Equal(env.products.quantity("prod-001")))
}

func TestCreate_DistribucionConStockInsuficienteRechazaTodo(t *testing.T) {
	env := newTestEnv(t,
		producto("prod-001", "Arroz", 15),
		producto("prod-002", "Aceite", 50),
	)

	_, err := env.uc.Create(context.Background(), dto.CreateMovementRequest{
		Type:         entity.MovementTypeDistribution,
		DepartmentID: depID,
		StockManager: "Alice",
		Items: []dto.MovementItemRequest{
			{ProductID: "prod-001", Quantity: dec(20)}, // 20 > 15
			{ProductID: "prod-002", Quantity: dec(5)},  // válida, pero no debe aplicarse
		},
	})

	require.Error(t, err)
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok, "el rechazo debe ser un ValidationError")
	require.Len(t, ve.Errors, 1)
	assert.Contains(t, ve.Errors[0], "Insufficient stock")

	assert.True(t, dec(15).Equal(env.products.quantity("prod-001")), "nada debe cambiar")
	assert.True(t, dec(50).Equal(env.products.quantity("prod-002")),
		"la línea válida tampoco se aplica si una hermana falla")
	assert.Empty(t, env.movements.all(), "no debe persistirse ningún movimiento")
}

func TestCreate_CalculaTotalesYPrecioPorDefecto(t *testing.T) {
	env := newTestEnv(t,
		productoConPrecio("prod-001", "Arroz", 10, 100),
		productoConPrecio("prod-002", "Aceite", 10, 250),
	)
	precio := dec(80)

	resp, err := env.uc.Create(context.Background(), dto.CreateMovementRequest{
		Type:         entity.MovementTypeStockIn,
		Supplier:     "Distribuidora Norte",
		StockManager: "Alice",
		Items: []dto.MovementItemRequest{
			{ProductID: "prod-001", Quantity: dec(2), UnitPrice: &precio}, // 2 * 80 = 160
			{ProductID: "prod-002", Quantity: dec(3)},                     // 3 * 250 = 750 (precio del producto)
		},
	})

	require.NoError(t, err)
	assert.True(t, dec(160).Equal(resp.Lines[0].Total))
	assert.True(t, dec(250).Equal(resp.Lines[1].UnitPrice), "sin precio explícito usa el del producto")
	assert.True(t, dec(910).Equal(resp.TotalValue), "totalValue = Σ totales de línea")
	assert.True(t, dec(5).Equal(resp.TotalItems), "totalItems = Σ cantidades")
}

func TestCreate_ValidacionDeFormaRecopilaTodosLosErrores(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.Create(context.Background(), dto.CreateMovementRequest{
		Type:         "ajuste", // tipo inválido
		StockManager: "   ",    // en blanco
		Items:        nil,      // sin líneas
	})

	require.Error(t, err)
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Errors, 3, "deben reportarse los tres problemas juntos")
}

func TestCreate_DistribucionSinDepartamentoEsInvalida(t *testing.T) {
	env := newTestEnv(t, producto("prod-001", "Arroz", 10))

	_, err := env.uc.Create(context.Background(), dto.CreateMovementRequest{
		Type:         entity.MovementTypeDistribution,
		StockManager: "Alice",
		Items: []dto.MovementItemRequest{
			{ProductID: "prod-001", Quantity: dec(1)},
		},
	})

	require.Error(t, err)
	ve, _ := domain.AsValidationError(err)
	require.NotNil(t, ve)
	assert.Contains(t, ve.Errors[0], "departamento")
	assert.True(t, dec(10).Equal(env.products.quantity("prod-001")))
}

func TestCreate_EntradaSinProveedorEsInvalida(t *testing.T) {
	env := newTestEnv(t, producto("prod-001", "Arroz", 10))

	_, err := env.uc.Create(context.Background(), dto.CreateMovementRequest{
		Type:         entity.MovementTypeStockIn,
		StockManager: "Alice",
		Items: []dto.MovementItemRequest{
			{ProductID: "prod-001", Quantity: dec(1)},
		},
	})

	require.Error(t, err)
	ve, _ := domain.AsValidationError(err)
	require.NotNil(t, ve)
	assert.Contains(t, ve.Errors[0], "proveedor")
}

func TestCreate_ProductoInexistenteRechazaElMovimiento(t *testing.T) {
	env := newTestEnv(t, producto("prod-001", "Arroz", 10))

	_, err := env.uc.Create(context.Background(), dto.CreateMovementRequest{
		Type:         entity.MovementTypeStockIn,
		Supplier:     "Distribuidora Norte",
		StockManager: "Alice",
		Items: []dto.MovementItemRequest{
			{ProductID: "prod-999", Quantity: dec(1)},
			{ProductID: "prod-001", Quantity: dec(2)},
		},
	})

	require.Error(t, err)
	ve, _ := domain.AsValidationError(err)
	require.NotNil(t, ve)
	assert.Contains(t, ve.Errors[0], "Product not found")
	assert.True(t, dec(10).Equal(env.products.quantity("prod-001")),
		"la línea válida no se aplica si el movimiento se rechaza")
}

// ── eliminación (ventana de 24 horas) ─────────────────────────────────────────

func TestDelete_RevierteEntradaExactamente(t *testing.T) {
	env := newTestEnv(t, producto("prod-001", "Arroz", 10))

	resp, err := env.uc.Create(context.Background(), dto.CreateMovementRequest{
		Type:         entity.MovementTypeStockIn,
		Supplier:     "Distribuidora Norte",
		StockManager: "Alice",
		Items: []dto.MovementItemRequest{
			{ProductID: "prod-001", Quantity: dec(5)},
		},
	})
	require.NoError(t, err)
	require.True(t, dec(15).Equal(env.products.quantity("prod-001")))

	err = env.uc.Delete(context.Background(), resp.ID)

	require.NoError(t, err)
	assert.True(t, dec(10).Equal(env.products.quantity("prod-001")),
		"eliminar una entrada resta cada línea por su cantidad original")
	assert.Empty(t, env.movements.all(), "el documento del movimiento debe eliminarse")
}

func TestDelete_RevierteDistribucionExactamente(t *testing.T) {
	env := newTestEnv(t, producto("prod-001", "Arroz", 10))

	resp, err := env.uc.Create(context.Background(), dto.CreateMovementRequest{
		Type:         entity.MovementTypeDistribution,
		DepartmentID: depID,
		StockManager: "Alice",
		Items: []dto.MovementItemRequest{
			{ProductID: "prod-001", Quantity: dec(4)},
		},
	})
	require.NoError(t, err)
	require.True(t, dec(6).Equal(env.products.quantity("prod-001")))

	err = env.uc.Delete(context.Background(), resp.ID)

	require.NoError(t, err)
	assert.True(t, dec(10).Equal(env.products.quantity("prod-001")),
		"eliminar una distribución devuelve cada línea por su cantidad original")
}

func TestDelete_MovimientoInexistente(t *testing.T) {
	env := newTestEnv(t)

	err := env.uc.Delete(context.Background(), "MOV000099")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_FueraDeVentanaFallaSinMutar(t *testing.T) {
	env := newTestEnv(t, producto("prod-001", "Arroz", 15))
	env.movements.seed(&entity.StockMovement{
		ID:        "MOV000001",
		Type:      entity.MovementTypeStockIn,
		Timestamp: time.Now().Add(-25 * time.Hour),
		Lines: []entity.MovementLine{
			{ProductID: "prod-001", Quantity: dec(5)},
		},
	})

	err := env.uc.Delete(context.Background(), "MOV000001")

	assert.ErrorIs(t, err, domain.ErrMovementTooOld)
	assert.True(t, dec(15).Equal(env.products.quantity("prod-001")), "el stock no debe cambiar")
	assert.NotEmpty(t, env.movements.all(), "el movimiento debe seguir existiendo")
}

func TestDelete_DentroDeVentanaJustoAntesDelLimite(t *testing.T) {
	env := newTestEnv(t, producto("prod-001", "Arroz", 15))
	env.movements.seed(&entity.StockMovement{
		ID:        "MOV000001",
		Type:      entity.MovementTypeStockIn,
		Timestamp: time.Now().Add(-23 * time.Hour),
		Lines: []entity.MovementLine{
			{ProductID: "prod-001", Quantity: dec(5)},
		},
	})

	err := env.uc.Delete(context.Background(), "MOV000001")

	require.NoError(t, err)
	assert.True(t, dec(10).Equal(env.products.quantity("prod-001")))
}

func TestDelete_RestauracionImposibleNoEliminaNada(t *testing.T) {
	// Entrada de 5 registrada ayer por la tarde; hoy el stock ya bajó a 2 por
	// otras salidas. Revertir la entrada exigiría 5 de un stock de 2.
	env := newTestEnv(t, producto("prod-001", "Arroz", 2))
	env.movements.seed(&entity.StockMovement{
		ID:        "MOV000001",
		Type:      entity.MovementTypeStockIn,
		Timestamp: time.Now().Add(-2 * time.Hour),
		Lines: []entity.MovementLine{
			{ProductID: "prod-001", Quantity: dec(5)},
		},
	})

	err := env.uc.Delete(context.Background(), "MOV000001")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStockRestorationFailed)
	assert.True(t, dec(2).Equal(env.products.quantity("prod-001")),
		"una reversión parcial no debe confirmarse")
	assert.NotEmpty(t, env.movements.all(),
		"el documento no se elimina mientras reclame su efecto original")
}

func TestDelete_ReversionParcialSeDeshaceCompleta(t *testing.T) {
	// Dos líneas: la primera sí podría revertirse, la segunda no. La primera
	// no debe quedar aplicada.
	env := newTestEnv(t,
		producto("prod-001", "Arroz", 50),
		producto("prod-002", "Aceite", 1),
	)
	env.movements.seed(&entity.StockMovement{
		ID:        "MOV000001",
		Type:      entity.MovementTypeStockIn,
		Timestamp: time.Now(),
		Lines: []entity.MovementLine{
			{ProductID: "prod-001", Quantity: dec(10)},
			{ProductID: "prod-002", Quantity: dec(5)},
		},
	})

	err := env.uc.Delete(context.Background(), "MOV000001")

	require.ErrorIs(t, err, domain.ErrStockRestorationFailed)
	assert.True(t, dec(50).Equal(env.products.quantity("prod-001")),
		"la línea reversible se deshace con el rollback")
	assert.True(t, dec(1).Equal(env.products.quantity("prod-002")))
}

// ── listado y consulta ────────────────────────────────────────────────────────

func TestGet_MovimientoInexistente(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.Get(context.Background(), "MOV000099")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_DevuelveMovimientosConPaginado(t *testing.T) {
	env := newTestEnv(t, producto("prod-001", "Arroz", 100))

	for i := 0; i < 3; i++ {
		_, err := env.uc.Create(context.Background(), dto.CreateMovementRequest{
			Type:         entity.MovementTypeStockIn,
			Supplier:     "Distribuidora Norte",
			StockManager: "Alice",
			Items: []dto.MovementItemRequest{
				{ProductID: "prod-001", Quantity: dec(1)},
			},
		})
		require.NoError(t, err)
	}

	resp, err := env.uc.List(context.Background(), dto.ListMovementsRequest{})

	require.NoError(t, err)
	assert.Len(t, resp.Items, 3)
	assert.Equal(t, 20, resp.Page.Limit, "el límite por defecto es 20")
}

// ── entorno de prueba ─────────────────────────────────────────────────────────

const depID = "7d8e9f00-1111-2222-3333-444455556666"

type testEnv struct {
	uc        *inventory.MovementUseCase
	products  *fakeProductRepo
	movements *fakeMovementRepo
}

func newTestEnv(t *testing.T, products ...*entity.Product) *testEnv {
	t.Helper()
	productRepo := newFakeProductRepo(products...)
	movementRepo := newFakeMovementRepo()
	departmentRepo := &fakeDepartmentRepo{departments: map[string]*entity.Department{
		depID: {ID: depID, Name: "Cocina"},
	}}
	runner := &fakeTxRunner{products: productRepo, movements: movementRepo}
	uc := inventory.NewMovementUseCase(
		runner,
		ledger.NewService(nil), // solo se usan IncrementTx/DecrementTx
		&fakeIDs{},
		movementRepo,
		departmentRepo,
	)
	return &testEnv{uc: uc, products: productRepo, movements: movementRepo}
}

// fakeTxRunner simula la transacción restaurando ambos repos si fn falla.
type fakeTxRunner struct {
	products  *fakeProductRepo
	movements *fakeMovementRepo
}

func (t *fakeTxRunner) Run(_ context.Context, fn func(
	repository.StockMovementRepository,
	repository.ProductRepository,
) error) error {
	productsBefore := t.products.snapshot()
	movementsBefore := t.movements.snapshot()
	if err := fn(t.movements, t.products); err != nil {
		t.products.restore(productsBefore)
		t.movements.restore(movementsBefore)
		return err
	}
	return nil
}

// fakeIDs emite MOV000001, MOV000002, ... en memoria.
type fakeIDs struct {
	n int64
}

func (f *fakeIDs) NextMovementID() string {
	f.n++
	return fmt.Sprintf("MOV%06d", f.n)
}

// fakeMovementRepo implementa repository.StockMovementRepository en memoria.
type fakeMovementRepo struct {
	movements map[string]*entity.StockMovement
}

var _ repository.StockMovementRepository = (*fakeMovementRepo)(nil)

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{movements: make(map[string]*entity.StockMovement)}
}

func (r *fakeMovementRepo) seed(m *entity.StockMovement) { r.movements[m.ID] = m }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.movements[m.ID] = &cp
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	m, ok := r.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMovementRepo) List(filter repository.MovementListFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeMovementRepo) Delete(id string) error {
	if _, ok := r.movements[id]; !ok {
		return errors.New("no existe")
	}
	delete(r.movements, id)
	return nil
}

func (r *fakeMovementRepo) all() []*entity.StockMovement {
	out, _ := r.List(repository.MovementListFilter{})
	return out
}

func (r *fakeMovementRepo) snapshot() map[string]entity.StockMovement {
	s := make(map[string]entity.StockMovement, len(r.movements))
	for id, m := range r.movements {
		s[id] = *m
	}
	return s
}

func (r *fakeMovementRepo) restore(s map[string]entity.StockMovement) {
	r.movements = make(map[string]*entity.StockMovement, len(s))
	for id, m := range s {
		cp := m
		r.movements[id] = &cp
	}
}

// fakeDepartmentRepo implementa repository.DepartmentRepository en memoria.
type fakeDepartmentRepo struct {
	departments map[string]*entity.Department
}

var _ repository.DepartmentRepository = (*fakeDepartmentRepo)(nil)

func (r *fakeDepartmentRepo) Create(d *entity.Department) error {
	r.departments[d.ID] = d
	return nil
}

func (r *fakeDepartmentRepo) GetByID(id string) (*entity.Department, error) {
	d, ok := r.departments[id]
	if !ok {
		return nil, nil
	}
	return d, nil
}

func (r *fakeDepartmentRepo) Update(d *entity.Department) error { return nil }

func (r *fakeDepartmentRepo) List(limit, offset int) ([]*entity.Department, error) {
	var out []*entity.Department
	for _, d := range r.departments {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDepartmentRepo) Delete(id string) error { return nil }

// fakeProductRepo implementa repository.ProductRepository en memoria.
type fakeProductRepo struct {
	products map[string]*entity.Product
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
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

func (r *fakeProductRepo) Update(p *entity.Product) error { return nil }

func (r *fakeProductRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
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
	var out []*entity.Product
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

// ── helpers ───────────────────────────────────────────────────────────────────

func producto(id, name string, quantity int64) *entity.Product {
	return productoConPrecio(id, name, quantity, 100)
}

func productoConPrecio(id, name string, quantity, price int64) *entity.Product {
	return &entity.Product{
		ID:       id,
		Name:     name,
		Quantity: decimal.NewFromInt(quantity),
		Unit:     "unidad",
		Price:    decimal.NewFromInt(price),
	}
}

func dec(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}
