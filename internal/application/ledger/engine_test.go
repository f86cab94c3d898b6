package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaldana18/inventory-ledger-api/internal/application/ledger"
	"github.com/jaldana18/inventory-ledger-api/internal/domain"
	"github.com/jaldana18/inventory-ledger-api/internal/domain/entity"
)

func qty(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newEngine(t *testing.T) (*ledger.Engine, *memState) {
	t.Helper()
	state, products, warehouses := newFixture()
	runner := &memTxRunner{state: state}
	return ledger.NewEngine(runner, products, warehouses), state
}

func admin() entity.Actor {
	return entity.Actor{UserID: "u-admin", CompanyID: testCompany, Role: entity.RoleAdmin}
}

func whUser(warehouseID string) entity.Actor {
	return entity.Actor{UserID: "u-wh", CompanyID: testCompany, Role: entity.RoleUser, WarehouseID: warehouseID}
}

func currentStock(t *testing.T, state *memState, productID, warehouseID string) decimal.Decimal {
	t.Helper()
	st, err := (&memStockRepo{s: state}).Get(productID, warehouseID)
	require.NoError(t, err)
	return st.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo: entrada, salida, salida insuficiente, traslado y ajustes.
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_EscenarioCompleto(t *testing.T) {
	eng, state := newEngine(t)
	ctx := context.Background()
	actor := admin()

	// Entrada +100 por compra
	tx, err := eng.RegisterInbound(ctx, actor, ledger.InboundInput{
		ProductID: testProduct, WarehouseID: testWh1,
		Reason: entity.ReasonPurchase, Quantity: qty("100"),
	})
	require.NoError(t, err)
	assert.True(t, tx.PreviousStock.IsZero())
	assert.True(t, tx.NewStock.Equal(qty("100")))
	assert.True(t, currentStock(t, state, testProduct, testWh1).Equal(qty("100")))

	// Salida -30 por venta
	tx, err = eng.RegisterOutbound(ctx, actor, ledger.OutboundInput{
		ProductID: testProduct, WarehouseID: testWh1,
		Reason: entity.ReasonSale, Quantity: qty("30"),
	})
	require.NoError(t, err)
	assert.True(t, tx.Quantity.Equal(qty("-30")))
	assert.True(t, tx.NewStock.Equal(qty("70")))

	// Salida de 200 con solo 70 disponibles: rechazada con detalle, stock intacto
	_, err = eng.RegisterOutbound(ctx, actor, ledger.OutboundInput{
		ProductID: testProduct, WarehouseID: testWh1,
		Reason: entity.ReasonSale, Quantity: qty("200"),
	})
	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.True(t, insuf.Available.Equal(qty("70")), "disponible debe ser 70, fue %s", insuf.Available)
	assert.True(t, insuf.Requested.Equal(qty("200")))
	assert.True(t, currentStock(t, state, testProduct, testWh1).Equal(qty("70")))

	// Traslado de 50 de wh-1 a wh-2
	res, err := eng.Transfer(ctx, actor, ledger.TransferInput{
		ProductID: testProduct, FromWarehouseID: testWh1, ToWarehouseID: testWh2, Quantity: qty("50"),
	})
	require.NoError(t, err)
	assert.True(t, currentStock(t, state, testProduct, testWh1).Equal(qty("20")))
	assert.True(t, currentStock(t, state, testProduct, testWh2).Equal(qty("50")))
	assert.Equal(t, res.Out.CorrelationID, res.In.CorrelationID, "ambas patas comparten correlation id")
	assert.Equal(t, entity.TxTypeTransferOut, res.Out.Type)
	assert.Equal(t, entity.TxTypeTransferIn, res.In.Type)

	// Ajustar a 20 cuando ya hay 20: no-op rechazado
	_, err = eng.Adjust(ctx, actor, ledger.AdjustmentInput{
		ProductID: testProduct, WarehouseID: testWh1, NewStock: qty("20"),
	})
	assert.ErrorIs(t, err, domain.ErrNoOpAdjustment)

	// Ajustar a 25: delta +5 registrado
	adj, err := eng.Adjust(ctx, actor, ledger.AdjustmentInput{
		ProductID: testProduct, WarehouseID: testWh1, NewStock: qty("25"),
	})
	require.NoError(t, err)
	assert.True(t, adj.Quantity.Equal(qty("5")))
	assert.Equal(t, entity.ReasonCorrection, adj.Reason)
	assert.True(t, currentStock(t, state, testProduct, testWh1).Equal(qty("25")))
}

// Conservación: el stock proyectado es exactamente la suma con signo del ledger.
func TestEngine_Conservacion(t *testing.T) {
	eng, state := newEngine(t)
	ctx := context.Background()
	actor := admin()

	_, err := eng.RegisterInbound(ctx, actor, ledger.InboundInput{
		ProductID: testProduct, WarehouseID: testWh1, Reason: entity.ReasonInitialStock, Quantity: qty("40"),
	})
	require.NoError(t, err)
	_, err = eng.RegisterOutbound(ctx, actor, ledger.OutboundInput{
		ProductID: testProduct, WarehouseID: testWh1, Reason: entity.ReasonDamaged, Quantity: qty("7"),
	})
	require.NoError(t, err)
	_, err = eng.Adjust(ctx, actor, ledger.AdjustmentInput{
		ProductID: testProduct, WarehouseID: testWh1, NewStock: qty("30"),
	})
	require.NoError(t, err)

	sum := decimal.Zero
	for _, tx := range state.txs {
		if tx.ProductID == testProduct && tx.WarehouseID == testWh1 {
			sum = sum.Add(tx.Quantity)
			assert.True(t, tx.NewStock.Equal(tx.PreviousStock.Add(tx.Quantity)),
				"cada fila debe cumplir new = previous + quantity")
			assert.False(t, tx.NewStock.IsNegative())
		}
	}
	assert.True(t, currentStock(t, state, testProduct, testWh1).Equal(sum))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_Inbound_Validaciones(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	_, err := eng.RegisterInbound(ctx, admin(), ledger.InboundInput{
		ProductID: testProduct, WarehouseID: testWh1, Reason: "robo", Quantity: qty("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "razón desconocida")

	_, err = eng.RegisterInbound(ctx, admin(), ledger.InboundInput{
		ProductID: testProduct, WarehouseID: testWh1, Reason: entity.ReasonPurchase, Quantity: qty("0"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	neg := qty("-1")
	_, err = eng.RegisterInbound(ctx, admin(), ledger.InboundInput{
		ProductID: testProduct, WarehouseID: testWh1, Reason: entity.ReasonPurchase, Quantity: qty("5"), UnitCost: &neg,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "costo negativo")

	_, err = eng.RegisterInbound(ctx, admin(), ledger.InboundInput{
		ProductID: "prod-inexistente", WarehouseID: testWh1, Reason: entity.ReasonPurchase, Quantity: qty("5"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEngine_ProductoDiscreto_RechazaFracciones(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	// testProduct se cuenta por unidades
	_, err := eng.RegisterInbound(ctx, admin(), ledger.InboundInput{
		ProductID: testProduct, WarehouseID: testWh1, Reason: entity.ReasonPurchase, Quantity: qty("2.5"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// prod-granel se mide en kg: fracciones permitidas
	_, err = eng.RegisterInbound(ctx, admin(), ledger.InboundInput{
		ProductID: "prod-granel", WarehouseID: testWh1, Reason: entity.ReasonPurchase, Quantity: qty("2.5"),
	})
	assert.NoError(t, err)
}

func TestEngine_Adjust_NegativoRechazado(t *testing.T) {
	eng, _ := newEngine(t)
	_, err := eng.Adjust(context.Background(), admin(), ledger.AdjustmentInput{
		ProductID: testProduct, WarehouseID: testWh1, NewStock: qty("-3"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Política de acceso en mutaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_UserBodegaAjena_Denegado(t *testing.T) {
	eng, state := newEngine(t)
	ctx := context.Background()
	actor := whUser(testWh1)

	var denied *domain.WarehouseAccessDeniedError

	_, err := eng.RegisterInbound(ctx, actor, ledger.InboundInput{
		ProductID: testProduct, WarehouseID: testWh2, Reason: entity.ReasonPurchase, Quantity: qty("5"),
	})
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, testWh2, denied.WarehouseID)

	_, err = eng.RegisterOutbound(ctx, actor, ledger.OutboundInput{
		ProductID: testProduct, WarehouseID: testWh2, Reason: entity.ReasonSale, Quantity: qty("5"),
	})
	assert.ErrorAs(t, err, &denied)

	_, err = eng.Adjust(ctx, actor, ledger.AdjustmentInput{
		ProductID: testProduct, WarehouseID: testWh2, NewStock: qty("5"),
	})
	assert.ErrorAs(t, err, &denied)

	assert.Empty(t, state.txs, "ninguna operación denegada debe tocar el ledger")
}

func TestEngine_UserSinBodegaExplicita_UsaLaPropia(t *testing.T) {
	eng, state := newEngine(t)
	actor := whUser(testWh2)

	tx, err := eng.RegisterInbound(context.Background(), actor, ledger.InboundInput{
		ProductID: testProduct, Reason: entity.ReasonPurchase, Quantity: qty("10"),
	})
	require.NoError(t, err)
	assert.Equal(t, testWh2, tx.WarehouseID)
	assert.True(t, currentStock(t, state, testProduct, testWh2).Equal(qty("10")))
}

func TestEngine_UserNoPuedeTrasladar(t *testing.T) {
	eng, _ := newEngine(t)
	// ni siquiera cuando la bodega origen es la suya
	_, err := eng.Transfer(context.Background(), whUser(testWh1), ledger.TransferInput{
		ProductID: testProduct, FromWarehouseID: testWh1, ToWarehouseID: testWh2, Quantity: qty("1"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_Transfer_MismaBodegaRechazado(t *testing.T) {
	eng, _ := newEngine(t)
	_, err := eng.Transfer(context.Background(), admin(), ledger.TransferInput{
		ProductID: testProduct, FromWarehouseID: testWh1, ToWarehouseID: testWh1, Quantity: qty("1"),
	})
	var invalid *domain.InvalidTransferError
	assert.ErrorAs(t, err, &invalid)
}

func TestEngine_Transfer_InsuficienteNoCambiaNada(t *testing.T) {
	eng, state := newEngine(t)
	ctx := context.Background()

	_, err := eng.RegisterInbound(ctx, admin(), ledger.InboundInput{
		ProductID: testProduct, WarehouseID: testWh1, Reason: entity.ReasonPurchase, Quantity: qty("10"),
	})
	require.NoError(t, err)

	_, err = eng.Transfer(ctx, admin(), ledger.TransferInput{
		ProductID: testProduct, FromWarehouseID: testWh1, ToWarehouseID: testWh2, Quantity: qty("11"),
	})
	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.True(t, insuf.Available.Equal(qty("10")))

	assert.True(t, currentStock(t, state, testProduct, testWh1).Equal(qty("10")))
	assert.True(t, currentStock(t, state, testProduct, testWh2).IsZero())
}

// Atomicidad: si la segunda pata del traslado falla al escribirse, ninguna de
// las dos queda aplicada (ni en el ledger ni en la proyección).
func TestEngine_Transfer_Atomicidad(t *testing.T) {
	state, products, warehouses := newFixture()
	bootRunner := &memTxRunner{state: state}
	eng := ledger.NewEngine(bootRunner, products, warehouses)
	ctx := context.Background()

	_, err := eng.RegisterInbound(ctx, admin(), ledger.InboundInput{
		ProductID: testProduct, WarehouseID: testWh1, Reason: entity.ReasonPurchase, Quantity: qty("100"),
	})
	require.NoError(t, err)

	boom := errors.New("se cayó la conexión")
	failingRunner := &memTxRunner{state: state, failOn: func(tx *entity.StockTransaction) error {
		if tx.Type == entity.TxTypeTransferIn {
			return boom
		}
		return nil
	}}
	engFail := ledger.NewEngine(failingRunner, products, warehouses)

	_, err = engFail.Transfer(ctx, admin(), ledger.TransferInput{
		ProductID: testProduct, FromWarehouseID: testWh1, ToWarehouseID: testWh2, Quantity: qty("40"),
	})
	require.ErrorIs(t, err, boom)

	assert.True(t, currentStock(t, state, testProduct, testWh1).Equal(qty("100")), "origen intacto")
	assert.True(t, currentStock(t, state, testProduct, testWh2).IsZero(), "destino intacto")
	assert.Len(t, state.txs, 1, "solo la entrada inicial debe existir en el ledger")
}

// ──────────────────────────────────────────────────────────────────────────────
// Operaciones masivas (todo-o-nada)
// ──────────────────────────────────────────────────────────────────────────────

func TestEngine_BulkInbound_TodoOk(t *testing.T) {
	eng, state := newEngine(t)
	res, err := eng.BulkInbound(context.Background(), admin(), ledger.BulkInput{
		WarehouseID: testWh1,
		Reason:      entity.ReasonPurchase,
		Items: []ledger.BulkLine{
			{ProductID: testProduct, Quantity: qty("10")},
			{ProductID: "prod-granel", Quantity: qty("2.5")},
			{ProductID: testProduct, Quantity: qty("5")}, // repetido: debe acumular
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Created, 3)
	assert.Empty(t, res.Failed)

	assert.True(t, currentStock(t, state, testProduct, testWh1).Equal(qty("15")))
	assert.True(t, res.Created[2].PreviousStock.Equal(qty("10")),
		"la línea repetida debe partir del stock acumulado por la anterior")

	// las líneas de un mismo bulk comparten correlation id
	assert.Equal(t, res.Created[0].CorrelationID, res.Created[2].CorrelationID)
}

func TestEngine_BulkOutbound_TodoONada(t *testing.T) {
	eng, state := newEngine(t)
	ctx := context.Background()

	_, err := eng.RegisterInbound(ctx, admin(), ledger.InboundInput{
		ProductID: testProduct, WarehouseID: testWh1, Reason: entity.ReasonPurchase, Quantity: qty("50"),
	})
	require.NoError(t, err)

	res, err := eng.BulkOutbound(ctx, admin(), ledger.BulkInput{
		WarehouseID: testWh1,
		Reason:      entity.ReasonSale,
		Items: []ledger.BulkLine{
			{ProductID: testProduct, Quantity: qty("20")},  // válida
			{ProductID: testProduct, Quantity: qty("100")}, // insuficiente
		},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Created, "todo-o-nada: nada se aplica si una línea falla")
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 1, res.Failed[0].Index)
	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, res.Failed[0].Err, &insuf)
	assert.True(t, insuf.Available.Equal(qty("30")),
		"la línea insuficiente se evalúa después de aplicar tentativamente la anterior")

	assert.True(t, currentStock(t, state, testProduct, testWh1).Equal(qty("50")), "stock intacto")
}

func TestEngine_Bulk_LineasInvalidasReportadasSinTocarElLedger(t *testing.T) {
	eng, state := newEngine(t)
	res, err := eng.BulkInbound(context.Background(), admin(), ledger.BulkInput{
		WarehouseID: testWh1,
		Reason:      entity.ReasonPurchase,
		Items: []ledger.BulkLine{
			{ProductID: testProduct, Quantity: qty("0")},
			{ProductID: "prod-fantasma", Quantity: qty("3")},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Len(t, res.Failed, 2)
	assert.Empty(t, state.txs)
}

// Lectura idempotente: consultar dos veces sin anexar en medio devuelve lo mismo.
func TestEngine_LecturaIdempotente(t *testing.T) {
	eng, state := newEngine(t)
	_, err := eng.RegisterInbound(context.Background(), admin(), ledger.InboundInput{
		ProductID: testProduct, WarehouseID: testWh1, Reason: entity.ReasonPurchase, Quantity: qty("12"),
	})
	require.NoError(t, err)

	a := currentStock(t, state, testProduct, testWh1)
	b := currentStock(t, state, testProduct, testWh1)
	assert.True(t, a.Equal(b))
}
