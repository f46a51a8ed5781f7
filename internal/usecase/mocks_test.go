package usecase_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
	"github.com/parvejme24/bistro-boss-server/internal/infra/gateway"
	repo "github.com/parvejme24/bistro-boss-server/internal/repository"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	carts      *CartRepoMock
	cartItems  *CartItemRepoMock
	menus      *MenuRepoMock
	methods    *ShippingMethodRepoMock
	sequences  *SequenceRepoMock
}

func newTxReposMock() *TxReposMock {
	return &TxReposMock{
		orders:     new(OrderRepoMock),
		orderItems: new(OrderItemRepoMock),
		carts:      new(CartRepoMock),
		cartItems:  new(CartItemRepoMock),
		menus:      new(MenuRepoMock),
		methods:    new(ShippingMethodRepoMock),
		sequences:  new(SequenceRepoMock),
	}
}

func (r *TxReposMock) Orders() repo.OrderRepository                   { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository           { return r.orderItems }
func (r *TxReposMock) Carts() repo.CartRepository                     { return r.carts }
func (r *TxReposMock) CartItems() repo.CartItemRepository             { return r.cartItems }
func (r *TxReposMock) Menus() repo.MenuRepository                     { return r.menus }
func (r *TxReposMock) ShippingMethods() repo.ShippingMethodRepository { return r.methods }
func (r *TxReposMock) Sequences() repo.OrderSequenceRepository        { return r.sequences }

var _ repo.TxRepos = (*TxReposMock)(nil)

// =====================
// Repository mocks（衝突回避の命名）
// =====================

type MenuRepoMock struct{ mock.Mock }

func (m *MenuRepoMock) FindByID(ctx context.Context, menuID int64) (model.Menu, error) {
	args := m.Called(ctx, menuID)
	menu, _ := args.Get(0).(model.Menu)
	return menu, args.Error(1)
}

func (m *MenuRepoMock) ListActive(ctx context.Context) ([]model.Menu, error) {
	args := m.Called(ctx)
	menus, _ := args.Get(0).([]model.Menu)
	return menus, args.Error(1)
}

func (m *MenuRepoMock) Create(ctx context.Context, menu model.Menu) (int64, error) {
	args := m.Called(ctx, menu)
	return args.Get(0).(int64), args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	cart, _ := args.Get(0).(model.Cart)
	return cart, args.Error(1)
}

func (m *CartRepoMock) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	cart, _ := args.Get(0).(model.Cart)
	return cart, args.Error(1)
}

func (m *CartRepoMock) Save(ctx context.Context, cart model.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *CartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByCartAndMenu(ctx context.Context, cartID int64, menuID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartID, menuID)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartItemRepoMock) Create(ctx context.Context, item model.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64, lineTotal decimal.Decimal) error {
	args := m.Called(ctx, cartItemID, qty, lineTotal)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

type ShippingZoneRepoMock struct{ mock.Mock }

func (m *ShippingZoneRepoMock) Create(ctx context.Context, z model.ShippingZone) (int64, error) {
	args := m.Called(ctx, z)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ShippingZoneRepoMock) FindByID(ctx context.Context, zoneID int64) (model.ShippingZone, error) {
	args := m.Called(ctx, zoneID)
	z, _ := args.Get(0).(model.ShippingZone)
	return z, args.Error(1)
}

func (m *ShippingZoneRepoMock) FindByName(ctx context.Context, name string) (model.ShippingZone, bool, error) {
	args := m.Called(ctx, name)
	z, _ := args.Get(0).(model.ShippingZone)
	return z, args.Bool(1), args.Error(2)
}

func (m *ShippingZoneRepoMock) ListActive(ctx context.Context) ([]model.ShippingZone, error) {
	args := m.Called(ctx)
	zones, _ := args.Get(0).([]model.ShippingZone)
	return zones, args.Error(1)
}

type ShippingMethodRepoMock struct{ mock.Mock }

func (m *ShippingMethodRepoMock) Create(ctx context.Context, sm model.ShippingMethod) (int64, error) {
	args := m.Called(ctx, sm)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ShippingMethodRepoMock) FindByID(ctx context.Context, methodID int64) (model.ShippingMethod, error) {
	args := m.Called(ctx, methodID)
	sm, _ := args.Get(0).(model.ShippingMethod)
	return sm, args.Error(1)
}

func (m *ShippingMethodRepoMock) FindByZoneAndName(ctx context.Context, zoneID int64, name string) (model.ShippingMethod, bool, error) {
	args := m.Called(ctx, zoneID, name)
	sm, _ := args.Get(0).(model.ShippingMethod)
	return sm, args.Bool(1), args.Error(2)
}

func (m *ShippingMethodRepoMock) ListActiveByZoneIDs(ctx context.Context, zoneIDs []int64) ([]model.ShippingMethod, error) {
	args := m.Called(ctx, zoneIDs)
	methods, _ := args.Get(0).([]model.ShippingMethod)
	return methods, args.Error(1)
}

func (m *ShippingMethodRepoMock) ListAll(ctx context.Context) ([]model.ShippingMethod, error) {
	args := m.Called(ctx)
	methods, _ := args.Get(0).([]model.ShippingMethod)
	return methods, args.Error(1)
}

func (m *ShippingMethodRepoMock) Save(ctx context.Context, sm model.ShippingMethod) error {
	args := m.Called(ctx, sm)
	return args.Error(0)
}

func (m *ShippingMethodRepoMock) Delete(ctx context.Context, methodID int64) error {
	args := m.Called(ctx, methodID)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByTransactionID(ctx context.Context, tranID string) (model.Order, error) {
	args := m.Called(ctx, tranID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByTransactionIDForUpdate(ctx context.Context, tranID string) (model.Order, error) {
	args := m.Called(ctx, tranID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) Save(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) StatsSince(ctx context.Context, since time.Time) (repo.OrderStats, error) {
	args := m.Called(ctx, since)
	stats, _ := args.Get(0).(repo.OrderStats)
	return stats, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

type SequenceRepoMock struct{ mock.Mock }

func (m *SequenceRepoMock) Next(ctx context.Context, day string) (int64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(int64), args.Error(1)
}

type AdminConfigRepoMock struct{ mock.Mock }

func (m *AdminConfigRepoMock) GetOrCreate(ctx context.Context) (model.AdminConfig, error) {
	args := m.Called(ctx)
	cfg, _ := args.Get(0).(model.AdminConfig)
	return cfg, args.Error(1)
}

func (m *AdminConfigRepoMock) Save(ctx context.Context, cfg model.AdminConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

// =====================
// Gateway mocks
// =====================

type SessionCreatorMock struct{ mock.Mock }

func (m *SessionCreatorMock) CreateSession(ctx context.Context, in gateway.SessionInput) (gateway.SessionResult, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(gateway.SessionResult)
	return out, args.Error(1)
}

type ValidatorMock struct{ mock.Mock }

func (m *ValidatorMock) ValidatePayment(ctx context.Context, valID, amount, currency string) (gateway.ValidationResult, error) {
	args := m.Called(ctx, valID, amount, currency)
	out, _ := args.Get(0).(gateway.ValidationResult)
	return out, args.Error(1)
}
