package usecase_test

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"

	"github.com/shopspring/decimal"
)

// =====================
// in-memory store（WithinTx はエラー時に状態を巻き戻す）
// =====================

type memState struct {
	seq        int64
	identities map[int64]model.Identity
	customers  map[int64]model.Customer
	products   map[int64]model.Product
	versions   map[int64]model.ProductVersion
	stocks     map[int64]model.Stock // key: product_version_id
	movements  []model.StockMovement
	carts      map[int64]model.Cart
	cartItems  map[int64]model.CartItem
	orders     map[int64]model.Order
	orderItems map[int64]model.OrderItem
	favorites  map[[2]int64]bool
	audits     []model.AuditLog

	suppliers         map[int64]model.Supplier
	brands            map[int64]model.Brand
	types             map[int64]model.ProductType
	categories        map[int64]model.ProductCategory
	productCategories map[int64][]int64
	attributes        map[int64]model.ProductAttribute
	attrValues        map[int64]model.ProductAttributeValue
	versionAttrs      map[[2]int64]bool

	// 監査ログ保存を失敗させる
	auditErr error
}

func (st *memState) clone() *memState {
	c := &memState{
		seq:        st.seq,
		identities: make(map[int64]model.Identity, len(st.identities)),
		customers:  make(map[int64]model.Customer, len(st.customers)),
		products:   make(map[int64]model.Product, len(st.products)),
		versions:   make(map[int64]model.ProductVersion, len(st.versions)),
		stocks:     make(map[int64]model.Stock, len(st.stocks)),
		movements:  append([]model.StockMovement(nil), st.movements...),
		carts:      make(map[int64]model.Cart, len(st.carts)),
		cartItems:  make(map[int64]model.CartItem, len(st.cartItems)),
		orders:     make(map[int64]model.Order, len(st.orders)),
		orderItems: make(map[int64]model.OrderItem, len(st.orderItems)),
		favorites:  make(map[[2]int64]bool, len(st.favorites)),
		audits:     append([]model.AuditLog(nil), st.audits...),
		auditErr:   st.auditErr,

		suppliers:         maps.Clone(st.suppliers),
		brands:            maps.Clone(st.brands),
		types:             maps.Clone(st.types),
		categories:        maps.Clone(st.categories),
		productCategories: maps.Clone(st.productCategories),
		attributes:        maps.Clone(st.attributes),
		attrValues:        maps.Clone(st.attrValues),
		versionAttrs:      maps.Clone(st.versionAttrs),
	}
	for k, v := range st.identities {
		c.identities[k] = v
	}
	for k, v := range st.customers {
		c.customers[k] = v
	}
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.versions {
		c.versions[k] = v
	}
	for k, v := range st.stocks {
		c.stocks[k] = v
	}
	for k, v := range st.carts {
		c.carts[k] = v
	}
	for k, v := range st.cartItems {
		c.cartItems[k] = v
	}
	for k, v := range st.orders {
		c.orders[k] = v
	}
	for k, v := range st.orderItems {
		c.orderItems[k] = v
	}
	for k, v := range st.favorites {
		c.favorites[k] = v
	}
	return c
}

type memStore struct {
	mu sync.Mutex
	st *memState
	// 呼び出し回数（Txが使われたことの確認用）
	txCalls int
}

func newMemStore() *memStore {
	return &memStore{st: &memState{
		identities: map[int64]model.Identity{},
		customers:  map[int64]model.Customer{},
		products:   map[int64]model.Product{},
		versions:   map[int64]model.ProductVersion{},
		stocks:     map[int64]model.Stock{},
		carts:      map[int64]model.Cart{},
		cartItems:  map[int64]model.CartItem{},
		orders:     map[int64]model.Order{},
		orderItems: map[int64]model.OrderItem{},
		favorites:  map[[2]int64]bool{},

		suppliers:         map[int64]model.Supplier{},
		brands:            map[int64]model.Brand{},
		types:             map[int64]model.ProductType{},
		categories:        map[int64]model.ProductCategory{},
		productCategories: map[int64][]int64{},
		attributes:        map[int64]model.ProductAttribute{},
		attrValues:        map[int64]model.ProductAttributeValue{},
		versionAttrs:      map[[2]int64]bool{},
	}}
}

func (st *memState) nextID() int64 {
	st.seq++
	return st.seq
}

func (s *memStore) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCalls++

	backup := s.st.clone()
	if err := fn(memRepos{st: s.st}); err != nil {
		*s.st = *backup
		return err
	}
	return nil
}

// Tx外から使うリポジトリ
func (s *memStore) repos() memRepos {
	return memRepos{st: s.st}
}

type memRepos struct{ st *memState }

func (r memRepos) Identities() repo.IdentityRepository  { return memIdentities(r) }
func (r memRepos) Customers() repo.CustomerRepository   { return memCustomers(r) }
func (r memRepos) Products() repo.ProductRepository     { return memProducts(r) }
func (r memRepos) Catalog() repo.CatalogRepository      { return memCatalog(r) }
func (r memRepos) Stocks() repo.StockRepository         { return memStocks(r) }
func (r memRepos) Carts() repo.CartRepository           { return memCarts(r) }
func (r memRepos) CartItems() repo.CartItemRepository   { return memCartItems(r) }
func (r memRepos) Orders() repo.OrderRepository         { return memOrders(r) }
func (r memRepos) OrderItems() repo.OrderItemRepository { return memOrderItems(r) }
func (r memRepos) AuditLogs() repo.AuditLogRepository   { return memAudits(r) }

// ---- identities

type memIdentities struct{ st *memState }

func (r memIdentities) Create(ctx context.Context, identity *model.Identity) error {
	for _, v := range r.st.identities {
		if v.Username == identity.Username || v.Email == identity.Email {
			return repo.ErrConflict
		}
	}
	identity.ID = r.st.nextID()
	identity.CreatedAt = time.Now()
	r.st.identities[identity.ID] = *identity
	return nil
}

func (r memIdentities) FindByID(ctx context.Context, identityID int64) (*model.Identity, error) {
	v, ok := r.st.identities[identityID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &v, nil
}

func (r memIdentities) FindByUsername(ctx context.Context, username string) (*model.Identity, error) {
	for _, v := range r.st.identities {
		if v.Username == username {
			v := v
			return &v, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r memIdentities) Update(ctx context.Context, identity *model.Identity) error {
	cur, ok := r.st.identities[identity.ID]
	if !ok {
		return repo.ErrNotFound
	}
	for id, v := range r.st.identities {
		if id != identity.ID && v.Email == identity.Email {
			return repo.ErrConflict
		}
	}
	cur.Email = identity.Email
	cur.FirstName = identity.FirstName
	cur.LastName = identity.LastName
	cur.IsActive = identity.IsActive
	cur.LastLoginAt = identity.LastLoginAt
	r.st.identities[identity.ID] = cur
	return nil
}

// ---- customers

type memCustomers struct{ st *memState }

func (r memCustomers) Create(ctx context.Context, customer *model.Customer) error {
	customer.ID = r.st.nextID()
	c := *customer
	c.Identity = model.Identity{}
	r.st.customers[c.ID] = c
	return nil
}

func (r memCustomers) withIdentity(c model.Customer) model.Customer {
	c.Identity = r.st.identities[c.IdentityID]
	return c
}

func (r memCustomers) FindByID(ctx context.Context, customerID int64) (model.Customer, error) {
	c, ok := r.st.customers[customerID]
	if !ok {
		return model.Customer{}, repo.ErrNotFound
	}
	return r.withIdentity(c), nil
}

func (r memCustomers) FindByIdentityID(ctx context.Context, identityID int64) (model.Customer, error) {
	for _, c := range r.st.customers {
		if c.IdentityID == identityID {
			return r.withIdentity(c), nil
		}
	}
	return model.Customer{}, repo.ErrNotFound
}

func (r memCustomers) Update(ctx context.Context, customer *model.Customer) error {
	c, ok := r.st.customers[customer.ID]
	if !ok {
		return repo.ErrNotFound
	}
	c.PhoneNumber = customer.PhoneNumber
	r.st.customers[c.ID] = c
	return nil
}

func (r memCustomers) UpdateStatus(ctx context.Context, customerID int64, status model.CustomerStatus) error {
	c, ok := r.st.customers[customerID]
	if !ok {
		return repo.ErrNotFound
	}
	c.Status = status
	r.st.customers[c.ID] = c
	return nil
}

// ---- products

type memProducts struct{ st *memState }

func (r memProducts) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.ProductVersion, int64, error) {
	out := []model.ProductVersion{}
	for _, v := range r.st.versions {
		if !v.IsActive {
			continue
		}
		if q.Q != "" && !strings.Contains(strings.ToLower(v.Name), strings.ToLower(q.Q)) {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	start := (q.Page - 1) * q.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + q.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r memProducts) FindVersionByID(ctx context.Context, versionID int64) (model.ProductVersion, error) {
	v, ok := r.st.versions[versionID]
	if !ok {
		return model.ProductVersion{}, repo.ErrNotFound
	}
	return v, nil
}

func (r memProducts) FindVersionWithStock(ctx context.Context, versionID int64) (model.ProductVersion, error) {
	v, ok := r.st.versions[versionID]
	if !ok {
		return model.ProductVersion{}, repo.ErrNotFound
	}
	if s, ok := r.st.stocks[versionID]; ok {
		v.Stock = &s
	}
	return v, nil
}

func (r memProducts) IncrementViewCount(ctx context.Context, versionID int64) error {
	v, ok := r.st.versions[versionID]
	if !ok {
		return repo.ErrNotFound
	}
	v.ViewCount++
	r.st.versions[versionID] = v
	return nil
}

func (r memProducts) FindProductByID(ctx context.Context, productID int64) (model.Product, error) {
	p, ok := r.st.products[productID]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r memProducts) CreateVersion(ctx context.Context, pv *model.ProductVersion) error {
	pv.ID = r.st.nextID()
	pv.CreatedAt = time.Now()
	if pv.Stock != nil {
		pv.Stock.ID = r.st.nextID()
		pv.Stock.ProductVersionID = pv.ID
		if pv.Stock.Unit == "" {
			pv.Stock.Unit = "pcs"
		}
		r.st.stocks[pv.ID] = *pv.Stock
	}
	v := *pv
	v.Stock = nil
	r.st.versions[v.ID] = v
	return nil
}

func (r memProducts) FindVersionForUpdate(ctx context.Context, versionID int64) (model.ProductVersion, error) {
	return r.FindVersionByID(ctx, versionID)
}

func (r memProducts) UpdateVersion(ctx context.Context, pv model.ProductVersion) error {
	v, ok := r.st.versions[pv.ID]
	if !ok {
		return repo.ErrNotFound
	}
	v.Name = pv.Name
	v.RegularPrice = pv.RegularPrice
	v.Discount = pv.Discount
	v.IsActive = pv.IsActive
	v.UpdatedAt = time.Now()
	r.st.versions[pv.ID] = v
	return nil
}

func (r memProducts) LinkAttributeValues(ctx context.Context, versionID int64, valueIDs []int64) error {
	for _, id := range valueIDs {
		k := [2]int64{versionID, id}
		if r.st.versionAttrs[k] {
			return repo.ErrConflict
		}
		r.st.versionAttrs[k] = true
	}
	return nil
}

func (r memProducts) ListVersionAttributes(ctx context.Context, versionID int64) ([]model.ProductAttributeValue, error) {
	out := []model.ProductAttributeValue{}
	for k := range r.st.versionAttrs {
		if k[0] != versionID {
			continue
		}
		v := r.st.attrValues[k[1]]
		a := r.st.attributes[v.AttributeID]
		v.Attribute = &a
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AttributeID != out[j].AttributeID {
			return out[i].AttributeID < out[j].AttributeID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memProducts) AddFavorite(ctx context.Context, customerID int64, versionID int64) error {
	r.st.favorites[[2]int64{customerID, versionID}] = true
	return nil
}

func (r memProducts) RemoveFavorite(ctx context.Context, customerID int64, versionID int64) error {
	k := [2]int64{customerID, versionID}
	if !r.st.favorites[k] {
		return repo.ErrNotFound
	}
	delete(r.st.favorites, k)
	return nil
}

func (r memProducts) ListFavorites(ctx context.Context, customerID int64) ([]model.ProductVersion, error) {
	out := []model.ProductVersion{}
	for k := range r.st.favorites {
		if k[0] == customerID {
			out = append(out, r.st.versions[k[1]])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- stocks

type memStocks struct{ st *memState }

func (r memStocks) Create(ctx context.Context, stock *model.Stock) error {
	if _, ok := r.st.stocks[stock.ProductVersionID]; ok {
		return repo.ErrConflict
	}
	stock.ID = r.st.nextID()
	r.st.stocks[stock.ProductVersionID] = *stock
	return nil
}

func (r memStocks) FindByProductVersionID(ctx context.Context, versionID int64) (model.Stock, error) {
	s, ok := r.st.stocks[versionID]
	if !ok {
		return model.Stock{}, repo.ErrNotFound
	}
	return s, nil
}

func (r memStocks) FindByProductVersionIDForUpdate(ctx context.Context, versionID int64) (model.Stock, error) {
	return r.FindByProductVersionID(ctx, versionID)
}

func (r memStocks) Save(ctx context.Context, stock model.Stock) error {
	for k, s := range r.st.stocks {
		if s.ID == stock.ID {
			s.CurrentAmount = stock.CurrentAmount
			s.ItemsSold = stock.ItemsSold
			r.st.stocks[k] = s
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r memStocks) SellIfEnough(ctx context.Context, versionID int64, qty int64) (bool, error) {
	s, ok := r.st.stocks[versionID]
	if !ok || s.CurrentAmount < qty {
		return false, nil
	}
	s.CurrentAmount -= qty
	s.ItemsSold += qty
	r.st.stocks[versionID] = s
	return true, nil
}

func (r memStocks) Restore(ctx context.Context, versionID int64, qty int64) error {
	s, ok := r.st.stocks[versionID]
	if !ok || s.ItemsSold < qty {
		return repo.ErrNotFound
	}
	s.CurrentAmount += qty
	s.ItemsSold -= qty
	r.st.stocks[versionID] = s
	return nil
}

func (r memStocks) CreateMovement(ctx context.Context, movement model.StockMovement) error {
	movement.ID = r.st.nextID()
	r.st.movements = append(r.st.movements, movement)
	return nil
}

// ---- carts

type memCarts struct{ st *memState }

func (r memCarts) Create(ctx context.Context, cart *model.Cart) error {
	for _, c := range r.st.carts {
		if c.CustomerID == cart.CustomerID {
			return repo.ErrConflict
		}
	}
	cart.ID = r.st.nextID()
	c := *cart
	c.Items = nil
	r.st.carts[c.ID] = c
	return nil
}

func (r memCarts) find(customerID int64) (model.Cart, bool) {
	for _, c := range r.st.carts {
		if c.CustomerID == customerID {
			return c, true
		}
	}
	return model.Cart{}, false
}

func (r memCarts) FindByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	c, ok := r.find(customerID)
	if !ok {
		return model.Cart{}, repo.ErrNotFound
	}
	items, _ := memCartItems(r).ListByCartID(ctx, c.ID)
	c.Items = items
	return c, nil
}

func (r memCarts) FindByCustomerIDForUpdate(ctx context.Context, customerID int64) (model.Cart, error) {
	c, ok := r.find(customerID)
	if !ok {
		return model.Cart{}, repo.ErrNotFound
	}
	return c, nil
}

func (r memCarts) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	c, ok := r.st.carts[cartID]
	if !ok {
		return repo.ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	r.st.carts[cartID] = c
	return nil
}

func (r memCarts) Touch(ctx context.Context, cartID int64) error {
	c, ok := r.st.carts[cartID]
	if !ok {
		return repo.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	r.st.carts[cartID] = c
	return nil
}

func (r memCarts) Clear(ctx context.Context, cartID int64) error {
	for id, it := range r.st.cartItems {
		if it.CartID == cartID {
			delete(r.st.cartItems, id)
		}
	}
	return r.UpdateStatus(ctx, cartID, model.CartStatusEmpty)
}

// ---- cart items

type memCartItems struct{ st *memState }

func (r memCartItems) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	out := []model.CartItem{}
	for _, it := range r.st.cartItems {
		if it.CartID == cartID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memCartItems) ListMarkedByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	all, _ := r.ListByCartID(ctx, cartID)
	out := []model.CartItem{}
	for _, it := range all {
		if it.MarkedForOrder {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r memCartItems) FindByCartAndVersion(ctx context.Context, cartID int64, versionID int64) (model.CartItem, bool, error) {
	for _, it := range r.st.cartItems {
		if it.CartID == cartID && it.ProductVersionID == versionID {
			return it, true, nil
		}
	}
	return model.CartItem{}, false, nil
}

func (r memCartItems) Upsert(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	if existing, ok, _ := r.FindByCartAndVersion(ctx, item.CartID, item.ProductVersionID); ok {
		existing.Quantity += item.Quantity
		r.st.cartItems[existing.ID] = existing
		return existing, nil
	}
	item.ID = r.st.nextID()
	r.st.cartItems[item.ID] = item
	return item, nil
}

func (r memCartItems) UpdateItem(ctx context.Context, cartItemID int64, qty int64, marked bool) error {
	it, ok := r.st.cartItems[cartItemID]
	if !ok {
		return repo.ErrNotFound
	}
	it.Quantity = qty
	it.MarkedForOrder = marked
	r.st.cartItems[cartItemID] = it
	return nil
}

func (r memCartItems) DeleteByID(ctx context.Context, cartItemID int64) error {
	if _, ok := r.st.cartItems[cartItemID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.st.cartItems, cartItemID)
	return nil
}

func (r memCartItems) DeleteByIDs(ctx context.Context, cartItemIDs []int64) error {
	for _, id := range cartItemIDs {
		delete(r.st.cartItems, id)
	}
	return nil
}

func (r memCartItems) CountByCartID(ctx context.Context, cartID int64) (int64, error) {
	items, _ := r.ListByCartID(ctx, cartID)
	return int64(len(items)), nil
}

func (r memCartItems) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	it, ok := r.st.cartItems[cartItemID]
	if !ok {
		return model.CartItem{}, repo.ErrNotFound
	}
	return it, nil
}

func (r memCartItems) IsOwnedByCustomer(ctx context.Context, cartItemID int64, customerID int64) (bool, error) {
	it, ok := r.st.cartItems[cartItemID]
	if !ok {
		return false, nil
	}
	return r.st.carts[it.CartID].CustomerID == customerID, nil
}

// ---- orders

type memOrders struct{ st *memState }

func (r memOrders) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	o, ok := r.st.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (r memOrders) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	return r.FindByID(ctx, orderID)
}

func (r memOrders) FindPendingByCustomerID(ctx context.Context, customerID int64) (model.Order, bool, error) {
	for _, o := range r.st.orders {
		if o.CustomerID == customerID && o.Status == model.OrderStatusPending {
			return o, true, nil
		}
	}
	return model.Order{}, false, nil
}

func (r memOrders) list(match func(o model.Order) bool, page int, limit int) ([]model.Order, int64) {
	out := []model.Order{}
	for _, o := range r.st.orders {
		if match(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := int64(len(out))
	start := (page - 1) * limit
	if start > len(out) {
		start = len(out)
	}
	end := start + limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total
}

func (r memOrders) ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error) {
	out, total := r.list(func(o model.Order) bool { return o.CustomerID == customerID }, page, limit)
	return out, total, nil
}

func (r memOrders) Create(ctx context.Context, order *model.Order) error {
	order.ID = r.st.nextID()
	order.CreatedAt = time.Now()
	o := *order
	o.Items = nil
	r.st.orders[o.ID] = o
	return nil
}

func (r memOrders) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	o, ok := r.st.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	r.st.orders[orderID] = o
	return nil
}

func (r memOrders) UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	o, ok := r.st.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.DiscountedSum = total
	r.st.orders[orderID] = o
	return nil
}

func (r memOrders) ListSeller(ctx context.Context, f repo.SellerOrderListFilter) ([]model.Order, int64, error) {
	out, total := r.list(func(o model.Order) bool {
		if f.Status != "" && string(o.Status) != f.Status {
			return false
		}
		if f.CustomerID != nil && o.CustomerID != *f.CustomerID {
			return false
		}
		return true
	}, f.Page, f.Limit)
	return out, total, nil
}

// ---- order items

type memOrderItems struct{ st *memState }

func (r memOrderItems) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	for i := range items {
		items[i].ID = r.st.nextID()
		items[i].OrderID = orderID
		r.st.orderItems[items[i].ID] = items[i]
	}
	return nil
}

func (r memOrderItems) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	out := []model.OrderItem{}
	for _, it := range r.st.orderItems {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memOrderItems) MarkCanceled(ctx context.Context, orderItemIDs []int64) error {
	for _, id := range orderItemIDs {
		it := r.st.orderItems[id]
		it.IsCanceled = true
		r.st.orderItems[id] = it
	}
	return nil
}

// ---- audit logs

type memAudits struct{ st *memState }

func (r memAudits) Create(ctx context.Context, log model.AuditLog) error {
	if r.st.auditErr != nil {
		return r.st.auditErr
	}
	log.ID = r.st.nextID()
	r.st.audits = append(r.st.audits, log)
	return nil
}

func (r memAudits) List(ctx context.Context, f repo.AuditLogListFilter) ([]model.AuditLog, int64, error) {
	out := []model.AuditLog{}
	for i := len(r.st.audits) - 1; i >= 0; i-- {
		l := r.st.audits[i]
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		if f.ResourceType != "" && l.ResourceType != f.ResourceType {
			continue
		}
		if f.ResourceID != nil && l.ResourceID != *f.ResourceID {
			continue
		}
		if f.ActorIdentityID != nil && l.ActorIdentityID != *f.ActorIdentityID {
			continue
		}
		out = append(out, l)
	}
	total := int64(len(out))
	start := (f.Page - 1) * f.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + f.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

// =====================
// seed helpers
// =====================

type seedVersion struct {
	Name     string
	SKU      string
	Price    string
	Discount int
	Active   bool
	Stock    int64
}

func (s *memStore) seedVersion(v seedVersion) int64 {
	st := s.st
	p := model.Product{ID: st.nextID(), WebID: "web-" + v.SKU, Slug: strings.ToLower(v.SKU), Name: v.Name, IsActive: true}
	st.products[p.ID] = p

	pv := model.ProductVersion{
		ID:           st.nextID(),
		ProductID:    p.ID,
		SKU:          v.SKU,
		Name:         v.Name,
		RegularPrice: decimal.RequireFromString(v.Price),
		Discount:     v.Discount,
		IsActive:     v.Active,
	}
	st.versions[pv.ID] = pv
	st.stocks[pv.ID] = model.Stock{
		ID:               st.nextID(),
		ProductVersionID: pv.ID,
		Unit:             "pcs",
		InitialAmount:    v.Stock,
		CurrentAmount:    v.Stock,
	}
	return pv.ID
}

// 顧客と空カートを作って customer_id を返す
func (s *memStore) seedCustomer(username string) int64 {
	st := s.st
	identity := model.Identity{ID: st.nextID(), Username: username, Email: username + "@example.com", Role: model.RoleCustomer, IsActive: true}
	st.identities[identity.ID] = identity
	c := model.Customer{ID: st.nextID(), IdentityID: identity.ID, Status: model.CustomerStatusActive}
	st.customers[c.ID] = c
	cart := model.Cart{ID: st.nextID(), CustomerID: c.ID, Status: model.CartStatusEmpty}
	st.carts[cart.ID] = cart
	return c.ID
}

func (s *memStore) stock(versionID int64) model.Stock {
	return s.st.stocks[versionID]
}

func (s *memStore) cart(customerID int64) model.Cart {
	c, _ := s.repos().Carts().FindByCustomerID(context.Background(), customerID)
	return c
}
