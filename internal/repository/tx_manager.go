package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Identities() IdentityRepository
	Customers() CustomerRepository
	Products() ProductRepository
	Catalog() CatalogRepository
	Stocks() StockRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
