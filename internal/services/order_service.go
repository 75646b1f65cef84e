package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tldev36/ECommerce-sub001/internal/domain"
	rabbit "github.com/tldev36/ECommerce-sub001/internal/infra/rabbitmq"
	"github.com/tldev36/ECommerce-sub001/internal/repository"
)

const (
	// orderCodeAttempts bounds retries when the generated code collides
	// with the unique index.
	orderCodeAttempts = 3

	warmupCacheTTL = 5 * time.Minute

	PaymentMethodCOD = "cod"
)

// UserOrdersCacheKey is the redis key for a user's order listing. Shared by
// the handler cache and the write-path invalidation.
func UserOrdersCacheKey(userID uint64) string {
	return fmt.Sprintf("orders:user:%d", userID)
}

type CheckoutItem struct {
	ProductID uint64
	Quantity  int64
}

type CheckoutInput struct {
	UserID          *uint64
	PaymentMethod   string
	CouponCode      string
	ShippingFee     int64
	ShippingName    string
	ShippingPhone   string
	ShippingAddress string
	ShippingCity    string
	Items           []CheckoutItem
}

// OrderService handles checkout and order reads. Stock is deducted here, at
// creation, inside the same transaction that persists the order; the
// lifecycle manager's cancel-restore is balanced against this point.
type OrderService struct {
	store       repository.TxStore
	repo        repository.OrderRepository
	publisher   rabbit.PublisherInterface
	redisClient *redis.Client
	isDuplicate func(error) bool
	txTimeout   time.Duration
}

func NewOrderService(store repository.TxStore, repo repository.OrderRepository, pub rabbit.PublisherInterface, isDuplicate func(error) bool) *OrderService {
	if isDuplicate == nil {
		isDuplicate = func(error) bool { return false }
	}
	return &OrderService{
		store:       store,
		repo:        repo,
		publisher:   pub,
		isDuplicate: isDuplicate,
		txTimeout:   defaultTxTimeout,
	}
}

func (s *OrderService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// Checkout creates an order with line items frozen at current product
// prices and deducts stock for every line. COD orders start pending, other
// payment methods start waiting_payment.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrEmptyOrder
		}
	}

	status := domain.StatusWaitingPayment
	if strings.EqualFold(in.PaymentMethod, PaymentMethodCOD) {
		status = domain.StatusPending
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var (
		created  *domain.Order
		lowStock []domain.LowStockEvent
	)
	err := s.createWithCodeRetry(ctx, func(tx repository.OrderTx, code string) error {
		lowStock = lowStock[:0]

		order := &domain.Order{
			Code:            code,
			UserID:          in.UserID,
			Status:          status,
			PaymentStatus:   domain.PaymentUnpaid,
			PaymentMethod:   strings.ToLower(in.PaymentMethod),
			ShippingFee:     in.ShippingFee,
			ShippingName:    in.ShippingName,
			ShippingPhone:   in.ShippingPhone,
			ShippingAddress: in.ShippingAddress,
			ShippingCity:    in.ShippingCity,
		}

		var itemTotal int64
		for _, item := range in.Items {
			product, err := tx.LockProduct(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrProductNotFound
			}
			if err := tx.DeductStock(product.ID, item.Quantity); err != nil {
				return err
			}

			remaining := product.StockQuantity - item.Quantity
			if remaining < product.MinStockLevel {
				lowStock = append(lowStock, domain.LowStockEvent{
					ProductID:     product.ID,
					StockQuantity: remaining,
					MinStockLevel: product.MinStockLevel,
				})
			}

			subtotal := domain.LineSubtotal(item.Quantity, product.Price, product.DiscountPercent)
			itemTotal += subtotal
			order.Items = append(order.Items, domain.OrderItem{
				ProductID:       product.ID,
				Quantity:        item.Quantity,
				UnitPrice:       product.Price,
				DiscountPercent: product.DiscountPercent,
				Subtotal:        subtotal,
			})
		}

		if in.CouponCode != "" {
			coupon, err := tx.FindCoupon(in.CouponCode)
			if err != nil {
				return err
			}
			if coupon == nil || !coupon.Applicable(itemTotal, time.Now()) {
				return domain.ErrCouponInvalid
			}
			order.CouponDiscount = coupon.DiscountAmount
			if order.CouponDiscount > itemTotal {
				order.CouponDiscount = itemTotal
			}
		}

		order.Total = itemTotal - order.CouponDiscount + order.ShippingFee
		if err := tx.CreateOrder(order); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.afterCheckout(context.Background(), created, lowStock)
	return created, nil
}

// createWithCodeRetry runs fn in a transaction, regenerating the order code
// and retrying when the unique index rejects it.
func (s *OrderService) createWithCodeRetry(ctx context.Context, fn func(tx repository.OrderTx, code string) error) error {
	var err error
	for attempt := 0; attempt < orderCodeAttempts; attempt++ {
		code := newOrderCode()
		err = s.store.InTx(ctx, func(tx repository.OrderTx) error {
			return fn(tx, code)
		})
		if err == nil || !s.isDuplicate(err) {
			return err
		}
		log.Printf("order code %s collided, retrying", code)
	}
	return err
}

func newOrderCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD%s-%s", time.Now().Format("20060102150405"), suffix)
}

func (s *OrderService) afterCheckout(ctx context.Context, order *domain.Order, lowStock []domain.LowStockEvent) {
	if s.redisClient != nil && order.UserID != nil {
		s.redisClient.Del(ctx, UserOrdersCacheKey(*order.UserID))
	}

	evt := domain.OrderCreatedEvent{
		OrderID:   order.ID,
		Code:      order.Code,
		UserID:    order.UserID,
		Total:     order.Total,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, "order.created", evt); err != nil {
		log.Printf("failed to publish order.created for order %d: %v", order.ID, err)
	}
	for _, ls := range lowStock {
		if err := s.publisher.Publish(ctx, "product.low_stock", ls); err != nil {
			log.Printf("failed to publish product.low_stock for product %d: %v", ls.ProductID, err)
		}
	}
}

func (s *OrderService) GetOrderByID(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) GetOrderByCode(ctx context.Context, code string) (*domain.Order, error) {
	o, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) GetOrdersByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	return s.repo.FindByUser(ctx, userID)
}

// WarmupUserOrderCache preloads the order listings of hot users in
// parallel. Best effort: a failed user aborts the group and is reported to
// the caller, already-cached entries are simply overwritten.
func (s *OrderService) WarmupUserOrderCache(ctx context.Context, userIDs []uint64) error {
	if s.redisClient == nil {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, id := range userIDs {
		id := id
		g.Go(func() error {
			orders, err := s.repo.FindByUser(ctx, id)
			if err != nil {
				return fmt.Errorf("warmup user %d: %w", id, err)
			}
			data, err := json.Marshal(orders)
			if err != nil {
				return err
			}
			return s.redisClient.Set(ctx, UserOrdersCacheKey(id), data, warmupCacheTTL).Err()
		})
	}
	return g.Wait()
}
