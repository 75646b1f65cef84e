package services

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/tldev36/ECommerce-sub001/internal/domain"
	"github.com/tldev36/ECommerce-sub001/internal/infra"
	rabbit "github.com/tldev36/ECommerce-sub001/internal/infra/rabbitmq"
	"github.com/tldev36/ECommerce-sub001/internal/repository"
)

const defaultTxTimeout = 5 * time.Second

// Actor is who requests a transition. UserID is only consulted for
// RoleCustomer ownership checks.
type Actor struct {
	Role   domain.Role
	UserID uint64
}

// LifecycleService is the order lifecycle manager: it validates requested
// status transitions and applies their side effects atomically with the
// status write.
type LifecycleService struct {
	store       repository.TxStore
	publisher   rabbit.PublisherInterface
	shipping    infra.ShippingClientInterface
	redisClient *redis.Client
	txTimeout   time.Duration
}

func NewLifecycleService(store repository.TxStore, pub rabbit.PublisherInterface, shipping infra.ShippingClientInterface) *LifecycleService {
	return &LifecycleService{
		store:     store,
		publisher: pub,
		shipping:  shipping,
		txTimeout: defaultTxTimeout,
	}
}

func (s *LifecycleService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// Transition moves an order to target on behalf of actor.
//
// The read of the order and its items, every stock mutation, and the status
// write happen inside one transaction with the order row locked for update,
// so two concurrent requests for the same order serialize and the second
// one observes the first one's status. Requesting the status the order is
// already in is a no-op success; in particular a repeated cancellation
// never credits stock twice.
func (s *LifecycleService) Transition(ctx context.Context, orderID uint64, target domain.OrderStatus, actor Actor) (*domain.Order, error) {
	if _, err := domain.ParseStatus(string(target)); err != nil {
		return nil, domain.ErrInvalidStatus
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var (
		updated  *domain.Order
		previous domain.OrderStatus
		changed  bool
	)
	err := s.store.InTx(ctx, func(tx repository.OrderTx) error {
		order, err := tx.LockOrder(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if actor.Role == domain.RoleCustomer && !order.IsOwnedBy(actor.UserID) {
			return domain.ErrForbidden
		}
		if order.Status == target {
			updated = order
			return nil
		}
		if !domain.CanTransition(order.Status, target, actor.Role) {
			return domain.ErrInvalidTransition
		}

		previous = order.Status
		if err := s.applySideEffects(tx, order, target); err != nil {
			return err
		}
		order.Status = target
		if err := tx.SaveOrder(order); err != nil {
			return err
		}
		updated = order
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		go s.afterTransition(context.Background(), updated, previous)
	}
	return updated, nil
}

// applySideEffects runs the per-target mutations mandated by the policy.
// Called with the order row already locked and order.Status still holding
// the previous value.
func (s *LifecycleService) applySideEffects(tx repository.OrderTx, order *domain.Order, target domain.OrderStatus) error {
	switch target {
	case domain.StatusCancelled:
		// Stock was deducted at creation, so every live order holds its
		// stock and the restore is balanced.
		for _, item := range order.Items {
			if err := tx.RestoreStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if order.PaymentStatus == domain.PaymentPaid {
			order.PaymentStatus = domain.PaymentUnpaid
		}
	case domain.StatusCompleted:
		order.PaymentStatus = domain.PaymentPaid
		now := time.Now()
		order.CompletedAt = &now
	case domain.StatusPending:
		// Only reachable from waiting_payment, i.e. payment confirmed.
		if order.Status == domain.StatusWaitingPayment {
			order.PaymentStatus = domain.PaymentPaid
		}
	}
	return nil
}

func (s *LifecycleService) afterTransition(ctx context.Context, order *domain.Order, from domain.OrderStatus) {
	s.invalidateUserCache(ctx, order.UserID)

	evt := domain.OrderStatusChangedEvent{
		OrderID:       order.ID,
		Code:          order.Code,
		From:          from,
		To:            order.Status,
		PaymentStatus: order.PaymentStatus,
		ChangedAt:     time.Now(),
	}
	if err := s.publisher.Publish(ctx, "order.status_changed", evt); err != nil {
		log.Printf("failed to publish order.status_changed for order %d: %v", order.ID, err)
	}

	// Shipment registration is informational only; the provider is never
	// authoritative over the state machine.
	if order.Status == domain.StatusShipping && s.shipping != nil {
		if _, err := s.shipping.CreateShipment(ctx, order); err != nil {
			log.Printf("failed to register shipment for order %d: %v", order.ID, err)
		}
	}
}

func (s *LifecycleService) invalidateUserCache(ctx context.Context, userID *uint64) {
	if s.redisClient == nil || userID == nil {
		return
	}
	s.redisClient.Del(ctx, UserOrdersCacheKey(*userID))
}
