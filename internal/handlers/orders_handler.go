package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/imrishuroy/go-pickup-orders/internal/aws"
	"github.com/imrishuroy/go-pickup-orders/internal/orders"
	"github.com/imrishuroy/go-pickup-orders/internal/validation"
)

// HandlerConfig groups dependencies for the orders handlers.
type HandlerConfig struct {
	DynamoDBClient aws.DynamoDBAPI
	SQSClient      aws.SQSAPI
	OrdersTable    string
	EventsQueueURL string // optional; empty disables order-created events

	// OrderExpiration is how long after pickup an order stays stored; it
	// also bounds how far into the past the default active window reaches.
	OrderExpiration time.Duration
	// OrderUntilActive bounds how far into the future the default active
	// window reaches.
	OrderUntilActive time.Duration

	// Now is the clock used for validation and window computation; nil
	// means wall clock.
	Now func() time.Time
}

// RegisterOrdersRoutes registers routes for the order API.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	v := validation.New(now)
	store := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable, cfg.OrderExpiration)

	var publisher *aws.Publisher
	if cfg.EventsQueueURL != "" && cfg.SQSClient != nil {
		publisher = aws.NewPublisher(cfg.SQSClient, cfg.EventsQueueURL)
	}

	r.POST("/orders", createOrder(v, store, publisher))
	r.GET("/orders", listActiveOrders(store, now, cfg.OrderExpiration, cfg.OrderUntilActive))
	r.GET("/orders/:orderId", getOrder(store))
}

func createOrder(v *validation.Validator, store *orders.Store, publisher *aws.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.KindInvalidJSON})
			return
		}
		order, verr := validation.DecodeOrder(body)
		if verr != nil {
			writeValidationError(c, verr)
			return
		}
		if verr := v.Validate(order); verr != nil {
			writeValidationError(c, verr)
			return
		}

		// orderType is validation-only; strip it before persistence so it
		// is neither stored nor echoed back.
		order.OrderType = ""

		if err := store.Create(ctx, *order); err != nil {
			if errors.Is(err, orders.ErrConflict) {
				c.JSON(http.StatusConflict, gin.H{"error": "already_exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failure"})
			return
		}

		if publisher != nil {
			// Best-effort: the order is already durable, a lost event only
			// costs a metric.
			pickup, _ := orders.ParsePickupTime(order.PickupTime)
			ev := aws.OrderCreatedEvent{
				OrderID:       order.OrderID,
				PickupTimeTs:  pickup.Unix(),
				CorrelationID: c.GetHeader(requestIDHeader),
			}
			if err := publisher.SendOrderCreated(ctx, ev); err != nil {
				log.Printf("order-created event failed for order=%s: %v", order.OrderID, err)
			}
		}

		c.JSON(http.StatusCreated, order)
	}
}

func listActiveOrders(store *orders.Store, now func() time.Time, expiration, untilActive time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		at := now().UTC()
		start := at.Add(-expiration)
		end := at.Add(untilActive)

		active, err := store.ListActive(c.Request.Context(), start, end)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failure"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"updatedAt": at.Format(time.RFC3339Nano),
			"orders":    active,
		})
	}
}

func getOrder(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := store.Get(c.Request.Context(), c.Param("orderId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failure"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func writeValidationError(c *gin.Context, verr *validation.Error) {
	body := gin.H{"error": verr.Kind}
	if verr.Details != "" {
		body["details"] = verr.Details
	}
	c.JSON(http.StatusBadRequest, body)
}
