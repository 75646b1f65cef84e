package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	httpctrl "github.com/tldev36/ECommerce-sub001/internal/controllers/http"
	"github.com/tldev36/ECommerce-sub001/internal/infra"
	mmysql "github.com/tldev36/ECommerce-sub001/internal/infra/mysql"
	"github.com/tldev36/ECommerce-sub001/internal/infra/rabbitmq"
	mysqlrepo "github.com/tldev36/ECommerce-sub001/internal/repository/mysql"
	"github.com/tldev36/ECommerce-sub001/internal/services"
)

func main() {
	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1000)
	sqlDB.SetMaxIdleConns(200)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	store := mysqlrepo.NewTxStore(db)
	repo := mysqlrepo.NewOrderRepository(db)

	publisher, err := rabbitmq.NewPublisher(os.Getenv("RABBITMQ_URL"), "order.exchange")
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	shippingClient := infra.NewShippingClient(os.Getenv("SHIPPING_PROVIDER_URL"), 2*time.Second)

	orders := services.NewOrderService(store, repo, publisher, mysqlrepo.IsDuplicateEntry)
	lifecycle := services.NewLifecycleService(store, publisher, shippingClient)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         os.Getenv("REDIS_HOST") + ":6379",
		DB:           0,
		PoolSize:     200,
		MinIdleConns: 20,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	orders.SetRedisClient(redisClient)
	lifecycle.SetRedisClient(redisClient)

	ctx := context.Background()
	go func() {
		time.Sleep(5 * time.Second)
		if err := orders.WarmupUserOrderCache(ctx, []uint64{1, 2}); err != nil {
			log.Printf("Failed to warm up cache: %v", err)
		} else {
			log.Println("Cache warmed up successfully")
		}
	}()

	handler := httpctrl.NewHandler(orders, lifecycle, redisClient)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting order service on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
