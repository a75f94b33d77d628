package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "stockroom/internal/adapters/web"
	"stockroom/internal/app"
	"stockroom/internal/core"
	"stockroom/internal/db"
	"stockroom/internal/fulfillment"
	"stockroom/internal/ordersync"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	productService := core.NewProductService(pool)
	customerService := core.NewCustomerService(pool)
	orderService := core.NewOrderService(pool)
	activityService := core.NewActivityService(pool)
	reportingService := core.NewReportingService(pool)

	// The order-source sync client is optional. Without it, imported orders
	// are still committed locally and simply never reported back upstream.
	var sync fulfillment.SourceSync
	if baseURL := os.Getenv("ORDER_SOURCE_API_URL"); baseURL != "" {
		sync = ordersync.NewClient(baseURL, os.Getenv("ORDER_SOURCE_API_TOKEN"))
	} else {
		log.Println("Warning: ORDER_SOURCE_API_URL is not set; source sync disabled")
	}

	committer := fulfillment.NewCommitter(orderService, productService, activityService, sync)

	svc := app.NewAppService(productService, customerService, orderService, activityService, reportingService, committer)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
