package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/config"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository/postgres"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/find-order/main.go <order-code-or-uuid>")
		fmt.Println("Example: go run cmd/find-order/main.go FER-000123")
		os.Exit(1)
	}
	ref := os.Args[1]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Initialize database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)
	ctx := context.Background()

	var order *domain.Order
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		order, err = repos.Order.GetByID(ctx, id)
	} else {
		order, err = repos.Order.GetByCode(ctx, ref)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to find order: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Order %s\n", order.Code)
	fmt.Printf("  ID: %s\n", order.ID)
	fmt.Printf("  Status: %s\n", order.Status)
	fmt.Printf("  Type: %s\n", order.OrderType)
	fmt.Printf("  Customer: %s (%s)\n", order.CustomerName, order.CustomerPhone)
	if order.City != "" {
		fmt.Printf("  City: %s\n", order.City)
	}
	fmt.Printf("  Subtotal: S/ %s\n", order.Subtotal.StringFixed(2))
	fmt.Printf("  Shipping: S/ %s\n", order.ShippingCost.StringFixed(2))
	fmt.Printf("  Total: S/ %s\n", order.Total.StringFixed(2))
	fmt.Printf("  Created: %s\n", order.CreatedAt.Format("2006-01-02 15:04:05"))

	items, err := repos.OrderItem.GetByOrderID(ctx, order.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load order items: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nItems (%d):\n", len(items))
	for _, item := range items {
		fmt.Printf("  %d x %s (%s) = S/ %s\n",
			item.Quantity, item.Name, item.SKU, item.LineTotal.StringFixed(2))
	}

	events, err := repos.OrderEvent.GetByOrderID(ctx, order.ID)
	if err == nil && len(events) > 0 {
		fmt.Printf("\nEvents (%d):\n", len(events))
		for _, event := range events {
			fmt.Printf("  %s  %s\n", event.CreatedAt.Format("2006-01-02 15:04:05"), event.EventType)
		}
	}

	fmt.Printf("\nMessage:\n%s\n", order.Message)
}
