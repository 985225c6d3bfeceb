package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/config"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository/postgres"
)

func main() {
	statusFlag := flag.String("status", "", "Filter by status (PENDING, CONFIRMED, SHIPPED, DELIVERED, REJECTED, CANCELLED)")
	limitFlag := flag.Int("limit", 100, "Maximum orders to list")
	flag.Parse()

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

	var orders []*domain.Order
	if *statusFlag != "" {
		status := domain.OrderStatus(*statusFlag)
		if !status.IsValid() {
			fmt.Fprintf(os.Stderr, "Unknown status: %s\n", *statusFlag)
			os.Exit(1)
		}
		orders, err = repos.Order.ListByStatus(ctx, status, *limitFlag, 0)
	} else {
		orders, err = repos.Order.List(ctx, *limitFlag, 0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list orders: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Listing %d orders:\n\n", len(orders))

	for _, order := range orders {
		fmt.Printf("%s  %-10s  %-8s  S/ %s  %s\n",
			order.Code,
			order.Status,
			order.OrderType,
			order.Total.StringFixed(2),
			order.CustomerName,
		)
		if order.City != "" {
			fmt.Printf("           city: %s\n", order.City)
		}
		if order.RejectionReason != nil {
			fmt.Printf("           rejected: %s\n", *order.RejectionReason)
		}
	}
}
