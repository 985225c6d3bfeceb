package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/config"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository/postgres"
)

func main() {
	emailFlag := flag.String("email", "", "Staff account email")
	passwordFlag := flag.String("password", "", "Initial password (change it after first login)")
	nameFlag := flag.String("name", "", "Staff member full name")
	phoneFlag := flag.String("phone", "", "Staff member phone")
	flag.Parse()

	email := strings.TrimSpace(*emailFlag)
	password := *passwordFlag
	fullName := strings.TrimSpace(*nameFlag)
	phone := strings.TrimSpace(*phoneFlag)

	if email == "" || password == "" || fullName == "" {
		fmt.Println("Usage:")
		fmt.Println("  go run cmd/create-staff/main.go --email \"ana@ferrejmg.com\" --password \"secret\" --name \"Ana Gutierrez\" [--phone \"+51999888777\"]")
		os.Exit(1)
	}
	if len(password) < 8 {
		fmt.Fprintf(os.Stderr, "Error: password must be at least 8 characters.\n")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	repos := postgres.NewRepositories(db, logger)

	user := &domain.User{
		Email:        email,
		Phone:        phone,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         domain.RoleStaff,
		IsActive:     true,
	}

	if err := repos.User.Create(context.Background(), user); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create staff account: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Staff account created.\n\n")
	fmt.Printf("User ID: %s\n", user.ID.String())
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("Name: %s\n", user.FullName)
	fmt.Printf("\nLog in at /v1/auth/login with this email and the chosen password.\n")
}
