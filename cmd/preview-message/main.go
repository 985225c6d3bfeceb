package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/catalog"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/checkout"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
)

// Renders a sample order message and its channel URL without touching the
// database. Handy for eyeballing format changes before a deploy.
func main() {
	phoneFlag := flag.String("phone", "51999888777", "Store WhatsApp number, digits only")
	pickupFlag := flag.Bool("pickup", false, "Render a pickup order instead of delivery")
	flag.Parse()

	lines := []domain.CartLine{
		{
			ProductID: uuid.New(),
			SKU:       "MART-001",
			Name:      "Martillo de una 16 oz",
			Quantity:  2,
			UnitPrice: decimal.NewFromFloat(25.50),
		},
		{
			ProductID: uuid.New(),
			SKU:       "TALAD-014",
			Name:      "Taladro percutor 650W",
			Quantity:  1,
			UnitPrice: decimal.NewFromFloat(189.90),
		},
	}

	shipping := domain.ShippingDetails{
		FullName: "Maria Quispe",
		Phone:    "+51988776655",
		Email:    "maria@example.com",
		DNI:      "45678912",
		City:     "Trujillo",
	}

	in := checkout.ComposeInput{
		OrderCode: "FER-000042",
		CreatedAt: time.Now(),
		Shipping:  shipping,
		OrderType: domain.OrderTypeDelivery,
		Lines:     lines,
	}

	if *pickupFlag {
		in.OrderType = domain.OrderTypePickup
	} else {
		for _, dest := range catalog.FallbackDestinations() {
			if dest.Name == "Trujillo" {
				in.Destination = dest
				break
			}
		}
	}

	message := checkout.ComposeMessage(in)

	fmt.Println("--- message ---")
	fmt.Println(message)
	fmt.Println("--- channel url ---")
	fmt.Println(checkout.BuildChannelURL(*phoneFlag, message))
}
