package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/viccabs/booking-service/internal/config"
	"github.com/viccabs/booking-service/internal/models"
	"github.com/viccabs/booking-service/internal/services"
	"github.com/viccabs/booking-service/internal/utils"
	"github.com/viccabs/booking-service/pkg/chat"
	"github.com/viccabs/booking-service/pkg/geocode"
	"github.com/viccabs/booking-service/pkg/mailer"
	"github.com/viccabs/booking-service/pkg/validator"
)

func main() {
	query := flag.String("query", "Melbourne Airport", "address to look up against Mapbox")
	sendEmail := flag.Bool("send-email", false, "send a test booking email through Resend")
	sendChat := flag.Bool("send-chat", false, "send a test booking message through WhatsApp")
	flag.Parse()

	fmt.Println("🧪 Victoria Cabs Services Smoke Test")
	fmt.Println(strings.Repeat("=", 50))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	fmt.Println("✅ Configuration loaded")

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stdout)

	// Test 1: Phone Validator
	testPhoneValidator()

	// Test 2: Formatters
	testFormatters()

	// Test 3: Address lookup
	testAddressLookup(cfg, logger, *query)

	// Test 4: Notification channels (opt-in, these send real messages)
	if *sendEmail || *sendChat {
		testNotifications(cfg, logger, *sendEmail, *sendChat)
	} else {
		fmt.Println("\n⏭️  Skipping notification sends (use -send-email / -send-chat)")
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("✅ Smoke test completed")
}

func testPhoneValidator() {
	fmt.Println("\n📱 Testing Phone Validator")
	fmt.Println("----------------------------")

	phoneValidator := validator.NewPhoneValidator()

	testCases := []struct {
		input    string
		expected bool
		name     string
	}{
		{"0412345678", true, "Valid mobile"},
		{"0390001234", true, "Valid landline"},
		{"041234567", false, "Too short"},
		{"04123456789", false, "Too long"},
		{"04abc45678", false, "Letters"},
	}

	passCount := 0
	for _, tc := range testCases {
		_, err := phoneValidator.Validate(tc.input)
		isValid := err == nil

		status := "❌"
		if isValid == tc.expected {
			status = "✅"
			passCount++
		}
		fmt.Printf("%s %s: %s\n", status, tc.name, tc.input)
	}

	fmt.Printf("Result: %d/%d passed\n", passCount, len(testCases))
	fmt.Printf("International form of 0412345678: %s\n", phoneValidator.FormatInternational("0412345678"))
}

func testFormatters() {
	fmt.Println("\n🗓️  Testing Formatters")
	fmt.Println("----------------------------")

	fmt.Printf("Phone:    %s\n", utils.FormatAustralianPhone("0412345678"))
	fmt.Printf("Date:     %s\n", utils.FormatAustralianDate("2025-03-14"))
	fmt.Printf("Time:     %s\n", utils.FormatAustralianTime("02:30 PM"))
	fmt.Printf("Airport:  %s\n", utils.NormalizeAirportAddress("Terminal 4, Melbourne Airport VIC 3045, Australia"))
	fmt.Printf("Service:  %s\n", utils.ServiceTypeLabel("wheelchair-van"))
	fmt.Printf("Confirm:  %s at %s\n",
		services.FormatConfirmationDate("2025-03-14"),
		services.FormatConfirmationTime("02:30 PM"))
	fmt.Printf("Ref:      #%s\n", utils.GenerateReference())
}

func testAddressLookup(cfg *config.Config, logger *logrus.Logger, query string) {
	fmt.Println("\n📍 Testing Address Lookup")
	fmt.Println("----------------------------")

	if cfg.Address.AccessToken == "" {
		fmt.Println("⏭️  MAPBOX_ACCESS_TOKEN not set, skipping")
		return
	}

	client := geocode.NewSearchBoxClient(geocode.SearchBoxConfig{
		APIURL:       cfg.Address.APIURL,
		AccessToken:  cfg.Address.AccessToken,
		SessionToken: uuid.NewString(),
		Country:      cfg.Address.Country,
		Proximity:    cfg.Address.Proximity,
		Types:        cfg.Address.Types,
		Limit:        cfg.Address.SuggestLimit,
		Timeout:      cfg.Address.RequestTimeout,
	})
	addressService := services.NewAddressService(client, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	candidates := addressService.Suggest(ctx, query)
	if len(candidates) == 0 {
		fmt.Printf("❌ No suggestions for %q\n", query)
		return
	}
	for i, candidate := range candidates {
		fmt.Printf("  %d. %s\n", i+1, candidate.DisplayAddress())
	}

	fmt.Printf("✅ Resolved first candidate: %s\n", addressService.Resolve(ctx, candidates[0]))
}

func testNotifications(cfg *config.Config, logger *logrus.Logger, sendEmail, sendChat bool) {
	fmt.Println("\n📨 Testing Notification Channels")
	fmt.Println("----------------------------")

	booking, errs := models.Validate(models.BookingInput{
		Name:           "Smoke Test",
		Phone:          "0412345678",
		PickUpAddress:  "Flinders Street Station, Melbourne",
		DropOffAddress: "Melbourne Airport",
		Date:           time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		Time:           "10:00 AM",
		ServiceType:    string(models.DefaultServiceType),
		Instruction:    "Smoke test booking, please ignore",
	})
	if errs.HasErrors() {
		log.Fatalf("❌ Test booking failed validation: %v", errs)
	}

	settings := services.NewNotificationSettings(cfg)
	meta := models.SubmissionMeta{RequestID: uuid.NewString(), Device: "smoke test"}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Notification.Timeout)
	defer cancel()

	if sendEmail {
		dispatcher := services.NewEmailDispatcher(mailer.NewResendSender(cfg.Notification.ResendAPIKey), settings, logger)
		result := dispatcher.Dispatch(ctx, booking, meta)
		if result.OK() {
			fmt.Printf("✅ Email sent (id %s)\n", result.Value.MessageID)
		} else {
			fmt.Printf("❌ Email failed: %v\n", result.Err)
		}
	}

	if sendChat {
		gateway := chat.NewWhatsAppGateway(chat.WhatsAppConfig{
			APIURL:     cfg.Notification.ChatAPIURL,
			InstanceID: cfg.Notification.ChatInstanceID,
			APIToken:   cfg.Notification.ChatAPIToken,
			Timeout:    cfg.Notification.Timeout,
		})
		dispatcher := services.NewChatDispatcher(gateway, settings, logger)
		result := dispatcher.Dispatch(ctx, booking, meta)
		if result.OK() {
			fmt.Printf("✅ WhatsApp sent to %d/%d recipients\n", result.Value.Sent, result.Value.Attempted)
		} else {
			fmt.Printf("❌ WhatsApp failed: %v\n", result.Err)
		}
	}
}
