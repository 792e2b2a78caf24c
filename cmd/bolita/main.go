package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rewired-gh/bolita/internal/config"
	"github.com/rewired-gh/bolita/internal/dates"
	"github.com/rewired-gh/bolita/internal/funds"
	"github.com/rewired-gh/bolita/internal/logger"
	"github.com/rewired-gh/bolita/internal/models"
	"github.com/rewired-gh/bolita/internal/normalizer"
	"github.com/rewired-gh/bolita/internal/notify"
	"github.com/rewired-gh/bolita/internal/report"
	"github.com/rewired-gh/bolita/internal/settlement"
	"github.com/rewired-gh/bolita/internal/storage"
)

var (
	configPath = flag.String("config", "", "Path to configuration file (optional)")
	mode       = flag.String("mode", "settle", "Operation: settle, fund, movement, report, snapshot, seller")
	sellerName = flag.String("seller", "", "Seller name")
	date       = flag.String("date", "", "Date (DD/MM/YYYY, default today)")
	shiftFlag  = flag.String("shift", "dia", "Shift: dia or noche")
	winning    = flag.Int("winning", -1, "Winning number 0-100 (100 means 00); -1 leaves it unset")
	filePath   = flag.String("file", "", "Submission text file (default stdin)")
	amount     = flag.Float64("amount", 0, "Amount for fund or movement mode")
	moveType   = flag.String("type", "entrada", "Movement type: entrada or salida")
	bosses     = flag.String("bosses", "", "Comma-separated boss names for seller mode")
	unitPrice  = flag.Float64("price", 1, "Unit sale price for seller mode")
	commission = flag.Float64("commission", 0, "Commission percentage for seller mode")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	// Initialize storage
	store := storage.New(
		cfg.Storage.FilePath,
		cfg.Storage.RetentionDays,
		os.FileMode(cfg.Storage.FilePermissions),
		os.FileMode(cfg.Storage.DirPermissions),
	)
	if err := store.Load(); err != nil {
		logger.Fatal("Failed to load ledger: %v", err)
	}

	day := *date
	if day == "" {
		day = dates.Today()
	}
	shift, err := dates.ParseShift(*shiftFlag)
	if err != nil {
		logger.Fatal("%v", err)
	}

	switch *mode {
	case "settle":
		err = runSettle(cfg, store, day, shift)
	case "fund":
		err = runFund(store, day, shift)
	case "movement":
		err = runMovement(store, day, shift)
	case "report":
		err = runReport(store, day, shift)
	case "snapshot":
		err = store.SnapshotDay(day)
	case "seller":
		err = runSeller(store)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		logger.Fatal("%v", err)
	}

	if err := store.Save(); err != nil {
		logger.Fatal("Failed to save ledger: %v", err)
	}
}

// readSubmission returns the raw operator message from -file or stdin.
func readSubmission() (string, error) {
	if *filePath != "" {
		data, err := os.ReadFile(*filePath)
		if err != nil {
			return "", fmt.Errorf("read submission: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read submission from stdin: %w", err)
	}
	return string(data), nil
}

func winningNumber() *int {
	if *winning < 0 {
		return nil
	}
	w := *winning
	return &w
}

func runSettle(cfg *config.Config, store *storage.Store, day string, shift dates.Shift) error {
	if *sellerName == "" {
		return fmt.Errorf("settle mode requires -seller")
	}

	raw, err := readSubmission()
	if err != nil {
		return err
	}

	norm := normalizer.New(cfg.Normalizer.MaxIterations)
	settler := settlement.New(norm, cfg.Settlement.ExposureThreshold)

	win := winningNumber()
	res, err := settler.Settle(raw, win)
	if err != nil {
		return err
	}

	committer := settlement.NewCommitter(store)
	sale, err := committer.Commit(*sellerName, day, shift, res, win)
	if err != nil {
		return err
	}

	fmt.Printf("Venta registrada: %s\n", sale.ID)
	fmt.Printf("  venta=%.2f premio=%.2f\n", res.TotalSale, res.TotalPrize)
	for _, inv := range res.Invalid {
		fmt.Printf("  línea no reconocida: %q (%s)\n", inv.Raw, inv.Reason)
	}
	for _, n := range res.Overexposed {
		fmt.Printf("  sobreexpuesto: %02d con %.2f\n", n, res.Exposure[n])
	}

	if cfg.Telegram.Enabled {
		client, err := notify.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID,
			cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
		if err != nil {
			logger.Error("Failed to initialize Telegram client: %v", err)
		} else if err := client.SendSettlement(*sellerName, day, shift, res, win); err != nil {
			logger.Error("Failed to send Telegram notification: %v", err)
		}
	}

	return nil
}

func runFund(store *storage.Store, day string, shift dates.Shift) error {
	if *sellerName == "" {
		return fmt.Errorf("fund mode requires -seller")
	}
	seller, err := store.GetSeller(*sellerName)
	if err != nil {
		return err
	}
	if err := funds.RecordUpdate(seller, day, shift, *amount); err != nil {
		return err
	}
	pair, _ := funds.Historical(seller, day, shift)
	fmt.Printf("Fondo de %s (%s %s): anterior=%.2f actual=%.2f\n",
		seller.Name, day, shift, pair.Previous, pair.Current)
	return nil
}

func runMovement(store *storage.Store, day string, shift dates.Shift) error {
	if *sellerName == "" {
		return fmt.Errorf("movement mode requires -seller")
	}
	mv := models.Movement{
		ID:     uuid.New().String(),
		Type:   models.MovementType(*moveType),
		Amount: *amount,
		Date:   day,
		Shift:  shift,
	}
	return store.AddMovement(*sellerName, mv)
}

func runReport(store *storage.Store, day string, shift dates.Shift) error {
	sum, err := report.BuildSummary(store, day, shift)
	if err != nil {
		return err
	}
	fmt.Print(report.Render(store, sum))
	return nil
}

func runSeller(store *storage.Store) error {
	if *sellerName == "" {
		return fmt.Errorf("seller mode requires -seller")
	}
	var bossList []string
	for _, b := range strings.Split(*bosses, ",") {
		if b = strings.TrimSpace(b); b != "" {
			bossList = append(bossList, b)
		}
	}
	seller := &models.Seller{
		Name:          *sellerName,
		UnitPrice:     *unitPrice,
		CommissionPct: *commission,
		Bosses:        bossList,
	}
	if err := store.AddSeller(seller); err != nil {
		return err
	}
	for _, b := range bossList {
		if _, err := store.EnsureBoss(b); err != nil {
			return err
		}
	}
	fmt.Printf("Vendedor registrado: %s\n", seller.Name)
	return nil
}
