package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/qs3c/school_go_server/config"
	"github.com/qs3c/school_go_server/internal/database"
	"github.com/qs3c/school_go_server/internal/model"
	"github.com/qs3c/school_go_server/internal/repository"
)

var (
	dryRun      = flag.Bool("dry-run", true, "Dry run mode, don't actually update records")
	expireHours = flag.Int("expire-hours", 24, "Hours after which a pending payment is considered stale")
)

// 超过时限仍未被网关回调落账的在途订单视为废单，置为失败。
// 家长可以随时重新发起支付，失败记录仅用于审计。
func main() {
	flag.Parse()

	log.Println("Starting stale payment cleanup...")
	log.Printf("Mode: dry-run=%v, expire-hours=%d", *dryRun, *expireHours)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	before := time.Now().Add(-time.Duration(*expireHours) * time.Hour)

	if *dryRun {
		var count int64
		err := db.Model(&model.Payment{}).
			Where("status = ? AND created_at < ?", model.PaymentStatusPending, before).
			Count(&count).Error
		if err != nil {
			log.Fatalf("Failed to count stale payments: %v", err)
		}
		log.Printf("Would expire %d stale pending payments (created before %s)", count, before.Format(time.RFC3339))
		log.Println("DRY RUN MODE - run with -dry-run=false to apply")
		return
	}

	paymentRepo := repository.NewPaymentRepository(db)
	affected, err := paymentRepo.ExpireStalePending(before)
	if err != nil {
		log.Fatalf("Failed to expire stale payments: %v", err)
	}

	log.Printf("Expired %d stale pending payments (created before %s)", affected, before.Format(time.RFC3339))
	log.Println("Cleanup completed")
}
