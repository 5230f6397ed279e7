package jobs

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"bwibber-backend/internal/models"
	"bwibber-backend/internal/services"
)

// AutopostJob periodically generates posts for active bots that are due.
// A bot is due when it has never posted, or when its posting interval
// (24h divided by its daily post limit) has elapsed since its last post.
type AutopostJob struct {
	db         *gorm.DB
	botService *services.BotService
	interval   time.Duration
	stopChan   chan struct{}
}

// NewAutopostJob creates a new autopost job
func NewAutopostJob(db *gorm.DB, botService *services.BotService, interval time.Duration) *AutopostJob {
	return &AutopostJob{
		db:         db,
		botService: botService,
		interval:   interval,
		stopChan:   make(chan struct{}),
	}
}

// Start begins the autopost loop
func (j *AutopostJob) Start() {
	log.Printf("[Autopost] Starting autopost job (interval: %v)", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.runOnce()
		case <-j.stopChan:
			log.Println("[Autopost] Stopping autopost job")
			return
		}
	}
}

// Stop stops the autopost loop
func (j *AutopostJob) Stop() {
	close(j.stopChan)
}

// runOnce posts for every active bot that is due
func (j *AutopostJob) runOnce() {
	var bots []models.Bot
	if err := j.db.Where("status = ?", models.BotStatusActive).Find(&bots).Error; err != nil {
		log.Printf("[Autopost] Error fetching active bots: %v", err)
		return
	}
	if len(bots) == 0 {
		return
	}

	now := time.Now()
	posted := 0

	for i := range bots {
		bot := &bots[i]
		if !j.due(bot, now) {
			continue
		}

		if _, err := j.botService.AutoPost(bot); err != nil {
			// Owners out of tokens keep their bots; the bot just skips
			// this round.
			if errors.Is(err, services.ErrInsufficientBalance) {
				log.Printf("[Autopost] Skipping bot %s: owner has insufficient balance", bot.ID)
				continue
			}
			log.Printf("[Autopost] Error posting for bot %s: %v", bot.ID, err)
			continue
		}
		posted++
	}

	if posted > 0 {
		log.Printf("[Autopost] Generated %d posts", posted)
	}
}

// due reports whether the bot's posting interval has elapsed
func (j *AutopostJob) due(bot *models.Bot, now time.Time) bool {
	if bot.LastPostAt == nil {
		return true
	}

	limit := bot.DailyPostLimit
	if limit <= 0 {
		return false
	}

	gap := 24 * time.Hour / time.Duration(limit)
	return now.Sub(*bot.LastPostAt) >= gap
}
