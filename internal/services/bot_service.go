package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bwibber-backend/internal/generator"
	"bwibber-backend/internal/models"
)

// BotConfig carries the user-supplied configuration for a new bot
type BotConfig struct {
	Name           string             `json:"name"`
	Personality    models.Personality `json:"personality"`
	Topics         []string           `json:"topics"`
	Hashtags       []string           `json:"hashtags"`
	DailyPostLimit int                `json:"daily_post_limit"`
}

// BotService handles bot lifecycle, templates, and post generation
type BotService struct {
	db     *gorm.DB
	tokens *TokenService
}

// NewBotService creates a new BotService
func NewBotService(db *gorm.DB, tokens *TokenService) *BotService {
	return &BotService{db: db, tokens: tokens}
}

// CreateBot validates the configuration, charges the bot-creation cost,
// and creates the bot. The charge and the bot row commit together.
func (s *BotService) CreateBot(ownerID uuid.UUID, cfg BotConfig) (*models.Bot, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return nil, validationErr("name", "bot name is required")
	}

	topics := trimAll(cfg.Topics)
	if len(topics) == 0 {
		return nil, validationErr("topics", "at least one topic is required")
	}

	personality := cfg.Personality
	if personality == "" {
		personality = models.PersonalityProfessional
	}
	if !models.ValidPersonality(personality) {
		return nil, validationErr("personality", "unknown personality")
	}

	limit := cfg.DailyPostLimit
	if limit <= 0 {
		limit = 5
	}

	costs, err := tokenCosts(s.db)
	if err != nil {
		return nil, err
	}

	bot := &models.Bot{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Name:           name,
		Personality:    personality,
		Topics:         models.StringList(topics),
		Hashtags:       models.StringList(trimAll(cfg.Hashtags)),
		Status:         models.BotStatusActive,
		DailyPostLimit: limit,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.tokens.spend(tx, ownerID, costs.BotCreation, "Bot creation: "+name); err != nil {
			return err
		}
		if err := tx.Create(bot).Error; err != nil {
			return fmt.Errorf("failed to create bot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Bot created: %s (ID: %s, owner: %s)", bot.Name, bot.ID, ownerID)
	return bot, nil
}

// GetBot loads one bot owned by ownerID. The identifier format check runs
// before any database access.
func (s *BotService) GetBot(botID string, ownerID uuid.UUID) (*models.Bot, error) {
	id, err := parseID(botID)
	if err != nil {
		return nil, err
	}

	var bot models.Bot
	if err := s.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&bot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &bot, nil
}

// ListBots returns all bots owned by ownerID, newest first
func (s *BotService) ListBots(ownerID uuid.UUID) ([]models.Bot, error) {
	var bots []models.Bot
	if err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").Find(&bots).Error; err != nil {
		return nil, fmt.Errorf("failed to list bots: %w", err)
	}
	return bots, nil
}

// UpdateStatus sets a bot's status. All transitions between active,
// paused, and archived are legal; re-applying the current status is a
// no-op at the data level.
func (s *BotService) UpdateStatus(botID string, ownerID uuid.UUID, status models.BotStatus) error {
	id, err := parseID(botID)
	if err != nil {
		return err
	}
	if !models.ValidBotStatus(status) {
		return validationErr("status", "status must be active, paused, or archived")
	}

	result := s.db.Model(&models.Bot{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to update bot status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GeneratePost charges the post-generation cost, generates content for
// the bot, stores the post, and stamps the bot's last-post time — all in
// one database transaction. Archived bots cannot post.
func (s *BotService) GeneratePost(botID string, ownerID uuid.UUID, topic string) (*models.Post, error) {
	bot, err := s.GetBot(botID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.generateForBot(bot, topic)
}

// AutoPost generates a post for a bot on behalf of the autopost job,
// picking a random configured topic. Only active bots qualify.
func (s *BotService) AutoPost(bot *models.Bot) (*models.Post, error) {
	if bot.Status != models.BotStatusActive {
		return nil, validationErr("status", "only active bots autopost")
	}

	topic := ""
	if len(bot.Topics) > 0 {
		topic = bot.Topics[rand.Intn(len(bot.Topics))]
	}
	return s.generateForBot(bot, topic)
}

func (s *BotService) generateForBot(bot *models.Bot, topic string) (*models.Post, error) {
	if bot.Status == models.BotStatusArchived {
		return nil, validationErr("status", "archived bots cannot post")
	}
	if topic == "" && len(bot.Topics) > 0 {
		topic = bot.Topics[0]
	}

	costs, err := tokenCosts(s.db)
	if err != nil {
		return nil, err
	}

	gen := generator.New(generator.Config{
		Name:     bot.Name,
		Tone:     string(bot.Personality),
		Topics:   []string(bot.Topics),
		Hashtags: []string(bot.Hashtags),
	})
	content := gen.GeneratePost(topic)

	post := &models.Post{
		ID:       uuid.New(),
		BotID:    bot.ID,
		Content:  content,
		Hashtags: bot.Hashtags,
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.tokens.spend(tx, bot.OwnerID, costs.PostGeneration, "Post generation: "+bot.Name); err != nil {
			return err
		}
		if err := tx.Create(post).Error; err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		return tx.Model(&models.Bot{}).Where("id = ?", bot.ID).
			Updates(map[string]interface{}{"last_post_at": now, "updated_at": now}).Error
	})
	if err != nil {
		return nil, err
	}

	bot.LastPostAt = &now
	return post, nil
}

// CreateTemplate derives a template from a free-text prompt, charging the
// template-creation cost. Templates are immutable once created.
func (s *BotService) CreateTemplate(ownerID uuid.UUID, prompt string) (*models.BotTemplate, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, validationErr("prompt", "template prompt is required")
	}

	topics := deriveTopics(prompt)
	if len(topics) == 0 {
		return nil, validationErr("prompt", "could not derive any topics from the prompt")
	}
	personality := derivePersonality(prompt)

	costs, err := tokenCosts(s.db)
	if err != nil {
		return nil, err
	}

	tmpl := &models.BotTemplate{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        templateName(topics[0]),
		Description: prompt,
		Personality: personality,
		Topics:      models.StringList(topics),
		TokenCost:   costs.BotCreation,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.tokens.spend(tx, ownerID, costs.TemplateCreation, "Template generation: "+tmpl.Name); err != nil {
			return err
		}
		if err := tx.Create(tmpl).Error; err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tmpl, nil
}

// ListTemplates returns all templates, newest first
func (s *BotService) ListTemplates() ([]models.BotTemplate, error) {
	var templates []models.BotTemplate
	if err := s.db.Order("created_at DESC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// deriveTopics splits a prompt on commas and periods into trimmed,
// lowercased topic candidates.
func deriveTopics(prompt string) []string {
	parts := strings.FieldsFunc(strings.ToLower(prompt), func(r rune) bool {
		return r == ',' || r == '.'
	})
	return trimAll(parts)
}

// derivePersonality sniffs the prompt for tone keywords, defaulting to
// professional.
func derivePersonality(prompt string) models.Personality {
	p := strings.ToLower(prompt)
	switch {
	case strings.Contains(p, "casual") || strings.Contains(p, "friendly"):
		return models.PersonalityCasual
	case strings.Contains(p, "enthusiastic") || strings.Contains(p, "excited"):
		return models.PersonalityEnthusiastic
	case strings.Contains(p, "analytical") || strings.Contains(p, "detailed"):
		return models.PersonalityAnalytical
	default:
		return models.PersonalityProfessional
	}
}

func templateName(topic string) string {
	words := strings.Fields(topic)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ") + " Bot"
}

// trimAll trims each entry and drops empties
func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
