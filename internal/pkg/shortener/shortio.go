package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/fielmedina/backend/internal/pkg/env"
)

const defaultShortIOURL = "https://api.short.io"

// Config selects and configures the shortener.
type Config struct {
	APIKey   string
	Domain   string
	FolderID string
	// BaseURL is used by the local shortener when no API key is set.
	BaseURL string
	Timeout time.Duration
}

// LoadConfig reads the shortener settings from the environment.
func LoadConfig() *Config {
	return &Config{
		APIKey:   env.GetEnv("SHORT_IO_API_KEY", ""),
		Domain:   env.GetEnv("SHORT_IO_DOMAIN", ""),
		FolderID: env.GetEnv("SHORT_IO_FOLDER_ID", ""),
		BaseURL:  env.GetEnv("PUBLIC_BASE_URL", ""),
		Timeout:  time.Duration(env.GetEnvInt("SHORT_IO_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

// ShortIO creates links through the Short.io REST API.
type ShortIO struct {
	apiURL   string
	apiKey   string
	domain   string
	folderID string
	timeout  time.Duration
}

// NewShortIO creates a Short.io client.
func NewShortIO(cfg *Config) *ShortIO {
	return &ShortIO{
		apiURL:   defaultShortIOURL,
		apiKey:   cfg.APIKey,
		domain:   cfg.Domain,
		folderID: cfg.FolderID,
		timeout:  cfg.Timeout,
	}
}

type shortIORequest struct {
	OriginalURL string `json:"originalURL"`
	Domain      string `json:"domain,omitempty"`
	FolderID    string `json:"folderId,omitempty"`
}

type shortIOResponse struct {
	ShortURL       string `json:"shortURL"`
	SecureShortURL string `json:"secureShortURL"`
	IDString       string `json:"idString"`
}

// Shorten creates a short link for link. The secure URL is preferred.
func (s *ShortIO) Shorten(ctx context.Context, link string) (string, string, error) {
	if s.apiKey == "" {
		return "", "", errors.New("short.io api key is missing")
	}
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout || timeout == 0 {
			timeout = left
		}
	}

	agent := fiber.Post(s.apiURL + "/links")
	agent.Set(fiber.HeaderAuthorization, s.apiKey)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	agent.JSON(shortIORequest{OriginalURL: link, Domain: s.domain, FolderID: s.folderID})
	if timeout > 0 {
		agent.Timeout(timeout)
	}

	var resp shortIOResponse
	code, body, errs := agent.Struct(&resp)
	if len(errs) > 0 {
		return "", "", fmt.Errorf("short.io request: %w", errors.Join(errs...))
	}
	if code < 200 || code >= 300 {
		return "", "", fmt.Errorf("short.io responded %d: %s", code, body)
	}
	short := resp.SecureShortURL
	if short == "" {
		short = resp.ShortURL
	}
	if short == "" || resp.IDString == "" {
		return "", "", fmt.Errorf("short.io response without link: %s", body)
	}
	log.Infof("[Shortener] Created %s for %s", short, link)
	return short, resp.IDString, nil
}

// Shortener is what the content service expects.
type Shortener interface {
	Shorten(ctx context.Context, link string) (shortLink, shortID string, err error)
}

// New returns Short.io when an API key is configured, else a local shortener
// when a public base URL is known, else nil.
func New(cfg *Config) Shortener {
	switch {
	case cfg.APIKey != "":
		return NewShortIO(cfg)
	case cfg.BaseURL != "":
		return NewLocal(cfg.BaseURL)
	default:
		return nil
	}
}
