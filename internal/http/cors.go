package http

import (
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/allisson/quotelink/internal/config"
)

// quotePageCORS builds the CORS middleware for browsers calling the API from the quote page.
// The allowed set is CORS_ALLOW_ORIGINS plus the origin of QUOTE_PAGE_URL. It returns nil
// when CORS is off or nothing usable is configured.
func quotePageCORS(cfg *config.Config, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.CORSEnabled {
		return nil
	}

	origins := allowedOrigins(cfg.CORSAllowOrigins, cfg.QuotePageURL)
	if len(origins) == 0 {
		logger.Warn("cors enabled without any allowed origin, skipping")
		return nil
	}

	logger.Info("cors enabled", slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:        12 * time.Hour,
	})
}

// allowedOrigins merges the configured origin list with the quote page origin, deduplicated
// and in first-seen order.
func allowedOrigins(list string, quotePageURL string) []string {
	var origins []string
	add := func(origin string) {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" && !slices.Contains(origins, origin) {
			origins = append(origins, origin)
		}
	}

	for _, part := range strings.Split(list, ",") {
		add(part)
	}
	add(originOf(quotePageURL))

	return origins
}

// originOf reduces an absolute URL to scheme://host. Anything else yields "".
func originOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
