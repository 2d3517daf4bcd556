package ad

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"adterminal/internal/metrics"
	"adterminal/internal/pkg/response"
)

// IntegrationHandler serves the read-only public feed consumed by external
// sites. No authentication.
type IntegrationHandler struct {
	service       *Service
	publicBaseURL string
	trustProxy    bool
	now           func() time.Time
}

// NewIntegrationHandler builds the feed handler. X-Forwarded-Proto is only
// consulted when trustProxy is set, i.e. the server runs behind a proxy that
// overwrites the header.
func NewIntegrationHandler(service *Service, publicBaseURL string, trustProxy bool) *IntegrationHandler {
	return &IntegrationHandler{
		service:       service,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		trustProxy:    trustProxy,
		now:           time.Now,
	}
}

// ListVisible godoc
// @Summary Public ad feed
// @Description Currently visible ads, newest first
// @Tags Integration
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /integration/ads [get]
func (h *IntegrationHandler) ListVisible(c *gin.Context) {
	h.serve(c, "")
}

// ListVisibleByCategory godoc
// @Summary Public ad feed for one category
// @Tags Integration
// @Produce json
// @Param category path string true "Exact, case-sensitive category"
// @Success 200 {object} map[string]interface{}
// @Router /integration/ads/category/{category} [get]
func (h *IntegrationHandler) ListVisibleByCategory(c *gin.Context) {
	h.serve(c, c.Param("category"))
}

func (h *IntegrationHandler) serve(c *gin.Context, category string) {
	ads, err := h.service.PublicFeed(c.Request.Context(), category, h.now())
	if err != nil {
		response.Fail(c, err)
		return
	}

	scope := "all"
	if category != "" {
		scope = "category"
	}
	metrics.RecordPublicAdsServed(scope, len(ads))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(ads),
		"ads":     ProjectAllForPublic(ads, h.baseURL(c)),
	})
}

// baseURL is PUBLIC_BASE_URL when configured, otherwise the origin the
// request arrived on.
func (h *IntegrationHandler) baseURL(c *gin.Context) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if h.trustProxy {
		if proto, ok := forwardedScheme(c.GetHeader("X-Forwarded-Proto")); ok {
			scheme = proto
		}
	}
	return scheme + "://" + c.Request.Host
}

// forwardedScheme returns the first X-Forwarded-Proto value when it is http
// or https. Anything else is ignored so it never reaches an image URL.
func forwardedScheme(header string) (string, bool) {
	proto := strings.ToLower(strings.TrimSpace(strings.Split(header, ",")[0]))
	if proto == "http" || proto == "https" {
		return proto, true
	}
	return "", false
}
