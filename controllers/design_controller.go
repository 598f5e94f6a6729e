package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/taxibooking/clients"
	"github.com/joy095/taxibooking/logger"
	"github.com/joy095/taxibooking/metrics"
	"github.com/joy095/taxibooking/utils/jwt_parse"
)

const (
	DesignTokenCookie = "canva_token"
	// StateCookie holds the nonce of the authorization flow this browser
	// started. It is scoped to the callback path.
	StateCookie     = "canva_oauth_state"
	stateCookiePath = "/auth/canva"

	stateTTL        = 10 * time.Minute
	defaultTokenTTL = time.Hour
)

// DesignController runs the design-service OAuth flow and proxies the
// design list for the browser script.
type DesignController struct {
	*PageController
	Client  clients.DesignClientWrapper
	Secret  []byte
	Metrics *metrics.Metrics
	// SecureCookie marks the token cookie Secure; off in development so
	// plain-http localhost works.
	SecureCookie bool
}

func NewDesignController(pc *PageController, client clients.DesignClientWrapper, secret []byte, m *metrics.Metrics) *DesignController {
	return &DesignController{
		PageController: pc,
		Client:         client,
		Secret:         secret,
		Metrics:        m,
		SecureCookie:   !pc.Dev,
	}
}

func (dc *DesignController) count(endpoint, result string) {
	if dc.Metrics != nil {
		dc.Metrics.DesignRequests.WithLabelValues(endpoint, result).Inc()
	}
}

func (dc *DesignController) enabled() bool {
	return dc.DesignEnabled && dc.Client != nil
}

// Authorize redirects the browser to the provider with a signed state.
func (dc *DesignController) Authorize(c *gin.Context) {
	if !dc.enabled() {
		dc.count("authorize", "disabled")
		dc.RenderError(c, http.StatusServiceUnavailable, "Error", "Design import is not configured.", nil)
		return
	}

	state, nonce, err := jwt_parse.SignState(dc.Secret, stateTTL)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to sign OAuth state: %v", err)
		dc.count("authorize", "error")
		dc.RenderError(c, http.StatusInternalServerError, "Error", genericErrorMessage, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(StateCookie, nonce, int(stateTTL.Seconds()), stateCookiePath, "", dc.SecureCookie, true)
	dc.count("authorize", "ok")
	c.Redirect(http.StatusFound, dc.Client.AuthURL(state))
}

// Callback finishes the flow: it checks the state against the nonce cookie
// set by Authorize, exchanges the code and stores the access token in an
// HttpOnly cookie.
func (dc *DesignController) Callback(c *gin.Context) {
	if !dc.enabled() {
		dc.count("callback", "disabled")
		dc.RenderError(c, http.StatusServiceUnavailable, "Error", "Design import is not configured.", nil)
		return
	}

	// The nonce is single use, whatever the outcome of this callback.
	nonce, _ := c.Cookie(StateCookie)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(StateCookie, "", -1, stateCookiePath, "", dc.SecureCookie, true)

	if reason := c.Query("error"); reason != "" {
		logger.WarnLogger.Warnf("Design authorization denied: %s", reason)
		dc.count("callback", "denied")
		dc.RenderError(c, http.StatusBadRequest, "Error", "Design authorization was cancelled.", nil)
		return
	}

	if err := jwt_parse.VerifyState(dc.Secret, c.Query("state"), nonce); err != nil {
		logger.WarnLogger.Warnf("Rejected OAuth callback: %v", err)
		dc.count("callback", "bad_state")
		dc.RenderError(c, http.StatusBadRequest, "Error", "This authorization link is invalid or has expired.", err)
		return
	}

	code := c.Query("code")
	if code == "" {
		dc.count("callback", "bad_request")
		dc.RenderError(c, http.StatusBadRequest, "Error", "Authorization code missing.", nil)
		return
	}

	tok, err := dc.Client.Exchange(c.Request.Context(), code)
	if err != nil {
		logger.ErrorLogger.Errorf("Design token exchange failed: %v", err)
		dc.count("callback", "error")
		dc.RenderError(c, http.StatusBadGateway, "Error", "Could not connect to the design service. Please try again later.", err)
		return
	}

	expiresAt := tok.Expiry
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(defaultTokenTTL)
	}
	value, err := jwt_parse.SignAccessToken(dc.Secret, tok.AccessToken, expiresAt)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to sign design token: %v", err)
		dc.count("callback", "error")
		dc.RenderError(c, http.StatusInternalServerError, "Error", genericErrorMessage, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(DesignTokenCookie, value, int(time.Until(expiresAt).Seconds()), "/", "", dc.SecureCookie, true)
	dc.count("callback", "ok")
	c.Redirect(http.StatusFound, "/")
}

// Designs proxies the design list for the signed-in browser.
func (dc *DesignController) Designs(c *gin.Context) {
	if !dc.enabled() {
		dc.count("designs", "disabled")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Design import is not configured"})
		return
	}

	cookie, err := c.Cookie(DesignTokenCookie)
	if err != nil {
		dc.count("designs", "unauthorized")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not connected to the design service"})
		return
	}
	accessToken, err := jwt_parse.ParseAccessToken(dc.Secret, cookie)
	if err != nil {
		dc.clearToken(c)
		dc.count("designs", "unauthorized")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not connected to the design service"})
		return
	}

	body, contentType, err := dc.Client.FetchDesigns(c.Request.Context(), accessToken)
	switch {
	case errors.Is(err, clients.ErrUnauthorized):
		dc.clearToken(c)
		dc.count("designs", "unauthorized")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Design service session expired"})
	case err != nil:
		logger.ErrorLogger.Errorf("Failed to fetch designs: %v", err)
		dc.count("designs", "error")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch designs"})
	default:
		dc.count("designs", "ok")
		c.Data(http.StatusOK, contentType, body)
	}
}

func (dc *DesignController) clearToken(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(DesignTokenCookie, "", -1, "/", "", dc.SecureCookie, true)
}
