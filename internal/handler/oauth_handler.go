package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/tijani-web/flowpitch-backend/internal/auth"
	"github.com/tijani-web/flowpitch-backend/internal/config"
	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

const oauthStateCookie = "oauth_state"

type OAuthHandler struct {
	users       *repository.UserRepository
	googleConf  *oauth2.Config
	githubConf  *oauth2.Config
	jwtSecret   string
	frontendURL string
	log         *zap.Logger
}

func NewOAuthHandler(users *repository.UserRepository, cfg *config.Config, log *zap.Logger) *OAuthHandler {
	return &OAuthHandler{
		users: users,
		googleConf: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		githubConf: &oauth2.Config{
			ClientID:     cfg.GithubClientID,
			ClientSecret: cfg.GithubClientSecret,
			RedirectURL:  cfg.GithubCallbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		jwtSecret:   cfg.JWTSecret,
		frontendURL: cfg.FrontendURL,
		log:         log,
	}
}

// GoogleLogin redirects the browser to Google's consent screen.
func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	h.redirectToProvider(c, h.googleConf)
}

func (h *OAuthHandler) GithubLogin(c *gin.Context) {
	h.redirectToProvider(c, h.githubConf)
}

func (h *OAuthHandler) redirectToProvider(c *gin.Context, conf *oauth2.Config) {
	state, err := repository.GenerateToken()
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, conf.AuthCodeURL(state))
}

// GoogleCallback completes the Google flow and redirects back to the frontend
// with a session token.
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	code, ok := h.callbackCode(c)
	if !ok {
		return
	}
	token, err := h.googleConf.Exchange(c.Request.Context(), code)
	if err != nil {
		h.failLogin(c, "google exchange failed", err)
		return
	}

	info, err := fetchJSON(h.googleConf.Client(c.Request.Context(), token), "https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		h.failLogin(c, "google userinfo failed", err)
		return
	}
	profile := oauthProfile{
		providerColumn: "google_id",
		providerID:     asString(info["id"]),
		email:          strings.ToLower(asString(info["email"])),
		name:           asString(info["name"]),
		avatarURL:      asString(info["picture"]),
	}
	h.finishLogin(c, profile)
}

func (h *OAuthHandler) GithubCallback(c *gin.Context) {
	code, ok := h.callbackCode(c)
	if !ok {
		return
	}
	token, err := h.githubConf.Exchange(c.Request.Context(), code)
	if err != nil {
		h.failLogin(c, "github exchange failed", err)
		return
	}

	client := h.githubConf.Client(c.Request.Context(), token)
	info, err := fetchJSON(client, "https://api.github.com/user")
	if err != nil {
		h.failLogin(c, "github user fetch failed", err)
		return
	}
	email := strings.ToLower(asString(info["email"]))
	if email == "" {
		email, err = primaryGithubEmail(client)
		if err != nil {
			h.failLogin(c, "github emails fetch failed", err)
			return
		}
	}
	name := asString(info["name"])
	if name == "" {
		name = asString(info["login"])
	}
	profile := oauthProfile{
		providerColumn: "github_id",
		providerID:     fmt.Sprintf("%.0f", asFloat(info["id"])),
		email:          email,
		name:           name,
		avatarURL:      asString(info["avatar_url"]),
	}
	h.finishLogin(c, profile)
}

type oauthProfile struct {
	providerColumn string
	providerID     string
	email          string
	name           string
	avatarURL      string
}

// finishLogin finds the linked account, links by email, or creates a user,
// then redirects to the frontend carrying a fresh token.
func (h *OAuthHandler) finishLogin(c *gin.Context, p oauthProfile) {
	if p.providerID == "" || p.email == "" {
		h.failLogin(c, "provider returned incomplete profile", nil)
		return
	}
	ctx := c.Request.Context()

	user, err := h.users.FindByProvider(ctx, p.providerColumn, p.providerID)
	if err != nil {
		h.failLogin(c, "provider lookup failed", err)
		return
	}
	if user == nil {
		user, err = h.users.FindByEmail(ctx, p.email)
		if err != nil {
			h.failLogin(c, "email lookup failed", err)
			return
		}
		if user != nil {
			h.linkProvider(user, p)
			if err := h.users.Update(ctx, user); err != nil {
				h.failLogin(c, "account link failed", err)
				return
			}
		}
	}
	if user == nil {
		user = &model.User{
			Name:      p.name,
			Username:  h.uniqueUsername(c, p.email),
			Email:     p.email,
			AvatarURL: p.avatarURL,
			Role:      "user",
		}
		h.linkProvider(user, p)
		if err := h.users.Create(ctx, user); err != nil {
			h.failLogin(c, "account creation failed", err)
			return
		}
	}

	token, err := auth.GenerateToken(user.ID.String(), h.jwtSecret)
	if err != nil {
		h.failLogin(c, "token generation failed", err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/oauth-success?token="+token)
}

func (h *OAuthHandler) linkProvider(user *model.User, p oauthProfile) {
	id := p.providerID
	switch p.providerColumn {
	case "google_id":
		user.GoogleID = &id
	case "github_id":
		user.GithubID = &id
	}
	if user.AvatarURL == "" {
		user.AvatarURL = p.avatarURL
	}
}

// uniqueUsername derives a username from the email local part, suffixing a
// random fragment on collision.
func (h *OAuthHandler) uniqueUsername(c *gin.Context, email string) string {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	base = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			return r
		}
		return '_'
	}, base)
	existing, err := h.users.FindByUsername(c.Request.Context(), base)
	if err == nil && existing == nil {
		return base
	}
	return base + "_" + uuid.NewString()[:8]
}

func (h *OAuthHandler) callbackCode(c *gin.Context) (string, bool) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || c.Query("state") != state {
		response.Err(c, http.StatusBadRequest, "Invalid OAuth state")
		return "", false
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)
	code := c.Query("code")
	if code == "" {
		response.Err(c, http.StatusBadRequest, "Missing authorization code")
		return "", false
	}
	return code, true
}

// Failure is the terminal endpoint providers redirect to when the user denies
// consent.
func (h *OAuthHandler) Failure(c *gin.Context) {
	response.Err(c, http.StatusUnauthorized, "OAuth authentication failed")
}

func (h *OAuthHandler) failLogin(c *gin.Context, msg string, err error) {
	h.log.Warn("oauth login failed", zap.String("reason", msg), zap.Error(err))
	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?error=oauth_failed")
}

func fetchJSON(client *http.Client, url string) (map[string]any, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// primaryGithubEmail handles accounts whose email is private on the profile.
func primaryGithubEmail(client *http.Client) (string, error) {
	resp, err := client.Get("https://api.github.com/user/emails")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.Unmarshal(body, &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return strings.ToLower(e.Email), nil
		}
	}
	if len(emails) > 0 {
		return strings.ToLower(emails[0].Email), nil
	}
	return "", fmt.Errorf("no email on github account")
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}
