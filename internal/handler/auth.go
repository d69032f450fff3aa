package handler

import (
    "net/http" // HTTP status codes
    "time"     // token expiry

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing
    "github.com/pkg/errors"       // wrap errors for the error handler

    "github.com/iliyamo/studentdev-hub/internal/clock"    // time source for token issue time
    "github.com/iliyamo/studentdev-hub/internal/config"   // app configuration
    "github.com/iliyamo/studentdev-hub/internal/identity" // session identity provider
    "github.com/iliyamo/studentdev-hub/internal/metrics"  // login counters
    "github.com/iliyamo/studentdev-hub/internal/model"    // profile and user types
    "github.com/iliyamo/studentdev-hub/internal/utils"    // session token issuing
)

// AuthHandler bundles dependencies for auth endpoints.  There are no
// credentials: the email alone decides the role, and a password, when
// sent, is ignored.
type AuthHandler struct {
    Cfg   config.Config
    Clock clock.Clock
}

func NewAuthHandler(cfg config.Config, c clock.Clock) *AuthHandler {
    if c == nil {
        c = clock.Real()
    }
    return &AuthHandler{Cfg: cfg, Clock: c}
}

// ----- DTOs -----

type signupReq struct {
    Email      string `json:"email" validate:"required,email"`
    FirstName  string `json:"firstName" validate:"max=64"`
    LastName   string `json:"lastName" validate:"max=64"`
    University string `json:"university" validate:"max=128"`
    Password   string `json:"password"`
}
type loginReq struct {
    Email    string `json:"email" validate:"required,email"`
    Password string `json:"password"`
}

type sessionResp struct {
    User    model.User `json:"user"`
    Token   string     `json:"token"`
    Expires time.Time  `json:"expires"`
}

// Signup: create the session identity from the full profile.
func (h *AuthHandler) Signup(c echo.Context) error {
    var req signupReq
    if err := bindStrict(c, &req); err != nil {
        return err
    }
    profile := model.Profile{
        Email:      req.Email,
        FirstName:  req.FirstName,
        LastName:   req.LastName,
        University: req.University,
    }
    return h.login(c, "signup", profile, h.Cfg.SignupDelay, http.StatusCreated)
}

// Login: the first name is derived from the email.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := bindStrict(c, &req); err != nil {
        return err
    }
    return h.login(c, "login", identity.ProfileFromEmail(req.Email), h.Cfg.LoginDelay, http.StatusOK)
}

// login applies profile after delay and issues a token for the session.
// A client that disconnects during the delay leaves the session as it was.
func (h *AuthHandler) login(c echo.Context, method string, profile model.Profile, delay time.Duration, status int) error {
    ctx := c.Request().Context()
    p := identity.FromContext(ctx)

    u, err := p.LoginAfter(ctx, profile, delay)
    if err != nil {
        return errors.Wrap(err, method)
    }
    tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, p.SessionID(), h.Cfg.SessionTTL, h.Clock.Now())
    if err != nil {
        return errors.Wrap(err, "issue session token")
    }
    metrics.Logins.WithLabelValues(method, string(u.Role)).Inc()
    c.Logger().Infof("%s: session %s role=%s", method, p.SessionID(), u.Role)

    return c.JSON(status, sessionResp{User: u, Token: tok.Token, Expires: tok.Exp})
}

// Logout: forget the identity of the session.  Always 204, also when
// there was no session.
func (h *AuthHandler) Logout(c echo.Context) error {
    if err := identity.FromContext(c.Request().Context()).Logout(c.Request().Context()); err != nil {
        return errors.Wrap(err, "logout")
    }
    return c.NoContent(http.StatusNoContent)
}

// Me: the current identity, or state "anonymous" and a null user.
func (h *AuthHandler) Me(c echo.Context) error {
    p := identity.FromContext(c.Request().Context())
    resp := echo.Map{"state": p.State().String(), "user": nil}
    if u, ok := p.Current(); ok {
        resp["user"] = u
    }
    return c.JSON(http.StatusOK, resp)
}
