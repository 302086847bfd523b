package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// HTTPController exposes the session lifecycle over JSON endpoints.
type HTTPController struct {
	auth   *Auther
	cfg    *Config
	logger Logger
}

// NewHTTPController builds the controller over a wired Authenticator.
func NewHTTPController(auth *Auther, cfg *Config) *HTTPController {
	return &HTTPController{
		auth:   auth,
		cfg:    cfg,
		logger: defLogger{},
	}
}

func (ctrl *HTTPController) WithLogger(logger Logger) *HTTPController {
	if logger != nil {
		ctrl.logger = logger
	}
	return ctrl
}

// RegisterRoutes mounts the auth endpoints on the router group.
func (ctrl *HTTPController) RegisterRoutes(router fiber.Router) {
	router.Post("/login", ctrl.Login)
	router.Post("/refresh", ctrl.Refresh)
	router.Post("/logout", ctrl.Logout)
	router.Post("/register", ctrl.Register)
	router.Post("/activate", ctrl.Activate)
	router.Post("/password-reset", ctrl.InitializePasswordReset)
	router.Post("/password-reset/finalize", ctrl.FinalizePasswordReset)
}

// UserSummary is the account view returned to clients. The password hash never
// leaves the model thanks to its json tag, this type narrows the rest.
type UserSummary struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

func summarize(user *User) UserSummary {
	return UserSummary{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.EffectiveRoles().Strings(),
	}
}

// LoginPayload is the login request body.
type LoginPayload struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Identifier, validation.Required),
		validation.Field(&p.Password, validation.Required),
	)
}

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        UserSummary `json:"user"`
}

// Login verifies credentials, sets the refresh cookie, and returns the access
// token in the body.
func (ctrl *HTTPController) Login(c *fiber.Ctx) error {
	var payload LoginPayload
	if err := parsePayload(c, &payload); err != nil {
		return writeError(c, err)
	}

	result, err := ctrl.auth.Login(c.UserContext(), payload.Identifier, payload.Password)
	if err != nil {
		return writeError(c, err)
	}

	c.Cookie(NewRefreshCookie(ctrl.cfg, result.Session.Token))

	return c.Status(fiber.StatusOK).JSON(loginResponse{
		AccessToken: result.AccessToken,
		TokenType:   AuthScheme,
		ExpiresIn:   int64(ctrl.cfg.AccessTokenTTL().Seconds()),
		User:        summarize(result.User),
	})
}

// Refresh exchanges the refresh cookie for a new access token. A missing
// cookie is treated the same as an unknown session.
func (ctrl *HTTPController) Refresh(c *fiber.Ctx) error {
	token, ok := RefreshTokenFromRequest(c, ctrl.cfg)
	if !ok {
		return writeError(c, ErrSessionNotFound)
	}

	result, err := ctrl.auth.Refresh(c.UserContext(), token)
	if err != nil {
		c.Cookie(ClearRefreshCookie(ctrl.cfg))
		return writeError(c, err)
	}

	c.Cookie(NewRefreshCookie(ctrl.cfg, result.Session.Token))

	return c.Status(fiber.StatusOK).JSON(loginResponse{
		AccessToken: result.AccessToken,
		TokenType:   AuthScheme,
		ExpiresIn:   int64(ctrl.cfg.AccessTokenTTL().Seconds()),
		User:        summarize(result.User),
	})
}

type logoutResponse struct {
	RevokedSessions int `json:"revoked_sessions"`
}

// Logout resolves the caller through the refresh cookie and revokes every
// session the account owns, then clears the cookie.
func (ctrl *HTTPController) Logout(c *fiber.Ctx) error {
	token, ok := RefreshTokenFromRequest(c, ctrl.cfg)
	if !ok {
		return writeError(c, ErrSessionNotFound)
	}

	session, err := ctrl.auth.Sessions().FindByToken(c.UserContext(), token)
	if err != nil {
		c.Cookie(ClearRefreshCookie(ctrl.cfg))
		return writeError(c, err)
	}

	count, err := ctrl.auth.Logout(c.UserContext(), session.UserID.String())
	if err != nil {
		return writeError(c, err)
	}

	c.Cookie(ClearRefreshCookie(ctrl.cfg))

	return c.Status(fiber.StatusOK).JSON(logoutResponse{RevokedSessions: count})
}

// RegisterPayload is the account creation request body.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required, validation.Length(3, 60)),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 128)),
	)
}

type registerResponse struct {
	User            UserSummary `json:"user"`
	ActivationToken string      `json:"activation_token"`
}

// Register creates a disabled account and returns its activation token. In a
// deployment with a mailer the token would be delivered by email instead.
func (ctrl *HTTPController) Register(c *fiber.Ctx) error {
	var payload RegisterPayload
	if err := parsePayload(c, &payload); err != nil {
		return writeError(c, err)
	}

	handler := &RegisterUserHandler{
		Users:      ctrl.auth.users,
		Activation: ctrl.auth.ActivationTokens(),
	}

	result, err := handler.Execute(c.UserContext(), RegisterUserMessage{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(registerResponse{
		User:            summarize(result.User),
		ActivationToken: result.ActivationToken,
	})
}

// ActivatePayload carries the activation token.
type ActivatePayload struct {
	Token string `json:"token"`
}

func (p ActivatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Token, validation.Required),
	)
}

// Activate consumes an activation token and enables the account.
func (ctrl *HTTPController) Activate(c *fiber.Ctx) error {
	var payload ActivatePayload
	if err := parsePayload(c, &payload); err != nil {
		return writeError(c, err)
	}

	handler := &ActivateAccountHandler{
		Users:      ctrl.auth.users,
		Activation: ctrl.auth.ActivationTokens(),
	}

	user, err := handler.Execute(c.UserContext(), ActivateAccountMessage{Token: payload.Token})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": summarize(user)})
}

// PasswordResetPayload requests a reset token by email.
type PasswordResetPayload struct {
	Email string `json:"email"`
}

func (p PasswordResetPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
	)
}

// InitializePasswordReset issues a reset token for the account. The response
// is the same whether the account exists or not, to avoid enumeration.
func (ctrl *HTTPController) InitializePasswordReset(c *fiber.Ctx) error {
	var payload PasswordResetPayload
	if err := parsePayload(c, &payload); err != nil {
		return writeError(c, err)
	}

	handler := &InitializePasswordResetHandler{
		Users:      ctrl.auth.users,
		Activation: ctrl.auth.ActivationTokens(),
	}

	token, err := handler.Execute(c.UserContext(), InitializePasswordResetMessage{Email: payload.Email})
	if err != nil && !goerrors.IsNotFound(err) {
		return writeError(c, err)
	}

	response := fiber.Map{"status": "ok"}
	if token != "" {
		response["reset_token"] = token
	}

	return c.Status(fiber.StatusAccepted).JSON(response)
}

// FinalizePasswordResetPayload carries the reset token and new password.
type FinalizePasswordResetPayload struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (p FinalizePasswordResetPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Token, validation.Required),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 128)),
	)
}

// FinalizePasswordReset consumes the reset token, swaps the password hash, and
// revokes outstanding sessions.
func (ctrl *HTTPController) FinalizePasswordReset(c *fiber.Ctx) error {
	var payload FinalizePasswordResetPayload
	if err := parsePayload(c, &payload); err != nil {
		return writeError(c, err)
	}

	handler := &FinalizePasswordResetHandler{
		Users:      ctrl.auth.users,
		Activation: ctrl.auth.ActivationTokens(),
		Sessions:   ctrl.auth.Sessions(),
	}

	if err := handler.Execute(c.UserContext(), FinalizePasswordResetMessage{
		Token:    payload.Token,
		Password: payload.Password,
	}); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

func parsePayload(c *fiber.Ctx, payload interface{ Validate() error }) error {
	if err := c.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "request validation failed").
			WithCode(goerrors.CodeBadRequest)
	}

	return nil
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message  string `json:"message"`
	TextCode string `json:"text_code,omitempty"`
}

// writeError renders a structured error as JSON with its mapped status code.
func writeError(c *fiber.Ctx, err error) error {
	status := HTTPStatus(err)

	body := errorBody{Message: "internal server error"}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		body.Message = richErr.Message
		body.TextCode = richErr.TextCode
	}

	return c.Status(status).JSON(errorResponse{Error: body})
}
