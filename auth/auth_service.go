package auth

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/jrsteele09/go-jobportal-client/apiclient"
	"github.com/jrsteele09/go-jobportal-client/apimodel"
	"github.com/jrsteele09/go-jobportal-client/sessions"
	"github.com/jrsteele09/go-jobportal-client/token"
	"github.com/jrsteele09/go-jobportal-client/token/refresh"
	"github.com/jrsteele09/go-jobportal-client/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Backend auth endpoints
const (
	LoginPath              = "/users/login"
	LoginHRPath            = "/login-hr"
	SignupPath             = "/users/signup"
	SignupHRPath           = "/signup-hr"
	LogoutPath             = "/users/logout"
	ForgotPasswordPath     = "/users/forgot-password"
	ResetPasswordPath      = "/users/reset-password/"
	VerifyEmailPath        = "/users/verify-email/"
	ResendVerificationPath = "/users/resend-verification"
	ChangePasswordPath     = "/users/change-password"
)

var errIncompleteResponse = errors.New("auth response is missing tokens or user")

// Result is the uniform outcome of every Service operation. Exactly one of Message and
// Error is meaningful depending on Success.
type Result struct {
	Success bool
	User    *users.User // Set by Login, Signup and UpdateUser
	Message string      // Backend confirmation, e.g. after Signup or ForgotPassword
	Error   string      // Backend message verbatim, or a default message
}

// Service is the session facade. Besides the refresh coordinator it is the only writer of
// session state, and its operations never panic or return errors: callers branch on Result.
type Service struct {
	client *apiclient.Client
	store  *token.Store
	logger zerolog.Logger

	mu   sync.RWMutex
	user *users.User

	unsubscribe func()
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates the facade and hydrates it from the client's token store. A stored session
// counts as authenticated straight away; a stale token is only discovered by the first
// authenticated request.
func New(client *apiclient.Client, options ...ServiceOption) (*Service, error) {
	if client == nil {
		return nil, errors.New("[New] api client is required")
	}

	s := &Service{
		client: client,
		store:  client.Store(),
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}

	if session := s.store.Load(); session.IsAuthenticated() {
		s.user = session.User
		s.logger.Debug().Str("user_id", session.User.ID.String()).Msg("session restored")
	}

	s.unsubscribe = client.OnLogout(func(cause error) {
		s.logger.Info().Err(cause).Msg("session ended by failed token refresh")
		s.setUser(nil)
	})
	return s, nil
}

// Close stops listening for refresh failures
func (s *Service) Close() {
	s.unsubscribe()
}

// Session returns the current session. Tokens come from the store so a refresh is
// visible immediately.
func (s *Service) Session() sessions.Session {
	user := s.User()
	tok := s.store.Token()
	if user == nil || tok == nil {
		return sessions.Empty
	}
	return sessions.Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		User:         user,
	}
}

// User returns a copy of the current user, nil when logged out
func (s *Service) User() *users.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *Service) IsAuthenticated() bool {
	return s.Session().IsAuthenticated()
}

func (s *Service) IsHR() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsHR()
}

// OnLogout registers fn to run when a failed refresh ends the session
func (s *Service) OnLogout(fn refresh.LogoutFunc) func() {
	return s.client.OnLogout(fn)
}

// Login authenticates against /users/login, or /login-hr for employers.
func (s *Service) Login(ctx context.Context, email, password string, asHR bool) (result Result) {
	defer s.recover("Login", LoginFailedMsg, &result)

	path := LoginPath
	if asHR {
		path = LoginHRPath
	}

	var resp apimodel.AuthResponse
	err := s.client.DoJSON(ctx, &apiclient.Request{
		Method:    http.MethodPost,
		Path:      path,
		Body:      apimodel.LoginRequest{Email: email, Password: password},
		Anonymous: true,
	}, &resp)
	if err != nil {
		s.logger.Debug().Err(err).Bool("hr", asHR).Msg("login failed")
		return failed(err, LoginFailedMsg)
	}
	if err := s.establish(resp); err != nil {
		return failed(err, IncompleteResponseMsg)
	}

	return Result{Success: true, User: resp.User.Clone()}
}

// Signup creates an account via /users/signup, or /signup-hr for employers, and logs it in.
func (s *Service) Signup(ctx context.Context, name, email, password string, asHR bool) (result Result) {
	defer s.recover("Signup", SignupFailedMsg, &result)

	path := SignupPath
	if asHR {
		path = SignupHRPath
	}

	var resp apimodel.AuthResponse
	err := s.client.DoJSON(ctx, &apiclient.Request{
		Method:    http.MethodPost,
		Path:      path,
		Body:      apimodel.SignupRequest{Name: name, Email: email, Password: password},
		Anonymous: true,
	}, &resp)
	if err != nil {
		s.logger.Debug().Err(err).Bool("hr", asHR).Msg("signup failed")
		return failed(err, SignupFailedMsg)
	}
	if err := s.establish(resp); err != nil {
		return failed(err, IncompleteResponseMsg)
	}

	return Result{Success: true, User: resp.User.Clone(), Message: resp.Message}
}

// Logout asks the backend to invalidate the refresh token and then clears the session
// whatever the backend said. It always succeeds.
func (s *Service) Logout(ctx context.Context) (result Result) {
	defer s.recover("Logout", LogoutFailedMsg, &result)
	defer s.endSession()

	if refreshToken := s.store.Load().RefreshToken; refreshToken != "" {
		_, err := s.client.Do(ctx, &apiclient.Request{
			Method:    http.MethodPost,
			Path:      LogoutPath,
			Body:      apimodel.RefreshTokenRequest{RefreshToken: refreshToken},
			NoRefresh: true,
		})
		if err != nil {
			s.logger.Warn().Err(err).Msg(LogoutFailedMsg)
		}
	}
	return Result{Success: true}
}

// ForgotPassword asks the backend to email a reset link
func (s *Service) ForgotPassword(ctx context.Context, email string) (result Result) {
	defer s.recover("ForgotPassword", ForgotPasswordMsg, &result)

	return s.passThrough(ctx, &apiclient.Request{
		Method:    http.MethodPost,
		Path:      ForgotPasswordPath,
		Body:      apimodel.EmailRequest{Email: email},
		Anonymous: true,
	}, ForgotPasswordMsg)
}

// ResetPassword sets a new password using the token from the reset email
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) (result Result) {
	defer s.recover("ResetPassword", ResetPasswordMsg, &result)

	return s.passThrough(ctx, &apiclient.Request{
		Method:    http.MethodPost,
		Path:      ResetPasswordPath + url.PathEscape(resetToken),
		Body:      apimodel.ResetPasswordRequest{Password: newPassword},
		Anonymous: true,
	}, ResetPasswordMsg)
}

// VerifyEmail confirms the address with the token from the verification email and marks
// the current user, if any, as verified.
func (s *Service) VerifyEmail(ctx context.Context, verificationToken string) (result Result) {
	defer s.recover("VerifyEmail", VerifyEmailFailedMsg, &result)

	result = s.passThrough(ctx, &apiclient.Request{
		Method: http.MethodGet,
		Path:   VerifyEmailPath + url.PathEscape(verificationToken),
	}, VerifyEmailFailedMsg)
	if !result.Success {
		return result
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		verified := true
		s.user = s.user.Apply(users.Patch{IsEmailVerified: &verified})
		s.store.SaveUser(s.user)
		result.User = s.user.Clone()
	}
	return result
}

// ResendVerification emails a new verification link to the current user
func (s *Service) ResendVerification(ctx context.Context) (result Result) {
	defer s.recover("ResendVerification", ResendFailedMsg, &result)

	user := s.User()
	if user == nil || user.Email == "" {
		return Result{Error: NoUserEmailMsg}
	}

	return s.passThrough(ctx, &apiclient.Request{
		Method: http.MethodPost,
		Path:   ResendVerificationPath,
		Body:   apimodel.EmailRequest{Email: user.Email},
	}, ResendFailedMsg)
}

// ChangePassword changes the logged-in user's password
func (s *Service) ChangePassword(ctx context.Context, currentPassword, newPassword string) (result Result) {
	defer s.recover("ChangePassword", ChangePasswordMsg, &result)

	return s.passThrough(ctx, &apiclient.Request{
		Method: http.MethodPost,
		Path:   ChangePasswordPath,
		Body:   apimodel.ChangePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword},
	}, ChangePasswordMsg)
}

// UpdateUser merges a locally known change into the current user and persists it. The
// backend is not called.
func (s *Service) UpdateUser(patch users.Patch) (result Result) {
	defer s.recover("UpdateUser", NoUserMsg, &result)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return Result{Error: NoUserMsg}
	}
	s.user = s.user.Apply(patch)
	s.store.SaveUser(s.user)
	return Result{Success: true, User: s.user.Clone()}
}

func (s *Service) passThrough(ctx context.Context, req *apiclient.Request, defaultMsg string) Result {
	var resp apimodel.MessageResponse
	if err := s.client.DoJSON(ctx, req, &resp); err != nil {
		s.logger.Debug().Err(err).Str("path", req.Path).Msg("auth request failed")
		return failed(err, defaultMsg)
	}
	return Result{Success: true, Message: resp.Message}
}

// establish persists a login or signup response and makes it the current session
func (s *Service) establish(resp apimodel.AuthResponse) error {
	if resp.AccessToken == "" || resp.RefreshToken == "" || resp.User == nil {
		return errIncompleteResponse
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Save(resp.AccessToken, resp.RefreshToken, resp.User)
	s.user = resp.User.Clone()
	return nil
}

func (s *Service) endSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Clear()
	s.user = nil
}

func (s *Service) setUser(user *users.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// recover turns a panic inside an operation into a failed Result
func (s *Service) recover(operation, defaultMsg string, result *Result) {
	if r := recover(); r != nil {
		s.logger.Error().Interface("panic", r).Str("operation", operation).Msg("auth operation panicked")
		*result = Result{Error: defaultMsg}
	}
}

func failed(err error, defaultMsg string) Result {
	if msg := apiclient.ErrorMessage(err); msg != "" {
		return Result{Error: msg}
	}
	return Result{Error: defaultMsg}
}
