package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"visitlog/internal/config"
	"visitlog/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
	codes       *services.CodeStore
	mailer      services.Mailer
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, codes *services.CodeStore, mailer services.Mailer, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		codes:       codes,
		mailer:      mailer,
		cfg:         cfg,
	}
}

// ShowLogin renders the login form
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"ErrorMessage": ""})
}

// ShowRegister renders the registration form
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"ErrorMessage": ""})
}

// CreateAccount registers a new inspector account
func (h *AuthHandler) CreateAccount(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	password2 := c.PostForm("password2")

	if password != password2 {
		c.HTML(http.StatusOK, "register.html", gin.H{"ErrorMessage": "Passwords do not match."})
		return
	}

	if _, err := h.authService.Register(email, password); err != nil {
		if errors.Is(err, services.ErrUserExists) {
			c.HTML(http.StatusOK, "register.html", gin.H{"ErrorMessage": "This user already exists."})
			return
		}
		log.Printf("Failed to create account for %s: %v", email, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Account creation failed."})
		return
	}

	c.HTML(http.StatusOK, "success-account.html", nil)
}

// CheckUser is the first login step: verify credentials, then email a
// one-time code and render the code-entry view.
func (h *AuthHandler) CheckUser(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	if _, err := h.authService.Authenticate(email, password); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.HTML(http.StatusOK, "login.html", gin.H{"ErrorMessage": "Invalid email or password."})
			return
		}
		log.Printf("Failed to authenticate %s: %v", email, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Login failed."})
		return
	}

	code, err := services.GenerateCode(h.codeLength(), services.CodeAlphabet)
	if err != nil {
		log.Printf("Failed to generate verification code: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Login failed."})
		return
	}
	h.codes.Issue(email, code, h.authService.CodeTTL())

	body := fmt.Sprintf("Your confirmation code is %s", code)
	if err := h.mailer.Send(email, "Visit log verification code", body); err != nil {
		log.Printf("Failed to send verification code to %s: %v", email, err)
		c.HTML(http.StatusBadGateway, "error.html", gin.H{"Message": "Could not send the verification email."})
		return
	}

	ticket, err := h.authService.IssueLoginTicket(email)
	if err != nil {
		log.Printf("Failed to issue login ticket for %s: %v", email, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Login failed."})
		return
	}

	maxAge := int(h.authService.CodeTTL().Seconds())
	c.SetCookie("code_verif", ticket, maxAge, "/", "", false, true)
	c.HTML(http.StatusOK, "verify_code.html", gin.H{"Email": email, "ErrorMessage": ""})
}

// VerifyCode is the second login step: check the login ticket and the
// submitted code, then issue a session and redirect to the visit list.
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	email := c.PostForm("email")
	code := c.PostForm("code")

	ticket, err := c.Cookie("code_verif")
	if err != nil || h.authService.CheckLoginTicket(ticket, email) != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{"ErrorMessage": "Code expired."})
		return
	}

	if err := h.codes.Consume(email, code); err != nil {
		if errors.Is(err, services.ErrCodeMismatch) {
			c.HTML(http.StatusOK, "verify_code.html", gin.H{"Email": email, "ErrorMessage": "Incorrect confirmation code."})
			return
		}
		c.HTML(http.StatusOK, "login.html", gin.H{"ErrorMessage": "Code expired."})
		return
	}

	user, err := h.authService.GetUserByEmail(email)
	if err != nil {
		log.Printf("Failed to load user %s after code verification: %v", email, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Login failed."})
		return
	}

	session, err := h.authService.CreateSession(user.ID)
	if err != nil {
		log.Printf("Failed to create session for %s: %v", email, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Login failed."})
		return
	}

	maxAge := int(h.authService.SessionTTL().Seconds())
	c.SetCookie("session_id", session.Token, maxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, "/visits")
}

func (h *AuthHandler) codeLength() int {
	if h.cfg.Login.CodeLength > 0 {
		return h.cfg.Login.CodeLength
	}
	return 5
}
