package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/trackops/startline/models"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, userID int, role string) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"login":   "someone",
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthenticateExposesClaims(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	var gotID int
	var gotRole models.UserRole
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		gotID, err = GetUserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("user ID from context: %v", err)
		}
		gotRole, err = GetUserRoleFromContext(r.Context())
		if err != nil {
			t.Errorf("role from context: %v", err)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 7, "judge"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotID != 7 {
		t.Errorf("user ID = %d, want 7", gotID)
	}
	if gotRole != models.RoleJudge {
		t.Errorf("role = %q, want judge", gotRole)
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	auth := NewAuthenticator(testSecret)
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a valid token")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuthorizeByRole(t *testing.T) {
	auth := NewAuthenticator(testSecret)
	handler := auth.Authenticate(auth.Authorize(models.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	))

	adminReq := httptest.NewRequest(http.MethodGet, "/", nil)
	adminReq.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, "admin"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminReq)
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}

	volunteerReq := httptest.NewRequest(http.MethodGet, "/", nil)
	volunteerReq.Header.Set("Authorization", "Bearer "+signTestToken(t, 2, "volunteer"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, volunteerReq)
	if rec.Code != http.StatusForbidden {
		t.Errorf("volunteer status = %d, want 403", rec.Code)
	}
}
