package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"mclub-backend/database"
	"mclub-backend/internal/models"
	"mclub-backend/internal/services"
)

const testJWTSecret = "router-test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type RouterTestSuite struct {
	suite.Suite
	db     *sql.DB
	router *gin.Engine
	token  string
	admin  *models.Member
}

func (s *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	s.Require().NoError(err)
	// a single conn keeps every query on the same in-memory database
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(db))
	s.T().Cleanup(func() { db.Close() })
	s.db = db

	s.router = NewRouter(db, RouterConfig{
		JWTSecret:       testJWTSecret,
		JWTExpiration:   3600,
		AllowAllOrigins: true,
	})

	admin, err := services.NewMemberService(db).CreateMember(&models.MemberCreate{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: "password123",
	})
	s.Require().NoError(err)
	s.admin = admin

	token, err := services.NewAuthService(db, testJWTSecret, 3600).GenerateToken(admin)
	s.Require().NoError(err)
	s.token = token
}

func (s *RouterTestSuite) request(method, path string, body interface{}, authenticated bool) (*httptest.ResponseRecorder, *envelope) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	resp := &envelope{}
	if w.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), resp))
	}
	return w, resp
}

func (s *RouterTestSuite) createMember(name, email string) *models.Member {
	w, resp := s.request(http.MethodPost, "/api/v1/members", gin.H{
		"name":     name,
		"email":    email,
		"password": "password123",
	}, true)
	s.Require().Equal(http.StatusCreated, w.Code)

	member := &models.Member{}
	s.Require().NoError(json.Unmarshal(resp.Data, member))
	return member
}

func (s *RouterTestSuite) TestHealthIsPublic() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterTestSuite) TestProtectedRoutesRequireToken() {
	w, resp := s.request(http.MethodGet, "/api/v1/members", nil, false)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.False(resp.Success)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	s.Equal(http.StatusUnauthorized, recorder.Code)
}

func (s *RouterTestSuite) TestLogin() {
	w, resp := s.request(http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "admin@example.com",
		"password": "password123",
	}, false)
	s.Equal(http.StatusOK, w.Code)
	s.True(resp.Success)

	var data struct {
		Token  string         `json:"token"`
		Member *models.Member `json:"member"`
	}
	s.Require().NoError(json.Unmarshal(resp.Data, &data))
	s.NotEmpty(data.Token)
	s.Equal(s.admin.ID, data.Member.ID)

	w, _ = s.request(http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "admin@example.com",
		"password": "wrong-password",
	}, false)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterTestSuite) TestMemberLifecycle() {
	member := s.createMember("Jane Wambui", "jane@example.com")
	s.Contains(member.ID, "MBR-")

	w, resp := s.request(http.MethodGet, "/api/v1/members/"+member.ID, nil, true)
	s.Equal(http.StatusOK, w.Code)
	loaded := &models.Member{}
	s.Require().NoError(json.Unmarshal(resp.Data, loaded))
	s.Equal("Jane Wambui", loaded.Name)

	w, resp = s.request(http.MethodPut, "/api/v1/members/"+member.ID, gin.H{
		"phone": "0711223344",
	}, true)
	s.Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(resp.Data, loaded))
	s.Equal("0711223344", loaded.Phone)

	w, _ = s.request(http.MethodDelete, "/api/v1/members/"+member.ID, nil, true)
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.request(http.MethodGet, "/api/v1/members/"+member.ID, nil, true)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterTestSuite) TestSearchMembers() {
	s.createMember("Findable Person", "findable@example.com")

	w, resp := s.request(http.MethodGet, "/api/v1/members/search?q=findable", nil, true)
	s.Equal(http.StatusOK, w.Code)

	var members []*models.Member
	s.Require().NoError(json.Unmarshal(resp.Data, &members))
	s.Require().Len(members, 1)
	s.Equal("Findable Person", members[0].Name)
}

func (s *RouterTestSuite) TestContributionFlow() {
	member := s.createMember("Saver", "saver@example.com")

	w, resp := s.request(http.MethodPost, "/api/v1/contributions", gin.H{
		"memberId": member.ID,
		"amount":   "250.75",
		"date":     "2024-03-01",
	}, true)
	s.Require().Equal(http.StatusCreated, w.Code)

	entry := &models.Transaction{}
	s.Require().NoError(json.Unmarshal(resp.Data, entry))
	s.Equal(models.TransactionTypeContribution, entry.Type)
	s.True(entry.Amount.Equal(decimal.RequireFromString("250.75")))

	w, resp = s.request(http.MethodGet, "/api/v1/members/"+member.ID, nil, true)
	s.Require().Equal(http.StatusOK, w.Code)
	loaded := &models.Member{}
	s.Require().NoError(json.Unmarshal(resp.Data, loaded))
	s.True(loaded.TotalContribution.Equal(decimal.RequireFromString("250.75")))
}

func (s *RouterTestSuite) TestCreateTransactionRejectsLoanEffectTypes() {
	member := s.createMember("Direct", "direct@example.com")

	w, resp := s.request(http.MethodPost, "/api/v1/transactions", gin.H{
		"memberId": member.ID,
		"type":     "LOAN_REPAYMENT",
		"amount":   "100",
		"date":     "2024-03-01",
	}, true)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(resp.Error, "loan operations")
}

func (s *RouterTestSuite) TestLoanLifecycle() {
	member := s.createMember("Borrower", "borrower@example.com")

	w, resp := s.request(http.MethodPost, "/api/v1/loans", gin.H{
		"borrowerId":     member.ID,
		"originalAmount": "1200",
		"termMonths":     12,
		"startDate":      "2024-01-01",
	}, true)
	s.Require().Equal(http.StatusCreated, w.Code)

	loan := &models.Loan{}
	s.Require().NoError(json.Unmarshal(resp.Data, loan))
	s.Equal(models.LoanStatusActive, loan.Status)
	s.True(loan.RemainingBalance.Equal(decimal.NewFromInt(1200)))

	// a second active loan for the same borrower conflicts
	w, _ = s.request(http.MethodPost, "/api/v1/loans", gin.H{
		"borrowerId":     member.ID,
		"originalAmount": "500",
		"termMonths":     5,
		"startDate":      "2024-02-01",
	}, true)
	s.Equal(http.StatusConflict, w.Code)

	w, resp = s.request(http.MethodPost, "/api/v1/loans/"+loan.ID+"/payment", gin.H{
		"amount": "1200",
		"date":   "2024-06-01",
	}, true)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(resp.Data, loan))
	s.Equal(models.LoanStatusPaid, loan.Status)
	s.True(loan.RemainingBalance.IsZero())

	// payments on a settled loan are rejected
	w, _ = s.request(http.MethodPost, "/api/v1/loans/"+loan.ID+"/payment", gin.H{
		"amount": "50",
		"date":   "2024-07-01",
	}, true)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *RouterTestSuite) TestMarkLoanDefaulted() {
	member := s.createMember("Defaulter", "defaulter@example.com")

	w, resp := s.request(http.MethodPost, "/api/v1/loans", gin.H{
		"borrowerId":     member.ID,
		"originalAmount": "800",
		"termMonths":     8,
		"startDate":      "2024-01-01",
	}, true)
	s.Require().Equal(http.StatusCreated, w.Code)
	loan := &models.Loan{}
	s.Require().NoError(json.Unmarshal(resp.Data, loan))

	w, resp = s.request(http.MethodPost, "/api/v1/loans/"+loan.ID+"/default", nil, true)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(resp.Data, loan))
	s.Equal(models.LoanStatusDefaulted, loan.Status)
}

func (s *RouterTestSuite) TestTransactionFilters() {
	member := s.createMember("Filtered", "filtered@example.com")

	for _, body := range []gin.H{
		{"memberId": member.ID, "type": "CONTRIBUTION", "amount": "100", "date": "2024-01-10"},
		{"memberId": member.ID, "type": "FEE", "amount": "20", "date": "2024-01-15"},
	} {
		w, _ := s.request(http.MethodPost, "/api/v1/transactions", body, true)
		s.Require().Equal(http.StatusCreated, w.Code)
	}

	w, resp := s.request(http.MethodGet, "/api/v1/transactions?type=FEE", nil, true)
	s.Equal(http.StatusOK, w.Code)
	var entries []*models.Transaction
	s.Require().NoError(json.Unmarshal(resp.Data, &entries))
	s.Require().Len(entries, 1)
	s.Equal(models.TransactionTypeFee, entries[0].Type)

	w, _ = s.request(http.MethodGet, "/api/v1/transactions?type=BOGUS", nil, true)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterTestSuite) TestYearlyContributions() {
	member := s.createMember("Yearly", "yearly@example.com")

	for _, body := range []gin.H{
		{"memberId": member.ID, "amount": "100", "date": "2023-05-01"},
		{"memberId": member.ID, "amount": "200", "date": "2024-05-01"},
	} {
		w, _ := s.request(http.MethodPost, "/api/v1/contributions", body, true)
		s.Require().Equal(http.StatusCreated, w.Code)
	}

	w, resp := s.request(http.MethodGet, "/api/v1/members/"+member.ID+"/contributions/yearly", nil, true)
	s.Equal(http.StatusOK, w.Code)

	var yearly map[string]decimal.Decimal
	s.Require().NoError(json.Unmarshal(resp.Data, &yearly))
	s.True(yearly["2023"].Equal(decimal.NewFromInt(100)))
	s.True(yearly["2024"].Equal(decimal.NewFromInt(200)))
}

func (s *RouterTestSuite) TestDashboard() {
	member := s.createMember("Stats", "stats@example.com")
	w, _ := s.request(http.MethodPost, "/api/v1/contributions", gin.H{
		"memberId": member.ID, "amount": "500", "date": "2024-01-01",
	}, true)
	s.Require().Equal(http.StatusCreated, w.Code)

	w, resp := s.request(http.MethodGet, "/api/v1/stats/dashboard", nil, true)
	s.Equal(http.StatusOK, w.Code)

	stats := &models.DashboardStats{}
	s.Require().NoError(json.Unmarshal(resp.Data, stats))
	s.Equal(2, stats.TotalMembers) // admin plus the new member
	s.True(stats.TotalFund.Equal(decimal.NewFromInt(500)))
}

func (s *RouterTestSuite) TestCommunications() {
	member := s.createMember("Contact", "contact@example.com")

	w, resp := s.request(http.MethodPost, "/api/v1/communications", gin.H{
		"memberId": member.ID,
		"type":     "Note",
		"content":  "Welcome call completed",
	}, true)
	s.Require().Equal(http.StatusCreated, w.Code)

	entry := &models.CommunicationLog{}
	s.Require().NoError(json.Unmarshal(resp.Data, entry))
	s.Contains(entry.ID, "LOG-")

	w, resp = s.request(http.MethodGet, "/api/v1/communications?memberId="+member.ID, nil, true)
	s.Equal(http.StatusOK, w.Code)
	var logs []*models.CommunicationLog
	s.Require().NoError(json.Unmarshal(resp.Data, &logs))
	s.Len(logs, 1)
}

func (s *RouterTestSuite) TestErrorEnvelopeShape() {
	w, resp := s.request(http.MethodGet, "/api/v1/members/MBR-missing", nil, true)
	s.Equal(http.StatusNotFound, w.Code)
	s.False(resp.Success)
	s.NotEmpty(resp.Error)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
