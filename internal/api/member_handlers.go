package api

import (
	"github.com/gin-gonic/gin"

	"mclub-backend/internal/models"
	"mclub-backend/internal/services"
)

// MemberHandlers exposes member CRUD and member-scoped reads
type MemberHandlers struct {
	members      *services.MemberService
	loans        *services.LoanService
	transactions *services.TransactionService
}

// NewMemberHandlers creates member handlers
func NewMemberHandlers(members *services.MemberService, loans *services.LoanService, transactions *services.TransactionService) *MemberHandlers {
	return &MemberHandlers{members: members, loans: loans, transactions: transactions}
}

// ListMembers handles GET /members
func (h *MemberHandlers) ListMembers(c *gin.Context) {
	members, err := h.members.ListMembers()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, members)
}

// SearchMembers handles GET /members/search?q=
func (h *MemberHandlers) SearchMembers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "q parameter is required")
		return
	}
	members, err := h.members.SearchMembers(query)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, members)
}

// GetMember handles GET /members/:id
func (h *MemberHandlers) GetMember(c *gin.Context) {
	member, err := h.members.GetMemberByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, member)
}

// CreateMember handles POST /members
func (h *MemberHandlers) CreateMember(c *gin.Context) {
	var req models.MemberCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	member, err := h.members.CreateMember(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, member)
}

// UpdateMember handles PUT /members/:id
func (h *MemberHandlers) UpdateMember(c *gin.Context) {
	var req models.MemberUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	member, err := h.members.UpdateMember(c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, member)
}

// DeleteMember handles DELETE /members/:id
func (h *MemberHandlers) DeleteMember(c *gin.Context) {
	if err := h.members.DeleteMember(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Member deleted"})
}

// GetMemberLoans handles GET /members/:id/loans
func (h *MemberHandlers) GetMemberLoans(c *gin.Context) {
	memberID := c.Param("id")
	if _, err := h.members.GetMemberByID(memberID); err != nil {
		respondError(c, err)
		return
	}
	loans, err := h.loans.GetLoansByMember(memberID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, loans)
}

// GetMemberTransactions handles GET /members/:id/transactions
func (h *MemberHandlers) GetMemberTransactions(c *gin.Context) {
	memberID := c.Param("id")
	if _, err := h.members.GetMemberByID(memberID); err != nil {
		respondError(c, err)
		return
	}
	transactions, err := h.transactions.GetTransactionsByMember(memberID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, transactions)
}

// GetYearlyContributions handles GET /members/:id/contributions/yearly
func (h *MemberHandlers) GetYearlyContributions(c *gin.Context) {
	history, err := h.members.YearlyContributions(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, history)
}
