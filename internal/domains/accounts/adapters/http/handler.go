// Package http exposes the accounts directory over gin.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-letters/fulfillment/internal/domains/accounts/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/accounts/ports"
	sharederrors "github.com/inkwell-letters/fulfillment/internal/shared/errors"
)

// AccountsAPI wires HTTP transport with the accounts directory.
type AccountsAPI struct {
	service   ports.Service
	responder *sharederrors.ChainedResponder
}

func NewAccountsAPI(service ports.Service, responder *sharederrors.ChainedResponder) *AccountsAPI {
	return &AccountsAPI{service: service, responder: responder}
}

// Register mounts the account routes on the group.
func (api *AccountsAPI) Register(rg *gin.RouterGroup) {
	rg.POST("/accounts", api.CreateAccount)
	rg.GET("/accounts", api.ListAccounts)
	rg.GET("/accounts/:accountId", api.GetAccount)
	rg.PUT("/accounts/:accountId/contact", api.UpdateContact)
	rg.PUT("/accounts/:accountId/rate", api.SetWriterRate)
}

type createAccountRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Role             string `json:"role" binding:"required"`
	PerPageRateCents int64  `json:"per_page_rate_cents"`
}

// Post /v1/accounts
func (api *AccountsAPI) CreateAccount(c *gin.Context) {
	var payload createAccountRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	account, err := api.service.CreateAccount(c.Request.Context(), ports.CreateAccountInput{
		Name:             payload.Name,
		Email:            payload.Email,
		Phone:            payload.Phone,
		Role:             domain.Role(payload.Role),
		PerPageRateCents: payload.PerPageRateCents,
	})
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAccountResponse(account))
}

// Get /v1/accounts
func (api *AccountsAPI) ListAccounts(c *gin.Context) {
	var (
		accounts []*domain.Account
		err      error
	)
	if role := c.Query("role"); role != "" {
		accounts, err = api.service.ListByRole(c.Request.Context(), domain.Role(role))
	} else {
		accounts, err = api.service.ListAccounts(c.Request.Context())
	}
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	list := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		list = append(list, toAccountResponse(account))
	}
	c.JSON(http.StatusOK, list)
}

// Get /v1/accounts/:accountId
func (api *AccountsAPI) GetAccount(c *gin.Context) {
	account, err := api.service.GetAccount(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(account))
}

type updateContactRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Put /v1/accounts/:accountId/contact
func (api *AccountsAPI) UpdateContact(c *gin.Context) {
	var payload updateContactRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	account, err := api.service.UpdateContact(c.Request.Context(), c.Param("accountId"), payload.Email, payload.Phone)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(account))
}

type setRateRequest struct {
	PerPageRateCents int64 `json:"per_page_rate_cents" binding:"required"`
}

// Put /v1/accounts/:accountId/rate
func (api *AccountsAPI) SetWriterRate(c *gin.Context) {
	var payload setRateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	account, err := api.service.SetWriterRate(c.Request.Context(), c.Param("accountId"), payload.PerPageRateCents)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(account))
}

type accountResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Role             string `json:"role"`
	PerPageRateCents int64  `json:"per_page_rate_cents,omitempty"`
}

func toAccountResponse(account *domain.Account) accountResponse {
	return accountResponse{
		ID:               account.ID,
		Name:             account.Name,
		Email:            account.Email,
		Phone:            account.Phone,
		Role:             string(account.Role),
		PerPageRateCents: account.PerPageRateCents,
	}
}
