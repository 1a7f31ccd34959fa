package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"expenses/database"
	"expenses/middleware"
	"expenses/models"
	"expenses/money"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	msgCreated       = "Despesa criada com sucesso!"
	msgDeleted       = "Despesa deletada com sucesso."
	msgRequired      = "Descrição e valor são obrigatórios."
	msgInvalidBody   = "Corpo da requisição inválido."
	msgInvalidAmount = "Valor inválido."
	msgIDRequired    = "ID da despesa é obrigatório."
	msgInvalidID     = "ID da despesa inválido."
	msgNotFound      = "Despesa não encontrada."
	msgCreateFailed  = "Erro ao criar despesa."
	msgListFailed    = "Erro ao buscar despesas."
	msgDeleteFailed  = "Erro ao deletar despesa."
)

// ExpenseStore persistence used by the expense endpoints
type ExpenseStore interface {
	Create(ctx context.Context, e *models.Expense) error
	List(ctx context.Context) ([]models.Expense, error)
	Delete(ctx context.Context, id uint) error
}

// ExpenseHandler expense endpoints
type ExpenseHandler struct {
	store ExpenseStore
}

// NewExpenseHandler creates the expense handler
func NewExpenseHandler(store ExpenseStore) *ExpenseHandler {
	return &ExpenseHandler{store: store}
}

// CreateExpenseRequest create body. Amount takes a JSON number or a numeric string.
type CreateExpenseRequest struct {
	Description string           `json:"description" example:"Café da tarde"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"number" example:"10.50"`
}

// Create records a new expense
// @Summary Create expense
// @Description Stores a new expense. The amount is converted to cents, rounding half away from zero.
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body CreateExpenseRequest true "expense"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "missing or invalid fields"
// @Failure 500 {object} ErrorResponse "storage error"
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, msgInvalidBody))
		return
	}

	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" || req.Amount == nil {
		BadRequest(c, msgRequired)
		return
	}

	cents, err := money.ToCents(*req.Amount)
	if err != nil {
		BadRequest(c, msgInvalidAmount)
		return
	}

	expense := models.Expense{
		Description: req.Description,
		Amount:      cents,
	}
	if err := h.store.Create(c.Request.Context(), &expense); err != nil {
		middleware.Logger(c).Error("create expense failed", "error", err)
		InternalError(c, msgCreateFailed)
		return
	}

	Created(c, msgCreated)
}

// List returns all expenses
// @Summary List expenses
// @Description All expenses, newest first. Amounts are integer cents.
// @Tags expenses
// @Produce json
// @Success 200 {array} models.Expense
// @Failure 500 {object} ErrorResponse "storage error"
// @Router /api/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	expenses, err := h.store.List(c.Request.Context())
	if err != nil {
		middleware.Logger(c).Error("list expenses failed", "error", err)
		InternalError(c, msgListFailed)
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	c.JSON(http.StatusOK, expenses)
}

// Delete removes one expense
// @Summary Delete expense
// @Tags expenses
// @Produce json
// @Param id path int true "expense id"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "missing or invalid id"
// @Failure 404 {object} ErrorResponse "no such expense"
// @Failure 500 {object} ErrorResponse "storage error"
// @Router /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	idParam := strings.TrimSpace(c.Param("id"))
	if idParam == "" {
		BadRequest(c, msgIDRequired)
		return
	}
	id, err := strconv.ParseUint(idParam, 10, 0)
	if err != nil || id == 0 {
		BadRequest(c, msgInvalidID)
		return
	}

	if err := h.store.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, database.ErrExpenseNotFound) {
			NotFound(c, msgNotFound)
			return
		}
		middleware.Logger(c).Error("delete expense failed", "id", id, "error", err)
		InternalError(c, msgDeleteFailed)
		return
	}

	OK(c, msgDeleted)
}
