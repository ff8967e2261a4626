package handler

import (
	"github.com/labstack/echo/v4"

	"ikam/internal/usecase"
	"ikam/pkg/response"
)

type SupportHandler struct {
	supportUseCase *usecase.SupportUseCase
}

func NewSupportHandler(supportUseCase *usecase.SupportUseCase) *SupportHandler {
	return &SupportHandler{
		supportUseCase: supportUseCase,
	}
}

type askQuestionRequest struct {
	Email string `json:"correo" validate:"required,email"`
	Text  string `json:"pregunta" validate:"required,notblank,max=1000"`
}

type supportTicketRequest struct {
	Email   string `json:"correo" validate:"required,email"`
	Subject string `json:"asunto" validate:"required,notblank,max=200"`
	Message string `json:"mensaje" validate:"required,notblank,max=4000"`
}

func (h *SupportHandler) ListQuestions(c echo.Context) error {
	questions, err := h.supportUseCase.ListQuestions(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, questions)
}

func (h *SupportHandler) AskQuestion(c echo.Context) error {
	var req askQuestionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	question, err := h.supportUseCase.AskQuestion(c.Request().Context(), req.Email, req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, question)
}

func (h *SupportHandler) OpenTicket(c echo.Context) error {
	var req supportTicketRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ticket, err := h.supportUseCase.OpenSupportTicket(c.Request().Context(), req.Email, req.Subject, req.Message)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, ticket)
}
