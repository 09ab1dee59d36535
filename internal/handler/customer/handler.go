package customer

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/salon-api/internal/handler"
	"github.com/jwalitptl/salon-api/internal/model"
	customerService "github.com/jwalitptl/salon-api/internal/service/customer"
	"github.com/jwalitptl/salon-api/pkg/httputil"
)

type Handler struct {
	service customerService.CustomerServicer
}

func NewHandler(service customerService.CustomerServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	customers := r.Group("/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)
	}
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var req model.CustomerRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	customer, err := h.service.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, customer)
}

func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.service.ListCustomers(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, customers)
}

func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := handler.ParseID(c, "customer")
	if !ok {
		return
	}

	customer, err := h.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, customer)
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, ok := handler.ParseID(c, "customer")
	if !ok {
		return
	}
	var req model.CustomerRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	customer, err := h.service.UpdateCustomer(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, customer)
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := handler.ParseID(c, "customer")
	if !ok {
		return
	}

	if err := h.service.DeleteCustomer(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithDeleted(c)
}
