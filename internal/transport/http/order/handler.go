package order

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/hiretrack/internal/dto"
	"github.com/Additional-Code/hiretrack/internal/entity"
	form "github.com/Additional-Code/hiretrack/internal/form/order"
	"github.com/Additional-Code/hiretrack/internal/presentation/http/response"
	service "github.com/Additional-Code/hiretrack/internal/service/order"
	"github.com/Additional-Code/hiretrack/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/hiretrack/transport/http/order")

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/orders")
	g.GET("", h.list)
	g.POST("", h.create)
	g.POST("/validate", h.validate)
	g.GET("/overdue", h.overdue)
	g.GET("/:id", h.getByID)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.list")
	defer span.End()

	orders, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithCount(len(orders)).WithData(toDTOs(orders)).Build()
}

func (h *Handler) overdue(c echo.Context) error {
	b := response.New(c)

	asOf := entity.Today()
	if raw := c.QueryParam("as_of"); raw != "" {
		parsed, err := entity.ParseDate(raw)
		if err != nil {
			return b.WithError(errorbank.BadRequest("as_of must be formatted as YYYY-MM-DD", errorbank.WithCause(err))).Build()
		}
		asOf = parsed
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.overdue", trace.WithAttributes(
		attribute.String("order.as_of", asOf.String()),
	))
	defer span.End()

	orders, err := h.svc.Overdue(ctx, asOf)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithCount(len(orders)).WithMeta("as_of", asOf.String()).WithData(toDTOs(orders)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(order)).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.OrderForm
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create")
	defer span.End()

	order, err := h.svc.Submit(ctx, formFrom(payload))
	if err != nil {
		return b.WithError(err).Build()
	}

	span.SetAttributes(attribute.Int64("order.id", order.ID))
	return b.WithStatus(http.StatusCreated).WithData(toDTO(order)).Build()
}

// validate reports errors only for the fields listed in touched, the way a
// form shows an error once the user has edited that field.
func (h *Handler) validate(c echo.Context) error {
	b := response.New(c)

	var payload dto.ValidateOrderRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	f := form.New()
	fill(f, payload.OrderForm, false)
	for _, name := range payload.Touched {
		field, ok := form.ParseField(name)
		if !ok {
			return b.WithError(errorbank.BadRequest("unknown field", errorbank.WithDetail("field", name))).Build()
		}
		f.Touch(field)
	}

	_, all := f.Build()
	visible := f.VisibleErrors()
	return b.WithData(dto.ValidateOrderResponse{
		Valid:  len(all) == 0,
		Errors: visible.Strings(),
	}).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}
	return b.NoContent()
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errorbank.BadRequest("invalid id", errorbank.WithCause(err))
	}
	return id, nil
}

func formFrom(payload dto.OrderForm) *form.OrderForm {
	f := form.New()
	fill(f, payload, true)
	return f
}

// fill copies payload values into f. When touch is false the values are
// stored without revealing their errors.
func fill(f *form.OrderForm, payload dto.OrderForm, touch bool) {
	values := map[form.Field]string{
		form.FieldCustomerName:  string(payload.CustomerName),
		form.FieldReceiptNumber: string(payload.ReceiptNumber),
		form.FieldItemHired:     string(payload.ItemHired),
		form.FieldHowMany:       string(payload.HowMany),
		form.FieldHiredOn:       string(payload.HiredOn),
		form.FieldReturnOn:      string(payload.ReturnOn),
	}
	for _, field := range form.Fields {
		f.Set(field, values[field])
	}
	if !touch {
		f.Hide()
	}
}

func toDTO(order *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:            order.ID,
		CustomerName:  order.CustomerName,
		ReceiptNumber: order.ReceiptNumber,
		ItemHired:     order.ItemHired,
		HowMany:       order.HowMany,
		HiredOn:       order.HiredOn.String(),
		ReturnOn:      order.ReturnOn.String(),
		BoxesNeeded:   order.BoxesNeeded,
		RaffleNumber:  order.RaffleNumber,
	}
}

func toDTOs(orders []entity.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toDTO(&orders[i]))
	}
	return out
}
