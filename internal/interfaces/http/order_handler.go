package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocery-api/internal/application/dto"
	"github.com/jhoicas/grocery-api/internal/application/order"
)

// CheckoutMessage cuerpo de texto de una compra exitosa.
const CheckoutMessage = "Items bought and database updated!"

// OrderHandler compra y historial del cliente.
type OrderHandler struct {
	uc *order.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Buy godoc
// @Summary      Comprar el carrito
// @Description  Todo o nada: crea la orden, sus líneas y descuenta stock. El ID de la orden va en X-Order-ID.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      plain
// @Param        body  body  dto.CheckoutRequest  true  "Ítems del carrito"
// @Success      200   {string}  string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /buy-items [post]
func (h *OrderHandler) Buy(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	orderID, err := h.uc.Checkout(c.UserContext(), GetUsername(c), in)
	if err != nil {
		return respondError(c, err)
	}
	c.Set("X-Order-ID", strconv.FormatInt(orderID, 10))
	return c.SendString(CheckoutMessage)
}

// History godoc
// @Summary      Historial de órdenes del usuario
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/user/order-history [get]
func (h *OrderHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), GetUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
