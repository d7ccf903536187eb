package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"

	"github.com/BrekotkinaKarina/coffee-track/core"
	"github.com/BrekotkinaKarina/coffee-track/core/inventory"
	"github.com/BrekotkinaKarina/coffee-track/core/menu"
	"github.com/BrekotkinaKarina/coffee-track/core/order"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, no order.NewOrder) (order.Order, []inventory.StockSnapshot, error)
	GetOrder(ctx context.Context, id string) (order.Order, error)
}

type OrderApi struct {
	service OrderService
}

func NewOrderApi(service OrderService) *OrderApi {
	return &OrderApi{service: service}
}

func (a *OrderApi) ConfigureRouter(r chi.Router) {
	r.Post("/", a.Create)
	r.Get("/{id}", a.Get)
}

func (a *OrderApi) Create(w http.ResponseWriter, r *http.Request) {
	data := &CreateOrderRequest{}
	if err := render.Bind(r, data); err != nil {
		Render(w, r, ErrInvalidRequest(err))
		return
	}

	no := order.NewOrder{CustomerName: data.CustomerName}
	for _, item := range data.Items {
		no.Items = append(no.Items, order.LineItem{
			CoffeeType: menu.CoffeeType(item.CoffeeType),
			Size:       menu.Size(item.Size),
			Quantity:   item.Quantity,
		})
	}

	o, snapshot, err := a.service.PlaceOrder(r.Context(), no)
	if err != nil {
		log.Err(err).Str("customerName", no.CustomerName).Msg("failed to place order")
		Render(w, r, ErrDomain(err))
		return
	}

	render.Status(r, http.StatusCreated)
	Render(w, r, NewOrderResponse(o, snapshot))
}

func (a *OrderApi) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		Render(w, r, ErrInvalidRequest(errors.New("order id is required")))
		return
	}

	o, err := a.service.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			Render(w, r, ErrNotFound)
		} else {
			log.Error().Err(err).Str("orderId", id).Msg("error acquiring order")
			Render(w, r, ErrInternalServer)
		}
		return
	}

	Render(w, r, NewOrderResponse(o, nil))
}
