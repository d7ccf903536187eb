package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/rs/zerolog/log"

	"github.com/BrekotkinaKarina/coffee-track/core/inventory"
)

type InventoryService interface {
	SnapshotAll(ctx context.Context) ([]inventory.StockSnapshot, error)
	Ping(ctx context.Context) error

	SubscribeInventory(ch chan<- inventory.StockLevel) (id inventory.InventorySubID)
	UnsubscribeInventory(id inventory.InventorySubID)
}

type InventoryApi struct {
	service InventoryService
}

func NewInventoryApi(service InventoryService) *InventoryApi {
	return &InventoryApi{service: service}
}

func (a *InventoryApi) ConfigureRouter(r chi.Router) {
	r.Get("/", a.List)
	r.HandleFunc("/subscribe", a.Subscribe)
}

func (a *InventoryApi) List(w http.ResponseWriter, r *http.Request) {
	snapshots, err := a.service.SnapshotAll(r.Context())
	if err != nil {
		log.Err(err).Send()
		Render(w, r, ErrInternalServer)
		return
	}

	RenderList(w, r, NewStockSnapshotListResponse(snapshots))
}

// Subscribe streams ledger updates to the client over a websocket
// connection for as long as it stays connected.
func (a *InventoryApi) Subscribe(w http.ResponseWriter, r *http.Request) {
	log.Info().Msg("client requesting inventory subscription")

	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		log.Err(err).Msg("failed to establish inventory subscription connection")
		Render(w, r, ErrInternalServer)
		return
	}
	go func() {
		defer conn.Close()

		ch := make(chan inventory.StockLevel, 1)

		id := a.service.SubscribeInventory(ch)
		defer func() {
			a.service.UnsubscribeInventory(id)
		}()

		for level := range ch {
			body, err := json.Marshal(level)
			if err != nil {
				log.Err(err).Interface("clientId", id).Msg("failed to marshal stock level")
				continue
			}

			log.Debug().Interface("clientId", id).Interface("stockLevel", level).Msg("sending inventory update to client")
			if err = wsutil.WriteServerText(conn, body); err != nil {
				log.Err(err).Interface("clientId", id).Msg("failed to write server message, disconnecting client")
				return
			}
		}
	}()
}

type StockSnapshotResponse struct {
	inventory.StockSnapshot
}

func (r *StockSnapshotResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

func NewStockSnapshotListResponse(snapshots []inventory.StockSnapshot) []render.Renderer {
	list := make([]render.Renderer, 0, len(snapshots))
	for _, snapshot := range snapshots {
		snapshot := snapshot
		list = append(list, &StockSnapshotResponse{StockSnapshot: snapshot})
	}
	return list
}
