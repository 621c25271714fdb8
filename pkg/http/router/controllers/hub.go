package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/lintang-b-s/cityroute/pkg"
	helper "github.com/lintang-b-s/cityroute/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

var errMalformedFrame = errors.New("request frame is not valid json")

// User one websocket connection. Every text frame is a shortest path request answered with one envelope.
type User struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub
}

func (u *User) GetID() uint {
	return u.id
}

func (u *User) readRequest() (*shortestPathRequest, error) {
	u.io.Lock()
	defer u.io.Unlock()

	h, r, err := wsutil.NextReader(u.conn, ws.StateServerSide)
	if err != nil {
		return nil, err
	}
	if h.OpCode.IsControl() {
		return nil, wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r)
	}

	req := &shortestPathRequest{}
	decodeErr := json.NewDecoder(r).Decode(req)
	// the next frame header starts after this payload
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedFrame, decodeErr)
	}
	return req, nil
}

// ShortestPath reads one request and writes its answer. A returned error means the connection is unusable.
func (u *User) ShortestPath(ctx context.Context) error {
	req, err := u.readRequest()
	if errors.Is(err, errMalformedFrame) {
		return u.write(helper.NewErrorEnvelope(http.StatusBadRequest, err.Error()))
	}
	if err != nil {
		return err
	}

	if req == nil {
		return nil
	}

	if err := u.hub.validator.Struct(req); err != nil {
		return u.write(helper.NewErrorEnvelope(http.StatusBadRequest, err.Error()))
	}

	route, err := u.hub.routingService.ShortestPath(ctx, req.OriginLat, req.OriginLon,
		req.DestinationLat, req.DestinationLon, pkg.ParseTravelMode(req.Mode))
	if err != nil {
		status := StatusCode(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			u.hub.log.Error("websocket shortest path", zap.Error(err))
			msg = "internal server error"
		}
		return u.write(helper.NewErrorEnvelope(status, msg))
	}

	return u.write(envelope{"data": NewShortestPathResponse(route)})
}

func (u *User) write(x interface{}) error {
	w := wsutil.NewWriter(u.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	u.io.Lock()
	defer u.io.Unlock()

	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

type Hub struct {
	mu  sync.RWMutex
	seq uint
	us  []*User
	ns  map[uint]*User

	routingService RoutingService
	validator      *requestValidator
	log            *zap.Logger
}

func NewHub(routingService RoutingService, log *zap.Logger) *Hub {
	return &Hub{
		ns:             make(map[uint]*User),
		us:             make([]*User, 0),
		routingService: routingService,
		validator:      newRequestValidator(),
		log:            log,
	}
}

func (h *Hub) Register(conn io.ReadWriteCloser) *User {
	user := &User{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.us = append(h.us, user)

	h.seq++
	h.mu.Unlock()

	return user
}

// Remove closes the user connection and forgets it.
func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.ns[user.id]; !ok {
		return
	}
	delete(h.ns, user.id)

	// us is sorted by id
	i := sort.Search(len(h.us), func(i int) bool {
		return h.us[i].id >= user.id
	})

	newUs := make([]*User, len(h.us)-1)
	copy(newUs[:i], h.us[:i])
	copy(newUs[i:], h.us[i+1:])
	h.us = newUs

	user.conn.Close()
}

func (h *Hub) NumberOfUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.us)
}

func (h *Hub) RemoveAllUser() {
	h.mu.RLock()
	users := make([]*User, len(h.us))
	copy(users, h.us)
	h.mu.RUnlock()

	for _, user := range users {
		h.Remove(user)
	}
}

// Serve answers requests of user until the connection fails or ctx is done.
func (h *Hub) Serve(ctx context.Context, user *User) {
	defer h.Remove(user)
	for ctx.Err() == nil {
		if err := user.ShortestPath(ctx); err != nil {
			h.log.Debug("websocket user disconnected", zap.Uint("user", user.id), zap.Error(err))
			return
		}
	}
}
