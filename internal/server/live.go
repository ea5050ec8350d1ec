package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/litescript/ls-yantra/internal/instrument"
)

const liveWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// liveRequest builds the request for the current zone time.
func (s *Server) liveRequest(lat, lon, scale float64) instrument.Request {
	return instrument.ZoneRequest(s.now(), s.computer.Meridian(), lat, lon, scale)
}

// live streams a readout for the current time every live interval until
// the client disconnects.
func (s *Server) live(c echo.Context) error {
	kind, err := instrument.ParseKind(c.Param("type"))
	if err != nil {
		return s.fail(c, err)
	}

	var lat, lon float64
	scale := instrument.DefaultScaleM
	err = echo.QueryParamsBinder(c).
		MustFloat64("latitude", &lat).
		MustFloat64("longitude", &lon).
		Float64("scale_m", &scale).
		BindError()
	if err != nil {
		return s.fail(c, bindError(err))
	}

	// Reject bad input before the upgrade so it gets a plain HTTP error.
	first := s.liveRequest(lat, lon, scale)
	if _, _, err := first.Resolve(kind); err != nil {
		return s.fail(c, err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.log.Warn("live upgrade: %v", err)
		return nil
	}
	defer conn.Close()

	s.metrics.LiveConnected(1)
	defer s.metrics.LiveConnected(-1)

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// Client frames are ignored; a read error means the peer went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.liveInterval)
	defer ticker.Stop()

	for {
		if err := s.pushReadout(ctx, conn, kind, s.liveRequest(lat, lon, scale)); err != nil {
			s.log.Debug("live %s: %v", kind, err)
			return nil
		}
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(liveWriteWait))
			return nil
		case <-ticker.C:
		}
	}
}

// pushReadout writes one envelope to conn. Engine errors are sent to the
// client; only write failures are returned.
func (s *Server) pushReadout(ctx context.Context, conn *websocket.Conn, kind instrument.Kind, req instrument.Request) error {
	var msg Response
	data, err := s.readout(ctx, kind, req)
	if err != nil {
		s.metrics.EngineError(string(kind), errorClass(err))
		msg = toHTTPError(err).response()
	} else {
		msg = Response{Success: true, Data: json.RawMessage(data)}
	}

	if err := conn.SetWriteDeadline(time.Now().Add(liveWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
