// Package mcclient is the session transport backed by go-mc's Java edition
// client.
package mcclient

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Tnze/go-mc/bot"
	"github.com/Tnze/go-mc/bot/basic"
	"github.com/Tnze/go-mc/chat"
	"github.com/Tnze/go-mc/data/packetid"
	pk "github.com/Tnze/go-mc/net/packet"
	"go.uber.org/zap"

	qbot "github.com/jirwin/qbot/pkg/bot"
	"github.com/jirwin/qbot/pkg/config"
	"github.com/jirwin/qbot/pkg/mcdata"
	"github.com/jirwin/qbot/pkg/session"
)

type Config struct {
	Address  string
	Username string
}

func NewConfig(c config.Server) (Config, error) {
	cc := Config{
		Address:  c.Address(),
		Username: c.Username,
	}

	if addr := os.Getenv("QBOT_SERVER_ADDR"); addr != "" {
		cc.Address = addr
	}

	return cc, nil
}

type Session struct {
	*session.Base

	l      *zap.Logger
	client *bot.Client
	player *basic.Player
}

// Dial joins the server and returns a session whose events fire once Run is
// called. go-mc's login does not take a context, so ctx is checked before and
// after joining.
func Dial(ctx context.Context, c Config, l *zap.Logger) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err := mcdata.ByProtocol(int32(bot.ProtocolVersion))
	if err != nil {
		return nil, err
	}

	client := bot.NewClient()
	client.Auth.Name = c.Username

	s := &Session{
		client: client,
	}
	s.Base = session.NewBase(c.Username, v.Name, s.sendChat)
	s.l = l.Named("mcclient").With(zap.String("session_id", s.ID()))
	s.player = basic.NewPlayer(client, basic.DefaultSettings)

	basic.EventsListener{
		GameStart:  s.onGameStart,
		Disconnect: s.onDisconnect,
	}.Attach(client)

	s.l.Info("joining server", zap.String("address", c.Address), zap.String("version", v.Name))
	if err := client.JoinServer(c.Address); err != nil {
		return nil, fmt.Errorf("joining %s: %w", c.Address, err)
	}
	if err := ctx.Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return s, nil
}

// Run handles game packets until the connection ends.
func (s *Session) Run() error {
	return s.client.HandleGame()
}

func (s *Session) Close() error {
	return s.client.Conn.Close()
}

func (s *Session) sendChat(text string) error {
	return s.client.Conn.WritePacket(pk.Marshal(packetid.ChatServerbound, pk.String(text)))
}

func (s *Session) onGameStart() error {
	s.Spawned()
	return nil
}

func (s *Session) onDisconnect(reason chat.Message) error {
	payload, err := json.Marshal(reason)
	if err != nil {
		s.l.Warn("unable to encode kick reason", zap.Error(err))
		payload = []byte("{}")
	}

	s.Kicked(string(payload), true)
	return nil
}

// Connector dials a new go-mc session for every qbot session.
func Connector(c Config, l *zap.Logger) qbot.Connector {
	return qbot.ConnectorFunc(func(ctx context.Context) (qbot.Conn, error) {
		s, err := Dial(ctx, c, l)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
