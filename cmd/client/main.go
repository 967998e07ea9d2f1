package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"territory-arena/internal/client"
	"territory-arena/internal/logger"
	"territory-arena/internal/protocol"
)

func main() {
	profile := flag.String("profile", "", "Profile name for separate config (e.g., player1, player2)")
	serverAddr := flag.String("server", "", "Server address (default: last used)")
	name := flag.String("name", "", "Player name (default: last used)")
	level := flag.String("log-level", "info", "Log level")
	flag.Parse()

	if _, err := logger.Init(logger.Options{Level: *level}); err != nil {
		log.Fatal().Err(err).Msg("init logger")
	}

	client.SetProfile(*profile)
	cfg, err := client.LoadConfig()
	if err != nil {
		log.Warn().Err(err).Msg("load config, using defaults")
	}
	if *serverAddr != "" {
		cfg.LastServer = *serverAddr
	}
	if *name != "" {
		cfg.PlayerName = *name
	}
	if cfg.PlayerName == "" {
		cfg.PlayerName = "Player"
	}

	var cfgMu sync.Mutex
	nc := client.NewNetworkClient()
	nc.OnMessage = func(msg *protocol.Message) {
		if msg.Type == protocol.TypeJoinedSession {
			var p protocol.JoinedSessionPayload
			if msg.ParsePayload(&p) == nil {
				cfgMu.Lock()
				cfg.LastSession = p.SessionID
				cfgMu.Unlock()
			}
		}
		client.LogMessage(log.Logger, msg)
	}
	nc.OnDisconnect = func(err error) {
		log.Warn().Err(err).Msg("disconnected")
	}

	if err := nc.Connect(context.Background(), cfg.LastServer); err != nil {
		log.Fatal().Err(err).Str("server", cfg.LastServer).Msg("connect")
	}
	defer nc.Disconnect()

	if err := cfg.Save(); err != nil {
		log.Warn().Err(err).Msg("save config")
	}

	fmt.Println(client.Usage)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if client.IsQuit(line) {
			break
		}
		msg, err := client.ParseCommand(line, cfg.PlayerName)
		if err != nil {
			if errors.Is(err, client.ErrUsage) {
				fmt.Println(err)
				continue
			}
			log.Error().Err(err).Msg("invalid command")
			continue
		}
		if err := nc.Send(msg); err != nil {
			log.Error().Err(err).Msg("send")
			if errors.Is(err, client.ErrNotConnected) {
				break
			}
		}
	}

	cfgMu.Lock()
	defer cfgMu.Unlock()
	if err := cfg.Save(); err != nil {
		log.Warn().Err(err).Msg("save config")
	}
}
